package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsNotAvailable(t *testing.T) {
	assert.True(t, IsNotAvailable(3.55))
	assert.True(t, IsNotAvailable(float64(float32(3.55))))
	assert.False(t, IsNotAvailable(3.56))
	assert.False(t, IsNotAvailable(0))
}

func TestFlagFromSentinel(t *testing.T) {
	assert.True(t, FlagFromSentinel(Variable))
	assert.True(t, FlagFromSentinel(PrimaryTrue))
	assert.False(t, FlagFromSentinel(VariableNotAvailable))
	assert.False(t, FlagFromSentinel(PrimaryFalse))
}

func TestParseIDScheme(t *testing.T) {
	tests := []struct {
		in   string
		want IDScheme
	}{
		{"GAIA", Gaia},
		{"gaia", Gaia},
		{"", Gaia},
		{"TMASS", TMass},
		{"2mass", TMass},
		{"hat", HAT},
	}
	for _, tt := range tests {
		got, err := ParseIDScheme(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseIDScheme("sdss")
	assert.ErrorIs(t, err, ErrUnknownScheme)
}

func TestHAT_ParseFormat(t *testing.T) {
	id, err := HAT.Parse("123-0004567")
	require.NoError(t, err)
	assert.Equal(t, int64(4567123), id)
	assert.Equal(t, "123-0004567", HAT.Format(id))

	id2, err := HAT.Parse("HAT-199-1234567")
	require.NoError(t, err)
	assert.Equal(t, int64(1234567199), id2)
	assert.Equal(t, "199-1234567", HAT.Format(id2))

	_, err = HAT.Parse("12-345")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = HAT.Parse("abc-1234567")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestTMass_ParseFormat(t *testing.T) {
	id, err := TMass.Parse("12345678+1234567")
	require.NoError(t, err)
	assert.Equal(t, int64(1123456781234567), id)
	assert.Equal(t, "12345678+1234567", TMass.Format(id))

	neg, err := TMass.Parse("2MASS J00000123-8912345")
	require.NoError(t, err)
	assert.Equal(t, int64(2000001238912345), neg)
	assert.Equal(t, "00000123-8912345", TMass.Format(neg))

	_, err = TMass.Parse("12345678*1234567")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = TMass.Parse("1234")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestGaia_ParseFormat(t *testing.T) {
	id, err := Gaia.Parse(" 4295806720 ")
	require.NoError(t, err)
	assert.Equal(t, int64(4295806720), id)
	assert.Equal(t, "4295806720", Gaia.Format(id))

	_, err = Gaia.Parse("12x")
	assert.ErrorIs(t, err, ErrInvalidID)
	_, err = Gaia.Parse("-5")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestCrossIDEntry_Get(t *testing.T) {
	e := CrossIDEntry{Gaia: 1, TMass: 2, HAT: 3}
	assert.Equal(t, int64(1), e.Get(Gaia))
	assert.Equal(t, int64(2), e.Get(TMass))
	assert.Equal(t, int64(3), e.Get(HAT))
}

func TestMagLimits_IsZero(t *testing.T) {
	assert.True(t, MagLimits{}.IsZero())
	v := 12.0
	assert.False(t, MagLimits{RPMax: &v}.IsZero())
}
