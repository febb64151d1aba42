package astro

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRA(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"10.5", 10.5},
		{"00:00:00", 0},
		{"01:00:00", 15},
		{"12:30:00", 187.5},
		{"25:00:00", 15},
		{"00:00:36", 0.15},
	}
	for _, tt := range tests {
		got, err := ParseRA(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}

	for _, bad := range []string{"", "abc", "1:2", "1:x:3"} {
		_, err := ParseRA(bad)
		assert.ErrorIs(t, err, ErrBadCoordinate, bad)
	}
}

func TestParseDec(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"-5.25", -5.25},
		{"+10:30:00", 10.5},
		{"-10:30:00", -10.5},
		{"-00:30:00", -0.5},
		{"00:00:36", 0.01},
	}
	for _, tt := range tests {
		got, err := ParseDec(tt.in)
		require.NoError(t, err, tt.in)
		assert.InDelta(t, tt.want, got, 1e-12, tt.in)
	}

	_, err := ParseDec("north")
	assert.ErrorIs(t, err, ErrBadCoordinate)
}

func TestParsePos(t *testing.T) {
	ra, dec, err := ParsePos("10.0 5.0")
	require.NoError(t, err)
	assert.Equal(t, 10.0, ra)
	assert.Equal(t, 5.0, dec)

	ra, dec, err = ParsePos("01:00:00,-00:30:00")
	require.NoError(t, err)
	assert.InDelta(t, 15.0, ra, 1e-12)
	assert.InDelta(t, -0.5, dec, 1e-12)

	_, _, err = ParsePos("10.0")
	assert.ErrorIs(t, err, ErrBadCoordinate)
}

func TestParseEpoch(t *testing.T) {
	v, err := ParseEpoch("2025.5")
	require.NoError(t, err)
	assert.Equal(t, 2025.5, v)

	v, err = ParseEpoch("J2000")
	require.NoError(t, err)
	assert.Equal(t, 2000.0, v)

	_, err = ParseEpoch("soon")
	assert.Error(t, err)
}
