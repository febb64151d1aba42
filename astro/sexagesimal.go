package astro

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrBadCoordinate is returned for a coordinate that is neither decimal
// degrees nor sexagesimal.
var ErrBadCoordinate = errors.New("invalid coordinate")

func splitSexagesimal(text string) (whole, minutes int, seconds float64, ok bool) {
	parts := strings.Split(text, ":")
	if len(parts) != 3 {
		return 0, 0, 0, false
	}
	w, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	s, err3 := strconv.ParseFloat(parts[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return 0, 0, 0, false
	}
	return w, m, s, true
}

// ParseRA parses a right ascension given in decimal degrees or as
// HH:MM:SS.sss. Hours wrap modulo 24.
func ParseRA(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	h, m, s, ok := splitSexagesimal(text)
	if !ok {
		return 0, fmt.Errorf("%w: ra %q", ErrBadCoordinate, text)
	}
	h %= 24
	if h < 0 {
		h += 24
	}
	return (float64(h) + (float64(m)+s/60)/60) * 15, nil
}

// ParseDec parses a declination given in decimal degrees or as
// [+-]DD:MM:SS.sss. The sign of the degrees field applies to the whole
// value, "-00" included.
func ParseDec(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if v, err := strconv.ParseFloat(text, 64); err == nil {
		return v, nil
	}
	d, m, s, ok := splitSexagesimal(text)
	if !ok {
		return 0, fmt.Errorf("%w: dec %q", ErrBadCoordinate, text)
	}
	frac := (float64(m) + s/60) / 60
	deg := math.Abs(float64(d))
	if d < 0 || strings.HasPrefix(text, "-") {
		return -(deg + frac), nil
	}
	return deg + frac, nil
}

// ParsePos parses "ra dec" or "ra,dec" with each part in either form
// accepted by ParseRA and ParseDec.
func ParsePos(text string) (ra, dec float64, err error) {
	fields := strings.FieldsFunc(text, func(r rune) bool { return r == ' ' || r == ',' || r == '\t' })
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: position %q", ErrBadCoordinate, text)
	}
	if ra, err = ParseRA(fields[0]); err != nil {
		return 0, 0, err
	}
	if dec, err = ParseDec(fields[1]); err != nil {
		return 0, 0, err
	}
	return ra, dec, nil
}

// ParseEpoch parses a Julian epoch in years, optionally prefixed with "J".
func ParseEpoch(text string) (float64, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(strings.TrimPrefix(text, "J"), "j")
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid epoch %q", text)
	}
	return v, nil
}
