package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// IDScheme names one of the catalogs whose identifiers the cross-reference
// tables carry.
type IDScheme uint8

const (
	Gaia IDScheme = iota
	TMass
	HAT
)

// ErrInvalidID is returned when an identifier does not match its scheme's
// textual form.
var ErrInvalidID = errors.New("invalid identifier")

// ErrUnknownScheme is returned by ParseIDScheme for an unrecognized name.
var ErrUnknownScheme = errors.New("unknown identifier scheme")

// ParseIDScheme parses a scheme name. Matching is case-insensitive and
// accepts "2MASS" as an alias for TMASS.
func ParseIDScheme(name string) (IDScheme, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "GAIA", "":
		return Gaia, nil
	case "TMASS", "2MASS":
		return TMass, nil
	case "HAT":
		return HAT, nil
	}
	return Gaia, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// String returns the scheme's canonical name.
func (s IDScheme) String() string {
	switch s {
	case TMass:
		return "TMASS"
	case HAT:
		return "HAT"
	default:
		return "GAIA"
	}
}

// Label returns the name printed in headers and row prefixes.
func (s IDScheme) Label() string {
	switch s {
	case TMass:
		return "2MASS"
	case HAT:
		return "HAT"
	default:
		return "Gaia"
	}
}

// Parse converts an identifier's textual form into its packed int64.
//
// Gaia IDs are plain decimals. HAT IDs "NNN-NNNNNNN" pack as the decimal
// of the seven-digit field followed by the three-digit field. 2MASS IDs
// "HHMMSSss±DDMMSSs" pack as 1 ('+') or 2 ('-') followed by the 15 digits.
// Catalog prefixes ("HAT-", "2MASS ", "J") are accepted.
func (s IDScheme) Parse(text string) (int64, error) {
	text = strings.TrimSpace(text)
	switch s {
	case HAT:
		return parseHAT(text)
	case TMass:
		return parseTMass(text)
	default:
		v, err := strconv.ParseInt(text, 10, 64)
		if err != nil || v <= 0 {
			return 0, fmt.Errorf("%w: gaia %q", ErrInvalidID, text)
		}
		return v, nil
	}
}

// Format renders a packed identifier in the scheme's textual form.
func (s IDScheme) Format(id int64) string {
	switch s {
	case HAT:
		return formatHAT(id)
	case TMass:
		return formatTMass(id)
	default:
		return strconv.FormatInt(id, 10)
	}
}

func parseHAT(text string) (int64, error) {
	if len(text) > 4 && strings.EqualFold(text[:4], "HAT-") {
		text = text[4:]
	}
	field, number, ok := strings.Cut(text, "-")
	if !ok || len(field) != 3 || number == "" || len(number) > 7 || !isDigits(field) || !isDigits(number) {
		return 0, fmt.Errorf("%w: hat %q", ErrInvalidID, text)
	}
	v, err := strconv.ParseInt(number+field, 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("%w: hat %q", ErrInvalidID, text)
	}
	return v, nil
}

func formatHAT(id int64) string {
	str := strconv.FormatInt(id, 10)
	if len(str) <= 3 {
		return fmt.Sprintf("%03d-0000000", id)
	}
	cut := len(str) - 3
	number, _ := strconv.ParseInt(str[:cut], 10, 64)
	return fmt.Sprintf("%s-%07d", str[cut:], number)
}

func parseTMass(text string) (int64, error) {
	if len(text) > 6 && strings.EqualFold(text[:6], "2MASS ") {
		text = strings.TrimSpace(text[6:])
	}
	if len(text) == 17 && (text[0] == 'J' || text[0] == 'j') {
		text = text[1:]
	}
	if len(text) != 16 || (text[8] != '+' && text[8] != '-') ||
		!isDigits(text[:8]) || !isDigits(text[9:]) {
		return 0, fmt.Errorf("%w: 2mass %q", ErrInvalidID, text)
	}

	sign := "1"
	if text[8] == '-' {
		sign = "2"
	}
	v, err := strconv.ParseInt(sign+text[:8]+text[9:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: 2mass %q", ErrInvalidID, text)
	}
	return v, nil
}

func formatTMass(id int64) string {
	str := strconv.FormatInt(id, 10)
	if len(str) != 16 || (str[0] != '1' && str[0] != '2') {
		return str
	}
	sign := byte('+')
	if str[0] == '2' {
		sign = '-'
	}
	return str[1:9] + string(sign) + str[9:]
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
