package models

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultRank   = "Member"
	DefaultStatus = "Active"
)

// Member represents a single member from the CSV
type Member struct {
	Name   string `json:"name"`
	Rank   string `json:"rank"`
	Hours  Hours  `json:"hours"`
	Status string `json:"status"`
	Prize  string `json:"prize,omitempty"`
	Line   int    `json:"line"`
}

// Hours is an activity total that may not have parsed.
// Invalid hours count as zero wherever a number is needed.
type Hours struct {
	Value float64
	Valid bool
}

// ParseHours reads the number at the start of a raw hours field, ignoring
// anything after it, so "120 hrs" is 120. A field with no leading number is
// invalid, as are negative, NaN and infinite values.
func ParseHours(s string) Hours {
	num := leadingNumber(strings.TrimSpace(s))
	if num == "" {
		return Hours{}
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return Hours{}
	}
	if v == 0 {
		v = 0 // no negative zero
	}
	return Hours{Value: v, Valid: true}
}

// leadingNumber returns the longest prefix of s that is a decimal number
// with optional sign, fraction and exponent.
func leadingNumber(s string) string {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		for j < len(s) && isDigit(s[j]) {
			j++
			digits++
		}
		if digits > 0 {
			i = j
		}
	}
	if digits == 0 {
		return ""
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return s[:i]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Float returns the value, or 0 when the hours did not parse.
func (h Hours) Float() float64 {
	if !h.Valid {
		return 0
	}
	return h.Value
}

// MarshalJSON writes invalid hours as null so consumers can tell them apart
// from an explicit zero.
func (h Hours) MarshalJSON() ([]byte, error) {
	if !h.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(h.Value, 'f', -1, 64)), nil
}

// StatusColor is the marker colour shown next to a member's status.
type StatusColor string

const (
	ColorGreen StatusColor = "#00ff00"
	ColorAmber StatusColor = "#ffaa00"
	ColorRed   StatusColor = "#ff0000"
)

// StatusColorFor maps a status label to its colour. Unknown labels are
// treated as active.
func StatusColorFor(status string) StatusColor {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "active":
		return ColorGreen
	case "idle":
		return ColorAmber
	case "offline":
		return ColorRed
	default:
		return ColorGreen
	}
}
