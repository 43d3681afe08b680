// Package phonex normalises Kenyan mobile numbers into the 2547XXXXXXXX /
// 2541XXXXXXXX international form used as the account key.
package phonex

import (
	"errors"
	"regexp"
	"strings"
)

// CountryCode is the Kenyan dialing prefix without the plus sign.
const CountryCode = "254"

// ErrInvalidFormat is returned when a number does not normalise to a
// Kenyan mobile MSISDN.
var ErrInvalidFormat = errors.New("phonex: invalid phone number format")

var canonical = regexp.MustCompile(`^254[17][0-9]{8}$`)

// Normalize strips formatting and maps local forms onto the canonical
// international number.
//
//	"0712345678"      -> "254712345678"
//	"712345678"       -> "254712345678"
//	"+254 712 345678" -> "254712345678"
func Normalize(raw string) (string, error) {
	digits := digitsOnly(raw)

	if !strings.HasPrefix(digits, CountryCode) {
		digits = CountryCode + strings.TrimPrefix(digits, "0")
	}

	if !canonical.MatchString(digits) {
		return "", ErrInvalidFormat
	}
	return digits, nil
}

// Valid reports whether raw normalises cleanly.
func Valid(raw string) bool {
	_, err := Normalize(raw)
	return err == nil
}

// Mask hides the middle digits of a number for logging.
func Mask(msisdn string) string {
	if len(msisdn) < 6 {
		return strings.Repeat("*", len(msisdn))
	}
	return msisdn[:4] + strings.Repeat("*", len(msisdn)-6) + msisdn[len(msisdn)-2:]
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
