package checkout

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

var (
	nameRe   = regexp.MustCompile(`^[a-zA-Z\s'-]+$`)
	stateRe  = regexp.MustCompile(`^[A-Z]{2}$`)
	zipRe    = regexp.MustCompile(`^\d{5}(-\d{4})?$`)
	expiryRe = regexp.MustCompile(`^\d{2}/\d{2}$`)
	cvvRe    = regexp.MustCompile(`^\d{3,4}$`)
	phoneRe  = regexp.MustCompile(`^\(?([0-9]{3})\)?[-. ]?([0-9]{3})[-. ]?([0-9]{4})$`)
)

// IsValidName allows letters, spaces, hyphens and apostrophes, at least two
// characters long.
func IsValidName(v string) bool {
	return len(v) >= 2 && nameRe.MatchString(v)
}

// IsValidStreet is only a completeness heuristic
func IsValidStreet(v string) bool {
	return len(v) >= 5
}

// IsValidState checks for a two letter code, case-insensitively
func IsValidState(v string) bool {
	return len(v) == 2 && stateRe.MatchString(strings.ToUpper(v))
}

// IsValidZip accepts 12345 and 12345-6789
func IsValidZip(v string) bool {
	return zipRe.MatchString(v)
}

// IsValidCardNumber strips whitespace, then requires 13 to 19 digits that
// pass the Luhn checksum.
func IsValidCardNumber(v string) bool {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, v)
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}
	return Luhn(digits)
}

// Luhn reports whether digits passes the Luhn checksum. Any non-digit
// character fails.
func Luhn(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// IsValidExpiry accepts MM/YY with a month in 1..12 that is not before the
// month of now. A card expiring in the current month is still valid.
func IsValidExpiry(v string, now time.Time) bool {
	if !expiryRe.MatchString(v) {
		return false
	}
	month, _ := strconv.Atoi(v[:2])
	year, _ := strconv.Atoi(v[3:])
	if month < 1 || month > 12 {
		return false
	}
	curYear := now.Year() % 100
	curMonth := int(now.Month())
	if year < curYear || (year == curYear && month < curMonth) {
		return false
	}
	return true
}

// IsValidCVV accepts 3 or 4 digits
func IsValidCVV(v string) bool {
	return cvvRe.MatchString(v)
}

// IsValidPhone accepts US numbers like (555) 123-4567 or 555.123.4567
func IsValidPhone(v string) bool {
	return phoneRe.MatchString(v)
}
