package checkout

import "strings"

func onlyDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// FormatCardNumber groups the digits of s in blocks of four, capped at
// 19 characters ("4111 1111 1111 1111").
func FormatCardNumber(s string) string {
	digits := onlyDigits(s)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > 19 {
		out = out[:19]
	}
	return out
}

// FormatExpiry inserts the slash once two digits have been typed
func FormatExpiry(s string) string {
	digits := onlyDigits(s)
	if len(digits) < 2 {
		return digits
	}
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits[:2] + "/" + digits[2:]
}

// SanitizeCVV keeps at most four digits
func SanitizeCVV(s string) string {
	digits := onlyDigits(s)
	if len(digits) > 4 {
		digits = digits[:4]
	}
	return digits
}
