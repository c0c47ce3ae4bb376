package utils

import "strings"

const (
	minPhoneDigits = 7
	maxPhoneDigits = 15 // E.164
)

// NormalizeString trims surrounding whitespace and collapses inner runs of
// spaces and tabs to a single space. Newlines are kept.
func NormalizeString(s string) string {
	s = strings.TrimSpace(s)
	if !strings.ContainsAny(s, "  \t") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		space = false
		b.WriteRune(r)
	}
	return b.String()
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// phoneSeparators are dropped by NormalizePhone.
const phoneSeparators = "-(). \t"

// NormalizePhone removes separators such as spaces, dashes, dots and
// parentheses. Any other character is kept so that IsValidPhone rejects it.
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	if !strings.ContainsAny(phone, phoneSeparators) {
		return phone
	}
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if !strings.ContainsRune(phoneSeparators, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsValidPhone reports whether phone, once normalized, is an optional leading
// '+' followed by 7 to 15 ASCII digits.
func IsValidPhone(phone string) bool {
	digits := strings.TrimPrefix(NormalizePhone(phone), "+")
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}
