package whatsapp

import "strings"

// SchemePrefix tags every address exchanged with the provider.
const SchemePrefix = "whatsapp:"

// NormalizeNumber canonicalizes a recipient into an E.164-like form.
// Non-digits are stripped; 11-digit numbers starting with 1 and any number
// with at least 10 digits get a leading +. Anything shorter fails.
func NormalizeNumber(raw string) (string, error) {
	digits := sanitizeDigits(raw)
	switch {
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		return "+" + digits, nil
	case len(digits) >= 10:
		return "+" + digits, nil
	default:
		return "", &InvalidPhoneError{Raw: raw}
	}
}

// ValidNumber reports whether raw normalizes to a number whose full form,
// leading + included, is 11 to 15 characters. It never panics.
func ValidNumber(raw string) bool {
	normalized, err := NormalizeNumber(raw)
	if err != nil {
		return false
	}
	return len(normalized) >= 11 && len(normalized) <= 15
}

// StripScheme removes the channel scheme token and nothing else.
func StripScheme(addr string) string {
	return strings.TrimPrefix(addr, SchemePrefix)
}

func sanitizeDigits(value string) string {
	var b strings.Builder
	for _, r := range value {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
