package ecuador

import (
	"fmt"
	"strings"
)

const countryCode = "593"

// PhoneKind distinguishes mobile from landline numbers.
type PhoneKind string

// Phone kinds.
const (
	PhoneMobile   PhoneKind = "mobile"
	PhoneLandline PhoneKind = "landline"
)

// ValidatePhone accepts national (09XXXXXXXX, 0[2-7]XXXXXXX) and international
// (+593...) forms. Spaces, dashes, dots and parentheses are ignored.
func ValidatePhone(phone string) (PhoneKind, error) {
	national, err := nationalNumber(phone)
	if err != nil {
		return "", err
	}

	switch {
	case len(national) == 9 && national[0] == '9':
		return PhoneMobile, nil
	case len(national) == 8 && national[0] >= '2' && national[0] <= '7':
		return PhoneLandline, nil
	default:
		return "", fmt.Errorf("%w: %q is neither a mobile nor a landline number", ErrInvalidPhone, phone)
	}
}

// NormalizePhone returns the E.164 form, e.g. +593991234567.
func NormalizePhone(phone string) (string, error) {
	if _, err := ValidatePhone(phone); err != nil {
		return "", err
	}
	national, _ := nationalNumber(phone)
	return "+" + countryCode + national, nil
}

// nationalNumber strips formatting, the country code and the trunk 0.
func nationalNumber(phone string) (string, error) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", fmt.Errorf("%w: unexpected character %q", ErrInvalidPhone, r)
		}
	}

	digits := b.String()
	switch {
	case strings.HasPrefix(digits, countryCode) && len(digits) > 10:
		digits = digits[len(countryCode):]
	case strings.HasPrefix(digits, "0"):
		digits = digits[1:]
	default:
		return "", fmt.Errorf("%w: %q must start with 0 or +593", ErrInvalidPhone, phone)
	}

	if !allDigits(digits) || digits == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, phone)
	}
	return digits, nil
}
