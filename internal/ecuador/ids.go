// Package ecuador validates Ecuadorian identity numbers (cédula, RUC) and
// phone numbers as printed on supplier invoices and customer records.
package ecuador

import (
	"errors"
	"fmt"
	"strings"
)

// Validation errors.
var (
	ErrInvalidCedula = errors.New("invalid cedula")
	ErrInvalidRUC    = errors.New("invalid RUC")
	ErrInvalidPhone  = errors.New("invalid phone number")
)

// TaxpayerType is the kind of entity a RUC belongs to, given by its third digit.
type TaxpayerType string

// Taxpayer types.
const (
	TaxpayerNatural TaxpayerType = "natural"
	TaxpayerPublic  TaxpayerType = "public"
	TaxpayerPrivate TaxpayerType = "private"
)

const (
	maxProvince     = 24
	foreignProvince = 30
)

// ValidateCedula checks a 10-digit cédula: province code, third digit and the
// mod-10 check digit.
func ValidateCedula(cedula string) error {
	c := strings.TrimSpace(cedula)
	if len(c) != 10 || !allDigits(c) {
		return fmt.Errorf("%w: must be 10 digits", ErrInvalidCedula)
	}
	if err := checkProvince(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCedula, err)
	}
	if digit(c, 2) >= 6 {
		return fmt.Errorf("%w: third digit must be below 6", ErrInvalidCedula)
	}
	if mod10(c[:9]) != digit(c, 9) {
		return fmt.Errorf("%w: check digit mismatch", ErrInvalidCedula)
	}
	return nil
}

// ValidateRUC checks a 13-digit RUC and reports the taxpayer type.
func ValidateRUC(ruc string) (TaxpayerType, error) {
	r := strings.TrimSpace(ruc)
	if len(r) != 13 || !allDigits(r) {
		return "", fmt.Errorf("%w: must be 13 digits", ErrInvalidRUC)
	}
	if err := checkProvince(r); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidRUC, err)
	}

	third := digit(r, 2)
	switch {
	case third < 6:
		if err := ValidateCedula(r[:10]); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidRUC, err)
		}
		if r[10:] == "000" {
			return "", fmt.Errorf("%w: establishment code cannot be 000", ErrInvalidRUC)
		}
		return TaxpayerNatural, nil

	case third == 6:
		check, ok := mod11(r[:8], []int{3, 2, 7, 6, 5, 4, 3, 2})
		if !ok || check != digit(r, 8) {
			return "", fmt.Errorf("%w: check digit mismatch", ErrInvalidRUC)
		}
		if r[9:] == "0000" {
			return "", fmt.Errorf("%w: establishment code cannot be 0000", ErrInvalidRUC)
		}
		return TaxpayerPublic, nil

	case third == 9:
		check, ok := mod11(r[:9], []int{4, 3, 2, 7, 6, 5, 4, 3, 2})
		if !ok || check != digit(r, 9) {
			return "", fmt.Errorf("%w: check digit mismatch", ErrInvalidRUC)
		}
		if r[10:] == "000" {
			return "", fmt.Errorf("%w: establishment code cannot be 000", ErrInvalidRUC)
		}
		return TaxpayerPrivate, nil

	default:
		return "", fmt.Errorf("%w: third digit %d is not a taxpayer type", ErrInvalidRUC, third)
	}
}

func checkProvince(s string) error {
	p := digit(s, 0)*10 + digit(s, 1)
	if (p < 1 || p > maxProvince) && p != foreignProvince {
		return fmt.Errorf("province code %02d out of range", p)
	}
	return nil
}

// mod10 is the cédula check digit: alternate 2,1 coefficients, products above 9 reduced by 9.
func mod10(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		p := digit(s, i)
		if i%2 == 0 {
			p *= 2
			if p > 9 {
				p -= 9
			}
		}
		sum += p
	}
	return (10 - sum%10) % 10
}

// mod11 returns the legal-entity check digit. ok is false when the
// remainder yields 10, which no valid RUC can carry.
func mod11(s string, coefficients []int) (int, bool) {
	sum := 0
	for i, c := range coefficients {
		sum += digit(s, i) * c
	}
	check := 11 - sum%11
	switch check {
	case 11:
		return 0, true
	case 10:
		return 0, false
	default:
		return check, true
	}
}

func digit(s string, i int) int {
	return int(s[i] - '0')
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
