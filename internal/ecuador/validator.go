package ecuador

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Struct tags registered by RegisterValidations.
const (
	TagCedula = "ec_cedula"
	TagRUC    = "ec_ruc"
	TagPhone  = "ec_phone"
)

// RegisterValidations adds the ec_cedula, ec_ruc and ec_phone tags to v.
func RegisterValidations(v *validator.Validate) error {
	funcs := map[string]validator.Func{
		TagCedula: func(fl validator.FieldLevel) bool {
			return ValidateCedula(fl.Field().String()) == nil
		},
		TagRUC: func(fl validator.FieldLevel) bool {
			_, err := ValidateRUC(fl.Field().String())
			return err == nil
		},
		TagPhone: func(fl validator.FieldLevel) bool {
			_, err := ValidatePhone(fl.Field().String())
			return err == nil
		},
	}

	for tag, fn := range funcs {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("register %s: %w", tag, err)
		}
	}
	return nil
}

// NewValidator returns a validator with the Ecuadorian tags registered.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := RegisterValidations(v); err != nil {
		panic(err)
	}
	return v
}
