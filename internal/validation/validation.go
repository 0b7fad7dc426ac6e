// Package validation checks request payloads and shift fields.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"shiftswap/internal/models"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the payload the caller sent.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	mustRegister("shift_date", func(fl validator.FieldLevel) bool {
		return ValidateShiftDate(fl.Field().String()) == nil
	})
	mustRegister("clock", func(fl validator.FieldLevel) bool {
		return ValidateClock(fl.Field().String()) == nil
	})
	mustRegister("shift_type", func(fl validator.FieldLevel) bool {
		return models.ShiftType(fl.Field().String()).Valid()
	})
}

func mustRegister(tag string, fn validator.Func) {
	if err := validate.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register validation %q: %v", tag, err))
	}
}

// Struct validates v against its `validate` tags and returns a validation
// AppError describing the first failing field.
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return models.NewValidationError(err.Error())
	}
	return models.NewValidationError(describe(fieldErrs[0]))
}

func describe(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return field + " is required"
	case "shift_date":
		return field + " must be a date in YYYY-MM-DD format"
	case "clock":
		return field + " must be a time in HH:MM format"
	case "shift_type":
		return fmt.Sprintf("%s must be one of %s", field, joinShiftTypes())
	case "gt", "min":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func joinShiftTypes() string {
	names := make([]string, 0, len(models.ShiftTypes))
	for _, t := range models.ShiftTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, ", ")
}
