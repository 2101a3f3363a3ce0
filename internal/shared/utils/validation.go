package utils

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/orris-inc/fundtrail/internal/domain/funding/valueobjects"
	"github.com/orris-inc/fundtrail/internal/shared/errors"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// ledger_address checks the checksum, not just the shape.
	_ = validate.RegisterValidation("ledger_address", func(fl validator.FieldLevel) bool {
		return valueobjects.IsValidAddress(fl.Field().String())
	})
	// display_amount accepts a non-negative decimal string representable in microunits.
	_ = validate.RegisterValidation("display_amount", func(fl validator.FieldLevel) bool {
		_, err := valueobjects.ParseDisplayAmount(fl.Field().String())
		return err == nil
	})
}

// ValidateStruct validates s and collapses the field errors into one AppError.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok || len(validationErrors) == 0 {
		return errors.NewValidationError("Validation failed", err.Error())
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		messages = append(messages, fieldErrorMessage(fe))
	}
	return errors.NewValidationError("Validation failed", messages...)
}

func fieldErrorMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "ledger_address":
		return fmt.Sprintf("%s must be a valid ledger address", field)
	case "display_amount":
		return fmt.Sprintf("%s must be a non-negative decimal amount", field)
	default:
		return fmt.Sprintf("%s failed validation for '%s'", field, fe.Tag())
	}
}

// ValidateID rejects blank path identifiers.
func ValidateID(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return errors.NewValidationError(fmt.Sprintf("%s cannot be empty", name))
	}
	return nil
}
