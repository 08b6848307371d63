package core

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(field.Name)
		}

		return name
	})

	return v
}

func ValidateEvent(event Event) error {
	event.Title = strings.TrimSpace(event.Title)

	err := validateStruct(event)
	if err != nil {
		return err
	}

	if !event.EndTime.After(event.StartTime) {
		return fmt.Errorf("%w: end must be after start", ErrValidation)
	}

	return nil
}

func ValidateRegistration(form RegistrationForm) error {
	form.Rut = strings.TrimSpace(form.Rut)

	return validateStruct(form)
}

func ValidateLogin(form LoginForm) error {
	form.Rut = strings.TrimSpace(form.Rut)

	return validateStruct(form)
}

func validateStruct(value any) error {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %w", ErrValidation, err)
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fieldError := range fieldErrors {
		msgs = append(msgs, describeFieldError(fieldError))
	}

	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(msgs, "; "))
}

func describeFieldError(fieldError validator.FieldError) string {
	field := fieldError.Field()

	switch fieldError.Tag() {
	case "required":
		return field + " is required"
	case "max":
		return fmt.Sprintf("%s is too long (%s characters tops)", field, fieldError.Param())
	case "min":
		return fmt.Sprintf("%s is too short (%s characters minimum)", field, fieldError.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match %s", field, strings.ToLower(fieldError.Param()))
	default:
		return field + " is invalid"
	}
}
