package utils

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	usernamePattern = regexp.MustCompile(`^[\w.@+-]+$`)
	slugPattern     = regexp.MustCompile(`^[-a-zA-Z0-9_]+$`)
)

// NonFieldErrorsKey holds errors that do not belong to a single field.
const NonFieldErrorsKey = "non_field_errors"

// ReservedUsername is taken by the profile endpoint and cannot be registered.
const ReservedUsername = "me"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json field names instead of struct field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		value := fl.Field().String()
		return usernamePattern.MatchString(value) && !strings.EqualFold(value, ReservedUsername)
	})
	v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})

	return v
}

func ValidateStruct(data interface{}) map[string]string {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	errors := make(map[string]string)
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errors[NonFieldErrorsKey] = "Invalid request body"
		return errors
	}
	for _, err := range validationErrors {
		errors[err.Field()] = getErrorMessage(err)
	}

	return errors
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		if err.Kind() == reflect.Int {
			return fmt.Sprintf("Must be at least %s", err.Param())
		}
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "max":
		if err.Kind() == reflect.Int {
			return fmt.Sprintf("Must be at most %s", err.Param())
		}
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "oneof":
		options := strings.ReplaceAll(err.Param(), " ", ", ")
		return fmt.Sprintf("Must be one of: %s", options)
	case "uuid":
		return "Must be a valid UUID"
	case "username":
		return fmt.Sprintf("Only letters, digits and @/./+/-/_ are allowed, and %q is reserved", ReservedUsername)
	case "slug":
		return "Only letters, digits, hyphens and underscores are allowed"
	case "dive":
		return "Invalid list item"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errors map[string]string) string {
	var msgs []string
	for field, msg := range errors {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, msg))
	}
	return strings.Join(msgs, "; ")
}
