package shared

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// Validator returns the process-wide struct validator. Field names in messages come
// from the `label` tag, falling back to the json name.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if label := f.Tag.Get("label"); label != "" {
				return label
			}
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct validates v and converts the first failure into a client-facing
// ErrValidation.
func ValidateStruct(v any) error {
	err := Validator().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return NewError(ErrValidation, "Invalid request payload!")
	}
	return fieldError(verrs[0])
}

func fieldError(fe validator.FieldError) error {
	field := cases.Title(language.English, cases.NoLower).String(fe.Field())
	switch fe.Tag() {
	case "required":
		return Required(field)
	case "email":
		return NewError(ErrValidation, "%s must be a valid email!", field)
	case "gt":
		return NewError(ErrValidation, "%s must be greater than %s!", field, fe.Param())
	case "gte", "min":
		return NewError(ErrValidation, "%s must be at least %s!", field, fe.Param())
	case "lte", "max":
		return NewError(ErrValidation, "%s must be at most %s!", field, fe.Param())
	case "len":
		return NewError(ErrValidation, "%s must be %s characters long!", field, fe.Param())
	case "oneof":
		return NewError(ErrValidation, "%s must be one of [%s]!", field, fe.Param())
	case "numeric":
		return NewError(ErrValidation, "%s must contain only digits!", field)
	default:
		return NewError(ErrValidation, "%s is invalid!", field)
	}
}
