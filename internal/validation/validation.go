// Package validation runs the declarative `validate` tag rules of request
// structs and reports failures as apperr.ValidationErrors keyed by JSON name.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"boardspace-backend/internal/apperr"
	"boardspace-backend/internal/models"
	"boardspace-backend/internal/optional"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Absent, null and undecodable fields become a nil pointer so `omitempty`
	// skips them. A submitted zero is still checked.
	v.RegisterCustomTypeFunc(fieldValue[string], optional.Field[string]{})
	v.RegisterCustomTypeFunc(fieldValue[int], optional.Field[int]{})
	v.RegisterCustomTypeFunc(fieldValue[uint], optional.Field[uint]{})
	v.RegisterCustomTypeFunc(fieldValue[bool], optional.Field[bool]{})
	v.RegisterCustomTypeFunc(fieldValue[models.DateTime], optional.Field[models.DateTime]{})
	v.RegisterCustomTypeFunc(fieldValue[[]string], optional.Field[[]string]{})
	v.RegisterCustomTypeFunc(fieldValue[[]models.ChecklistEntry], optional.Field[[]models.ChecklistEntry]{})
	return v
}

func fieldValue[T any](v reflect.Value) any {
	f, ok := v.Interface().(optional.Field[T])
	if !ok {
		return nil
	}
	return f.Ptr()
}

// Check validates s and appends one error per failed rule to errs.
func Check(errs *apperr.ValidationErrors, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) {
		// only reachable with a non-struct argument
		panic(fmt.Sprintf("validation: %v", err))
	}
	for _, fe := range fails {
		errs.Add(fe.Field(), "%s", message(fe))
	}
}

func message(fe validator.FieldError) string {
	unit := ""
	if fe.Kind() == reflect.String {
		unit = " characters"
	}
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("must be at least %s%s", fe.Param(), unit)
	case "max":
		return fmt.Sprintf("may not be greater than %s%s", fe.Param(), unit)
	case "required":
		return "is required"
	default:
		return "is invalid"
	}
}
