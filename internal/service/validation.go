package service

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/maxviazov/user-directory-service/internal/model"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report json names so field errors match what the client sent.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// validatePagination checks the struct tags on model.Pagination and
// translates failures into the aggregated invalid input error.
func validatePagination(p model.Pagination) error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	ferrs := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ferrs = append(ferrs, FieldError{Field: fe.Field(), Message: describeTag(fe)})
	}
	return NewInvalidInputError(ferrs)
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "gt":
		return "must be > " + fe.Param()
	case "gte":
		return "must be >= " + fe.Param()
	case "required":
		return "is required"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

// checkName rejects names that are empty or only whitespace. The value itself
// is stored as given.
func checkName(ferrs []FieldError, field, value string) []FieldError {
	if strings.TrimSpace(value) == "" {
		return append(ferrs, FieldError{Field: field, Message: "must not be empty"})
	}
	return ferrs
}
