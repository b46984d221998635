// Package validation provides struct validation using the validator/v10 library.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	domainerrors "github.com/mediadiet/mediadiet/internal/errors"
)

// DateOnlyLayout is the wire format for calendar dates.
const DateOnlyLayout = "2006-01-02"

// Validator wraps go-playground/validator with domain error conversion.
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for our domain.
func New() *Validator {
	v := validator.New()

	// Use JSON tag names in error messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" || name == "-" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	// dateonly accepts a strict YYYY-MM-DD calendar date.
	_ = v.RegisterValidation("dateonly", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		if len(s) != len(DateOnlyLayout) {
			return false
		}
		_, err := time.Parse(DateOnlyLayout, s)
		return err == nil
	})

	return &Validator{v: v}
}

// Validate checks caller input. Failures are INVALID_INPUT errors with
// per-field details.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err, domainerrors.CodeInvalidInput)
	}
	return nil
}

// ValidateUpstream checks a decoded upstream or stored record. Failures are
// VALIDATION errors: the data, not the caller, is at fault.
func (v *Validator) ValidateUpstream(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err, domainerrors.CodeValidation)
	}
	return nil
}

func (v *Validator) formatError(err error, code domainerrors.Code) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return domainerrors.Wrap(err, code, "validation failed")
	}

	fieldErrors := make(map[string]string, len(validationErrs))
	parts := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := v.friendlyMessage(e)
		fieldErrors[e.Field()] = msg
		parts = append(parts, e.Field()+" "+msg)
	}
	slices.Sort(parts)

	return &domainerrors.Error{
		Code:    code,
		Message: "validation failed: " + strings.Join(parts, "; "),
		Details: fieldErrors,
	}
}

//nolint:gocyclo // Switch statement covering validation tags is intentionally exhaustive.
func (v *Validator) friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required for this media type"
	case "excluded_unless":
		return "is not allowed for this media type"
	case "dateonly":
		return "must be a date in YYYY-MM-DD format"
	case "min":
		if e.Kind() == reflect.String || e.Kind() == reflect.Slice {
			return fmt.Sprintf("must be at least %s characters", e.Param())
		}
		return "must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String || e.Kind() == reflect.Slice {
			return fmt.Sprintf("must not exceed %s characters", e.Param())
		}
		return "must not exceed " + e.Param()
	case "url":
		return "must be a valid URL"
	case "oneof":
		return "must be one of: " + e.Param()
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "lte":
		return "must be less than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	case "lt":
		return "must be less than " + e.Param()
	default:
		return "is invalid"
	}
}
