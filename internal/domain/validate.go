package domain

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// Delimiters is the set of characters no stored text field may contain
	Delimiters = "|\r\n"
	// CommentPrefix starts a line that loaders ignore
	CommentPrefix = "#"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// field names in errors follow the json tags
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("nodelim", func(fl validator.FieldLevel) bool {
		return !strings.ContainsAny(fl.Field().String(), Delimiters)
	}); err != nil {
		panic(err)
	}
	// identifiers also must not look like a comment line once stored
	if err := v.RegisterValidation("ident", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return !strings.ContainsAny(s, Delimiters) && !strings.HasPrefix(s, CommentPrefix) && strings.TrimSpace(s) == s
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate checks the student's fields
func (s Student) Validate() error {
	return translate(validate.Struct(s))
}

// Validate checks the subject's fields
func (s Subject) Validate() error {
	return translate(validate.Struct(s))
}

// ValidateGrade checks that g lies within [MinGrade, MaxGrade]
func ValidateGrade(g float64) error {
	if math.IsNaN(g) {
		return &ValidationError{Field: "grade", Rule: "number", Value: FormatGrade(g)}
	}
	if err := validate.Var(g, fmt.Sprintf("gte=%g,lte=%g", MinGrade, MaxGrade)); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return &ValidationError{Field: "grade", Rule: ve[0].Tag(), Value: FormatGrade(g)}
		}
		return fmt.Errorf("validate grade: %w", err)
	}
	return nil
}

// translate turns the first validator failure into a *ValidationError
func translate(err error) error {
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) || len(ve) == 0 {
		return fmt.Errorf("validate: %w", err)
	}
	fe := ve[0]
	return &ValidationError{
		Field: fe.Field(),
		Rule:  ruleOf(fe),
		Value: valueOf(fe),
	}
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() != "" {
		return fe.Tag() + "=" + fe.Param()
	}
	return fe.Tag()
}

func valueOf(fe validator.FieldError) string {
	switch v := fe.Value().(type) {
	case string:
		return v
	case *int:
		if v != nil {
			return fmt.Sprint(*v)
		}
	case int:
		return fmt.Sprint(v)
	}
	return ""
}
