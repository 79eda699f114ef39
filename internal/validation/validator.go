// Shelfwise - Book Recommendation Ranking Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/shelfwise

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var profileName = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{0,63}$`)

// FieldError is one failed rule.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Errors lists every failed rule of a struct.
type Errors []FieldError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Message
	}
	return strings.Join(msgs, "; ")
}

// Validator returns the shared instance. Struct metadata is cached inside
// it, so it must not be rebuilt per request.
var Validator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	// notblank: non-empty after trimming. profilename: lower-case profile key.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	_ = v.RegisterValidation("profilename", func(fl validator.FieldLevel) bool {
		return profileName.MatchString(fl.Field().String())
	})
	return v
})

// Check validates s. The result is nil when every rule holds.
func Check(s any) Errors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return Errors{{Field: "", Rule: "invalid", Message: err.Error()}}
	}
	out := make(Errors, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := path(fe)
		out[i] = FieldError{Field: field, Rule: fe.Tag(), Message: message(fe, field)}
	}
	return out
}

// path drops the root struct name so slice elements read as "books[3]".
func path(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError, field string) string {
	p := fe.Param()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "profilename":
		return field + " must be a lower-case profile name"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, p)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, p)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, p)
	case "lt":
		return fmt.Sprintf("%s must be less than %s", field, p)
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, p)
	case "min":
		return fmt.Sprintf("%s must be at least %s%s", field, p, unit(fe.Kind()))
	case "max":
		return fmt.Sprintf("%s must be at most %s%s", field, p, unit(fe.Kind()))
	}
	return fmt.Sprintf("%s failed %s", field, fe.Tag())
}

func unit(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return " items"
	}
	return ""
}
