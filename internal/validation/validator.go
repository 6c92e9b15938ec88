// MovieHub - Movie Rating and Discussion Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviehub

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/tomtom215/moviehub/internal/models"
)

// singleton validator instance
var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// now is the clock used by the releaseyear rule.
var now = time.Now

// FieldError is one violated field, as reported to API clients.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// RequestValidationError collects every violated field of a request.
type RequestValidationError struct {
	errors []FieldError
}

// NewError builds a validation error for a single field.
func NewError(field, message string) *RequestValidationError {
	return &RequestValidationError{errors: []FieldError{{Field: field, Message: message}}}
}

// Add appends a field error.
func (ve *RequestValidationError) Add(field, message string) {
	ve.errors = append(ve.errors, FieldError{Field: field, Message: message})
}

// Errors returns the field errors in struct field order.
func (ve *RequestValidationError) Errors() []FieldError {
	return ve.errors
}

// Error implements the error interface, returning a combined error message.
func (ve *RequestValidationError) Error() string {
	if len(ve.errors) == 0 {
		return "validation failed"
	}
	messages := make([]string, len(ve.errors))
	for i, e := range ve.errors {
		messages[i] = e.Message
	}
	return strings.Join(messages, "; ")
}

// GetValidator returns the singleton validator instance.
// Field names in errors are the JSON names of the fields.
func GetValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			switch name {
			case "-":
				return ""
			case "":
				return f.Name
			}
			return name
		})

		// Registration only fails for an empty tag or nil func.
		_ = validate.RegisterValidation("genre", func(fl validator.FieldLevel) bool {
			return models.IsGenre(fl.Field().String())
		})
		_ = validate.RegisterValidation("releaseyear", func(fl validator.FieldLevel) bool {
			y := int(fl.Field().Int())
			return y >= models.MinReleaseYear && y <= models.MaxReleaseYear(now())
		})
	})

	return validate
}

// ValidateStruct validates s and returns nil or every violated field.
//
// A field's `msg` struct tag, when present, replaces the generated message
// for any rule on that field:
//
//	Title string `json:"title" validate:"min=1,max=200" msg:"Title must be between 1 and 200 characters"`
func ValidateStruct(s interface{}) *RequestValidationError {
	err := GetValidator().Struct(s)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return NewError("unknown", err.Error())
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	out := &RequestValidationError{errors: make([]FieldError, 0, len(validationErrs))}
	for _, fe := range validationErrs {
		out.errors = append(out.errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(t, fe),
		})
	}
	return out
}

func messageFor(t reflect.Type, fe validator.FieldError) string {
	if t.Kind() == reflect.Struct {
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if msg := f.Tag.Get("msg"); msg != "" {
				return msg
			}
		}
	}
	return translateError(fe)
}

// errorMessageTemplates maps validation tags to message templates.
var errorMessageTemplates = map[string]string{
	"required":    "%s is required",
	"email":       "%s must be a valid email address",
	"genre":       "%s must be a valid genre",
	"releaseyear": "%s must be a valid release year",
}

// translateError converts a validator.FieldError to a human-readable message.
func translateError(fe validator.FieldError) string {
	field := fe.Field()
	tag := fe.Tag()
	param := fe.Param()

	if template, ok := errorMessageTemplates[tag]; ok {
		return fmt.Sprintf(template, field)
	}
	return translateMinMax(fe, field, tag, param)
}

// translateMinMax handles min/max validation with type-specific messages.
func translateMinMax(fe validator.FieldError, field, tag, param string) string {
	isString := fe.Kind() == reflect.String

	switch tag {
	case "min":
		if isString {
			return fmt.Sprintf("%s must be at least %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max":
		if isString {
			return fmt.Sprintf("%s must be at most %s characters", field, param)
		}
		return fmt.Sprintf("%s must be at most %s", field, param)
	default:
		return fmt.Sprintf("%s failed %s validation", field, tag)
	}
}
