package http

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/atinyakov/showcase/internal/models"
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

var (
	formDecoder   = newFormDecoder()
	formValidator = newFormValidator()
)

func newFormDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return d
}

func newFormValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under the form field names.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("schema"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	}); err != nil {
		panic(err)
	}
	// Postgres TEXT columns reject NUL and invalid UTF-8.
	if err := v.RegisterValidation("text", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		return utf8.ValidString(s) && !strings.ContainsRune(s, 0)
	}); err != nil {
		panic(err)
	}
	return v
}

// FieldError is a problem with one submitted form field.
type FieldError struct {
	// Field is the form field name, e.g. "username".
	Field string
	// Code identifies the kind of problem, e.g. "required" or
	// "user.duplicateUsername".
	Code string
	// Message is the text shown next to the field.
	Message string
}

// FieldErrors groups field errors by field name.
type FieldErrors map[string][]FieldError

// Reject records an error against field.
func (e FieldErrors) Reject(field, code, message string) {
	e[field] = append(e[field], FieldError{Field: field, Code: code, Message: message})
}

// HasErrors reports whether any field was rejected.
func (e FieldErrors) HasErrors() bool {
	return len(e) > 0
}

// bindSignupForm decodes and validates the posted signup form. A non-nil
// error means the request body itself could not be read.
func bindSignupForm(r *http.Request) (models.SignupForm, FieldErrors, error) {
	var form models.SignupForm
	if err := r.ParseForm(); err != nil {
		return form, nil, fmt.Errorf("parse form: %w", err)
	}
	if err := formDecoder.Decode(&form, r.PostForm); err != nil {
		return form, nil, fmt.Errorf("decode form: %w", err)
	}
	form.Username = strings.TrimSpace(form.Username)
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)

	errs := FieldErrors{}
	if err := formValidator.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return form, nil, fmt.Errorf("validate form: %w", err)
		}
		for _, fe := range verrs {
			errs.Reject(fe.Field(), fe.Tag(), validationMessage(fe))
		}
	}
	return form, errs, nil
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "may not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "username":
		return "may only contain letters, digits, '.', '_' and '-'"
	case "bcryptlen":
		return fmt.Sprintf("must be at most %d bytes", maxPasswordBytes)
	case "text":
		return "contains characters that are not allowed"
	default:
		return "is invalid"
	}
}
