// Package validation holds the request payload shapes and checks them with
// go-playground/validator before any business logic runs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/sakif/inkwell/internal/apperror"
)

// SignupInput is the body of POST /api/v1/user/signup.
// Password is capped at 72 bytes, the most bcrypt will hash; maxbytes
// counts UTF-8 bytes where max would count characters.
type SignupInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
	Name     string `json:"name"     validate:"omitempty,max=100"`
}

// SigninInput is the body of POST /api/v1/user/signin.
type SigninInput struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

// CreatePostInput is the body of POST /api/v1/blog.
//
// Published is a pointer so that an explicit false passes "required"
// while a missing field does not.
type CreatePostInput struct {
	Title     string `json:"title"     validate:"required,max=200"`
	Content   string `json:"content"   validate:"required"`
	Published *bool  `json:"published" validate:"required"`
}

// UpdatePostInput is the body of PUT /api/v1/blog/{pId}.
type UpdatePostInput struct {
	Title     string `json:"title"     validate:"required,max=200"`
	Content   string `json:"content"   validate:"required"`
	Published *bool  `json:"published" validate:"required"`
}

// Validator wraps a configured *validator.Validate. It is safe for
// concurrent use; build one at startup and share it.
type Validator struct {
	v *validator.Validate
}

// New returns a Validator that reports fields by their JSON names.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	// Registration only fails for an empty tag or nil func.
	_ = v.RegisterValidation("maxbytes", maxBytes)
	return &Validator{v: v}
}

// Struct validates s and converts the first failure into an
// apperror.ErrValidation naming the offending JSON field.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validation: %w", err)
	}

	fe := fieldErrs[0]
	return apperror.ValidationFailed(fe.Field(), describe(fe))
}

// maxBytes checks the UTF-8 byte length of a string field against the
// tag parameter.
func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= limit
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "maxbytes":
		return fmt.Sprintf("%s must be at most %s bytes", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %q check", fe.Field(), fe.Tag())
	}
}
