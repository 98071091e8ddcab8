package accounts

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/vidyavipul/Mini-User-Management-System/internal/shared"
)

const (
	minNameLength = 2
	maxNameLength = 100
)

// Field specific messages returned to clients.
const (
	msgSignupRequired   = "Full name, email, and password are required"
	msgLoginRequired    = "Email and password are required"
	msgPasswordRequired = "Current and new passwords are required"
	msgFullName         = "Full name must be 2-100 characters"
	msgEmail            = "Invalid email format"
	msgPassword         = "Password must be at least 8 characters"
	msgNewPassword      = "New password must be at least 8 characters"
	msgPasswordTooLong  = "Password must be at most 72 bytes"
)

// emailShape accepts local@domain.tld with no whitespace and a single @.
var emailShape = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

var fieldMessages = map[string]string{
	"fullName":    msgFullName,
	"email":       msgEmail,
	"password":    msgPassword,
	"newPassword": msgNewPassword,
}

type signupForm struct {
	FullName string `json:"fullName" validate:"fullname"`
	Email    string `json:"email" validate:"emailshape"`
	Password string `json:"password" validate:"min=8"`
}

type loginForm struct {
	Email string `json:"email" validate:"emailshape"`
}

type profileForm struct {
	FullName *string `json:"fullName" validate:"omitnil,fullname"`
	Email    *string `json:"email" validate:"omitnil,emailshape"`
}

type passwordForm struct {
	NewPassword string `json:"newPassword" validate:"min=8"`
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})
	_ = v.RegisterValidation("fullname", func(fl validator.FieldLevel) bool {
		return validName(fl.Field().String())
	})
	_ = v.RegisterValidation("emailshape", func(fl validator.FieldLevel) bool {
		return emailShape.MatchString(fl.Field().String())
	})
	return v
}

func validName(name string) bool {
	n := utf8.RuneCountInString(strings.TrimSpace(name))
	return n >= minNameLength && n <= maxNameLength
}

// check validates form and converts the first failing field to a FieldError.
func check(v *validator.Validate, form any) error {
	err := v.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return shared.NewError(shared.ErrValidation, "Invalid input").WithDetails(err.Error())
	}
	first := fieldErrs[0]
	msg, ok := fieldMessages[first.Field()]
	if !ok {
		msg = first.Error()
	}
	return shared.FieldError(first.Field(), msg)
}
