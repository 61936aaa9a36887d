package usecase

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// maxPasswordBytes は bcrypt が受け付けるパスワードの最大バイト数です。
const maxPasswordBytes = 72

// RegisterInput は新規登録に必要な入力値です。
type RegisterInput struct {
	Firstname string `validate:"required,min=3"`
	Lastname  string `validate:"omitempty,min=3"`
	Email     string `validate:"required,email"`
	Password  string `validate:"required,min=6,bcryptmax"`
}

// loginInput はログインの入力値です。
type loginInput struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6,bcryptmax"`
}

// validate is shared across requests.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// min/max count runes; bcrypt limits bytes
	_ = v.RegisterValidation("bcryptmax", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= maxPasswordBytes
	})
	return v
}

// fieldMessages maps struct field names to the client-facing path and message.
var fieldMessages = map[string]FieldError{
	"Firstname": {Field: "fullname.firstname", Message: "First name must be at least 3 characters long"},
	"Lastname":  {Field: "fullname.lastname", Message: "Last name must be at least 3 characters long"},
	"Email":     {Field: "email", Message: "Invalid Email"},
	"Password":  {Field: "password", Message: "Password must be at least 6 characters long"},
}

const passwordTooLongMessage = "Password must be at most 72 bytes long"

// normalizeEmail trims and lower-cases so the unique index sees one spelling per address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validateRegister(in RegisterInput) error {
	return toValidationErrors(validate.Struct(in))
}

func validateLogin(email, password string) error {
	return toValidationErrors(validate.Struct(loginInput{Email: email, Password: password}))
}

// toValidationErrors converts validator output into ValidationErrors, one entry per field.
func toValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	out := make(ValidationErrors, 0, len(verrs))
	for _, fe := range verrs {
		m, ok := fieldMessages[fe.StructField()]
		if !ok {
			m = FieldError{Field: strings.ToLower(fe.StructField()), Message: fe.Error()}
		}
		if fe.Tag() == "bcryptmax" {
			m.Message = passwordTooLongMessage
		}
		out = append(out, m)
	}
	return out
}
