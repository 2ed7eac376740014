package handlers

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/nfrund/biodex/internal/domain"
)

// CustomValidator wraps the go-playground/validator library to implement Echo's Validator interface.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a CustomValidator sharing the domain validator.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: domain.Validator()}
}

// Validate implements the echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// LoginRequest is the sign-in form.
type LoginRequest struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

// SignUpRequest is the sign-up form.
type SignUpRequest struct {
	Email           string `form:"email" validate:"required,email"`
	Password        string `form:"password" validate:"required,min=8"`
	PasswordConfirm string `form:"password_confirm" validate:"required,eqfield=Password"`
	DisplayName     string `form:"display_name" validate:"required,max=80"`
	Biography       string `form:"biography" validate:"max=2000"`
}

// validationMessage turns the first failed rule into a message for a flash.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Please check the form and try again."
	}
	fe := verrs[0]
	switch fe.Field() {
	case "Email":
		return "Enter a valid email address."
	case "Password":
		if fe.Tag() == "min" {
			return "Password must be at least 8 characters long."
		}
		return "Password is required."
	case "PasswordConfirm":
		return "Passwords do not match."
	case "DisplayName":
		if fe.Tag() == "max" {
			return "Display name must be at most 80 characters."
		}
		return "Display name is required."
	case "Biography":
		return "Biography must be at most 2000 characters."
	}
	return "Please check the form and try again."
}
