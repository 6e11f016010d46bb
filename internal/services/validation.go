package services

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"cipherhaven/internal/models"
)

const minPhoneDigits = 10

var fieldMessages = map[string]string{
	"username":      "Username must be at least 3 characters",
	"email_address": "Please enter a valid email address",
	"password":      "Password must be at least 6 characters",
	"name":          "Name must be at least 2 characters",
	"phone_number":  "Phone number must be at least 10 digits",
	"code":          "Verification code is required",
}

var formValidator = newFormValidator()

func newFormValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return countDigits(fl.Field().String()) >= minPhoneDigits
	})
	return v
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// ValidateDraft checks the registration form; nil means the draft may be submitted.
func ValidateDraft(draft models.RegistrationDraft) *ValidationError {
	return validateForm(draft)
}

// ValidateAttempt trims the code in place before checking it.
func ValidateAttempt(attempt *models.VerificationAttempt) *ValidationError {
	attempt.Code = strings.TrimSpace(attempt.Code)
	return validateForm(attempt)
}

func validateForm(form any) *ValidationError {
	err := formValidator.Struct(form)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Fields: map[string]string{"form": err.Error()}}
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = fe.Field() + " is invalid"
		}
		fields[fe.Field()] = msg
	}
	return &ValidationError{Fields: fields}
}

// SplitName splits a full name into first name and the rest.
func SplitName(full string) (first, last string) {
	parts := strings.Fields(full)
	switch len(parts) {
	case 0:
		return "", ""
	case 1:
		return parts[0], ""
	}
	return parts[0], strings.Join(parts[1:], " ")
}
