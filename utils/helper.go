package utils

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ttacon/libphonenumber"
)

// CountryCode is the default region for vendor contact numbers.
var CountryCode = "IN"

func IsValidEmail(email string) bool {
	pattern := `^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`
	regex := regexp.MustCompile(pattern)
	return regex.MatchString(email)
}

func ValidatePhoneNumber(phoneNumber, countryCode string) error {
	p, err := libphonenumber.Parse(phoneNumber, countryCode)
	if err != nil {
		return err
	}

	if !libphonenumber.IsValidNumber(p) {
		return fmt.Errorf("phone number is not valid")
	}

	return nil
}

// NormalizePhoneNumber returns the E.164 form of a contact number when it
// parses for the default region; otherwise the input is returned unchanged.
// Vendor contact fields accept free text, so this never errors.
func NormalizePhoneNumber(phoneNumber string) string {
	raw := strings.TrimSpace(phoneNumber)
	if raw == "" {
		return ""
	}
	if err := ValidatePhoneNumber(raw, CountryCode); err != nil {
		return raw
	}
	p, _ := libphonenumber.Parse(raw, CountryCode)
	return libphonenumber.Format(p, libphonenumber.E164)
}

// ProcessValidationErrors flattens validator errors into field -> failed tag.
func ProcessValidationErrors(err error) map[string]string {
	errorResponse := make(map[string]string)

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		errorResponse["error"] = err.Error()
		return errorResponse
	}

	for _, ve := range validationErrors {
		errorResponse[ve.Field()] = ve.Tag()
	}

	return errorResponse
}

func NewTrue() *bool {
	b := true
	return &b
}
