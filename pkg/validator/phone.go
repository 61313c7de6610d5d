package validator

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

var (
	// ErrInvalidLength indicates phone number length is not 10 digits
	ErrInvalidLength = errors.New("phone number must be exactly 10 digits")

	// ErrInvalidFormat indicates phone number contains invalid characters
	ErrInvalidFormat = errors.New("phone number can only contain digits")

	// ErrEmptyPhone indicates phone number is empty
	ErrEmptyPhone = errors.New("phone number cannot be empty")
)

const (
	// CountryCode is the Australian international dialling code
	CountryCode = "61"

	// ChatIDSuffix is appended to the international number to address a WhatsApp chat
	ChatIDSuffix = "@c.us"
)

// phoneRegex matches digits only
var phoneRegex = regexp.MustCompile(`^[0-9]+$`)

var nonDigitRegex = regexp.MustCompile(`[^0-9]`)

// PhoneValidator handles Australian phone number validation and formatting
type PhoneValidator struct{}

// NewPhoneValidator creates a new phone validator instance
func NewPhoneValidator() *PhoneValidator {
	return &PhoneValidator{}
}

// Validate validates a customer-entered Australian phone number.
// The number must already be digits only (0412345678); separators are rejected
// rather than silently removed so the customer sees what the operator will dial.
func (v *PhoneValidator) Validate(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrEmptyPhone
	}

	// Digits check comes before the length check
	if !phoneRegex.MatchString(phone) {
		return "", ErrInvalidFormat
	}

	if len(phone) != 10 {
		return "", ErrInvalidLength
	}

	return phone, nil
}

// Sanitize removes all non-digit characters from phone number
func (v *PhoneValidator) Sanitize(phone string) string {
	return nonDigitRegex.ReplaceAllString(phone, "")
}

// FormatInternational converts a phone number to the 61-prefixed digits-only form
// Input: "0412345678", "+61412345678", "61412345678", "0412 345 678"
// Output: "61412345678"
// Anything else is returned as its digits, unchanged.
func (v *PhoneValidator) FormatInternational(phone string) string {
	digits := v.Sanitize(phone)

	switch {
	case strings.HasPrefix(digits, CountryCode):
		return digits
	case strings.HasPrefix(digits, "0"):
		return CountryCode + digits[1:]
	default:
		return digits
	}
}

// ChatID converts a phone number to the WhatsApp chat address <61number>@c.us
func (v *PhoneValidator) ChatID(phone string) (string, error) {
	international := v.FormatInternational(phone)
	if international == "" {
		return "", ErrEmptyPhone
	}
	return international + ChatIDSuffix, nil
}

// Format formats a phone number in the standard display format: 04XX XXX XXX
func (v *PhoneValidator) Format(phone string) (string, error) {
	sanitized, err := v.Validate(phone)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s %s %s",
		sanitized[0:4],  // 04XX
		sanitized[4:7],  // XXX
		sanitized[7:10], // XXX
	), nil
}

// IsValid is a convenience method that returns true if phone is valid
func (v *PhoneValidator) IsValid(phone string) bool {
	_, err := v.Validate(phone)
	return err == nil
}
