package utils

import (
	"regexp"
	"strings"
	"time"

	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/pkg/validator"
)

// MelbourneAirportTerminal is the canonical label for the airport departure terminal
const MelbourneAirportTerminal = "Departure Terminal, Melbourne Airport, Tullamarine"

var (
	phoneValidator = validator.NewPhoneValidator()

	australianDateRegex = regexp.MustCompile(`^\d{1,2}/\d{1,2}/\d{4}$`)
	clockTimeRegex      = regexp.MustCompile(`^\d{2}:\d{2}$`)

	melbourneAirportRegex   = regexp.MustCompile(`(?i)melbourne airport`)
	tullamarineAirportRegex = regexp.MustCompile(`(?i)tullamarine airport`)

	dateLayouts = []string{
		"2006-01-02",
		time.RFC3339,
		"2006-01-02T15:04:05",
		"2 January 2006",
		"January 2, 2006",
		"Jan 2, 2006",
		"Mon Jan 02 2006",
	}

	twelveHourLayouts = []string{"03:04 PM", "3:04 PM", "3:04PM", "3 PM", "3PM"}
	clockLayouts      = []string{"15:04:05", "15:04"}
)

// FormatAustralianPhone converts a phone number to 61-prefixed digits for the chat gateway
func FormatAustralianPhone(raw string) string {
	return phoneValidator.FormatInternational(raw)
}

// FormatAustralianDate renders a date as DD/MM/YYYY.
// Strings already in D/M/YYYY pass through; anything unparseable is returned unchanged.
func FormatAustralianDate(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return raw
	}

	if australianDateRegex.MatchString(value) {
		return value
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("02/01/2006")
		}
	}

	return raw
}

// FormatAustralianTime renders a time of day as 24-hour HH:MM; unparseable input is returned unchanged
func FormatAustralianTime(raw string) string {
	value := strings.TrimSpace(raw)
	if clockTimeRegex.MatchString(value) {
		return value
	}

	upper := strings.ToUpper(value)
	for _, layout := range twelveHourLayouts {
		if t, err := time.Parse(layout, upper); err == nil {
			return t.Format("15:04")
		}
	}

	for _, layout := range clockLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("15:04")
		}
	}

	return raw
}

// NormalizeAirportAddress gives the airport one recognizable label for drivers
func NormalizeAirportAddress(address string) string {
	lower := strings.ToLower(address)

	if strings.Contains(lower, "terminal") &&
		(strings.Contains(lower, "melbourne") || strings.Contains(lower, "3045")) &&
		strings.Contains(lower, "australia") {
		return MelbourneAirportTerminal
	}

	normalized := melbourneAirportRegex.ReplaceAllString(address, "Melbourne Airport")
	return tullamarineAirportRegex.ReplaceAllString(normalized, "Tullamarine Airport")
}

// ServiceTypeLabel maps a service code to its display name; unknown codes pass through
func ServiceTypeLabel(code string) string {
	return models.ServiceType(code).Label()
}
