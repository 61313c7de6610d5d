package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatAustralianPhone(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0412345678", "61412345678"},
		{"+61412345678", "61412345678"},
		{"61412345678", "61412345678"},
		{"0412 345 678", "61412345678"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := FormatAustralianPhone(tc.input)
			assert.Equal(t, tc.expected, got)
			assert.Equal(t, got, FormatAustralianPhone(got), "must be idempotent")
		})
	}
}

func TestFormatAustralianDate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2026-03-14", "14/03/2026"},
		{"2026-03-14T09:30:00Z", "14/03/2026"},
		{"2026-03-14T09:30:00", "14/03/2026"},
		{"14 March 2026", "14/03/2026"},
		{"March 14, 2026", "14/03/2026"},
		{"Mar 14, 2026", "14/03/2026"},
		{"Sat Mar 14 2026", "14/03/2026"},
		{"14/03/2026", "14/03/2026"},
		{"4/3/2026", "4/3/2026"},
		{"", ""},
		{"next tuesday", "next tuesday"},
		{"2026-13-45", "2026-13-45"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAustralianDate(tc.input))
		})
	}
}

func TestFormatAustralianTime(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"14:30", "14:30"},
		{"02:30 PM", "14:30"},
		{"2:30 pm", "14:30"},
		{"2:30PM", "14:30"},
		{"12:15 AM", "00:15"},
		{"3 PM", "15:00"},
		{"9am", "09:00"},
		{"09:30:15", "09:30"},
		{"9:05", "09:05"},
		{"", ""},
		{"soon", "soon"},
		{"25:99", "25:99"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, FormatAustralianTime(tc.input))
		})
	}
}

func TestNormalizeAirportAddress(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"International Terminal, Melbourne 3045, Australia", MelbourneAirportTerminal},
		{"T4 terminal, Tullamarine VIC 3045, australia", MelbourneAirportTerminal},
		{"take me to melbourne airport please", "take me to Melbourne Airport please"},
		{"TULLAMARINE AIRPORT", "Tullamarine Airport"},
		{"1 Flinders Street, Melbourne VIC 3000, Australia", "1 Flinders Street, Melbourne VIC 3000, Australia"},
		{"Bus Terminal, Sydney, Australia", "Bus Terminal, Sydney, Australia"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeAirportAddress(tc.input))
		})
	}
}

func TestServiceTypeLabel(t *testing.T) {
	assert.Equal(t, "SUV (7 Seater)", ServiceTypeLabel("suv-7"))
	assert.Equal(t, "Parcel Delivery", ServiceTypeLabel("parcel-delivery"))
	assert.Equal(t, "unknown-code", ServiceTypeLabel("unknown-code"))
	assert.Equal(t, "", ServiceTypeLabel(""))
}

func TestGenerateReference(t *testing.T) {
	ref := GenerateReference()
	assert.Regexp(t, `^[A-Z0-9]{8}$`, ref)

	assert.Regexp(t, `^[A-Z0-9]{8}$`, fallbackReference())
}

func TestParseUserAgent(t *testing.T) {
	iphone := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1"

	info := ParseUserAgent(iphone)
	assert.Equal(t, "mobile", info.DeviceType)
	assert.Contains(t, info.Browser, "Safari")
	assert.False(t, info.IsBot)

	empty := ParseUserAgent("")
	assert.Equal(t, "unknown", empty.DeviceType)
	assert.Equal(t, "unknown · Unknown · Unknown", empty.Summary())
}
