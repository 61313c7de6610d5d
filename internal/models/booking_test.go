package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() BookingInput {
	return BookingInput{
		Name:           "Jane Citizen",
		Email:          "Jane@Example.com",
		Phone:          "0412345678",
		PickUpAddress:  "1 Flinders Street, Melbourne",
		DropOffAddress: "Melbourne Airport",
		Date:           "2026-03-14",
		Time:           "02:30 PM",
		ServiceType:    "suv-7",
		Instruction:    "  Two large suitcases ",
	}
}

func TestValidate_Valid(t *testing.T) {
	req, errs := Validate(validInput())
	require.Nil(t, errs)

	assert.Equal(t, "Jane Citizen", req.Name)
	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, ServiceTypeSUV7, req.ServiceType)
	assert.Equal(t, "Two large suitcases", req.Instruction)
}

func TestValidate_TrimsBeforeChecking(t *testing.T) {
	in := validInput()
	in.Name = "   Al   "

	_, errs := Validate(in)
	assert.Equal(t, "Name must be at least 3 characters long", errs["name"])
}

func TestValidate_SingleFieldViolations(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*BookingInput)
		field   string
		message string
	}{
		{"short name", func(in *BookingInput) { in.Name = "Al" }, "name", "Name must be at least 3 characters long"},
		{"long name", func(in *BookingInput) { in.Name = strings.Repeat("a", 51) }, "name", "Name must be at most 50 characters long"},
		{"malformed email", func(in *BookingInput) { in.Email = "not-an-email" }, "email", "Please enter a valid email address"},
		{"nine digit phone", func(in *BookingInput) { in.Phone = "041234567" }, "phone", "Ten numbers are required"},
		{"phone with spaces", func(in *BookingInput) { in.Phone = "0412 345 678" }, "phone", "Only numbers are allowed"},
		{"short phone with letters", func(in *BookingInput) { in.Phone = "04ab" }, "phone", "Only numbers are allowed"},
		{"short pickup", func(in *BookingInput) { in.PickUpAddress = "ab" }, "pickUpAddress", "Address must be at least 3 characters long"},
		{"short dropoff", func(in *BookingInput) { in.DropOffAddress = " x " }, "dropOffAddress", "Address must be at least 3 characters long"},
		{"missing date", func(in *BookingInput) { in.Date = "" }, "date", "Please select a date"},
		{"missing time", func(in *BookingInput) { in.Time = "  " }, "time", "Please select a time"},
		{"unknown service", func(in *BookingInput) { in.ServiceType = "limousine" }, "serviceType", "Please select a service type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)

			_, errs := Validate(in)
			require.Len(t, errs, 1)
			assert.Equal(t, tc.message, errs[tc.field])
		})
	}
}

func TestValidate_ChecksAllFields(t *testing.T) {
	_, errs := Validate(BookingInput{})

	assert.True(t, errs.HasErrors())
	for _, field := range []string{"name", "phone", "pickUpAddress", "dropOffAddress", "date", "time"} {
		assert.Contains(t, errs, field)
	}
	assert.NotContains(t, errs, "email")
	assert.NotContains(t, errs, "serviceType")
}

func TestValidate_OptionalEmailAndDefaultService(t *testing.T) {
	in := validInput()
	in.Email = ""
	in.ServiceType = ""

	req, errs := Validate(in)
	require.Nil(t, errs)
	assert.False(t, req.HasEmail())
	assert.Equal(t, EmailNotProvided, req.EmailOrSentinel())
	assert.Equal(t, ServiceTypeSedan, req.ServiceType)
}

func TestValidate_RoundTripsThroughToInput(t *testing.T) {
	req, errs := Validate(validInput())
	require.Nil(t, errs)

	again, errs := Validate(req.ToInput())
	require.Nil(t, errs)
	assert.Equal(t, req, again)
}

func TestValidateField(t *testing.T) {
	in := validInput()
	in.Phone = "12"
	in.Name = "Al"

	assert.Equal(t, "Ten numbers are required", ValidateField(in, "phone"))
	assert.Equal(t, "Name must be at least 3 characters long", ValidateField(in, "name"))
	assert.Empty(t, ValidateField(in, "email"))
}

func TestServiceTypeLabel(t *testing.T) {
	assert.Equal(t, "Sedan", ServiceTypeSedan.Label())
	assert.Equal(t, "SUV (5 Seater)", ServiceTypeSUV5.Label())
	assert.Equal(t, "Taxi Van (10 Seater)", ServiceTypeTaxiVan10.Label())
	assert.Equal(t, "Wheelchair Accessible Van", ServiceTypeWheelchairVan.Label())
	assert.Equal(t, "hovercraft", ServiceType("hovercraft").Label())

	for _, st := range AllServiceTypes() {
		assert.True(t, st.IsValid(), st)
		assert.NotEqual(t, string(st), st.Label())
	}
}

func TestAddressCandidateDisplayAddress(t *testing.T) {
	assert.Equal(t, "full", AddressCandidate{Name: "n", PlaceFormatted: "p", FullAddress: "full"}.DisplayAddress())
	assert.Equal(t, "p", AddressCandidate{Name: "n", PlaceFormatted: "p"}.DisplayAddress())
	assert.Equal(t, "n", AddressCandidate{Name: "n"}.DisplayAddress())
}
