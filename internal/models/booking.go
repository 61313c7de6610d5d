package models

import (
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// EmailNotProvided is displayed wherever an optional email was left blank
const EmailNotProvided = "Not provided"

// ServiceType is the closed set of vehicle categories a customer can book
type ServiceType string

const (
	ServiceTypeSedan          ServiceType = "sedan"
	ServiceTypeSUV5           ServiceType = "suv-5"
	ServiceTypeSUV7           ServiceType = "suv-7"
	ServiceTypeTaxiVan10      ServiceType = "taxi-van-10"
	ServiceTypeWheelchairVan  ServiceType = "wheelchair-van"
	ServiceTypeParcelDelivery ServiceType = "parcel-delivery"
)

// DefaultServiceType is used when the customer leaves the selector untouched
const DefaultServiceType = ServiceTypeSedan

// AllServiceTypes returns every service type in display order
func AllServiceTypes() []ServiceType {
	return []ServiceType{
		ServiceTypeSedan,
		ServiceTypeSUV5,
		ServiceTypeSUV7,
		ServiceTypeTaxiVan10,
		ServiceTypeWheelchairVan,
		ServiceTypeParcelDelivery,
	}
}

// ParseServiceType converts a raw code into a ServiceType.
// Blank input yields the default; unknown codes return ok=false.
func ParseServiceType(code string) (ServiceType, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultServiceType, true
	}
	st := ServiceType(code)
	if st.IsValid() {
		return st, true
	}
	return st, false
}

// IsValid reports whether the service type is one of the known categories
func (s ServiceType) IsValid() bool {
	_, ok := s.label()
	return ok
}

// Label returns the human-readable name; unknown codes are returned as-is
func (s ServiceType) Label() string {
	if label, ok := s.label(); ok {
		return label
	}
	return string(s)
}

func (s ServiceType) label() (string, bool) {
	switch s {
	case ServiceTypeSedan:
		return "Sedan", true
	case ServiceTypeSUV5:
		return "SUV (5 Seater)", true
	case ServiceTypeSUV7:
		return "SUV (7 Seater)", true
	case ServiceTypeTaxiVan10:
		return "Taxi Van (10 Seater)", true
	case ServiceTypeWheelchairVan:
		return "Wheelchair Accessible Van", true
	case ServiceTypeParcelDelivery:
		return "Parcel Delivery", true
	}
	return "", false
}

// BookingInput is the raw, untrusted form or JSON payload
type BookingInput struct {
	Name           string `json:"name" form:"name" validate:"required,min=3,max=50"`
	Email          string `json:"email" form:"email" validate:"omitempty,email"`
	Phone          string `json:"phone" form:"phone" validate:"required,digits,len=10"`
	PickUpAddress  string `json:"pickUpAddress" form:"pickUpAddress" validate:"required,min=3"`
	DropOffAddress string `json:"dropOffAddress" form:"dropOffAddress" validate:"required,min=3"`
	Date           string `json:"date" form:"date" validate:"required"`
	Time           string `json:"time" form:"time" validate:"required"`
	ServiceType    string `json:"serviceType" form:"serviceType" validate:"service_type"`
	Instruction    string `json:"instruction" form:"instruction" validate:"max=1000"`
}

// BookingRequest is a validated booking. It is passed by value and never mutated.
type BookingRequest struct {
	Name           string      `json:"name"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone"`
	PickUpAddress  string      `json:"pickUpAddress"`
	DropOffAddress string      `json:"dropOffAddress"`
	Date           string      `json:"date"`
	Time           string      `json:"time"`
	ServiceType    ServiceType `json:"serviceType"`
	Instruction    string      `json:"instruction,omitempty"`
}

// HasEmail reports whether the customer supplied an email address
func (b BookingRequest) HasEmail() bool {
	return b.Email != ""
}

// EmailOrSentinel returns the email for display, or EmailNotProvided
func (b BookingRequest) EmailOrSentinel() string {
	if b.HasEmail() {
		return b.Email
	}
	return EmailNotProvided
}

// ToInput converts the request back to raw input so it can be re-validated
func (b BookingRequest) ToInput() BookingInput {
	return BookingInput{
		Name:           b.Name,
		Email:          b.Email,
		Phone:          b.Phone,
		PickUpAddress:  b.PickUpAddress,
		DropOffAddress: b.DropOffAddress,
		Date:           b.Date,
		Time:           b.Time,
		ServiceType:    string(b.ServiceType),
		Instruction:    b.Instruction,
	}
}

// FieldErrors maps a JSON field name to one message for inline display
type FieldErrors map[string]string

// HasErrors reports whether any field failed validation
func (f FieldErrors) HasErrors() bool {
	return len(f) > 0
}

var (
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)

	validateOnce sync.Once
	validate     *validator.Validate
)

func bookingValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report errors by JSON name so they line up with form inputs
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = validate.RegisterValidation("digits", func(fl validator.FieldLevel) bool {
			return digitsRegex.MatchString(fl.Field().String())
		})
		_ = validate.RegisterValidation("service_type", func(fl validator.FieldLevel) bool {
			_, ok := ParseServiceType(fl.Field().String())
			return ok
		})
	})
	return validate
}

// Normalize trims every field and lower-cases the email
func (in BookingInput) Normalize() BookingInput {
	return BookingInput{
		Name:           strings.TrimSpace(in.Name),
		Email:          strings.ToLower(strings.TrimSpace(in.Email)),
		Phone:          strings.TrimSpace(in.Phone),
		PickUpAddress:  strings.TrimSpace(in.PickUpAddress),
		DropOffAddress: strings.TrimSpace(in.DropOffAddress),
		Date:           strings.TrimSpace(in.Date),
		Time:           strings.TrimSpace(in.Time),
		ServiceType:    strings.TrimSpace(in.ServiceType),
		Instruction:    strings.TrimSpace(in.Instruction),
	}
}

// Validate checks every field of the input and builds a BookingRequest.
// All fields are checked; FieldErrors holds one message per invalid field.
func Validate(input BookingInput) (BookingRequest, FieldErrors) {
	in := input.Normalize()

	if err := bookingValidator().Struct(in); err != nil {
		errs := FieldErrors{}
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			errs["form"] = "Invalid booking request"
			return BookingRequest{}, errs
		}
		for _, fe := range verrs {
			if _, seen := errs[fe.Field()]; !seen {
				errs[fe.Field()] = fieldMessage(fe)
			}
		}
		return BookingRequest{}, errs
	}

	serviceType, _ := ParseServiceType(in.ServiceType)

	return BookingRequest{
		Name:           in.Name,
		Email:          in.Email,
		Phone:          in.Phone,
		PickUpAddress:  in.PickUpAddress,
		DropOffAddress: in.DropOffAddress,
		Date:           in.Date,
		Time:           in.Time,
		ServiceType:    serviceType,
		Instruction:    in.Instruction,
	}, nil
}

// ValidateField validates a single field by its JSON name for as-you-type feedback.
// Returns an empty string when the field is valid.
func ValidateField(input BookingInput, field string) string {
	_, errs := Validate(input)
	return errs[field]
}

// fieldMessage translates a validator error into customer-facing text
func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "name":
		if fe.Tag() == "max" {
			return "Name must be at most 50 characters long"
		}
		return "Name must be at least 3 characters long"
	case "email":
		return "Please enter a valid email address"
	case "phone":
		if fe.Tag() == "digits" {
			return "Only numbers are allowed"
		}
		return "Ten numbers are required"
	case "pickUpAddress", "dropOffAddress":
		return "Address must be at least 3 characters long"
	case "date":
		return "Please select a date"
	case "time":
		return "Please select a time"
	case "serviceType":
		return "Please select a service type"
	case "instruction":
		return "Instructions must be at most 1000 characters long"
	default:
		return "Invalid value"
	}
}
