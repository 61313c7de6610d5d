package services

import (
	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/utils"
)

// bookingSummary is a booking with every field formatted for operators
type bookingSummary struct {
	Name           string
	Email          string
	Phone          string
	PickUpAddress  string
	DropOffAddress string
	Date           string
	Time           string
	ServiceLabel   string
	Instruction    string

	BusinessName string
	ClientIP     string
	Device       string
	RequestID    string
}

func summarize(req models.BookingRequest, meta models.SubmissionMeta, businessName string) bookingSummary {
	return bookingSummary{
		Name:           req.Name,
		Email:          req.EmailOrSentinel(),
		Phone:          req.Phone,
		PickUpAddress:  utils.NormalizeAirportAddress(req.PickUpAddress),
		DropOffAddress: utils.NormalizeAirportAddress(req.DropOffAddress),
		Date:           utils.FormatAustralianDate(req.Date),
		Time:           utils.FormatAustralianTime(req.Time),
		ServiceLabel:   utils.ServiceTypeLabel(string(req.ServiceType)),
		Instruction:    req.Instruction,

		BusinessName: businessName,
		ClientIP:     meta.ClientIP,
		Device:       meta.Device,
		RequestID:    meta.RequestID,
	}
}
