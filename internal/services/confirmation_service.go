package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/viccabs/booking-service/internal/utils"
)

const (
	NotSpecified = "Not specified"
	InvalidDate  = "Invalid date"
)

var (
	twelveHourPattern = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})\s*(AM|PM)$`)
	clockPattern      = regexp.MustCompile(`^(\d{1,2}):(\d{2})(:\d{2})?$`)

	confirmationDateLayouts = []string{"2006-01-02", "02/01/2006", "2/1/2006", time.RFC3339}
)

// ConfirmationView is the data shown on the thank-you page
type ConfirmationView struct {
	HasDetails bool   `json:"has_details"`
	Name       string `json:"name,omitempty"`
	Date       string `json:"date,omitempty"`
	Time       string `json:"time,omitempty"`
	Reference  string `json:"reference"`
}

// ConfirmationService renders untrusted confirmation parameters for display
type ConfirmationService struct {
	newReference func() string
}

// NewConfirmationService creates a new confirmation service
func NewConfirmationService() *ConfirmationService {
	return &ConfirmationService{newReference: utils.GenerateReference}
}

// Render builds the view; incomplete parameters produce the placeholder view rather than an error
func (s *ConfirmationService) Render(name, date, clock string) ConfirmationView {
	name = strings.TrimSpace(name)
	date = strings.TrimSpace(date)
	clock = strings.TrimSpace(clock)

	view := ConfirmationView{Reference: "#" + s.newReference()}

	if name == "" || (date == "" && clock == "") {
		return view
	}

	view.HasDetails = true
	view.Name = name
	view.Date = FormatConfirmationDate(date)
	view.Time = FormatConfirmationTime(clock)
	return view
}

// FormatConfirmationDate renders a date as "Monday, 2 January 2006"
func FormatConfirmationDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NotSpecified
	}

	for _, layout := range confirmationDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Monday, 2 January 2006")
		}
	}

	return InvalidDate
}

// FormatConfirmationTime renders a time as "3:04 PM".
// 12-hour input is preferred over 24-hour; unrecognised input is shown as typed.
func FormatConfirmationTime(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return NotSpecified
	}

	if m := twelveHourPattern.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour >= 1 && hour <= 12 && minute <= 59 {
			return fmt.Sprintf("%d:%s %s", hour, m[2], strings.ToUpper(m[3]))
		}
	}

	if m := clockPattern.FindStringSubmatch(raw); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour <= 23 && minute <= 59 {
			t := time.Date(2000, 1, 1, hour, minute, 0, 0, time.UTC)
			return t.Format("3:04 PM")
		}
	}

	return raw
}
