package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/pkg/mailer"
)

//go:embed templates/booking_email.html
var emailTemplates embed.FS

var bookingEmailTemplate = template.Must(template.ParseFS(emailTemplates, "templates/booking_email.html"))

// EmailDispatcher notifies operators of a booking by transactional email
type EmailDispatcher struct {
	sender   mailer.Sender
	settings NotificationSettings
	logger   *logrus.Logger
}

// NewEmailDispatcher creates a new email dispatcher
func NewEmailDispatcher(sender mailer.Sender, settings NotificationSettings, logger *logrus.Logger) *EmailDispatcher {
	return &EmailDispatcher{
		sender:   sender,
		settings: settings,
		logger:   logger,
	}
}

// Dispatch sends the booking email to every operator recipient.
// It never returns an error or panics; failures are reported in the Result.
func (d *EmailDispatcher) Dispatch(ctx context.Context, req models.BookingRequest, meta models.SubmissionMeta) (result Result[EmailReceipt]) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"channel":    ChannelEmail,
				"request_id": meta.RequestID,
				"panic":      r,
			}).Error("Email dispatcher panicked")
			result = failure[EmailReceipt](&NotificationError{
				Channel: ChannelEmail,
				Reason:  "unexpected error",
				Err:     fmt.Errorf("panic: %v", r),
			})
		}
	}()

	if _, errs := models.Validate(req.ToInput()); errs.HasErrors() {
		return failure[EmailReceipt](&NotificationError{
			Channel: ChannelEmail,
			Reason:  "invalid booking request",
			Err:     fmt.Errorf("field errors: %v", errs),
		})
	}

	if len(d.settings.EmailRecipients) == 0 {
		return failure[EmailReceipt](&NotificationError{
			Channel: ChannelEmail,
			Reason:  "no email recipients configured",
		})
	}

	msg, err := d.buildMessage(req, meta)
	if err != nil {
		return failure[EmailReceipt](&NotificationError{
			Channel: ChannelEmail,
			Reason:  "failed to render email",
			Err:     err,
		})
	}

	messageID, err := d.sender.Send(ctx, msg)
	if err != nil {
		d.logger.WithFields(logrus.Fields{
			"channel":    ChannelEmail,
			"provider":   d.sender.GetName(),
			"request_id": meta.RequestID,
			"error":      err.Error(),
		}).Error("Failed to send booking email")
		return failure[EmailReceipt](&NotificationError{
			Channel: ChannelEmail,
			Reason:  "email provider rejected the message",
			Err:     err,
		})
	}

	d.logger.WithFields(logrus.Fields{
		"channel":    ChannelEmail,
		"provider":   d.sender.GetName(),
		"message_id": messageID,
		"recipients": len(d.settings.EmailRecipients),
		"request_id": meta.RequestID,
	}).Info("Booking email sent")

	return success(EmailReceipt{MessageID: messageID, Recipients: len(d.settings.EmailRecipients)})
}

func (d *EmailDispatcher) buildMessage(req models.BookingRequest, meta models.SubmissionMeta) (mailer.Message, error) {
	summary := summarize(req, meta, d.settings.BusinessName)

	var html bytes.Buffer
	if err := bookingEmailTemplate.Execute(&html, summary); err != nil {
		return mailer.Message{}, fmt.Errorf("failed to execute email template: %w", err)
	}

	prefix := d.settings.EmailSubjectPrefix
	if prefix == "" {
		prefix = "New Booking Request"
	}

	msg := mailer.Message{
		From:    d.settings.EmailFrom,
		To:      d.settings.EmailRecipients,
		Subject: fmt.Sprintf("%s - %s", prefix, req.Name),
		Text:    emailText(summary),
		HTML:    html.String(),
		Tags:    map[string]string{"service_type": strings.ReplaceAll(string(req.ServiceType), "-", "_")},
	}
	if req.HasEmail() {
		msg.ReplyTo = req.Email
	}

	return msg, nil
}

func emailText(s bookingSummary) string {
	var b strings.Builder

	b.WriteString("New Booking Request\n\n")
	b.WriteString("Customer Details\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n\n", s.Name, s.Email, s.Phone)
	b.WriteString("Trip Details\n")
	fmt.Fprintf(&b, "Pick-up: %s\nDrop-off: %s\nDate: %s\nTime: %s\nService: %s\n",
		s.PickUpAddress, s.DropOffAddress, s.Date, s.Time, s.ServiceLabel)

	if s.Instruction != "" {
		fmt.Fprintf(&b, "\nInstructions\n%s\n", s.Instruction)
	}

	if s.ClientIP != "" || s.Device != "" {
		fmt.Fprintf(&b, "\n--\nSubmitted from %s (%s)\n", s.ClientIP, s.Device)
	}

	return b.String()
}
