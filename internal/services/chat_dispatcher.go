package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/viccabs/booking-service/internal/models"
	"github.com/viccabs/booking-service/internal/utils"
	"github.com/viccabs/booking-service/pkg/chat"
	"github.com/viccabs/booking-service/pkg/validator"
)

// ChatDispatcher broadcasts a booking to every configured WhatsApp recipient
type ChatDispatcher struct {
	gateway  chat.Gateway
	settings NotificationSettings
	logger   *logrus.Logger
}

// NewChatDispatcher creates a new chat dispatcher
func NewChatDispatcher(gateway chat.Gateway, settings NotificationSettings, logger *logrus.Logger) *ChatDispatcher {
	return &ChatDispatcher{
		gateway:  gateway,
		settings: settings,
		logger:   logger,
	}
}

// Dispatch sends one message to each recipient in turn.
// Success requires at least one delivery and no failures.
func (d *ChatDispatcher) Dispatch(ctx context.Context, req models.BookingRequest, meta models.SubmissionMeta) (result Result[ChatReceipt]) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.WithFields(logrus.Fields{
				"channel":    ChannelChat,
				"request_id": meta.RequestID,
				"panic":      r,
			}).Error("Chat dispatcher panicked")
			result = failure[ChatReceipt](&NotificationError{
				Channel: ChannelChat,
				Reason:  "unexpected error",
				Err:     fmt.Errorf("panic: %v", r),
			})
		}
	}()

	if len(d.settings.ChatRecipients) == 0 {
		d.logger.WithField("request_id", meta.RequestID).Warn("No WhatsApp recipients configured")
		return failure[ChatReceipt](&NotificationError{
			Channel: ChannelChat,
			Reason:  "no recipients configured",
		})
	}

	message := chatMessage(summarize(req, meta, d.settings.BusinessName))

	receipt := ChatReceipt{}
	failures := 0
	var lastErr error

	for _, recipient := range d.settings.ChatRecipients {
		receipt.Attempted++

		chatID := utils.FormatAustralianPhone(recipient) + validator.ChatIDSuffix

		messageID, err := d.gateway.SendMessage(ctx, chatID, message)
		if err != nil {
			failures++
			lastErr = err
			d.logger.WithFields(logrus.Fields{
				"channel":    ChannelChat,
				"gateway":    d.gateway.GetName(),
				"chat_id":    chatID,
				"request_id": meta.RequestID,
				"error":      err.Error(),
			}).Error("Failed to send WhatsApp message")
			continue
		}

		receipt.Sent++
		receipt.MessageIDs = append(receipt.MessageIDs, messageID)
		d.logger.WithFields(logrus.Fields{
			"channel":    ChannelChat,
			"chat_id":    chatID,
			"message_id": messageID,
			"request_id": meta.RequestID,
		}).Info("WhatsApp message sent")
	}

	if receipt.Sent == 0 || failures > 0 {
		return Result[ChatReceipt]{
			Value: receipt,
			Err: &NotificationError{
				Channel:  ChannelChat,
				Reason:   fmt.Sprintf("failed to deliver to %d recipient(s)", failures),
				Failures: failures,
				Err:      lastErr,
			},
		}
	}

	return success(receipt)
}

func chatMessage(s bookingSummary) string {
	var b strings.Builder

	b.WriteString("🚖 *New Booking Request*\n\n")

	b.WriteString("👤 *Customer Details*\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n\n", s.Name, s.Email, s.Phone)

	b.WriteString("📍 *Trip Details*\n")
	fmt.Fprintf(&b, "Pick-up: %s\nDrop-off: %s\nDate: %s\nTime: %s\nService: %s\n",
		s.PickUpAddress, s.DropOffAddress, s.Date, s.Time, s.ServiceLabel)

	if s.Instruction != "" {
		fmt.Fprintf(&b, "\n📝 *Instructions*\n%s\n", s.Instruction)
	}

	return b.String()
}
