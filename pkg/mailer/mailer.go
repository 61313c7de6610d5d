package mailer

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Message is one transactional email
type Message struct {
	From    string
	To      []string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
	Tags    map[string]string
}

// Sender defines the interface for sending transactional email
type Sender interface {
	// Send delivers the message and returns the provider's message id
	Send(ctx context.Context, msg Message) (string, error)

	// GetName returns the name of the email provider implementation
	GetName() string
}

// LogSender logs emails instead of sending them (development mode)
type LogSender struct {
	logger *logrus.Logger
}

// NewLogSender creates a development sender that writes emails to the log
func NewLogSender(logger *logrus.Logger) *LogSender {
	return &LogSender{logger: logger}
}

// Send logs the message and returns a generated id
func (l *LogSender) Send(ctx context.Context, msg Message) (string, error) {
	id := "dev-" + uuid.NewString()
	l.logger.WithFields(logrus.Fields{
		"message_id": id,
		"from":       msg.From,
		"to":         msg.To,
		"reply_to":   msg.ReplyTo,
		"subject":    msg.Subject,
		"text":       msg.Text,
	}).Info("📧 [DEV MODE] Email not sent")
	return id, nil
}

// GetName returns the name of this sender
func (l *LogSender) GetName() string {
	return "Log Sender (dev)"
}
