package mailer

import (
	"context"
	"fmt"
	"sort"

	"github.com/resend/resend-go/v2"
)

// ResendSender implements Sender via the Resend API
type ResendSender struct {
	client *resend.Client
}

// NewResendSender creates a new Resend email sender
func NewResendSender(apiKey string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey)}
}

// NewResendSenderWithClient wraps an existing Resend client (custom base URL or HTTP client)
func NewResendSenderWithClient(client *resend.Client) *ResendSender {
	return &ResendSender{client: client}
}

// Send delivers the message through Resend
func (r *ResendSender) Send(ctx context.Context, msg Message) (string, error) {
	if len(msg.To) == 0 {
		return "", fmt.Errorf("email has no recipients")
	}

	params := &resend.SendEmailRequest{
		From:    msg.From,
		To:      msg.To,
		Subject: msg.Subject,
		Text:    msg.Text,
		Html:    msg.HTML,
		ReplyTo: msg.ReplyTo,
		Tags:    toTags(msg.Tags),
	}

	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("resend send failed: %w", err)
	}

	return sent.Id, nil
}

// GetName returns the name of this sender
func (r *ResendSender) GetName() string {
	return "Resend"
}

// toTags converts tags to Resend's list form, sorted for stable requests
func toTags(tags map[string]string) []resend.Tag {
	if len(tags) == 0 {
		return nil
	}

	names := make([]string, 0, len(tags))
	for name := range tags {
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]resend.Tag, 0, len(names))
	for _, name := range names {
		result = append(result, resend.Tag{Name: name, Value: tags[name]})
	}
	return result
}
