package services

import (
	"fmt"
	"time"

	"github.com/viccabs/booking-service/internal/config"
)

// Channel identifies one of the two notification mechanisms
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelChat  Channel = "chat"
)

// NotificationError is the failure half of a dispatcher Result
type NotificationError struct {
	Channel  Channel
	Reason   string
	Failures int   // chat only: recipients that could not be reached
	Err      error // underlying provider error, never shown to customers
}

func (e *NotificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s notification failed: %s: %v", e.Channel, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s notification failed: %s", e.Channel, e.Reason)
}

func (e *NotificationError) Unwrap() error {
	return e.Err
}

// Result is what each dispatcher returns instead of an error
type Result[T any] struct {
	Value T
	Err   *NotificationError
}

// OK reports whether the dispatch succeeded
func (r Result[T]) OK() bool {
	return r.Err == nil
}

func success[T any](value T) Result[T] {
	return Result[T]{Value: value}
}

func failure[T any](err *NotificationError) Result[T] {
	return Result[T]{Err: err}
}

// EmailReceipt is returned by a successful email dispatch
type EmailReceipt struct {
	MessageID  string
	Recipients int
}

// ChatReceipt summarises a chat broadcast
type ChatReceipt struct {
	Attempted  int
	Sent       int
	MessageIDs []string
}

// NotificationSettings is the explicit configuration handed to both dispatchers
type NotificationSettings struct {
	EmailFrom          string
	EmailRecipients    []string
	EmailSubjectPrefix string
	ChatRecipients     []string
	Timeout            time.Duration
	BusinessName       string
}

// NewNotificationSettings builds dispatcher settings from application config
func NewNotificationSettings(cfg *config.Config) NotificationSettings {
	return NotificationSettings{
		EmailFrom:          cfg.Notification.EmailFrom,
		EmailRecipients:    cfg.Notification.EmailRecipients,
		EmailSubjectPrefix: cfg.Notification.EmailSubjectPrefix,
		ChatRecipients:     cfg.Notification.ChatRecipients,
		Timeout:            cfg.Notification.Timeout,
		BusinessName:       cfg.Business.Name,
	}
}
