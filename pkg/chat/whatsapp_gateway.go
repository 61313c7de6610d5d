package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// WhatsAppGateway implements chat sending via a Green-API style WhatsApp HTTP gateway
type WhatsAppGateway struct {
	apiURL     string
	instanceID string
	apiToken   string
	client     *http.Client
}

// WhatsAppConfig holds configuration for the WhatsApp gateway
type WhatsAppConfig struct {
	APIURL     string
	InstanceID string
	APIToken   string
	Timeout    time.Duration
}

// NewWhatsAppGateway creates a new WhatsApp gateway client
func NewWhatsAppGateway(config WhatsAppConfig) *WhatsAppGateway {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &WhatsAppGateway{
		apiURL:     strings.TrimRight(config.APIURL, "/"),
		instanceID: config.InstanceID,
		apiToken:   config.APIToken,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// SendMessageRequest represents the sendMessage request body
type SendMessageRequest struct {
	ChatID  string `json:"chatId"`
	Message string `json:"message"`
}

// SendMessageResponse represents the sendMessage response body
type SendMessageResponse struct {
	IDMessage string `json:"idMessage"`
}

// SendMessage posts a text message to {base}/waInstance{id}/sendMessage/{token}
func (w *WhatsAppGateway) SendMessage(ctx context.Context, chatID, message string) (string, error) {
	jsonData, err := json.Marshal(SendMessageRequest{ChatID: chatID, Message: message})
	if err != nil {
		return "", fmt.Errorf("failed to marshal message request: %w", err)
	}

	url := fmt.Sprintf("%s/waInstance%s/sendMessage/%s", w.apiURL, w.instanceID, w.apiToken)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create message request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		// The token is part of the URL; keep it out of the error
		return "", fmt.Errorf("failed to send message to %s: %w", chatID, scrub(err, w.apiToken))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read message response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("WhatsApp API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result SendMessageResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to parse message response: %w", err)
	}

	if result.IDMessage == "" {
		return "", fmt.Errorf("WhatsApp API response missing idMessage")
	}

	return result.IDMessage, nil
}

// GetName returns the name of this chat gateway
func (w *WhatsAppGateway) GetName() string {
	return "WhatsApp Gateway"
}

func scrub(err error, secret string) error {
	if secret == "" {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(err.Error(), secret, "***MASKED***"))
}

// LogGateway logs messages instead of sending them (development mode)
type LogGateway struct {
	logger *logrus.Logger
}

// NewLogGateway creates a development gateway that writes messages to the log
func NewLogGateway(logger *logrus.Logger) *LogGateway {
	return &LogGateway{logger: logger}
}

// SendMessage logs the message and returns a generated id
func (l *LogGateway) SendMessage(ctx context.Context, chatID, message string) (string, error) {
	id := "dev-" + uuid.NewString()
	l.logger.WithFields(logrus.Fields{
		"chat_id":    chatID,
		"message_id": id,
		"message":    message,
	}).Info("💬 [DEV MODE] WhatsApp message not sent")
	return id, nil
}

// GetName returns the name of this chat gateway
func (l *LogGateway) GetName() string {
	return "Log Gateway (dev)"
}
