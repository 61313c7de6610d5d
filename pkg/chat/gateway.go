package chat

import "context"

// Gateway defines the interface for sending chat messages
type Gateway interface {
	// SendMessage delivers one text message to a chat address (e.g. 61412345678@c.us)
	// Returns the provider's message id
	SendMessage(ctx context.Context, chatID, message string) (string, error)

	// GetName returns the name of the chat gateway implementation
	GetName() string
}
