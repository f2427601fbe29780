// Package transport is the outbound side of the chat protocol shell. The
// routing engine only depends on the Sender interface; the concrete client
// speaks the Telegram-style Bot HTTP API.
package transport

import "context"

// Sender delivers text and image replies to a chat identity. Implementations
// must be safe for concurrent use; the engine treats failures as dispatch
// errors to be logged, never fatal.
type Sender interface {
	// SendText delivers a plain text message to the given chat.
	SendText(ctx context.Context, chatID int64, text string) error

	// SendImage uploads and delivers an image file to the given chat.
	SendImage(ctx context.Context, chatID int64, imagePath string) error
}
