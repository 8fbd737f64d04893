// Package ui defines the interface for chat user interfaces.
//
// Implementations of [ChatUI] adapt a chat platform to a common
// event-driven model. The bot receives incoming events via
// [ChatUI.Receive] and replies through the [Context] carried by each event.
package ui

import (
	"context"
)

///////////////////////////////////////////////////////////////////////////////
// INTERFACES

// ChatUI is the top-level interface that every chat frontend must implement.
// It is an event source: callers loop over [Receive] to process incoming
// user activity.
type ChatUI interface {
	// Receive blocks until the next incoming event is available, the
	// context is cancelled, or the interface is closed. It returns
	// io.EOF when the interface is permanently closed.
	Receive(ctx context.Context) (Event, error)

	// Close stops receiving events and releases resources.
	Close() error
}

// Context represents the conversation context for a single event. It
// identifies the user and conversation, and sends responses back to the
// same conversation.
type Context interface {
	// UserID returns a platform-specific unique identifier for the user
	// who triggered the event.
	UserID() string

	// UserName returns a human-readable display name for the user.
	UserName() string

	// ConversationID returns a unique identifier for the conversation
	// (e.g. Telegram chat ID).
	ConversationID() string

	// SendText sends a plain text message to the conversation.
	SendText(ctx context.Context, text string) error

	// SendMarkdown sends a Markdown-formatted message, rendered natively
	// where the platform supports rich text.
	SendMarkdown(ctx context.Context, markdown string) error

	// SetTyping signals that the bot is processing. Platforms where the
	// indicator expires need it sent again while work continues.
	SetTyping(ctx context.Context, typing bool) error
}

///////////////////////////////////////////////////////////////////////////////
// EVENT TYPES

// EventType identifies the kind of incoming event.
type EventType int

const (
	EventText    EventType = iota // User sent a text message
	EventCommand                  // User sent a slash command (e.g. /start)
)

func (t EventType) String() string {
	switch t {
	case EventText:
		return "text"
	case EventCommand:
		return "command"
	default:
		return "unknown"
	}
}

// Event represents an incoming event from the user.
type Event struct {
	// Type identifies what kind of event this is.
	Type EventType

	// Context provides the conversation context and response methods.
	Context Context

	// Text contains the message text, or the full command string
	// including arguments.
	Text string

	// Command contains the command name without the leading slash or
	// bot mention (for EventCommand only, e.g. "start").
	Command string

	// Args contains the command arguments (for EventCommand only).
	Args []string
}
