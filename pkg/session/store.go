package session

import (
	"context"
	"time"

	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Store holds the message history of each conversation
type Store interface {
	// Get returns a copy of the history for a conversation, which is empty
	// when the conversation is unknown
	Get(ctx context.Context, id string) (schema.Conversation, error)

	// Append messages to the history of a conversation
	Append(ctx context.Context, id string, messages ...*schema.Message) error

	// Delete the history of a conversation
	Delete(ctx context.Context, id string) error
}

// Session is the history of one conversation
type Session struct {
	ID       string              `json:"id"`
	Messages schema.Conversation `json:"messages,omitempty"`
	Created  time.Time           `json:"created"`
	Modified time.Time           `json:"modified"`
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (s Session) String() string {
	return types.Stringify(s)
}
