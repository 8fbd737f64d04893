package session

import (
	"context"
	"strings"
	"sync"
	"time"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// MemoryStore is an in-memory implementation of Store, which keeps a bounded
// number of messages per conversation. It is safe for concurrent use.
type MemoryStore struct {
	mu       sync.RWMutex
	limit    int
	sessions map[string]*Session
}

var _ Store = (*MemoryStore)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// DefaultLimit is the number of messages kept per conversation
const DefaultLimit = 20

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewMemoryStore creates a new empty in-memory store, which keeps at most
// limit messages per conversation. A limit of zero means DefaultLimit.
func NewMemoryStore(limit int) *MemoryStore {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &MemoryStore{
		limit:    limit,
		sessions: make(map[string]*Session),
	}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Get returns a copy of the history for a conversation
func (m *MemoryStore) Get(_ context.Context, id string) (schema.Conversation, error) {
	if id = strings.TrimSpace(id); id == "" {
		return nil, weatherbot.ErrBadParameter.With("conversation id is required")
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[id]
	if !ok {
		return schema.Conversation{}, nil
	}
	result := make(schema.Conversation, len(s.Messages))
	copy(result, s.Messages)
	return result, nil
}

// Append messages to a conversation, dropping the oldest messages when the
// history grows beyond the limit
func (m *MemoryStore) Append(_ context.Context, id string, messages ...*schema.Message) error {
	if id = strings.TrimSpace(id); id == "" {
		return weatherbot.ErrBadParameter.With("conversation id is required")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	s, ok := m.sessions[id]
	if !ok {
		s = &Session{ID: id, Created: now}
		m.sessions[id] = s
	}
	for _, message := range messages {
		if message != nil {
			s.Messages = append(s.Messages, message)
		}
	}
	s.Messages = trim(s.Messages, m.limit)
	s.Modified = now

	return nil
}

// Delete the history of a conversation. Deleting an unknown conversation
// returns ErrNotFound.
func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return weatherbot.ErrNotFound.Withf("conversation %q", id)
	}
	delete(m.sessions, id)
	return nil
}

// Len returns the number of conversations held
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// trim keeps at most limit messages, and then drops messages from the front
// until the history starts with a user message, so a tool result is never
// separated from the call which produced it
func trim(messages schema.Conversation, limit int) schema.Conversation {
	if len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	for len(messages) > 0 && messages[0].Role != schema.RoleUser {
		messages = messages[1:]
	}
	// Copy so the dropped messages can be collected
	result := make(schema.Conversation, len(messages))
	copy(result, messages)
	return result
}
