package agent

import (
	"context"
	"errors"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	session "github.com/mutablelogic/go-weatherbot/pkg/session"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Generator sends a request to a language model and returns its reply
type Generator interface {
	Generate(ctx context.Context, request schema.GenerateRequest) (*schema.Message, error)
}

// Agent answers questions using a language model, which may call the
// tools in its toolkit. History is kept per conversation.
type Agent struct {
	generator   Generator
	model       string
	instruction string
	toolkit     *tool.Toolkit
	store       session.Store
	maxIter     int
	logger      *zap.Logger
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	DefaultModel         = "gpt-4o-mini"
	DefaultMaxIterations = 4
)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates an agent which uses the generator to answer questions
func New(generator Generator, opts ...Opt) (*Agent, error) {
	if generator == nil {
		return nil, weatherbot.ErrBadParameter.With("generator is required")
	}
	self := &Agent{
		generator:   generator,
		model:       DefaultModel,
		instruction: DefaultInstruction,
		maxIter:     DefaultMaxIterations,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		if err := opt(self); err != nil {
			return nil, err
		}
	}

	// Empty toolkit and memory store when not set
	if self.toolkit == nil {
		if toolkit, err := tool.NewToolkit(); err != nil {
			return nil, err
		} else {
			self.toolkit = toolkit
		}
	}
	if self.store == nil {
		self.store = session.NewMemoryStore(session.DefaultLimit)
	}

	// Return success
	return self, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Model returns the model identifier
func (a *Agent) Model() string {
	return a.model
}

// Toolkit returns the tools the model may call
func (a *Agent) Toolkit() *tool.Toolkit {
	return a.toolkit
}

// Reset forgets the history of a conversation
func (a *Agent) Reset(ctx context.Context, conversation string) error {
	if err := a.store.Delete(ctx, conversation); err != nil && !errors.Is(err, weatherbot.ErrNotFound) {
		return err
	}
	return nil
}
