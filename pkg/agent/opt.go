package agent

import (
	"strings"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	session "github.com/mutablelogic/go-weatherbot/pkg/session"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	zap "go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// Opt sets an option on the agent
type Opt func(*Agent) error

////////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithModel sets the model identifier passed to the generator
func WithModel(model string) Opt {
	return func(a *Agent) error {
		if model = strings.TrimSpace(model); model == "" {
			return weatherbot.ErrBadParameter.With("model is required")
		}
		a.model = model
		return nil
	}
}

// WithInstruction replaces the system instruction
func WithInstruction(instruction string) Opt {
	return func(a *Agent) error {
		a.instruction = strings.TrimSpace(instruction)
		return nil
	}
}

// WithToolkit sets the tools the model may call
func WithToolkit(toolkit *tool.Toolkit) Opt {
	return func(a *Agent) error {
		a.toolkit = toolkit
		return nil
	}
}

// WithStore sets where conversation history is kept
func WithStore(store session.Store) Opt {
	return func(a *Agent) error {
		a.store = store
		return nil
	}
}

// WithMaxIterations sets how many rounds of tool calls are allowed per question
func WithMaxIterations(n int) Opt {
	return func(a *Agent) error {
		if n < 1 {
			return weatherbot.ErrBadParameter.Withf("max iterations must be at least 1, got %d", n)
		}
		a.maxIter = n
		return nil
	}
}

func WithLogger(logger *zap.Logger) Opt {
	return func(a *Agent) error {
		if logger != nil {
			a.logger = logger
		}
		return nil
	}
}
