package schema

import (
	// Packages
	types "github.com/mutablelogic/go-server/pkg/types"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

// GenerateRequest is one round trip to a language model: the system
// instruction, the conversation so far and the tools the model may call
type GenerateRequest struct {
	Model       string           `json:"model"`
	Instruction string           `json:"instruction,omitempty"`
	Messages    Conversation     `json:"messages"`
	Tools       []ToolDefinition `json:"tools,omitempty"`
}

////////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (r GenerateRequest) String() string {
	return types.Stringify(r)
}
