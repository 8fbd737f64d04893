package tool

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	types "github.com/mutablelogic/go-server/pkg/types"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// Tool is an interface for a tool with a name, description and JSON schema
type Tool interface {
	// Return the name of the tool
	Name() string

	// Return the description of the tool
	Description() string

	// Return the JSON schema for the tool input
	Schema() (*jsonschema.Schema, error)

	// Run the tool with the given input as JSON (may be nil)
	Run(ctx context.Context, input json.RawMessage) (any, error)
}

// Toolkit is a collection of tools with unique names
type Toolkit struct {
	sync.RWMutex
	tools map[string]Tool
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewToolkit creates a new toolkit with the given tools.
// Returns an error if any tool has an invalid or duplicate name.
func NewToolkit(tools ...Tool) (*Toolkit, error) {
	tk := &Toolkit{
		tools: make(map[string]Tool),
	}
	if err := tk.Register(tools...); err != nil {
		return nil, err
	}
	return tk, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Tools returns all tools in the toolkit, sorted by name
func (tk *Toolkit) Tools() []Tool {
	tk.RLock()
	defer tk.RUnlock()

	result := make([]Tool, 0, len(tk.tools))
	for _, t := range tk.tools {
		result = append(result, t)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name() < result[j].Name()
	})
	return result
}

// Register adds one or more tools to the toolkit.
// Returns an error if any tool is nil, or has an invalid or duplicate name.
func (tk *Toolkit) Register(tools ...Tool) error {
	tk.Lock()
	defer tk.Unlock()

	for _, t := range tools {
		if t == nil {
			return weatherbot.ErrBadParameter.With("tool cannot be nil")
		}
		name := t.Name()
		if !types.IsIdentifier(name) {
			return weatherbot.ErrBadParameter.Withf("invalid tool name: %q", name)
		}
		if _, exists := tk.tools[name]; exists {
			return weatherbot.ErrConflict.Withf("duplicate tool name: %q", name)
		}
		tk.tools[name] = t
	}
	return nil
}

// Lookup returns a tool by name, or nil if not found
func (tk *Toolkit) Lookup(name string) Tool {
	tk.RLock()
	defer tk.RUnlock()
	return tk.tools[name]
}

// Definitions returns the name, description and input schema of every tool,
// for passing to a language model
func (tk *Toolkit) Definitions() ([]schema.ToolDefinition, error) {
	tools := tk.Tools()
	result := make([]schema.ToolDefinition, 0, len(tools))
	for _, t := range tools {
		s, err := t.Schema()
		if err != nil {
			return nil, weatherbot.ErrInternalServerError.Withf("%s: schema generation failed: %v", t.Name(), err)
		}
		result = append(result, schema.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: s,
		})
	}
	return result, nil
}

// Run executes a tool by name with the given JSON input, which may be nil.
// Returns an error if the tool is not found, the input does not match the
// schema, or the tool execution fails.
func (tk *Toolkit) Run(ctx context.Context, name string, input json.RawMessage) (any, error) {
	// Lookup the tool
	tool := tk.Lookup(name)
	if tool == nil {
		return nil, weatherbot.ErrNotFound.Withf("tool not found: %q", name)
	}

	// Validate input against schema if provided
	if err := validate(tool, input); err != nil {
		return nil, err
	}

	// Run the tool with raw JSON
	return tool.Run(ctx, input)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func validate(tool Tool, input json.RawMessage) error {
	schema, err := tool.Schema()
	if err != nil {
		return weatherbot.ErrBadParameter.Withf("schema generation failed: %v", err)
	} else if schema == nil {
		return nil
	}

	// Missing input validates as an empty object
	mapInput := map[string]any{}
	if len(input) > 0 {
		if err := json.Unmarshal(input, &mapInput); err != nil {
			return weatherbot.ErrBadParameter.Withf("failed to unmarshal JSON input: %v", err)
		}
	}

	// Validate against schema
	resolved, err := schema.Resolve(nil)
	if err != nil {
		return weatherbot.ErrBadParameter.Withf("schema resolution failed: %v", err)
	}
	if err := resolved.Validate(mapInput); err != nil {
		return weatherbot.ErrBadParameter.Withf("input validation failed: %v", err)
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////
// STRINGIFY

func (tk *Toolkit) String() string {
	tools := tk.Tools()
	names := make([]string, 0, len(tools))
	for _, t := range tools {
		names = append(names, t.Name())
	}
	return types.Stringify(names)
}
