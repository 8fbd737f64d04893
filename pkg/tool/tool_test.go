package tool_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

type echoRequest struct {
	City string `json:"city"`
}

type stubTool struct {
	name  string
	err   error
	calls int
}

func (s *stubTool) Name() string        { return s.name }
func (s *stubTool) Description() string { return "stub " + s.name }
func (s *stubTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[echoRequest](nil)
}
func (s *stubTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var req echoRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}
	return "echo " + req.City, nil
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_toolkit_001(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(&stubTool{name: "zeta"}, &stubTool{name: "alpha"})
	require.NoError(t, err)

	tools := tk.Tools()
	if assert.Len(tools, 2) {
		assert.Equal("alpha", tools[0].Name())
		assert.Equal("zeta", tools[1].Name())
	}
	assert.NotNil(tk.Lookup("alpha"))
	assert.Nil(tk.Lookup("missing"))
}

func Test_toolkit_002(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(&stubTool{name: "get_weather"})
	require.NoError(t, err)

	assert.ErrorIs(tk.Register(&stubTool{name: "get_weather"}), weatherbot.ErrConflict)
	assert.ErrorIs(tk.Register(&stubTool{name: "not a name"}), weatherbot.ErrBadParameter)
	assert.ErrorIs(tk.Register(nil), weatherbot.ErrBadParameter)
}

func Test_toolkit_003(t *testing.T) {
	assert := assert.New(t)
	stub := &stubTool{name: "get_weather"}
	tk, err := tool.NewToolkit(stub)
	require.NoError(t, err)

	result, err := tk.Run(context.Background(), "get_weather", json.RawMessage(`{"city":"Paris"}`))
	assert.NoError(err)
	assert.Equal("echo Paris", result)

	// Missing required field fails validation and the tool is not run
	_, err = tk.Run(context.Background(), "get_weather", json.RawMessage(`{}`))
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	_, err = tk.Run(context.Background(), "get_weather", nil)
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	_, err = tk.Run(context.Background(), "get_weather", json.RawMessage(`{"city":42}`))
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	assert.Equal(1, stub.calls)

	_, err = tk.Run(context.Background(), "get_forecast", nil)
	assert.ErrorIs(err, weatherbot.ErrNotFound)
}

func Test_toolkit_004(t *testing.T) {
	assert := assert.New(t)
	failure := errors.New("upstream down")
	tk, err := tool.NewToolkit(&stubTool{name: "get_weather", err: failure})
	require.NoError(t, err)

	_, err = tk.Run(context.Background(), "get_weather", json.RawMessage(`{"city":"Paris"}`))
	assert.ErrorIs(err, failure)
}

func Test_toolkit_005(t *testing.T) {
	assert := assert.New(t)
	tk, err := tool.NewToolkit(&stubTool{name: "get_weather"})
	require.NoError(t, err)

	defs, err := tk.Definitions()
	if assert.NoError(err) && assert.Len(defs, 1) {
		assert.Equal("get_weather", defs[0].Name)
		assert.Equal("stub get_weather", defs[0].Description)
		if assert.NotNil(defs[0].InputSchema) {
			assert.Contains(defs[0].InputSchema.Properties, "city")
		}
	}
	assert.Contains(tk.String(), "get_weather")
}
