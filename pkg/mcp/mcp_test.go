package mcp_test

import (
	"context"
	"encoding/json"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	mcp "github.com/mutablelogic/go-weatherbot/pkg/mcp"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// TEST SET-UP

type cityRequest struct {
	City string `json:"city" jsonschema:"City name"`
}

type cityTool struct{}

func (cityTool) Name() string        { return "get_weather" }
func (cityTool) Description() string { return "Get the weather" }
func (cityTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[cityRequest](nil)
}
func (cityTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req cityRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}
	if req.City == "Atlantis" {
		return nil, weatherbot.ErrLocationNotFound.Withf("%q", req.City)
	}
	return map[string]any{"place_name": req.City + ", Earth", "temperature": 21.5}, nil
}

func connect(t *testing.T) *mcp.Client {
	t.Helper()
	toolkit, err := tool.NewToolkit(cityTool{})
	require.NoError(t, err)
	server, err := mcp.NewServer("test-server", "0.0.1", toolkit, nil)
	require.NoError(t, err)
	client, err := mcp.InProcess(context.Background(), "test-client", "0.0.1", server)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })
	return client
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_mcp_001(t *testing.T) {
	assert := assert.New(t)
	client := connect(t)
	assert.NoError(client.Ping(context.Background()))

	tools, err := client.Tools(context.Background())
	require.NoError(t, err)
	if assert.Len(tools, 1) {
		assert.Equal("get_weather", tools[0].Name())
		assert.Equal("Get the weather", tools[0].Description())
		schema, err := tools[0].Schema()
		if assert.NoError(err) && assert.NotNil(schema) {
			assert.Equal("object", schema.Type)
			assert.Contains(schema.Properties, "city")
			assert.Contains(schema.Required, "city")
		}
	}
}

func Test_mcp_002(t *testing.T) {
	assert := assert.New(t)
	client := connect(t)
	tools, err := client.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)

	result, err := tools[0].Run(context.Background(), json.RawMessage(`{"city":"Paris"}`))
	require.NoError(t, err)
	if data, ok := result.(json.RawMessage); assert.True(ok) {
		assert.JSONEq(`{"place_name":"Paris, Earth","temperature":21.5}`, string(data))
	}
}

func Test_mcp_003(t *testing.T) {
	// A failing tool comes back as ErrToolFailed carrying the reason
	assert := assert.New(t)
	client := connect(t)
	tools, err := client.Tools(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 1)

	_, err = tools[0].Run(context.Background(), json.RawMessage(`{"city":"Atlantis"}`))
	assert.ErrorIs(err, weatherbot.ErrToolFailed)
	assert.ErrorContains(err, "location not found")

	// Schema validation happens in the server toolkit
	_, err = tools[0].Run(context.Background(), nil)
	assert.ErrorIs(err, weatherbot.ErrToolFailed)
	assert.ErrorContains(err, "input validation failed")
}

func Test_mcp_004(t *testing.T) {
	// Remote tools register into a local toolkit
	assert := assert.New(t)
	client := connect(t)
	tools, err := client.Tools(context.Background())
	require.NoError(t, err)

	toolkit, err := tool.NewToolkit(tools...)
	require.NoError(t, err)
	result, err := toolkit.Run(context.Background(), "get_weather", json.RawMessage(`{"city":"Oslo"}`))
	assert.NoError(err)
	assert.NotNil(result)

	_, err = toolkit.Run(context.Background(), "get_weather", json.RawMessage(`{}`))
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
}

func Test_mcp_005(t *testing.T) {
	assert := assert.New(t)
	_, err := mcp.Command("   ")
	assert.ErrorIs(err, weatherbot.ErrBadParameter)

	transport, err := mcp.Command("weather-mcp --debug")
	assert.NoError(err)
	assert.NotNil(transport)
}
