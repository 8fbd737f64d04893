package schema_test

import (
	"encoding/json"
	"errors"
	"testing"

	// Packages
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	assert "github.com/stretchr/testify/assert"
)

func Test_message_001(t *testing.T) {
	assert := assert.New(t)
	m := schema.NewMessage(schema.RoleUser, "what's the weather in Ubud?")
	assert.Equal(schema.RoleUser, m.Role)
	assert.Equal("what's the weather in Ubud?", m.Text())
	assert.Empty(m.ToolCalls())
	assert.Empty(m.ToolResults())
}

func Test_message_002(t *testing.T) {
	assert := assert.New(t)
	m := &schema.Message{
		Role: schema.RoleAssistant,
		Content: []schema.ContentBlock{
			{ToolCall: &schema.ToolCall{ID: "call_1", Name: "get_weather", Input: json.RawMessage(`{"city":"Ubud"}`)}},
		},
		Result: schema.ResultToolCall,
	}
	calls := m.ToolCalls()
	if assert.Len(calls, 1) {
		assert.Equal("get_weather", calls[0].Name)
		assert.JSONEq(`{"city":"Ubud"}`, string(calls[0].Input))
	}
	assert.Equal("", m.Text())
	assert.Equal("tool_call", m.Result.String())
}

func Test_message_003(t *testing.T) {
	assert := assert.New(t)
	block := schema.NewToolResult("call_1", "get_weather", schema.Weather{PlaceName: "Ubud, Bali, Indonesia", Temperature: 27.5})
	if assert.NotNil(block.ToolResult) {
		assert.False(block.ToolResult.IsError)
		var w schema.Weather
		assert.NoError(json.Unmarshal(block.ToolResult.Content, &w))
		assert.Equal("Ubud, Bali, Indonesia", w.PlaceName)
	}
}

func Test_message_004(t *testing.T) {
	assert := assert.New(t)
	block := schema.NewToolError("call_1", "get_weather", errors.New(`location "x" not found`))
	if assert.NotNil(block.ToolResult) {
		assert.True(block.ToolResult.IsError)
		var text string
		assert.NoError(json.Unmarshal(block.ToolResult.Content, &text))
		assert.Equal(`location "x" not found`, text)
	}
}

func Test_message_005(t *testing.T) {
	assert := assert.New(t)
	raw := json.RawMessage(`{"place_name":"Berlin, Germany"}`)
	block := schema.NewToolResult("", "get_weather", raw)
	assert.JSONEq(string(raw), string(block.ToolResult.Content))
}

func Test_location_001(t *testing.T) {
	tests := []struct {
		location schema.Location
		expect   string
	}{
		{schema.Location{Name: "Ubud", Admin1: "Bali", Country: "Indonesia"}, "Ubud, Bali, Indonesia"},
		{schema.Location{Name: "Berlin", Admin1: "Berlin", Country: "Germany"}, "Berlin, Germany"},
		{schema.Location{Name: "Monaco", Country: "Monaco"}, "Monaco"},
		{schema.Location{Name: "Springfield", Admin1: " ", Country: "United States"}, "Springfield, United States"},
	}
	for _, tt := range tests {
		t.Run(tt.expect, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.location.DisplayName())
		})
	}
}
