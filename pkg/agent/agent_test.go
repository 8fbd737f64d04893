package agent_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	types "github.com/mutablelogic/go-server/pkg/types"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	agent "github.com/mutablelogic/go-weatherbot/pkg/agent"
	schema "github.com/mutablelogic/go-weatherbot/pkg/schema"
	session "github.com/mutablelogic/go-weatherbot/pkg/session"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	assert "github.com/stretchr/testify/assert"
	require "github.com/stretchr/testify/require"
)

///////////////////////////////////////////////////////////////////////////////
// MOCK GENERATOR

// mockGenerator replies with the next scripted reply, or calls fn when set
type mockGenerator struct {
	sync.Mutex
	replies  []*schema.Message
	fn       func(schema.GenerateRequest) (*schema.Message, error)
	requests []schema.GenerateRequest
}

func (g *mockGenerator) Generate(_ context.Context, req schema.GenerateRequest) (*schema.Message, error) {
	g.Lock()
	defer g.Unlock()
	g.requests = append(g.requests, req)
	if g.fn != nil {
		return g.fn(req)
	}
	if len(g.replies) == 0 {
		return nil, errors.New("no more replies")
	}
	reply := g.replies[0]
	g.replies = g.replies[1:]
	return reply, nil
}

func text(s string) *schema.Message {
	return &schema.Message{
		Role:    schema.RoleAssistant,
		Content: []schema.ContentBlock{{Text: types.Ptr(s)}},
		Result:  schema.ResultStop,
	}
}

func call(id, city string) *schema.Message {
	return &schema.Message{
		Role: schema.RoleAssistant,
		Content: []schema.ContentBlock{{ToolCall: &schema.ToolCall{
			ID:    id,
			Name:  "get_weather",
			Input: json.RawMessage(`{"city":"` + city + `"}`),
		}}},
		Result: schema.ResultToolCall,
	}
}

///////////////////////////////////////////////////////////////////////////////
// MOCK TOOL

type weatherRequest struct {
	City string `json:"city"`
}

type weatherTool struct {
	sync.Mutex
	cities []string
	err    error
}

func (*weatherTool) Name() string        { return "get_weather" }
func (*weatherTool) Description() string { return "Get the current weather" }
func (*weatherTool) Schema() (*jsonschema.Schema, error) {
	return jsonschema.For[weatherRequest](nil)
}
func (w *weatherTool) Run(_ context.Context, input json.RawMessage) (any, error) {
	var req weatherRequest
	if err := json.Unmarshal(input, &req); err != nil {
		return nil, err
	}
	w.Lock()
	w.cities = append(w.cities, req.City)
	w.Unlock()
	if w.err != nil {
		return nil, w.err
	}
	return schema.Weather{PlaceName: req.City + ", Indonesia", Temperature: 28, Condition: "Clear sky", WindSpeed: 5}, nil
}

func newAgent(t *testing.T, g agent.Generator, w *weatherTool, opts ...agent.Opt) *agent.Agent {
	t.Helper()
	toolkit, err := tool.NewToolkit(w)
	require.NoError(t, err)
	a, err := agent.New(g, append([]agent.Opt{agent.WithToolkit(toolkit)}, opts...)...)
	require.NoError(t, err)
	return a
}

///////////////////////////////////////////////////////////////////////////////
// TESTS

func Test_agent_001(t *testing.T) {
	// A greeting is answered without calling the tool
	assert := assert.New(t)
	g := &mockGenerator{replies: []*schema.Message{text("Hi! Ask me about the weather.")}}
	w := new(weatherTool)
	a := newAgent(t, g, w)

	reply, err := a.Ask(context.Background(), "1", "hello")
	assert.NoError(err)
	assert.Equal("Hi! Ask me about the weather.", reply)
	assert.Empty(w.cities)

	// The request carries instruction, model and tool definitions
	if assert.Len(g.requests, 1) {
		req := g.requests[0]
		assert.Equal(agent.DefaultModel, req.Model)
		assert.Equal(agent.DefaultInstruction, req.Instruction)
		if assert.Len(req.Tools, 1) {
			assert.Equal("get_weather", req.Tools[0].Name)
		}
		if assert.Len(req.Messages, 1) {
			assert.Equal(schema.RoleUser, req.Messages[0].Role)
			assert.Equal("hello", req.Messages[0].Text())
		}
	}
}

func Test_agent_002(t *testing.T) {
	// A weather question runs the tool and feeds the result back
	assert := assert.New(t)
	g := &mockGenerator{replies: []*schema.Message{call("c1", "Ubud"), text("It is 28°C in Ubud")}}
	w := new(weatherTool)
	a := newAgent(t, g, w)

	reply, err := a.Ask(context.Background(), "1", "what's the weather in Ubud?")
	assert.NoError(err)
	assert.Equal("It is 28°C in Ubud", reply)
	assert.Equal([]string{"Ubud"}, w.cities)

	if assert.Len(g.requests, 2) {
		messages := g.requests[1].Messages
		if assert.Len(messages, 3) {
			results := messages[2].ToolResults()
			if assert.Len(results, 1) {
				assert.Equal("c1", results[0].ID)
				assert.False(results[0].IsError)
				assert.Contains(string(results[0].Content), `"place_name":"Ubud, Indonesia"`)
			}
		}
	}
}

func Test_agent_003(t *testing.T) {
	// A tool failure goes back to the model, which apologises
	assert := assert.New(t)
	g := &mockGenerator{fn: func(req schema.GenerateRequest) (*schema.Message, error) {
		last := req.Messages[len(req.Messages)-1]
		if results := last.ToolResults(); len(results) > 0 {
			if results[0].IsError {
				return text("Sorry, I couldn't get the weather right now."), nil
			}
			return text("Here is the weather"), nil
		}
		return call("c1", "Paris"), nil
	}}
	w := &weatherTool{err: weatherbot.ErrProvider.With("503 Service Unavailable")}
	a := newAgent(t, g, w)

	reply, err := a.Ask(context.Background(), "1", "weather in Paris")
	assert.NoError(err)
	assert.Equal("Sorry, I couldn't get the weather right now.", reply)
}

func Test_agent_004(t *testing.T) {
	// A model error is wrapped and the turn is not kept
	assert := assert.New(t)
	store := session.NewMemoryStore(0)
	g := &mockGenerator{fn: func(schema.GenerateRequest) (*schema.Message, error) {
		return nil, errors.New("401 unauthorized")
	}}
	a := newAgent(t, g, new(weatherTool), agent.WithStore(store))

	_, err := a.Ask(context.Background(), "1", "weather in Oslo")
	assert.ErrorIs(err, weatherbot.ErrModel)
	messages, err := store.Get(context.Background(), "1")
	assert.NoError(err)
	assert.Empty(messages)
}

func Test_agent_005(t *testing.T) {
	// A model which never stops calling tools hits the limit
	assert := assert.New(t)
	store := session.NewMemoryStore(0)
	g := &mockGenerator{fn: func(schema.GenerateRequest) (*schema.Message, error) {
		return call("c", "Ubud"), nil
	}}
	w := new(weatherTool)
	a := newAgent(t, g, w, agent.WithStore(store), agent.WithMaxIterations(2))

	_, err := a.Ask(context.Background(), "1", "weather in Ubud")
	assert.ErrorIs(err, weatherbot.ErrMaxIterations)
	assert.Len(w.cities, 2)
	assert.Len(g.requests, 3)
	messages, _ := store.Get(context.Background(), "1")
	assert.Empty(messages)
}

func Test_agent_006(t *testing.T) {
	// History is kept per conversation and can be reset
	assert := assert.New(t)
	g := &mockGenerator{fn: func(req schema.GenerateRequest) (*schema.Message, error) {
		return text("ok"), nil
	}}
	a := newAgent(t, g, new(weatherTool))

	_, err := a.Ask(context.Background(), "1", "first")
	assert.NoError(err)
	_, err = a.Ask(context.Background(), "2", "other chat")
	assert.NoError(err)
	_, err = a.Ask(context.Background(), "1", "second")
	assert.NoError(err)
	if assert.Len(g.requests, 3) {
		assert.Len(g.requests[1].Messages, 1)
		messages := g.requests[2].Messages
		if assert.Len(messages, 3) {
			assert.Equal("first", messages[0].Text())
			assert.Equal("ok", messages[1].Text())
			assert.Equal("second", messages[2].Text())
		}
	}

	assert.NoError(a.Reset(context.Background(), "1"))
	assert.NoError(a.Reset(context.Background(), "1"))
	_, err = a.Ask(context.Background(), "1", "third")
	assert.NoError(err)
	assert.Len(g.requests[3].Messages, 1)
}

func Test_agent_007(t *testing.T) {
	assert := assert.New(t)
	_, err := agent.New(nil)
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	_, err = agent.New(&mockGenerator{}, agent.WithModel(" "))
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	_, err = agent.New(&mockGenerator{}, agent.WithMaxIterations(0))
	assert.ErrorIs(err, weatherbot.ErrBadParameter)

	a, err := agent.New(&mockGenerator{replies: []*schema.Message{text("  ")}}, agent.WithModel("gpt-4o"))
	require.NoError(t, err)
	assert.Equal("gpt-4o", a.Model())

	_, err = a.Ask(context.Background(), "1", "   ")
	assert.ErrorIs(err, weatherbot.ErrBadParameter)
	_, err = a.Ask(context.Background(), "1", "hello")
	assert.ErrorIs(err, weatherbot.ErrModel)
}

func Test_agent_008(t *testing.T) {
	// A cancelled context is not reported as a model error
	assert := assert.New(t)
	ctx, cancel := context.WithCancel(context.Background())
	g := &mockGenerator{fn: func(schema.GenerateRequest) (*schema.Message, error) {
		cancel()
		return nil, context.Canceled
	}}
	a := newAgent(t, g, new(weatherTool))

	_, err := a.Ask(ctx, "1", "weather in Ubud")
	assert.ErrorIs(err, context.Canceled)
	assert.False(errors.Is(err, weatherbot.ErrModel))
}
