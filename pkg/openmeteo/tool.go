package openmeteo

import (
	"context"
	"encoding/json"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	types "github.com/mutablelogic/go-server/pkg/types"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// WeatherRequest is the input of the get_weather tool
type WeatherRequest struct {
	City string `json:"city" jsonschema:"Name of the city or place, for example Ubud or Paris, France"`
}

type getWeather struct {
	client *Client
}

var _ tool.Tool = (*getWeather)(nil)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

const ToolName = "get_weather"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewTool returns the get_weather tool backed by the client
func NewTool(client *Client) tool.Tool {
	return &getWeather{client: client}
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func (*getWeather) Name() string {
	return ToolName
}

func (*getWeather) Description() string {
	return "Get the current weather for a city: temperature, conditions and wind speed."
}

// Return the JSON schema for the tool input
func (*getWeather) Schema() (*jsonschema.Schema, error) {
	schema, err := jsonschema.For[WeatherRequest](nil)
	if err != nil {
		return nil, err
	}
	if city, ok := schema.Properties["city"]; ok && city != nil {
		city.MinLength = types.Ptr(1)
	}
	return schema, nil
}

// Run the tool with the given input
func (t *getWeather) Run(ctx context.Context, input json.RawMessage) (any, error) {
	var req WeatherRequest
	if len(input) > 0 {
		if err := json.Unmarshal(input, &req); err != nil {
			return nil, weatherbot.ErrBadParameter.Withf("failed to unmarshal input: %v", err)
		}
	}
	return t.client.Lookup(ctx, req.City)
}
