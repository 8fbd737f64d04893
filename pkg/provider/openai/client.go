/*
openai implements a generator for the OpenAI chat completions API, or any
service which is compatible with it.
https://platform.openai.com/docs/api-reference/chat
*/
package openai

import (
	"net/http"
	"strings"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	agent "github.com/mutablelogic/go-weatherbot/pkg/agent"
	openai "github.com/sashabaranov/go-openai"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	client *openai.Client
}

// Opt sets an option on the client configuration
type Opt func(*openai.ClientConfig) error

var _ agent.Generator = (*Client)(nil)

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a new client with the given API key
func New(apiKey string, opts ...Opt) (*Client, error) {
	if apiKey = strings.TrimSpace(apiKey); apiKey == "" {
		return nil, weatherbot.ErrBadParameter.With("missing API key")
	}
	config := openai.DefaultConfig(apiKey)
	for _, opt := range opts {
		if err := opt(&config); err != nil {
			return nil, err
		}
	}
	return &Client{
		client: openai.NewClientWithConfig(config),
	}, nil
}

///////////////////////////////////////////////////////////////////////////////
// OPTIONS

// WithBaseURL sets the API base URL, for example to use a compatible service.
// An empty value keeps the default.
func WithBaseURL(url string) Opt {
	return func(config *openai.ClientConfig) error {
		if url = strings.TrimSpace(url); url != "" {
			config.BaseURL = strings.TrimSuffix(url, "/")
		}
		return nil
	}
}

// WithHTTPClient sets the HTTP client used for requests
func WithHTTPClient(client *http.Client) Opt {
	return func(config *openai.ClientConfig) error {
		if client == nil {
			return weatherbot.ErrBadParameter.With("nil http client")
		}
		config.HTTPClient = client
		return nil
	}
}
