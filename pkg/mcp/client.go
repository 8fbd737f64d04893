package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"

	// Packages
	jsonschema "github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
)

///////////////////////////////////////////////////////////////////////
// TYPES

// Client is a session with an MCP server
type Client struct {
	session *sdk.ClientSession
	closers []func() error
}

// remoteTool is a tool.Tool which calls a tool on the server
type remoteTool struct {
	session     *sdk.ClientSession
	name        string
	description string
	schema      *jsonschema.Schema
}

var _ tool.Tool = (*remoteTool)(nil)

///////////////////////////////////////////////////////////////////////
// LIFECYCLE

// Connect starts a session with the server at the other end of the transport
func Connect(ctx context.Context, name, version string, transport sdk.Transport) (*Client, error) {
	client := sdk.NewClient(&sdk.Implementation{Name: name, Version: version}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return nil, err
	}
	return &Client{session: session}, nil
}

// InProcess connects a client to the server through in-memory transports,
// without a subprocess
func InProcess(ctx context.Context, name, version string, server *Server) (*Client, error) {
	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	// The server session has to exist before the client initializes
	ss, err := server.server.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, err
	}
	client, err := Connect(ctx, name, version, clientTransport)
	if err != nil {
		return nil, errors.Join(err, ss.Close())
	}
	client.closers = append(client.closers, ss.Close)

	// Return success
	return client, nil
}

// Command returns a transport which runs an MCP server as a subprocess and
// talks to it over stdin and stdout. The command line is split on spaces,
// and the subprocess shares this process's stderr.
func Command(cmdline string) (sdk.Transport, error) {
	fields := strings.Fields(cmdline)
	if len(fields) == 0 {
		return nil, weatherbot.ErrBadParameter.With("empty MCP server command")
	}
	cmd := exec.Command(fields[0], fields[1:]...)
	cmd.Stderr = os.Stderr
	return &sdk.CommandTransport{Command: cmd}, nil
}

// Close the session, and the in-process server session if any
func (c *Client) Close() error {
	var result error
	result = errors.Join(result, c.session.Close())
	for _, fn := range c.closers {
		result = errors.Join(result, fn())
	}
	return result
}

///////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Ping checks the server is still responding
func (c *Client) Ping(ctx context.Context) error {
	return c.session.Ping(ctx, &sdk.PingParams{})
}

// Tools returns the server's tools, each of which calls back to the server
// when run
func (c *Client) Tools(ctx context.Context) ([]tool.Tool, error) {
	var result []tool.Tool
	params := &sdk.ListToolsParams{}
	for {
		response, err := c.session.ListTools(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, t := range response.Tools {
			schema, err := toSchema(t.InputSchema)
			if err != nil {
				return nil, weatherbot.ErrBadParameter.Withf("tool %q: %v", t.Name, err)
			}
			result = append(result, &remoteTool{
				session:     c.session,
				name:        t.Name,
				description: t.Description,
				schema:      schema,
			})
		}
		if response.NextCursor == "" {
			break
		}
		params.Cursor = response.NextCursor
	}
	return result, nil
}

///////////////////////////////////////////////////////////////////////
// TOOL

func (t *remoteTool) Name() string {
	return t.name
}

func (t *remoteTool) Description() string {
	return t.description
}

func (t *remoteTool) Schema() (*jsonschema.Schema, error) {
	return t.schema, nil
}

// Run calls the tool on the server. A result flagged as an error is
// returned as ErrToolFailed with the text the server sent.
func (t *remoteTool) Run(ctx context.Context, input json.RawMessage) (any, error) {
	params := &sdk.CallToolParams{Name: t.name}
	if len(input) > 0 {
		params.Arguments = input
	} else {
		params.Arguments = map[string]any{}
	}

	result, err := t.session.CallTool(ctx, params)
	if err != nil {
		return nil, err
	}

	text := contentText(result.Content)
	if result.IsError {
		return nil, weatherbot.ErrToolFailed.Withf("%s: %s", t.name, text)
	}

	// JSON text is passed through without decoding
	if json.Valid([]byte(text)) {
		return json.RawMessage(text), nil
	}
	return text, nil
}

///////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func toSchema(v any) (*jsonschema.Schema, error) {
	if v == nil {
		return nil, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var schema jsonschema.Schema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

func contentText(content []sdk.Content) string {
	var parts []string
	for _, c := range content {
		if text, ok := c.(*sdk.TextContent); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.Join(parts, "\n")
}
