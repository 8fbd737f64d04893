// Package mcp bridges a tool.Toolkit over the Model Context Protocol, using
// the official Go SDK. A Server publishes the tools of a toolkit, and a
// Client turns the tools of a connected server back into tool.Tool values.
package mcp

import (
	"context"
	"encoding/json"

	// Packages
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	zap "go.uber.org/zap"
)

///////////////////////////////////////////////////////////////////////
// TYPES

type Server struct {
	server *sdk.Server
	logger *zap.Logger
}

///////////////////////////////////////////////////////////////////////
// LIFECYCLE

// NewServer creates an MCP server with the given name and version, which
// publishes every tool in the toolkit
func NewServer(name, version string, toolkit *tool.Toolkit, logger *zap.Logger) (*Server, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	self := &Server{
		server: sdk.NewServer(&sdk.Implementation{Name: name, Version: version}, nil),
		logger: logger,
	}

	// Publish the tools
	for _, t := range toolkit.Tools() {
		schema, err := t.Schema()
		if err != nil {
			return nil, err
		}
		self.server.AddTool(&sdk.Tool{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: schema,
		}, self.handler(toolkit, t.Name()))
	}

	// Return success
	return self, nil
}

///////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Run the server on the transport until the client disconnects or the
// context is done
func (server *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return server.server.Run(ctx, transport)
}

///////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// handler runs the named tool through the toolkit. A tool failure is
// returned as an error result rather than a protocol error, so the caller
// can read the reason.
func (server *Server) handler(toolkit *tool.Toolkit, name string) sdk.ToolHandler {
	return func(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
		var input json.RawMessage
		if req.Params != nil {
			input = req.Params.Arguments
		}

		// Run the tool
		result, err := toolkit.Run(ctx, name, input)
		if err != nil {
			server.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
			return &sdk.CallToolResult{
				Content: []sdk.Content{&sdk.TextContent{Text: err.Error()}},
				IsError: true,
			}, nil
		}

		// Marshal the result to JSON text
		data, err := json.Marshal(result)
		if err != nil {
			return nil, err
		}
		server.logger.Debug("tool call", zap.String("tool", name), zap.ByteString("result", data))
		return &sdk.CallToolResult{
			Content: []sdk.Content{&sdk.TextContent{Text: string(data)}},
		}, nil
	}
}
