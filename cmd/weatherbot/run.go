package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	// Packages
	weatherbot "github.com/mutablelogic/go-weatherbot"
	agent "github.com/mutablelogic/go-weatherbot/pkg/agent"
	bot "github.com/mutablelogic/go-weatherbot/pkg/bot"
	mcp "github.com/mutablelogic/go-weatherbot/pkg/mcp"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	openmeteo "github.com/mutablelogic/go-weatherbot/pkg/openmeteo"
	openai "github.com/mutablelogic/go-weatherbot/pkg/provider/openai"
	session "github.com/mutablelogic/go-weatherbot/pkg/session"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	telegram "github.com/mutablelogic/go-weatherbot/pkg/ui/telegram"
	version "github.com/mutablelogic/go-weatherbot/pkg/version"
	zap "go.uber.org/zap"
	errgroup "golang.org/x/sync/errgroup"
)

////////////////////////////////////////////////////////////////////////////////
// GLOBALS

const (
	serverName      = "weather"
	shutdownTimeout = 5 * time.Second
)

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// run connects to the weather tool, and answers Telegram messages until the
// context is done
func run(ctx context.Context, cli *CLI, logger *zap.Logger) error {
	logger.Info("starting weather bot", zap.String("version", version.Version()), zap.String("model", cli.OpenAIModel))

	// Connect to the weather MCP server
	client, err := connect(ctx, cli, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("closing MCP session", zap.Error(err))
		}
	}()

	// Tools published by the server are the ones the model can call
	tools, err := client.Tools(ctx)
	if err != nil {
		return err
	}
	toolkit, err := tool.NewToolkit(tools...)
	if err != nil {
		return err
	} else if toolkit.Lookup(openmeteo.ToolName) == nil {
		return weatherbot.ErrNotFound.Withf("MCP server has no %q tool", openmeteo.ToolName)
	}
	logger.Info("connected to weather MCP server", zap.Stringer("tools", toolkit))

	// Create the agent
	generator, err := openai.New(cli.OpenAIKey, openai.WithBaseURL(cli.OpenAIBase))
	if err != nil {
		return err
	}
	assistant, err := agent.New(generator,
		agent.WithModel(cli.OpenAIModel),
		agent.WithToolkit(toolkit),
		agent.WithStore(session.NewMemoryStore(cli.History)),
		agent.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	// Start receiving messages
	chat, err := telegram.New(cli.TelegramToken, logger)
	if err != nil {
		return err
	}
	defer chat.Close()

	responder, err := bot.New(chat, assistant, logger, bot.WithTimeout(cli.Timeout))
	if err != nil {
		return err
	}

	// The bot, and the metrics server if there is one, run until either
	// returns or the context is done
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		defer cancel()
		return responder.Run(ctx)
	})
	if cli.MetricsAddr != "" {
		serve(ctx, group, observability.NewServer(cli.MetricsAddr, observability.NewRouter(client.Ping, logger)), logger)
	}

	// Wait for everything to stop
	err = group.Wait()
	logger.Info("weather bot stopped")
	return err
}

// connect returns a session with the weather MCP server. The server runs
// in-process unless a command line for it is configured.
func connect(ctx context.Context, cli *CLI, logger *zap.Logger) (*mcp.Client, error) {
	if cli.MCPCommand != "" {
		transport, err := mcp.Command(cli.MCPCommand)
		if err != nil {
			return nil, err
		}
		logger.Info("starting weather MCP server", zap.String("command", cli.MCPCommand))
		return mcp.Connect(ctx, execName(), version.Version(), transport)
	}

	weather, err := openmeteo.New(
		openmeteo.WithClientOpt(clientOpts(cli)...),
		openmeteo.WithRateLimit(cli.WeatherRate, 1),
	)
	if err != nil {
		return nil, err
	}
	toolkit, err := tool.NewToolkit(openmeteo.NewTool(weather))
	if err != nil {
		return nil, err
	}
	server, err := mcp.NewServer(serverName, version.Version(), toolkit, logger)
	if err != nil {
		return nil, err
	}
	return mcp.InProcess(ctx, execName(), version.Version(), server)
}

// serve runs the HTTP server in the group, and shuts it down when the
// context is done
func serve(ctx context.Context, group *errgroup.Group, server *http.Server, logger *zap.Logger) {
	group.Go(func() error {
		logger.Info("metrics server starting", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
}
