// Command weather-mcp serves the get_weather tool over MCP on stdin and
// stdout, for the weather bot or any other MCP client to run as a
// subprocess. Logs are written to stderr.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	// Packages
	kong "github.com/alecthomas/kong"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	client "github.com/mutablelogic/go-client"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	mcp "github.com/mutablelogic/go-weatherbot/pkg/mcp"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	openmeteo "github.com/mutablelogic/go-weatherbot/pkg/openmeteo"
	tool "github.com/mutablelogic/go-weatherbot/pkg/tool"
	version "github.com/mutablelogic/go-weatherbot/pkg/version"
	zap "go.uber.org/zap"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type CLI struct {
	Debug    bool    `name:"debug" help:"Trace HTTP requests to stderr"`
	LogLevel string  `name:"log-level" env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`
	Rate     float64 `name:"rate" env:"WEATHER_RATE_LIMIT" default:"5" help:"Maximum Open-Meteo requests per second"`

	Version kong.VersionFlag `name:"version" help:"Print version information and exit"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	name := execName()
	cli := CLI{}
	cmd := kong.Parse(&cli,
		kong.Name(name),
		kong.Description("MCP server for current weather conditions"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": string(version.JSON(name))},
	)

	// Create a logger, which writes to stderr as stdout is the transport
	logger, err := observability.NewLogger(cli.LogLevel)
	cmd.FatalIfErrorf(err)
	defer logger.Sync()

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cmd.FatalIfErrorf(run(ctx, &cli, logger))
}

func (cli *CLI) Validate() error {
	if cli.Rate <= 0 {
		return weatherbot.ErrBadParameter.Withf("rate must be positive, got %v", cli.Rate)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func run(ctx context.Context, cli *CLI, logger *zap.Logger) error {
	opts := []client.ClientOpt{}
	if cli.Debug {
		opts = append(opts, client.OptTrace(os.Stderr, false))
	}
	weather, err := openmeteo.New(openmeteo.WithClientOpt(opts...), openmeteo.WithRateLimit(cli.Rate, 1))
	if err != nil {
		return err
	}
	toolkit, err := tool.NewToolkit(openmeteo.NewTool(weather))
	if err != nil {
		return err
	}
	server, err := mcp.NewServer("weather", version.Version(), toolkit, logger)
	if err != nil {
		return err
	}

	logger.Info("serving on stdio", zap.String("version", version.Version()), zap.Stringer("tools", toolkit))
	if err := server.Run(ctx, &sdk.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

func execName() string {
	name, err := os.Executable()
	if err != nil {
		panic(err)
	}
	return filepath.Base(name)
}
