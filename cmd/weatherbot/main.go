package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	// Packages
	kong "github.com/alecthomas/kong"
	godotenv "github.com/joho/godotenv"
	client "github.com/mutablelogic/go-client"
	weatherbot "github.com/mutablelogic/go-weatherbot"
	agent "github.com/mutablelogic/go-weatherbot/pkg/agent"
	observability "github.com/mutablelogic/go-weatherbot/pkg/observability"
	session "github.com/mutablelogic/go-weatherbot/pkg/session"
	version "github.com/mutablelogic/go-weatherbot/pkg/version"
)

////////////////////////////////////////////////////////////////////////////////
// TYPES

type Globals struct {
	// Debugging
	Debug    bool   `name:"debug" help:"Trace HTTP requests to stderr"`
	Verbose  bool   `name:"verbose" help:"Include request and response bodies in the trace"`
	LogLevel string `name:"log-level" env:"LOG_LEVEL" default:"info" help:"Log level (debug, info, warn, error)"`

	// Version
	Version kong.VersionFlag `name:"version" help:"Print version information and exit"`
}

type Telegram struct {
	TelegramToken string `name:"telegram-token" env:"TELEGRAM_BOT_TOKEN" help:"Telegram bot token"`
}

type OpenAI struct {
	OpenAIKey   string `name:"openai-key" env:"OPENAI_API_KEY" help:"OpenAI API key"`
	OpenAIModel string `name:"openai-model" env:"OPENAI_MODEL" default:"${model}" help:"Model used to answer messages"`
	OpenAIBase  string `name:"openai-base" env:"OPENAI_API_BASE" help:"Base URL of an OpenAI-compatible API"`
}

type Weather struct {
	MCPCommand  string  `name:"mcp-command" env:"WEATHER_MCP_COMMAND" help:"Run the weather MCP server as a subprocess with this command line, rather than in-process"`
	WeatherRate float64 `name:"weather-rate" env:"WEATHER_RATE_LIMIT" default:"5" help:"Maximum Open-Meteo requests per second"`
}

type Bot struct {
	History     int           `name:"history" env:"HISTORY" default:"${history}" help:"Messages remembered per conversation"`
	Timeout     time.Duration `name:"timeout" env:"REPLY_TIMEOUT" default:"2m" help:"Time allowed to answer one message"`
	MetricsAddr string        `name:"metrics-addr" env:"METRICS_ADDR" help:"Serve /metrics and /health on this address"`
}

type CLI struct {
	Globals
	Telegram `embed:"" help:"Telegram configuration"`
	OpenAI   `embed:"" help:"OpenAI configuration"`
	Weather  `embed:"" help:"Weather configuration"`
	Bot      `embed:"" help:"Bot configuration"`
}

////////////////////////////////////////////////////////////////////////////////
// MAIN

func main() {
	// Read a .env file in the working directory, if there is one
	envErr := godotenv.Load()
	if errors.Is(envErr, fs.ErrNotExist) {
		envErr = nil
	}

	// Create a cli parser
	cli := CLI{}
	cmd := kong.Parse(&cli, options(execName())...)
	cmd.FatalIfErrorf(envErr)

	// Create a logger
	logger, err := observability.NewLogger(cli.LogLevel)
	cmd.FatalIfErrorf(err)
	defer logger.Sync()

	// Create a context
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Run the bot
	cmd.FatalIfErrorf(run(ctx, &cli, logger))
}

// Validate checks the required values are set, after environment
// variables have been applied
func (cli *CLI) Validate() error {
	var missing []string
	if strings.TrimSpace(cli.TelegramToken) == "" {
		missing = append(missing, "TELEGRAM_BOT_TOKEN")
	}
	if strings.TrimSpace(cli.OpenAIKey) == "" {
		missing = append(missing, "OPENAI_API_KEY")
	}
	if len(missing) > 0 {
		return weatherbot.ErrBadParameter.Withf("missing %s", strings.Join(missing, ", "))
	}
	if strings.TrimSpace(cli.OpenAIModel) == "" {
		return weatherbot.ErrBadParameter.With("empty OPENAI_MODEL")
	}
	if cli.History < 1 {
		return weatherbot.ErrBadParameter.Withf("history must be at least 1, got %d", cli.History)
	}
	if cli.WeatherRate <= 0 {
		return weatherbot.ErrBadParameter.Withf("weather rate must be positive, got %v", cli.WeatherRate)
	}
	return nil
}

////////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func options(name string) []kong.Option {
	return []kong.Option{
		kong.Name(name),
		kong.Description("Telegram bot which answers questions about the current weather"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{
			"version": string(version.JSON(name)),
			"model":   agent.DefaultModel,
			"history": strconv.Itoa(session.DefaultLimit),
		},
	}
}

func execName() string {
	// The name of the executable
	name, err := os.Executable()
	if err != nil {
		panic(err)
	} else {
		return filepath.Base(name)
	}
}

func clientOpts(cli *CLI) []client.ClientOpt {
	result := []client.ClientOpt{}
	if cli.Debug {
		result = append(result, client.OptTrace(os.Stderr, cli.Verbose))
	}
	return result
}
