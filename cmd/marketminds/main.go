// Command marketminds runs the financial research API.
//
// Usage:
//
//	marketminds serve --config config.yaml
//	marketminds ingest --docs-folder ./knowledge_base
//	marketminds validate --config config.yaml
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/nutnell/marketminds/pkg/config"
	"github.com/nutnell/marketminds/pkg/logger"
	"github.com/nutnell/marketminds/pkg/runtime"
)

// CLI defines the command-line interface.
type CLI struct {
	Version  VersionCmd  `cmd:"" help:"Show version information."`
	Serve    ServeCmd    `cmd:"" help:"Start the API server."`
	Ingest   IngestCmd   `cmd:"" help:"Index documents into the knowledge base."`
	Validate ValidateCmd `cmd:"" help:"Validate a configuration file."`

	Config    string `short:"c" help:"Path to config file." type:"path"`
	LogLevel  string `help:"Log level (debug, info, warn, error)." placeholder:"LEVEL"`
	LogFormat string `help:"Log format (simple or json)." placeholder:"FORMAT"`
}

// loadConfig reads the config file when given, otherwise builds the
// configuration from defaults and the environment.
func (cli *CLI) loadConfig() (*config.Config, error) {
	if cli.Config != "" {
		return config.LoadFromFile(cli.Config)
	}
	return config.Default()
}

// initLogger applies CLI overrides on top of the configured logging.
func (cli *CLI) initLogger(cfg *config.Config) {
	level := cfg.Logging.Level
	if cli.LogLevel != "" {
		level = cli.LogLevel
	}
	format := cfg.Logging.Format
	if cli.LogFormat != "" {
		format = cli.LogFormat
	}
	logger.Init(logger.ParseLevel(level), os.Stderr, format)
}

// VersionCmd shows version information.
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	version := "dev"
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "(devel)" && info.Main.Version != "" {
			version = info.Main.Version
		}
	}
	fmt.Printf("marketminds version %s\n", version)
	return nil
}

// ServeCmd starts the API server.
type ServeCmd struct{}

func (c *ServeCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	cli.initLogger(cfg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down")
		cancel()
	}()

	rt, err := runtime.New(cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	return rt.Serve(ctx)
}

// IngestCmd indexes a documents folder into the knowledge base.
type IngestCmd struct {
	DocsFolder string `name:"docs-folder" help:"Folder containing .md and .txt documents." type:"path" default:"./knowledge_base"`
}

func (c *IngestCmd) Run(cli *CLI) error {
	cfg, err := cli.loadConfig()
	if err != nil {
		return err
	}
	cli.initLogger(cfg)

	count, err := runtime.Ingest(context.Background(), cfg, c.DocsFolder)
	if err != nil {
		return err
	}
	fmt.Printf("Indexed %d chunks from %s\n", count, c.DocsFolder)
	return nil
}

// ValidateCmd checks that a configuration file loads and validates.
type ValidateCmd struct{}

func (c *ValidateCmd) Run(cli *CLI) error {
	if cli.Config == "" {
		return fmt.Errorf("validate requires --config")
	}
	if _, err := config.LoadFromFile(cli.Config); err != nil {
		return err
	}
	fmt.Printf("%s is valid\n", cli.Config)
	return nil
}

func main() {
	if err := config.LoadEnvFiles(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load env files: %v\n", err)
		os.Exit(1)
	}

	cli := CLI{}
	ctx := kong.Parse(&cli,
		kong.Name("marketminds"),
		kong.Description("MarketMinds - financial research and analysis API"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
