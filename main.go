package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/mcncl/jsonsum/internal/config"
	"github.com/mcncl/jsonsum/internal/errors"
	"github.com/mcncl/jsonsum/internal/formatter"
	"github.com/mcncl/jsonsum/internal/ingest"
	"github.com/mcncl/jsonsum/internal/reader"
	"github.com/mcncl/jsonsum/internal/summary"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input JSONL file. Reads stdin if not specified or '-'." short:"i"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Config      string `help:"Path to config file. Defaults to the nearest .jsonsum.yml." short:"c" type:"path"`
	Policy      string `help:"What to do with lines that are not JSON objects (${enum})." enum:"strict,lenient" default:"strict"`
	Format      string `help:"Report format (${enum})." short:"f" enum:"text,json,yaml" default:"text"`
	Workers     int    `help:"Number of aggregation workers." short:"w" default:"1"`
	BatchSize   int    `help:"Lines per batch when running with more than one worker." default:"1024"`
	Compression string `help:"Input compression (${enum})." enum:"auto,none,gzip,zstd,lz4" default:"auto"`
	KeyCase     string `help:"Normalize field names before aggregating (${enum})." enum:"none,snake,camel,lower-camel,kebab" default:"none"`
	Sort        bool   `help:"Sort fields by name in text output." default:"true" negatable:""`
	Debug       bool   `help:"Enable debug logging." short:"d"`
	Version     bool   `help:"Show version information." short:"v"`
}

// Context holds the runtime context
type Context struct {
	Debug  bool
	Config *config.Config
	Logger *slog.Logger

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("jsonsum"),
		kong.Description("Summarize the fields of line-delimited JSON records"),
		kong.UsageOnError(),
	)

	kctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		// kong.UsageOnError() has already printed usage
		parser.FatalIfErrorf(err)
	}

	if CLI.Version {
		fmt.Printf("jsonsum version %s\n", Version)
		return
	}

	cfg, err := loadConfig(kctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = run(ctx, &Context{
		Debug:  cfg.Dev.Debug,
		Config: cfg,
		Logger: newLogger(os.Stderr, cfg.Dev.Debug),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		stop()
		os.Exit(1)
	}
}

// loadConfig merges the config file, if any, with flags given explicitly on
// the command line. Flag defaults do not override the file.
func loadConfig(kctx *kong.Context) (*config.Config, error) {
	set := make(map[string]bool)
	for _, flag := range kctx.Flags() {
		if flag.Set {
			set[flag.Name] = true
		}
	}

	var overrides config.CLIOverrides
	if set["compression"] {
		overrides.Compression = &CLI.Compression
	}
	if set["policy"] {
		overrides.Policy = &CLI.Policy
	}
	if set["workers"] {
		overrides.Workers = &CLI.Workers
	}
	if set["batch-size"] {
		overrides.BatchSize = &CLI.BatchSize
	}
	if set["key-case"] {
		overrides.KeyCase = &CLI.KeyCase
	}
	if set["format"] {
		overrides.Format = &CLI.Format
	}
	if set["sort"] {
		overrides.SortFields = &CLI.Sort
	}
	if set["debug"] {
		overrides.Debug = &CLI.Debug
	}

	configPath := CLI.Config
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	return config.LoadConfigWithCLI(configPath, overrides)
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// run executes the main program logic
func run(ctx context.Context, rc *Context) error {
	cfg := rc.Config
	if cfg == nil {
		cfg = config.NewConfig()
	}
	logger := rc.Logger
	if logger == nil {
		logger = newLogger(io.Discard, rc.Debug)
	}

	// 1. Open the input
	lines, err := openInput(rc, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := lines.Close(); err != nil {
			logger.Warn("failed to close input", "error", err)
		}
	}()

	// 2. Aggregate every record
	in := ingest.New(ingest.Options{
		Policy:        cfg.Input.Policy,
		Workers:       cfg.Processing.Workers,
		BatchSize:     cfg.Processing.BatchSize,
		Logger:        logger,
		NewAggregator: aggregatorFactory(cfg),
	})
	logger.Debug("ingesting", "input", inputName(), "policy", string(cfg.Input.Policy), "workers", cfg.Processing.Workers)

	result, err := in.Run(ctx, lines)
	if err != nil {
		return err
	}

	// 3. Render the report
	return writeOutput(rc, cfg, result.Aggregator, logger)
}

func inputName() string {
	if CLI.Input == "" || CLI.Input == "-" {
		return "stdin"
	}
	return CLI.Input
}

// openInput opens the input file, or stdin
func openInput(rc *Context, cfg *config.Config) (*reader.LineReader, error) {
	compression, err := reader.ParseCompression(cfg.Input.Compression)
	if err != nil {
		return nil, err
	}

	if CLI.Input != "" && CLI.Input != "-" {
		return reader.Open(CLI.Input, compression)
	}

	stdin := rc.Stdin
	if stdin == nil {
		stdinInfo, err := os.Stdin.Stat()
		if err != nil {
			return nil, errors.NewInputError("failed to access stdin", err)
		}
		if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
			// Terminal is interactive (not piped)
			return nil, errors.NewInputError("no input provided", errors.ErrNoInput)
		}
		stdin = os.Stdin
	}
	return reader.NewLineReader(stdin, compression)
}

// aggregatorFactory returns the constructor for the aggregators a run fills,
// wiring in key renaming and skipping when the config asks for it.
func aggregatorFactory(cfg *config.Config) func() *summary.Aggregator {
	if !cfg.RewritesKeys() {
		return summary.NewAggregator
	}
	transform := func(key string) (string, bool) {
		if cfg.ShouldSkipField(key) {
			return "", false
		}
		return cfg.GetFieldName(key), true
	}
	return func() *summary.Aggregator {
		return summary.NewAggregatorWithKeyTransform(transform)
	}
}

// writeOutput writes the report to file or stdout
func writeOutput(rc *Context, cfg *config.Config, agg *summary.Aggregator, logger *slog.Logger) error {
	f := formatter.NewFormatter(cfg.Output.Format, cfg.Output.SortFields)

	if CLI.Output != "" {
		file, err := os.Create(CLI.Output)
		if err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to create file '%s'", CLI.Output), err)
		}
		if err := f.Write(file, agg); err != nil {
			_ = file.Close()
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		if err := file.Close(); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		logger.Info("summary written", "path", CLI.Output, "records", agg.TotalRecords())
		return nil
	}

	stdout := rc.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	if err := f.Write(stdout, agg); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}
