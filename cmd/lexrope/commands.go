package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dshills/lexrope/internal/config"
	"github.com/dshills/lexrope/internal/engine/rope"
)

// globalOptions holds the flags shared by every command.
type globalOptions struct {
	configPath string
	language   string
	logLevel   string
	logFormat  string

	logger *slog.Logger
	cfg    *config.Config
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "lexrope",
		Short: "Inspect documents through an incrementally lexed rope",
		Long: `lexrope loads a file into a balanced rope that tracks line structure
and lexer state per subtree, and reports on the result.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup(cmd.ErrOrStderr())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (.toml, .yaml)")
	flags.StringVarP(&opts.language, "language", "l", "", "Language used to lex the input (default: by file extension)")
	flags.StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	root.AddCommand(
		newStatsCmd(opts),
		newLexCmd(opts),
		newDotCmd(opts),
		newCheckCmd(opts),
	)
	return root
}

// setup builds the logger and loads the configuration.
func (o *globalOptions) setup(stderr io.Writer) error {
	var level slog.Level
	switch o.logLevel {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", o.logLevel)
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	switch o.logFormat {
	case "text":
		o.logger = slog.New(slog.NewTextHandler(stderr, handlerOpts))
	case "json":
		o.logger = slog.New(slog.NewJSONHandler(stderr, handlerOpts))
	default:
		return fmt.Errorf("invalid log format %q (must be text or json)", o.logFormat)
	}

	cfg, err := config.NewLoader().Load(o.configPath)
	if err != nil {
		return err
	}
	if o.language != "" {
		cfg.Language = o.language
	}
	o.cfg = cfg
	o.logger.Debug("configuration loaded",
		"path", o.configPath,
		"split_length", cfg.Rope.SplitLength,
		"join_length", cfg.Rope.JoinLength,
		"language", cfg.Language)
	return nil
}

// openRope reads path into a rope configured from the loaded settings.
func (o *globalOptions) openRope(path string) (*rope.Rope, error) {
	lex, err := o.cfg.LexerForFile(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	start := time.Now()
	ropeOpts := append(o.cfg.RopeOptions(), rope.WithLexer(lex), rope.WithLogger(o.logger))
	r, err := rope.FromReader(f, ropeOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	o.logger.Debug("rope built",
		"path", path,
		"language", lex.Language().Name,
		"symbols", r.Len(),
		"leaves", r.LeafCount(),
		"elapsed", time.Since(start))
	return r, nil
}
