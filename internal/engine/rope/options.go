package rope

import (
	"fmt"
	"log/slog"

	"github.com/dshills/lexrope/internal/engine/lexer"
)

// Default leaf size thresholds, in symbols.
const (
	// DefaultSplitLength is the leaf length above which a leaf is split.
	DefaultSplitLength = 1500

	// DefaultJoinLength is the combined length of two sibling leaves below
	// which they are merged.
	DefaultJoinLength = 1000
)

// Config holds the tuning and collaborators shared by every node of a rope.
type Config struct {
	// SplitLength is the leaf length above which a leaf is split in half.
	SplitLength int

	// JoinLength is the combined length below which two sibling leaves
	// are merged into one. Must be less than SplitLength.
	JoinLength int

	// Lexer builds and combines the transition tables stored in the tree.
	Lexer lexer.Lexer

	// Observer, if set, is told about bulk build progress.
	Observer BuildObserver
}

// DefaultConfig returns the default tuning with a plain-text lexer.
func DefaultConfig() Config {
	return Config{
		SplitLength: DefaultSplitLength,
		JoinLength:  DefaultJoinLength,
		Lexer:       lexer.MustScanner(lexer.Plain()),
	}
}

// ChunkLength is the leaf length used when building from flat text,
// halfway between the two thresholds.
func (c Config) ChunkLength() int {
	return (c.SplitLength + c.JoinLength) / 2
}

// Validate checks that the thresholds leave room between merging and
// splitting.
func (c Config) Validate() error {
	switch {
	case c.Lexer == nil:
		return fmt.Errorf("%w: no lexer", ErrInvalidConfig)
	case c.Lexer.States() < 1:
		return fmt.Errorf("%w: lexer has no states", ErrInvalidConfig)
	case c.SplitLength < 2:
		return fmt.Errorf("%w: split length %d must be at least 2", ErrInvalidConfig, c.SplitLength)
	case c.JoinLength < 1:
		return fmt.Errorf("%w: join length %d must be positive", ErrInvalidConfig, c.JoinLength)
	case c.JoinLength >= c.SplitLength:
		return fmt.Errorf("%w: join length %d must be below split length %d", ErrInvalidConfig, c.JoinLength, c.SplitLength)
	}
	return nil
}

// Option is a functional option for configuring a Rope.
type Option func(*Config)

// WithSplitLength sets the leaf split threshold.
func WithSplitLength(n int) Option {
	return func(c *Config) {
		c.SplitLength = n
	}
}

// WithJoinLength sets the sibling leaf merge threshold.
func WithJoinLength(n int) Option {
	return func(c *Config) {
		c.JoinLength = n
	}
}

// WithThresholds sets both leaf thresholds.
func WithThresholds(split, join int) Option {
	return func(c *Config) {
		c.SplitLength = split
		c.JoinLength = join
	}
}

// WithLexer sets the lexer used for transition tables and tokenizing.
func WithLexer(l lexer.Lexer) Option {
	return func(c *Config) {
		if l != nil {
			c.Lexer = l
		}
	}
}

// WithBuildObserver sets the observer told about bulk build progress.
func WithBuildObserver(fn BuildObserver) Option {
	return func(c *Config) {
		c.Observer = fn
	}
}

// WithLogger reports bulk build progress to logger at debug level.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Config) {
		c.Observer = LogProgress(logger)
	}
}

// WithConfig replaces the whole configuration.
func WithConfig(cfg Config) Option {
	return func(c *Config) {
		*c = cfg
	}
}

func newConfig(opts []Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
