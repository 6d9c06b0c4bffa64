package config

import (
	"fmt"
	"path/filepath"

	"github.com/dshills/lexrope/internal/engine/lexer"
	"github.com/dshills/lexrope/internal/engine/rope"
)

// Config is the complete lexrope configuration.
type Config struct {
	// Rope holds the leaf size thresholds.
	Rope RopeConfig `toml:"rope" yaml:"rope"`

	// Language forces the language used for every file. When empty the
	// language is chosen by file extension.
	Language string `toml:"language" yaml:"language"`

	// Languages are extra language definitions. A definition named like a
	// built-in replaces it.
	Languages []lexer.Language `toml:"languages" yaml:"languages"`
}

// RopeConfig holds rope tuning.
type RopeConfig struct {
	SplitLength int `toml:"split_length" yaml:"split_length"`
	JoinLength  int `toml:"join_length" yaml:"join_length"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Rope: RopeConfig{
			SplitLength: rope.DefaultSplitLength,
			JoinLength:  rope.DefaultJoinLength,
		},
	}
}

// Validate checks thresholds, language definitions and the selected
// language.
func (c *Config) Validate() error {
	if c.Rope.SplitLength < 2 {
		return fmt.Errorf("%w: rope.split_length %d must be at least 2", ErrValidationFailed, c.Rope.SplitLength)
	}
	if c.Rope.JoinLength < 1 || c.Rope.JoinLength >= c.Rope.SplitLength {
		return fmt.Errorf("%w: rope.join_length %d must be between 1 and split_length %d",
			ErrValidationFailed, c.Rope.JoinLength, c.Rope.SplitLength)
	}
	reg, err := c.Registry()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	}
	if c.Language != "" {
		if _, err := reg.Lookup(c.Language); err != nil {
			return fmt.Errorf("%w: %w", ErrValidationFailed, err)
		}
	}
	return nil
}

// Registry returns the built-in languages plus the configured ones.
func (c *Config) Registry() (*lexer.Registry, error) {
	reg := lexer.DefaultRegistry()
	for _, l := range c.Languages {
		if err := reg.Register(l); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Lexer builds a scanner for the named language, or for the configured
// language when name is empty. Without either it falls back to plain text.
func (c *Config) Lexer(name string) (*lexer.Scanner, error) {
	if name == "" {
		name = c.Language
	}
	if name == "" {
		name = lexer.Plain().Name
	}
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	lang, err := reg.Lookup(name)
	if err != nil {
		return nil, err
	}
	return lexer.NewScanner(lang)
}

// LexerForFile builds a scanner for path. The configured language wins;
// otherwise the file extension decides, falling back to plain text.
func (c *Config) LexerForFile(path string) (*lexer.Scanner, error) {
	if c.Language != "" {
		return c.Lexer(c.Language)
	}
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	if lang, ok := reg.ForExtension(filepath.Ext(path)); ok {
		return lexer.NewScanner(lang)
	}
	return lexer.NewScanner(lexer.Plain())
}

// RopeOptions converts the rope section into rope options.
func (c *Config) RopeOptions() []rope.Option {
	return []rope.Option{rope.WithThresholds(c.Rope.SplitLength, c.Rope.JoinLength)}
}
