package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Environment variables read by the loader.
const (
	EnvSplitLength = "LEXROPE_SPLIT_LENGTH"
	EnvJoinLength  = "LEXROPE_JOIN_LENGTH"
	EnvLanguage    = "LEXROPE_LANGUAGE"
)

// FileSystem is an abstraction for file system operations.
// This allows for easy testing with in-memory file systems.
type FileSystem interface {
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the real OS file system.
type OSFS struct{}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Loader reads configuration files and applies environment overrides.
type Loader struct {
	fs        FileSystem
	lookupEnv func(string) (string, bool)
}

// NewLoader creates a loader reading the OS file system and environment.
func NewLoader() *Loader {
	return NewLoaderWithFS(OSFS{}, os.LookupEnv)
}

// NewLoaderWithFS creates a loader with a custom file system and
// environment lookup. A nil lookup ignores the environment.
func NewLoaderWithFS(fsys FileSystem, lookupEnv func(string) (string, bool)) *Loader {
	if lookupEnv == nil {
		lookupEnv = func(string) (string, bool) { return "", false }
	}
	return &Loader{fs: fsys, lookupEnv: lookupEnv}
}

// Load builds the configuration from the defaults, the file at path and
// the environment, then validates it. An empty path or a missing file
// leaves the defaults in place.
func (l *Loader) Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		if err := l.loadFile(path, cfg); err != nil {
			return nil, err
		}
	}
	if err := l.applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// loadFile decodes path over cfg, choosing the decoder by extension.
func (l *Loader) loadFile(path string, cfg *Config) error {
	decode, err := decoderFor(path)
	if err != nil {
		return err
	}

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil // File doesn't exist, not an error
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	return decode(path, data, cfg)
}

type decodeFunc func(path string, data []byte, cfg *Config) error

func decoderFor(path string) (decodeFunc, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		return decodeTOML, nil
	case ".yaml", ".yml":
		return decodeYAML, nil
	default:
		return nil, fmt.Errorf("%w: %q (%s)", ErrUnsupportedFormat, ext, path)
	}
}

func decodeTOML(path string, data []byte, cfg *Config) error {
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		perr := &ParseError{Path: path, Message: err.Error(), Err: err}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			perr.Line, perr.Column = derr.Position()
		}
		return perr
	}
	return nil
}

func decodeYAML(path string, data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty document
		}
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// applyEnv overrides cfg with the LEXROPE_* variables. A variable set to
// the empty string counts as set.
func (l *Loader) applyEnv(cfg *Config) error {
	for _, v := range []struct {
		name string
		dst  *int
	}{
		{EnvSplitLength, &cfg.Rope.SplitLength},
		{EnvJoinLength, &cfg.Rope.JoinLength},
	} {
		val, ok := l.lookupEnv(v.name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return &EnvError{Name: v.name, Value: val, Err: err}
		}
		*v.dst = n
	}
	if val, ok := l.lookupEnv(EnvLanguage); ok {
		cfg.Language = strings.TrimSpace(val)
	}
	return nil
}
