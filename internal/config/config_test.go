package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dshills/lexrope/internal/engine/lexer"
)

func TestDefaultValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"small split", func(c *Config) { c.Rope.SplitLength = 1 }, true},
		{"zero join", func(c *Config) { c.Rope.JoinLength = 0 }, true},
		{"join above split", func(c *Config) { c.Rope.JoinLength = 2000 }, true},
		{"known language", func(c *Config) { c.Language = "shell" }, false},
		{"unknown language", func(c *Config) { c.Language = "cobol" }, true},
		{"configured language", func(c *Config) {
			c.Languages = []lexer.Language{{Name: "ini", LineComment: ";"}}
			c.Language = "ini"
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrValidationFailed)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLexer(t *testing.T) {
	cfg := Default()

	s, err := cfg.Lexer("")
	require.NoError(t, err)
	assert.Equal(t, "plain", s.Language().Name)

	s, err = cfg.Lexer("go")
	require.NoError(t, err)
	assert.Equal(t, "go", s.Language().Name)

	cfg.Language = "c"
	s, err = cfg.Lexer("")
	require.NoError(t, err)
	assert.Equal(t, "c", s.Language().Name)

	_, err = cfg.Lexer("cobol")
	assert.ErrorIs(t, err, lexer.ErrUnknownLanguage)
}

func TestLexerForFile(t *testing.T) {
	cfg := Default()
	cfg.Languages = []lexer.Language{{Name: "ini", Extensions: []string{".ini"}, LineComment: ";"}}

	tests := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"lib/util.H", "c"},
		{"run.sh", "shell"},
		{"settings.ini", "ini"},
		{"README", "plain"},
		{"notes.md", "plain"},
	}
	for _, tt := range tests {
		s, err := cfg.LexerForFile(tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, s.Language().Name, tt.path)
	}

	cfg.Language = "shell"
	s, err := cfg.LexerForFile("main.go")
	require.NoError(t, err)
	assert.Equal(t, "shell", s.Language().Name)
}

func TestRegistryOverridesBuiltin(t *testing.T) {
	cfg := Default()
	cfg.Languages = []lexer.Language{{Name: "go", Extensions: []string{".go"}, LineComment: "#"}}

	reg, err := cfg.Registry()
	require.NoError(t, err)
	lang, err := reg.Lookup("go")
	require.NoError(t, err)
	assert.Equal(t, "#", lang.LineComment)
}
