package lexer

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// Errors returned by language handling.
var (
	ErrUnknownLanguage = errors.New("unknown language")
	ErrInvalidLanguage = errors.New("invalid language definition")
)

// Language describes the lexical shape of a language closely enough for
// the Scanner to tokenize it.
type Language struct {
	// Name identifies the language in a Registry.
	Name string `toml:"name" yaml:"name" json:"name"`

	// Extensions are file extensions, with the leading dot.
	Extensions []string `toml:"extensions" yaml:"extensions" json:"extensions"`

	// Keywords are identifiers reported as TokenKeyword.
	Keywords []string `toml:"keywords" yaml:"keywords" json:"keywords"`

	// LineComment opens a comment running to the end of the line.
	// One or two runes, or empty.
	LineComment string `toml:"line_comment" yaml:"line_comment" json:"line_comment"`

	// BlockCommentStart and BlockCommentEnd delimit block comments.
	// Two runes each, or both empty.
	BlockCommentStart string `toml:"block_comment_start" yaml:"block_comment_start" json:"block_comment_start"`
	BlockCommentEnd   string `toml:"block_comment_end" yaml:"block_comment_end" json:"block_comment_end"`

	// Quotes lists the runes that open and close strings.
	Quotes string `toml:"quotes" yaml:"quotes" json:"quotes"`

	// Escape is the rune that escapes the next rune inside a string.
	Escape string `toml:"escape" yaml:"escape" json:"escape"`

	// MultilineStrings keeps strings open across newlines.
	MultilineStrings bool `toml:"multiline_strings" yaml:"multiline_strings" json:"multiline_strings"`
}

// Validate checks that the Scanner can build a state machine for l.
func (l Language) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLanguage)
	}
	if n := utf8.RuneCountInString(l.LineComment); n > 2 {
		return fmt.Errorf("%w: %s: line comment %q longer than two runes", ErrInvalidLanguage, l.Name, l.LineComment)
	}
	start := utf8.RuneCountInString(l.BlockCommentStart)
	end := utf8.RuneCountInString(l.BlockCommentEnd)
	if start != end || (start != 0 && start != 2) {
		return fmt.Errorf("%w: %s: block comment delimiters must both be two runes", ErrInvalidLanguage, l.Name)
	}
	if utf8.RuneCountInString(l.Escape) > 1 {
		return fmt.Errorf("%w: %s: escape %q is not a single rune", ErrInvalidLanguage, l.Name, l.Escape)
	}
	if start == 2 && utf8.RuneCountInString(l.LineComment) == 2 {
		lc, _ := utf8.DecodeRuneInString(l.LineComment)
		bc, _ := utf8.DecodeRuneInString(l.BlockCommentStart)
		if lc != bc {
			return fmt.Errorf("%w: %s: two-rune comment openers must share their first rune", ErrInvalidLanguage, l.Name)
		}
	}
	if start == 2 && utf8.RuneCountInString(l.LineComment) == 1 {
		lc, _ := utf8.DecodeRuneInString(l.LineComment)
		bc, _ := utf8.DecodeRuneInString(l.BlockCommentStart)
		if lc == bc {
			return fmt.Errorf("%w: %s: line comment %q hides block comment %q", ErrInvalidLanguage, l.Name, l.LineComment, l.BlockCommentStart)
		}
	}
	quotes := []rune(l.Quotes)
	for i, q := range quotes {
		if slices.Contains(quotes[i+1:], q) {
			return fmt.Errorf("%w: %s: duplicate quote %q", ErrInvalidLanguage, l.Name, q)
		}
	}
	if 2*len(quotes)+int(stateFirstString) > 256 {
		return fmt.Errorf("%w: %s: too many quote runes", ErrInvalidLanguage, l.Name)
	}
	return nil
}

// Plain returns a language with no comments, strings or keywords.
func Plain() Language {
	return Language{Name: "plain", Extensions: []string{".txt"}}
}

// Go returns the definition for Go source.
func Go() Language {
	return Language{
		Name:       "go",
		Extensions: []string{".go"},
		Keywords: []string{
			"break", "case", "chan", "const", "continue", "default", "defer",
			"else", "fallthrough", "for", "func", "go", "goto", "if", "import",
			"interface", "map", "package", "range", "return", "select", "struct",
			"switch", "type", "var",
		},
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		Quotes:            "\"'`",
		Escape:            "\\",
	}
}

// C returns the definition for C source.
func C() Language {
	return Language{
		Name:       "c",
		Extensions: []string{".c", ".h"},
		Keywords: []string{
			"auto", "break", "case", "char", "const", "continue", "default", "do",
			"double", "else", "enum", "extern", "float", "for", "goto", "if", "int",
			"long", "register", "return", "short", "signed", "sizeof", "static",
			"struct", "switch", "typedef", "union", "unsigned", "void", "volatile", "while",
		},
		LineComment:       "//",
		BlockCommentStart: "/*",
		BlockCommentEnd:   "*/",
		Quotes:            "\"'",
		Escape:            "\\",
	}
}

// Shell returns the definition for POSIX shell scripts.
func Shell() Language {
	return Language{
		Name:       "shell",
		Extensions: []string{".sh", ".bash"},
		Keywords: []string{
			"case", "do", "done", "elif", "else", "esac", "fi", "for", "function",
			"if", "in", "then", "until", "while",
		},
		LineComment:      "#",
		Quotes:           "\"'",
		Escape:           "\\",
		MultilineStrings: true,
	}
}

// Builtin returns the built-in language definitions.
func Builtin() []Language {
	return []Language{Plain(), Go(), C(), Shell()}
}

// Registry maps language names and file extensions to definitions.
// All methods are safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	byName map[string]Language
	byExt  map[string]string
}

// NewRegistry creates a registry holding the given languages.
func NewRegistry(langs ...Language) (*Registry, error) {
	r := &Registry{
		byName: make(map[string]Language),
		byExt:  make(map[string]string),
	}
	for _, l := range langs {
		if err := r.Register(l); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// DefaultRegistry returns a registry holding the built-in languages.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(Builtin()...)
	if err != nil {
		panic(err)
	}
	return r
}

// Register adds l, replacing any language with the same name.
func (r *Registry) Register(l Language) error {
	if err := l.Validate(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.byName[l.Name]; ok {
		for _, ext := range old.Extensions {
			if r.byExt[normalizeExt(ext)] == old.Name {
				delete(r.byExt, normalizeExt(ext))
			}
		}
	}
	r.byName[l.Name] = l
	for _, ext := range l.Extensions {
		r.byExt[normalizeExt(ext)] = l.Name
	}
	return nil
}

// Lookup returns the language registered under name.
func (r *Registry) Lookup(name string) (Language, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.byName[name]
	if !ok {
		return Language{}, fmt.Errorf("%w: %q", ErrUnknownLanguage, name)
	}
	return l, nil
}

// ForExtension returns the language handling ext (".go" or "go").
func (r *Registry) ForExtension(ext string) (Language, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return Language{}, false
	}
	return r.byName[name], true
}

// Names returns the registered language names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
