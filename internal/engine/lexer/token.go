package lexer

// TokenType represents the semantic type of a token.
type TokenType uint16

// Token types produced by Scanner. Names follow TextMate scope naming at a
// high level.
const (
	TokenNone TokenType = iota
	TokenIdentifier
	TokenKeyword
	TokenNumber
	TokenString
	TokenComment
	TokenOperator

	tokenTypeCount
)

// String returns the scope-style name of a token type.
func (t TokenType) String() string {
	if t < tokenTypeCount {
		return tokenTypeNames[t]
	}
	return "unknown"
}

// IsComment returns true if this is a comment token.
func (t TokenType) IsComment() bool {
	return t == TokenComment
}

// IsString returns true if this is a string token.
func (t TokenType) IsString() bool {
	return t == TokenString
}

// TokenTypeFromString converts a scope name back to a TokenType.
// Unknown names map to TokenNone.
func TokenTypeFromString(name string) TokenType {
	if t, ok := scopeToToken[name]; ok {
		return t
	}
	return TokenNone
}

// MarshalText encodes the type by name.
func (t TokenType) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a type name; unknown names decode to TokenNone.
func (t *TokenType) UnmarshalText(text []byte) error {
	*t = TokenTypeFromString(string(text))
	return nil
}

// Token represents one lexeme.
type Token struct {
	// Type is the semantic type of the token.
	Type TokenType `json:"type"`

	// Start is the offset in symbols of the first symbol, relative to the
	// text that was tokenized.
	Start int `json:"start"`

	// End is the offset just past the last symbol.
	End int `json:"end"`

	// Text is the token's text.
	Text string `json:"text"`
}

// Len returns the length of the token in symbols.
func (t Token) Len() int {
	return t.End - t.Start
}

// Contains returns true if the offset is within the token.
func (t Token) Contains(offset int) bool {
	return offset >= t.Start && offset < t.End
}

// Shift returns the token moved by delta symbols.
func (t Token) Shift(delta int) Token {
	t.Start += delta
	t.End += delta
	return t
}

var tokenTypeNames = [...]string{
	TokenNone:       "none",
	TokenIdentifier: "identifier",
	TokenKeyword:    "keyword",
	TokenNumber:     "number",
	TokenString:     "string",
	TokenComment:    "comment",
	TokenOperator:   "operator",
}

var scopeToToken = func() map[string]TokenType {
	m := make(map[string]TokenType, len(tokenTypeNames))
	for i, name := range tokenTypeNames {
		m[name] = TokenType(i)
	}
	return m
}()
