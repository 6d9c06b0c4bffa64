package lexer

import (
	"iter"
	"unicode"
)

// action tells Lexemes how a symbol relates to the token before it.
type action uint8

const (
	actStart    action = iota // symbol opens a new token
	actContinue               // symbol extends the open token
	actMerge                  // symbol extends the open token and retypes it
)

// Scanner is a Lexer built from a Language definition.
// A Scanner is immutable and safe for concurrent use.
type Scanner struct {
	lang     Language
	keywords map[string]struct{}

	lineComment []rune
	blockStart  []rune
	blockEnd    []rune
	quotes      []rune
	escape      rune
	hasEscape   bool
	multiline   bool

	// pairOpener is the shared first rune of the two-rune comment openers.
	pairOpener    rune
	hasPairOpener bool

	states int
}

// NewScanner builds a Scanner for lang.
func NewScanner(lang Language) (*Scanner, error) {
	if err := lang.Validate(); err != nil {
		return nil, err
	}

	s := &Scanner{
		lang:        lang,
		keywords:    make(map[string]struct{}, len(lang.Keywords)),
		lineComment: []rune(lang.LineComment),
		blockStart:  []rune(lang.BlockCommentStart),
		blockEnd:    []rune(lang.BlockCommentEnd),
		quotes:      []rune(lang.Quotes),
		multiline:   lang.MultilineStrings,
	}
	for _, kw := range lang.Keywords {
		s.keywords[kw] = struct{}{}
	}
	if esc := []rune(lang.Escape); len(esc) == 1 {
		s.escape, s.hasEscape = esc[0], true
	}
	switch {
	case len(s.lineComment) == 2:
		s.pairOpener, s.hasPairOpener = s.lineComment[0], true
	case len(s.blockStart) == 2:
		s.pairOpener, s.hasPairOpener = s.blockStart[0], true
	}
	s.states = int(stateFirstString) + 2*len(s.quotes)
	return s, nil
}

// MustScanner is like NewScanner but panics on an invalid language.
func MustScanner(lang Language) *Scanner {
	s, err := NewScanner(lang)
	if err != nil {
		panic(err)
	}
	return s
}

// Language returns the definition the scanner was built from.
func (s *Scanner) Language() Language {
	return s.lang
}

// States implements Lexer.
func (s *Scanner) States() int {
	return s.states
}

// Scan implements Lexer. All start states are advanced together in a
// single pass over text.
func (s *Scanner) Scan(text string) Table {
	t := Identity(s.states)
	for _, r := range text {
		for i, st := range t {
			t[i], _, _ = s.step(st, r)
		}
	}
	return t
}

// LastState implements Lexer.
func (s *Scanner) LastState(text string, in State) State {
	st := s.clamp(in)
	for _, r := range text {
		st, _, _ = s.step(st, r)
	}
	return st
}

// Lexemes implements Lexer. Whitespace produces no tokens.
func (s *Scanner) Lexemes(text string, in State) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		runes := []rune(text)
		st := s.clamp(in)

		var cur Token
		open := false
		flush := func(end int) bool {
			if !open {
				return true
			}
			open = false
			if cur.Type == TokenNone {
				return true
			}
			cur.End = end
			cur.Text = string(runes[cur.Start:end])
			if cur.Type == TokenIdentifier {
				if _, ok := s.keywords[cur.Text]; ok {
					cur.Type = TokenKeyword
				}
			}
			return yield(cur)
		}

		for i, r := range runes {
			next, kind, act := s.step(st, r)
			switch {
			case open && act == actContinue:
			case open && act == actMerge:
				cur.Type = kind
			default:
				if !flush(i) {
					return
				}
				cur = Token{Type: kind, Start: i}
				open = true
			}
			st = next
		}
		flush(len(runes))
	}
}

func (s *Scanner) clamp(st State) State {
	if int(st) >= s.states {
		return StateNormal
	}
	return st
}

// step consumes r in state st.
func (s *Scanner) step(st State, r rune) (State, TokenType, action) {
	switch st {
	case StateNormal:
		return s.normal(r)

	case StateIdent:
		if isIdentPart(r) {
			return StateIdent, TokenIdentifier, actContinue
		}
		return s.normal(r)

	case StateNumber:
		if isNumberPart(r) {
			return StateNumber, TokenNumber, actContinue
		}
		return s.normal(r)

	case StateMaybeComment:
		if len(s.lineComment) == 2 && r == s.lineComment[1] {
			return StateLineComment, TokenComment, actMerge
		}
		if len(s.blockStart) == 2 && r == s.blockStart[1] {
			return StateBlockComment, TokenComment, actMerge
		}
		return s.normal(r)

	case StateLineComment:
		if r == '\n' {
			return StateNormal, TokenNone, actStart
		}
		return StateLineComment, TokenComment, actContinue

	case StateBlockComment:
		if len(s.blockEnd) != 2 {
			return s.normal(r)
		}
		if r == s.blockEnd[0] {
			return StateBlockCommentEnd, TokenComment, actContinue
		}
		return StateBlockComment, TokenComment, actContinue

	case StateBlockCommentEnd:
		if len(s.blockEnd) != 2 {
			return s.normal(r)
		}
		switch r {
		case s.blockEnd[1]:
			return StateNormal, TokenComment, actContinue
		case s.blockEnd[0]:
			return StateBlockCommentEnd, TokenComment, actContinue
		}
		return StateBlockComment, TokenComment, actContinue
	}

	q := int(st-stateFirstString) / 2
	if int(st-stateFirstString)%2 == 1 {
		return stringState(q), TokenString, actContinue
	}
	switch {
	case s.hasEscape && r == s.escape:
		return stringState(q) + 1, TokenString, actContinue
	case r == s.quotes[q]:
		return StateNormal, TokenString, actContinue
	case r == '\n' && !s.multiline:
		return StateNormal, TokenNone, actStart
	}
	return st, TokenString, actContinue
}

// normal classifies r as the first symbol of a token.
func (s *Scanner) normal(r rune) (State, TokenType, action) {
	switch {
	case unicode.IsSpace(r):
		return StateNormal, TokenNone, actStart
	case len(s.lineComment) == 1 && r == s.lineComment[0]:
		return StateLineComment, TokenComment, actStart
	case s.hasPairOpener && r == s.pairOpener:
		return StateMaybeComment, TokenOperator, actStart
	}
	for i, q := range s.quotes {
		if r == q {
			return stringState(i), TokenString, actStart
		}
	}
	switch {
	case isIdentStart(r):
		return StateIdent, TokenIdentifier, actStart
	case unicode.IsDigit(r):
		return StateNumber, TokenNumber, actStart
	}
	return StateNormal, TokenOperator, actStart
}

func stringState(quote int) State {
	return stateFirstString + State(2*quote)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func isNumberPart(r rune) bool {
	return r == '.' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
