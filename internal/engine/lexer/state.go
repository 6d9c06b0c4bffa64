package lexer

import "fmt"

// State is a tokenizer state carried from one symbol to the next.
type State uint8

// Fixed states shared by every Scanner. String states follow
// stateFirstString, two per quote rune (inside the string, after an escape).
const (
	StateNormal State = iota
	StateIdent
	StateNumber
	StateMaybeComment
	StateLineComment
	StateBlockComment
	StateBlockCommentEnd

	stateFirstString
)

// String returns a readable state name.
func (s State) String() string {
	switch s {
	case StateNormal:
		return "normal"
	case StateIdent:
		return "ident"
	case StateNumber:
		return "number"
	case StateMaybeComment:
		return "maybe-comment"
	case StateLineComment:
		return "line-comment"
	case StateBlockComment:
		return "block-comment"
	case StateBlockCommentEnd:
		return "block-comment-end"
	}
	i := int(s - stateFirstString)
	if i%2 == 1 {
		return fmt.Sprintf("string-escape(%d)", i/2)
	}
	return fmt.Sprintf("string(%d)", i/2)
}

// Table is a transition table: Table[in] is the state reached after
// scanning the summarised text starting in state in.
type Table []State

// Identity returns the table of the empty text for a lexer with n states.
func Identity(n int) Table {
	t := make(Table, n)
	for i := range t {
		t[i] = State(i)
	}
	return t
}

// Concat returns the table of the text summarised by t followed by the
// text summarised by next.
func (t Table) Concat(next Table) Table {
	if len(t) != len(next) {
		panic(fmt.Sprintf("lexer: concat of tables with %d and %d states", len(t), len(next)))
	}
	out := make(Table, len(t))
	for i, mid := range t {
		out[i] = next[mid]
	}
	return out
}

// Lookup returns the state reached from in. Out of range states map to
// StateNormal.
func (t Table) Lookup(in State) State {
	if int(in) >= len(t) {
		return StateNormal
	}
	return t[in]
}

// Equal reports whether two tables describe the same mapping.
func (t Table) Equal(other Table) bool {
	if len(t) != len(other) {
		return false
	}
	for i := range t {
		if t[i] != other[i] {
			return false
		}
	}
	return true
}
