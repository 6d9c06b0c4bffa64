package lexer

import "iter"

// Lexer is the tokenizer capability a rope needs.
type Lexer interface {
	// States returns the number of states; every Table produced by Scan
	// has exactly this many entries.
	States() int

	// Scan summarises text as a transition table, independent of where
	// the text sits in a document.
	Scan(text string) Table

	// LastState returns the state reached after scanning text from in.
	LastState(text string, in State) State

	// Lexemes tokenizes text starting in state in. The sequence is lazy,
	// finite and may be ranged over more than once.
	Lexemes(text string, in State) iter.Seq[Token]
}
