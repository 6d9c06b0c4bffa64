// Package lexer provides the tokenizer used to keep syntax information in
// step with a rope.
//
// The lexer is a deterministic state machine that consumes one symbol (rune)
// at a time. Because the machine has a small, fixed number of states, the
// effect of scanning any run of text can be summarised as a transition
// table: for every state the scan could start in, the state it ends in.
// Tables of adjacent runs compose, so a tree of text segments can keep a
// table per subtree and answer "what state does the tokenizer enter this
// segment with" in logarithmic time.
//
// Basic usage:
//
//	s, _ := lexer.NewScanner(lexer.Go())
//	t := s.Scan("/* open comment")
//	st := t.Lookup(lexer.StateNormal) // lexer.StateBlockComment
//	for tok := range s.Lexemes("x := 1 */ y", st) {
//		fmt.Println(tok.Type, tok.Text)
//	}
package lexer
