// Package rope provides a mutable rope for incrementally tokenized text.
//
// A rope is an AVL-balanced binary tree whose leaves hold runs of text.
// Every node stores the length of the text below it as a Position and the
// lexer transition table of that text, so the line structure and the lexer
// state at any point are found in O(log n) without scanning the document.
//
// Key features:
//   - O(log n) insertion, removal, lookup, split and concatenation
//   - Lookups by absolute offset or by line and column, interchangeably
//   - Leaf sizes kept between a join and a split threshold
//   - Tokenizing any range from the correct incoming lexer state
//   - Linear-time bulk construction with an optional progress observer
//
// Basic usage:
//
//	r, err := rope.FromString("ab\ncd\n")
//	_ = r.Insert(rope.Offset(2), "X")                // "abX\ncd\n"
//	_ = r.Remove(rope.Point(0, 2), rope.Point(0, 2)) // "ab\ncd\n"
//	n := r.LineLength(1)                             // 2
//	tokens, _ := r.Lexemes(rope.Offset(0), rope.Offset(r.Len()-1))
//
// Symbols are Unicode code points. Offsets, columns and lengths count runes.
// Ranges include both endpoints.
package rope
