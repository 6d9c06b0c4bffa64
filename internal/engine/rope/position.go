package rope

import (
	"fmt"
	"strconv"
)

// Position describes a run of text, or a point in it.
//
// As a length, Count is the number of symbols, Lines the number of lines
// the text spans (1 when it holds no newline) and Column the number of
// symbols after the last newline.
//
// A point is described by the length of the text preceding it, so the
// point's zero-based line is Lines-1 and its zero-based column is Column.
// Offset and Point build points from the two external coordinate systems.
//
// Either representation may be absent. Resolve fills in the missing one
// from the text the position refers to.
type Position struct {
	Count  int
	Lines  int
	Column int

	known known
}

// known records which representations a Position carries.
type known uint8

const (
	knownCount known = 1 << iota
	knownLineColumn

	knownFull = knownCount | knownLineColumn
)

// Offset returns the point before the symbol with zero-based index i.
func Offset(i int) Position {
	return Position{Count: i, known: knownCount}
}

// Point returns the point at a zero-based line and column.
func Point(line, column int) Position {
	return Position{Lines: line + 1, Column: column, known: knownLineColumn}
}

// Full returns a position carrying both representations.
func Full(count, lines, column int) Position {
	return Position{Count: count, Lines: lines, Column: column, known: knownFull}
}

// PositionOf returns the length of text.
func PositionOf(text string) Position {
	p := Full(0, 1, 0)
	for _, r := range text {
		p.advance(r)
	}
	return p
}

// positionOfRunes returns the length of text.
func positionOfRunes(text []rune) Position {
	p := Full(0, 1, 0)
	for _, r := range text {
		p.advance(r)
	}
	return p
}

func (p *Position) advance(r rune) {
	p.Count++
	if r == '\n' {
		p.Lines++
		p.Column = 0
		return
	}
	p.Column++
}

// HasCount reports whether the absolute representation is present.
func (p Position) HasCount() bool {
	return p.known&knownCount != 0
}

// HasLineColumn reports whether the line/column representation is present.
func (p Position) HasLineColumn() bool {
	return p.known&knownLineColumn != 0
}

// IsFull reports whether both representations are present.
func (p Position) IsFull() bool {
	return p.known == knownFull
}

// Line returns the zero-based line of a point.
func (p Position) Line() int {
	return p.Lines - 1
}

// Concat returns the length of the text described by p followed by the text
// described by next. Only representations present in both are combined.
func (p Position) Concat(next Position) Position {
	var out Position
	if p.HasCount() && next.HasCount() {
		out.Count = p.Count + next.Count
		out.known |= knownCount
	}
	if p.HasLineColumn() && next.HasLineColumn() {
		out.Lines = p.Lines + next.Lines - 1
		out.Column = next.Column
		if next.Lines == 1 {
			out.Column += p.Column
		}
		out.known |= knownLineColumn
	}
	return out
}

// Split divides the length p at sub, a length measured from the start of p.
// Concatenating head and tail gives back p.
func (p Position) Split(sub Position) (head, tail Position) {
	if p.HasCount() && sub.HasCount() {
		head.Count = sub.Count
		tail.Count = p.Count - sub.Count
		head.known |= knownCount
		tail.known |= knownCount
	}
	if p.HasLineColumn() && sub.HasLineColumn() {
		head.Lines = sub.Lines
		head.Column = sub.Column
		tail.Lines = p.Lines - sub.Lines + 1
		tail.Column = p.Column
		if tail.Lines == 1 {
			tail.Column -= sub.Column
		}
		head.known |= knownLineColumn
		tail.known |= knownLineColumn
	}
	return head, tail
}

// Compare orders p and q by count when both carry one, and otherwise by
// line, then column. It returns ErrInsufficientInfo when p and q share no
// representation.
func (p Position) Compare(q Position) (int, error) {
	switch {
	case p.HasCount() && q.HasCount():
		return compareInts(p.Count, q.Count), nil
	case p.HasLineColumn() && q.HasLineColumn():
		if c := compareInts(p.Lines, q.Lines); c != 0 {
			return c, nil
		}
		return compareInts(p.Column, q.Column), nil
	}
	return 0, fmt.Errorf("%w: comparing %v with %v", ErrInsufficientInfo, p, q)
}

// Less reports whether p comes before q.
func (p Position) Less(q Position) (bool, error) {
	c, err := p.Compare(q)
	return c < 0, err
}

// Equal reports whether every representation shared by p and q agrees.
// Positions sharing no representation are not equal.
func (p Position) Equal(q Position) bool {
	shared := p.known & q.known
	if shared == 0 {
		return false
	}
	if shared&knownCount != 0 && p.Count != q.Count {
		return false
	}
	if shared&knownLineColumn != 0 && (p.Lines != q.Lines || p.Column != q.Column) {
		return false
	}
	return true
}

// Resolve returns the full form of the point p inside text by scanning it
// for newlines. A point past the end of text, or a column past the end of
// its line, is a range violation.
func (p Position) Resolve(text []rune) (Position, error) {
	switch {
	case p.IsFull():
		return p, nil

	case p.HasCount():
		if p.Count < 0 || p.Count > len(text) {
			return Position{}, &RangeError{Op: "resolve", Pos: p, Len: len(text)}
		}
		return positionOfRunes(text[:p.Count]), nil

	case p.HasLineColumn():
		if p.Lines < 1 || p.Column < 0 {
			return Position{}, &RangeError{Op: "resolve", Pos: p, Len: len(text)}
		}
		i, line := 0, 1
		for line < p.Lines {
			nl := indexRune(text, '\n', i)
			if nl < 0 {
				return Position{}, &RangeError{Op: "resolve", Pos: p, Len: len(text)}
			}
			i = nl + 1
			line++
		}
		limit := len(text) - i
		if nl := indexRune(text, '\n', i); nl >= 0 {
			limit = nl - i
		}
		if p.Column > limit {
			return Position{}, &RangeError{Op: "resolve", Pos: p, Len: len(text)}
		}
		return Full(i+p.Column, p.Lines, p.Column), nil
	}
	return Position{}, ErrInsufficientInfo
}

// String returns a debug representation; unknown fields print as "?".
func (p Position) String() string {
	count, lines, column := "?", "?", "?"
	if p.HasCount() {
		count = strconv.Itoa(p.Count)
	}
	if p.HasLineColumn() {
		lines = strconv.Itoa(p.Lines)
		column = strconv.Itoa(p.Column)
	}
	return fmt.Sprintf("Position(count=%s, lines=%s, column=%s)", count, lines, column)
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func indexRune(text []rune, r rune, from int) int {
	for i := from; i < len(text); i++ {
		if text[i] == r {
			return i
		}
	}
	return -1
}
