package rope

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"slices"
	"strings"

	"github.com/dshills/lexrope/internal/engine/lexer"
)

// Rope is a mutable text document stored as a balanced tree of leaves.
//
// Positions are given as Offset or Point values. Ranges passed to Remove,
// Replace, Substr and Lexemes include both endpoints.
//
// A Rope is not safe for concurrent use.
type Rope struct {
	root *Node
	cfg  *Config
}

// New creates an empty rope.
func New(opts ...Option) (*Rope, error) {
	return FromString("", opts...)
}

// FromString creates a rope holding text, built bottom up in linear time.
func FromString(text string, opts ...Option) (*Rope, error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}
	return &Rope{root: build([]rune(text), cfg), cfg: cfg}, nil
}

// FromReader creates a rope from everything r yields.
func FromReader(r io.Reader, opts ...Option) (*Rope, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("rope: read: %w", err)
	}
	return FromString(string(data), opts...)
}

// Config returns the rope's configuration.
func (r *Rope) Config() Config {
	return *r.cfg
}

// Len returns the number of symbols in the rope.
func (r *Rope) Len() int {
	return r.root.length.Count
}

// LineCount returns the number of lines. Text ending in a newline has an
// empty last line, and the empty rope has one line.
func (r *Rope) LineCount() int {
	return r.root.length.Lines
}

// Length returns the full length descriptor of the whole text.
func (r *Rope) Length() Position {
	return r.root.length
}

// Root returns the root of the tree for inspection. The tree must not be
// modified through it.
func (r *Rope) Root() *Node {
	return r.root
}

// Height returns the height of the tree; a single leaf has height 1.
func (r *Rope) Height() int {
	return r.root.height
}

// LeafCount returns the number of leaves.
func (r *Rope) LeafCount() int {
	count := 0
	for range r.Leaves() {
		count++
	}
	return count
}

// String returns the whole text.
func (r *Rope) String() string {
	return r.root.String()
}

// Leaves iterates over the text of every leaf in order.
func (r *Rope) Leaves() iter.Seq[string] {
	return func(yield func(string) bool) {
		for leaf := r.root.firstLeaf(); leaf != nil; leaf = leaf.nextLeaf() {
			if !yield(string(leaf.text)) {
				return
			}
		}
	}
}

// Resolve returns the full document-absolute form of pos.
func (r *Rope) Resolve(pos Position) (Position, error) {
	leaf, rel, _, err := r.root.locate(pos)
	if err != nil {
		return Position{}, err
	}
	return leaf.absolute(rel), nil
}

// index returns the absolute offset of the point pos.
func (r *Rope) index(pos Position) (int, error) {
	if pos.HasCount() {
		if pos.Count < 0 || pos.Count > r.Len() {
			return 0, &RangeError{Op: "index", Pos: pos, Len: r.Len()}
		}
		return pos.Count, nil
	}
	p, err := r.Resolve(pos)
	if err != nil {
		return 0, err
	}
	return p.Count, nil
}

// symbol returns the absolute offset of the symbol at pos, which unlike
// index excludes the end of the text.
func (r *Rope) symbol(op string, pos Position) (int, error) {
	i, err := r.index(pos)
	if err != nil {
		return 0, err
	}
	if i >= r.Len() {
		return 0, &RangeError{Op: op, Pos: pos, Len: r.Len()}
	}
	return i, nil
}

// Insert inserts text at pos.
func (r *Rope) Insert(pos Position, text string) error {
	leaf, rel, _, err := r.root.locate(pos)
	if err != nil {
		return err
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	if len(runes) < r.cfg.SplitLength {
		leaf.text = slices.Insert(leaf.text, rel.Count, runes...)
		leaf.recalculate()
		leaf.propagate()
		r.root = leaf.adjust()
		return nil
	}

	i := leaf.absolute(rel).Count
	left, right := splitAt(r.root, i)
	r.root = join(join(left, build(runes, r.cfg)), right)
	r.adjustAround(i)
	r.adjustAround(i + len(runes))
	return nil
}

// Remove deletes the symbols from start through end.
func (r *Rope) Remove(start, end Position) error {
	a, err := r.symbol("remove", start)
	if err != nil {
		return err
	}
	b, err := r.symbol("remove", end)
	if err != nil {
		return err
	}
	if b < a {
		return fmt.Errorf("%w: remove %v through %v", ErrInvalidRange, start, end)
	}

	leaf, rel, _, err := r.root.locate(Offset(a))
	if err != nil {
		return err
	}
	if s, e := rel.Count, rel.Count+b-a; e < len(leaf.text) {
		leaf.text = slices.Delete(leaf.text, s, e+1)
		if len(leaf.text) == 0 && leaf.parent != nil {
			r.root = leaf.unlink()
			return nil
		}
		leaf.recalculate()
		r.root = leaf.propagate()
		if leaf.parent != nil {
			r.root = leaf.parent.adjust()
		}
		return nil
	}

	left, rest := splitAt(r.root, a)
	_, right := splitAt(rest, b-a+1)
	r.root = orEmpty(join(left, right), r.cfg)
	r.adjustAround(a)
	return nil
}

// Replace replaces the symbols from start through end with text.
func (r *Rope) Replace(start, end Position, text string) error {
	a, err := r.symbol("replace", start)
	if err != nil {
		return err
	}
	if err := r.Remove(start, end); err != nil {
		return err
	}
	return r.Insert(Offset(a), text)
}

// Substr returns the text from start through end.
//
// A start outside the text yields the empty string. An end past the text is
// clamped to the last symbol, and a column past the end of its line is
// clamped to the end of that line.
func (r *Rope) Substr(start, end Position) (string, error) {
	a, b, ok, err := r.span(start, end)
	if err != nil || !ok {
		return "", err
	}
	return r.slice(a, b+1), nil
}

// span resolves an inclusive range for reading. ok is false when the range
// selects nothing.
func (r *Rope) span(start, end Position) (a, b int, ok bool, err error) {
	n := r.Len()
	a, err = r.index(start)
	if errors.Is(err, ErrOutOfRange) {
		return 0, 0, false, nil
	}
	if err != nil || a >= n {
		return 0, 0, false, err
	}

	switch {
	case end.HasCount():
		if end.Count < 0 {
			return 0, 0, false, nil
		}
		b = min(end.Count, n-1)
	case end.HasLineColumn():
		line := end.Line()
		if line < 0 {
			return 0, 0, false, nil
		}
		if line >= r.LineCount() {
			b = n - 1
			break
		}
		b, err = r.index(Point(line, max(0, min(end.Column, r.LineLength(line)))))
		if err != nil {
			return 0, 0, false, err
		}
		b = min(b, n-1)
	default:
		return 0, 0, false, ErrInsufficientInfo
	}
	return a, b, b >= a, nil
}

// slice returns the symbols in [a, b).
func (r *Rope) slice(a, b int) string {
	if a >= b {
		return ""
	}
	leaf, rel, _, err := r.root.locate(Offset(a))
	if err != nil {
		panic(fmt.Sprintf("rope: slice of located offset %d: %v", a, err))
	}

	var sb strings.Builder
	sb.Grow(b - a)
	remaining := b - a
	for i := rel.Count; leaf != nil && remaining > 0; leaf, i = leaf.nextLeaf(), 0 {
		take := min(len(leaf.text)-i, remaining)
		writeRunes(&sb, leaf.text[i:i+take])
		remaining -= take
	}
	return sb.String()
}

// LineLength returns the number of symbols on the zero-based line, not
// counting its newline. Lines outside the text have length 0. Line 1 is
// the second line, so for "ab\ncd\n" LineLength(1) is 2 from "cd".
//
// Line indices here match the lines of Point rather than one-based editor
// line numbers.
func (r *Rope) LineLength(line int) int {
	start, end, ok := r.lineBounds(line)
	if !ok {
		return 0
	}
	return end - start
}

// LineText returns the zero-based line without its newline.
func (r *Rope) LineText(line int) string {
	start, end, ok := r.lineBounds(line)
	if !ok {
		return ""
	}
	return r.slice(start, end)
}

// lineBounds returns the offsets of the first symbol of line and of its
// terminating newline, or of the end of the text for the last line.
func (r *Rope) lineBounds(line int) (start, end int, ok bool) {
	if line < 0 || line >= r.LineCount() {
		return 0, 0, false
	}
	start, err := r.index(Point(line, 0))
	if err != nil {
		return 0, 0, false
	}
	if line == r.LineCount()-1 {
		return start, r.Len(), true
	}
	next, err := r.index(Point(line+1, 0))
	if err != nil {
		return 0, 0, false
	}
	return start, next - 1, true
}

// State returns the lexer state entering pos.
func (r *Rope) State(pos Position) (lexer.State, error) {
	leaf, rel, in, err := r.root.locate(pos)
	if err != nil {
		return lexer.StateNormal, err
	}
	return r.cfg.Lexer.LastState(string(leaf.text[:rel.Count]), in), nil
}

// Lexemes tokenizes the text from start through end, starting from the
// lexer state the text before start leaves behind. Token offsets are
// absolute. The range is bounded like Substr; a start outside the text
// yields no tokens.
func (r *Rope) Lexemes(start, end Position) (iter.Seq[lexer.Token], error) {
	a, b, ok, err := r.span(start, end)
	if err != nil {
		return nil, err
	}
	if !ok {
		return func(func(lexer.Token) bool) {}, nil
	}

	in, err := r.State(Offset(a))
	if err != nil {
		return nil, err
	}
	tokens := r.cfg.Lexer.Lexemes(r.slice(a, b+1), in)
	return func(yield func(lexer.Token) bool) {
		for tok := range tokens {
			if !yield(tok.Shift(a)) {
				return
			}
		}
	}, nil
}

// Split cuts the rope at pos. The receiver keeps the text before pos and
// the returned rope holds the rest, sharing the receiver's configuration.
func (r *Rope) Split(pos Position) (*Rope, error) {
	i, err := r.index(pos)
	if err != nil {
		return nil, err
	}
	left, right := splitAt(r.root, i)
	r.root = orEmpty(left, r.cfg)
	tail := &Rope{root: orEmpty(right, r.cfg), cfg: r.cfg}
	r.adjustAround(i)
	tail.adjustAround(0)
	return tail, nil
}

// Append moves the text of other to the end of r, leaving other empty.
// Appending a rope to itself doubles its text.
func (r *Rope) Append(other *Rope) {
	if other == nil || other.Len() == 0 {
		return
	}

	var piece *Node
	switch {
	case other == r:
		piece = build([]rune(r.String()), r.cfg)
	case other.cfg != r.cfg:
		piece = build([]rune(other.String()), r.cfg)
		other.root = newLeaf(nil, other.cfg)
	default:
		piece = other.root
		other.root = newLeaf(nil, other.cfg)
	}

	i := r.Len()
	if i == 0 {
		r.root = piece
		return
	}
	r.root = r.root.append(piece)
	r.adjustAround(i)
}

// Dot returns a Graphviz description of the tree.
func (r *Rope) Dot() string {
	var sb strings.Builder
	sb.WriteString("digraph rope {\n")
	r.root.writeDot(&sb, "o")
	sb.WriteString("}\n")
	return sb.String()
}

// Validate audits the whole tree: parent links, heights, AVL balance,
// stored lengths and tables, and leaf sizes. It returns an *InvariantError
// describing the first violation found.
func (r *Rope) Validate() error {
	return r.root.validate("o", true)
}

// CheckJoinBound reports a pair of sibling leaves that together hold fewer
// symbols than the join length. Edits only merge leaves next to the edit,
// so this holds after construction but is not maintained everywhere:
// adjustAround repairs the leaves on either side of the edited boundary
// and nothing else, so rotations can still leave two short leaves as
// siblings elsewhere.
func (r *Rope) CheckJoinBound() error {
	return r.root.checkJoinBound("o")
}

// adjustAround runs leaf maintenance next to the boundary before offset i.
func (r *Rope) adjustAround(i int) {
	n := r.Len()
	for _, j := range []int{i - 1, i} {
		if j < 0 || j >= n {
			continue
		}
		leaf, _, _, err := r.root.locate(Offset(j))
		if err != nil || leaf.parent == nil {
			continue
		}
		r.root = leaf.parent.adjust()
	}
}

// splitAt divides the detached tree n at i, clamping i to the text. Either
// result may be nil.
func splitAt(n *Node, i int) (left, right *Node) {
	switch {
	case n == nil || n.length.Count == 0:
		return nil, nil
	case i <= 0:
		return nil, n
	case i >= n.length.Count:
		return n, nil
	}
	left, right, err := n.split(i)
	if err != nil {
		panic(err)
	}
	return left, right
}

func orEmpty(n *Node, cfg *Config) *Node {
	if n == nil {
		return newLeaf(nil, cfg)
	}
	return n
}
