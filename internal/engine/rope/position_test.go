package rope

import (
	"errors"
	"strings"
	"testing"
	"testing/quick"
)

func TestPositionOf(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Position
	}{
		{"empty", "", Full(0, 1, 0)},
		{"single line", "hello", Full(5, 1, 5)},
		{"trailing newline", "ab\n", Full(3, 2, 0)},
		{"two lines", "ab\ncd", Full(5, 2, 2)},
		{"only newlines", "\n\n\n", Full(3, 4, 0)},
		{"unicode", "héllo\n世界", Full(8, 2, 2)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PositionOf(tt.text)
			if !got.IsFull() || !got.Equal(tt.want) {
				t.Errorf("PositionOf(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestPositionConstructors(t *testing.T) {
	off := Offset(7)
	if !off.HasCount() || off.HasLineColumn() {
		t.Errorf("Offset(7) carries %v", off)
	}

	pt := Point(2, 3)
	if pt.HasCount() || !pt.HasLineColumn() {
		t.Errorf("Point(2, 3) carries %v", pt)
	}
	if pt.Line() != 2 || pt.Column != 3 {
		t.Errorf("Point(2, 3) line/column = %d/%d", pt.Line(), pt.Column)
	}

	var zero Position
	if zero.HasCount() || zero.HasLineColumn() {
		t.Error("zero Position should carry nothing")
	}
}

func TestPositionConcatSplit(t *testing.T) {
	f := func(a, b string) bool {
		pa, pb := PositionOf(a), PositionOf(b)
		whole := pa.Concat(pb)
		if !whole.Equal(PositionOf(a + b)) {
			return false
		}
		head, tail := whole.Split(pa)
		return head.Equal(pa) && tail.Equal(pb)
	}
	if err := quick.Check(f, nil); err != nil {
		t.Error(err)
	}
}

func TestPositionConcatPartial(t *testing.T) {
	got := Offset(3).Concat(Full(2, 1, 2))
	if !got.HasCount() || got.HasLineColumn() || got.Count != 5 {
		t.Errorf("Offset(3).Concat = %v, want count 5 only", got)
	}

	got = Point(1, 4).Concat(PositionOf("xy"))
	if got.HasCount() || got.Line() != 1 || got.Column != 6 {
		t.Errorf("Point(1, 4).Concat = %v, want line 1 column 6", got)
	}

	got = Point(1, 4).Concat(PositionOf("x\nyz"))
	if got.Line() != 2 || got.Column != 2 {
		t.Errorf("Point(1, 4).Concat across newline = %v, want line 2 column 2", got)
	}
}

func TestPositionCompare(t *testing.T) {
	tests := []struct {
		name string
		p, q Position
		want int
	}{
		{"offsets less", Offset(1), Offset(2), -1},
		{"offsets equal", Offset(2), Offset(2), 0},
		{"offsets greater", Offset(3), Offset(2), 1},
		{"lines decide", Point(0, 9), Point(1, 0), -1},
		{"columns decide", Point(1, 2), Point(1, 1), 1},
		{"count wins when shared", Full(4, 1, 4), Full(4, 2, 0), 0},
		{"falls back to line column", Full(4, 2, 1), Point(1, 1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.p.Compare(tt.q)
			if err != nil {
				t.Fatalf("Compare: %v", err)
			}
			if got != tt.want {
				t.Errorf("Compare(%v, %v) = %d, want %d", tt.p, tt.q, got, tt.want)
			}
		})
	}

	if _, err := Offset(1).Compare(Point(0, 1)); !errors.Is(err, ErrInsufficientInfo) {
		t.Errorf("Compare without shared representation: err = %v, want ErrInsufficientInfo", err)
	}
	if _, err := Offset(1).Less(Position{}); !errors.Is(err, ErrInsufficientInfo) {
		t.Errorf("Less with empty position: err = %v, want ErrInsufficientInfo", err)
	}
}

func TestPositionEqual(t *testing.T) {
	if !Offset(3).Equal(Full(3, 2, 0)) {
		t.Error("Offset(3) should equal Full(3, 2, 0) on the shared count")
	}
	if Offset(3).Equal(Point(1, 0)) {
		t.Error("positions without a shared representation should not be equal")
	}
	if Full(3, 2, 0).Equal(Full(3, 1, 3)) {
		t.Error("positions disagreeing on line should not be equal")
	}
}

func TestPositionResolve(t *testing.T) {
	text := []rune("ab\ncd")

	tests := []struct {
		name string
		pos  Position
		want Position
	}{
		{"start", Offset(0), Full(0, 1, 0)},
		{"before newline", Offset(2), Full(2, 1, 2)},
		{"after newline", Offset(3), Full(3, 2, 0)},
		{"end", Offset(5), Full(5, 2, 2)},
		{"point start", Point(0, 0), Full(0, 1, 0)},
		{"point at newline", Point(0, 2), Full(2, 1, 2)},
		{"point second line", Point(1, 1), Full(4, 2, 1)},
		{"point at end", Point(1, 2), Full(5, 2, 2)},
		{"already full", Full(4, 2, 1), Full(4, 2, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.pos.Resolve(text)
			if err != nil {
				t.Fatalf("Resolve: %v", err)
			}
			if !got.IsFull() || !got.Equal(tt.want) {
				t.Errorf("Resolve(%v) = %v, want %v", tt.pos, got, tt.want)
			}
		})
	}
}

func TestPositionResolveErrors(t *testing.T) {
	text := []rune("ab\ncd")

	for _, pos := range []Position{Offset(-1), Offset(6), Point(0, 3), Point(1, 3), Point(2, 0), Point(-1, 0)} {
		_, err := pos.Resolve(text)
		var rerr *RangeError
		if !errors.As(err, &rerr) || !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%v): err = %v, want *RangeError", pos, err)
		}
	}

	if _, err := (Position{}).Resolve(text); !errors.Is(err, ErrInsufficientInfo) {
		t.Errorf("Resolve(empty): err = %v, want ErrInsufficientInfo", err)
	}
}

func TestPositionString(t *testing.T) {
	if got := Offset(4).String(); !strings.Contains(got, "count=4") || !strings.Contains(got, "lines=?") {
		t.Errorf("Offset(4).String() = %q", got)
	}
	if got := Point(0, 2).String(); !strings.Contains(got, "count=?") || !strings.Contains(got, "column=2") {
		t.Errorf("Point(0, 2).String() = %q", got)
	}
}
