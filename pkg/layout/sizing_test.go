package layout

import (
	"strings"
	"testing"
)

func TestParseBoxSizing(t *testing.T) {
	tests := []struct {
		in      string
		want    BoxSizing
		wantErr bool
	}{
		{"", Shrink(), false},
		{"shrink", Shrink(), false},
		{"flex", Flex(1), false},
		{"Flex(3)", Flex(3), false},
		{"flex(0)", Flex(0), false},
		{"flex(256)", BoxSizing{}, true},
		{"fixed(200)", Fixed(200), false},
		{"fixed( 12.5 )", Fixed(12.5), false},
		{"48", Fixed(48), false},
		{"-1", BoxSizing{}, true},
		{"wide", BoxSizing{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseBoxSizing(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBoxSizingStringParses(t *testing.T) {
	for _, s := range []BoxSizing{Shrink(), Flex(7), Fixed(120), Fixed(0.5)} {
		got, err := ParseBoxSizing(s.String())
		if err != nil || got != s {
			t.Errorf("ParseBoxSizing(%q) = %v, %v", s.String(), got, err)
		}
	}
}

func TestPadding(t *testing.T) {
	p := PaddingTRBL(1, 2, 3, 4)
	if p.Horizontal() != 6 || p.Vertical() != 4 {
		t.Errorf("Horizontal/Vertical = %v/%v", p.Horizontal(), p.Vertical())
	}
	if got := p.Total(); got != (Size{6, 4}) {
		t.Errorf("Total = %v", got)
	}
	if s := PaddingSymmetric(5, 10); s.Top != 5 || s.Left != 10 {
		t.Errorf("PaddingSymmetric = %+v", s)
	}
	if !(Padding{}).IsZero() || PaddingAll(1).IsZero() {
		t.Error("IsZero mismatch")
	}
}

func TestParseAxisAlignment(t *testing.T) {
	for in, want := range map[string]AxisAlignment{"": AlignStart, "start": AlignStart, "CENTER": AlignCenter, "end": AlignEnd} {
		got, err := ParseAxisAlignment(in)
		if err != nil || got != want {
			t.Errorf("ParseAxisAlignment(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseAxisAlignment("middle"); err == nil {
		t.Error("expected error for unknown alignment")
	}
}

func TestSizeArithmetic(t *testing.T) {
	a := Size{10, 20}
	if got := a.Add(Uniform(1)); got != (Size{11, 21}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Div(Size{2, 0}); got != (Size{5, 0}) {
		t.Errorf("Div by zero component = %v, want {5 0}", got)
	}
	if got := a.DivScalar(0); got != (Size{}) {
		t.Errorf("DivScalar(0) = %v", got)
	}
	if got := a.Scale(2).SubScalar(5); got != (Size{15, 35}) {
		t.Errorf("Scale/SubScalar = %v", got)
	}
	if got := (Position{1, 2}).Add(Position{3, 4}); got != (Position{4, 6}) {
		t.Errorf("Position.Add = %v", got)
	}
}

func TestSequence(t *testing.T) {
	seq := NewSequence("w")
	if a, b := seq.NewID(), seq.NewID(); a != "w-1" || b != "w-2" {
		t.Errorf("ids = %s, %s", a, b)
	}
	if id := NewSequence("").NewID(); id != "1" {
		t.Errorf("unprefixed id = %s", id)
	}

	gen := UUIDs()
	a, b := gen.NewID(), gen.NewID()
	if a == b || len(a) != 36 || strings.Count(string(a), "-") != 4 {
		t.Errorf("uuid ids = %s, %s", a, b)
	}
}

func TestLayoutErrorMessages(t *testing.T) {
	if got := Overflow("n", CrossAxis).Error(); !strings.Contains(got, "cross") {
		t.Errorf("overflow message = %q", got)
	}
	if got := OutOfBounds("p", "c").Error(); !strings.Contains(got, `"c"`) {
		t.Errorf("out of bounds message = %q", got)
	}
}
