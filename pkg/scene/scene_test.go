package scene

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/crystal/pkg/errors"
	"github.com/matzehuels/crystal/pkg/layout"
)

func TestReadFile(t *testing.T) {
	for _, name := range []string{"sidebar.toml", "sidebar.json"} {
		t.Run(name, func(t *testing.T) {
			s, err := ReadFile(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("ReadFile: %v", err)
			}
			if s.Name != "sidebar" {
				t.Errorf("Name = %q, want sidebar", s.Name)
			}
			if s.Window == nil || s.Window.Width != 800 || s.Window.Height != 600 {
				t.Errorf("Window = %+v, want 800x600", s.Window)
			}
			root := s.Root
			if root.Kind != KindHorizontal || root.Spacing != 8 {
				t.Errorf("root = %s spacing %d, want horizontal spacing 8", root.Kind, root.Spacing)
			}
			if root.Padding.Padding != layout.PaddingAll(16) {
				t.Errorf("root padding = %+v, want 16 on every side", root.Padding.Padding)
			}
			if got := root.Intrinsic(); got != layout.FlexSize(1) {
				t.Errorf("root sizing = %+v, want flex", got)
			}
			if len(root.Children) != 2 {
				t.Fatalf("children = %d, want 2", len(root.Children))
			}
			nav := root.Children[0]
			if want := (layout.IntrinsicSize{Width: layout.Fixed(200), Height: layout.Flex(1)}); nav.Intrinsic() != want {
				t.Errorf("nav sizing = %+v, want %+v", nav.Intrinsic(), want)
			}
			if nav.Label != "Navigation" {
				t.Errorf("nav label = %q", nav.Label)
			}
			if got := root.Children[1].Intrinsic(); got != layout.FlexSize(3) {
				t.Errorf("content sizing = %+v, want flex(3)", got)
			}
		})
	}
}

func TestTOMLAndJSONHashTheSame(t *testing.T) {
	a, err := ReadFile("testdata/sidebar.toml")
	if err != nil {
		t.Fatal(err)
	}
	b, err := ReadFile("testdata/sidebar.json")
	if err != nil {
		t.Fatal(err)
	}
	if Hash(a) != Hash(b) {
		t.Error("equivalent TOML and JSON documents hash differently")
	}

	b.Root.Children[1].Size = NewSizing(layout.Flex(2))
	if Hash(a) == Hash(b) {
		t.Error("hash did not change with the tree")
	}
}

func TestHashIgnoresNameAndWindow(t *testing.T) {
	a, _ := ReadFile("testdata/sidebar.toml")
	b, _ := ReadFile("testdata/sidebar.toml")
	b.Name = "other"
	b.Window = &Window{Width: 1, Height: 1}
	if Hash(a) != Hash(b) {
		t.Error("name and window should not affect the hash")
	}
}

func TestReadFileErrors(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "missing.toml"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file: code = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}

	_, err = ReadFile("scene.yaml")
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("yaml: code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidFormat)
	}
}

func TestParseRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name   string
		format Format
		input  string
	}{
		{"toml", FormatTOML, "[root]\nkind = \"empty\"\ncolour = \"red\"\n"},
		{"json", FormatJSON, `{"root": {"kind": "empty", "colour": "red"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input), tt.format)
			if !errors.Is(err, errors.ErrCodeInvalidScene) {
				t.Errorf("code = %v, want %v (err %v)", errors.GetCode(err), errors.ErrCodeInvalidScene, err)
			}
		})
	}
}

func TestParseSizingForms(t *testing.T) {
	input := `
[root]
kind = "horizontal"

[[root.children]]
kind = "empty"
width = 12.5
height = "fixed(3)"

[[root.children]]
kind = "empty"
size = "shrink"

[[root.children]]
kind = "empty"
width = "flex(7)"
`
	s, err := Parse([]byte(input), FormatTOML)
	if err != nil {
		t.Fatal(err)
	}
	want := []layout.IntrinsicSize{
		{Width: layout.Fixed(12.5), Height: layout.Fixed(3)},
		layout.ShrinkSize(),
		{Width: layout.Flex(7), Height: layout.Shrink()},
	}
	for i, w := range want {
		if got := s.Root.Children[i].Intrinsic(); got != w {
			t.Errorf("child %d sizing = %+v, want %+v", i, got, w)
		}
	}
}

func TestValidate(t *testing.T) {
	empty := func(id string) Node { return Node{ID: id, Kind: KindEmpty} }
	tests := []struct {
		name  string
		scene Scene
		code  errors.Code
	}{
		{"minimal", Scene{Root: Node{Kind: KindEmpty}}, ""},
		{"unknown kind", Scene{Root: Node{Kind: "grid"}}, errors.ErrCodeInvalidScene},
		{"missing kind", Scene{Root: Node{}}, errors.ErrCodeInvalidScene},
		{"empty with child", Scene{Root: Node{Kind: KindEmpty, Children: []Node{empty("a")}}}, errors.ErrCodeInvalidScene},
		{"block without child", Scene{Root: Node{Kind: KindBlock}}, errors.ErrCodeInvalidScene},
		{"block with two children", Scene{Root: Node{Kind: KindBlock, Children: []Node{empty("a"), empty("b")}}}, errors.ErrCodeInvalidScene},
		{"duplicate id", Scene{Root: Node{Kind: KindHorizontal, Children: []Node{empty("a"), empty("a")}}}, errors.ErrCodeInvalidScene},
		{"bad id", Scene{Root: empty("a b")}, errors.ErrCodeInvalidScene},
		{"flex zero", Scene{Root: Node{Kind: KindEmpty, Width: NewSizing(layout.Flex(0))}}, errors.ErrCodeInvalidSizing},
		{"bad alignment", Scene{Root: Node{Kind: KindBlock, MainAlign: "middle", Children: []Node{empty("a")}}}, errors.ErrCodeInvalidScene},
		{"padding on empty", Scene{Root: Node{Kind: KindEmpty, Padding: Padding{layout.PaddingAll(1)}}}, errors.ErrCodeInvalidScene},
		{"spacing on block", Scene{Root: Node{Kind: KindBlock, Spacing: 4, Children: []Node{empty("a")}}}, errors.ErrCodeInvalidScene},
		{"scroll on horizontal", Scene{Root: Node{Kind: KindHorizontal, Scroll: -10}}, errors.ErrCodeInvalidScene},
		{"scroll on vertical", Scene{Root: Node{Kind: KindVertical, Scroll: -10}}, ""},
		{"bad window", Scene{Window: &Window{Width: 0, Height: 10}, Root: empty("a")}, errors.ErrCodeInvalidWindow},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.scene.Validate()
			if tt.code == "" {
				if err != nil {
					t.Errorf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("Validate() code = %v, want %v (err %v)", errors.GetCode(err), tt.code, err)
			}
		})
	}
}

func TestValidateDepthLimit(t *testing.T) {
	root := Node{Kind: KindEmpty}
	for range MaxDepth + 1 {
		root = Node{Kind: KindBlock, Children: []Node{root}}
	}
	s := Scene{Root: root}
	if err := s.Validate(); err == nil || !strings.Contains(err.Error(), "nesting") {
		t.Errorf("Validate() = %v, want nesting error", err)
	}
}

func TestParsePadding(t *testing.T) {
	tests := []struct {
		input   string
		want    layout.Padding
		wantErr bool
	}{
		{"", layout.Padding{}, false},
		{"24", layout.PaddingAll(24), false},
		{"8 16", layout.PaddingSymmetric(8, 16), false},
		{"1 2 3", layout.PaddingTRBL(1, 2, 3, 2), false},
		{"1 2 3 4", layout.PaddingTRBL(1, 2, 3, 4), false},
		{"1 2 3 4 5", layout.Padding{}, true},
		{"-1", layout.Padding{}, true},
		{"wide", layout.Padding{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePadding(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePadding(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePadding(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPaddingMarshalTextIsShortest(t *testing.T) {
	tests := []struct {
		in   layout.Padding
		want string
	}{
		{layout.PaddingAll(4), "4"},
		{layout.PaddingSymmetric(8, 16), "8 16"},
		{layout.PaddingTRBL(1, 2, 3, 2), "1 2 3"},
		{layout.PaddingTRBL(1, 2, 3, 4), "1 2 3 4"},
		{layout.PaddingAll(0.5), "0.5"},
	}
	for _, tt := range tests {
		got, err := Padding{tt.in}.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tt.want {
			t.Errorf("MarshalText(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMarshalReparses(t *testing.T) {
	s, err := ReadFile("testdata/sidebar.toml")
	if err != nil {
		t.Fatal(err)
	}
	for _, format := range []Format{FormatTOML, FormatJSON} {
		data, err := Marshal(s, format)
		if err != nil {
			t.Fatalf("Marshal(%s): %v", format, err)
		}
		back, err := Parse(data, format)
		if err != nil {
			t.Fatalf("Parse(%s): %v\n%s", format, err, data)
		}
		if Hash(back) != Hash(s) {
			t.Errorf("%s: tree changed after marshal:\n%s", format, data)
		}
	}
}
