package markup

import (
	"errors"
	"strings"
	"testing"
)

func TestColumnDropsNilChildren(t *testing.T) {
	var missing *Node
	n := Column(Style{}, Text("a", Style{}), missing, Text("b", Style{}))
	if len(n.Children) != 2 {
		t.Fatalf("children = %d, want 2", len(n.Children))
	}
	if n.Style.Direction != DirectionColumn {
		t.Errorf("Direction = %v, want column", n.Style.Direction)
	}
	if r := Row(Style{}); r.Style.Direction != DirectionRow {
		t.Errorf("Row Direction = %v, want row", r.Style.Direction)
	}
}

func TestFindByRole(t *testing.T) {
	tree := Column(Style{},
		Row(Style{},
			Text("Jan 2, 2024", Style{}).As(RoleDate),
			Text("Hello", Style{}).As(RoleTitle),
		),
		Text("Ann", Style{}).As(RoleAuthor),
	).As(RoleRoot)

	if got := len(FindAll(tree, RoleTitle)); got != 1 {
		t.Errorf("titles = %d, want 1", got)
	}
	if n := Find(tree, RoleAuthor); n == nil || n.Text != "Ann" {
		t.Errorf("Find(author) = %+v, want text Ann", n)
	}
	if n := Find(tree, RoleAvatar); n != nil {
		t.Errorf("Find(avatar) = %+v, want nil", n)
	}
	if n := Find(tree, RoleRoot); n != tree {
		t.Error("Find(root) did not return the root")
	}
}

func TestWalkSkipsChildren(t *testing.T) {
	tree := Column(Style{}, Column(Style{}, Text("deep", Style{})).As(RolePanel))
	var visited int
	Walk(tree, func(n *Node) bool {
		visited++
		return n.Role != RolePanel
	})
	if visited != 2 {
		t.Errorf("visited = %d, want 2", visited)
	}
}

func TestHTML(t *testing.T) {
	tree := Column(Style{Padding: All(48), Background: "#000"},
		Text("<Go> & you", Style{FontSize: 96, TextAlign: TextAlignCenter}).As(RoleTitle),
		Image("data:image/jpeg;base64,AA==", Style{Width: Pct(100)}),
	)
	got := HTML(tree)

	for _, want := range []string{
		`<div style="display: flex; flex-direction: column; background-color: #000; padding: 48px;">`,
		`<h1 style="display: flex; flex-direction: column; font-size: 96px; text-align: center;">&lt;Go&gt; &amp; you</h1>`,
		`<img style="display: flex; flex-direction: column; width: 100%;" src="data:image/jpeg;base64,AA==" />`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("HTML missing %q\ngot: %s", want, got)
		}
	}
	if !strings.HasSuffix(got, "</div>") {
		t.Errorf("HTML should close the root div, got %s", got)
	}
}

func TestStyleCSS(t *testing.T) {
	tests := []struct {
		name  string
		style Style
		want  string
	}{
		{"empty row", Style{Direction: DirectionRow}, "display: flex;"},
		{"symmetric margin", Style{Direction: DirectionRow, Margin: Symmetric(56, 0)}, "display: flex; margin: 56px 0px;"},
		{"border", Style{Direction: DirectionRow, Border: Border{Width: 12, Radius: Px(80), Color: "#3b82f633"}},
			"display: flex; border-width: 12px; border-radius: 80px; border-color: #3b82f633;"},
		{"flex centered", Style{Direction: DirectionRow, Flex: 1, Justify: AlignCenter, Align: AlignCenter},
			"display: flex; flex: 1; justify-content: center; align-items: center;"},
		{"percent width", Style{Direction: DirectionRow, Width: Pct(33.33)}, "display: flex; width: 33.33%;"},
		{"line height", Style{Direction: DirectionRow, LineHeight: 1.2}, "display: flex; line-height: 1.2;"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.style.CSS(); got != tt.want {
				t.Errorf("CSS() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLengthResolve(t *testing.T) {
	if got := Pct(50).Resolve(200); got != 100 {
		t.Errorf("Pct(50).Resolve(200) = %v, want 100", got)
	}
	if got := Px(12).Resolve(200); got != 12 {
		t.Errorf("Px(12).Resolve(200) = %v, want 12", got)
	}
	if !(Length{}).IsAuto() {
		t.Error("zero Length should be auto")
	}
	if Pct(0).IsAuto() {
		t.Error("Pct(0) should not be auto")
	}
}

func TestParseDataURI(t *testing.T) {
	uri := DataURI("image/jpeg", []byte{0xff, 0xd8, 0xff})
	if uri != "data:image/jpeg;base64,/9j/" {
		t.Fatalf("DataURI = %q", uri)
	}
	mt, data, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if mt != "image/jpeg" || len(data) != 3 || data[0] != 0xff {
		t.Errorf("ParseDataURI = %q, %v", mt, data)
	}

	for _, bad := range []string{
		"",
		"http://example.com/a.jpg",
		"data:image/jpeg;base64",
		"data:image/jpeg,plain",
		"data:image/jpeg;base64,***",
	} {
		if _, _, err := ParseDataURI(bad); !errors.Is(err, ErrInvalidDataURI) {
			t.Errorf("ParseDataURI(%q) error = %v, want ErrInvalidDataURI", bad, err)
		}
	}
}
