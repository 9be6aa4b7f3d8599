package layout

import (
	"context"
	"errors"
	"strings"
	"testing"

	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/sfnt"

	"github.com/eringen/ogcards/markup"
)

func testOptions() Options {
	return Options{
		Width:  1200,
		Height: 630,
		Fonts:  []Font{{Name: "Go Mono", Data: gomono.TTF, Weight: 400, Style: "normal"}},
	}
}

func testLayouter(t *testing.T) *layouter {
	t.Helper()
	f, err := sfnt.Parse(gomono.TTF)
	if err != nil {
		t.Fatalf("parse font: %v", err)
	}
	return &layouter{ctx: context.Background(), shaper: &shaper{font: f}}
}

func TestLayoutErrors(t *testing.T) {
	root := markup.Column(markup.Style{})
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name string
		ctx  context.Context
		opts func(*Options)
		want error
	}{
		{"no font", context.Background(), func(o *Options) { o.Fonts = nil }, ErrNoFont},
		{"zero width", context.Background(), func(o *Options) { o.Width = 0 }, ErrInvalidSize},
		{"negative height", context.Background(), func(o *Options) { o.Height = -1 }, ErrInvalidSize},
		{"canceled", canceled, func(o *Options) {}, context.Canceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions()
			tt.opts(&opts)
			_, err := New().Layout(tt.ctx, root, opts)
			if !errors.Is(err, tt.want) {
				t.Errorf("Layout() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestLayoutBadFont(t *testing.T) {
	opts := testOptions()
	opts.Fonts[0].Data = []byte("not a font")
	if _, err := New().Layout(context.Background(), markup.Column(markup.Style{}), opts); err == nil {
		t.Fatal("Layout() with garbage font should fail")
	}
}

func TestLayoutBadImage(t *testing.T) {
	root := markup.Column(markup.Style{}, markup.Image("data:image/jpeg;base64,AAAA", markup.Style{}))
	_, err := New().Layout(context.Background(), root, testOptions())
	if !errors.Is(err, ErrImage) {
		t.Errorf("Layout() error = %v, want ErrImage", err)
	}
}

func TestLayoutCanvas(t *testing.T) {
	root := markup.Column(markup.Style{Background: "#112233", Color: "#ffffff"},
		markup.Text("Hello", markup.Style{FontSize: 48}),
	)
	svg, err := New().Layout(context.Background(), root, testOptions())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	head := `<svg xmlns="http://www.w3.org/2000/svg" width="1200" height="630" viewBox="0 0 1200 630">`
	if !strings.HasPrefix(svg, head) {
		t.Errorf("svg prefix = %.100q, want %q", svg, head)
	}
	if !strings.HasSuffix(svg, "</svg>") {
		t.Error("svg is not closed")
	}
	if !strings.Contains(svg, `<rect x="0" y="0" width="1200" height="630" fill="#112233"/>`) {
		t.Errorf("missing background rect in %.300s", svg)
	}
	if !strings.Contains(svg, `<path d="M`) || !strings.Contains(svg, `fill="#ffffff"`) {
		t.Error("text should be emitted as a filled path")
	}
	if strings.Contains(svg, "<text") {
		t.Error("svg should not depend on font support")
	}
}

func TestLayoutTranslucentBorder(t *testing.T) {
	root := markup.Column(markup.Style{},
		markup.Row(markup.Style{
			Width:   markup.Px(400),
			Height:  markup.Px(200),
			Padding: markup.All(32),
			Border:  markup.Border{Width: 12, Radius: markup.Px(80), Color: "#3b82f633"},
		}),
	)
	svg, err := New().Layout(context.Background(), root, testOptions())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if !strings.Contains(svg, `stroke="#3b82f6" stroke-opacity="0.2000" stroke-width="12"`) {
		t.Errorf("border stroke not split into color and opacity: %s", svg)
	}
	if !strings.Contains(svg, `rx="74" ry="74"`) {
		t.Errorf("border radius should be inset by half the border width: %s", svg)
	}
}

func TestLayoutDeterministic(t *testing.T) {
	root := markup.Column(markup.Style{Justify: markup.AlignCenter, Padding: markup.All(48)},
		markup.Text("The quick brown fox jumps over the lazy dog", markup.Style{
			FontSize: 96, TextAlign: markup.TextAlignCenter, LineHeight: 1.2,
		}),
	)
	a, err := New().Layout(context.Background(), root, testOptions())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	b, err := New().Layout(context.Background(), root, testOptions())
	if err != nil {
		t.Fatalf("Layout: %v", err)
	}
	if a != b {
		t.Error("identical input produced different SVG")
	}
}

func TestRowWidths(t *testing.T) {
	l := testLayouter(t)
	row := markup.Row(markup.Style{},
		markup.Column(markup.Style{Width: markup.Pct(25)}),
		markup.Column(markup.Style{Flex: 1}),
	)
	b, err := l.build(row, 1000, nil, inherited{fontSize: defaultFontSize, lineHeight: defaultLineHeight})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(b.children) != 2 {
		t.Fatalf("children = %d, want 2", len(b.children))
	}
	if got := b.children[0].w; got != 250 {
		t.Errorf("fixed child width = %v, want 250", got)
	}
	if got := b.children[1].w; got != 750 {
		t.Errorf("flex child width = %v, want 750", got)
	}
	if got := b.children[1].x; got != 250 {
		t.Errorf("flex child x = %v, want 250", got)
	}
}

func TestColumnJustifyCenter(t *testing.T) {
	l := testLayouter(t)
	col := markup.Column(markup.Style{Justify: markup.AlignCenter, Padding: markup.All(10)},
		markup.Column(markup.Style{Height: markup.Px(20)}),
	)
	h := 120.0
	b, err := l.build(col, 1000, &h, inherited{fontSize: defaultFontSize, lineHeight: defaultLineHeight})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	c := b.children[0]
	if c.h != 20 {
		t.Errorf("child height = %v, want 20", c.h)
	}
	// Content box is 100 high starting at 10; a 20 high child centers at 10+40.
	if c.y != 50 {
		t.Errorf("child y = %v, want 50", c.y)
	}
	if c.x != 10 || c.w != 980 {
		t.Errorf("child x, w = %v, %v, want 10, 980", c.x, c.w)
	}
}

func TestWrap(t *testing.T) {
	s := testLayouter(t).shaper
	const size = 10

	two, err := s.advance("aaa bbb", size)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	lines, err := s.wrap("aaa   bbb\nccc", size, two+0.5)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	got := lineTexts(lines)
	if want := []string{"aaa bbb", "ccc"}; !equal(got, want) {
		t.Errorf("wrap = %q, want %q", got, want)
	}

	three, err := s.advance("abc", size)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	lines, err = s.wrap("abcdefghij", size, three+0.5)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	got = lineTexts(lines)
	if want := []string{"abc", "def", "ghi", "j"}; !equal(got, want) {
		t.Errorf("wrap long word = %q, want %q", got, want)
	}

	lines, err = s.wrap("   ", size, 100)
	if err != nil {
		t.Fatalf("wrap: %v", err)
	}
	if len(lines) != 0 {
		t.Errorf("wrap blank = %q, want no lines", lineTexts(lines))
	}
}

func TestSplitColor(t *testing.T) {
	tests := []struct {
		in      string
		rgb     string
		alpha   float64
		wantErr bool
	}{
		{"#3B82F6", "#3b82f6", 1, false},
		{"#3b82f633", "#3b82f6", 0.2, false},
		{"#fff", "#ffffff", 1, false},
		{"#0008", "#000000", float64(0x88) / 255, false},
		{"rebeccapurple", "rebeccapurple", 1, false},
		{"#12345", "", 0, true},
		{"#zzzzzz", "", 0, true},
		{"", "", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			rgb, alpha, err := SplitColor(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidColor) {
					t.Errorf("SplitColor(%q) error = %v, want ErrInvalidColor", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SplitColor(%q): %v", tt.in, err)
			}
			if rgb != tt.rgb || alpha != tt.alpha {
				t.Errorf("SplitColor(%q) = %q, %v, want %q, %v", tt.in, rgb, alpha, tt.rgb, tt.alpha)
			}
		})
	}
}

func lineTexts(lines []line) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.text
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
