package markup

import "strings"

// Direction is the flex main axis.
type Direction int

const (
	DirectionColumn Direction = iota
	DirectionRow
)

// Alignment positions children along an axis.
type Alignment int

const (
	AlignStretch Alignment = iota
	AlignStart
	AlignCenter
	AlignEnd
)

func (a Alignment) css() string {
	switch a {
	case AlignStart:
		return "flex-start"
	case AlignCenter:
		return "center"
	case AlignEnd:
		return "flex-end"
	}
	return ""
}

// TextAlign is the horizontal alignment of lines inside a text box.
type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// Length is a CSS length in pixels or a percentage of the parent.
// The zero value means auto.
type Length struct {
	Value   float64
	Percent bool
}

// Px returns a pixel length.
func Px(v float64) Length { return Length{Value: v} }

// Pct returns a percentage length.
func Pct(v float64) Length { return Length{Value: v, Percent: true} }

// IsAuto reports whether the length is unset.
func (l Length) IsAuto() bool { return l.Value == 0 && !l.Percent }

// Resolve converts the length to pixels against base.
func (l Length) Resolve(base float64) float64 {
	if l.Percent {
		return base * l.Value / 100
	}
	return l.Value
}

func (l Length) String() string {
	if l.Percent {
		return formatFloat(l.Value) + "%"
	}
	return formatFloat(l.Value) + "px"
}

// Edges holds per-side lengths in pixels.
type Edges struct {
	Top, Right, Bottom, Left float64
}

// All returns equal edges on every side.
func All(v float64) Edges { return Edges{v, v, v, v} }

// Symmetric returns vertical and horizontal edges, like CSS "margin: v h".
func Symmetric(v, h float64) Edges { return Edges{v, h, v, h} }

// Horizontal is Left+Right.
func (e Edges) Horizontal() float64 { return e.Left + e.Right }

// Vertical is Top+Bottom.
func (e Edges) Vertical() float64 { return e.Top + e.Bottom }

func (e Edges) css() string {
	if e.Top == e.Right && e.Right == e.Bottom && e.Bottom == e.Left {
		return formatFloat(e.Top) + "px"
	}
	if e.Top == e.Bottom && e.Left == e.Right {
		return formatFloat(e.Top) + "px " + formatFloat(e.Left) + "px"
	}
	return formatFloat(e.Top) + "px " + formatFloat(e.Right) + "px " +
		formatFloat(e.Bottom) + "px " + formatFloat(e.Left) + "px"
}

// Border is a uniform border. Color is any CSS color string, including
// 8-digit hex with an alpha suffix.
type Border struct {
	Width  float64
	Radius Length
	Color  string
}

// Style is the subset of CSS the card vocabulary uses.
type Style struct {
	Direction  Direction
	Justify    Alignment
	Align      Alignment
	Width      Length
	Height     Length
	MaxWidth   Length
	Flex       float64
	Padding    Edges
	Margin     Edges
	Border     Border
	Background string
	Color      string
	FontSize   float64
	LineHeight float64
	TextAlign  TextAlign
}

// CSS renders the style as an inline CSS declaration list.
func (s Style) CSS() string {
	var decl []string
	add := func(k, v string) { decl = append(decl, k+": "+v) }

	add("display", "flex")
	if s.Direction == DirectionColumn {
		add("flex-direction", "column")
	}
	if s.Flex > 0 {
		add("flex", formatFloat(s.Flex))
	}
	if v := s.Justify.css(); v != "" {
		add("justify-content", v)
	}
	if v := s.Align.css(); v != "" {
		add("align-items", v)
	}
	if !s.Width.IsAuto() {
		add("width", s.Width.String())
	}
	if !s.Height.IsAuto() {
		add("height", s.Height.String())
	}
	if !s.MaxWidth.IsAuto() {
		add("max-width", s.MaxWidth.String())
	}
	if s.Background != "" {
		add("background-color", s.Background)
	}
	if s.Color != "" {
		add("color", s.Color)
	}
	if s.Padding != (Edges{}) {
		add("padding", s.Padding.css())
	}
	if s.Margin != (Edges{}) {
		add("margin", s.Margin.css())
	}
	if s.Border.Width > 0 {
		add("border-width", formatFloat(s.Border.Width)+"px")
	}
	if !s.Border.Radius.IsAuto() {
		add("border-radius", s.Border.Radius.String())
	}
	if s.Border.Color != "" {
		add("border-color", s.Border.Color)
	}
	if s.FontSize > 0 {
		add("font-size", formatFloat(s.FontSize)+"px")
	}
	if s.LineHeight > 0 {
		add("line-height", formatFloat(s.LineHeight))
	}
	switch s.TextAlign {
	case TextAlignCenter:
		add("text-align", "center")
	case TextAlignRight:
		add("text-align", "right")
	}
	return strings.Join(decl, "; ") + ";"
}
