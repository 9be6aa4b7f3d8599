package layout

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/eringen/ogcards/markup"
)

// emit writes b and its descendants with the parent's border box at (ox, oy).
func (l *layouter) emit(out *strings.Builder, b *box, ox, oy float64) error {
	if err := l.ctx.Err(); err != nil {
		return err
	}
	x, y := ox+b.x, oy+b.y
	s := b.node.Style
	radius := min(s.Border.Radius.Resolve(b.w), b.w/2, b.h/2)

	if s.Background != "" {
		fill, err := paint("fill", s.Background)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, `<rect x="%s" y="%s" width="%s" height="%s"%s%s/>`,
			num(x), num(y), num(b.w), num(b.h), rx(radius), fill)
	}

	switch b.node.Kind {
	case markup.KindText:
		if err := l.emitText(out, b, x, y); err != nil {
			return err
		}
	case markup.KindImage:
		bw := s.Border.Width
		iw, ih := max(b.w-2*bw, 0), max(b.h-2*bw, 0)
		fmt.Fprintf(out, `<image x="%s" y="%s" width="%s" height="%s" data-radius="%s" href="%s"/>`,
			num(x+bw), num(y+bw), num(iw), num(ih), num(max(radius-bw, 0)), templ.EscapeString(b.node.Src))
	}

	if bw := s.Border.Width; bw > 0 {
		color := s.Border.Color
		if color == "" {
			color = b.style.color
		}
		stroke, err := paint("stroke", color)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, `<rect x="%s" y="%s" width="%s" height="%s"%s fill="none"%s stroke-width="%s"/>`,
			num(x+bw/2), num(y+bw/2), num(b.w-bw), num(b.h-bw), rx(max(radius-bw/2, 0)), stroke, num(bw))
	}

	for _, c := range b.children {
		if err := l.emit(out, c, x, y); err != nil {
			return err
		}
	}
	return nil
}

func (l *layouter) emitText(out *strings.Builder, b *box, x, y float64) error {
	if len(b.lines) == 0 {
		return nil
	}
	s := b.node.Style
	size := b.style.fontSize
	lineH := size * b.style.lineHeight
	inner := b.w - s.Padding.Horizontal()
	// Half-leading: the glyph box is centered in each line box.
	baseline := (lineH-(b.ascent+b.descent))/2 + b.ascent

	var d strings.Builder
	top := y + s.Padding.Top
	for _, ln := range b.lines {
		lx := x + s.Padding.Left
		switch b.style.textAlign {
		case markup.TextAlignCenter:
			lx += (inner - ln.width) / 2
		case markup.TextAlignRight:
			lx += inner - ln.width
		}
		if err := l.shaper.outline(&d, ln.text, size, lx, top+baseline); err != nil {
			return fmt.Errorf("layout: outline text: %w", err)
		}
		top += lineH
	}
	if d.Len() == 0 {
		return nil
	}
	color := b.style.color
	if color == "" {
		color = "#000000"
	}
	fill, err := paint("fill", color)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, `<path d="%s"%s/>`, d.String(), fill)
	return nil
}

func rx(r float64) string {
	if r <= 0 {
		return ""
	}
	return fmt.Sprintf(` rx="%s" ry="%s"`, num(r), num(r))
}

// paint renders a fill or stroke attribute pair. Hex colors with an alpha
// channel are split into an opaque color and an opacity attribute, since
// SVG 1.1 renderers do not read 8-digit hex.
func paint(attr, color string) (string, error) {
	rgb, alpha, err := SplitColor(color)
	if err != nil {
		return "", err
	}
	s := fmt.Sprintf(` %s="%s"`, attr, templ.EscapeString(rgb))
	if alpha < 1 {
		s += fmt.Sprintf(` %s-opacity="%s"`, attr, strconv.FormatFloat(alpha, 'f', 4, 64))
	}
	return s, nil
}

// SplitColor separates a CSS color into an opaque color and an alpha in
// [0, 1]. Hex forms #rgb, #rgba, #rrggbb and #rrggbbaa are understood;
// other colors (named, rgb()) pass through with alpha 1.
func SplitColor(color string) (string, float64, error) {
	color = strings.TrimSpace(color)
	hex, ok := strings.CutPrefix(color, "#")
	if !ok {
		if color == "" {
			return "", 0, fmt.Errorf("%w: empty", ErrInvalidColor)
		}
		return color, 1, nil
	}
	if _, err := strconv.ParseUint(hex, 16, 64); err != nil {
		return "", 0, fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	switch len(hex) {
	case 3:
		return "#" + expand(hex), 1, nil
	case 4:
		return "#" + expand(hex[:3]), alphaOf(hex[3:] + hex[3:]), nil
	case 6:
		return "#" + strings.ToLower(hex), 1, nil
	case 8:
		return "#" + strings.ToLower(hex[:6]), alphaOf(hex[6:]), nil
	}
	return "", 0, fmt.Errorf("%w: %q", ErrInvalidColor, color)
}

func expand(short string) string {
	var b strings.Builder
	for _, c := range strings.ToLower(short) {
		b.WriteRune(c)
		b.WriteRune(c)
	}
	return b.String()
}

func alphaOf(hh string) float64 {
	v, _ := strconv.ParseUint(hh, 16, 8)
	return float64(v) / 255
}
