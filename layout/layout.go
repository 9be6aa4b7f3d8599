// Package layout turns a markup tree into an SVG document.
//
// It implements the flexbox subset the card vocabulary needs: column and
// row containers, percentage and flex widths, padding, margins, rounded
// borders, wrapped text and images. Text is emitted as glyph outlines so
// the resulting SVG renders without font support in the rasterizer.
package layout

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"golang.org/x/image/font/sfnt"

	"github.com/eringen/ogcards/markup"
)

// Sentinel errors for layout failures.
var (
	ErrNoFont       = errors.New("layout: no font configured")
	ErrInvalidSize  = errors.New("layout: invalid canvas size")
	ErrInvalidColor = errors.New("layout: invalid color")
	ErrImage        = errors.New("layout: unsupported image")
)

const (
	defaultFontSize   = 16
	defaultLineHeight = 1.2
)

// Font is a font face made available to the layout.
type Font struct {
	Name   string
	Data   []byte
	Weight int
	Style  string
}

// Options controls the canvas and fonts.
type Options struct {
	Width  int
	Height int
	Fonts  []Font
}

// Engine lays out markup trees. The zero value is ready to use and safe
// for concurrent use.
type Engine struct{}

// New returns a layout engine.
func New() *Engine {
	return &Engine{}
}

// Layout computes positions for every node in root and returns the
// resulting SVG document. The root is sized to the full canvas.
func (e *Engine) Layout(ctx context.Context, root *markup.Node, opts Options) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return "", fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	if len(opts.Fonts) == 0 {
		return "", ErrNoFont
	}
	if root == nil {
		return "", errors.New("layout: nil root")
	}
	f, err := sfnt.Parse(opts.Fonts[0].Data)
	if err != nil {
		return "", fmt.Errorf("layout: parse font %q: %w", opts.Fonts[0].Name, err)
	}

	l := &layouter{ctx: ctx, shaper: &shaper{font: f}}
	w, h := float64(opts.Width), float64(opts.Height)
	b, err := l.build(root, w, &h, inherited{fontSize: defaultFontSize, lineHeight: defaultLineHeight})
	if err != nil {
		return "", err
	}

	var out strings.Builder
	fmt.Fprintf(&out, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">`,
		opts.Width, opts.Height, opts.Width, opts.Height)
	if err := l.emit(&out, b, 0, 0); err != nil {
		return "", err
	}
	out.WriteString("</svg>")
	return out.String(), nil
}

// inherited carries the CSS properties that cascade to descendants.
type inherited struct {
	color      string
	fontSize   float64
	lineHeight float64
	textAlign  markup.TextAlign
}

func (in inherited) apply(s markup.Style) inherited {
	if s.Color != "" {
		in.color = s.Color
	}
	if s.FontSize > 0 {
		in.fontSize = s.FontSize
	}
	if s.LineHeight > 0 {
		in.lineHeight = s.LineHeight
	}
	if s.TextAlign != markup.TextAlignLeft {
		in.textAlign = s.TextAlign
	}
	return in
}

// box is a laid-out node. x and y are relative to the parent's border box.
type box struct {
	node     *markup.Node
	style    inherited
	x, y     float64
	w, h     float64
	lines    []line
	ascent   float64
	descent  float64
	children []*box
}

type layouter struct {
	ctx    context.Context
	shaper *shaper
}

// build lays out n with a fixed border-box width and an optional fixed
// height.
func (l *layouter) build(n *markup.Node, w float64, fixedH *float64, parent inherited) (*box, error) {
	if err := l.ctx.Err(); err != nil {
		return nil, err
	}
	st := parent.apply(n.Style)
	b := &box{node: n, style: st, w: max(w, 0)}
	switch n.Kind {
	case markup.KindText:
		return b, l.buildText(b, fixedH)
	case markup.KindImage:
		return b, l.buildImage(b, fixedH)
	}
	return b, l.buildContainer(b, fixedH)
}

func (l *layouter) buildText(b *box, fixedH *float64) error {
	s := b.node.Style
	inner := b.w - s.Padding.Horizontal() - 2*s.Border.Width
	lines, err := l.shaper.wrap(b.node.Text, b.style.fontSize, inner)
	if err != nil {
		return fmt.Errorf("layout: measure text: %w", err)
	}
	b.lines = lines
	b.ascent, b.descent, err = l.shaper.metrics(b.style.fontSize)
	if err != nil {
		return fmt.Errorf("layout: font metrics: %w", err)
	}
	b.h = float64(len(lines))*b.style.fontSize*b.style.lineHeight + s.Padding.Vertical() + 2*s.Border.Width
	if fixedH != nil {
		b.h = *fixedH
	}
	return nil
}

func (l *layouter) buildImage(b *box, fixedH *float64) error {
	cfg, err := imageConfig(b.node.Src)
	if err != nil {
		return err
	}
	switch {
	case fixedH != nil:
		b.h = *fixedH
	case cfg.Width > 0:
		b.h = b.w * float64(cfg.Height) / float64(cfg.Width)
	}
	return nil
}

func imageConfig(src string) (image.Config, error) {
	_, data, err := markup.ParseDataURI(src)
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrImage, err)
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return image.Config{}, fmt.Errorf("%w: %v", ErrImage, err)
	}
	return cfg, nil
}

func (l *layouter) buildContainer(b *box, fixedH *float64) error {
	s := b.node.Style
	edgeW := s.Padding.Horizontal() + 2*s.Border.Width
	edgeH := s.Padding.Vertical() + 2*s.Border.Width
	cw := max(b.w-edgeW, 0)

	var contentH *float64
	if fixedH != nil {
		v := max(*fixedH-edgeH, 0)
		contentH = &v
	}

	var used float64
	var err error
	if s.Direction == markup.DirectionRow {
		used, err = l.layoutRow(b, cw, contentH)
	} else {
		used, err = l.layoutColumn(b, cw, contentH)
	}
	if err != nil {
		return err
	}

	if fixedH != nil {
		b.h = *fixedH
	} else {
		b.h = used + edgeH
	}
	return nil
}

// childWidth picks the border-box width of a child along the cross axis
// of a column, or for a non-flex child of a row. Percentages resolve
// against base, the parent's content width.
func (l *layouter) childWidth(c *markup.Node, base, avail float64, stretch bool, st inherited) (float64, error) {
	if !c.Style.Width.IsAuto() {
		return c.Style.Width.Resolve(base), nil
	}
	if stretch {
		return avail, nil
	}
	nat, err := l.natural(c, avail, st)
	if err != nil {
		return 0, err
	}
	return min(nat, avail), nil
}

// natural returns the max-content border-box width of n.
func (l *layouter) natural(n *markup.Node, avail float64, parent inherited) (float64, error) {
	st := parent.apply(n.Style)
	s := n.Style
	edge := s.Padding.Horizontal() + 2*s.Border.Width
	if !s.Width.IsAuto() {
		return s.Width.Resolve(avail), nil
	}
	switch n.Kind {
	case markup.KindText:
		w, err := l.shaper.advance(strings.Join(strings.Fields(n.Text), " "), st.fontSize)
		if err != nil {
			return 0, fmt.Errorf("layout: measure text: %w", err)
		}
		return w + edge, nil
	case markup.KindImage:
		cfg, err := imageConfig(n.Src)
		if err != nil {
			return 0, err
		}
		return float64(cfg.Width) + edge, nil
	}
	var total float64
	for _, c := range n.Children {
		cw, err := l.natural(c, avail, st)
		if err != nil {
			return 0, err
		}
		cw += c.Style.Margin.Horizontal()
		if s.Direction == markup.DirectionRow {
			total += cw
		} else {
			total = max(total, cw)
		}
	}
	return total + edge, nil
}

func (l *layouter) layoutColumn(b *box, cw float64, contentH *float64) (float64, error) {
	s := b.node.Style
	stretch := s.Align == markup.AlignStretch
	var used float64
	for _, c := range b.node.Children {
		m := c.Style.Margin
		avail := max(cw-m.Horizontal(), 0)
		w, err := l.childWidth(c, cw, avail, stretch, b.style)
		if err != nil {
			return 0, err
		}
		var fixedH *float64
		if !c.Style.Height.IsAuto() && (contentH != nil || !c.Style.Height.Percent) {
			base := 0.0
			if contentH != nil {
				base = *contentH
			}
			v := c.Style.Height.Resolve(base)
			fixedH = &v
		}
		child, err := l.build(c, w, fixedH, b.style)
		if err != nil {
			return 0, err
		}
		child.x = s.Padding.Left + s.Border.Width + m.Left + crossOffset(s.Align, avail, w)
		b.children = append(b.children, child)
		used += child.h + m.Vertical()
	}

	offset := 0.0
	if contentH != nil {
		offset = mainOffset(s.Justify, *contentH, used)
	}
	y := s.Padding.Top + s.Border.Width + offset
	for _, child := range b.children {
		m := child.node.Style.Margin
		child.y = y + m.Top
		y += child.h + m.Vertical()
	}
	return used, nil
}

func (l *layouter) layoutRow(b *box, cw float64, contentH *float64) (float64, error) {
	s := b.node.Style
	children := b.node.Children
	widths := make([]float64, len(children))

	var fixed, grow float64
	for i, c := range children {
		fixed += c.Style.Margin.Horizontal()
		if c.Style.Flex > 0 && c.Style.Width.IsAuto() {
			grow += c.Style.Flex
			continue
		}
		w, err := l.childWidth(c, cw, cw, false, b.style)
		if err != nil {
			return 0, err
		}
		widths[i] = w
		fixed += w
	}
	free := max(cw-fixed, 0)
	for i, c := range children {
		if c.Style.Flex > 0 && c.Style.Width.IsAuto() {
			widths[i] = free * c.Style.Flex / grow
		}
	}

	var tallest float64
	for i, c := range children {
		var fixedH *float64
		if contentH != nil && s.Align == markup.AlignStretch && c.Kind == markup.KindContainer {
			v := max(*contentH-c.Style.Margin.Vertical(), 0)
			fixedH = &v
		}
		child, err := l.build(c, widths[i], fixedH, b.style)
		if err != nil {
			return 0, err
		}
		b.children = append(b.children, child)
		tallest = max(tallest, child.h+c.Style.Margin.Vertical())
	}

	lineH := tallest
	if contentH != nil {
		lineH = *contentH
	}
	used := 0.0
	for _, w := range widths {
		used += w
	}
	x := s.Padding.Left + s.Border.Width + mainOffset(s.Justify, cw, used+fixedMargins(children))
	for _, child := range b.children {
		m := child.node.Style.Margin
		child.x = x + m.Left
		child.y = s.Padding.Top + s.Border.Width + m.Top + crossOffset(s.Align, lineH-m.Vertical(), child.h)
		x += child.w + m.Horizontal()
	}
	return tallest, nil
}

func fixedMargins(nodes []*markup.Node) float64 {
	var total float64
	for _, n := range nodes {
		total += n.Style.Margin.Horizontal()
	}
	return total
}

// mainOffset positions content of size used inside space along the main axis.
func mainOffset(j markup.Alignment, space, used float64) float64 {
	switch j {
	case markup.AlignCenter:
		return (space - used) / 2
	case markup.AlignEnd:
		return space - used
	}
	return 0
}

// crossOffset positions an item of size size inside space along the cross axis.
func crossOffset(a markup.Alignment, space, size float64) float64 {
	switch a {
	case markup.AlignCenter:
		return (space - size) / 2
	case markup.AlignEnd:
		return space - size
	}
	return 0
}
