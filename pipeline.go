package ogcards

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/eringen/ogcards/layout"
	"github.com/eringen/ogcards/markup"
	"github.com/eringen/ogcards/raster"
)

// LayoutEngine converts a markup tree into an SVG document.
type LayoutEngine interface {
	Layout(ctx context.Context, root *markup.Node, opts layout.Options) (string, error)
}

// Rasterizer converts an SVG document into PNG bytes.
type Rasterizer interface {
	Rasterize(ctx context.Context, svg string) ([]byte, error)
}

// fallbackPNG is served whenever a card cannot be rendered.
var fallbackPNG = []byte{
	0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x02, 0x00, 0x00, 0x00, 0x90, 0x77, 0x53, 0xDE, 0x00, 0x00, 0x00,
	0x0C, 0x49, 0x44, 0x41, 0x54, 0x08, 0x57, 0x63, 0xF8, 0x0F, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x5C, 0xC6, 0x2F, 0x73, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4E, 0x44, 0xAE, 0x42, 0x60, 0x82,
}

// FallbackPNG returns a copy of the 1×1 placeholder image.
func FallbackPNG() []byte {
	return bytes.Clone(fallbackPNG)
}

// ResultKind tells a successful render from a fallback.
type ResultKind int

const (
	Rendered ResultKind = iota
	Fallback
)

func (k ResultKind) String() string {
	if k == Fallback {
		return "fallback"
	}
	return "rendered"
}

// RenderResult is the outcome of one card render.
type RenderResult struct {
	Kind   ResultKind
	PNG    []byte // set when Kind is Rendered
	Reason error  // set when Kind is Fallback
}

// Bytes returns the image to serve: the rendered card or the fallback.
func (r RenderResult) Bytes() []byte {
	if r.Kind == Fallback || len(r.PNG) == 0 {
		return FallbackPNG()
	}
	return r.PNG
}

// Pipeline renders cards: compose, lay out, rasterize.
type Pipeline struct {
	Layout       LayoutEngine
	Raster       Rasterizer
	Presentation *Presentation
	Timeout      time.Duration // per-render budget; zero means none
}

// NewPipeline returns a pipeline using the built-in layout engine and
// rasterizer.
func NewPipeline(p *Presentation) *Pipeline {
	return &Pipeline{
		Layout:       layout.New(),
		Raster:       raster.New(),
		Presentation: p,
	}
}

// LayoutOptions returns the canvas and font settings every card uses.
func (p *Pipeline) LayoutOptions() layout.Options {
	return layout.Options{
		Width:  CardWidth,
		Height: CardHeight,
		Fonts: []layout.Font{{
			Name:   FontName,
			Data:   p.Presentation.Font,
			Weight: 400,
			Style:  "normal",
		}},
	}
}

// Render produces the card for req. It never fails: any error or panic
// in a stage, including ctx expiring, yields a Fallback result that
// carries the reason. Nothing is retried.
func (p *Pipeline) Render(ctx context.Context, req CardRequest) (res RenderResult) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: %v", ErrPanic, r)
			log.Printf("Failed to generate social card: %v", err)
			res = RenderResult{Kind: Fallback, Reason: err}
		}
	}()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	png, err := p.render(ctx, req)
	if err != nil {
		log.Printf("Failed to generate social card: %v", err)
		return RenderResult{Kind: Fallback, Reason: err}
	}
	return RenderResult{Kind: Rendered, PNG: png}
}

// SVG runs composition and layout only.
func (p *Pipeline) SVG(ctx context.Context, req CardRequest) (string, error) {
	if p.Presentation == nil {
		return "", fmt.Errorf("%w: no presentation", ErrLayout)
	}
	root := ComposeCard(req, p.Presentation)
	svg, err := p.Layout.Layout(ctx, root, p.LayoutOptions())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrLayout, err)
	}
	return svg, nil
}

func (p *Pipeline) render(ctx context.Context, req CardRequest) ([]byte, error) {
	svg, err := p.SVG(ctx, req)
	if err != nil {
		return nil, err
	}
	png, err := p.Raster.Rasterize(ctx, svg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRaster, err)
	}
	if len(png) == 0 {
		return nil, fmt.Errorf("%w: empty image", ErrRaster)
	}
	return png, nil
}
