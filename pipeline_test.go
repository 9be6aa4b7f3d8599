package ogcards

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/font/gofont/gomono"

	"github.com/eringen/ogcards/layout"
	"github.com/eringen/ogcards/markup"
)

type layoutFunc func(ctx context.Context, root *markup.Node, opts layout.Options) (string, error)

func (f layoutFunc) Layout(ctx context.Context, root *markup.Node, opts layout.Options) (string, error) {
	return f(ctx, root, opts)
}

type rasterFunc func(ctx context.Context, svg string) ([]byte, error)

func (f rasterFunc) Rasterize(ctx context.Context, svg string) ([]byte, error) {
	return f(ctx, svg)
}

var okLayout = layoutFunc(func(context.Context, *markup.Node, layout.Options) (string, error) {
	return "<svg/>", nil
})

var okRaster = rasterFunc(func(context.Context, string) ([]byte, error) {
	return []byte("png"), nil
})

func testPresentation() *Presentation {
	return &Presentation{Font: gomono.TTF, Theme: CardTheme{}.WithFallbacks()}
}

func TestFallbackPNG(t *testing.T) {
	got := FallbackPNG()
	if len(got) != 67 {
		t.Errorf("len = %d, want 67", len(got))
	}
	if !bytes.HasPrefix(got, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("missing PNG signature: %x", got[:8])
	}
	if !bytes.HasSuffix(got, []byte("IEND\xaeB`\x82")) {
		t.Errorf("missing IEND chunk: %x", got[len(got)-8:])
	}
	got[0] = 0
	if FallbackPNG()[0] != 0x89 {
		t.Error("FallbackPNG should return a copy")
	}
}

func TestRenderStages(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		layout  LayoutEngine
		raster  Rasterizer
		want    ResultKind
		wantErr error
	}{
		{"success", okLayout, okRaster, Rendered, nil},
		{
			"layout error",
			layoutFunc(func(context.Context, *markup.Node, layout.Options) (string, error) { return "", boom }),
			okRaster, Fallback, ErrLayout,
		},
		{
			"raster error",
			okLayout,
			rasterFunc(func(context.Context, string) ([]byte, error) { return nil, boom }),
			Fallback, ErrRaster,
		},
		{
			"empty png",
			okLayout,
			rasterFunc(func(context.Context, string) ([]byte, error) { return nil, nil }),
			Fallback, ErrRaster,
		},
		{
			"layout panic",
			layoutFunc(func(context.Context, *markup.Node, layout.Options) (string, error) { panic("bad tree") }),
			okRaster, Fallback, ErrPanic,
		},
		{
			"raster panic",
			okLayout,
			rasterFunc(func(context.Context, string) ([]byte, error) { panic("bad svg") }),
			Fallback, ErrPanic,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Pipeline{Layout: tt.layout, Raster: tt.raster, Presentation: testPresentation()}
			res := p.Render(context.Background(), CardRequest{Title: "Hello", Author: "Ann"})
			if res.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v (reason %v)", res.Kind, tt.want, res.Reason)
			}
			if tt.wantErr != nil && !errors.Is(res.Reason, tt.wantErr) {
				t.Errorf("Reason = %v, want %v", res.Reason, tt.wantErr)
			}
			if res.Kind == Fallback && !bytes.Equal(res.Bytes(), FallbackPNG()) {
				t.Error("fallback result should serve the placeholder bytes")
			}
			if res.Kind == Rendered && string(res.Bytes()) != "png" {
				t.Errorf("Bytes() = %q, want rendered image", res.Bytes())
			}
		})
	}
}

func TestRenderWithoutPresentation(t *testing.T) {
	p := &Pipeline{Layout: okLayout, Raster: okRaster}
	res := p.Render(context.Background(), CardRequest{Title: "x"})
	if res.Kind != Fallback || !errors.Is(res.Reason, ErrLayout) {
		t.Errorf("Render() = %v, %v, want fallback with ErrLayout", res.Kind, res.Reason)
	}
}

func TestRenderTimeout(t *testing.T) {
	slow := rasterFunc(func(ctx context.Context, svg string) ([]byte, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	})
	p := &Pipeline{Layout: okLayout, Raster: slow, Presentation: testPresentation(), Timeout: 10 * time.Millisecond}
	res := p.Render(context.Background(), CardRequest{Title: "x"})
	if res.Kind != Fallback || !errors.Is(res.Reason, context.DeadlineExceeded) {
		t.Errorf("Render() = %v, %v, want fallback with deadline exceeded", res.Kind, res.Reason)
	}
}

func TestRenderPassesOptions(t *testing.T) {
	var got layout.Options
	var root *markup.Node
	spy := layoutFunc(func(_ context.Context, n *markup.Node, opts layout.Options) (string, error) {
		got, root = opts, n
		return "<svg/>", nil
	})
	p := &Pipeline{Layout: spy, Raster: okRaster, Presentation: testPresentation()}
	p.Render(context.Background(), CardRequest{Title: "Hello", Author: "Ann"})

	if got.Width != CardWidth || got.Height != CardHeight {
		t.Errorf("canvas = %dx%d, want %dx%d", got.Width, got.Height, CardWidth, CardHeight)
	}
	if len(got.Fonts) != 1 || got.Fonts[0].Name != FontName || got.Fonts[0].Weight != 400 || got.Fonts[0].Style != "normal" {
		t.Errorf("fonts = %+v", got.Fonts)
	}
	if root == nil || markup.Find(root, markup.RoleTitle).Text != "Hello" {
		t.Error("layout did not receive the composed card")
	}
}

func TestRenderEndToEnd(t *testing.T) {
	p := NewPipeline(testPresentation())
	req := CardRequest{Title: "Deterministic cards", PubDate: strPtr("Jan 2, 2024"), Author: "Ann"}

	first := p.Render(context.Background(), req)
	if first.Kind != Rendered {
		t.Fatalf("Render() fell back: %v", first.Reason)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(first.PNG))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if cfg.Width != CardWidth || cfg.Height != CardHeight {
		t.Errorf("image = %dx%d, want %dx%d", cfg.Width, cfg.Height, CardWidth, CardHeight)
	}

	second := p.Render(context.Background(), req)
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("identical requests produced different images")
	}

	svg, err := p.SVG(context.Background(), req)
	if err != nil {
		t.Fatalf("SVG: %v", err)
	}
	if !strings.Contains(svg, `fill="#1a1a1a"`) {
		t.Error("card background should use the fallback color")
	}
}

func TestRenderAccentForms(t *testing.T) {
	for _, accent := range []string{"#3b82f6", "#f80", "#3b82f680"} {
		t.Run(accent, func(t *testing.T) {
			p := testPresentation()
			p.Theme.Accent = accent
			res := NewPipeline(p).Render(context.Background(), CardRequest{Title: "Hello", PubDate: strPtr("Jan 2, 2024"), Author: "Ann"})
			if res.Kind != Rendered {
				t.Errorf("Kind = %v, want rendered (reason %v)", res.Kind, res.Reason)
			}
		})
	}
}

func TestResultKindString(t *testing.T) {
	if Rendered.String() != "rendered" || Fallback.String() != "fallback" {
		t.Errorf("String() = %q, %q", Rendered, Fallback)
	}
}
