// Package raster converts SVG documents produced by the layout package to
// PNG.
//
// Vector content is drawn with oksvg and rasterx. Those libraries skip
// <image> elements, so embedded data URI images are decoded and
// composited afterwards, clipped to their rounded corners.
package raster

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"github.com/eringen/ogcards/markup"

	_ "image/jpeg"
)

// ErrEmptyCanvas is returned for documents without a usable size.
var ErrEmptyCanvas = errors.New("raster: svg has no size")

// Rasterizer renders SVG to PNG bytes. The zero value is ready to use and
// safe for concurrent use.
type Rasterizer struct {
	// Strict rejects SVG elements the vector renderer does not understand
	// instead of skipping them. <image> is always handled.
	Strict bool
}

// New returns a Rasterizer.
func New() *Rasterizer {
	return &Rasterizer{}
}

// Rasterize renders svg at its declared viewBox size and encodes it as PNG.
func (r *Rasterizer) Rasterize(ctx context.Context, svg string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := r.Draw(svg)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("raster: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Draw renders svg into a new RGBA image.
func (r *Rasterizer) Draw(svg string) (*image.RGBA, error) {
	images, err := scanImages(svg)
	if err != nil {
		return nil, err
	}

	mode := oksvg.IgnoreErrorMode
	if r.Strict {
		mode = oksvg.StrictErrorMode
	}
	icon, err := oksvg.ReadIconStream(stripImages(svg), mode)
	if err != nil {
		return nil, fmt.Errorf("raster: parse svg: %w", err)
	}
	w, h := int(icon.ViewBox.W), int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, ErrEmptyCanvas
	}
	icon.SetTarget(0, 0, float64(w), float64(h))

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, dst, dst.Bounds())
	dasher := rasterx.NewDasher(w, h, scanner)
	icon.Draw(dasher, 1.0)

	for _, im := range images {
		if err := im.composite(dst); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// embedded is an <image> element placed by the layout.
type embedded struct {
	X, Y, W, H float64
	Radius     float64
	Href       string
}

// scanImages collects <image> elements in document order.
func scanImages(svg string) ([]embedded, error) {
	dec := xml.NewDecoder(strings.NewReader(svg))
	var out []embedded
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("raster: parse svg: %w", err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != "image" {
			continue
		}
		var im embedded
		for _, a := range se.Attr {
			switch a.Name.Local {
			case "x":
				im.X, err = parseNum(a.Value)
			case "y":
				im.Y, err = parseNum(a.Value)
			case "width":
				im.W, err = parseNum(a.Value)
			case "height":
				im.H, err = parseNum(a.Value)
			case "data-radius":
				im.Radius, err = parseNum(a.Value)
			case "href":
				im.Href = a.Value
			}
			if err != nil {
				return nil, fmt.Errorf("raster: image attribute %s: %w", a.Name.Local, err)
			}
		}
		out = append(out, im)
	}
}

func parseNum(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// stripImages returns the document with <image> elements removed so the
// vector pass never sees them, even in strict mode.
func stripImages(svg string) io.Reader {
	var b bytes.Buffer
	rest := svg
	for {
		i := strings.Index(rest, "<image")
		if i < 0 {
			b.WriteString(rest)
			break
		}
		b.WriteString(rest[:i])
		end := strings.Index(rest[i:], "/>")
		if end < 0 {
			b.WriteString(rest[i:])
			break
		}
		rest = rest[i+end+2:]
	}
	return &b
}

// composite decodes the image, scales it into its box and blends it
// through a rounded-rectangle mask.
func (im embedded) composite(dst *image.RGBA) error {
	_, data, err := markup.ParseDataURI(im.Href)
	if err != nil {
		return fmt.Errorf("raster: image source: %w", err)
	}
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("raster: decode image: %w", err)
	}
	box := image.Rect(round(im.X), round(im.Y), round(im.X+im.W), round(im.Y+im.H))
	if box.Empty() {
		return nil
	}
	size := box.Size()

	scaled := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, src.Bounds(), draw.Src, nil)

	mask := roundedMask(size.X, size.Y, im.Radius)
	draw.DrawMask(dst, box, scaled, image.Point{}, mask, image.Point{}, draw.Over)
	return nil
}

// roundedMask rasterizes an anti-aliased rounded rectangle covering w×h.
func roundedMask(w, h int, r float64) *image.Alpha {
	fw, fh := float32(w), float32(h)
	rr := float32(min(r, float64(w)/2, float64(h)/2))
	// Cubic control distance for a quarter circle.
	k := rr * 0.5522848

	z := vector.NewRasterizer(w, h)
	z.DrawOp = draw.Src
	z.MoveTo(rr, 0)
	z.LineTo(fw-rr, 0)
	z.CubeTo(fw-rr+k, 0, fw, rr-k, fw, rr)
	z.LineTo(fw, fh-rr)
	z.CubeTo(fw, fh-rr+k, fw-rr+k, fh, fw-rr, fh)
	z.LineTo(rr, fh)
	z.CubeTo(rr-k, fh, 0, fh-rr+k, 0, fh-rr)
	z.LineTo(0, rr)
	z.CubeTo(0, rr-k, rr-k, 0, rr, 0)
	z.ClosePath()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	return mask
}

func round(v float64) int {
	if v < 0 {
		return int(v - 0.5)
	}
	return int(v + 0.5)
}
