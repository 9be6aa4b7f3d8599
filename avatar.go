package ogcards

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"
)

const (
	maxAvatarSize = 400
	jpegQuality   = 85
)

// PrepareAvatar decodes a JPEG, PNG or GIF image, crops it to a centered
// square, scales it down to at most maxAvatarSize pixels and encodes it as
// JPEG, the only avatar format cards accept.
func PrepareAvatar(src io.Reader) ([]byte, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	side := min(b.Dx(), b.Dy())
	if side == 0 {
		return nil, fmt.Errorf("decode image: empty image")
	}
	crop := image.Rect(0, 0, side, side).Add(image.Pt(
		b.Min.X+(b.Dx()-side)/2,
		b.Min.Y+(b.Dy()-side)/2,
	))

	size := min(side, maxAvatarSize)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, crop, draw.Over, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteAvatar converts the image at in with PrepareAvatar and writes it
// to out, which must have a .jpg or .jpeg extension.
func WriteAvatar(in, out string) error {
	switch strings.ToLower(filepath.Ext(out)) {
	case ".jpg", ".jpeg":
	default:
		return fmt.Errorf("avatar output %s: extension must be .jpg or .jpeg", out)
	}
	f, err := os.Open(in)
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := PrepareAvatar(f)
	if err != nil {
		return fmt.Errorf("%s: %w", in, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return err
	}
	return os.WriteFile(out, data, 0o644)
}
