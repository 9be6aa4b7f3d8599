package layout

import (
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// shaper measures and outlines text with a single sfnt face. It is not
// safe for concurrent use; each Layout call builds its own.
type shaper struct {
	font *sfnt.Font
	buf  sfnt.Buffer
}

type line struct {
	text  string
	width float64
}

func ppem(size float64) fixed.Int26_6 {
	return fixed.Int26_6(size * 64)
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}

// advance returns the pen advance of s at size, kerning included.
func (s *shaper) advance(text string, size float64) (float64, error) {
	em := ppem(size)
	var total fixed.Int26_6
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		gi, err := s.font.GlyphIndex(&s.buf, r)
		if err != nil {
			return 0, err
		}
		if i > 0 {
			if k, err := s.font.Kern(&s.buf, prev, gi, em, font.HintingNone); err == nil {
				total += k
			}
		}
		adv, err := s.font.GlyphAdvance(&s.buf, gi, em, font.HintingNone)
		if err != nil {
			return 0, err
		}
		total += adv
		prev = gi
	}
	return toFloat(total), nil
}

// metrics returns ascent and descent in pixels at size.
func (s *shaper) metrics(size float64) (ascent, descent float64, err error) {
	m, err := s.font.Metrics(&s.buf, ppem(size), font.HintingNone)
	if err != nil {
		return 0, 0, err
	}
	return toFloat(m.Ascent), toFloat(m.Descent), nil
}

// wrap greedily breaks text into lines no wider than maxWidth. Runs of
// whitespace collapse to a single space. Words wider than maxWidth are
// broken between characters.
func (s *shaper) wrap(text string, size, maxWidth float64) ([]line, error) {
	words := strings.Fields(text)
	var (
		lines []line
		cur   string
		curW  float64
	)
	flush := func() {
		if cur != "" {
			lines = append(lines, line{text: cur, width: curW})
		}
		cur, curW = "", 0
	}
	for _, w := range words {
		candidate := w
		if cur != "" {
			candidate = cur + " " + w
		}
		cw, err := s.advance(candidate, size)
		if err != nil {
			return nil, err
		}
		if cw <= maxWidth {
			cur, curW = candidate, cw
			continue
		}
		flush()
		ww, err := s.advance(w, size)
		if err != nil {
			return nil, err
		}
		if ww <= maxWidth {
			cur, curW = w, ww
			continue
		}
		pieces, err := s.breakWord(w, size, maxWidth)
		if err != nil {
			return nil, err
		}
		lines = append(lines, pieces[:len(pieces)-1]...)
		last := pieces[len(pieces)-1]
		cur, curW = last.text, last.width
	}
	flush()
	return lines, nil
}

// breakWord splits a single word at character boundaries. Every piece
// holds at least one rune.
func (s *shaper) breakWord(word string, size, maxWidth float64) ([]line, error) {
	var pieces []line
	start := 0
	lastW := 0.0
	for i := 0; i < len(word); {
		_, n := utf8.DecodeRuneInString(word[i:])
		w, err := s.advance(word[start:i+n], size)
		if err != nil {
			return nil, err
		}
		if w > maxWidth && i > start {
			pieces = append(pieces, line{text: word[start:i], width: lastW})
			start = i
			continue
		}
		lastW = w
		i += n
	}
	pieces = append(pieces, line{text: word[start:], width: lastW})
	return pieces, nil
}

// outline appends SVG path data for text drawn with its baseline origin
// at (x, y).
func (s *shaper) outline(b *strings.Builder, text string, size, x, y float64) error {
	em := ppem(size)
	pen := fixed.Int26_6(x * 64)
	prev := sfnt.GlyphIndex(0)
	for i, r := range text {
		gi, err := s.font.GlyphIndex(&s.buf, r)
		if err != nil {
			return err
		}
		if i > 0 {
			if k, err := s.font.Kern(&s.buf, prev, gi, em, font.HintingNone); err == nil {
				pen += k
			}
		}
		segs, err := s.font.LoadGlyph(&s.buf, gi, em, nil)
		if err != nil {
			return err
		}
		ox, oy := toFloat(pen), y
		open := false
		for _, seg := range segs {
			switch seg.Op {
			case sfnt.SegmentOpMoveTo:
				if open {
					b.WriteString("Z")
				}
				open = true
				writePoint(b, "M", ox, oy, seg.Args[0])
			case sfnt.SegmentOpLineTo:
				writePoint(b, "L", ox, oy, seg.Args[0])
			case sfnt.SegmentOpQuadTo:
				writePoint(b, "Q", ox, oy, seg.Args[0])
				writePoint(b, "", ox, oy, seg.Args[1])
			case sfnt.SegmentOpCubeTo:
				writePoint(b, "C", ox, oy, seg.Args[0])
				writePoint(b, "", ox, oy, seg.Args[1])
				writePoint(b, "", ox, oy, seg.Args[2])
			}
		}
		if open {
			b.WriteString("Z")
		}
		adv, err := s.font.GlyphAdvance(&s.buf, gi, em, font.HintingNone)
		if err != nil {
			return err
		}
		pen += adv
		prev = gi
	}
	return nil
}

func writePoint(b *strings.Builder, cmd string, ox, oy float64, p fixed.Point26_6) {
	if cmd != "" {
		b.WriteString(cmd)
	} else {
		b.WriteByte(' ')
	}
	b.WriteString(num(ox + toFloat(p.X)))
	b.WriteByte(' ')
	b.WriteString(num(oy + toFloat(p.Y)))
}

// num formats v with at most two decimals so output is stable.
func num(v float64) string {
	return strconv.FormatFloat(math.Round(v*100)/100, 'f', -1, 64)
}
