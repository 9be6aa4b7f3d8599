package ogcards

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"
)

// CardsDir is the directory cards are served from and written to.
const CardsDir = "social-cards"

// BuildOptions controls a static build.
type BuildOptions struct {
	Pipeline *Pipeline
	Paths    []StaticPath
	OutDir   string
	Workers  int // concurrent renders; <= 0 means one
}

// BuildReport summarizes a static build.
type BuildReport struct {
	Cards     int
	Fallbacks int
	Bytes     int64
	Elapsed   time.Duration
}

func (r BuildReport) String() string {
	return fmt.Sprintf("%s cards (%d fallback), %s in %s",
		humanize.Comma(int64(r.Cards)), r.Fallbacks, humanize.Bytes(uint64(r.Bytes)), r.Elapsed.Round(time.Millisecond))
}

// CardFile returns the output path of the card for slug.
func CardFile(outDir, slug string) string {
	return filepath.Join(outDir, CardsDir, filepath.FromSlash(slug)+".png")
}

// Build renders every path and writes <OutDir>/social-cards/<slug>.png.
// Render failures produce the fallback image and are counted; only
// filesystem errors fail the build.
func Build(ctx context.Context, opts BuildOptions) (BuildReport, error) {
	start := time.Now()
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var cards, fallbacks atomic.Int64
	var written atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, p := range opts.Paths {
		g.Go(func() error {
			if !filepath.IsLocal(filepath.FromSlash(p.Slug)) {
				return fmt.Errorf("write card %q: slug escapes output directory", p.Slug)
			}
			res := opts.Pipeline.Render(ctx, p.Props)
			if res.Kind == Fallback {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				log.Printf("Warning: card %s: %v", p.Slug, res.Reason)
				fallbacks.Add(1)
			}
			data := res.Bytes()
			file := CardFile(opts.OutDir, p.Slug)
			if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
				return err
			}
			if err := os.WriteFile(file, data, 0o644); err != nil {
				return fmt.Errorf("write card %s: %w", p.Slug, err)
			}
			cards.Add(1)
			written.Add(int64(len(data)))
			return nil
		})
	}
	err := g.Wait()

	report := BuildReport{
		Cards:     int(cards.Load()),
		Fallbacks: int(fallbacks.Load()),
		Bytes:     written.Load(),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		return report, err
	}
	log.Printf("Built %s", report)
	return report, nil
}
