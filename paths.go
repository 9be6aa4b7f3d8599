package ogcards

import (
	"context"
	"fmt"
	"time"
)

// PostSource lists published posts in display order.
type PostSource interface {
	SortedPosts(ctx context.Context) ([]Post, error)
}

// DateString formats a publication date the way cards print it.
func DateString(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

// StaticPaths returns one card per post, in source order, followed by the
// site default card. Duplicate post IDs are passed through unchanged.
func StaticPaths(ctx context.Context, src PostSource, cfg SiteConfig) ([]StaticPath, error) {
	posts, err := src.SortedPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	paths := make([]StaticPath, 0, len(posts)+1)
	for _, p := range posts {
		paths = append(paths, StaticPath{Slug: p.ID, Props: CardProps(p, cfg)})
	}
	return append(paths, StaticPath{
		Slug:  DefaultSlug,
		Props: CardRequest{Title: cfg.Title, Author: cfg.Author},
	}), nil
}

// CardProps derives the card request for a single post.
func CardProps(p Post, cfg SiteConfig) CardRequest {
	req := CardRequest{Title: p.Title, Author: p.Author}
	if req.Author == "" {
		req.Author = cfg.Author
	}
	if !p.Published.IsZero() {
		d := DateString(p.Published)
		req.PubDate = &d
	}
	return req
}

// FindPath returns the path with slug. When slugs repeat the first wins.
func FindPath(paths []StaticPath, slug string) (StaticPath, error) {
	for _, p := range paths {
		if p.Slug == slug {
			return p, nil
		}
	}
	return StaticPath{}, fmt.Errorf("%w: %q", ErrPathNotFound, slug)
}
