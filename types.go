package ogcards

import "time"

// DefaultSlug names the synthetic card rendered from site-level settings.
const DefaultSlug = "__default"

// Post is the subset of a blog post a card needs.
type Post struct {
	ID        string
	Title     string
	Author    string    // empty means the site author
	Published time.Time // zero when unset
	Draft     bool
}

// CardRequest is the input to a single card render.
type CardRequest struct {
	Title   string  `json:"title"`
	PubDate *string `json:"pubDate,omitempty"` // nil when the post has no date
	Author  string  `json:"author"`
}

// StaticPath maps one output slug to the props its card is rendered with.
type StaticPath struct {
	Slug  string      `json:"slug"`
	Props CardRequest `json:"props"`
}
