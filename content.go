package ogcards

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

// contentExts are the file types read as posts.
var contentExts = map[string]bool{".md": true, ".mdx": true, ".markdown": true}

var markdown = goldmark.New()

// dateLayouts are accepted for the published frontmatter field.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ContentDir reads posts from markdown files with YAML frontmatter. A
// post's ID is its path relative to the directory without the extension.
type ContentDir struct {
	fsys fs.FS
	root string
}

// NewContentDir returns a post source over the directory at root.
func NewContentDir(root string) *ContentDir {
	return &ContentDir{fsys: os.DirFS(root), root: root}
}

// Root returns the directory the posts are read from.
func (c *ContentDir) Root() string {
	return c.root
}

type frontmatter struct {
	Title     string `yaml:"title"`
	Author    string `yaml:"author"`
	Published string `yaml:"published"`
	Draft     bool   `yaml:"draft"`
}

// SortedPosts returns non-draft posts, newest first. Undated posts come
// last; ties are broken by ID.
func (c *ContentDir) SortedPosts(ctx context.Context) ([]Post, error) {
	var posts []Post
	err := fs.WalkDir(c.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".") || !contentExts[path.Ext(p)] {
			return nil
		}
		data, err := fs.ReadFile(c.fsys, p)
		if err != nil {
			return err
		}
		post, err := ParsePost(strings.TrimSuffix(p, path.Ext(p)), data)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		if !post.Draft {
			posts = append(posts, post)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", c.root, err)
	}
	SortPosts(posts)
	return posts, nil
}

// ParsePost reads the frontmatter of one markdown document.
func ParsePost(id string, data []byte) (Post, error) {
	data = bytes.TrimLeft(data, "\ufeff \t\r\n")
	if !bytes.HasPrefix(data, []byte("---")) {
		return Post{}, fmt.Errorf("%w: missing --- delimiters", ErrInvalidFrontmatter)
	}
	parts := bytes.SplitN(data, []byte("---"), 3)
	if len(parts) < 3 {
		return Post{}, fmt.Errorf("%w: missing --- delimiters", ErrInvalidFrontmatter)
	}

	var fm frontmatter
	if err := yaml.Unmarshal(parts[1], &fm); err != nil {
		return Post{}, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		fm.Title = firstHeading(parts[2])
	}
	if fm.Title == "" {
		return Post{}, fmt.Errorf("%w: missing required field: title", ErrInvalidFrontmatter)
	}

	p := Post{ID: id, Title: fm.Title, Author: fm.Author, Draft: fm.Draft}
	if fm.Published != "" {
		t, err := parseDate(fm.Published)
		if err != nil {
			return Post{}, fmt.Errorf("%w: published: %v", ErrInvalidFrontmatter, err)
		}
		p.Published = t
	}
	return p, nil
}

// firstHeading returns the text of the first level-1 heading in a
// markdown body, or "".
func firstHeading(body []byte) string {
	doc := markdown.Parser().Parse(text.NewReader(body))
	var title string
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if h, ok := n.(*ast.Heading); ok && entering && h.Level == 1 {
			var b strings.Builder
			inlineText(&b, h, body)
			title = strings.TrimSpace(b.String())
			return ast.WalkStop, nil
		}
		return ast.WalkContinue, nil
	})
	return title
}

func inlineText(b *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch t := c.(type) {
		case *ast.Text:
			b.Write(t.Segment.Value(src))
			if t.SoftLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(t.Value)
		default:
			inlineText(b, c, src)
		}
	}
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// SortPosts orders posts newest first with undated posts last, breaking
// ties by ID.
func SortPosts(posts []Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		a, b := posts[i], posts[j]
		if a.Published.IsZero() != b.Published.IsZero() {
			return !a.Published.IsZero()
		}
		if !a.Published.Equal(b.Published) {
			return a.Published.After(b.Published)
		}
		return a.ID < b.ID
	})
}
