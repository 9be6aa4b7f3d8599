package ogcards

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font/opentype"

	"github.com/eringen/ogcards/markup"
	"github.com/eringen/ogcards/theme"
)

// Colors used when the theme cannot supply one.
const (
	FallbackBackground = "#1a1a1a"
	FallbackForeground = "#ffffff"
	FallbackAccent     = "#3b82f6"
)

// FontName is the family name cards are laid out with.
const FontName = "JetBrains Mono"

// CardTheme holds the three colors a card is painted with.
type CardTheme struct {
	Background string
	Foreground string
	Accent     string
}

// WithFallbacks fills every empty field with its fallback color.
func (t CardTheme) WithFallbacks() CardTheme {
	if t.Background == "" {
		t.Background = FallbackBackground
	}
	if t.Foreground == "" {
		t.Foreground = FallbackForeground
	}
	if t.Accent == "" {
		t.Accent = FallbackAccent
	}
	return t
}

// AvatarAsset is an avatar image ready to embed in a card.
type AvatarAsset struct {
	Data    []byte
	DataURI string
}

// Presentation is the site-wide input shared by every card render.
// It is never modified after construction.
type Presentation struct {
	Font   []byte
	Theme  CardTheme    // always fully populated
	Avatar *AvatarAsset // nil when no usable avatar is configured
}

// ThemeResolver looks up color styles for theme identifiers with
// overrides applied. *theme.Manager implements it.
type ThemeResolver interface {
	ResolveColors(ctx context.Context, ids []string, overrides map[string]theme.ColorStyles) (map[string]theme.ColorStyles, error)
}

// ResolvePresentation loads the font, avatar and theme colors. Only a
// missing or unreadable font is an error; avatar and theme problems
// degrade to no avatar and fallback colors.
func ResolvePresentation(ctx context.Context, cfg SiteConfig, themes ThemeResolver) (*Presentation, error) {
	font, err := LoadFont(cfg.FontPath)
	if err != nil {
		return nil, err
	}
	return &Presentation{
		Font:   font,
		Theme:  ResolveTheme(ctx, cfg.Themes, themes),
		Avatar: LoadAvatar(cfg.SocialCardAvatarImage),
	}, nil
}

// LoadFont reads a TrueType or OpenType font and checks that it parses.
func LoadFont(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFontLoad, err)
	}
	if _, err := opentype.Parse(data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFontLoad, path, err)
	}
	return data, nil
}

// LoadAvatar returns the avatar at path, or nil when the path is empty,
// does not name a regular file, or is not a .jpg/.jpeg image.
func LoadAvatar(path string) *AvatarAsset {
	if path == "" {
		return nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
	default:
		return nil
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read avatar %s: %v", path, err)
		return nil
	}
	return &AvatarAsset{
		Data:    data,
		DataURI: markup.DataURI("image/jpeg", data),
	}
}

// ResolveTheme returns the default theme's colors. Resolution failures
// are logged and every missing color falls back to its constant.
func ResolveTheme(ctx context.Context, cfg ThemesConfig, themes ThemeResolver) CardTheme {
	name := cfg.DefaultTheme()
	if themes == nil {
		log.Printf("Warning: failed to resolve theme colors for %s: no theme resolver", name)
		return CardTheme{}.WithFallbacks()
	}
	styles, err := themes.ResolveColors(ctx, []string{name}, cfg.Overrides)
	if err != nil {
		log.Printf("Warning: failed to resolve theme colors for %s: %v", name, err)
		return CardTheme{}.WithFallbacks()
	}
	c, ok := styles[name]
	if !ok {
		log.Printf("Warning: failed to resolve theme colors for %s: %v", name, ErrThemeColorMissing)
		return CardTheme{}.WithFallbacks()
	}
	if missing := c.Missing(); len(missing) > 0 {
		log.Printf("Warning: theme %s: %v: %s", name, ErrThemeColorMissing, strings.Join(missing, ", "))
	}
	return CardTheme{
		Background: c.Background,
		Foreground: c.Foreground,
		Accent:     c.Accent,
	}.WithFallbacks()
}

// LazyPresentation resolves a Presentation on first use. Concurrent
// first callers share a single resolution and its result.
type LazyPresentation struct {
	get func() (*Presentation, error)
}

// NewLazyPresentation wraps load so it runs at most once.
func NewLazyPresentation(load func() (*Presentation, error)) *LazyPresentation {
	return &LazyPresentation{get: sync.OnceValues(load)}
}

// Get returns the resolved presentation.
func (l *LazyPresentation) Get() (*Presentation, error) {
	return l.get()
}
