package theme

import "errors"

// Sentinel errors for theme resolution.
var (
	ErrThemeNotFound = errors.New("theme not found")
	ErrInvalidTheme  = errors.New("invalid theme definition")
)

// ColorStyles holds the three colors a card needs from a theme.
// Empty fields are unset.
type ColorStyles struct {
	Background string `yaml:"background" json:"background,omitempty"`
	Foreground string `yaml:"foreground" json:"foreground,omitempty"`
	Accent     string `yaml:"accent" json:"accent,omitempty"`
}

// Merge returns c with every non-empty field of over applied on top.
func (c ColorStyles) Merge(over ColorStyles) ColorStyles {
	if over.Background != "" {
		c.Background = over.Background
	}
	if over.Foreground != "" {
		c.Foreground = over.Foreground
	}
	if over.Accent != "" {
		c.Accent = over.Accent
	}
	return c
}

// Missing lists the names of unset fields.
func (c ColorStyles) Missing() []string {
	var out []string
	if c.Background == "" {
		out = append(out, "background")
	}
	if c.Foreground == "" {
		out = append(out, "foreground")
	}
	if c.Accent == "" {
		out = append(out, "accent")
	}
	return out
}

// Theme is a parsed theme definition.
type Theme struct {
	Name   string
	Type   string // "dark" or "light"
	Colors ColorStyles
}
