package ogcards

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/eringen/ogcards/theme"
)

// AutoTheme selects the first included theme as the default.
const AutoTheme = "auto"

// SiteConfig holds all configuration for card generation.
type SiteConfig struct {
	Title                 string       `yaml:"title"`                    // Site title (default "Blog")
	Author                string       `yaml:"author"`                   // Default author for posts without one
	URL                   string       `yaml:"url"`                      // Canonical URL (default "http://localhost:3000")
	SocialCardAvatarImage string       `yaml:"social_card_avatar_image"` // Optional .jpg/.jpeg avatar
	FontPath              string       `yaml:"font_path"`                // JetBrains Mono TTF (required)
	Themes                ThemesConfig `yaml:"themes"`

	ContentDir   string `yaml:"content_dir"`   // Markdown posts with YAML frontmatter
	DatabasePath string `yaml:"database_path"` // SQLite post store; replaces ContentDir when set

	Addr          string        `yaml:"addr"`           // Listen address (default ":3000")
	OutDir        string        `yaml:"out_dir"`        // Static build output (default "dist")
	Workers       int           `yaml:"workers"`        // Parallel renders during build (default 1)
	PostCacheTTL  time.Duration `yaml:"post_cache_ttl"` // Post cache TTL (default 5m)
	RenderTimeout time.Duration `yaml:"render_timeout"` // Per-card render budget (0 = none)
}

// ThemesConfig selects the theme cards take their colors from.
type ThemesConfig struct {
	Default   string                       `yaml:"default"`   // Theme name or "auto"
	Include   []string                     `yaml:"include"`   // Ordered list; "auto" picks the first
	Overrides map[string]theme.ColorStyles `yaml:"overrides"` // Per-theme color overrides
	Dir       string                       `yaml:"dir"`       // Extra theme definitions (*.json)
}

// DefaultTheme resolves "auto" to the first included theme.
func (t ThemesConfig) DefaultTheme() string {
	if t.Default == AutoTheme {
		if len(t.Include) == 0 {
			return ""
		}
		return t.Include[0]
	}
	return t.Default
}

func (c *SiteConfig) setDefaults() {
	if c.Title == "" {
		c.Title = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.FontPath == "" {
		c.FontPath = "fonts/JetBrainsMono-Regular.ttf"
	}
	if c.Themes.Default == "" {
		c.Themes.Default = AutoTheme
	}
	if len(c.Themes.Include) == 0 {
		c.Themes.Include = []string{"github-dark"}
	}
	if c.ContentDir == "" && c.DatabasePath == "" {
		c.ContentDir = "content/posts"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.OutDir == "" {
		c.OutDir = "dist"
	}
	if c.Workers <= 0 {
		c.Workers = 1
	}
	if c.PostCacheTTL == 0 {
		c.PostCacheTTL = 5 * time.Minute
	}
}

// applyEnv lets deployment environments override file settings.
func (c *SiteConfig) applyEnv() {
	c.URL = EnvOr("OGCARDS_SITE_URL", c.URL)
	c.Addr = EnvOr("OGCARDS_ADDR", c.Addr)
	c.FontPath = EnvOr("OGCARDS_FONT_PATH", c.FontPath)
	c.DatabasePath = EnvOr("OGCARDS_DATABASE_PATH", c.DatabasePath)
	c.OutDir = EnvOr("OGCARDS_OUT_DIR", c.OutDir)
}

// Validate checks that the configuration can produce cards.
func (c *SiteConfig) Validate() error {
	if c.FontPath == "" {
		return fmt.Errorf("%w: font_path is required", ErrInvalidConfig)
	}
	if c.Themes.DefaultTheme() == "" {
		return fmt.Errorf("%w: themes.default is \"auto\" but themes.include is empty", ErrInvalidConfig)
	}
	if c.ContentDir != "" && c.DatabasePath != "" {
		return fmt.Errorf("%w: content_dir and database_path are mutually exclusive", ErrInvalidConfig)
	}
	if c.RenderTimeout < 0 {
		return fmt.Errorf("%w: render_timeout must not be negative", ErrInvalidConfig)
	}
	return nil
}

// LoadConfig reads a YAML site configuration, applies environment
// overrides and defaults, and validates the result.
func LoadConfig(path string) (SiteConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return SiteConfig{}, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return SiteConfig{}, fmt.Errorf("read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes YAML configuration bytes.
func ParseConfig(data []byte) (SiteConfig, error) {
	var cfg SiteConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return SiteConfig{}, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	cfg.applyEnv()
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return SiteConfig{}, err
	}
	return cfg, nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers a function that adds routes to the Echo
// instance after the built-in routes are set up.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithPostSource replaces the configured content directory or database
// as the source of posts.
func WithPostSource(src PostSource) Option {
	return func(a *App) {
		a.source = src
	}
}

// WithThemeManager replaces the theme manager built from the embedded
// themes and themes.dir.
func WithThemeManager(m *theme.Manager) Option {
	return func(a *App) {
		a.Themes = m
	}
}

// WithRenderer replaces the layout engine and rasterizer cards are
// rendered with. A nil stage keeps the built-in one.
func WithRenderer(l LayoutEngine, r Rasterizer) Option {
	return func(a *App) {
		a.layout = l
		a.raster = r
	}
}

// WithPresentation supplies an already resolved presentation, skipping
// font, avatar and theme loading.
func WithPresentation(p *Presentation) Option {
	return func(a *App) {
		a.presentation = NewLazyPresentation(func() (*Presentation, error) { return p, nil })
	}
}
