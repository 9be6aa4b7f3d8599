package ogcards

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func TestParseConfig(t *testing.T) {
	data := []byte(`
title: Notes
author: Ann
url: https://example.com/
font_path: fonts/mono.ttf
social_card_avatar_image: avatar.jpg
themes:
  default: auto
  include: [nord, github-dark]
  overrides:
    nord:
      accent: "#ff0000"
render_timeout: 2s
`)
	cfg, err := ParseConfig(data)
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.URL != "https://example.com" {
		t.Errorf("URL = %q, trailing slash should be trimmed", cfg.URL)
	}
	if got := cfg.Themes.DefaultTheme(); got != "nord" {
		t.Errorf("DefaultTheme() = %q, want nord", got)
	}
	if got := cfg.Themes.Overrides["nord"].Accent; got != "#ff0000" {
		t.Errorf("nord accent override = %q", got)
	}
	if cfg.RenderTimeout != 2*time.Second {
		t.Errorf("RenderTimeout = %v", cfg.RenderTimeout)
	}
	if cfg.ContentDir != "content/posts" || cfg.Addr != ":3000" || cfg.OutDir != "dist" {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Workers != 1 || cfg.PostCacheTTL != 5*time.Minute {
		t.Errorf("Workers = %d, PostCacheTTL = %v", cfg.Workers, cfg.PostCacheTTL)
	}
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte("{}"))
	if err != nil {
		t.Fatalf("ParseConfig: %v", err)
	}
	if cfg.Title != "Blog" || cfg.FontPath != "fonts/JetBrainsMono-Regular.ttf" {
		t.Errorf("defaults = %+v", cfg)
	}
	if got := cfg.Themes.DefaultTheme(); got != "github-dark" {
		t.Errorf("DefaultTheme() = %q, want github-dark", got)
	}
}

func TestParseConfigEnv(t *testing.T) {
	t.Setenv("OGCARDS_SITE_URL", "https://env.example/")
	t.Setenv("OGCARDS_FONT_PATH", "/env/font.ttf")
	cfg, err := ParseConfig([]byte("url: https://file.example\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.URL != "https://env.example" || cfg.FontPath != "/env/font.ttf" {
		t.Errorf("env overrides not applied: URL %q, FontPath %q", cfg.URL, cfg.FontPath)
	}
}

func TestParseConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"bad yaml", "title: [", ErrConfigParse},
		{"both sources", "content_dir: posts\ndatabase_path: posts.db\n", ErrInvalidConfig},
		{"negative timeout", "render_timeout: -1s\n", ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseConfig([]byte(tt.data)); !errors.Is(err, tt.want) {
				t.Errorf("ParseConfig() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateEmptyInclude(t *testing.T) {
	cfg := SiteConfig{FontPath: "f.ttf", Themes: ThemesConfig{Default: AutoTheme}}
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Validate() error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "ogcards.yaml"))
	if !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("LoadConfig() error = %v, want ErrConfigNotFound", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeFile(t, "ogcards.yaml", []byte("title: From File\ndatabase_path: data/posts.db\n"))
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Title != "From File" || cfg.ContentDir != "" {
		t.Errorf("cfg = %+v, content_dir should stay empty when database_path is set", cfg)
	}
}

func TestEnvOr(t *testing.T) {
	t.Setenv("OGCARDS_TEST_VALUE", "set")
	if got := EnvOr("OGCARDS_TEST_VALUE", "fallback"); got != "set" {
		t.Errorf("EnvOr = %q, want set", got)
	}
	if got := EnvOr("OGCARDS_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("EnvOr = %q, want fallback", got)
	}
}
