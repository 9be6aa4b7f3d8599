// Package ogcards renders 1200×630 social-preview cards for blog posts.
//
// A card is composed as a markup tree from the post's title, date and
// author plus site-wide presentation (font, theme colors, avatar), laid
// out to SVG and rasterized to PNG. Rendering never fails from the
// caller's point of view: any error yields a fixed placeholder image.
//
// Cards can be served over HTTP with App or written to disk with Build.
package ogcards

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/ogcards/theme"
)

// App wires together the post source, theme manager, presentation
// and HTTP routes.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Themes *theme.Manager
	Store  *Store // nil unless posts come from database_path
	Cache  *PostCache
	Live   *LiveReload

	source       PostSource
	presentation *LazyPresentation
	layout       LayoutEngine
	raster       Rasterizer
	customRoutes []func(*App)
}

// New creates a new App with the given configuration.
func New(cfg SiteConfig, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config: cfg,
		Echo:   echo.New(),
		Live:   NewLiveReload(),
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Init opens the post source and themes and prepares presentation
// loading. It does not register HTTP routes.
func (a *App) Init() error {
	if err := a.Config.Validate(); err != nil {
		return fmt.Errorf("ogcards: %w", err)
	}

	if a.Themes == nil {
		sources := []fs.FS{theme.Builtin()}
		if a.Config.Themes.Dir != "" {
			sources = append(sources, os.DirFS(a.Config.Themes.Dir))
		}
		m, err := theme.NewManager(sources...)
		if err != nil {
			return fmt.Errorf("ogcards: init themes: %w", err)
		}
		a.Themes = m
	}

	if a.source == nil {
		if a.Config.DatabasePath != "" {
			store, err := NewStore(a.Config.DatabasePath)
			if err != nil {
				return fmt.Errorf("ogcards: init store: %w", err)
			}
			a.Store = store
			a.source = store
		} else {
			a.source = NewContentDir(a.Config.ContentDir)
		}
	}
	a.Cache = NewPostCache(a.source, a.Config.PostCacheTTL)

	if a.presentation == nil {
		a.presentation = NewLazyPresentation(func() (*Presentation, error) {
			return ResolvePresentation(context.Background(), a.Config, a.Themes)
		})
	}
	return nil
}

// Presentation returns the site presentation, resolving it on first use.
func (a *App) Presentation() (*Presentation, error) {
	return a.presentation.Get()
}

// Pipeline returns a render pipeline over the site presentation. Every
// call renders afresh; cards are not kept between requests.
func (a *App) Pipeline() (*Pipeline, error) {
	p, err := a.Presentation()
	if err != nil {
		return nil, err
	}
	pipeline := NewPipeline(p)
	pipeline.Timeout = a.Config.RenderTimeout
	if a.layout != nil {
		pipeline.Layout = a.layout
	}
	if a.raster != nil {
		pipeline.Raster = a.raster
	}
	return pipeline, nil
}

// StaticPaths lists every card the site has, read through the post cache.
func (a *App) StaticPaths(ctx context.Context) ([]StaticPath, error) {
	return StaticPaths(ctx, a.Cache, a.Config)
}

// Build renders every card to Config.OutDir.
func (a *App) Build(ctx context.Context) (BuildReport, error) {
	pipeline, err := a.Pipeline()
	if err != nil {
		return BuildReport{}, err
	}
	paths, err := a.StaticPaths(ctx)
	if err != nil {
		return BuildReport{}, err
	}
	return Build(ctx, BuildOptions{
		Pipeline: pipeline,
		Paths:    paths,
		OutDir:   a.Config.OutDir,
		Workers:  a.Config.Workers,
	})
}

// Handler sets up middleware and routes so the app can serve requests.
func (a *App) Handler() http.Handler {
	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a.Echo
}

// Start initializes the app, resolves the presentation so a bad font
// fails fast, and serves until ctx is done.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(); err != nil {
		return err
	}
	if _, err := a.Presentation(); err != nil {
		return fmt.Errorf("ogcards: %w", err)
	}
	a.Handler()

	if dir, ok := a.source.(*ContentDir); ok {
		go func() {
			if err := Watch(ctx, dir.Root(), Invalidators{a.Cache, a.Live}); err != nil {
				log.Printf("Warning: content watcher stopped: %v", err)
			}
		}()
	}

	errc := make(chan error, 1)
	go func() {
		errc <- a.Echo.Start(a.Config.Addr)
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return a.Echo.Shutdown(shutdownCtx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	e.GET("/healthz", a.handleHealth)

	e.GET("/social-cards/", a.handleGallery)
	e.GET("/social-cards/gallery.css", a.handleGalleryCSS)
	e.GET("/social-cards/sitemap.xml", a.handleSitemap)
	e.GET("/social-cards/live", a.Live.Handle)
	e.GET("/social-cards/*", a.handleCard)

	themes := theme.NewHandler(a.Themes, a.Config.Themes.Overrides)
	e.GET("/api/themes", echo.WrapHandler(http.HandlerFunc(themes.HandleList)))
	e.GET("/api/themes/colors", echo.WrapHandler(http.HandlerFunc(themes.HandleColors)))
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
