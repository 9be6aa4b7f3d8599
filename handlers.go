package ogcards

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/labstack/echo/v4"
)

// handleCard serves /social-cards/<slug>.png. Unknown slugs are 404;
// known slugs always get a PNG, falling back to the placeholder.
func (a *App) handleCard(c echo.Context) error {
	raw, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return echo.ErrNotFound
	}
	slug, ok := strings.CutSuffix(raw, ".png")
	if !ok || slug == "" {
		return echo.ErrNotFound
	}

	ctx := c.Request().Context()
	paths, err := a.StaticPaths(ctx)
	if err != nil {
		return err
	}
	path, err := FindPath(paths, slug)
	if err != nil {
		return echo.ErrNotFound
	}

	pipeline, err := a.Pipeline()
	if err != nil {
		c.Logger().Errorf("Failed to generate social card: %v", err)
		return RenderPNG(c, FallbackPNG())
	}
	res := pipeline.Render(ctx, path.Props)
	return RenderPNG(c, res.Bytes())
}

func (a *App) handleGallery(c echo.Context) error {
	paths, err := a.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	return Render(c, Gallery(a.Config, paths))
}

func (a *App) handleGalleryCSS(c echo.Context) error {
	data, err := EmbeddedAssets.ReadFile("embedded/gallery.css")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "text/css; charset=utf-8", data)
}

func (a *App) handleSitemap(c echo.Context) error {
	paths, err := a.StaticPaths(c.Request().Context())
	if err != nil {
		return err
	}
	return a.renderSitemap(c, paths)
}

func (a *App) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": a.Live.Clients(),
	})
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
	}
	// Errors must not inherit the long-lived caching set for successful responses.
	c.Response().Header().Set("Cache-Control", "no-store")
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
