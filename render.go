package ogcards

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Cache-Control value for card images. Cards for a given slug never
// change within a deployment.
const immutableCache = "public, max-age=31536000, immutable"

// Render writes a templ component as an HTTP 200 HTML response.
func Render(c echo.Context, cmp templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(http.StatusOK)
	return cmp.Render(c.Request().Context(), c.Response().Writer)
}

// RenderPNG writes card image bytes with long-lived caching headers.
func RenderPNG(c echo.Context, data []byte) error {
	c.Response().Header().Set("Cache-Control", immutableCache)
	return c.Blob(http.StatusOK, "image/png", data)
}
