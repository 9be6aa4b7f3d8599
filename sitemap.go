package ogcards

import (
	"encoding/xml"
	"net/http"

	"github.com/labstack/echo/v4"
)

// Image sitemap listing every card, so crawlers can discover them
// without fetching the pages that reference them.
type sitemapURLSet struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URLs       []sitemapURL `xml:"url"`
}

type sitemapURL struct {
	Loc   string       `xml:"loc"`
	Image sitemapImage `xml:"image:image"`
}

type sitemapImage struct {
	Loc   string `xml:"image:loc"`
	Title string `xml:"image:title,omitempty"`
}

func (a *App) renderSitemap(c echo.Context, paths []StaticPath) error {
	base := a.Config.URL
	urls := make([]sitemapURL, 0, len(paths))
	for _, p := range paths {
		urls = append(urls, sitemapURL{
			Loc: PostURL(base, p.Slug),
			Image: sitemapImage{
				Loc:   CardURL(base, p.Slug),
				Title: p.Props.Title,
			},
		})
	}
	sitemap := sitemapURLSet{
		XMLNS:      "http://www.sitemaps.org/schemas/sitemap/0.9",
		XMLNSImage: "http://www.google.com/schemas/sitemap-image/1.1",
		URLs:       urls,
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(sitemap)
}
