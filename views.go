package ogcards

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

// liveReloadScript reloads the page when the server reports a content change.
const liveReloadScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss:" : "ws:";
  var ws = new WebSocket(proto + "//" + location.host + "/social-cards/live");
  ws.onmessage = function (ev) {
    if (JSON.parse(ev.data).type === "reload") location.reload();
  };
})();
</script>`

// Gallery is an HTML page previewing every card.
func Gallery(cfg SiteConfig, paths []StaticPath) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		b.WriteString(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		b.WriteString(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, `<title>%s social cards</title>`, templ.EscapeString(cfg.Title))
		b.WriteString(`<link rel="stylesheet" href="/social-cards/gallery.css"></head><body>`)
		fmt.Fprintf(&b, `<h1>%s: %d cards</h1><ul class="cards">`, templ.EscapeString(cfg.Title), len(paths))
		for _, p := range paths {
			galleryItem(&b, p)
		}
		b.WriteString(`</ul>`)
		b.WriteString(liveReloadScript)
		b.WriteString(`</body></html>`)
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func galleryItem(b *strings.Builder, p StaticPath) {
	src := CardPath(p.Slug)
	b.WriteString(`<li class="card">`)
	fmt.Fprintf(b, `<a href="%s"><img src="%s" alt="%s" loading="lazy" width="1200" height="630"></a>`,
		templ.EscapeString(src), templ.EscapeString(src), templ.EscapeString(p.Props.Title))
	b.WriteString(`<p><code>` + templ.EscapeString(p.Slug) + `</code>`)
	if p.Props.PubDate != nil {
		b.WriteString(` · ` + templ.EscapeString(*p.Props.PubDate))
	}
	if p.Props.Author != "" {
		b.WriteString(` · ` + templ.EscapeString(p.Props.Author))
	}
	b.WriteString(`</p></li>`)
}
