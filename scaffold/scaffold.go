// Package scaffold provides embedded template files for `ogcards init`.
package scaffold

import "embed"

// Templates contains the starter configuration and sample post.
// Files use Go text/template syntax and have a .tmpl suffix.
//
//go:embed all:templates
var Templates embed.FS
