package ogcards

import "embed"

// EmbeddedAssets contains static assets served by the app: gallery.css
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
