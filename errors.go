package ogcards

import "errors"

// Sentinel errors for library operations.
var (
	// Presentation errors.
	ErrFontLoad          = errors.New("font could not be loaded")
	ErrThemeColorMissing = errors.New("theme colors missing")

	// Render pipeline errors.
	ErrLayout = errors.New("layout stage failed")
	ErrRaster = errors.New("raster stage failed")
	ErrPanic  = errors.New("render stage panicked")

	// Configuration errors.
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config")
	ErrInvalidConfig  = errors.New("invalid config")

	// Content errors.
	ErrInvalidFrontmatter = errors.New("invalid frontmatter")
	ErrPathNotFound       = errors.New("no card for slug")
)
