package main

import (
	"errors"
	"os"

	"github.com/eringen/ogcards"
)

// Exit codes follow Unix conventions: 0=success, 1=general, 2=usage.
const (
	ExitSuccess = 0 // Success
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags or config
	ExitIO      = 3 // Missing font, content or output not writable
)

// exitCodeFor maps an error to an exit code using errors.Is, so callers
// must wrap with %w.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, ogcards.ErrConfigNotFound) ||
		errors.Is(err, ogcards.ErrConfigParse) ||
		errors.Is(err, ogcards.ErrInvalidConfig) ||
		errors.Is(err, ogcards.ErrPathNotFound) {
		return ExitUsage
	}

	if errors.Is(err, ogcards.ErrFontLoad) ||
		errors.Is(err, ogcards.ErrInvalidFrontmatter) ||
		errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) {
		return ExitIO
	}

	return ExitGeneral
}
