package theme

import (
	"encoding/json"
	"errors"
	"net/http"
)

// Handler serves theme color information over HTTP.
type Handler struct {
	manager   *Manager
	overrides map[string]ColorStyles
}

// NewHandler creates a new theme handler. Overrides are applied the same
// way card rendering applies them.
func NewHandler(manager *Manager, overrides map[string]ColorStyles) *Handler {
	return &Handler{
		manager:   manager,
		overrides: overrides,
	}
}

// HandleList returns the available theme names.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_ = json.NewEncoder(w).Encode(h.manager.List())
}

// HandleColors returns the resolved colors for the theme named by the
// "theme" query parameter.
func (h *Handler) HandleColors(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("theme")
	if name == "" {
		http.Error(w, "theme parameter required", http.StatusBadRequest)
		return
	}

	colors, err := h.manager.ResolveColors(r.Context(), []string{name}, h.overrides)
	if err != nil {
		if errors.Is(err, ErrThemeNotFound) {
			http.Error(w, "theme not found", http.StatusNotFound)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_ = json.NewEncoder(w).Encode(colors[name])
}
