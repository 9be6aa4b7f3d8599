package theme

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log"
	"path"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

//go:embed themes/*.json
var builtinFS embed.FS

// Builtin returns the themes shipped with the binary.
func Builtin() fs.FS {
	sub, err := fs.Sub(builtinFS, "themes")
	if err != nil {
		panic(err)
	}
	return sub
}

// accentKeys are tried in order to pick a theme's accent color.
var accentKeys = []string{
	`colors.textLink\.foreground`,
	`colors.focusBorder`,
	`colors.button\.background`,
}

// Manager holds parsed theme definitions.
type Manager struct {
	themes map[string]*Theme
	names  []string
}

// NewManager loads every *.json theme at the root of each source. Later
// sources replace themes of the same name from earlier ones.
func NewManager(sources ...fs.FS) (*Manager, error) {
	m := &Manager{themes: make(map[string]*Theme)}
	for _, src := range sources {
		if err := m.load(src); err != nil {
			return nil, fmt.Errorf("load themes: %w", err)
		}
	}
	m.names = make([]string, 0, len(m.themes))
	for name := range m.themes {
		m.names = append(m.names, name)
	}
	sort.Strings(m.names)
	log.Printf("Loaded %d themes: %s", len(m.names), strings.Join(m.names, ", "))
	return m, nil
}

func (m *Manager) load(src fs.FS) error {
	entries, err := fs.ReadDir(src, ".")
	if err != nil {
		return fmt.Errorf("read themes directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := fs.ReadFile(src, entry.Name())
		if err != nil {
			log.Printf("Warning: failed to read theme %s: %v", entry.Name(), err)
			continue
		}
		t, err := Parse(data)
		if err != nil {
			log.Printf("Warning: skipping theme %s: %v", entry.Name(), err)
			continue
		}
		if t.Name == "" {
			t.Name = strings.TrimSuffix(entry.Name(), ".json")
		}
		m.themes[t.Name] = t
	}
	return nil
}

// Parse reads a VS Code style theme document.
func Parse(data []byte) (*Theme, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidTheme
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrInvalidTheme
	}
	t := &Theme{
		Name: doc.Get("name").String(),
		Type: doc.Get("type").String(),
		Colors: ColorStyles{
			Background: doc.Get(`colors.editor\.background`).String(),
			Foreground: doc.Get(`colors.editor\.foreground`).String(),
		},
	}
	for _, key := range accentKeys {
		if v := doc.Get(key); v.Exists() && v.String() != "" {
			t.Colors.Accent = v.String()
			break
		}
	}
	return t, nil
}

// Get returns a theme by name, or nil if not found.
func (m *Manager) Get(name string) *Theme {
	return m.themes[name]
}

// List returns all theme names in sorted order.
func (m *Manager) List() []string {
	return m.names
}

// ResolveColors returns the color styles for each requested theme with
// overrides applied field by field. An unknown theme fails the whole call.
func (m *Manager) ResolveColors(ctx context.Context, ids []string, overrides map[string]ColorStyles) (map[string]ColorStyles, error) {
	out := make(map[string]ColorStyles, len(ids))
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t := m.themes[id]
		if t == nil {
			return nil, fmt.Errorf("%w: %q", ErrThemeNotFound, id)
		}
		out[id] = t.Colors.Merge(overrides[id])
	}
	return out, nil
}
