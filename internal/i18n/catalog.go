// Package i18n substitutes translated text into the TUI's registered
// elements and remembers the chosen language.
package i18n

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var embedded embed.FS

// ErrUnknownLanguage is returned when a code has no locale table.
var ErrUnknownLanguage = errors.New("i18n: unknown language")

// Catalog maps a language code to its nested translation table.
type Catalog map[string]map[string]any

// LoadEmbedded returns the built-in catalog.
func LoadEmbedded() (Catalog, error) {
	c := Catalog{}
	if err := c.mergeFS(embedded, "locales"); err != nil {
		return nil, fmt.Errorf("load embedded locales: %w", err)
	}
	return c, nil
}

// Load returns the built-in catalog with dir's *.yaml files merged on top.
// An empty dir or a missing directory yields the built-in catalog.
func Load(dir string) (Catalog, error) {
	c, err := LoadEmbedded()
	if err != nil {
		return nil, err
	}
	if dir == "" {
		return c, nil
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return c, nil
	}
	if err := c.mergeFS(os.DirFS(dir), "."); err != nil {
		return nil, fmt.Errorf("load locales from %s: %w", dir, err)
	}
	return c, nil
}

func (c Catalog) mergeFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".yaml" {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.ToSlash(filepath.Join(dir, e.Name())))
		if err != nil {
			return err
		}
		var table map[string]any
		if err := yaml.Unmarshal(data, &table); err != nil {
			return fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		code := strings.TrimSuffix(e.Name(), ".yaml")
		if c[code] == nil {
			c[code] = map[string]any{}
		}
		mergeTable(c[code], table)
	}
	return nil
}

// mergeTable copies src into dst, descending into nested tables.
func mergeTable(dst, src map[string]any) {
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if !ok {
			dst[k] = v
			continue
		}
		cur, ok := dst[k].(map[string]any)
		if !ok {
			cur = map[string]any{}
			dst[k] = cur
		}
		mergeTable(cur, sub)
	}
}

// Languages returns the catalog's codes in sorted order.
func (c Catalog) Languages() []string {
	return slices.Sorted(maps.Keys(c))
}

func (c Catalog) Has(lang string) bool {
	_, ok := c[lang]
	return ok
}

// Lookup walks the dotted key through lang's table. A missing, empty or
// non-string value yields the key itself.
func (c Catalog) Lookup(lang, key string) string {
	var node any = c[lang]
	for _, part := range strings.Split(key, ".") {
		m, ok := node.(map[string]any)
		if !ok {
			return key
		}
		node = m[part]
	}
	s, ok := node.(string)
	if !ok || s == "" {
		return key
	}
	return s
}
