// Package catalog holds the immutable set of categories entries refer to.
package catalog

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"gastos/internal/core"
)

var (
	ErrDuplicateKey = errors.New("duplicate category key")
	ErrInvalidColor = errors.New("invalid category color")
	ErrEmptyKey     = errors.New("empty category key")
	ErrEmptyTitle   = errors.New("empty category title")
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Catalog is a read-only, ordered mapping from key to CategoryDef. Build it
// once at startup and share it; nothing can modify it afterwards.
type Catalog struct {
	defs  []core.CategoryDef
	byKey map[string]int
}

// New validates defs and builds a catalog preserving their order.
func New(defs []core.CategoryDef) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]core.CategoryDef, 0, len(defs)),
		byKey: make(map[string]int, len(defs)),
	}
	for i, d := range defs {
		d.Key = strings.TrimSpace(d.Key)
		d.Title = strings.TrimSpace(d.Title)
		if d.Key == "" {
			return nil, fmt.Errorf("category %d: %w", i, ErrEmptyKey)
		}
		if d.Title == "" {
			return nil, fmt.Errorf("category %q: %w", d.Key, ErrEmptyTitle)
		}
		if !colorPattern.MatchString(d.ColorHex) {
			return nil, fmt.Errorf("category %q: %w: %q", d.Key, ErrInvalidColor, d.ColorHex)
		}
		if _, dup := c.byKey[d.Key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, d.Key)
		}
		c.byKey[d.Key] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Default returns a catalog of the builtin categories.
func Default() *Catalog {
	c, err := New(DefaultCategories())
	if err != nil {
		panic(fmt.Sprintf("builtin categories: %v", err))
	}
	return c
}

// All returns every category in catalog order. The slice is a copy.
func (c *Catalog) All() []core.CategoryDef {
	return append([]core.CategoryDef(nil), c.defs...)
}

// Get looks a category up by key. A miss is reported through ok, not an error.
func (c *Catalog) Get(key string) (core.CategoryDef, bool) {
	i, ok := c.byKey[key]
	if !ok {
		return core.CategoryDef{}, false
	}
	return c.defs[i], true
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.defs)
}
