package domain

import (
	"encoding/json"
	"fmt"
)

// CatalogItem is a template the user can copy onto the board.
type CatalogItem struct {
	TemplateID string `json:"template_id" yaml:"id" mapstructure:"id"`
	Content    string `json:"content" yaml:"content" mapstructure:"content"`
}

// Catalog is the fixed, ordered source of copy operations.
// It is built once at startup and has no mutating methods.
type Catalog struct {
	items []CatalogItem
	ids   map[string]struct{}
}

// NewCatalog builds a catalog from the given items, preserving their order.
// Every item needs a non-empty, unique TemplateID.
func NewCatalog(items ...CatalogItem) (*Catalog, error) {
	c := &Catalog{
		items: make([]CatalogItem, 0, len(items)),
		ids:   make(map[string]struct{}, len(items)),
	}
	for i, item := range items {
		if item.TemplateID == "" {
			return nil, fmt.Errorf("%w: item %d has no id", ErrInvalidCatalog, i)
		}
		if _, dup := c.ids[item.TemplateID]; dup {
			return nil, fmt.Errorf("%w: id %q appears twice", ErrInvalidCatalog, item.TemplateID)
		}
		c.ids[item.TemplateID] = struct{}{}
		c.items = append(c.items, item)
	}
	return c, nil
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns the template at index i.
func (c *Catalog) At(i int) (CatalogItem, bool) {
	if i < 0 || i >= c.Len() {
		return CatalogItem{}, false
	}
	return c.items[i], true
}

// Items returns a copy of the templates in catalog order.
func (c *Catalog) Items() []CatalogItem {
	if c == nil {
		return nil
	}
	out := make([]CatalogItem, len(c.items))
	copy(out, c.items)
	return out
}

// Contains reports whether id is one of the template ids.
func (c *Catalog) Contains(id string) bool {
	if c == nil {
		return false
	}
	_, ok := c.ids[id]
	return ok
}

// MarshalJSON encodes the catalog as an array of items.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	items := c.Items()
	if items == nil {
		items = []CatalogItem{}
	}
	return json.Marshal(items)
}
