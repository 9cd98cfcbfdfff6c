package memory

import (
	"context"
	"fmt"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/kiosk/pkg/ports"
)

// DefaultContents are the templates the kiosk ships with when no catalog is configured.
var DefaultContents = []string{"Headline", "Copy", "Image", "Slideshow", "Quote"}

// Loader implements ports.CatalogLoader using a fixed slice of items.
type Loader struct {
	items []domain.CatalogItem
}

// NewLoader creates a loader that returns the given items in order.
func NewLoader(items ...domain.CatalogItem) *Loader {
	cp := make([]domain.CatalogItem, len(items))
	copy(cp, items)
	return &Loader{items: cp}
}

// NewDefaultLoader creates a loader for DefaultContents, drawing template ids from gen.
func NewDefaultLoader(gen ports.IDGenerator) *Loader {
	items := make([]domain.CatalogItem, 0, len(DefaultContents))
	for _, content := range DefaultContents {
		items = append(items, domain.CatalogItem{TemplateID: gen.NewID(), Content: content})
	}
	return &Loader{items: items}
}

// LoadCatalog builds the catalog.
func (l *Loader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	catalog, err := domain.NewCatalog(l.items...)
	if err != nil {
		return nil, fmt.Errorf("memory catalog: %w", err)
	}
	return catalog, nil
}
