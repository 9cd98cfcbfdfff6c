package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/kiosk/pkg/domain"
	"github.com/aretw0/loam"
)

// Loader adapts a Loam repository of Markdown notes to ports.CatalogLoader.
// Each note becomes one catalog item: frontmatter "id" is the template id
// (falling back to the file name) and the note body is the content.
type Loader struct {
	Repo *loam.TypedRepository[ItemMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[ItemMetadata]) *Loader {
	return &Loader{
		Repo: repo,
	}
}

// NewFromPath opens the directory at path as a read-only Loam repository.
func NewFromPath(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}

	// Strict mode keeps numeric frontmatter typed consistently across formats.
	// ReadOnly avoids Loam's dev-mode sandbox; the catalog is never written.
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[ItemMetadata](repo)), nil
}

type entry struct {
	order int
	item  domain.CatalogItem
	path  string
}

// LoadCatalog reads every note and orders items by "order", then by id.
func (l *Loader) LoadCatalog(ctx context.Context) (*domain.Catalog, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	seen := make(map[string]string)
	entries := make([]entry, 0, len(docs))
	for _, doc := range docs {
		id := doc.Data.ID
		if id == "" {
			id = trimExtension(doc.ID)
		}
		if existingPath, ok := seen[id]; ok {
			return nil, fmt.Errorf("%w: id '%s' is defined in both '%s' and '%s'", domain.ErrInvalidCatalog, id, existingPath, doc.ID)
		}
		seen[id] = doc.ID

		content := strings.TrimSpace(doc.Content)
		if content == "" {
			content = doc.Data.Title
		}
		entries = append(entries, entry{
			order: doc.Data.Order,
			item:  domain.CatalogItem{TemplateID: id, Content: content},
			path:  doc.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].order != entries[j].order {
			return entries[i].order < entries[j].order
		}
		return entries[i].item.TemplateID < entries[j].item.TemplateID
	})

	items := make([]domain.CatalogItem, len(entries))
	for i, e := range entries {
		items[i] = e.item
	}
	return domain.NewCatalog(items...)
}

func trimExtension(id string) string {
	id = filepath.ToSlash(id)
	return strings.TrimSuffix(id, filepath.Ext(id))
}
