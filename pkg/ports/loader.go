package ports

import (
	"context"

	"github.com/aretw0/kiosk/pkg/domain"
)

// CatalogLoader defines how the engine retrieves the catalog at startup.
// The catalog is loaded once; the engine never asks for it again.
type CatalogLoader interface {
	LoadCatalog(ctx context.Context) (*domain.Catalog, error)
}
