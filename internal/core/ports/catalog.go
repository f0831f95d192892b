package ports

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
)

// Catalog looks up current product prices. It is consulted only while quoting
// and placing an order; stored orders keep the price they were placed with.
type Catalog interface {
	// Lookup returns errs.ErrObjectNotFound for unknown products.
	Lookup(ctx context.Context, productID kernel.UUID) (services.CatalogEntry, error)
}
