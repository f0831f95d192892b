package catalogrepo

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormCatalog implements ports.Catalog over the products table.
type GormCatalog struct {
	db *gorm.DB
}

func NewGormCatalog(db *gorm.DB) *GormCatalog {
	return &GormCatalog{db: db}
}

func (c *GormCatalog) Lookup(ctx context.Context, productID kernel.UUID) (services.CatalogEntry, error) {
	if err := productID.Validate(); err != nil {
		return services.CatalogEntry{}, err
	}

	var dto ProductDTO
	if err := c.db.WithContext(ctx).First(&dto, "id = ?", productID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return services.CatalogEntry{}, errs.NewObjectNotFoundError("product", productID.String())
		}
		return services.CatalogEntry{}, err
	}
	return toDomain(dto)
}

// Upsert inserts or replaces a product. Orders already placed keep the price
// they were placed with.
func (c *GormCatalog) Upsert(ctx context.Context, entry services.CatalogEntry) error {
	if err := entry.ProductID.Validate(); err != nil {
		return err
	}
	if err := entry.UnitPrice.Validate(); err != nil {
		return err
	}
	if entry.Name == "" {
		return errs.NewValueIsRequiredError("product name")
	}

	dto := fromDomain(entry)
	return c.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&dto).Error
}
