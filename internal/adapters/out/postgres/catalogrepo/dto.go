// Package catalogrepo reads current product prices from the products table.
package catalogrepo

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ProductDTO struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Name      string          `gorm:"type:varchar(255);not null"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Currency  string          `gorm:"type:char(3);not null"`
	Active    bool            `gorm:"not null"`
	UpdatedAt time.Time
}

func (ProductDTO) TableName() string {
	return "products"
}

func fromDomain(entry services.CatalogEntry) ProductDTO {
	return ProductDTO{
		ID:        entry.ProductID.Bytes(),
		Name:      entry.Name,
		UnitPrice: entry.UnitPrice.Amount(),
		Currency:  string(entry.UnitPrice.Currency()),
		Active:    entry.Active,
	}
}

func toDomain(dto ProductDTO) (services.CatalogEntry, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return services.CatalogEntry{}, err
	}
	price, err := kernel.NewMoneyFromDecimal(dto.UnitPrice, kernel.Currency(dto.Currency))
	if err != nil {
		return services.CatalogEntry{}, err
	}
	return services.CatalogEntry{
		ProductID: id,
		Name:      dto.Name,
		UnitPrice: price,
		Active:    dto.Active,
	}, nil
}
