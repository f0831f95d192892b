package services

import (
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/pkg/errs"
)

var (
	ErrProductNotFound    = errs.NewObjectNotFoundError("product", "in catalog snapshot")
	ErrProductUnavailable = errs.NewValueIsInvalidError("product is not available")
)

// CatalogEntry is a product as the catalog prices it right now.
type CatalogEntry struct {
	ProductID kernel.UUID
	Name      string
	UnitPrice kernel.Money
	Active    bool
}

// CartLine is a product and quantity chosen by the buyer.
type CartLine struct {
	ProductID kernel.UUID
	Quantity  int
}

type CartBuilder struct{}

func NewCartBuilder() CartBuilder {
	return CartBuilder{}
}

// Build turns cart lines into a LineItemSet priced from entries. Lines for the
// same product are merged into the first one, keeping the order of first
// appearance. Every product must be present in entries and active.
func (b CartBuilder) Build(lines []CartLine, entries []CatalogEntry) (pricing.LineItemSet, error) {
	byID := make(map[kernel.UUID]CatalogEntry, len(entries))
	for _, e := range entries {
		byID[e.ProductID] = e
	}

	merged, err := b.merge(lines)
	if err != nil {
		return pricing.LineItemSet{}, err
	}

	items := make([]pricing.LineItem, 0, len(merged))
	for _, line := range merged {
		entry, ok := byID[line.ProductID]
		if !ok {
			return pricing.LineItemSet{}, fmt.Errorf("%w: %s", ErrProductNotFound, line.ProductID)
		}
		if !entry.Active {
			return pricing.LineItemSet{}, fmt.Errorf("%w: %s", ErrProductUnavailable, entry.Name)
		}

		item, err := pricing.NewLineItem(entry.ProductID, entry.Name, entry.UnitPrice, line.Quantity)
		if err != nil {
			return pricing.LineItemSet{}, err
		}
		items = append(items, item)
	}

	return pricing.NewLineItemSet(items...)
}

func (b CartBuilder) merge(lines []CartLine) ([]CartLine, error) {
	merged := make([]CartLine, 0, len(lines))
	index := make(map[kernel.UUID]int, len(lines))
	for _, line := range lines {
		if err := line.ProductID.Validate(); err != nil {
			return nil, fmt.Errorf("%w: product id: %w", pricing.ErrInvalidLineItem, err)
		}
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity %d is not greater than 0", pricing.ErrInvalidLineItem, line.Quantity)
		}
		if i, ok := index[line.ProductID]; ok {
			merged[i].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	return merged, nil
}
