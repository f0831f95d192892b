package queries

import (
	"context"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

type GetQuoteQueryHandler struct {
	catalog ports.Catalog
	configs ports.PolicyConfigRepository
	cart    services.CartBuilder
}

func NewGetQuoteQueryHandler(catalog ports.Catalog, configs ports.PolicyConfigRepository) GetQuoteQueryHandler {
	return GetQuoteQueryHandler{
		catalog: catalog,
		configs: configs,
		cart:    services.NewCartBuilder(),
	}
}

func (h GetQuoteQueryHandler) Handle(ctx context.Context, query GetQuoteQuery) (GetQuoteQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetQuoteQueryResponse{}, err
	}

	config, err := h.configs.Current(ctx)
	if err != nil {
		return GetQuoteQueryResponse{}, err
	}

	entries := make([]services.CatalogEntry, 0, len(query.lines))
	seen := make(map[kernel.UUID]struct{}, len(query.lines))
	for _, line := range query.lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}

		entry, lookupErr := h.catalog.Lookup(ctx, line.ProductID)
		if lookupErr != nil {
			return GetQuoteQueryResponse{}, lookupErr
		}
		entries = append(entries, entry)
	}

	items, err := h.cart.Build(query.lines, entries)
	if err != nil {
		return GetQuoteQueryResponse{}, err
	}

	breakdown, err := pricing.ComputeBreakdown(items, query.address, config)
	if err != nil {
		return GetQuoteQueryResponse{}, err
	}

	return GetQuoteQueryResponse{Items: items, Breakdown: breakdown}, nil
}
