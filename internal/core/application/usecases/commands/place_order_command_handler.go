package commands

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"
)

// PlaceOrderCommandHandler prices a cart with the current policy config and
// stores the resulting order.
type PlaceOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.Catalog
	configs    ports.PolicyConfigRepository
	cart       services.CartBuilder
	metrics    OrderMetrics
	now        func() time.Time
}

func NewPlaceOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.Catalog,
	configs ports.PolicyConfigRepository,
	metrics OrderMetrics,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		configs:    configs,
		cart:       services.NewCartBuilder(),
		metrics:    metrics,
		now:        time.Now,
	}
}

// Handle looks every product up once, computes the breakdown and adds the
// order in one transaction. The catalog is not consulted again for this order.
func (h *PlaceOrderCommandHandler) Handle(ctx context.Context, cmd PlaceOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	config, err := h.configs.Current(ctx)
	if err != nil {
		return err
	}

	entries, err := lookupEntries(ctx, h.catalog, cmd.Lines())
	if err != nil {
		return err
	}

	items, err := h.cart.Build(cmd.Lines(), entries)
	if err != nil {
		return err
	}

	var opts []order.PlaceOption
	if fee := cmd.HandlingFee(); fee != nil {
		opts = append(opts, order.WithHandlingFee(*fee))
	}

	placed, err := order.Place(cmd.OrderID(), items, cmd.Address(), cmd.Customer(), config, h.now(), opts...)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, placed); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	h.metrics.OrderPlaced(placed.Breakdown())
	return nil
}

// lookupEntries asks the catalog once per distinct product.
func lookupEntries(ctx context.Context, catalog ports.Catalog, lines []services.CartLine) ([]services.CatalogEntry, error) {
	seen := make(map[kernel.UUID]struct{}, len(lines))
	entries := make([]services.CatalogEntry, 0, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.ProductID]; ok {
			continue
		}
		seen[line.ProductID] = struct{}{}

		entry, err := catalog.Lookup(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
