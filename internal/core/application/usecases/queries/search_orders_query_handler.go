package queries

import (
	"context"
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

type SearchOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewSearchOrdersQueryHandler(orders ports.OrderRepository) SearchOrdersQueryHandler {
	return SearchOrdersQueryHandler{orders: orders}
}

// Handle looks a full id up directly and treats anything shorter as a prefix.
func (h SearchOrdersQueryHandler) Handle(ctx context.Context, query SearchOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	if id, err := kernel.UUIDFromString(query.Term()); err == nil {
		o, getErr := h.orders.Get(ctx, id)
		if errors.Is(getErr, errs.ErrObjectNotFound) {
			return []OrderSummary{}, nil
		}
		if getErr != nil {
			return nil, getErr
		}
		return summarize([]*order.Order{o}), nil
	}

	orders, err := h.orders.SearchByIDPrefix(ctx, query.Term(), query.Limit())
	if err != nil {
		return nil, err
	}
	return summarize(orders), nil
}
