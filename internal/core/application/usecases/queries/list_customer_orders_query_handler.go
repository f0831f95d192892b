package queries

import (
	"context"

	"storefront/internal/core/ports"
)

type ListCustomerOrdersQueryHandler struct {
	orders ports.OrderRepository
}

func NewListCustomerOrdersQueryHandler(orders ports.OrderRepository) ListCustomerOrdersQueryHandler {
	return ListCustomerOrdersQueryHandler{orders: orders}
}

// Handle returns the customer's orders newest first. No orders is not an error.
func (h ListCustomerOrdersQueryHandler) Handle(ctx context.Context, query ListCustomerOrdersQuery) ([]OrderSummary, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, err := h.orders.ListByCustomer(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}

	return summarize(orders), nil
}
