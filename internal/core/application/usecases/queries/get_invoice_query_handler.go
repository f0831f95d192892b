package queries

import (
	"context"

	"storefront/internal/core/domain/model/invoice"
	"storefront/internal/core/ports"
)

type GetInvoiceQueryHandler struct {
	orders ports.OrderRepository
}

func NewGetInvoiceQueryHandler(orders ports.OrderRepository) GetInvoiceQueryHandler {
	return GetInvoiceQueryHandler{orders: orders}
}

// Handle reads only the stored breakdown; nothing is recomputed for an invoice.
func (h GetInvoiceQueryHandler) Handle(ctx context.Context, query GetInvoiceQuery) (invoice.Invoice, error) {
	if err := query.Validate(); err != nil {
		return invoice.Invoice{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return invoice.Invoice{}, err
	}

	return invoice.New(o)
}
