package queries

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var (
	ErrGetInvoiceQueryIsNotConstructed = errors.New(
		"GetInvoiceQuery must be created via NewGetInvoiceQuery constructor",
	)
)

// GetInvoiceQuery builds the invoice model of a stored order.
type GetInvoiceQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewGetInvoiceQuery(orderID kernel.UUID) (GetInvoiceQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetInvoiceQuery{}, err
	}
	return GetInvoiceQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetInvoiceQuery) Validate() error {
	return q.guard.Validate(ErrGetInvoiceQueryIsNotConstructed)
}

func (q GetInvoiceQuery) OrderID() kernel.UUID { return q.orderID }
