package queries

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/guard"
)

var (
	ErrGetQuoteQueryIsNotConstructed = errors.New(
		"GetQuoteQuery must be created via NewGetQuoteQuery constructor",
	)
)

// GetQuoteQuery prices a cart for an address without placing an order. The
// numbers are the ones PlaceOrder would store if the catalog and the policy
// config do not change in between.
type GetQuoteQuery struct {
	lines   []services.CartLine
	address kernel.DeliveryAddress

	guard guard.ConstructorGuard
}

func NewGetQuoteQuery(lines []services.CartLine, address kernel.DeliveryAddress) (GetQuoteQuery, error) {
	if len(lines) == 0 {
		return GetQuoteQuery{}, pricing.ErrInvalidLineItem
	}
	if err := address.Validate(); err != nil {
		return GetQuoteQuery{}, err
	}
	return GetQuoteQuery{
		lines:   append([]services.CartLine(nil), lines...),
		address: address,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetQuoteQuery) Validate() error {
	return q.guard.Validate(ErrGetQuoteQueryIsNotConstructed)
}

func (q GetQuoteQuery) Lines() []services.CartLine {
	return append([]services.CartLine(nil), q.lines...)
}

func (q GetQuoteQuery) Address() kernel.DeliveryAddress { return q.address }

// GetQuoteQueryResponse is the priced cart.
type GetQuoteQueryResponse struct {
	Items     pricing.LineItemSet
	Breakdown pricing.PriceBreakdown
}
