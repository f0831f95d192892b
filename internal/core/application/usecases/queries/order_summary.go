package queries

import (
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderSummary is one row of an order list. Amounts are the stored ones.
type OrderSummary struct {
	ID               kernel.UUID
	CustomerName     string
	ItemCount        int
	Total            kernel.Money
	DeferredDelivery bool
	OrderStatus      fulfillment.OrderStatus
	ShippingStatus   fulfillment.ShippingStatus
	PlacedAt         time.Time
}

func summarize(orders []*order.Order) []OrderSummary {
	summaries := make([]OrderSummary, 0, len(orders))
	for _, o := range orders {
		summaries = append(summaries, OrderSummary{
			ID:               o.ID(),
			CustomerName:     o.Customer().Name(),
			ItemCount:        o.Items().Len(),
			Total:            o.Breakdown().Total(),
			DeferredDelivery: o.Breakdown().DeferredDelivery(),
			OrderStatus:      o.State().OrderStatus,
			ShippingStatus:   o.State().ShippingStatus,
			PlacedAt:         o.PlacedAt(),
		})
	}
	return summaries
}
