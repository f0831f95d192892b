package ports

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// OrderEventPublisher announces committed order changes to other services.
type OrderEventPublisher interface {
	OrderPlaced(ctx context.Context, event order.PlacedEvent) error

	FulfillmentUpdated(ctx context.Context, event order.FulfillmentUpdatedEvent) error
}
