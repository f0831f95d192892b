package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// Implementations store every breakdown amount and the config version as they
// are and never recompute them on read.
type OrderRepository interface {
	// Add persists a newly placed order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a snapshot returned by Order.UpdateFulfillment. It fails
	// with errs.ErrStaleState when the stored version is not Version()-1.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get returns errs.ErrObjectNotFound when no order has the id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListByCustomer returns a registered customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)

	// SearchByIDPrefix matches the start of the textual order id,
	// case-insensitively, newest first.
	SearchByIDPrefix(ctx context.Context, prefix string, limit int) ([]*order.Order, error)

	// ListPlacedSince returns orders placed at or after since, oldest first,
	// ordered by (placed_at, id). A non-nil after resumes strictly past that
	// order, so callers can page through a window of any size.
	ListPlacedSince(ctx context.Context, since time.Time, after *OrderCursor, limit int) ([]*order.Order, error)
}

// OrderCursor marks a position in the (placed_at, id) ordering.
type OrderCursor struct {
	PlacedAt time.Time
	ID       kernel.UUID
}

// CursorOf returns the position of o.
func CursorOf(o *order.Order) *OrderCursor {
	return &OrderCursor{PlacedAt: o.PlacedAt(), ID: o.ID()}
}
