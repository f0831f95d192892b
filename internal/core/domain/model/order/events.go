package order

import (
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
)

// DomainEvent is something that happened to an order and is announced to
// other services once the change is committed.
type DomainEvent interface {
	EventName() string
	AggregateID() kernel.UUID
}

// PlacedEvent is raised by Place.
type PlacedEvent struct {
	OrderID          kernel.UUID
	CustomerID       *kernel.UUID
	Total            kernel.Money
	ConfigVersion    string
	DeferredDelivery bool
	PlacedAt         time.Time
}

func (e PlacedEvent) EventName() string        { return "order.placed" }
func (e PlacedEvent) AggregateID() kernel.UUID { return e.OrderID }

// FulfillmentUpdatedEvent is raised by UpdateFulfillment.
type FulfillmentUpdatedEvent struct {
	OrderID   kernel.UUID
	Previous  fulfillment.State
	Current   fulfillment.State
	Version   int64
	UpdatedAt time.Time
}

func (e FulfillmentUpdatedEvent) EventName() string        { return "order.fulfillment_updated" }
func (e FulfillmentUpdatedEvent) AggregateID() kernel.UUID { return e.OrderID }
