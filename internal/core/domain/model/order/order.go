package order

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/pkg/errs"
)

var (
	ErrOrderIsNotConstructed = errors.New("Order must be created via Place or RestoreOrder")

	// ErrConfigVersionMismatch is returned by RecomputeForDisplay when the
	// supplied config is not the version recorded at placement.
	ErrConfigVersionMismatch = errs.NewVersionIsInvalidErrorWithCause("policy config version mismatch")
)

// Order is the aggregate root of a checkout.
//
// Line items, address, customer and price breakdown are captured once by Place
// and never change. Only the fulfillment State moves afterwards, and every move
// produces a new snapshot with a higher version; an *Order is never mutated
// after it is returned.
type Order struct {
	id                  kernel.UUID
	customer            Customer
	items               pricing.LineItemSet
	address             kernel.DeliveryAddress
	handlingFeeOverride *kernel.Money
	breakdown           pricing.PriceBreakdown
	state               fulfillment.State
	placedAt            time.Time
	updatedAt           time.Time
	version             int64

	events []DomainEvent

	isConstructed bool
}

// PlaceOption adjusts Place.
type PlaceOption func(*Order)

// WithHandlingFee records an order-specific handling fee that replaces the
// config default.
func WithHandlingFee(fee kernel.Money) PlaceOption {
	return func(o *Order) {
		o.handlingFeeOverride = &fee
	}
}

// Place creates a new order and prices it with config. It is the only way to
// create an order that does not exist yet.
func Place(
	id kernel.UUID,
	items pricing.LineItemSet,
	address kernel.DeliveryAddress,
	customer Customer,
	config pricing.PolicyConfig,
	placedAt time.Time,
	opts ...PlaceOption,
) (*Order, error) {
	o := &Order{
		state:         fulfillment.InitialState(),
		placedAt:      placedAt.UTC(),
		updatedAt:     placedAt.UTC(),
		version:       1,
		isConstructed: true,
	}
	for _, opt := range opts {
		opt(o)
	}

	if err := errors.Join(
		o.setID(id),
		o.setItems(items),
		o.setAddress(address),
		o.setCustomer(customer),
		o.setPlacedAt(placedAt),
	); err != nil {
		return nil, err
	}

	breakdown, err := pricing.ComputeBreakdown(items, address, config, o.pricingOptions()...)
	if err != nil {
		return nil, err
	}
	o.breakdown = breakdown

	o.events = []DomainEvent{PlacedEvent{
		OrderID:          o.id,
		CustomerID:       customer.UserID(),
		Total:            breakdown.Total(),
		ConfigVersion:    breakdown.ConfigVersion(),
		DeferredDelivery: breakdown.DeferredDelivery(),
		PlacedAt:         o.placedAt,
	}}

	return o, nil
}

// RestoreOrder rebuilds a stored order as it is. Nothing is recomputed.
func RestoreOrder(
	id kernel.UUID,
	customer Customer,
	items pricing.LineItemSet,
	address kernel.DeliveryAddress,
	handlingFeeOverride *kernel.Money,
	breakdown pricing.PriceBreakdown,
	state fulfillment.State,
	placedAt time.Time,
	updatedAt time.Time,
	version int64,
) (*Order, error) {
	o := &Order{
		handlingFeeOverride: handlingFeeOverride,
		placedAt:            placedAt.UTC(),
		updatedAt:           updatedAt.UTC(),
		version:             version,
		isConstructed:       true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setItems(items),
		o.setAddress(address),
		o.setCustomer(customer),
		o.setPlacedAt(placedAt),
		o.setBreakdown(breakdown),
		o.setState(state),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID                   { return o.id }
func (o *Order) Customer() Customer                { return o.customer }
func (o *Order) Items() pricing.LineItemSet        { return o.items }
func (o *Order) Address() kernel.DeliveryAddress   { return o.address }
func (o *Order) Breakdown() pricing.PriceBreakdown { return o.breakdown }
func (o *Order) State() fulfillment.State          { return o.state }
func (o *Order) PlacedAt() time.Time               { return o.placedAt }
func (o *Order) UpdatedAt() time.Time              { return o.updatedAt }

// HandlingFeeOverride is nil when the config default was used.
func (o *Order) HandlingFeeOverride() *kernel.Money {
	return o.handlingFeeOverride
}

// Version starts at 1 and grows by one with every fulfillment update. A store
// writes a snapshot only over the row whose version is Version()-1.
func (o *Order) Version() int64 {
	return o.version
}

// DomainEvents returns the events raised while producing this snapshot.
func (o *Order) DomainEvents() []DomainEvent {
	return append([]DomainEvent(nil), o.events...)
}

// UpdateFulfillment applies a staff change to the order's fulfillment state.
//
// expected is the state the caller last saw. If it differs from the current
// state the update fails with errs.ErrStaleState and the caller must reload.
// On success a new snapshot is returned in which only the fulfillment state,
// updatedAt and version differ; pricing is carried over untouched. On any
// failure o is left as it was.
func (o *Order) UpdateFulfillment(expected fulfillment.State, req fulfillment.Request, at time.Time) (*Order, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !expected.IsEqual(o.state) {
		return nil, errs.NewStaleStateError("fulfillment state", expected, o.state)
	}

	next, err := fulfillment.Transition(o.state, req)
	if err != nil {
		return nil, err
	}

	updated := *o
	updated.state = next
	updated.updatedAt = at.UTC()
	updated.version = o.version + 1
	updated.events = []DomainEvent{FulfillmentUpdatedEvent{
		OrderID:   o.id,
		Previous:  o.state,
		Current:   next,
		Version:   updated.version,
		UpdatedAt: updated.updatedAt,
	}}

	return &updated, nil
}

// PricingDrift reports a stored breakdown that no longer matches what its own
// config version produces. It is a warning and never blocks display.
type PricingDrift struct {
	OrderID       kernel.UUID
	ConfigVersion string
	Stored        pricing.PriceBreakdown
	Recomputed    pricing.PriceBreakdown
	Fields        []string
}

func (d *PricingDrift) String() string {
	return fmt.Sprintf("pricing drift on order %s (config %s): stored total %s, recomputed %s, fields %v",
		d.OrderID, d.ConfigVersion, d.Stored.Total(), d.Recomputed.Total(), d.Fields)
}

// RecomputeForDisplay re-derives the breakdown from the stored line items and
// address under config, which must be the version recorded at placement. The
// stored breakdown stays authoritative; a non-nil *PricingDrift means the two
// differ.
func (o *Order) RecomputeForDisplay(config pricing.PolicyConfig) (pricing.PriceBreakdown, *PricingDrift, error) {
	if err := o.Validate(); err != nil {
		return pricing.PriceBreakdown{}, nil, err
	}
	if config.Version() != o.breakdown.ConfigVersion() {
		return pricing.PriceBreakdown{}, nil, fmt.Errorf("%w: order priced with %q, got %q",
			ErrConfigVersionMismatch, o.breakdown.ConfigVersion(), config.Version())
	}

	recomputed, err := pricing.ComputeBreakdown(o.items, o.address, config, o.pricingOptions()...)
	if err != nil {
		return pricing.PriceBreakdown{}, nil, err
	}

	fields := o.breakdown.Differences(recomputed)
	if len(fields) == 0 {
		return recomputed, nil, nil
	}
	return recomputed, &PricingDrift{
		OrderID:       o.id,
		ConfigVersion: config.Version(),
		Stored:        o.breakdown,
		Recomputed:    recomputed,
		Fields:        fields,
	}, nil
}

func (o *Order) pricingOptions() []pricing.Option {
	if o.handlingFeeOverride == nil {
		return nil
	}
	return []pricing.Option{pricing.WithHandlingFee(*o.handlingFeeOverride)}
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setItems(items pricing.LineItemSet) error {
	if err := items.Validate(); err != nil {
		return err
	}
	o.items = items
	return nil
}

func (o *Order) setAddress(address kernel.DeliveryAddress) error {
	if err := address.Validate(); err != nil {
		return err
	}
	o.address = address
	return nil
}

func (o *Order) setCustomer(customer Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	o.customer = customer
	return nil
}

func (o *Order) setPlacedAt(placedAt time.Time) error {
	if placedAt.IsZero() {
		return errs.NewValueIsRequiredError("placedAt")
	}
	return nil
}

func (o *Order) setBreakdown(breakdown pricing.PriceBreakdown) error {
	if err := breakdown.Validate(); err != nil {
		return err
	}
	o.breakdown = breakdown
	return nil
}

func (o *Order) setState(state fulfillment.State) error {
	if err := state.Validate(); err != nil {
		return err
	}
	o.state = state
	return nil
}

func (o *Order) setVersion(version int64) error {
	if version < 1 {
		return errs.NewValueIsOutOfRangeError("version", version, 1, "unbounded")
	}
	return nil
}
