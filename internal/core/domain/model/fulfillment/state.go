package fulfillment

import (
	"fmt"

	"storefront/internal/pkg/errs"
)

// State is the mutable part of an order: both status axes and the courier.
type State struct {
	OrderStatus    OrderStatus
	ShippingStatus ShippingStatus
	Courier        *CourierInfo
}

// Request is the state a staff member wants an order to be in. Every field is
// the desired value; a nil Courier asks for no courier.
type Request struct {
	OrderStatus    OrderStatus
	ShippingStatus ShippingStatus
	Courier        *CourierInfo
}

// InitialState is the state of every newly placed order.
func InitialState() State {
	return State{OrderStatus: OrderPending, ShippingStatus: ShippingPending}
}

// NewState builds a state from stored values and checks its consistency.
func NewState(orderStatus OrderStatus, shippingStatus ShippingStatus, courier *CourierInfo) (State, error) {
	s := State{OrderStatus: orderStatus, ShippingStatus: shippingStatus, Courier: courier}
	if err := s.Validate(); err != nil {
		return State{}, err
	}
	return s, nil
}

// Validate checks both statuses and the courier rules for the shipping status.
func (s State) Validate() error {
	if err := s.OrderStatus.Validate(); err != nil {
		return err
	}
	if err := s.ShippingStatus.Validate(); err != nil {
		return err
	}
	return checkCourier(s.ShippingStatus, s.Courier)
}

// HasCourier reports whether a courier is attached.
func (s State) HasCourier() bool {
	return s.Courier != nil
}

// IsEqual compares statuses and courier fields.
func (s State) IsEqual(other State) bool {
	if s.OrderStatus != other.OrderStatus || s.ShippingStatus != other.ShippingStatus {
		return false
	}
	if s.Courier == nil || other.Courier == nil {
		return s.Courier == nil && other.Courier == nil
	}
	return *s.Courier == *other.Courier
}

func (s State) String() string {
	courier := "none"
	if s.Courier != nil {
		courier = s.Courier.String()
	}
	return fmt.Sprintf("order=%s shipping=%s courier=%s", s.OrderStatus, s.ShippingStatus, courier)
}

// Transition validates a request against the current state and returns the
// resulting state. On error the returned state is the zero value; callers keep
// their current state.
func Transition(current State, req Request) (State, error) {
	if err := current.Validate(); err != nil {
		return State{}, err
	}

	shipping, err := current.ShippingStatus.TransitionTo(req.ShippingStatus)
	if err != nil {
		return State{}, err
	}

	orderStatus, err := current.OrderStatus.TransitionTo(req.OrderStatus, current.ShippingStatus)
	if err != nil {
		return State{}, err
	}

	if orderStatus == OrderCancelled && shipping != current.ShippingStatus {
		return State{}, errs.NewIllegalTransitionErrorWithCause(
			"shipping status", current.ShippingStatus.String(), shipping.String(),
			fmt.Errorf("order is %s", orderStatus),
		)
	}

	if err := checkCourier(shipping, req.Courier); err != nil {
		return State{}, err
	}

	return State{OrderStatus: orderStatus, ShippingStatus: shipping, Courier: req.Courier}, nil
}

func checkCourier(shipping ShippingStatus, courier *CourierInfo) error {
	if courier != nil && !courier.IsComplete() {
		return fmt.Errorf("%w: courier for %s is incomplete", ErrMissingCourierInfo, shipping)
	}
	if courier != nil && !shipping.AcceptsCourier() {
		return errs.NewIllegalTransitionErrorWithCause(
			"courier", "none", courier.Name(),
			fmt.Errorf("shipping status %s does not accept a courier", shipping),
		)
	}
	if courier == nil && shipping.RequiresCourier() {
		return fmt.Errorf("%w: shipping status %s requires a courier", ErrMissingCourierInfo, shipping)
	}
	return nil
}
