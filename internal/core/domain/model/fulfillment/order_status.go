package fulfillment

import (
	"fmt"
	"slices"
	"strings"

	"storefront/internal/pkg/errs"
)

// OrderStatus is the commercial state of an order, independent of shipping.
//
//	Pending ──> Confirmed ──> Refunded
//	   │            │
//	   └────────────┴──> Cancelled (only while shipping is still pending)
//
// Cancelled and Refunded are terminal.
type OrderStatus int

const (
	OrderUnknown OrderStatus = iota
	OrderPending
	OrderConfirmed
	OrderCancelled
	OrderRefunded
)

var orderStatusNames = map[OrderStatus]string{
	OrderPending:   "pending",
	OrderConfirmed: "confirmed",
	OrderCancelled: "cancelled",
	OrderRefunded:  "refunded",
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderCancelled, OrderRefunded},
}

// ParseOrderStatus accepts the String form, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range orderStatusNames {
		if name == needle {
			return status, nil
		}
	}
	return OrderUnknown, errs.NewValueIsInvalidErrorWithCause(
		"order status", fmt.Errorf("%q is not a valid order status", s),
	)
}

func (s OrderStatus) String() string {
	if name, ok := orderStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s OrderStatus) Validate() error {
	if _, ok := orderStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"order status", fmt.Errorf("%d is not a valid order status", s),
		)
	}
	return nil
}

// IsTerminal reports whether no further order status change is possible.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderCancelled || s == OrderRefunded
}

// TransitionTo returns requested if moving from s to it is allowed while the
// parcel is in the given shipping status.
func (s OrderStatus) TransitionTo(requested OrderStatus, shipping ShippingStatus) (OrderStatus, error) {
	if err := s.Validate(); err != nil {
		return OrderUnknown, err
	}
	if err := requested.Validate(); err != nil {
		return OrderUnknown, err
	}
	if requested == s {
		return s, nil
	}
	if !slices.Contains(orderTransitions[s], requested) {
		return OrderUnknown, errs.NewIllegalTransitionError("order status", s.String(), requested.String())
	}
	if requested == OrderCancelled && shipping != ShippingPending {
		return OrderUnknown, errs.NewIllegalTransitionErrorWithCause(
			"order status", s.String(), requested.String(),
			fmt.Errorf("shipping is already %s", shipping),
		)
	}
	return requested, nil
}
