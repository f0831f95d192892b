package fulfillment

import (
	"fmt"
	"strings"

	"storefront/internal/pkg/errs"
)

// ShippingStatus is the physical progress of an order's parcel.
//
// Transitions are forward only and may skip steps:
//
//	Pending ──> Packed ──> Shipped ──> Delivered
//	   │           └──────────┴──────────┘
//	   └───────────────────────────────────┘
//
// Staying in the current status is always allowed, so re-saving an unchanged
// form is harmless. Delivered is terminal.
type ShippingStatus int

const (
	// ShippingUnknown is the zero value and never validates.
	ShippingUnknown ShippingStatus = iota
	// ShippingPending is the initial status of every placed order.
	ShippingPending
	// ShippingPacked means the parcel is ready and a courier may be attached.
	ShippingPacked
	// ShippingShipped requires complete courier info.
	ShippingShipped
	// ShippingDelivered requires complete courier info and is terminal.
	ShippingDelivered
)

var shippingStatusNames = map[ShippingStatus]string{
	ShippingPending:   "pending",
	ShippingPacked:    "packed",
	ShippingShipped:   "shipped",
	ShippingDelivered: "delivered",
}

// ParseShippingStatus accepts the String form, case-insensitively.
func ParseShippingStatus(s string) (ShippingStatus, error) {
	needle := strings.ToLower(strings.TrimSpace(s))
	for status, name := range shippingStatusNames {
		if name == needle {
			return status, nil
		}
	}
	return ShippingUnknown, errs.NewValueIsInvalidErrorWithCause(
		"shipping status", fmt.Errorf("%q is not a valid shipping status", s),
	)
}

func (s ShippingStatus) String() string {
	if name, ok := shippingStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// Validate rejects ShippingUnknown and out-of-range values.
func (s ShippingStatus) Validate() error {
	if _, ok := shippingStatusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"shipping status", fmt.Errorf("%d is not a valid shipping status", s),
		)
	}
	return nil
}

// TransitionTo returns requested if moving from s to it is allowed.
func (s ShippingStatus) TransitionTo(requested ShippingStatus) (ShippingStatus, error) {
	if err := s.Validate(); err != nil {
		return ShippingUnknown, err
	}
	if err := requested.Validate(); err != nil {
		return ShippingUnknown, err
	}
	if requested < s {
		return ShippingUnknown, errs.NewIllegalTransitionError("shipping status", s.String(), requested.String())
	}
	return requested, nil
}

// AcceptsCourier reports whether a courier may be attached in this status.
func (s ShippingStatus) AcceptsCourier() bool {
	return s >= ShippingPacked && s <= ShippingDelivered
}

// RequiresCourier reports whether this status needs complete courier info.
func (s ShippingStatus) RequiresCourier() bool {
	return s == ShippingShipped || s == ShippingDelivered
}
