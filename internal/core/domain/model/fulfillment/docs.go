// Package fulfillment is the state machine for what happens to an order after
// it is placed.
//
// Two independent axes are tracked. ShippingStatus moves forward only, from
// Pending through Packed and Shipped to Delivered. OrderStatus moves from Pending
// to Confirmed, may be Cancelled while nothing has left the warehouse, and may be
// Refunded once Confirmed. A CourierInfo can be attached from Packed on and is
// required from Shipped on.
//
// Transition is pure: it never mutates its input and returns either the new
// State or an error wrapping errs.ErrIllegalTransition.
package fulfillment
