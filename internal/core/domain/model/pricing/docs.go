// Package pricing computes the price breakdown of an order.
//
// ComputeBreakdown is a pure function of a LineItemSet, a kernel.DeliveryAddress
// and a versioned PolicyConfig. Its result, a PriceBreakdown, is stored with the
// order and never recomputed on read; RestorePriceBreakdown rebuilds it from
// storage and re-checks the total identity.
//
// Two policy flows are supported through PolicyConfig:
//   - regional discount: a percentage discount and a flat delivery charge for
//     postal codes under a configured prefix, deferred delivery elsewhere
//   - split GST: a flat tax rate on the subtotal, shown as two equal halves
package pricing
