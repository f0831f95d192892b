// Package order provides the Order aggregate root of the storefront.
//
// An order is created by Place, which prices it through the pricing package
// and starts both fulfillment axes at pending. From then on its line items,
// address, customer and PriceBreakdown are frozen; UpdateFulfillment is the only
// change and it returns a new snapshot instead of mutating the receiver.
//
// Key business rules:
//   - the stored breakdown is authoritative and is never recomputed on read
//   - RecomputeForDisplay uses the config version recorded at placement and
//     reports a PricingDrift instead of failing when the numbers differ
//   - UpdateFulfillment rejects callers whose view of the state is stale
//
// Every snapshot carries the DomainEvents raised while producing it.
package order
