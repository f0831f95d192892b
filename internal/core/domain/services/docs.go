// Package services provides domain services that work across aggregates and
// value objects of the storefront.
//
// The package includes:
//   - CartBuilder: turns the buyer's cart lines and a catalog snapshot into a
//     priced pricing.LineItemSet
package services
