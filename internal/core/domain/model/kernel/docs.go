// Package kernel provides the value objects shared by every other domain package
// of the storefront.
//
// The package includes:
//   - UUID: identifiers for orders, products and registered customers
//   - Money: a non-negative two-digit decimal amount with a currency tag
//   - DeliveryAddress: the shipping destination; its postal code drives regional pricing
//
// All three are immutable, created only through constructors, and safe for
// concurrent use.
package kernel
