package kernel

import (
	"errors"
	"strings"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// ErrDeliveryAddressIsNotConstructed is returned when a DeliveryAddress was not created through NewDeliveryAddress.
var ErrDeliveryAddressIsNotConstructed = errs.NewValueIsRequiredError(
	"delivery address must be created via NewDeliveryAddress",
)

// DeliveryAddress is where an order is shipped to.
//
// The postal code is the only field pricing looks at; it decides whether the
// regional discount and delivery charge apply. Every other field is carried
// for the courier and the invoice.
type DeliveryAddress struct {
	fullName     string
	addressLine1 string
	addressLine2 string
	city         string
	state        string
	postalCode   string
	phone        string

	guard guard.ConstructorGuard
}

// NewDeliveryAddress trims every field and requires all of them except addressLine2.
func NewDeliveryAddress(
	fullName, addressLine1, addressLine2, city, state, postalCode, phone string,
) (DeliveryAddress, error) {
	a := DeliveryAddress{
		addressLine2: strings.TrimSpace(addressLine2),
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		required(&a.fullName, "fullName", fullName),
		required(&a.addressLine1, "addressLine1", addressLine1),
		required(&a.city, "city", city),
		required(&a.state, "state", state),
		required(&a.postalCode, "postalCode", postalCode),
		required(&a.phone, "phone", phone),
	); err != nil {
		return DeliveryAddress{}, err
	}

	return a, nil
}

func required(dst *string, name, value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return errs.NewValueIsRequiredError(name)
	}
	*dst = value
	return nil
}

// Validate ensures the address was created through NewDeliveryAddress.
func (a DeliveryAddress) Validate() error {
	return a.guard.Validate(ErrDeliveryAddressIsNotConstructed)
}

func (a DeliveryAddress) FullName() string     { return a.fullName }
func (a DeliveryAddress) AddressLine1() string { return a.addressLine1 }
func (a DeliveryAddress) AddressLine2() string { return a.addressLine2 }
func (a DeliveryAddress) City() string         { return a.city }
func (a DeliveryAddress) State() string        { return a.state }
func (a DeliveryAddress) PostalCode() string   { return a.postalCode }
func (a DeliveryAddress) Phone() string        { return a.phone }

// HasPostalPrefix reports whether the postal code starts with prefix.
// An empty prefix never matches.
func (a DeliveryAddress) HasPostalPrefix(prefix string) bool {
	return prefix != "" && strings.HasPrefix(a.postalCode, prefix)
}

// SingleLine joins the non-empty address parts with ", ", the way invoices print it.
func (a DeliveryAddress) SingleLine() string {
	parts := make([]string, 0, 5)
	for _, p := range []string{a.addressLine1, a.addressLine2, a.city, a.state, a.postalCode} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// IsEqual compares addresses field by field.
func (a DeliveryAddress) IsEqual(other DeliveryAddress) bool {
	return a.fullName == other.fullName &&
		a.addressLine1 == other.addressLine1 &&
		a.addressLine2 == other.addressLine2 &&
		a.city == other.city &&
		a.state == other.state &&
		a.postalCode == other.postalCode &&
		a.phone == other.phone
}
