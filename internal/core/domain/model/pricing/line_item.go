package pricing

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	// ErrInvalidLineItem is returned for a non-positive quantity, an invalid unit
	// price, a missing product, or an empty line item set.
	ErrInvalidLineItem = errs.NewValueIsInvalidError("line item")
	// ErrLineItemSetIsNotConstructed is returned when a LineItemSet was not created through NewLineItemSet.
	ErrLineItemSetIsNotConstructed = errors.New("LineItemSet must be created via NewLineItemSet constructor")
)

// LineItem is one product line of an order: the product, the unit price
// captured from the catalog when the order was placed, and a positive quantity.
// Later catalog price changes never reach an existing LineItem.
type LineItem struct {
	productID   kernel.UUID
	productName string
	unitPrice   kernel.Money
	quantity    int

	guard guard.ConstructorGuard
}

// NewLineItem validates and creates a LineItem.
func NewLineItem(productID kernel.UUID, productName string, unitPrice kernel.Money, quantity int) (LineItem, error) {
	item := LineItem{
		productID:   productID,
		productName: strings.TrimSpace(productName),
		unitPrice:   unitPrice,
		quantity:    quantity,
		guard:       guard.NewConstructorGuard(),
	}

	var problems []error
	if err := productID.Validate(); err != nil {
		problems = append(problems, fmt.Errorf("%w: product id: %w", ErrInvalidLineItem, err))
	}
	if item.productName == "" {
		problems = append(problems, fmt.Errorf("%w: product name is required", ErrInvalidLineItem))
	}
	if err := unitPrice.Validate(); err != nil {
		problems = append(problems, fmt.Errorf("%w: unit price: %w", ErrInvalidLineItem, err))
	}
	if quantity <= 0 {
		problems = append(problems, fmt.Errorf("%w: quantity %d is not greater than 0", ErrInvalidLineItem, quantity))
	}
	if err := errors.Join(problems...); err != nil {
		return LineItem{}, err
	}

	return item, nil
}

// Validate ensures the LineItem was created through NewLineItem.
func (i LineItem) Validate() error {
	return i.guard.Validate(fmt.Errorf("%w: not constructed via NewLineItem", ErrInvalidLineItem))
}

func (i LineItem) ProductID() kernel.UUID  { return i.productID }
func (i LineItem) ProductName() string     { return i.productName }
func (i LineItem) UnitPrice() kernel.Money { return i.unitPrice }
func (i LineItem) Quantity() int           { return i.quantity }

// LineTotal returns unitPrice × quantity. It is exact.
func (i LineItem) LineTotal() kernel.Money {
	total, err := i.unitPrice.MulQuantity(i.quantity)
	if err != nil {
		// quantity is positive and the price constructed, both checked in NewLineItem
		panic(err)
	}
	return total
}

// LineItemSet is a non-empty, ordered, single-currency collection of line items.
type LineItemSet struct {
	items    []LineItem
	subtotal kernel.Money

	guard guard.ConstructorGuard
}

// NewLineItemSet validates the items and computes the subtotal once, left to
// right, without intermediate rounding.
func NewLineItemSet(items ...LineItem) (LineItemSet, error) {
	if len(items) == 0 {
		return LineItemSet{}, fmt.Errorf("%w: at least one line item is required", ErrInvalidLineItem)
	}

	currency := items[0].unitPrice.Currency()
	subtotal := kernel.ZeroMoney(currency)
	for idx, item := range items {
		if err := item.Validate(); err != nil {
			return LineItemSet{}, fmt.Errorf("line %d: %w", idx, err)
		}

		var err error
		subtotal, err = subtotal.Add(item.LineTotal())
		if err != nil {
			return LineItemSet{}, fmt.Errorf("line %d: %w", idx, err)
		}
	}

	return LineItemSet{
		items:    append([]LineItem(nil), items...),
		subtotal: subtotal,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the set was created through NewLineItemSet.
func (s LineItemSet) Validate() error {
	return s.guard.Validate(ErrLineItemSetIsNotConstructed)
}

// Items returns a copy of the line items in their original order.
func (s LineItemSet) Items() []LineItem {
	return append([]LineItem(nil), s.items...)
}

// Len returns the number of lines.
func (s LineItemSet) Len() int {
	return len(s.items)
}

// Currency returns the currency shared by every line.
func (s LineItemSet) Currency() kernel.Currency {
	return s.subtotal.Currency()
}

// Subtotal returns Σ unitPrice × quantity.
func (s LineItemSet) Subtotal() kernel.Money {
	return s.subtotal
}
