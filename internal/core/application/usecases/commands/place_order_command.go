package commands

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/guard"
)

var (
	ErrPlaceOrderCommandIsNotConstructed = errors.New(
		"PlaceOrderCommand must be created via NewPlaceOrderCommand constructor",
	)
)

// PlaceOrderCommand is a checkout: the cart, where to deliver it and who buys it.
// Prices are not part of the command; they are looked up in the catalog when
// the command is handled.
//
// Example:
//
//	cmd, err := NewPlaceOrderCommand(kernel.NewUUID(), lines, address, customer, nil)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to place order: %w", err)
//	}
type PlaceOrderCommand struct { //nolint:recvcheck //using for validation
	orderID     kernel.UUID
	lines       []services.CartLine
	address     kernel.DeliveryAddress
	customer    order.Customer
	handlingFee *kernel.Money

	guard guard.ConstructorGuard
}

// NewPlaceOrderCommand validates the checkout data. handlingFee may be nil to
// use the policy default.
func NewPlaceOrderCommand(
	orderID kernel.UUID,
	lines []services.CartLine,
	address kernel.DeliveryAddress,
	customer order.Customer,
	handlingFee *kernel.Money,
) (PlaceOrderCommand, error) {
	cmd := PlaceOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setLines(lines),
		cmd.setAddress(address),
		cmd.setCustomer(customer),
		cmd.setHandlingFee(handlingFee),
	); err != nil {
		return PlaceOrderCommand{}, err
	}

	return cmd, nil
}

func (c PlaceOrderCommand) Validate() error {
	return c.guard.Validate(ErrPlaceOrderCommandIsNotConstructed)
}

func (c PlaceOrderCommand) OrderID() kernel.UUID            { return c.orderID }
func (c PlaceOrderCommand) Address() kernel.DeliveryAddress { return c.address }
func (c PlaceOrderCommand) Customer() order.Customer        { return c.customer }
func (c PlaceOrderCommand) HandlingFee() *kernel.Money      { return c.handlingFee }

// Lines returns a copy of the cart lines.
func (c PlaceOrderCommand) Lines() []services.CartLine {
	return append([]services.CartLine(nil), c.lines...)
}

func (c *PlaceOrderCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *PlaceOrderCommand) setLines(lines []services.CartLine) error {
	if len(lines) == 0 {
		return pricing.ErrInvalidLineItem
	}
	c.lines = append([]services.CartLine(nil), lines...)
	return nil
}

func (c *PlaceOrderCommand) setAddress(address kernel.DeliveryAddress) error {
	if err := address.Validate(); err != nil {
		return err
	}
	c.address = address
	return nil
}

func (c *PlaceOrderCommand) setCustomer(customer order.Customer) error {
	if err := customer.Validate(); err != nil {
		return err
	}
	c.customer = customer
	return nil
}

func (c *PlaceOrderCommand) setHandlingFee(fee *kernel.Money) error {
	if fee == nil {
		return nil
	}
	if err := fee.Validate(); err != nil {
		return err
	}
	c.handlingFee = fee
	return nil
}
