package commands

import (
	"errors"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

var (
	ErrUpdateFulfillmentCommandIsNotConstructed = errors.New(
		"UpdateFulfillmentCommand must be created via NewUpdateFulfillmentCommand constructor",
	)
)

// UpdateFulfillmentCommand is a staff edit of an order's statuses and courier.
// Expected is the state the staff member saw before editing.
type UpdateFulfillmentCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	expected fulfillment.State
	request  fulfillment.Request

	guard guard.ConstructorGuard
}

func NewUpdateFulfillmentCommand(
	orderID kernel.UUID,
	expected fulfillment.State,
	request fulfillment.Request,
) (UpdateFulfillmentCommand, error) {
	cmd := UpdateFulfillmentCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setExpected(expected),
		cmd.setRequest(request),
	); err != nil {
		return UpdateFulfillmentCommand{}, err
	}

	return cmd, nil
}

func (c UpdateFulfillmentCommand) Validate() error {
	return c.guard.Validate(ErrUpdateFulfillmentCommandIsNotConstructed)
}

func (c UpdateFulfillmentCommand) OrderID() kernel.UUID         { return c.orderID }
func (c UpdateFulfillmentCommand) Expected() fulfillment.State  { return c.expected }
func (c UpdateFulfillmentCommand) Request() fulfillment.Request { return c.request }

func (c *UpdateFulfillmentCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}
	c.orderID = orderID
	return nil
}

func (c *UpdateFulfillmentCommand) setExpected(expected fulfillment.State) error {
	if err := expected.Validate(); err != nil {
		return err
	}
	c.expected = expected
	return nil
}

func (c *UpdateFulfillmentCommand) setRequest(request fulfillment.Request) error {
	if err := errors.Join(request.OrderStatus.Validate(), request.ShippingStatus.Validate()); err != nil {
		return err
	}
	c.request = request
	return nil
}
