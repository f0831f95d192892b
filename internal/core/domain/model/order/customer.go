package order

import (
	"errors"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a Customer was not created through a constructor.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewRegisteredCustomer or NewGuestCustomer")

// Customer is the buyer of an order: a registered user referenced by id, or a
// guest whose contact details are copied into the order. Name, email and phone
// are a snapshot taken at checkout in both cases.
type Customer struct {
	userID *kernel.UUID
	name   string
	email  string
	phone  string

	isConstructed bool
}

// NewRegisteredCustomer references a signed-in user. Contact fields are optional.
func NewRegisteredCustomer(userID kernel.UUID, name, email, phone string) (Customer, error) {
	if err := userID.Validate(); err != nil {
		return Customer{}, errs.NewValueIsRequiredErrorWithCause("customer user id", err)
	}
	return Customer{
		userID:        &userID,
		name:          strings.TrimSpace(name),
		email:         strings.TrimSpace(email),
		phone:         strings.TrimSpace(phone),
		isConstructed: true,
	}, nil
}

// NewGuestCustomer requires a name and a phone number; email is optional.
func NewGuestCustomer(name, email, phone string) (Customer, error) {
	c := Customer{
		name:          strings.TrimSpace(name),
		email:         strings.TrimSpace(email),
		phone:         strings.TrimSpace(phone),
		isConstructed: true,
	}

	var problems []error
	if c.name == "" {
		problems = append(problems, errs.NewValueIsRequiredError("guest name"))
	}
	if c.phone == "" {
		problems = append(problems, errs.NewValueIsRequiredError("guest phone"))
	}
	if err := errors.Join(problems...); err != nil {
		return Customer{}, err
	}
	return c, nil
}

func (c Customer) Validate() error {
	if !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// UserID is nil for guests.
func (c Customer) UserID() *kernel.UUID { return c.userID }
func (c Customer) IsGuest() bool        { return c.userID == nil }
func (c Customer) Name() string         { return c.name }
func (c Customer) Email() string        { return c.email }
func (c Customer) Phone() string        { return c.phone }
