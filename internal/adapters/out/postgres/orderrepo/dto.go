// Package orderrepo persists order aggregates. Every breakdown amount and the
// config version are written once at placement and read back as they are.
package orderrepo

import (
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO is the orders table. Amounts are numeric(12,2) in the order currency.
type OrderDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	CustomerID    *uuid.UUID `gorm:"type:uuid;index"`
	CustomerName  string     `gorm:"type:varchar(255)"`
	CustomerEmail string     `gorm:"type:varchar(255)"`
	CustomerPhone string     `gorm:"type:varchar(32)"`

	Address AddressDTO `gorm:"embedded;embeddedPrefix:address_"`

	Currency            string           `gorm:"type:char(3);not null"`
	ConfigVersion       string           `gorm:"type:varchar(64);not null;index"`
	TaxModel            string           `gorm:"type:varchar(16);not null"`
	DiscountRegion      bool             `gorm:"not null"`
	DeferredDelivery    bool             `gorm:"not null"`
	Subtotal            decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Discount            decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	DeliveryCharge      decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	HandlingFee         decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	HandlingFeeOverride *decimal.Decimal `gorm:"type:numeric(12,2)"`
	Tax                 decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	TaxHalfA            decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	TaxHalfB            decimal.Decimal  `gorm:"type:numeric(12,2);not null"`
	Total               decimal.Decimal  `gorm:"type:numeric(12,2);not null"`

	OrderStatus    int        `gorm:"type:smallint;not null"`
	ShippingStatus int        `gorm:"type:smallint;not null"`
	Courier        CourierDTO `gorm:"embedded;embeddedPrefix:courier_"`

	PlacedAt  time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime:false"`
	Version   int64     `gorm:"not null"`

	Items []OrderItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

type AddressDTO struct {
	FullName   string `gorm:"type:varchar(255)"`
	Line1      string `gorm:"type:varchar(255)"`
	Line2      string `gorm:"type:varchar(255)"`
	City       string `gorm:"type:varchar(128)"`
	State      string `gorm:"type:varchar(128)"`
	PostalCode string `gorm:"type:varchar(16)"`
	Phone      string `gorm:"type:varchar(32)"`
}

// CourierDTO is blank in all three columns when no courier is attached.
type CourierDTO struct {
	Name       string `gorm:"type:varchar(255)"`
	Contact    string `gorm:"type:varchar(255)"`
	TrackingID string `gorm:"type:varchar(128)"`
}

// OrderItemDTO is one line item, kept in cart order by Position.
type OrderItemDTO struct {
	OrderID     uuid.UUID       `gorm:"type:uuid;primaryKey"`
	Position    int             `gorm:"primaryKey;autoIncrement:false"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	ProductName string          `gorm:"type:varchar(255);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity    int             `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	customer := o.Customer()
	var customerID *uuid.UUID
	if id := customer.UserID(); id != nil {
		raw := id.Bytes()
		customerID = &raw
	}

	var override *decimal.Decimal
	if fee := o.HandlingFeeOverride(); fee != nil {
		amount := fee.Amount()
		override = &amount
	}

	addr := o.Address()
	b := o.Breakdown().Record()
	dto := OrderDTO{
		ID:            o.ID().Bytes(),
		CustomerID:    customerID,
		CustomerName:  customer.Name(),
		CustomerEmail: customer.Email(),
		CustomerPhone: customer.Phone(),
		Address: AddressDTO{
			FullName:   addr.FullName(),
			Line1:      addr.AddressLine1(),
			Line2:      addr.AddressLine2(),
			City:       addr.City(),
			State:      addr.State(),
			PostalCode: addr.PostalCode(),
			Phone:      addr.Phone(),
		},
		Currency:            string(b.Total.Currency()),
		ConfigVersion:       b.ConfigVersion,
		TaxModel:            b.TaxModel.String(),
		DiscountRegion:      b.DiscountRegion,
		DeferredDelivery:    b.DeferredDelivery,
		Subtotal:            b.Subtotal.Amount(),
		Discount:            b.Discount.Amount(),
		DeliveryCharge:      b.DeliveryCharge.Amount(),
		HandlingFee:         b.HandlingFee.Amount(),
		HandlingFeeOverride: override,
		Tax:                 b.Tax.Amount(),
		TaxHalfA:            b.TaxHalfA.Amount(),
		TaxHalfB:            b.TaxHalfB.Amount(),
		Total:               b.Total.Amount(),
		PlacedAt:            o.PlacedAt(),
		UpdatedAt:           o.UpdatedAt(),
		Version:             o.Version(),
	}
	applyState(&dto, o.State())

	for i, item := range o.Items().Items() {
		dto.Items = append(dto.Items, OrderItemDTO{
			OrderID:     dto.ID,
			Position:    i,
			ProductID:   item.ProductID().Bytes(),
			ProductName: item.ProductName(),
			UnitPrice:   item.UnitPrice().Amount(),
			Quantity:    item.Quantity(),
		})
	}

	return dto
}

func applyState(dto *OrderDTO, state fulfillment.State) {
	dto.OrderStatus = int(state.OrderStatus)
	dto.ShippingStatus = int(state.ShippingStatus)
	dto.Courier = CourierDTO{}
	if c := state.Courier; c != nil {
		dto.Courier = CourierDTO{Name: c.Name(), Contact: c.Contact(), TrackingID: c.TrackingID()}
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customer, err := customerFromDTO(dto)
	if err != nil {
		return nil, err
	}

	address, err := kernel.NewDeliveryAddress(
		dto.Address.FullName,
		dto.Address.Line1,
		dto.Address.Line2,
		dto.Address.City,
		dto.Address.State,
		dto.Address.PostalCode,
		dto.Address.Phone,
	)
	if err != nil {
		return nil, err
	}

	currency := kernel.Currency(dto.Currency)
	items, err := itemsFromDTO(dto.Items, currency)
	if err != nil {
		return nil, err
	}

	breakdown, err := breakdownFromDTO(dto, currency)
	if err != nil {
		return nil, err
	}

	var override *kernel.Money
	if dto.HandlingFeeOverride != nil {
		fee, feeErr := kernel.NewMoneyFromDecimal(*dto.HandlingFeeOverride, currency)
		if feeErr != nil {
			return nil, feeErr
		}
		override = &fee
	}

	courier, err := fulfillment.ParseCourierInfo(dto.Courier.Name, dto.Courier.Contact, dto.Courier.TrackingID)
	if err != nil {
		return nil, err
	}
	state, err := fulfillment.NewState(
		fulfillment.OrderStatus(dto.OrderStatus),
		fulfillment.ShippingStatus(dto.ShippingStatus),
		courier,
	)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customer, items, address, override, breakdown, state,
		dto.PlacedAt, dto.UpdatedAt, dto.Version)
}

func customerFromDTO(dto OrderDTO) (order.Customer, error) {
	if dto.CustomerID == nil {
		return order.NewGuestCustomer(dto.CustomerName, dto.CustomerEmail, dto.CustomerPhone)
	}
	userID, err := kernel.UUIDFromBytes((*dto.CustomerID)[:])
	if err != nil {
		return order.Customer{}, err
	}
	return order.NewRegisteredCustomer(userID, dto.CustomerName, dto.CustomerEmail, dto.CustomerPhone)
}

func itemsFromDTO(dtos []OrderItemDTO, currency kernel.Currency) (pricing.LineItemSet, error) {
	items := make([]pricing.LineItem, 0, len(dtos))
	for _, d := range dtos {
		productID, err := kernel.UUIDFromBytes(d.ProductID[:])
		if err != nil {
			return pricing.LineItemSet{}, err
		}
		price, err := kernel.NewMoneyFromDecimal(d.UnitPrice, currency)
		if err != nil {
			return pricing.LineItemSet{}, err
		}
		item, err := pricing.NewLineItem(productID, d.ProductName, price, d.Quantity)
		if err != nil {
			return pricing.LineItemSet{}, err
		}
		items = append(items, item)
	}
	return pricing.NewLineItemSet(items...)
}

func breakdownFromDTO(dto OrderDTO, currency kernel.Currency) (pricing.PriceBreakdown, error) {
	taxModel, err := pricing.ParseTaxModelKind(dto.TaxModel)
	if err != nil {
		return pricing.PriceBreakdown{}, err
	}

	r := pricing.BreakdownRecord{
		ConfigVersion:    dto.ConfigVersion,
		TaxModel:         taxModel,
		DiscountRegion:   dto.DiscountRegion,
		DeferredDelivery: dto.DeferredDelivery,
	}
	amounts := []struct {
		dst *kernel.Money
		src decimal.Decimal
	}{
		{&r.Subtotal, dto.Subtotal},
		{&r.Discount, dto.Discount},
		{&r.DeliveryCharge, dto.DeliveryCharge},
		{&r.HandlingFee, dto.HandlingFee},
		{&r.Tax, dto.Tax},
		{&r.TaxHalfA, dto.TaxHalfA},
		{&r.TaxHalfB, dto.TaxHalfB},
		{&r.Total, dto.Total},
	}
	for _, a := range amounts {
		if *a.dst, err = kernel.NewMoneyFromDecimal(a.src, currency); err != nil {
			return pricing.PriceBreakdown{}, err
		}
	}

	return pricing.RestorePriceBreakdown(r)
}
