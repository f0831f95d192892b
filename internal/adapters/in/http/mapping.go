package http

import (
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/invoice"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/domain/services"
	"storefront/internal/generated/servers"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func uuidFromAPI(id openapi_types.UUID) (kernel.UUID, error) {
	return kernel.UUIDFromBytes(id[:])
}

func amountToAPI(m kernel.Money) servers.Amount {
	return m.Amount().StringFixed(2)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func cartLinesFromAPI(items []servers.CartLine) ([]services.CartLine, error) {
	lines := make([]services.CartLine, 0, len(items))
	for _, item := range items {
		id, err := uuidFromAPI(item.ProductId)
		if err != nil {
			return nil, err
		}
		lines = append(lines, services.CartLine{ProductID: id, Quantity: item.Quantity})
	}
	return lines, nil
}

func addressFromAPI(a servers.Address) (kernel.DeliveryAddress, error) {
	return kernel.NewDeliveryAddress(
		a.FullName, a.AddressLine1, deref(a.AddressLine2), a.City, a.State, a.PostalCode, a.Phone,
	)
}

func addressToAPI(a kernel.DeliveryAddress) servers.Address {
	return servers.Address{
		FullName:     a.FullName(),
		AddressLine1: a.AddressLine1(),
		AddressLine2: optional(a.AddressLine2()),
		City:         a.City(),
		State:        a.State(),
		PostalCode:   a.PostalCode(),
		Phone:        a.Phone(),
	}
}

func customerFromAPI(c servers.Customer) (order.Customer, error) {
	if c.UserId == nil {
		return order.NewGuestCustomer(deref(c.Name), deref(c.Email), deref(c.Phone))
	}
	userID, err := uuidFromAPI(*c.UserId)
	if err != nil {
		return order.Customer{}, err
	}
	return order.NewRegisteredCustomer(userID, deref(c.Name), deref(c.Email), deref(c.Phone))
}

func customerToAPI(c order.Customer) servers.Customer {
	out := servers.Customer{
		Name:  optional(c.Name()),
		Email: optional(c.Email()),
		Phone: optional(c.Phone()),
	}
	if id := c.UserID(); id != nil {
		userID := openapi_types.UUID(id.Bytes())
		out.UserId = &userID
	}
	return out
}

func courierFromAPI(c *servers.Courier) (*fulfillment.CourierInfo, error) {
	if c == nil {
		return nil, nil
	}
	return fulfillment.ParseCourierInfo(c.Name, c.Contact, c.TrackingId)
}

func statusesFromAPI(s servers.FulfillmentState) (fulfillment.OrderStatus, fulfillment.ShippingStatus, *fulfillment.CourierInfo, error) {
	orderStatus, err := fulfillment.ParseOrderStatus(string(s.OrderStatus))
	if err != nil {
		return 0, 0, nil, err
	}
	shippingStatus, err := fulfillment.ParseShippingStatus(string(s.ShippingStatus))
	if err != nil {
		return 0, 0, nil, err
	}
	courier, err := courierFromAPI(s.Courier)
	if err != nil {
		return 0, 0, nil, err
	}
	return orderStatus, shippingStatus, courier, nil
}

func stateFromAPI(s servers.FulfillmentState) (fulfillment.State, error) {
	orderStatus, shippingStatus, courier, err := statusesFromAPI(s)
	if err != nil {
		return fulfillment.State{}, err
	}
	return fulfillment.NewState(orderStatus, shippingStatus, courier)
}

func requestFromAPI(s servers.FulfillmentState) (fulfillment.Request, error) {
	orderStatus, shippingStatus, courier, err := statusesFromAPI(s)
	if err != nil {
		return fulfillment.Request{}, err
	}
	return fulfillment.Request{OrderStatus: orderStatus, ShippingStatus: shippingStatus, Courier: courier}, nil
}

func stateToAPI(s fulfillment.State) servers.FulfillmentState {
	out := servers.FulfillmentState{
		OrderStatus:    servers.FulfillmentStateOrderStatus(s.OrderStatus.String()),
		ShippingStatus: servers.FulfillmentStateShippingStatus(s.ShippingStatus.String()),
	}
	if s.Courier != nil {
		out.Courier = &servers.Courier{
			Name:       s.Courier.Name(),
			Contact:    s.Courier.Contact(),
			TrackingId: s.Courier.TrackingID(),
		}
	}
	return out
}

func lineItemsToAPI(items pricing.LineItemSet) []servers.LineItem {
	out := make([]servers.LineItem, 0, items.Len())
	for _, item := range items.Items() {
		out = append(out, servers.LineItem{
			ProductId:   openapi_types.UUID(item.ProductID().Bytes()),
			ProductName: item.ProductName(),
			UnitPrice:   amountToAPI(item.UnitPrice()),
			Quantity:    item.Quantity(),
			LineTotal:   amountToAPI(item.LineTotal()),
		})
	}
	return out
}

func breakdownToAPI(b pricing.PriceBreakdown) servers.Breakdown {
	halfA, halfB := b.TaxHalves()
	return servers.Breakdown{
		ConfigVersion:    b.ConfigVersion(),
		Currency:         string(b.Currency()),
		TaxModel:         servers.BreakdownTaxModel(b.TaxModel().String()),
		DiscountRegion:   b.DiscountRegion(),
		DeferredDelivery: b.DeferredDelivery(),
		Subtotal:         amountToAPI(b.Subtotal()),
		Discount:         amountToAPI(b.Discount()),
		DeliveryCharge:   amountToAPI(b.DeliveryCharge()),
		HandlingFee:      amountToAPI(b.HandlingFee()),
		Tax:              amountToAPI(b.Tax()),
		TaxHalfA:         amountToAPI(halfA),
		TaxHalfB:         amountToAPI(halfB),
		Total:            amountToAPI(b.Total()),
	}
}

func orderToAPI(o *order.Order, drift *order.PricingDrift) servers.Order {
	out := servers.Order{
		Id:            openapi_types.UUID(o.ID().Bytes()),
		InvoiceNumber: invoice.Number(o.ID()),
		Customer:      customerToAPI(o.Customer()),
		Address:       addressToAPI(o.Address()),
		Items:         lineItemsToAPI(o.Items()),
		Breakdown:     breakdownToAPI(o.Breakdown()),
		Fulfillment:   stateToAPI(o.State()),
		PlacedAt:      o.PlacedAt(),
		UpdatedAt:     o.UpdatedAt(),
		Version:       o.Version(),
		PricingDrift:  drift != nil,
	}
	if drift != nil {
		fields := append([]string(nil), drift.Fields...)
		out.DriftFields = &fields
	}
	return out
}

func summariesToAPI(summaries []queries.OrderSummary) []servers.OrderSummary {
	out := make([]servers.OrderSummary, 0, len(summaries))
	for _, s := range summaries {
		out = append(out, servers.OrderSummary{
			Id:               openapi_types.UUID(s.ID.Bytes()),
			CustomerName:     s.CustomerName,
			ItemCount:        s.ItemCount,
			Total:            amountToAPI(s.Total),
			Currency:         string(s.Total.Currency()),
			DeferredDelivery: s.DeferredDelivery,
			OrderStatus:      s.OrderStatus.String(),
			ShippingStatus:   s.ShippingStatus.String(),
			PlacedAt:         s.PlacedAt,
		})
	}
	return out
}

func invoiceToAPI(inv invoice.Invoice) servers.Invoice {
	out := servers.Invoice{
		Number:      inv.Number,
		Date:        inv.Date,
		Layout:      servers.InvoiceLayout(inv.Layout.String()),
		Lines:       make([]servers.InvoiceLine, 0, len(inv.Lines)),
		Summary:     make([]servers.InvoiceSummaryRow, 0, len(inv.Summary)),
		Total:       amountToAPI(inv.Total),
		Currency:    string(inv.Currency),
		Provisional: inv.Provisional,
		Notes:       append([]string{}, inv.Notes...),
	}
	out.BilledTo.Name = inv.BilledTo.Name
	out.BilledTo.Email = optional(inv.BilledTo.Email)
	out.BilledTo.Phone = optional(inv.BilledTo.Phone)
	out.BilledTo.Address = inv.BilledTo.Address

	for _, line := range inv.Lines {
		out.Lines = append(out.Lines, servers.InvoiceLine{
			Description: line.Description,
			Quantity:    line.Quantity,
			UnitPrice:   amountToAPI(line.UnitPrice),
			Amount:      amountToAPI(line.Amount),
		})
	}
	for _, row := range inv.Summary {
		apiRow := servers.InvoiceSummaryRow{
			Label:     row.Label,
			Deduction: row.Deduction,
			Note:      optional(row.Note),
		}
		if row.Amount != nil {
			amount := amountToAPI(*row.Amount)
			apiRow.Amount = &amount
		}
		out.Summary = append(out.Summary, apiRow)
	}
	return out
}
