// Package servers holds the storefront HTTP contract: the embedded OpenAPI
// document, its request and response models, and the echo wrapper that binds
// path and query parameters before calling a ServerInterface. The code follows
// the layout oapi-codegen produces for echo and is maintained by hand
// alongside openapi.yml.
package servers

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for BreakdownTaxModel.
const (
	BreakdownTaxModelNone     BreakdownTaxModel = "none"
	BreakdownTaxModelSplitGst BreakdownTaxModel = "split_gst"
)

// Defines values for FulfillmentStateOrderStatus.
const (
	FulfillmentStateOrderStatusCancelled FulfillmentStateOrderStatus = "cancelled"
	FulfillmentStateOrderStatusConfirmed FulfillmentStateOrderStatus = "confirmed"
	FulfillmentStateOrderStatusPending   FulfillmentStateOrderStatus = "pending"
	FulfillmentStateOrderStatusRefunded  FulfillmentStateOrderStatus = "refunded"
)

// Defines values for FulfillmentStateShippingStatus.
const (
	FulfillmentStateShippingStatusDelivered FulfillmentStateShippingStatus = "delivered"
	FulfillmentStateShippingStatusPacked    FulfillmentStateShippingStatus = "packed"
	FulfillmentStateShippingStatusPending   FulfillmentStateShippingStatus = "pending"
	FulfillmentStateShippingStatusShipped   FulfillmentStateShippingStatus = "shipped"
)

// Defines values for InvoiceLayout.
const (
	InvoiceLayoutDiscountDelivery InvoiceLayout = "discount_delivery"
	InvoiceLayoutGstSplit         InvoiceLayout = "gst_split"
)

// Address defines model for Address.
type Address struct {
	AddressLine1 string  `json:"addressLine1"`
	AddressLine2 *string `json:"addressLine2,omitempty"`
	City         string  `json:"city"`
	FullName     string  `json:"fullName"`
	Phone        string  `json:"phone"`
	PostalCode   string  `json:"postalCode"`
	State        string  `json:"state"`
}

// Amount defines model for Amount.
type Amount = string

// Breakdown defines model for Breakdown.
type Breakdown struct {
	ConfigVersion  string `json:"configVersion"`
	Currency       string `json:"currency"`
	DeliveryCharge Amount `json:"deliveryCharge"`

	// DeferredDelivery Delivery is charged later by weight and the total is provisional.
	DeferredDelivery bool              `json:"deferredDelivery"`
	Discount         Amount            `json:"discount"`
	DiscountRegion   bool              `json:"discountRegion"`
	HandlingFee      Amount            `json:"handlingFee"`
	Subtotal         Amount            `json:"subtotal"`
	Tax              Amount            `json:"tax"`
	TaxHalfA         Amount            `json:"taxHalfA"`
	TaxHalfB         Amount            `json:"taxHalfB"`
	TaxModel         BreakdownTaxModel `json:"taxModel"`
	Total            Amount            `json:"total"`
}

// BreakdownTaxModel defines model for Breakdown.TaxModel.
type BreakdownTaxModel string

// CartLine defines model for CartLine.
type CartLine struct {
	ProductId openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`
}

// Courier defines model for Courier.
type Courier struct {
	Contact    string `json:"contact"`
	Name       string `json:"name"`
	TrackingId string `json:"trackingId"`
}

// Customer defines model for Customer.
type Customer struct {
	Email  *string             `json:"email,omitempty"`
	Name   *string             `json:"name,omitempty"`
	Phone  *string             `json:"phone,omitempty"`
	UserId *openapi_types.UUID `json:"userId,omitempty"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// FulfillmentState defines model for FulfillmentState.
type FulfillmentState struct {
	Courier        *Courier                       `json:"courier,omitempty"`
	OrderStatus    FulfillmentStateOrderStatus    `json:"orderStatus"`
	ShippingStatus FulfillmentStateShippingStatus `json:"shippingStatus"`
}

// FulfillmentStateOrderStatus defines model for FulfillmentState.OrderStatus.
type FulfillmentStateOrderStatus string

// FulfillmentStateShippingStatus defines model for FulfillmentState.ShippingStatus.
type FulfillmentStateShippingStatus string

// Invoice defines model for Invoice.
type Invoice struct {
	BilledTo struct {
		Address string  `json:"address"`
		Email   *string `json:"email,omitempty"`
		Name    string  `json:"name"`
		Phone   *string `json:"phone,omitempty"`
	} `json:"billedTo"`
	Currency    string              `json:"currency"`
	Date        time.Time           `json:"date"`
	Layout      InvoiceLayout       `json:"layout"`
	Lines       []InvoiceLine       `json:"lines"`
	Notes       []string            `json:"notes"`
	Number      string              `json:"number"`
	Provisional bool                `json:"provisional"`
	Summary     []InvoiceSummaryRow `json:"summary"`
	Total       Amount              `json:"total"`
}

// InvoiceLayout defines model for Invoice.Layout.
type InvoiceLayout string

// InvoiceLine defines model for InvoiceLine.
type InvoiceLine struct {
	Amount      Amount `json:"amount"`
	Description string `json:"description"`
	Quantity    int    `json:"quantity"`
	UnitPrice   Amount `json:"unitPrice"`
}

// InvoiceSummaryRow defines model for InvoiceSummaryRow.
type InvoiceSummaryRow struct {
	Amount    *Amount `json:"amount,omitempty"`
	Deduction bool    `json:"deduction"`
	Label     string  `json:"label"`
	Note      *string `json:"note,omitempty"`
}

// LineItem defines model for LineItem.
type LineItem struct {
	LineTotal   Amount             `json:"lineTotal"`
	ProductId   openapi_types.UUID `json:"productId"`
	ProductName string             `json:"productName"`
	Quantity    int                `json:"quantity"`
	UnitPrice   Amount             `json:"unitPrice"`
}

// Order defines model for Order.
type Order struct {
	Address       Address            `json:"address"`
	Breakdown     Breakdown          `json:"breakdown"`
	Customer      Customer           `json:"customer"`
	DriftFields   *[]string          `json:"driftFields,omitempty"`
	Fulfillment   FulfillmentState   `json:"fulfillment"`
	Id            openapi_types.UUID `json:"id"`
	InvoiceNumber string             `json:"invoiceNumber"`
	Items         []LineItem         `json:"items"`
	PlacedAt      time.Time          `json:"placedAt"`
	PricingDrift  bool               `json:"pricingDrift"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Version       int64              `json:"version"`
}

// OrderSummary defines model for OrderSummary.
type OrderSummary struct {
	Currency         string             `json:"currency"`
	CustomerName     string             `json:"customerName"`
	DeferredDelivery bool               `json:"deferredDelivery"`
	Id               openapi_types.UUID `json:"id"`
	ItemCount        int                `json:"itemCount"`
	OrderStatus      string             `json:"orderStatus"`
	PlacedAt         time.Time          `json:"placedAt"`
	ShippingStatus   string             `json:"shippingStatus"`
	Total            Amount             `json:"total"`
}

// PlaceOrderRequest defines model for PlaceOrderRequest.
type PlaceOrderRequest struct {
	Address     Address    `json:"address"`
	Customer    Customer   `json:"customer"`
	HandlingFee *Amount    `json:"handlingFee,omitempty"`
	Items       []CartLine `json:"items"`
}

// Quote defines model for Quote.
type Quote struct {
	Breakdown Breakdown  `json:"breakdown"`
	Items     []LineItem `json:"items"`
}

// QuoteRequest defines model for QuoteRequest.
type QuoteRequest struct {
	Address Address    `json:"address"`
	Items   []CartLine `json:"items"`
}

// UpdateFulfillmentRequest defines model for UpdateFulfillmentRequest.
type UpdateFulfillmentRequest struct {
	Expected  FulfillmentState `json:"expected"`
	Requested FulfillmentState `json:"requested"`
}

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// SearchOrdersParams defines parameters for SearchOrders.
type SearchOrdersParams struct {
	Q     string `form:"q" json:"q"`
	Limit *int   `form:"limit,omitempty" json:"limit,omitempty"`
}

// CreateQuoteJSONRequestBody defines body for CreateQuote for application/json ContentType.
type CreateQuoteJSONRequestBody = QuoteRequest

// PlaceOrderJSONRequestBody defines body for PlaceOrder for application/json ContentType.
type PlaceOrderJSONRequestBody = PlaceOrderRequest

// UpdateFulfillmentJSONRequestBody defines body for UpdateFulfillment for application/json ContentType.
type UpdateFulfillmentJSONRequestBody = UpdateFulfillmentRequest
