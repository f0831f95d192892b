package invoice

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
)

const (
	// ProvisionalNote is printed when delivery is charged later by weight.
	ProvisionalNote = "Extra delivery fee may apply, charged by parcel weight before dispatch"
	// Footer is printed on every invoice.
	Footer = "This is a computer-generated invoice. No signature required."
)

// Layout selects which summary rows a renderer prints.
type Layout int

const (
	LayoutUnknown Layout = iota
	// LayoutDiscountDelivery shows the regional discount, delivery and handling rows.
	LayoutDiscountDelivery
	// LayoutGSTSplit shows the tax as two equal CGST and SGST rows.
	LayoutGSTSplit
)

func (l Layout) String() string {
	switch l {
	case LayoutDiscountDelivery:
		return "discount_delivery"
	case LayoutGSTSplit:
		return "gst_split"
	default:
		return "unknown"
	}
}

// BilledTo is the customer block.
type BilledTo struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Line is one row of the items table.
type Line struct {
	Description string
	Quantity    int
	UnitPrice   kernel.Money
	Amount      kernel.Money
}

// SummaryRow is one row of the totals box. Amount is nil for rows that only
// carry a note, such as deferred delivery. Deduction rows are printed with a
// minus sign.
type SummaryRow struct {
	Label     string
	Amount    *kernel.Money
	Deduction bool
	Note      string
}

// Invoice is everything a renderer needs. Every amount comes from the order's
// stored breakdown; renderers only format.
type Invoice struct {
	Number      string
	Date        time.Time
	Layout      Layout
	BilledTo    BilledTo
	Lines       []Line
	Summary     []SummaryRow
	Total       kernel.Money
	Currency    kernel.Currency
	Provisional bool
	Notes       []string
}

// Number returns the invoice number of an order: INV- and the first eight
// characters of its id in upper case.
func Number(id kernel.UUID) string {
	return "INV-" + id.ShortCode()
}

// New builds the invoice of a placed order.
func New(o *order.Order) (Invoice, error) {
	if err := o.Validate(); err != nil {
		return Invoice{}, err
	}

	b := o.Breakdown()
	customer := o.Customer()
	inv := Invoice{
		Number: Number(o.ID()),
		Date:   o.PlacedAt(),
		Layout: layoutOf(b),
		BilledTo: BilledTo{
			Name:    customer.Name(),
			Email:   customer.Email(),
			Phone:   customer.Phone(),
			Address: o.Address().SingleLine(),
		},
		Total:       b.Total(),
		Currency:    b.Currency(),
		Provisional: b.DeferredDelivery(),
		Notes:       []string{Footer},
	}
	if inv.BilledTo.Name == "" {
		inv.BilledTo.Name = o.Address().FullName()
	}
	if inv.BilledTo.Phone == "" {
		inv.BilledTo.Phone = o.Address().Phone()
	}
	if inv.Provisional {
		inv.Notes = append([]string{ProvisionalNote}, inv.Notes...)
	}

	for _, item := range o.Items().Items() {
		inv.Lines = append(inv.Lines, Line{
			Description: item.ProductName(),
			Quantity:    item.Quantity(),
			UnitPrice:   item.UnitPrice(),
			Amount:      item.LineTotal(), // exact, sums to b.Subtotal()
		})
	}

	switch inv.Layout {
	case LayoutGSTSplit:
		inv.Summary = gstSplitRows(b)
	default:
		inv.Summary = discountDeliveryRows(b)
	}

	return inv, nil
}

func layoutOf(b pricing.PriceBreakdown) Layout {
	if b.TaxModel() == pricing.TaxModelSplitGST {
		return LayoutGSTSplit
	}
	return LayoutDiscountDelivery
}

func amount(label string, m kernel.Money) SummaryRow {
	return SummaryRow{Label: label, Amount: &m}
}

func discountDeliveryRows(b pricing.PriceBreakdown) []SummaryRow {
	rows := []SummaryRow{amount("Subtotal", b.Subtotal())}
	if b.DiscountRegion() {
		discount := amount("Regional discount", b.Discount())
		discount.Deduction = true
		rows = append(rows, discount, amount("Delivery charge", b.DeliveryCharge()))
	}
	if b.DeferredDelivery() {
		rows = append(rows, SummaryRow{Label: "Delivery", Note: "charged by weight"})
	}
	if !b.Tax().IsZero() {
		rows = append(rows, amount("Tax", b.Tax()))
	}
	return append(rows,
		amount("Handling fee", b.HandlingFee()),
		amount("Total payable", b.Total()),
	)
}

func gstSplitRows(b pricing.PriceBreakdown) []SummaryRow {
	halfA, halfB := b.TaxHalves()
	rows := []SummaryRow{amount("Subtotal", b.Subtotal())}
	if !b.Discount().IsZero() {
		discount := amount("Regional discount", b.Discount())
		discount.Deduction = true
		rows = append(rows, discount)
	}
	if !b.DeliveryCharge().IsZero() {
		rows = append(rows, amount("Delivery charge", b.DeliveryCharge()))
	}
	if !b.HandlingFee().IsZero() {
		rows = append(rows, amount("Handling fee", b.HandlingFee()))
	}
	return append(rows,
		amount("CGST", halfA),
		amount("SGST", halfB),
		amount("Total amount", b.Total()),
	)
}
