// Package invoice turns a placed order into the data of its invoice.
//
// Summary amounts are copied from the order's stored pricing.PriceBreakdown,
// and the Layout only decides which of them are shown: the regional discount
// and delivery rows or the split GST rows.
//
// The one derived figure is each line's amount, unit price × quantity of the
// stored line item. It involves no rounding or policy, and the line amounts
// always add up to the stored subtotal.
package invoice
