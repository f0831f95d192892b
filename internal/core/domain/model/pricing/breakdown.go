package pricing

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	// ErrNegativeResult is returned when any computed amount would be negative.
	ErrNegativeResult = errs.NewValueIsInvalidError("negative pricing result")
	// ErrBreakdownIsNotConstructed is returned when a PriceBreakdown was not created through a constructor.
	ErrBreakdownIsNotConstructed = errors.New("PriceBreakdown must be created via ComputeBreakdown or RestorePriceBreakdown")
	// ErrBreakdownTotalMismatch is returned when a restored breakdown violates the total identity.
	ErrBreakdownTotalMismatch = errs.NewValueIsInvalidError("breakdown total")
)

// BreakdownRecord is the flat form of a PriceBreakdown used by persistence and
// transport. It carries no behavior.
type BreakdownRecord struct {
	ConfigVersion    string
	TaxModel         TaxModelKind
	DiscountRegion   bool
	DeferredDelivery bool
	Subtotal         kernel.Money
	Discount         kernel.Money
	DeliveryCharge   kernel.Money
	HandlingFee      kernel.Money
	Tax              kernel.Money
	TaxHalfA         kernel.Money
	TaxHalfB         kernel.Money
	Total            kernel.Money
}

// PriceBreakdown is the computed and frozen set of monetary amounts for an order.
//
// Total always equals Subtotal - Discount + DeliveryCharge + HandlingFee + Tax,
// and TaxHalfA + TaxHalfB always equals Tax.
type PriceBreakdown struct {
	record BreakdownRecord

	guard guard.ConstructorGuard
}

// RestorePriceBreakdown rebuilds a breakdown from stored amounts. The stored
// values are taken as they are; only the identities are checked.
func RestorePriceBreakdown(r BreakdownRecord) (PriceBreakdown, error) {
	if r.ConfigVersion == "" {
		return PriceBreakdown{}, ErrConfigVersionMissing
	}
	if err := checkIdentities(r); err != nil {
		return PriceBreakdown{}, err
	}
	return PriceBreakdown{record: r, guard: guard.NewConstructorGuard()}, nil
}

func checkIdentities(r BreakdownRecord) error {
	computed, err := total(r)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("breakdown", err)
	}
	if !computed.IsEqual(r.Total) {
		return fmt.Errorf("%w: stored %s, computed %s", ErrBreakdownTotalMismatch, r.Total, computed)
	}

	halves, err := r.TaxHalfA.Add(r.TaxHalfB)
	if err != nil {
		return err
	}
	if !halves.IsEqual(r.Tax) {
		return fmt.Errorf("%w: tax halves %s do not add up to %s", ErrBreakdownTotalMismatch, halves, r.Tax)
	}
	return nil
}

// Validate ensures the breakdown was created through a constructor.
func (b PriceBreakdown) Validate() error {
	return b.guard.Validate(ErrBreakdownIsNotConstructed)
}

// Record returns the flat form of the breakdown.
func (b PriceBreakdown) Record() BreakdownRecord { return b.record }

func (b PriceBreakdown) ConfigVersion() string        { return b.record.ConfigVersion }
func (b PriceBreakdown) TaxModel() TaxModelKind       { return b.record.TaxModel }
func (b PriceBreakdown) DiscountRegion() bool         { return b.record.DiscountRegion }
func (b PriceBreakdown) DeferredDelivery() bool       { return b.record.DeferredDelivery }
func (b PriceBreakdown) Currency() kernel.Currency    { return b.record.Total.Currency() }
func (b PriceBreakdown) Subtotal() kernel.Money       { return b.record.Subtotal }
func (b PriceBreakdown) Discount() kernel.Money       { return b.record.Discount }
func (b PriceBreakdown) DeliveryCharge() kernel.Money { return b.record.DeliveryCharge }
func (b PriceBreakdown) HandlingFee() kernel.Money    { return b.record.HandlingFee }
func (b PriceBreakdown) Tax() kernel.Money            { return b.record.Tax }
func (b PriceBreakdown) Total() kernel.Money          { return b.record.Total }

// TaxHalves returns the two displayed halves of the tax. They add up to Tax exactly.
func (b PriceBreakdown) TaxHalves() (kernel.Money, kernel.Money) {
	return b.record.TaxHalfA, b.record.TaxHalfB
}

// Differences lists the names of the fields whose values differ between b and other.
// An empty result means the breakdowns are equal.
func (b PriceBreakdown) Differences(other PriceBreakdown) []string {
	x, y := b.record, other.record

	var diff []string
	if x.ConfigVersion != y.ConfigVersion {
		diff = append(diff, "config_version")
	}
	if x.TaxModel != y.TaxModel {
		diff = append(diff, "tax_model")
	}
	if x.DiscountRegion != y.DiscountRegion {
		diff = append(diff, "discount_region")
	}
	if x.DeferredDelivery != y.DeferredDelivery {
		diff = append(diff, "deferred_delivery")
	}

	amounts := []struct {
		name string
		a, b kernel.Money
	}{
		{"subtotal", x.Subtotal, y.Subtotal},
		{"discount", x.Discount, y.Discount},
		{"delivery_charge", x.DeliveryCharge, y.DeliveryCharge},
		{"handling_fee", x.HandlingFee, y.HandlingFee},
		{"tax", x.Tax, y.Tax},
		{"tax_half_a", x.TaxHalfA, y.TaxHalfA},
		{"tax_half_b", x.TaxHalfB, y.TaxHalfB},
		{"total", x.Total, y.Total},
	}
	for _, a := range amounts {
		if !a.a.IsEqual(a.b) {
			diff = append(diff, a.name)
		}
	}
	return diff
}

// IsEqual reports whether every field of b equals the one in other.
func (b PriceBreakdown) IsEqual(other PriceBreakdown) bool {
	return len(b.Differences(other)) == 0
}
