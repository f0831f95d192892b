package pricing

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"
)

// Option adjusts a single ComputeBreakdown call.
type Option func(*computeOptions)

type computeOptions struct {
	handlingFee *kernel.Money
}

// WithHandlingFee overrides the config's default handling fee for one order.
func WithHandlingFee(fee kernel.Money) Option {
	return func(o *computeOptions) {
		o.handlingFee = &fee
	}
}

// ComputeBreakdown prices a set of line items for a delivery address under one
// policy config version. It is pure and deterministic: the same inputs always
// produce the same breakdown.
//
// Inside the regional area (the postal code starts with the configured prefix)
// a percentage discount, capped at the subtotal, and a flat delivery charge
// apply. Outside it the delivery charge is zero and the breakdown is marked
// DeferredDelivery; the total is then provisional. With TaxModelSplitGST the
// tax is the subtotal times the rate, split into two halves.
func ComputeBreakdown(
	items LineItemSet,
	address kernel.DeliveryAddress,
	config PolicyConfig,
	opts ...Option,
) (PriceBreakdown, error) {
	if config.Version() == "" {
		return PriceBreakdown{}, ErrConfigVersionMissing
	}
	if err := errors.Join(items.Validate(), address.Validate(), config.Validate()); err != nil {
		return PriceBreakdown{}, err
	}

	o := computeOptions{}
	for _, opt := range opts {
		opt(&o)
	}

	subtotal := items.Subtotal()
	if subtotal.Currency() != config.Currency() {
		return PriceBreakdown{}, fmt.Errorf("%w: items in %s, config in %s",
			kernel.ErrCurrencyMismatch, subtotal.Currency(), config.Currency())
	}

	zero := kernel.ZeroMoney(config.Currency())
	r := BreakdownRecord{
		ConfigVersion:  config.Version(),
		TaxModel:       config.TaxModel().Kind(),
		Subtotal:       subtotal,
		Discount:       zero,
		DeliveryCharge: zero,
		HandlingFee:    config.DefaultHandlingFee(),
		Tax:            zero,
		TaxHalfA:       zero,
		TaxHalfB:       zero,
	}
	if o.handlingFee != nil {
		r.HandlingFee = *o.handlingFee
	}

	var err error
	if address.HasPostalPrefix(config.RegionalPrefix()) {
		r.DiscountRegion = true
		if r.Discount, err = subtotal.MulRate(config.RegionalDiscountRate()); err != nil {
			return PriceBreakdown{}, err
		}
		if r.Discount, err = r.Discount.Min(subtotal); err != nil {
			return PriceBreakdown{}, err
		}
		r.DeliveryCharge = config.RegionalDeliveryCharge()
	} else {
		r.DeferredDelivery = true
	}

	if r.TaxModel == TaxModelSplitGST {
		if r.Tax, err = subtotal.MulRate(config.TaxModel().Rate()); err != nil {
			return PriceBreakdown{}, err
		}
		r.TaxHalfA, r.TaxHalfB = r.Tax.Split()
	}

	if r.Total, err = total(r); err != nil {
		return PriceBreakdown{}, err
	}

	return PriceBreakdown{record: r, guard: guard.NewConstructorGuard()}, nil
}

func total(r BreakdownRecord) (kernel.Money, error) {
	sum, err := r.Subtotal.Sub(r.Discount)
	if err != nil {
		if errors.Is(err, kernel.ErrNegativeAmount) {
			return kernel.Money{}, fmt.Errorf("%w: %w", ErrNegativeResult, err)
		}
		return kernel.Money{}, err
	}
	for _, part := range []kernel.Money{r.DeliveryCharge, r.HandlingFee, r.Tax} {
		if sum, err = sum.Add(part); err != nil {
			return kernel.Money{}, err
		}
	}
	return sum, nil
}
