package pricing

import (
	"errors"
	"fmt"
	"strings"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	// ErrConfigVersionMissing is returned when a PolicyConfig has no identifying version.
	ErrConfigVersionMissing = errs.NewVersionIsInvalidErrorWithCause("policy config version is missing")
	// ErrPolicyConfigIsNotConstructed is returned when a PolicyConfig was not created through NewPolicyConfig.
	ErrPolicyConfigIsNotConstructed = errors.New("PolicyConfig must be created via NewPolicyConfig constructor")
)

// TaxModelKind selects how tax is computed.
type TaxModelKind int

const (
	// TaxModelUnknown is the invalid zero value.
	TaxModelUnknown TaxModelKind = iota
	// TaxModelNone charges no tax. Used by the regional discount flow.
	TaxModelNone
	// TaxModelSplitGST charges a flat GST rate on the subtotal, displayed as two equal halves.
	TaxModelSplitGST
)

func (k TaxModelKind) String() string {
	switch k {
	case TaxModelNone:
		return "none"
	case TaxModelSplitGST:
		return "split_gst"
	default:
		return "unknown"
	}
}

// ParseTaxModelKind accepts the String forms, case-insensitively.
func ParseTaxModelKind(s string) (TaxModelKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "none":
		return TaxModelNone, nil
	case "split_gst":
		return TaxModelSplitGST, nil
	default:
		return TaxModelUnknown, errs.NewValueIsInvalidErrorWithCause("tax model", fmt.Errorf("%q is not a tax model", s))
	}
}

// TaxModel is a tax kind plus its rate. The rate is zero for TaxModelNone.
type TaxModel struct {
	kind TaxModelKind
	rate decimal.Decimal
}

// NoTax returns the TaxModelNone model.
func NoTax() TaxModel {
	return TaxModel{kind: TaxModelNone}
}

// SplitGST returns a TaxModelSplitGST model. The rate must be within [0, 1].
func SplitGST(rate decimal.Decimal) (TaxModel, error) {
	if err := validateRate("tax rate", rate); err != nil {
		return TaxModel{}, err
	}
	return TaxModel{kind: TaxModelSplitGST, rate: rate}, nil
}

// NewTaxModel builds a model from its persisted kind and rate.
func NewTaxModel(kind TaxModelKind, rate decimal.Decimal) (TaxModel, error) {
	switch kind {
	case TaxModelNone:
		return NoTax(), nil
	case TaxModelSplitGST:
		return SplitGST(rate)
	default:
		return TaxModel{}, errs.NewValueIsInvalidErrorWithCause("tax model", fmt.Errorf("%d is not a tax model", kind))
	}
}

func (m TaxModel) Kind() TaxModelKind    { return m.kind }
func (m TaxModel) Rate() decimal.Decimal { return m.rate }

func (m TaxModel) IsEqual(other TaxModel) bool {
	return m.kind == other.kind && m.rate.Equal(other.rate)
}

// PolicyConfig is one version of the externally supplied pricing policy.
// Every PriceBreakdown records the version that produced it, so a version must
// never be reused for different values.
type PolicyConfig struct {
	version                string
	currency               kernel.Currency
	regionalPrefix         string
	regionalDiscountRate   decimal.Decimal
	regionalDeliveryCharge kernel.Money
	defaultHandlingFee     kernel.Money
	taxModel               TaxModel

	guard guard.ConstructorGuard
}

// NewPolicyConfig validates and creates a PolicyConfig.
//
// An empty regionalPrefix disables the regional path entirely. Rates must be
// within [0, 1] and every amount must be in the config currency.
func NewPolicyConfig(
	version string,
	currency kernel.Currency,
	regionalPrefix string,
	regionalDiscountRate decimal.Decimal,
	regionalDeliveryCharge kernel.Money,
	defaultHandlingFee kernel.Money,
	taxModel TaxModel,
) (PolicyConfig, error) {
	version = strings.TrimSpace(version)
	if version == "" {
		return PolicyConfig{}, ErrConfigVersionMissing
	}

	if err := errors.Join(
		validateRate("regional discount rate", regionalDiscountRate),
		validateConfigMoney("regional delivery charge", regionalDeliveryCharge, currency),
		validateConfigMoney("default handling fee", defaultHandlingFee, currency),
		validateTaxModel(taxModel),
	); err != nil {
		return PolicyConfig{}, err
	}

	return PolicyConfig{
		version:                version,
		currency:               currency,
		regionalPrefix:         strings.TrimSpace(regionalPrefix),
		regionalDiscountRate:   regionalDiscountRate,
		regionalDeliveryCharge: regionalDeliveryCharge,
		defaultHandlingFee:     defaultHandlingFee,
		taxModel:               taxModel,
		guard:                  guard.NewConstructorGuard(),
	}, nil
}

func validateRate(name string, rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(decimal.NewFromInt(1)) {
		return errs.NewValueIsOutOfRangeError(name, rate.String(), 0, 1)
	}
	return nil
}

func validateConfigMoney(name string, m kernel.Money, currency kernel.Currency) error {
	if err := m.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause(name, err)
	}
	if m.Currency() != currency {
		return fmt.Errorf("%s: %w: %s and %s", name, kernel.ErrCurrencyMismatch, m.Currency(), currency)
	}
	return nil
}

func validateTaxModel(m TaxModel) error {
	if m.kind != TaxModelNone && m.kind != TaxModelSplitGST {
		return errs.NewValueIsRequiredError("tax model")
	}
	return nil
}

// Validate ensures the config was created through NewPolicyConfig.
func (c PolicyConfig) Validate() error {
	return c.guard.Validate(ErrPolicyConfigIsNotConstructed)
}

func (c PolicyConfig) Version() string                       { return c.version }
func (c PolicyConfig) Currency() kernel.Currency             { return c.currency }
func (c PolicyConfig) RegionalPrefix() string                { return c.regionalPrefix }
func (c PolicyConfig) RegionalDiscountRate() decimal.Decimal { return c.regionalDiscountRate }
func (c PolicyConfig) RegionalDeliveryCharge() kernel.Money  { return c.regionalDeliveryCharge }
func (c PolicyConfig) DefaultHandlingFee() kernel.Money      { return c.defaultHandlingFee }
func (c PolicyConfig) TaxModel() TaxModel                    { return c.taxModel }

// IsEqual compares every policy value including the version.
func (c PolicyConfig) IsEqual(other PolicyConfig) bool {
	return c.version == other.version &&
		c.currency == other.currency &&
		c.regionalPrefix == other.regionalPrefix &&
		c.regionalDiscountRate.Equal(other.regionalDiscountRate) &&
		c.regionalDeliveryCharge.IsEqual(other.regionalDeliveryCharge) &&
		c.defaultHandlingFee.IsEqual(other.defaultHandlingFee) &&
		c.taxModel.IsEqual(other.taxModel)
}
