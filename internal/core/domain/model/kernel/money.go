package kernel

import (
	"errors"
	"fmt"
	"math"
	"regexp"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

// MinorUnitPlaces is the number of fractional digits every Money amount carries.
const MinorUnitPlaces = 2

// Currency is an ISO 4217 alphabetic code.
type Currency string

// CurrencyINR is the storefront's only settlement currency.
const CurrencyINR Currency = "INR"

var currencyPattern = regexp.MustCompile(`^[A-Z]{3}$`)

var (
	two           = decimal.NewFromInt(2)
	maxMinorUnits = decimal.NewFromInt(math.MaxInt64)
)

var (
	// ErrMoneyIsNotConstructed is returned when a Money value was not created through a constructor.
	ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney, NewMoneyFromMinor or ZeroMoney")
	// ErrCurrencyMismatch is returned when Money values of different currencies are combined or compared.
	ErrCurrencyMismatch = errs.NewValueIsInvalidError("currency mismatch")
	// ErrNegativeAmount is returned when a Money value would drop below zero.
	ErrNegativeAmount = errs.NewValueIsInvalidError("amount is negative")
)

// Money is a non-negative amount with exactly two fractional digits and a currency tag.
//
// Arithmetic never rounds except in MulRate, which rounds its result once,
// half away from zero, to minor units. Combining values of different
// currencies fails with ErrCurrencyMismatch.
type Money struct {
	amount   decimal.Decimal
	currency Currency

	guard guard.ConstructorGuard
}

// NewMoney parses a decimal string such as "1000", "99.5" or "12.75".
// Amounts with non-zero digits beyond the second fractional place are rejected
// rather than rounded.
func NewMoney(amount string, currency Currency) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", err)
	}
	return NewMoneyFromDecimal(d, currency)
}

// NewMoneyFromDecimal builds Money from an already parsed decimal, as read from a numeric column.
func NewMoneyFromDecimal(amount decimal.Decimal, currency Currency) (Money, error) {
	if err := validateCurrency(currency); err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrNegativeAmount, amount.String())
	}
	if !amount.Equal(amount.Truncate(MinorUnitPlaces)) {
		return Money{}, errs.NewValueIsInvalidErrorWithCause(
			"amount",
			fmt.Errorf("%s has more than %d fractional digits", amount.String(), MinorUnitPlaces),
		)
	}

	return newMoney(amount, currency), nil
}

// NewMoneyFromMinor builds Money from an integer count of minor units (paise for INR).
func NewMoneyFromMinor(minor int64, currency Currency) (Money, error) {
	return NewMoneyFromDecimal(decimal.New(minor, -MinorUnitPlaces), currency)
}

// MustNewMoney is NewMoney for constants and tests. It panics on invalid input.
func MustNewMoney(amount string, currency Currency) Money {
	m, err := NewMoney(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns a zero amount in the given currency.
func ZeroMoney(currency Currency) Money {
	return newMoney(decimal.Zero, currency)
}

func newMoney(amount decimal.Decimal, currency Currency) Money {
	return Money{
		amount:   amount,
		currency: currency,
		guard:    guard.NewConstructorGuard(),
	}
}

func validateCurrency(currency Currency) error {
	if currency == "" {
		return errs.NewValueIsRequiredError("currency")
	}
	if !currencyPattern.MatchString(string(currency)) {
		return errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	return nil
}

// Validate ensures the Money value was created through a constructor.
func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}

// Amount returns the amount. The result always has at most two fractional digits.
func (m Money) Amount() decimal.Decimal {
	return m.amount
}

// Currency returns the currency tag.
func (m Money) Currency() Currency {
	return m.currency
}

// MinorUnits returns the amount as an integer count of minor units. Amounts
// too large for an int64 fail with errs.ErrValueIsOutOfRange.
func (m Money) MinorUnits() (int64, error) {
	minor := m.amount.Shift(MinorUnitPlaces)
	if minor.GreaterThan(maxMinorUnits) {
		return 0, errs.NewValueIsOutOfRangeError("amount", m.Format(), 0, maxMinorUnits.Shift(-MinorUnitPlaces).String())
	}
	return minor.IntPart(), nil
}

// IsZero reports whether the amount is zero.
func (m Money) IsZero() bool {
	return m.amount.IsZero()
}

// Format renders the amount with exactly two fractional digits, without currency.
func (m Money) Format() string {
	return m.amount.StringFixed(MinorUnitPlaces)
}

// String renders the amount and currency, e.g. "980.00 INR".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Format(), m.currency)
}

// IsEqual reports whether both values have the same currency and amount.
func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// Compare returns -1, 0 or +1 like decimal.Cmp.
func (m Money) Compare(other Money) (int, error) {
	if err := m.compatible(other); err != nil {
		return 0, err
	}
	return m.amount.Cmp(other.amount), nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.compatible(other); err != nil {
		return Money{}, err
	}
	return newMoney(m.amount.Add(other.amount), m.currency), nil
}

// Sub returns m - other and fails with ErrNegativeAmount if the result would be negative.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.compatible(other); err != nil {
		return Money{}, err
	}
	result := m.amount.Sub(other.amount)
	if result.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrNegativeAmount, m.Format(), other.Format())
	}
	return newMoney(result, m.currency), nil
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) (Money, error) {
	cmp, err := m.Compare(other)
	if err != nil {
		return Money{}, err
	}
	if cmp <= 0 {
		return m, nil
	}
	return other, nil
}

// MulQuantity returns m × quantity. The product of a two-digit amount and an
// integer is exact, so no rounding happens.
func (m Money) MulQuantity(quantity int) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if quantity < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("quantity", quantity, 0, "unbounded")
	}
	return newMoney(m.amount.Mul(decimal.NewFromInt(int64(quantity))), m.currency), nil
}

// MulRate returns m × rate rounded once, half away from zero, to minor units.
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	if rate.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("rate", fmt.Errorf("%s is negative", rate.String()))
	}
	return newMoney(m.amount.Mul(rate).Round(MinorUnitPlaces), m.currency), nil
}

// Split divides m into two halves that add up to m exactly.
// An odd minor unit goes to the first half.
func (m Money) Split() (Money, Money) {
	minor := m.amount.Shift(MinorUnitPlaces)
	second, _ := minor.QuoRem(two, 0)
	first := minor.Sub(second)
	return newMoney(first.Shift(-MinorUnitPlaces), m.currency),
		newMoney(second.Shift(-MinorUnitPlaces), m.currency)
}

func (m Money) compatible(other Money) error {
	if err := errors.Join(m.Validate(), other.Validate()); err != nil {
		return err
	}
	if m.currency != other.currency {
		return fmt.Errorf("%w: %s and %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return nil
}
