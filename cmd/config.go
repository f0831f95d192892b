package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr       string
	CatalogCacheTTL string

	KafkaBrokers          string
	KafkaOrderEventsTopic string

	RateLimitRPS       string
	DriftAuditSchedule string
	DriftAuditWindow   string

	PricingConfigVersion          string
	PricingCurrency               string
	PricingRegionalPrefix         string
	PricingRegionalDiscountRate   string
	PricingRegionalDeliveryCharge string
	PricingDefaultHandlingFee     string
	PricingTaxModel               string
	PricingTaxRate                string
}

const (
	defaultCatalogCacheTTL    = 5 * time.Minute
	defaultDriftAuditSchedule = "0 */15 * * * *"
	defaultDriftAuditWindow   = 24 * time.Hour
)

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// PolicyConfig builds the live pricing policy from the PRICING_* settings.
func (c Config) PolicyConfig() (pricing.PolicyConfig, error) {
	currency := kernel.Currency(strings.ToUpper(strings.TrimSpace(c.PricingCurrency)))
	if currency == "" {
		currency = kernel.CurrencyINR
	}

	rate, rateErr := parseDecimal("PRICING_REGIONAL_DISCOUNT_RATE", c.PricingRegionalDiscountRate)
	delivery, deliveryErr := parseMoney("PRICING_REGIONAL_DELIVERY_CHARGE", c.PricingRegionalDeliveryCharge, currency)
	handling, handlingErr := parseMoney("PRICING_DEFAULT_HANDLING_FEE", c.PricingDefaultHandlingFee, currency)
	taxModel, taxErr := c.taxModel()
	if err := errors.Join(rateErr, deliveryErr, handlingErr, taxErr); err != nil {
		return pricing.PolicyConfig{}, err
	}

	return pricing.NewPolicyConfig(
		c.PricingConfigVersion,
		currency,
		c.PricingRegionalPrefix,
		rate,
		delivery,
		handling,
		taxModel,
	)
}

func (c Config) taxModel() (pricing.TaxModel, error) {
	raw := c.PricingTaxModel
	if strings.TrimSpace(raw) == "" {
		raw = "none"
	}
	kind, err := pricing.ParseTaxModelKind(raw)
	if err != nil {
		return pricing.TaxModel{}, fmt.Errorf("PRICING_TAX_MODEL: %w", err)
	}
	rate := decimal.Zero
	if kind == pricing.TaxModelSplitGST {
		if rate, err = parseDecimal("PRICING_TAX_RATE", c.PricingTaxRate); err != nil {
			return pricing.TaxModel{}, err
		}
	}
	return pricing.NewTaxModel(kind, rate)
}

// CatalogCacheDuration is the redis TTL of catalog entries.
func (c Config) CatalogCacheDuration() (time.Duration, error) {
	return parseDuration("CATALOG_CACHE_TTL", c.CatalogCacheTTL, defaultCatalogCacheTTL)
}

// DriftAuditWindowDuration is how far back each audit run looks.
func (c Config) DriftAuditWindowDuration() (time.Duration, error) {
	return parseDuration("DRIFT_AUDIT_WINDOW", c.DriftAuditWindow, defaultDriftAuditWindow)
}

func (c Config) DriftAuditCron() string {
	if s := strings.TrimSpace(c.DriftAuditSchedule); s != "" {
		return s
	}
	return defaultDriftAuditSchedule
}

// RateLimit is requests per second per client. Zero disables the limiter.
func (c Config) RateLimit() (float64, error) {
	if strings.TrimSpace(c.RateLimitRPS) == "" {
		return 0, nil
	}
	rps, err := strconv.ParseFloat(strings.TrimSpace(c.RateLimitRPS), 64)
	if err != nil || rps < 0 {
		return 0, fmt.Errorf("RATE_LIMIT_RPS: %q is not a non-negative number", c.RateLimitRPS)
	}
	return rps, nil
}

func parseDecimal(key, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func parseMoney(key, raw string, currency kernel.Currency) (kernel.Money, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		raw = "0"
	}
	m, err := kernel.NewMoney(raw, currency)
	if err != nil {
		return kernel.Money{}, fmt.Errorf("%s: %w", key, err)
	}
	return m, nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s: must be positive, got %s", key, d)
	}
	return d, nil
}
