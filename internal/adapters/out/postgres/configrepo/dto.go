// Package configrepo keeps every pricing policy version the service has run
// with, so stored orders can be re-derived with the config they were placed under.
package configrepo

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/pricing"

	"github.com/shopspring/decimal"
)

type PolicyConfigDTO struct {
	Version                string          `gorm:"type:varchar(64);primaryKey"`
	Currency               string          `gorm:"type:char(3);not null"`
	RegionalPrefix         string          `gorm:"type:varchar(16)"`
	RegionalDiscountRate   decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	RegionalDeliveryCharge decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DefaultHandlingFee     decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	TaxModel               string          `gorm:"type:varchar(16);not null"`
	TaxRate                decimal.Decimal `gorm:"type:numeric(6,4);not null"`
	ActivatedAt            time.Time       `gorm:"not null;index"`
}

func (PolicyConfigDTO) TableName() string {
	return "policy_configs"
}

func fromDomain(cfg pricing.PolicyConfig, activatedAt time.Time) PolicyConfigDTO {
	return PolicyConfigDTO{
		Version:                cfg.Version(),
		Currency:               string(cfg.Currency()),
		RegionalPrefix:         cfg.RegionalPrefix(),
		RegionalDiscountRate:   cfg.RegionalDiscountRate(),
		RegionalDeliveryCharge: cfg.RegionalDeliveryCharge().Amount(),
		DefaultHandlingFee:     cfg.DefaultHandlingFee().Amount(),
		TaxModel:               cfg.TaxModel().Kind().String(),
		TaxRate:                cfg.TaxModel().Rate(),
		ActivatedAt:            activatedAt,
	}
}

func toDomain(dto PolicyConfigDTO) (pricing.PolicyConfig, error) {
	currency := kernel.Currency(dto.Currency)

	delivery, err := kernel.NewMoneyFromDecimal(dto.RegionalDeliveryCharge, currency)
	if err != nil {
		return pricing.PolicyConfig{}, err
	}
	handling, err := kernel.NewMoneyFromDecimal(dto.DefaultHandlingFee, currency)
	if err != nil {
		return pricing.PolicyConfig{}, err
	}
	kind, err := pricing.ParseTaxModelKind(dto.TaxModel)
	if err != nil {
		return pricing.PolicyConfig{}, err
	}
	taxModel, err := pricing.NewTaxModel(kind, dto.TaxRate)
	if err != nil {
		return pricing.PolicyConfig{}, err
	}

	return pricing.NewPolicyConfig(dto.Version, currency, dto.RegionalPrefix,
		dto.RegionalDiscountRate, delivery, handling, taxModel)
}
