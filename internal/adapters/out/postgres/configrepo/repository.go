package configrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormPolicyConfigRepository implements ports.PolicyConfigRepository.
type GormPolicyConfigRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewGormPolicyConfigRepository(db *gorm.DB) *GormPolicyConfigRepository {
	return &GormPolicyConfigRepository{db: db, now: time.Now}
}

// Current returns the most recently activated config.
func (r *GormPolicyConfigRepository) Current(ctx context.Context) (pricing.PolicyConfig, error) {
	var dto PolicyConfigDTO
	if err := r.db.WithContext(ctx).Order("activated_at DESC").First(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.PolicyConfig{}, errs.NewObjectNotFoundError("policy config", "current")
		}
		return pricing.PolicyConfig{}, err
	}
	return toDomain(dto)
}

func (r *GormPolicyConfigRepository) ByVersion(ctx context.Context, version string) (pricing.PolicyConfig, error) {
	var dto PolicyConfigDTO
	if err := r.db.WithContext(ctx).First(&dto, "version = ?", version).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.PolicyConfig{}, errs.NewObjectNotFoundError("policy config", version)
		}
		return pricing.PolicyConfig{}, err
	}
	return toDomain(dto)
}

// Save activates cfg. A version already on record is re-activated only when
// its values are identical; a version is never rewritten.
func (r *GormPolicyConfigRepository) Save(ctx context.Context, cfg pricing.PolicyConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		activatedAt := r.now().UTC()

		var existing PolicyConfigDTO
		err := tx.First(&existing, "version = ?", cfg.Version()).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			dto := fromDomain(cfg, activatedAt)
			return tx.Create(&dto).Error
		}
		if err != nil {
			return err
		}

		stored, err := toDomain(existing)
		if err != nil {
			return err
		}
		if !stored.IsEqual(cfg) {
			return errs.NewVersionIsInvalidError("policy config",
				fmt.Errorf("version %q is already on record with different values", cfg.Version()))
		}

		return tx.Model(&PolicyConfigDTO{}).
			Where("version = ?", cfg.Version()).
			Update("activated_at", activatedAt).Error
	})
}
