package ports

import (
	"context"

	"storefront/internal/core/domain/model/pricing"
)

// PolicyConfigRepository keeps every pricing policy version ever used so that
// old orders can be re-derived with the config they were placed under.
type PolicyConfigRepository interface {
	// Current returns the most recently saved config.
	Current(ctx context.Context) (pricing.PolicyConfig, error)

	// ByVersion returns errs.ErrObjectNotFound for unknown versions.
	ByVersion(ctx context.Context, version string) (pricing.PolicyConfig, error)

	// Save stores cfg and makes it current. Saving a known version again with
	// identical values is allowed; different values fail with errs.ErrVersionIsInvalid.
	Save(ctx context.Context, cfg pricing.PolicyConfig) error
}
