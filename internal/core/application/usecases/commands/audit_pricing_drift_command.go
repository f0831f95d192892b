package commands

import (
	"errors"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

var (
	ErrAuditPricingDriftCommandIsNotConstructed = errors.New(
		"AuditPricingDriftCommand must be created via NewAuditPricingDriftCommand constructor",
	)
)

// AuditPricingDriftCommand re-derives the breakdowns of orders placed since a
// point in time and reports the ones that drifted. limit is the page size used
// to walk the window, not a cap on how many orders are audited.
type AuditPricingDriftCommand struct {
	since time.Time
	limit int

	guard guard.ConstructorGuard
}

func NewAuditPricingDriftCommand(since time.Time, limit int) (AuditPricingDriftCommand, error) {
	if since.IsZero() {
		return AuditPricingDriftCommand{}, errs.NewValueIsRequiredError("since")
	}
	if limit <= 0 {
		return AuditPricingDriftCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}
	return AuditPricingDriftCommand{since: since, limit: limit, guard: guard.NewConstructorGuard()}, nil
}

func (c AuditPricingDriftCommand) Validate() error {
	return c.guard.Validate(ErrAuditPricingDriftCommandIsNotConstructed)
}

func (c AuditPricingDriftCommand) Since() time.Time { return c.since }
func (c AuditPricingDriftCommand) Limit() int       { return c.limit }
