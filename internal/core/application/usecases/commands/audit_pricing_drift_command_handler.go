package commands

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// AuditPricingDriftResult summarises one audit run. Skipped counts orders
// that could not be re-derived, such as those priced with a config version
// that is no longer on record.
type AuditPricingDriftResult struct {
	Checked int
	Drifted int
	Skipped int
}

// AuditPricingDriftCommandHandler checks stored totals against the formula of
// the config version each order was placed with. Drift is logged and counted;
// stored orders are never changed.
type AuditPricingDriftCommandHandler struct {
	uowFactory OrderUoWFactory
	configs    ports.PolicyConfigRepository
	metrics    OrderMetrics
	logger     *slog.Logger
}

func NewAuditPricingDriftCommandHandler(
	uowFactory OrderUoWFactory,
	configs ports.PolicyConfigRepository,
	metrics OrderMetrics,
	logger *slog.Logger,
) AuditPricingDriftCommandHandler {
	return AuditPricingDriftCommandHandler{
		uowFactory: uowFactory,
		configs:    configs,
		metrics:    metrics,
		logger:     logger.With("component", "pricing_drift_audit"),
	}
}

// Handle pages through every order placed since cmd.Since(), cmd.Limit()
// orders at a time. An order that cannot be audited is logged and skipped; only
// failures to read orders or configs abort the run.
func (h *AuditPricingDriftCommandHandler) Handle(ctx context.Context, cmd AuditPricingDriftCommand) (AuditPricingDriftResult, error) {
	var result AuditPricingDriftResult
	if err := cmd.Validate(); err != nil {
		return result, err
	}

	repo := h.uowFactory.Create().OrderRepository()
	configs := make(map[string]*pricing.PolicyConfig)

	var after *ports.OrderCursor
	for {
		page, err := repo.ListPlacedSince(ctx, cmd.Since(), after, cmd.Limit())
		if err != nil {
			return result, err
		}

		for _, o := range page {
			if err := h.audit(ctx, o, configs, &result); err != nil {
				return result, err
			}
		}

		if len(page) < cmd.Limit() {
			return result, nil
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		after = ports.CursorOf(page[len(page)-1])
	}
}

func (h *AuditPricingDriftCommandHandler) audit(
	ctx context.Context,
	o *order.Order,
	configs map[string]*pricing.PolicyConfig,
	result *AuditPricingDriftResult,
) error {
	version := o.Breakdown().ConfigVersion()
	cfg, ok := configs[version]
	if !ok {
		loaded, err := h.configs.ByVersion(ctx, version)
		switch {
		case errors.Is(err, errs.ErrObjectNotFound):
			cfg = nil
		case err != nil:
			return err
		default:
			cfg = &loaded
		}
		configs[version] = cfg
	}

	if cfg == nil {
		result.Skipped++
		h.logger.WarnContext(ctx, "pricing drift audit skipped order, config version unknown",
			"order_id", o.ID().String(),
			"config_version", version,
		)
		return nil
	}

	_, drift, err := o.RecomputeForDisplay(*cfg)
	if err != nil {
		result.Skipped++
		h.logger.WarnContext(ctx, "pricing drift audit skipped order, recompute failed",
			"order_id", o.ID().String(),
			"config_version", version,
			"error", err,
		)
		return nil
	}
	result.Checked++

	if drift != nil {
		result.Drifted++
		h.metrics.PricingDriftDetected(version)
		h.logger.WarnContext(ctx, "pricing drift detected",
			"order_id", o.ID().String(),
			"config_version", version,
			"stored_total", drift.Stored.Total().String(),
			"recomputed_total", drift.Recomputed.Total().String(),
			"fields", drift.Fields,
		)
	}
	return nil
}
