package queries

import (
	"context"
	"errors"
	"log/slog"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// DriftRecorder counts pricing drift seen while reading orders.
type DriftRecorder interface {
	PricingDriftDetected(configVersion string)
}

// GetOrderQueryHandler returns an order with its stored breakdown and checks
// it against the formula of its own config version.
type GetOrderQueryHandler struct {
	orders  ports.OrderRepository
	configs ports.PolicyConfigRepository
	drift   DriftRecorder
	logger  *slog.Logger
}

func NewGetOrderQueryHandler(
	orders ports.OrderRepository,
	configs ports.PolicyConfigRepository,
	drift DriftRecorder,
	logger *slog.Logger,
) GetOrderQueryHandler {
	return GetOrderQueryHandler{
		orders:  orders,
		configs: configs,
		drift:   drift,
		logger:  logger.With("component", "get_order_query"),
	}
}

// Handle never fails because of drift or a missing config version. Both are
// logged and the stored order is returned as it is.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	o, err := h.orders.Get(ctx, query.OrderID())
	if err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp := GetOrderQueryResponse{Order: o}

	version := o.Breakdown().ConfigVersion()
	cfg, err := h.configs.ByVersion(ctx, version)
	if err != nil {
		if !errors.Is(err, errs.ErrObjectNotFound) {
			return GetOrderQueryResponse{}, err
		}
		h.logger.WarnContext(ctx, "config version of order is unknown, skipping drift check",
			"order_id", o.ID().String(), "config_version", version)
		return resp, nil
	}

	_, drift, err := o.RecomputeForDisplay(cfg)
	if err != nil {
		h.logger.WarnContext(ctx, "failed to recompute order breakdown",
			"order_id", o.ID().String(), "error", err)
		return resp, nil
	}
	if drift != nil {
		h.drift.PricingDriftDetected(version)
		h.logger.WarnContext(ctx, "pricing drift detected",
			"order_id", o.ID().String(),
			"config_version", version,
			"fields", drift.Fields,
		)
		resp.Drift = drift
	}

	return resp, nil
}
