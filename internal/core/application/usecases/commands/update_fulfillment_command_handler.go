package commands

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/pkg/errs"
)

// UpdateFulfillmentCommandHandler applies staff edits to an order's
// fulfillment state. Pricing is never touched.
type UpdateFulfillmentCommandHandler struct {
	uowFactory OrderUoWFactory
	metrics    OrderMetrics
	now        func() time.Time
}

func NewUpdateFulfillmentCommandHandler(uowFactory OrderUoWFactory, metrics OrderMetrics) UpdateFulfillmentCommandHandler {
	return UpdateFulfillmentCommandHandler{
		uowFactory: uowFactory,
		metrics:    metrics,
		now:        time.Now,
	}
}

// Handle loads the order, checks the caller's expected state against it and
// stores the next snapshot. A concurrent edit that lands between the load and
// the write is caught by the repository's version check, so both paths fail
// with errs.ErrStaleState.
func (h *UpdateFulfillmentCommandHandler) Handle(ctx context.Context, cmd UpdateFulfillmentCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	current, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	updated, err := current.UpdateFulfillment(cmd.Expected(), cmd.Request(), h.now())
	if err != nil {
		h.metrics.FulfillmentRejected(rejectionReason(err))
		return err
	}

	if err = repo.Update(ctx, updated); err != nil {
		if errors.Is(err, errs.ErrStaleState) {
			h.metrics.FulfillmentRejected(rejectionReason(err))
		}
		return err
	}

	return uow.Commit(ctx)
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, errs.ErrStaleState):
		return "stale_state"
	case errors.Is(err, fulfillment.ErrMissingCourierInfo):
		return "missing_courier_info"
	case errors.Is(err, errs.ErrIllegalTransition):
		return "illegal_transition"
	default:
		return "invalid"
	}
}
