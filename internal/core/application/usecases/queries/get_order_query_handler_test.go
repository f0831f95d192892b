package queries_test

import (
	"errors"
	"testing"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetOrderQuery_NotConstructedViaConstructor(t *testing.T) {
	err := queries.GetOrderQuery{}.Validate()
	require.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)

	_, err = queries.NewGetOrderQuery(kernel.UUID{})
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetOrderQueryHandler_Handle_NoDrift(t *testing.T) {
	// Given
	ctx := t.Context()
	o := placedOrder(t)
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	configs := new(MockPolicyConfigRepository)
	configs.On("ByVersion", ctx, configVersion).Return(regionalConfig(t), nil).Once()
	drift := new(MockDriftRecorder)

	h := queries.NewGetOrderQueryHandler(repo, configs, drift, discardLogger())
	query, err := queries.NewGetOrderQuery(o.ID())
	require.NoError(t, err)

	// When
	resp, err := h.Handle(ctx, query)

	// Then
	require.NoError(t, err)
	assert.Same(t, o, resp.Order)
	assert.Nil(t, resp.Drift)
	drift.AssertNotCalled(t, "PricingDriftDetected", mock.Anything)
}

func TestGetOrderQueryHandler_Handle_DriftKeepsStoredBreakdown(t *testing.T) {
	// Given
	ctx := t.Context()
	placed := placedOrder(t)
	r := placed.Breakdown().Record()
	r.Discount = inr("0")
	r.Total = inr("1080")
	stored, err := pricing.RestorePriceBreakdown(r)
	require.NoError(t, err)
	o, err := order.RestoreOrder(placed.ID(), placed.Customer(), placed.Items(), placed.Address(), nil,
		stored, fulfillment.InitialState(), placed.PlacedAt(), placed.UpdatedAt(), 1)
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	configs := new(MockPolicyConfigRepository)
	configs.On("ByVersion", ctx, configVersion).Return(regionalConfig(t), nil).Once()
	drift := new(MockDriftRecorder)
	drift.On("PricingDriftDetected", configVersion).Once()

	h := queries.NewGetOrderQueryHandler(repo, configs, drift, discardLogger())
	query, err := queries.NewGetOrderQuery(o.ID())
	require.NoError(t, err)

	// When
	resp, err := h.Handle(ctx, query)

	// Then
	require.NoError(t, err)
	require.NotNil(t, resp.Drift)
	assert.Contains(t, resp.Drift.Fields, "discount")
	assert.Contains(t, resp.Drift.Fields, "total")
	assert.True(t, inr("1080").IsEqual(resp.Order.Breakdown().Total()))
	drift.AssertExpectations(t)
}

func TestGetOrderQueryHandler_Handle_UnknownConfigVersion(t *testing.T) {
	ctx := t.Context()
	o := placedOrder(t)
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	configs := new(MockPolicyConfigRepository)
	configs.On("ByVersion", ctx, configVersion).
		Return(pricing.PolicyConfig{}, errs.NewObjectNotFoundError("policy config", configVersion)).Once()

	h := queries.NewGetOrderQueryHandler(repo, configs, new(MockDriftRecorder), discardLogger())
	query, _ := queries.NewGetOrderQuery(o.ID())

	resp, err := h.Handle(ctx, query)

	require.NoError(t, err)
	assert.Same(t, o, resp.Order)
	assert.Nil(t, resp.Drift)
}

func TestGetOrderQueryHandler_Handle_ConfigStoreError(t *testing.T) {
	ctx := t.Context()
	o := placedOrder(t)
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, o.ID()).Return(o, nil).Once()
	configs := new(MockPolicyConfigRepository)
	configs.On("ByVersion", ctx, configVersion).Return(pricing.PolicyConfig{}, errors.New("connection reset")).Once()

	h := queries.NewGetOrderQueryHandler(repo, configs, new(MockDriftRecorder), discardLogger())
	query, _ := queries.NewGetOrderQuery(o.ID())

	_, err := h.Handle(ctx, query)

	require.Error(t, err)
}

func TestGetOrderQueryHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	repo := new(MockOrderRepository)
	repo.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order", id)).Once()
	configs := new(MockPolicyConfigRepository)

	h := queries.NewGetOrderQueryHandler(repo, configs, new(MockDriftRecorder), discardLogger())
	query, _ := queries.NewGetOrderQuery(id)

	_, err := h.Handle(ctx, query)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	configs.AssertNotCalled(t, "ByVersion", mock.Anything, mock.Anything)
}
