package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) SearchByIDPrefix(ctx context.Context, prefix string, limit int) ([]*order.Order, error) {
	args := m.Called(ctx, prefix, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

func (m *MockOrderRepository) ListPlacedSince(
	ctx context.Context,
	since time.Time,
	after *ports.OrderCursor,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, since, after, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockPolicyConfigRepository struct{ mock.Mock }

func (m *MockPolicyConfigRepository) Current(ctx context.Context) (pricing.PolicyConfig, error) {
	args := m.Called(ctx)
	return args.Get(0).(pricing.PolicyConfig), args.Error(1)
}

func (m *MockPolicyConfigRepository) ByVersion(ctx context.Context, version string) (pricing.PolicyConfig, error) {
	args := m.Called(ctx, version)
	return args.Get(0).(pricing.PolicyConfig), args.Error(1)
}

func (m *MockPolicyConfigRepository) Save(ctx context.Context, cfg pricing.PolicyConfig) error {
	return m.Called(ctx, cfg).Error(0)
}

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Lookup(ctx context.Context, productID kernel.UUID) (services.CatalogEntry, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(services.CatalogEntry), args.Error(1)
}

type MockDriftRecorder struct{ mock.Mock }

func (m *MockDriftRecorder) PricingDriftDetected(configVersion string) { m.Called(configVersion) }

const configVersion = "2024-06-regional"

func inr(amount string) kernel.Money {
	return kernel.MustNewMoney(amount, kernel.CurrencyINR)
}

func regionalConfig(t *testing.T) pricing.PolicyConfig {
	t.Helper()
	cfg, err := pricing.NewPolicyConfig(configVersion, kernel.CurrencyINR, "795",
		decimal.RequireFromString("0.10"), inr("80"), inr("0"), pricing.NoTax())
	require.NoError(t, err)
	return cfg
}

func address(t *testing.T, postalCode string) kernel.DeliveryAddress {
	t.Helper()
	a, err := kernel.NewDeliveryAddress("Thoibi Devi", "Keishampat", "", "Imphal", "Manipur", postalCode, "9800000000")
	require.NoError(t, err)
	return a
}

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	item, err := pricing.NewLineItem(kernel.NewUUID(), "Black rice", inr("500"), 2)
	require.NoError(t, err)
	set, err := pricing.NewLineItemSet(item)
	require.NoError(t, err)
	customer, err := order.NewRegisteredCustomer(kernel.NewUUID(), "Thoibi Devi", "thoibi@example.com", "9800000000")
	require.NoError(t, err)
	o, err := order.Place(kernel.NewUUID(), set, address(t, "795001"), customer, regionalConfig(t),
		time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
