package orderrepo_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

// OrderRepositoryIntegrationTestSuite runs the repository against a real
// PostgreSQL container.
type OrderRepositoryIntegrationTestSuite struct {
	suite.Suite
	container  *postgres.PostgresContainer
	db         *gorm.DB
	repository *orderrepo.GormOrderRepository
	tracker    *MockAggregateTracker
	placedAt   time.Time
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}))
}

func (suite *OrderRepositoryIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE orders, order_items").Error)

	suite.tracker = new(MockAggregateTracker)
	suite.tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	suite.repository = orderrepo.NewGormOrderRepository(suite.db, suite.tracker)
	suite.placedAt = time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC)
}

func (suite *OrderRepositoryIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_StoresBreakdownVerbatim() {
	ctx := context.Background()
	fee := inr("25")
	placed := suite.place(suite.gstConfig(), "110001", order.WithHandlingFee(fee))

	suite.Require().NoError(suite.repository.Add(ctx, placed))

	got, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Empty(placed.Breakdown().Differences(got.Breakdown()))
	suite.Equal("2024-06-gst", got.Breakdown().ConfigVersion())
	suite.Equal(pricing.TaxModelSplitGST, got.Breakdown().TaxModel())
	suite.True(got.Breakdown().DeferredDelivery())
	suite.Require().NotNil(got.HandlingFeeOverride())
	suite.True(fee.IsEqual(*got.HandlingFeeOverride()))
	suite.True(placed.Address().IsEqual(got.Address()))
	suite.Equal(int64(1), got.Version())
	suite.True(fulfillment.InitialState().IsEqual(got.State()))
	suite.True(suite.placedAt.Equal(got.PlacedAt()))
	suite.tracker.AssertCalled(suite.T(), "TrackAggregate", placed.ID(), placed)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestAdd_KeepsItemOrder() {
	ctx := context.Background()
	first, err := pricing.NewLineItem(kernel.NewUUID(), "Black rice", inr("500"), 2)
	suite.Require().NoError(err)
	second, err := pricing.NewLineItem(kernel.NewUUID(), "Chak-hao kheer mix", inr("120.50"), 1)
	suite.Require().NoError(err)
	items, err := pricing.NewLineItemSet(first, second)
	suite.Require().NoError(err)
	placed, err := order.Place(kernel.NewUUID(), items, suite.address("795001"), suite.guest(),
		suite.regionalConfig(), suite.placedAt)
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Add(ctx, placed))

	got, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Require().Equal(2, got.Items().Len())
	suite.Equal("Black rice", got.Items().Items()[0].ProductName())
	suite.Equal("Chak-hao kheer mix", got.Items().Items()[1].ProductName())
	suite.True(inr("120.50").IsEqual(got.Items().Items()[1].UnitPrice()))
	suite.True(inr("1120.50").IsEqual(got.Items().Subtotal()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestGet_NonExistentOrder_ReturnsNotFoundError() {
	got, err := suite.repository.Get(context.Background(), kernel.NewUUID())

	suite.Nil(got)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_WritesFulfillmentAndBumpsVersion() {
	ctx := context.Background()
	placed := suite.place(suite.regionalConfig(), "795001")
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	courier, err := fulfillment.NewCourierInfo("Ibomcha", "9811111111", "TRK-42")
	suite.Require().NoError(err)
	shipped, err := placed.UpdateFulfillment(placed.State(), fulfillment.Request{
		OrderStatus:    fulfillment.OrderConfirmed,
		ShippingStatus: fulfillment.ShippingShipped,
		Courier:        &courier,
	}, suite.placedAt.Add(time.Hour))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, shipped))

	got, err := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(err)
	suite.Equal(int64(2), got.Version())
	suite.Equal(fulfillment.ShippingShipped, got.State().ShippingStatus)
	suite.Equal(fulfillment.OrderConfirmed, got.State().OrderStatus)
	suite.Require().NotNil(got.State().Courier)
	suite.Equal("TRK-42", got.State().Courier.TrackingID())
	suite.True(suite.placedAt.Add(time.Hour).Equal(got.UpdatedAt()))
	suite.Empty(placed.Breakdown().Differences(got.Breakdown()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_StaleSnapshot_ReturnsStaleState() {
	ctx := context.Background()
	placed := suite.place(suite.regionalConfig(), "795001")
	suite.Require().NoError(suite.repository.Add(ctx, placed))

	confirm := fulfillment.Request{OrderStatus: fulfillment.OrderConfirmed, ShippingStatus: fulfillment.ShippingPending}
	cancel := fulfillment.Request{OrderStatus: fulfillment.OrderCancelled, ShippingStatus: fulfillment.ShippingPending}
	first, err := placed.UpdateFulfillment(placed.State(), confirm, suite.placedAt.Add(time.Minute))
	suite.Require().NoError(err)
	second, err := placed.UpdateFulfillment(placed.State(), cancel, suite.placedAt.Add(2*time.Minute))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.repository.Update(ctx, first))
	err = suite.repository.Update(ctx, second)

	suite.Require().ErrorIs(err, errs.ErrStaleState)
	got, getErr := suite.repository.Get(ctx, placed.ID())
	suite.Require().NoError(getErr)
	suite.Equal(fulfillment.OrderConfirmed, got.State().OrderStatus)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestUpdate_NonExistentOrder_ReturnsNotFound() {
	placed := suite.place(suite.regionalConfig(), "795001")
	next, err := placed.UpdateFulfillment(placed.State(), fulfillment.Request{
		OrderStatus: fulfillment.OrderConfirmed, ShippingStatus: fulfillment.ShippingPending,
	}, suite.placedAt)
	suite.Require().NoError(err)

	err = suite.repository.Update(context.Background(), next)

	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListByCustomer_NewestFirst() {
	ctx := context.Background()
	userID := kernel.NewUUID()
	customer, err := order.NewRegisteredCustomer(userID, "Thoibi Devi", "thoibi@example.com", "")
	suite.Require().NoError(err)

	var ids []kernel.UUID
	for i := range 3 {
		o, placeErr := order.Place(kernel.NewUUID(), suite.items(), suite.address("795001"), customer,
			suite.regionalConfig(), suite.placedAt.Add(time.Duration(i)*time.Hour))
		suite.Require().NoError(placeErr)
		suite.Require().NoError(suite.repository.Add(ctx, o))
		ids = append(ids, o.ID())
	}
	suite.Require().NoError(suite.repository.Add(ctx, suite.place(suite.regionalConfig(), "795001")))

	got, err := suite.repository.ListByCustomer(ctx, userID)

	suite.Require().NoError(err)
	suite.Require().Len(got, 3)
	suite.Equal(ids[2], got[0].ID())
	suite.Equal(ids[0], got[2].ID())
	suite.Equal(userID, *got[0].Customer().UserID())
}

func (suite *OrderRepositoryIntegrationTestSuite) TestSearchByIDPrefix() {
	ctx := context.Background()
	target := suite.place(suite.regionalConfig(), "795001")
	suite.Require().NoError(suite.repository.Add(ctx, target))
	suite.Require().NoError(suite.repository.Add(ctx, suite.place(suite.regionalConfig(), "795001")))

	got, err := suite.repository.SearchByIDPrefix(ctx, strings.ToUpper(target.ID().String()[:13]), 10)
	suite.Require().NoError(err)
	suite.Require().Len(got, 1)
	suite.Equal(target.ID(), got[0].ID())

	got, err = suite.repository.SearchByIDPrefix(ctx, "%", 10)
	suite.Require().NoError(err)
	suite.Empty(got)
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListPlacedSince_OldestFirstWithLimit() {
	ctx := context.Background()
	for i := range 4 {
		o, err := order.Place(kernel.NewUUID(), suite.items(), suite.address("795001"), suite.guest(),
			suite.regionalConfig(), suite.placedAt.Add(time.Duration(i)*24*time.Hour))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Add(ctx, o))
	}

	got, err := suite.repository.ListPlacedSince(ctx, suite.placedAt.Add(24*time.Hour), nil, 2)

	suite.Require().NoError(err)
	suite.Require().Len(got, 2)
	suite.True(suite.placedAt.Add(24 * time.Hour).Equal(got[0].PlacedAt()))
	suite.True(suite.placedAt.Add(48 * time.Hour).Equal(got[1].PlacedAt()))
}

func (suite *OrderRepositoryIntegrationTestSuite) TestListPlacedSince_CursorPagesThroughSharedPlacementTimes() {
	// Given
	ctx := context.Background()
	want := make(map[kernel.UUID]bool)
	for i := range 5 {
		o, err := order.Place(kernel.NewUUID(), suite.items(), suite.address("795001"), suite.guest(),
			suite.regionalConfig(), suite.placedAt.Add(time.Duration(i/2)*time.Hour))
		suite.Require().NoError(err)
		suite.Require().NoError(suite.repository.Add(ctx, o))
		want[o.ID()] = true
	}

	// When
	var (
		seen  []*order.Order
		after *ports.OrderCursor
	)
	for {
		page, err := suite.repository.ListPlacedSince(ctx, suite.placedAt, after, 2)
		suite.Require().NoError(err)
		seen = append(seen, page...)
		if len(page) < 2 {
			break
		}
		after = ports.CursorOf(page[len(page)-1])
	}

	// Then
	suite.Require().Len(seen, 5)
	for i, o := range seen {
		suite.True(want[o.ID()])
		delete(want, o.ID())
		if i > 0 {
			suite.False(o.PlacedAt().Before(seen[i-1].PlacedAt()))
		}
	}
	suite.Empty(want)
}

func inr(amount string) kernel.Money {
	return kernel.MustNewMoney(amount, kernel.CurrencyINR)
}

func (suite *OrderRepositoryIntegrationTestSuite) regionalConfig() pricing.PolicyConfig {
	cfg, err := pricing.NewPolicyConfig("2024-06-regional", kernel.CurrencyINR, "795",
		decimal.RequireFromString("0.10"), inr("80"), inr("0"), pricing.NoTax())
	suite.Require().NoError(err)
	return cfg
}

func (suite *OrderRepositoryIntegrationTestSuite) gstConfig() pricing.PolicyConfig {
	tax, err := pricing.SplitGST(decimal.RequireFromString("0.05"))
	suite.Require().NoError(err)
	cfg, err := pricing.NewPolicyConfig("2024-06-gst", kernel.CurrencyINR, "",
		decimal.Zero, inr("0"), inr("0"), tax)
	suite.Require().NoError(err)
	return cfg
}

func (suite *OrderRepositoryIntegrationTestSuite) items() pricing.LineItemSet {
	item, err := pricing.NewLineItem(kernel.NewUUID(), "Black rice", inr("500"), 2)
	suite.Require().NoError(err)
	set, err := pricing.NewLineItemSet(item)
	suite.Require().NoError(err)
	return set
}

func (suite *OrderRepositoryIntegrationTestSuite) address(postalCode string) kernel.DeliveryAddress {
	a, err := kernel.NewDeliveryAddress("Thoibi Devi", "Keishampat", "Near the pond", "Imphal", "Manipur",
		postalCode, "9800000000")
	suite.Require().NoError(err)
	return a
}

func (suite *OrderRepositoryIntegrationTestSuite) guest() order.Customer {
	c, err := order.NewGuestCustomer("Thoibi Devi", "", "9800000000")
	suite.Require().NoError(err)
	return c
}

func (suite *OrderRepositoryIntegrationTestSuite) place(
	cfg pricing.PolicyConfig, postalCode string, opts ...order.PlaceOption,
) *order.Order {
	o, err := order.Place(kernel.NewUUID(), suite.items(), suite.address(postalCode), suite.guest(),
		cfg, suite.placedAt, opts...)
	suite.Require().NoError(err)
	return o
}

func TestOrderRepositoryIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderRepositoryIntegrationTestSuite))
}
