package catalogcache_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storefront/internal/adapters/out/redis/catalogcache"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/pkg/errs"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type MockCatalog struct{ mock.Mock }

func (m *MockCatalog) Lookup(ctx context.Context, productID kernel.UUID) (services.CatalogEntry, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(services.CatalogEntry), args.Error(1)
}

type CatalogCacheIntegrationTestSuite struct {
	suite.Suite
	container testcontainers.Container
	client    *redis.Client
	next      *MockCatalog
	cache     *catalogcache.Catalog
}

func (suite *CatalogCacheIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	suite.Require().NoError(err)
	suite.container = container

	endpoint, err := container.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})
}

func (suite *CatalogCacheIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushDB(context.Background()).Err())

	suite.next = new(MockCatalog)
	cache, err := catalogcache.NewCatalog(suite.next, suite.client, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)
	suite.cache = cache
}

func (suite *CatalogCacheIntegrationTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *CatalogCacheIntegrationTestSuite) TestLookup_MissReadsThroughAndCaches() {
	// Given
	ctx := context.Background()
	entry := blackRice()
	suite.next.On("Lookup", ctx, entry.ProductID).Return(entry, nil).Once()

	// When
	first, err := suite.cache.Lookup(ctx, entry.ProductID)
	suite.Require().NoError(err)
	second, err := suite.cache.Lookup(ctx, entry.ProductID)
	suite.Require().NoError(err)

	// Then
	suite.next.AssertNumberOfCalls(suite.T(), "Lookup", 1)
	suite.Equal(entry.Name, second.Name)
	suite.True(entry.UnitPrice.IsEqual(second.UnitPrice))
	suite.True(first.ProductID.IsEqual(second.ProductID))
	suite.True(second.Active)

	ttl, err := suite.client.TTL(ctx, catalogcache.Key(entry.ProductID)).Result()
	suite.Require().NoError(err)
	suite.Positive(ttl)
	suite.LessOrEqual(ttl, time.Minute)
}

func (suite *CatalogCacheIntegrationTestSuite) TestLookup_NotFoundIsNotCached() {
	ctx := context.Background()
	id := kernel.NewUUID()
	notFound := errs.NewObjectNotFoundError("product", id)
	suite.next.On("Lookup", ctx, id).Return(services.CatalogEntry{}, notFound).Twice()

	_, err := suite.cache.Lookup(ctx, id)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)
	_, err = suite.cache.Lookup(ctx, id)
	suite.Require().ErrorIs(err, errs.ErrObjectNotFound)

	exists, err := suite.client.Exists(ctx, catalogcache.Key(id)).Result()
	suite.Require().NoError(err)
	suite.Zero(exists)
	suite.next.AssertExpectations(suite.T())
}

func (suite *CatalogCacheIntegrationTestSuite) TestLookup_CorruptEntryFallsBackToCatalog() {
	ctx := context.Background()
	entry := blackRice()
	suite.Require().NoError(suite.client.Set(ctx, catalogcache.Key(entry.ProductID), "not json", time.Minute).Err())
	suite.next.On("Lookup", ctx, entry.ProductID).Return(entry, nil).Once()

	got, err := suite.cache.Lookup(ctx, entry.ProductID)

	suite.Require().NoError(err)
	suite.Equal(entry.Name, got.Name)
	suite.next.AssertExpectations(suite.T())
}

func (suite *CatalogCacheIntegrationTestSuite) TestInvalidate_ForcesReadThrough() {
	ctx := context.Background()
	entry := blackRice()
	suite.next.On("Lookup", ctx, entry.ProductID).Return(entry, nil).Twice()

	_, err := suite.cache.Lookup(ctx, entry.ProductID)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.cache.Invalidate(ctx, entry.ProductID))
	_, err = suite.cache.Lookup(ctx, entry.ProductID)
	suite.Require().NoError(err)

	suite.next.AssertExpectations(suite.T())
}

func (suite *CatalogCacheIntegrationTestSuite) TestNewCatalog_Validation() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	_, err := catalogcache.NewCatalog(nil, suite.client, time.Minute, logger)
	suite.Error(err)
	_, err = catalogcache.NewCatalog(suite.next, nil, time.Minute, logger)
	suite.Error(err)
	_, err = catalogcache.NewCatalog(suite.next, suite.client, 0, logger)
	suite.Error(err)
}

func (suite *CatalogCacheIntegrationTestSuite) TestLookup_RedisDownStillServes() {
	ctx := context.Background()
	entry := blackRice()
	down := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1, DialTimeout: 100 * time.Millisecond})
	defer down.Close()
	cache, err := catalogcache.NewCatalog(suite.next, down, time.Minute, slog.New(slog.NewTextHandler(io.Discard, nil)))
	suite.Require().NoError(err)
	suite.next.On("Lookup", ctx, entry.ProductID).Return(entry, nil).Once()

	got, err := cache.Lookup(ctx, entry.ProductID)

	suite.Require().NoError(err)
	suite.Equal(entry.Name, got.Name)
}

func blackRice() services.CatalogEntry {
	return services.CatalogEntry{
		ProductID: kernel.NewUUID(),
		Name:      "Black rice",
		UnitPrice: kernel.MustNewMoney("500.00", kernel.CurrencyINR),
		Active:    true,
	}
}

func TestCatalogCacheIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(CatalogCacheIntegrationTestSuite))
}

