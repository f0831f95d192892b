package cmd

import (
	"log/slog"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/adapters/out/postgres"
	"storefront/internal/adapters/out/postgres/catalogrepo"
	"storefront/internal/adapters/out/postgres/configrepo"
	"storefront/internal/adapters/out/redis/catalogcache"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/ports"
	"storefront/internal/jobs"
	"storefront/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs       Config
	gormDB        *gorm.DB
	uowFactory    *postgres.GormUnitOfWorkFactory
	catalog       ports.Catalog
	policyConfigs ports.PolicyConfigRepository
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

// NewCompositionRoot wires the adapters. A nil redisClient serves the catalog
// straight from postgres.
func NewCompositionRoot(
	configs Config,
	gormDB *gorm.DB,
	redisClient redis.Cmdable,
	publisher ports.OrderEventPublisher,
	metrics *metrics.Metrics,
	logger *slog.Logger,
) (CompositionRoot, error) {
	var catalog ports.Catalog = catalogrepo.NewGormCatalog(gormDB)
	if redisClient != nil {
		ttl, err := configs.CatalogCacheDuration()
		if err != nil {
			return CompositionRoot{}, err
		}
		cached, err := catalogcache.NewCatalog(catalog, redisClient, ttl, logger)
		if err != nil {
			return CompositionRoot{}, err
		}
		catalog = cached
	}

	return CompositionRoot{
		configs:       configs,
		gormDB:        gormDB,
		uowFactory:    postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger),
		catalog:       catalog,
		policyConfigs: configrepo.NewGormPolicyConfigRepository(gormDB),
		metrics:       metrics,
		logger:        logger,
	}, nil
}

func (c *CompositionRoot) PolicyConfigRepository() ports.PolicyConfigRepository {
	return c.policyConfigs
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

// orderReader reads outside any transaction.
func (c *CompositionRoot) orderReader() ports.OrderRepository {
	return c.uowFactory.Create().OrderRepository()
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.policyConfigs, c.metrics)
}

func (c *CompositionRoot) CreateUpdateFulfillmentCommandHandler() commands.UpdateFulfillmentCommandHandler {
	return commands.NewUpdateFulfillmentCommandHandler(c.orderUoWFactory(), c.metrics)
}

func (c *CompositionRoot) CreateAuditPricingDriftCommandHandler() commands.AuditPricingDriftCommandHandler {
	return commands.NewAuditPricingDriftCommandHandler(c.orderUoWFactory(), c.policyConfigs, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.orderReader(), c.policyConfigs, c.metrics, c.logger)
}

func (c *CompositionRoot) CreateGetQuoteQueryHandler() queries.GetQuoteQueryHandler {
	return queries.NewGetQuoteQueryHandler(c.catalog, c.policyConfigs)
}

func (c *CompositionRoot) CreateGetInvoiceQueryHandler() queries.GetInvoiceQueryHandler {
	return queries.NewGetInvoiceQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateSearchOrdersQueryHandler() queries.SearchOrdersQueryHandler {
	return queries.NewSearchOrdersQueryHandler(c.orderReader())
}

func (c *CompositionRoot) CreateListCustomerOrdersQueryHandler() queries.ListCustomerOrdersQueryHandler {
	return queries.NewListCustomerOrdersQueryHandler(c.orderReader())
}

// CreateRouter builds the HTTP server with every use case attached.
func (c *CompositionRoot) CreateRouter() (*echo.Echo, error) {
	policy, err := c.configs.PolicyConfig()
	if err != nil {
		return nil, err
	}
	rps, err := c.configs.RateLimit()
	if err != nil {
		return nil, err
	}

	placeOrder := c.CreatePlaceOrderCommandHandler()
	updateFulfillment := c.CreateUpdateFulfillmentCommandHandler()
	server := httpin.NewServer(httpin.Handlers{
		PlaceOrder:         &placeOrder,
		UpdateFulfillment:  &updateFulfillment,
		GetOrder:           c.CreateGetOrderQueryHandler(),
		GetQuote:           c.CreateGetQuoteQueryHandler(),
		GetInvoice:         c.CreateGetInvoiceQueryHandler(),
		SearchOrders:       c.CreateSearchOrdersQueryHandler(),
		ListCustomerOrders: c.CreateListCustomerOrdersQueryHandler(),
	}, policy.Currency(), c.logger)

	return httpin.NewRouter(server, httpin.RouterConfig{
		RateLimitRPS: rps,
		Metrics:      c.metrics,
		Logger:       c.logger,
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	window, err := c.configs.DriftAuditWindowDuration()
	if err != nil {
		return nil, err
	}
	audit := c.CreateAuditPricingDriftCommandHandler()
	return jobs.NewJobManager(
		jobs.NewPricingDriftAuditJob(&audit, c.configs.DriftAuditCron(), window, c.logger),
	), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
