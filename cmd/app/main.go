package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront/cmd"
	"storefront/internal/adapters/out/kafka/orderevents"
	"storefront/internal/adapters/out/postgres/catalogrepo"
	"storefront/internal/adapters/out/postgres/configrepo"
	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/pkg/metrics"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB := mustConnectDB(configs)
	mustSavePolicyConfig(ctx, configs, gormDB, logger)

	var cache redis.Cmdable
	if configs.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: configs.RedisAddr})
		defer client.Close()
		cache = client
	}

	publisher, err := orderevents.NewPublisher(configs.KafkaBrokers, configs.KafkaOrderEventsTopic)
	if err != nil {
		log.Fatalf("Failed to create order event publisher: %v", err)
	}
	defer publisher.Close()
	if !publisher.Enabled() {
		logger.Warn("KAFKA_BROKERS is empty, order events will not be published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	app, err := cmd.NewCompositionRoot(configs, gormDB, cache, publisher, metrics.New(registry), logger)
	if err != nil {
		log.Fatalf("Failed to build application: %v", err)
	}

	jobManager, err := app.CreateJobManager()
	if err != nil {
		log.Fatalf("Failed to create jobs: %v", err)
	}
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Failed to start jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(ctx, app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("Error loading .env file: %v", err)
	}

	config := cmd.Config{
		HTTPPort:                      os.Getenv("HTTP_PORT"),
		DBHost:                        os.Getenv("DB_HOST"),
		DBPort:                        os.Getenv("DB_PORT"),
		DBUser:                        os.Getenv("DB_USER"),
		DBPassword:                    os.Getenv("DB_PASSWORD"),
		DBName:                        os.Getenv("DB_NAME"),
		DBSslMode:                     os.Getenv("DB_SSLMODE"),
		RedisAddr:                     os.Getenv("REDIS_ADDR"),
		CatalogCacheTTL:               os.Getenv("CATALOG_CACHE_TTL"),
		KafkaBrokers:                  os.Getenv("KAFKA_BROKERS"),
		KafkaOrderEventsTopic:         os.Getenv("KAFKA_ORDER_EVENTS_TOPIC"),
		RateLimitRPS:                  os.Getenv("RATE_LIMIT_RPS"),
		DriftAuditSchedule:            os.Getenv("DRIFT_AUDIT_SCHEDULE"),
		DriftAuditWindow:              os.Getenv("DRIFT_AUDIT_WINDOW"),
		PricingConfigVersion:          os.Getenv("PRICING_CONFIG_VERSION"),
		PricingCurrency:               os.Getenv("PRICING_CURRENCY"),
		PricingRegionalPrefix:         os.Getenv("PRICING_REGIONAL_PREFIX"),
		PricingRegionalDiscountRate:   os.Getenv("PRICING_REGIONAL_DISCOUNT_RATE"),
		PricingRegionalDeliveryCharge: os.Getenv("PRICING_REGIONAL_DELIVERY_CHARGE"),
		PricingDefaultHandlingFee:     os.Getenv("PRICING_DEFAULT_HANDLING_FEE"),
		PricingTaxModel:               os.Getenv("PRICING_TAX_MODEL"),
		PricingTaxRate:                os.Getenv("PRICING_TAX_RATE"),
	}
	if config.HTTPPort == "" {
		config.HTTPPort = "8080"
	}
	return config
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(
		&orderrepo.OrderDTO{},
		&orderrepo.OrderItemDTO{},
		&configrepo.PolicyConfigDTO{},
		&catalogrepo.ProductDTO{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	return gormDB
}

// mustSavePolicyConfig records the configured policy so orders priced with it
// can be re-derived later, even after the settings change.
func mustSavePolicyConfig(ctx context.Context, configs cmd.Config, gormDB *gorm.DB, logger *slog.Logger) {
	policy, err := configs.PolicyConfig()
	if err != nil {
		log.Fatalf("Invalid pricing configuration: %v", err)
	}
	if err := configrepo.NewGormPolicyConfigRepository(gormDB).Save(ctx, policy); err != nil {
		log.Fatalf("Failed to save pricing configuration %s: %v", policy.Version(), err)
	}
	logger.Info("Pricing configuration active",
		"version", policy.Version(),
		"tax_model", policy.TaxModel().Kind().String(),
		"regional_prefix", policy.RegionalPrefix())
}

func startWebServer(ctx context.Context, app cmd.CompositionRoot, port string) {
	e, err := app.CreateRouter()
	if err != nil {
		log.Fatalf("Failed to create router: %v", err)
	}
	e.Logger.SetLevel(log.INFO)

	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			e.Logger.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		e.Logger.Error(err)
	}
}
