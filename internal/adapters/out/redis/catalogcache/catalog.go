package catalogcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/services"
	"storefront/internal/core/ports"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "storefront:catalog"

var _ ports.Catalog = &Catalog{}

// Catalog serves product lookups from redis and falls back to the wrapped
// catalog on a miss. Redis failures never fail a lookup.
type Catalog struct {
	next   ports.Catalog
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewCatalog(next ports.Catalog, client redis.Cmdable, ttl time.Duration, logger *slog.Logger) (*Catalog, error) {
	if next == nil {
		return nil, errors.New("next catalog is required")
	}
	if client == nil {
		return nil, errors.New("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	return &Catalog{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger.With("component", "catalog_cache"),
	}, nil
}

type entryDTO struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Currency  string `json:"currency"`
	Active    bool   `json:"active"`
}

func Key(productID kernel.UUID) string {
	return fmt.Sprintf("%s:%s", keyPrefix, productID.String())
}

func (c *Catalog) Lookup(ctx context.Context, productID kernel.UUID) (services.CatalogEntry, error) {
	key := Key(productID)

	entry, hit, err := c.get(ctx, key)
	if err != nil {
		c.logger.WarnContext(ctx, "catalog cache read failed", "key", key, "error", err)
	}
	if hit {
		return entry, nil
	}

	entry, err = c.next.Lookup(ctx, productID)
	if err != nil {
		return services.CatalogEntry{}, err
	}

	if err := c.set(ctx, key, entry); err != nil {
		c.logger.WarnContext(ctx, "catalog cache write failed", "key", key, "error", err)
	}
	return entry, nil
}

// Invalidate drops a cached product so the next lookup reads through.
func (c *Catalog) Invalidate(ctx context.Context, productID kernel.UUID) error {
	return c.client.Del(ctx, Key(productID)).Err()
}

func (c *Catalog) get(ctx context.Context, key string) (services.CatalogEntry, bool, error) {
	raw, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return services.CatalogEntry{}, false, nil
	}
	if err != nil {
		return services.CatalogEntry{}, false, err
	}

	var dto entryDTO
	if err := json.Unmarshal([]byte(raw), &dto); err != nil {
		return services.CatalogEntry{}, false, fmt.Errorf("decode cached entry: %w", err)
	}
	entry, err := dto.toDomain()
	if err != nil {
		return services.CatalogEntry{}, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return entry, true, nil
}

func (c *Catalog) set(ctx context.Context, key string, entry services.CatalogEntry) error {
	data, err := json.Marshal(entryDTO{
		ProductID: entry.ProductID.String(),
		Name:      entry.Name,
		UnitPrice: entry.UnitPrice.Amount().String(),
		Currency:  string(entry.UnitPrice.Currency()),
		Active:    entry.Active,
	})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

func (d entryDTO) toDomain() (services.CatalogEntry, error) {
	id, err := kernel.UUIDFromString(d.ProductID)
	if err != nil {
		return services.CatalogEntry{}, err
	}
	price, err := kernel.NewMoney(d.UnitPrice, kernel.Currency(d.Currency))
	if err != nil {
		return services.CatalogEntry{}, err
	}
	return services.CatalogEntry{
		ProductID: id,
		Name:      d.Name,
		UnitPrice: price,
		Active:    d.Active,
	}, nil
}
