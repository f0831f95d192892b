package orderrepo

import (
	"context"
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements ports.OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add inserts the order row and its line items.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes the fulfillment columns of a snapshot over the row holding
// the previous version. Line items and amounts are never rewritten.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version-1).
		Updates(map[string]any{
			"order_status":        dto.OrderStatus,
			"shipping_status":     dto.ShippingStatus,
			"courier_name":        dto.Courier.Name,
			"courier_contact":     dto.Courier.Contact,
			"courier_tracking_id": dto.Courier.TrackingID,
			"updated_at":          dto.UpdatedAt,
			"version":             dto.Version,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		return r.missedUpdate(ctx, aggregate)
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) missedUpdate(ctx context.Context, aggregate *order.Order) error {
	var stored int64
	err := r.db.WithContext(ctx).
		Model(&OrderDTO{}).
		Select("version").
		Where("id = ?", aggregate.ID().Bytes()).
		Take(&stored).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}
	if err != nil {
		return err
	}
	return errs.NewStaleStateError("order version", aggregate.Version()-1, stored)
}

// Get retrieves an order by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.withItems(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// ListByCustomer returns the orders of a registered customer, newest first.
func (r *GormOrderRepository) ListByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("customer_id = ?", customerID.Bytes()).
		Order("placed_at DESC, id").
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// SearchByIDPrefix matches the textual form of the id. LIKE wildcards in
// prefix are matched literally.
func (r *GormOrderRepository) SearchByIDPrefix(ctx context.Context, prefix string, limit int) ([]*order.Order, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, errs.NewValueIsRequiredError("id prefix")
	}

	var dtos []OrderDTO
	err := r.withItems(ctx).
		Where("id::text ILIKE ?", likeEscaper.Replace(prefix)+"%").
		Order("placed_at DESC, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

// ListPlacedSince returns orders placed at or after since, oldest first.
// Rows are keyed by (placed_at, id) so a cursor never skips orders that share
// a placement time.
func (r *GormOrderRepository) ListPlacedSince(
	ctx context.Context,
	since time.Time,
	after *ports.OrderCursor,
	limit int,
) ([]*order.Order, error) {
	query := r.withItems(ctx).Where("placed_at >= ?", since)
	if after != nil {
		query = query.Where("(placed_at, id) > (?, ?)", after.PlacedAt.UTC(), after.ID.Bytes())
	}

	var dtos []OrderDTO
	err := query.
		Order("placed_at, id").
		Limit(limit).
		Find(&dtos).Error
	if err != nil {
		return nil, err
	}
	return toDomainList(dtos)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *GormOrderRepository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func toDomainList(dtos []OrderDTO) ([]*order.Order, error) {
	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
