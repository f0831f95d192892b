// Package postgres provides the GORM implementation of the Unit of Work.
//
// A unit of work wraps one database transaction. Repositories obtained from it
// run inside the transaction once Begin was called and on the plain
// connection otherwise. Every aggregate added or updated through them is
// tracked, and after a successful Commit the domain events of the tracked
// orders are handed to the OrderEventPublisher.
//
// Usage:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Add(ctx, placed); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
//
// Events are published after the transaction commits. A failed publish is
// logged and does not undo the commit, so consumers must tolerate gaps and
// re-read the order when they need its state.
package postgres

import (
	"context"
	"log/slog"

	"storefront/internal/adapters/out/postgres/orderrepo"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"gorm.io/gorm"
)

// trackedAggregate is an aggregate written during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection
// pool and one event publisher.
type GormUnitOfWorkFactory struct {
	db        *gorm.DB
	publisher ports.OrderEventPublisher
	logger    *slog.Logger
}

// NewGormUnitOfWorkFactory creates a factory. publisher may be nil, in which
// case committed events are dropped.
func NewGormUnitOfWorkFactory(db *gorm.DB, publisher ports.OrderEventPublisher, logger *slog.Logger) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:        db,
		publisher: publisher,
		logger:    logger.With("component", "unit_of_work"),
	}
}

// Create produces a fresh unit of work with its own transaction state and
// tracking list.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publisher:         f.publisher,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one transaction and the events it produces.
// It is not safe for concurrent use; every business operation creates its own.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publisher         ports.OrderEventPublisher
	logger            *slog.Logger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again while one is open is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit makes the changes permanent and then publishes the domain events of
// the tracked orders. It returns gorm.ErrInvalidTransaction without an open
// transaction.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	tracked := uow.trackedAggregates
	uow.trackedAggregates = make([]trackedAggregate, 0)
	if err != nil {
		return err
	}

	uow.publish(ctx, tracked)
	return nil
}

// Rollback discards the transaction and everything tracked in it. It returns
// gorm.ErrInvalidTransaction without an open transaction, which makes it safe
// to defer after a Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = make([]trackedAggregate, 0)
	return err
}

// OrderRepository returns a repository bound to the open transaction, or to
// the plain connection when none is open.
func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	db := uow.db
	if uow.tx != nil {
		db = uow.tx
	}
	return orderrepo.NewGormOrderRepository(db, uow)
}

// TrackAggregate registers an aggregate written in this unit of work.
// Repositories call it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

func (uow *GormUnitOfWork) publish(ctx context.Context, tracked []trackedAggregate) {
	if uow.publisher == nil {
		return
	}

	for _, t := range tracked {
		o, ok := t.Aggregate.(*order.Order)
		if !ok {
			continue
		}
		for _, event := range o.DomainEvents() {
			var err error
			switch e := event.(type) {
			case order.PlacedEvent:
				err = uow.publisher.OrderPlaced(ctx, e)
			case order.FulfillmentUpdatedEvent:
				err = uow.publisher.FulfillmentUpdated(ctx, e)
			default:
				continue
			}
			if err != nil {
				uow.logger.ErrorContext(ctx, "failed to publish order event",
					"event", event.EventName(),
					"order_id", t.ID.String(),
					"error", err,
				)
			}
		}
	}
}
