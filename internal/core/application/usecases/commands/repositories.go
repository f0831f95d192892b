package commands

import (
	"context"

	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// OrderMetrics receives business counters from the handlers.
	OrderMetrics interface {
		OrderPlaced(breakdown pricing.PriceBreakdown)
		FulfillmentRejected(reason string)
		PricingDriftDetected(configVersion string)
	}
)
