package metrics

import (
	"net/http"
	"strconv"
	"time"

	"storefront/internal/core/domain/model/pricing"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "storefront"

// Metrics holds the business and HTTP collectors of the service.
type Metrics struct {
	OrdersPlaced         *prometheus.CounterVec
	OrderTotal           *prometheus.HistogramVec
	FulfillmentRejection *prometheus.CounterVec
	PricingDrift         *prometheus.CounterVec
	Requests             *prometheus.CounterVec
	LatencyMS            *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Tests pass a fresh
// prometheus.NewRegistry().
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		OrdersPlaced: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders placed, by config version and whether delivery is deferred.",
		}, []string{"config_version", "deferred_delivery"}),
		OrderTotal: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "order_total",
			Help:      "Order totals in major currency units.",
			Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 25000},
		}, []string{"currency"}),
		FulfillmentRejection: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fulfillment_updates_rejected_total",
			Help:      "Rejected fulfillment updates, by reason.",
		}, []string{"reason"}),
		PricingDrift: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pricing_drift_total",
			Help:      "Stored breakdowns that differ from a recomputation under their own config version.",
		}, []string{"config_version"}),
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests.",
		}, []string{"method", "route", "status"}),
		LatencyMS: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_ms",
			Help:      "HTTP request latency in milliseconds.",
			Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		}, []string{"method", "route"}),
		gatherer: reg,
	}

	reg.MustRegister(
		m.OrdersPlaced,
		m.OrderTotal,
		m.FulfillmentRejection,
		m.PricingDrift,
		m.Requests,
		m.LatencyMS,
	)
	return m
}

func (m *Metrics) OrderPlaced(breakdown pricing.PriceBreakdown) {
	m.OrdersPlaced.WithLabelValues(
		breakdown.ConfigVersion(),
		strconv.FormatBool(breakdown.DeferredDelivery()),
	).Inc()
	total, _ := breakdown.Total().Amount().Float64()
	m.OrderTotal.WithLabelValues(string(breakdown.Currency())).Observe(total)
}

func (m *Metrics) FulfillmentRejected(reason string) {
	m.FulfillmentRejection.WithLabelValues(reason).Inc()
}

func (m *Metrics) PricingDriftDetected(configVersion string) {
	m.PricingDrift.WithLabelValues(configVersion).Inc()
}

// Handler exposes the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per route template, so
// /orders/{id} is one series rather than one per order.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = "unmatched"
			}
			method := c.Request().Method
			m.Requests.WithLabelValues(method, route, strconv.Itoa(c.Response().Status)).Inc()
			m.LatencyMS.WithLabelValues(method, route).Observe(float64(time.Since(start).Milliseconds()))
			return nil
		}
	}
}
