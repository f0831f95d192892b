package orderevents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/segmentio/kafka-go"
)

var _ ports.OrderEventPublisher = &Publisher{}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes order events as JSON to one topic, keyed by order id so
// every event of an order lands on the same partition.
type Publisher struct {
	writer messageWriter
	now    func() time.Time
}

// NewPublisher returns a publisher for brokersCSV. With no brokers it returns
// a publisher that drops every event.
func NewPublisher(brokersCSV, topic string) (*Publisher, error) {
	brokers := ParseBrokers(brokersCSV)
	if len(brokers) == 0 {
		return &Publisher{now: time.Now}, nil
	}
	if strings.TrimSpace(topic) == "" {
		return nil, errors.New("kafka topic is required")
	}
	return newPublisher(newWriter(brokers, topic)), nil
}

// Events are written from Commit on the request path, one message per call.
// The writer flushes each call right away instead of waiting for a batch to fill.
const (
	flushInterval = 5 * time.Millisecond
	writeTimeout  = 3 * time.Second
)

func newWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    1,
		BatchTimeout: flushInterval,
		WriteTimeout: writeTimeout,
	}
}

func newPublisher(writer messageWriter) *Publisher {
	return &Publisher{writer: writer, now: time.Now}
}

func ParseBrokers(csv string) []string {
	var brokers []string
	for _, b := range strings.Split(csv, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

// Enabled is false when the publisher was built without brokers.
func (p *Publisher) Enabled() bool {
	return p.writer != nil
}

type envelope struct {
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

type placedPayload struct {
	OrderID          string    `json:"order_id"`
	CustomerID       *string   `json:"customer_id,omitempty"`
	Total            string    `json:"total"`
	Currency         string    `json:"currency"`
	ConfigVersion    string    `json:"config_version"`
	DeferredDelivery bool      `json:"deferred_delivery"`
	PlacedAt         time.Time `json:"placed_at"`
}

type statePayload struct {
	OrderStatus    string  `json:"order_status"`
	ShippingStatus string  `json:"shipping_status"`
	CourierName    *string `json:"courier_name,omitempty"`
	TrackingID     *string `json:"tracking_id,omitempty"`
}

type fulfillmentPayload struct {
	OrderID   string       `json:"order_id"`
	Previous  statePayload `json:"previous"`
	Current   statePayload `json:"current"`
	Version   int64        `json:"version"`
	UpdatedAt time.Time    `json:"updated_at"`
}

func (p *Publisher) OrderPlaced(ctx context.Context, event order.PlacedEvent) error {
	payload := placedPayload{
		OrderID:          event.OrderID.String(),
		Total:            event.Total.Amount().StringFixed(2),
		Currency:         string(event.Total.Currency()),
		ConfigVersion:    event.ConfigVersion,
		DeferredDelivery: event.DeferredDelivery,
		PlacedAt:         event.PlacedAt,
	}
	if event.CustomerID != nil {
		id := event.CustomerID.String()
		payload.CustomerID = &id
	}
	return p.publish(ctx, event, payload)
}

func (p *Publisher) FulfillmentUpdated(ctx context.Context, event order.FulfillmentUpdatedEvent) error {
	return p.publish(ctx, event, fulfillmentPayload{
		OrderID:   event.OrderID.String(),
		Previous:  stateToPayload(event.Previous),
		Current:   stateToPayload(event.Current),
		Version:   event.Version,
		UpdatedAt: event.UpdatedAt,
	})
}

func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

func (p *Publisher) publish(ctx context.Context, event order.DomainEvent, payload any) error {
	if p.writer == nil {
		return nil
	}
	data, err := json.Marshal(envelope{
		Type:       event.EventName(),
		OccurredAt: p.now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.AggregateID().String()),
		Value: data,
		Time:  p.now().UTC(),
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventName())},
		},
	})
}

func stateToPayload(s fulfillment.State) statePayload {
	out := statePayload{
		OrderStatus:    s.OrderStatus.String(),
		ShippingStatus: s.ShippingStatus.String(),
	}
	if s.Courier != nil {
		name, tracking := s.Courier.Name(), s.Courier.TrackingID()
		out.CourierName = &name
		out.TrackingID = &tracking
	}
	return out
}
