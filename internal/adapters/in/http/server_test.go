package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	httpin "storefront/internal/adapters/in/http"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/fulfillment"
	"storefront/internal/core/domain/model/invoice"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/domain/model/pricing"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPlaceOrder struct{ mock.Mock }

func (m *MockPlaceOrder) Handle(ctx context.Context, cmd commands.PlaceOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockUpdateFulfillment struct{ mock.Mock }

func (m *MockUpdateFulfillment) Handle(ctx context.Context, cmd commands.UpdateFulfillmentCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type MockGetOrder struct{ mock.Mock }

func (m *MockGetOrder) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetOrderQueryResponse), args.Error(1)
}

type MockGetQuote struct{ mock.Mock }

func (m *MockGetQuote) Handle(ctx context.Context, query queries.GetQuoteQuery) (queries.GetQuoteQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetQuoteQueryResponse), args.Error(1)
}

type MockGetInvoice struct{ mock.Mock }

func (m *MockGetInvoice) Handle(ctx context.Context, query queries.GetInvoiceQuery) (invoice.Invoice, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(invoice.Invoice), args.Error(1)
}

type MockOrderList struct{ mock.Mock }

func (m *MockOrderList) handle(ctx context.Context, query any) ([]queries.OrderSummary, error) {
	args := m.MethodCalled("Handle", ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]queries.OrderSummary), args.Error(1)
}

type MockSearchOrders struct{ MockOrderList }

func (m *MockSearchOrders) Handle(ctx context.Context, query queries.SearchOrdersQuery) ([]queries.OrderSummary, error) {
	return m.handle(ctx, query)
}

type MockListCustomerOrders struct{ MockOrderList }

func (m *MockListCustomerOrders) Handle(ctx context.Context, query queries.ListCustomerOrdersQuery) ([]queries.OrderSummary, error) {
	return m.handle(ctx, query)
}

type fixture struct {
	placeOrder         *MockPlaceOrder
	updateFulfillment  *MockUpdateFulfillment
	getOrder           *MockGetOrder
	getQuote           *MockGetQuote
	getInvoice         *MockGetInvoice
	searchOrders       *MockSearchOrders
	listCustomerOrders *MockListCustomerOrders
	metrics            *metrics.Metrics
	echo               *echo.Echo
}

func newFixture(t *testing.T, rps float64) *fixture {
	t.Helper()
	f := &fixture{
		placeOrder:         new(MockPlaceOrder),
		updateFulfillment:  new(MockUpdateFulfillment),
		getOrder:           new(MockGetOrder),
		getQuote:           new(MockGetQuote),
		getInvoice:         new(MockGetInvoice),
		searchOrders:       new(MockSearchOrders),
		listCustomerOrders: new(MockListCustomerOrders),
		metrics:            metrics.New(prometheus.NewRegistry()),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := httpin.NewServer(httpin.Handlers{
		PlaceOrder:         f.placeOrder,
		UpdateFulfillment:  f.updateFulfillment,
		GetOrder:           f.getOrder,
		GetQuote:           f.getQuote,
		GetInvoice:         f.getInvoice,
		SearchOrders:       f.searchOrders,
		ListCustomerOrders: f.listCustomerOrders,
	}, kernel.CurrencyINR, logger)

	e, err := httpin.NewRouter(server, httpin.RouterConfig{RateLimitRPS: rps, Metrics: f.metrics, Logger: logger})
	require.NoError(t, err)
	f.echo = e
	return f
}

func (f *fixture) do(method, target, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	f.echo.ServeHTTP(rec, req)
	return rec
}

func inr(amount string) kernel.Money {
	return kernel.MustNewMoney(amount, kernel.CurrencyINR)
}

func placedOrder(t *testing.T) *order.Order {
	t.Helper()
	cfg, err := pricing.NewPolicyConfig("2024-06-regional", kernel.CurrencyINR, "795",
		decimal.RequireFromString("0.10"), inr("80"), inr("0"), pricing.NoTax())
	require.NoError(t, err)
	item, err := pricing.NewLineItem(kernel.NewUUID(), "Black rice", inr("500"), 2)
	require.NoError(t, err)
	items, err := pricing.NewLineItemSet(item)
	require.NoError(t, err)
	address, err := kernel.NewDeliveryAddress("Thoibi Devi", "Keishampat", "", "Imphal", "Manipur", "795001", "9800000000")
	require.NoError(t, err)
	customer, err := order.NewGuestCustomer("Thoibi Devi", "", "9800000000")
	require.NoError(t, err)

	o, err := order.Place(kernel.NewUUID(), items, address, customer, cfg, time.Date(2024, 6, 1, 10, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	return o
}

const addressJSON = `{"fullName":"Thoibi Devi","addressLine1":"Keishampat","city":"Imphal","state":"Manipur","postalCode":"795001","phone":"9800000000"}`

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateQuote(t *testing.T) {
	// Given
	f := newFixture(t, 0)
	o := placedOrder(t)
	f.getQuote.On("Handle", mock.Anything, mock.AnythingOfType("queries.GetQuoteQuery")).
		Return(queries.GetQuoteQueryResponse{Items: o.Items(), Breakdown: o.Breakdown()}, nil).Once()

	// When
	rec := f.do(http.MethodPost, "/api/v1/quotes",
		`{"items":[{"productId":"`+kernel.NewUUID().String()+`","quantity":2}],"address":`+addressJSON+`}`)

	// Then
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var quote servers.Quote
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &quote))
	assert.Equal(t, "1000.00", quote.Breakdown.Subtotal)
	assert.Equal(t, "100.00", quote.Breakdown.Discount)
	assert.Equal(t, "80.00", quote.Breakdown.DeliveryCharge)
	assert.Equal(t, "980.00", quote.Breakdown.Total)
	assert.Equal(t, "1000.00", quote.Items[0].LineTotal)
	f.getQuote.AssertExpectations(t)
}

func TestPlaceOrder_Created(t *testing.T) {
	// Given
	f := newFixture(t, 0)
	o := placedOrder(t)
	productID := kernel.NewUUID()

	var placedID kernel.UUID
	f.placeOrder.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.PlaceOrderCommand) bool {
		placedID = cmd.OrderID()
		return len(cmd.Lines()) == 1 &&
			cmd.Lines()[0].ProductID.IsEqual(productID) &&
			cmd.Customer().IsGuest() &&
			cmd.HandlingFee() != nil && cmd.HandlingFee().IsEqual(inr("25"))
	})).Return(nil).Once()
	f.getOrder.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().IsEqual(placedID)
	})).Return(queries.GetOrderQueryResponse{Order: o}, nil).Once()

	// When
	rec := f.do(http.MethodPost, "/api/v1/orders", `{
		"items":[{"productId":"`+productID.String()+`","quantity":2}],
		"address":`+addressJSON+`,
		"customer":{"name":"Thoibi Devi","phone":"9800000000"},
		"handlingFee":"25"
	}`)

	// Then
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var body servers.Order
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, o.ID().String(), body.Id.String())
	assert.Equal(t, invoice.Number(o.ID()), body.InvoiceNumber)
	assert.Equal(t, servers.FulfillmentStateOrderStatusPending, body.Fulfillment.OrderStatus)
	assert.Equal(t, "2024-06-regional", body.Breakdown.ConfigVersion)
	assert.False(t, body.PricingDrift)
	f.placeOrder.AssertExpectations(t)
	f.getOrder.AssertExpectations(t)
}

func TestPlaceOrder_SchemaViolationIsBadRequest(t *testing.T) {
	f := newFixture(t, 0)

	rec := f.do(http.MethodPost, "/api/v1/orders", `{"items":[],"customer":{}}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	f.placeOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestCreateQuote_QuantityAboveLimitIsBadRequest(t *testing.T) {
	f := newFixture(t, 0)

	rec := f.do(http.MethodPost, "/api/v1/quotes",
		`{"items":[{"productId":"`+kernel.NewUUID().String()+`","quantity":9223372036854775807}],"address":`+addressJSON+`}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
	f.getQuote.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPlaceOrder_GuestWithoutPhoneIsUnprocessable(t *testing.T) {
	f := newFixture(t, 0)

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"items":[{"productId":"`+kernel.NewUUID().String()+`","quantity":1}],"address":`+addressJSON+`,"customer":{"name":"Guest"}}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decodeError(t, rec).Message, "guest phone")
	f.placeOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPlaceOrder_UnknownErrorIsHidden(t *testing.T) {
	f := newFixture(t, 0)
	f.placeOrder.On("Handle", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

	rec := f.do(http.MethodPost, "/api/v1/orders",
		`{"items":[{"productId":"`+kernel.NewUUID().String()+`","quantity":1}],"address":`+addressJSON+`,"customer":{"name":"Guest","phone":"1"}}`)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", decodeError(t, rec).Message)
}

func TestGetOrder(t *testing.T) {
	t.Run("with drift", func(t *testing.T) {
		f := newFixture(t, 0)
		o := placedOrder(t)
		f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(queries.GetOrderQueryResponse{
			Order: o,
			Drift: &order.PricingDrift{OrderID: o.ID(), Fields: []string{"discount", "total"}},
		}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String(), "")

		require.Equal(t, http.StatusOK, rec.Code)
		var body servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.True(t, body.PricingDrift)
		require.NotNil(t, body.DriftFields)
		assert.Equal(t, []string{"discount", "total"}, *body.DriftFields)
		assert.Equal(t, "980.00", body.Breakdown.Total, "stored breakdown is shown")
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t, 0)
		id := kernel.NewUUID()
		f.getOrder.On("Handle", mock.Anything, mock.Anything).
			Return(queries.GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", id)).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		f := newFixture(t, 0)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func fulfillmentBody(expectedShipping, requestedShipping, courier string) string {
	return `{"expected":{"orderStatus":"confirmed","shippingStatus":"` + expectedShipping + `"},` +
		`"requested":{"orderStatus":"confirmed","shippingStatus":"` + requestedShipping + `"` + courier + `}}`
}

func TestUpdateFulfillment(t *testing.T) {
	courier := `,"courier":{"name":"BlueDart","contact":"9800000000","trackingId":"BD123"}`

	t.Run("updated", func(t *testing.T) {
		// Given
		f := newFixture(t, 0)
		o := placedOrder(t)
		f.updateFulfillment.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.UpdateFulfillmentCommand) bool {
			return cmd.OrderID().IsEqual(o.ID()) &&
				cmd.Expected().ShippingStatus == fulfillment.ShippingPacked &&
				cmd.Request().ShippingStatus == fulfillment.ShippingShipped &&
				cmd.Request().Courier != nil && cmd.Request().Courier.TrackingID() == "BD123"
		})).Return(nil).Once()
		f.getOrder.On("Handle", mock.Anything, mock.Anything).Return(queries.GetOrderQueryResponse{Order: o}, nil).Once()

		// When
		rec := f.do(http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/fulfillment",
			fulfillmentBody("packed", "shipped", courier))

		// Then
		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		f.updateFulfillment.AssertExpectations(t)
	})

	t.Run("stale", func(t *testing.T) {
		f := newFixture(t, 0)
		f.updateFulfillment.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewStaleStateError("fulfillment state", "a", "b")).Once()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/fulfillment",
			fulfillmentBody("packed", "shipped", courier))

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "Reload")
		f.getOrder.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("illegal transition", func(t *testing.T) {
		f := newFixture(t, 0)
		f.updateFulfillment.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewIllegalTransitionError("shipping status", "shipped", "packed")).Once()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/fulfillment",
			fulfillmentBody("shipped", "packed", ""))

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("partial courier", func(t *testing.T) {
		f := newFixture(t, 0)

		rec := f.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/fulfillment",
			fulfillmentBody("packed", "shipped", `,"courier":{"name":"BlueDart","contact":"","trackingId":""}`))

		assert.Equal(t, http.StatusConflict, rec.Code)
		f.updateFulfillment.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t, 0)

		rec := f.do(http.MethodPut, "/api/v1/orders/"+kernel.NewUUID().String()+"/fulfillment",
			fulfillmentBody("packed", "lost", ""))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestGetInvoice(t *testing.T) {
	f := newFixture(t, 0)
	o := placedOrder(t)
	inv, err := invoice.New(o)
	require.NoError(t, err)
	f.getInvoice.On("Handle", mock.Anything, mock.Anything).Return(inv, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/orders/"+o.ID().String()+"/invoice", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var body servers.Invoice
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, inv.Number, body.Number)
	assert.Equal(t, servers.InvoiceLayoutDiscountDelivery, body.Layout)
	assert.Equal(t, "980.00", body.Total)
	assert.False(t, body.Provisional)
	require.NotEmpty(t, body.Summary)
	assert.Equal(t, "Subtotal", body.Summary[0].Label)
}

func TestSearchOrders(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		f := newFixture(t, 0)
		o := placedOrder(t)
		f.searchOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.SearchOrdersQuery) bool {
			return q.Term() == "ab12" && q.Limit() == 5
		})).Return([]queries.OrderSummary{{
			ID:             o.ID(),
			CustomerName:   "Thoibi Devi",
			ItemCount:      1,
			Total:          inr("980"),
			OrderStatus:    fulfillment.OrderPending,
			ShippingStatus: fulfillment.ShippingPending,
			PlacedAt:       o.PlacedAt(),
		}}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders?q=INV-AB12&limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var body []servers.OrderSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body, 1)
		assert.Equal(t, "980.00", body[0].Total)
		assert.Equal(t, "INR", body[0].Currency)
		assert.Equal(t, "pending", body[0].ShippingStatus)
	})

	t.Run("missing term", func(t *testing.T) {
		f := newFixture(t, 0)

		rec := f.do(http.MethodGet, "/api/v1/orders", "")

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("term that cannot be an id", func(t *testing.T) {
		f := newFixture(t, 0)

		rec := f.do(http.MethodGet, "/api/v1/orders?q=xyz", "")

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestListCustomerOrders(t *testing.T) {
	f := newFixture(t, 0)
	customerID := kernel.NewUUID()
	f.listCustomerOrders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListCustomerOrdersQuery) bool {
		return q.CustomerID().IsEqual(customerID)
	})).Return([]queries.OrderSummary{}, nil).Once()

	rec := f.do(http.MethodGet, "/api/v1/customers/"+customerID.String()+"/orders", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHealthAndMetrics(t *testing.T) {
	f := newFixture(t, 0)

	health := f.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, health.Code)
	assert.Equal(t, "Healthy", health.Body.String())

	m := f.do(http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, m.Code)
	assert.Contains(t, m.Body.String(), "storefront_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	f := newFixture(t, 1)
	f.listCustomerOrders.On("Handle", mock.Anything, mock.Anything).Return([]queries.OrderSummary{}, nil)
	target := "/api/v1/customers/" + kernel.NewUUID().String() + "/orders"

	first := f.do(http.MethodGet, target, "")
	second := f.do(http.MethodGet, target, "")

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, http.StatusTooManyRequests, decodeError(t, second).Code)
}
