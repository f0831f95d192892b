package http

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/invoice"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/generated/servers"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

var _ servers.ServerInterface = &Server{}

type (
	PlaceOrderHandler interface {
		Handle(ctx context.Context, cmd commands.PlaceOrderCommand) error
	}
	UpdateFulfillmentHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateFulfillmentCommand) error
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetQuoteHandler interface {
		Handle(ctx context.Context, query queries.GetQuoteQuery) (queries.GetQuoteQueryResponse, error)
	}
	GetInvoiceHandler interface {
		Handle(ctx context.Context, query queries.GetInvoiceQuery) (invoice.Invoice, error)
	}
	SearchOrdersHandler interface {
		Handle(ctx context.Context, query queries.SearchOrdersQuery) ([]queries.OrderSummary, error)
	}
	ListCustomerOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListCustomerOrdersQuery) ([]queries.OrderSummary, error)
	}
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	PlaceOrder         PlaceOrderHandler
	UpdateFulfillment  UpdateFulfillmentHandler
	GetOrder           GetOrderHandler
	GetQuote           GetQuoteHandler
	GetInvoice         GetInvoiceHandler
	SearchOrders       SearchOrdersHandler
	ListCustomerOrders ListCustomerOrdersHandler
}

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	handlers Handlers
	currency kernel.Currency
	logger   *slog.Logger
}

// NewServer creates a new HTTP server. currency is the one amounts sent by
// clients, such as a handling fee override, are read in.
func NewServer(handlers Handlers, currency kernel.Currency, logger *slog.Logger) *Server {
	return &Server{
		handlers: handlers,
		currency: currency,
		logger:   logger.With("component", "http"),
	}
}

// CreateQuote handles POST /api/v1/quotes - prices a cart without placing it.
func (s *Server) CreateQuote(ctx echo.Context) error {
	var body servers.QuoteRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	lines, err := cartLinesFromAPI(body.Items)
	if err != nil {
		return s.fail(ctx, err)
	}
	address, err := addressFromAPI(body.Address)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetQuoteQuery(lines, address)
	if err != nil {
		return s.fail(ctx, err)
	}

	quote, err := s.handlers.GetQuote.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(http.StatusOK, servers.Quote{
		Items:     lineItemsToAPI(quote.Items),
		Breakdown: breakdownToAPI(quote.Breakdown),
	})
}

// PlaceOrder handles POST /api/v1/orders - places an order and returns it.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var body servers.PlaceOrderRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	lines, err := cartLinesFromAPI(body.Items)
	if err != nil {
		return s.fail(ctx, err)
	}
	address, err := addressFromAPI(body.Address)
	if err != nil {
		return s.fail(ctx, err)
	}
	customer, err := customerFromAPI(body.Customer)
	if err != nil {
		return s.fail(ctx, err)
	}
	var handlingFee *kernel.Money
	if body.HandlingFee != nil {
		fee, err := kernel.NewMoney(*body.HandlingFee, s.currency)
		if err != nil {
			return s.fail(ctx, err)
		}
		handlingFee = &fee
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewPlaceOrderCommand(orderID, lines, address, customer, handlingFee)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.handlers.PlaceOrder.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusCreated, orderID)
}

// SearchOrders handles GET /api/v1/orders?q= - finds orders by id prefix.
func (s *Server) SearchOrders(ctx echo.Context, params servers.SearchOrdersParams) error {
	limit := 0
	if params.Limit != nil {
		limit = *params.Limit
	}
	query, err := queries.NewSearchOrdersQuery(params.Q, limit)
	if err != nil {
		return s.fail(ctx, err)
	}

	summaries, err := s.handlers.SearchOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summariesToAPI(summaries))
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderId servers.OrderId) error {
	id, err := uuidFromAPI(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	return s.respondWithOrder(ctx, http.StatusOK, id)
}

// UpdateFulfillment handles PUT /api/v1/orders/{orderId}/fulfillment. The body
// carries the state the caller last saw and the state it wants.
func (s *Server) UpdateFulfillment(ctx echo.Context, orderId servers.OrderId) error {
	var body servers.UpdateFulfillmentRequest
	if err := ctx.Bind(&body); err != nil {
		return s.badRequest(ctx)
	}

	id, err := uuidFromAPI(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	expected, err := stateFromAPI(body.Expected)
	if err != nil {
		return s.fail(ctx, err)
	}
	request, err := requestFromAPI(body.Requested)
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewUpdateFulfillmentCommand(id, expected, request)
	if err != nil {
		return s.fail(ctx, err)
	}
	if err := s.handlers.UpdateFulfillment.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusOK, id)
}

// GetInvoice handles GET /api/v1/orders/{orderId}/invoice.
func (s *Server) GetInvoice(ctx echo.Context, orderId servers.OrderId) error {
	id, err := uuidFromAPI(orderId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetInvoiceQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	inv, err := s.handlers.GetInvoice.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, invoiceToAPI(inv))
}

// ListCustomerOrders handles GET /api/v1/customers/{customerId}/orders.
func (s *Server) ListCustomerOrders(ctx echo.Context, customerId openapi_types.UUID) error {
	id, err := uuidFromAPI(customerId)
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewListCustomerOrdersQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}

	summaries, err := s.handlers.ListCustomerOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, summariesToAPI(summaries))
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, id kernel.UUID) error {
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	resp, err := s.handlers.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(status, orderToAPI(resp.Order, resp.Drift))
}
