package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-trade-server/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/go-gin-trade-server/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Identify(ctx context.Context, token string) (int64, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Identify")
	defer span.End()

	userID, err := s.inner.Identify(ctx, token)
	if err != nil {
		return 0, s.handleError(ctx, span, err, "failed to identify caller")
	}
	span.SetAttributes(attribute.Int64("user.id", userID))
	return userID, nil
}

func (s *Service) CreateOrder(ctx context.Context, token string, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(
			attribute.Int64("user.id", input.UserID),
			attribute.String("order.invoice", string(input.Invoice)),
			attribute.String("order.item_type", string(input.ItemType)),
		))
	defer span.End()

	s.logInfo(ctx, "registering order", slog.Int64("user.id", input.UserID), slog.String("order.invoice", string(input.Invoice)))
	result, err := s.inner.CreateOrder(ctx, token, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to register order", slog.Int64("user.id", input.UserID))
	}
	span.SetAttributes(attribute.String("order.id", result.ID()))
	s.metrics.recordCreated(ctx, result.Invoice())
	s.logInfo(ctx, "order registered", slog.String("order.id", result.ID()), slog.String("order.quantity", result.Quantity().StringFixed(domain.QuantityScale)))
	return result, nil
}

func (s *Service) UpdateOrderStatus(ctx context.Context, token string, input ports.UpdateStatusInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus",
		trace.WithAttributes(
			attribute.String("order.id", input.OrderID),
			attribute.String("order.status.requested", string(input.NewStatus)),
		))
	defer span.End()

	s.logInfo(ctx, "updating order status", slog.String("order.id", input.OrderID), slog.String("status", string(input.NewStatus)))
	result, err := s.inner.UpdateOrderStatus(ctx, token, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order status", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordTransition(ctx, result.Invoice(), result.Status())
	s.logInfo(ctx, "order status updated", slog.String("order.id", result.ID()), slog.String("status", string(result.Status())))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, token string, date time.Time, invoice domain.Invoice) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder",
		trace.WithAttributes(
			attribute.String("order.date", date.Format(domain.DateLayout)),
			attribute.String("order.invoice", string(invoice)),
		))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, token, date, invoice)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.date", date.Format(domain.DateLayout)))
	}
	span.SetAttributes(attribute.String("order.id", result.ID()))
	return result, nil
}

func (s *Service) DeleteOrder(ctx context.Context, token string, input ports.DeleteOrderInput) error {
	ctx, span := s.tracer.Start(ctx, "OrderService.DeleteOrder", trace.WithAttributes(attribute.String("order.id", input.OrderID)))
	defer span.End()

	s.logInfo(ctx, "deleting order", slog.String("order.id", input.OrderID))
	if err := s.inner.DeleteOrder(ctx, token, input); err != nil {
		return s.handleError(ctx, span, err, "failed to delete order", slog.String("order.id", input.OrderID))
	}
	s.metrics.recordDeleted(ctx)
	s.logInfo(ctx, "order deleted", slog.String("order.id", input.OrderID))
	return nil
}

func (s *Service) ListOrders(ctx context.Context, offset, limit int) (domain.Page, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders",
		trace.WithAttributes(attribute.Int("page.offset", offset), attribute.Int("page.limit", limit)))
	defer span.End()

	page, err := s.inner.ListOrders(ctx, offset, limit)
	if err != nil {
		return domain.Page{}, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int64("page.total_items", page.TotalItems), attribute.Int("page.total_pages", page.TotalPages))
	return page, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	kind := domain.KindOf(err)
	if kind == domain.KindUserNotAuthenticated || kind == domain.KindInvalidAccessToken {
		s.metrics.recordAuthFailure(ctx)
	}
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Int("error.code", domain.NewError(kind).Code))
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated     metric.Int64Counter
	statusTransitions metric.Int64Counter
	ordersDeleted     metric.Int64Counter
	authFailures      metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders registered"))
	transitions, _ := m.Int64Counter("orders.service.status_transitions", metric.WithDescription("Number of accepted status changes"))
	deleted, _ := m.Int64Counter("orders.service.deleted", metric.WithDescription("Number of orders deleted"))
	authFailures, _ := m.Int64Counter("orders.service.auth_failures", metric.WithDescription("Number of rejected callers"))
	return serviceMetrics{
		ordersCreated:     created,
		statusTransitions: transitions,
		ordersDeleted:     deleted,
		authFailures:      authFailures,
	}
}

func (m serviceMetrics) recordCreated(ctx context.Context, invoice domain.Invoice) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("order.invoice", string(invoice))))
	}
}

func (m serviceMetrics) recordTransition(ctx context.Context, invoice domain.Invoice, status domain.Status) {
	if m.statusTransitions != nil {
		m.statusTransitions.Add(ctx, 1, metric.WithAttributes(
			attribute.String("order.invoice", string(invoice)),
			attribute.String("order.status", string(status)),
		))
	}
}

func (m serviceMetrics) recordDeleted(ctx context.Context) {
	if m.ordersDeleted != nil {
		m.ordersDeleted.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordAuthFailure(ctx context.Context) {
	if m.authFailures != nil {
		m.authFailures.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
