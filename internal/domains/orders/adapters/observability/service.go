package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/inkwell-letters/fulfillment/internal/domains/orders/domain"
	"github.com/inkwell-letters/fulfillment/internal/domains/orders/ports"
)

const tracerName = "github.com/inkwell-letters/fulfillment/internal/domains/orders/adapters/observability/service"

// Service decorates the workflow engine with tracing, logging, and metrics.
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

// New wraps the core workflow engine.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
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

func (s *Service) CreateOrder(ctx context.Context, input ports.CreateOrderInput) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.String("order.customer_id", input.CustomerID), attribute.Int64("order.price_cents", input.PriceCents)))
	defer span.End()
	order, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("customer.id", input.CustomerID))
	}
	s.logInfo(ctx, "order created", slog.String("order.id", order.ID), slog.String("state", string(order.State)))
	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID", trace.WithAttributes(attribute.String("order.id", id)))
	defer span.End()
	order, err := s.inner.GetByID(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id))
	}
	return order, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.List")
	defer span.End()
	orders, err := s.inner.List(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("orders.count", len(orders)))
	return orders, nil
}

func (s *Service) ListOpenTasks(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOpenTasks")
	defer span.End()
	orders, err := s.inner.ListOpenTasks(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list open tasks")
	}
	span.SetAttributes(attribute.Int("tasks.count", len(orders)))
	return orders, nil
}

func (s *Service) ConfirmPayment(ctx context.Context, orderID, gatewayOrderID, gatewayPaymentID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.ConfirmPayment", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.ConfirmPayment(ctx, orderID, gatewayOrderID, gatewayPaymentID)
	})
}

func (s *Service) AssignWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.AssignWriter", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.AssignWriter(ctx, orderID, writerID)
	})
}

func (s *Service) ClaimWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.ClaimWriter", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.ClaimWriter(ctx, orderID, writerID)
	})
}

func (s *Service) ReleaseWriter(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.ReleaseWriter", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.ReleaseWriter(ctx, orderID, writerID)
	})
}

func (s *Service) StartWriting(ctx context.Context, orderID, writerID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.StartWriting", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.StartWriting(ctx, orderID, writerID)
	})
}

func (s *Service) UploadDraft(ctx context.Context, orderID, submissionURL string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.UploadDraft", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.UploadDraft(ctx, orderID, submissionURL)
	})
}

func (s *Service) ApproveQC(ctx context.Context, orderID, qcID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.ApproveQC", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.ApproveQC(ctx, orderID, qcID)
	})
}

func (s *Service) RejectQC(ctx context.Context, orderID, qcID, feedback string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.RejectQC", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.RejectQC(ctx, orderID, qcID, feedback)
	})
}

func (s *Service) MarkPacked(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.MarkPacked", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.MarkPacked(ctx, orderID)
	})
}

func (s *Service) MarkShipped(ctx context.Context, orderID, trackingID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.MarkShipped", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.MarkShipped(ctx, orderID, trackingID)
	})
}

func (s *Service) MarkDelivered(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.MarkDelivered", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.MarkDelivered(ctx, orderID)
	})
}

func (s *Service) Cancel(ctx context.Context, orderID, reason string) (*domain.Order, error) {
	return s.transition(ctx, "OrderService.Cancel", orderID, func(ctx context.Context) (*domain.Order, error) {
		return s.inner.Cancel(ctx, orderID, reason)
	})
}

func (s *Service) transition(ctx context.Context, spanName, orderID string, fn func(context.Context) (*domain.Order, error)) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(attribute.String("order.id", orderID)))
	defer span.End()
	order, err := fn(ctx)
	if err != nil {
		s.metrics.recordRejected(ctx, spanName)
		return nil, s.handleError(ctx, span, err, "workflow transition rejected", slog.String("order.id", orderID), slog.String("op", spanName))
	}
	span.SetAttributes(attribute.String("order.state", string(order.State)))
	s.metrics.recordTransition(ctx, order.State)
	s.logInfo(ctx, "workflow transition applied",
		slog.String("order.id", order.ID),
		slog.String("op", spanName),
		slog.String("state", string(order.State)))
	return order, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	transitions metric.Int64Counter
	rejections  metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	transitions, _ := m.Int64Counter("orders.workflow.transitions", metric.WithDescription("Applied workflow transitions by resulting state"))
	rejections, _ := m.Int64Counter("orders.workflow.rejections", metric.WithDescription("Rejected workflow transitions by operation"))
	return serviceMetrics{transitions: transitions, rejections: rejections}
}

func (m serviceMetrics) recordTransition(ctx context.Context, state domain.State) {
	if m.transitions == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("state", string(state))))
}

func (m serviceMetrics) recordRejected(ctx context.Context, op string) {
	if m.rejections == nil {
		return
	}
	m.rejections.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}
