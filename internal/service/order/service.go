package order

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/cache"
	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
	"github.com/Additional-Code/hiretrack/internal/messaging"
	"github.com/Additional-Code/hiretrack/internal/observability"
	repo "github.com/Additional-Code/hiretrack/internal/repository/order"
	"github.com/Additional-Code/hiretrack/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/hiretrack/service/order")

// RaffleDrawer returns a raffle number in [0, entity.RaffleMax].
type RaffleDrawer func() int

// DrawRaffle draws uniformly from [0, entity.RaffleMax].
func DrawRaffle() int {
	return rand.IntN(entity.RaffleMax + 1)
}

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) (*entity.Order, error)
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context) ([]entity.Order, error)
	ListDueBefore(ctx context.Context, date entity.Date) ([]entity.Order, error)
	Delete(ctx context.Context, id int64) error
}

// Service encapsulates business logic around orders.
type Service struct {
	repo      Repository
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	metrics   *observability.OrderMetrics
	draw      RaffleDrawer
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	Metrics    *observability.OrderMetrics
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return New(p.Repository, p.Cache, p.Publisher, p.Logger,
		WithCacheTTL(p.Config.Cache.DefaultTTL),
		WithMetrics(p.Metrics),
	)
}

// Option customises a Service.
type Option func(*Service)

// WithCacheTTL sets how long fetched orders stay cached.
func WithCacheTTL(ttl time.Duration) Option {
	return func(s *Service) { s.cacheTTL = ttl }
}

// WithMetrics records created and deleted orders on m.
func WithMetrics(m *observability.OrderMetrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithRaffleDrawer replaces the random raffle source.
func WithRaffleDrawer(d RaffleDrawer) Option {
	return func(s *Service) {
		if d != nil {
			s.draw = d
		}
	}
}

// WithClock replaces time.Now for event timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a Service from explicit dependencies. Nil cache and publisher
// fall back to no-op implementations.
func New(r Repository, store cache.Store, publisher messaging.Client, logger *zap.Logger, opts ...Option) *Service {
	if store == nil {
		store = cache.Noop()
	}
	if publisher == nil {
		publisher = messaging.Noop("")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		repo:      r,
		cache:     store,
		logger:    logger,
		publisher: publisher,
		draw:      DrawRaffle,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit validates a filled-in form and creates the order it describes.
// Every field error becomes visible, and all of them are returned together
// as an unprocessable error with per-field details.
func (s *Service) Submit(ctx context.Context, f *form.OrderForm) (*entity.Order, error) {
	if f == nil {
		return nil, errorbank.BadRequest("order form is required")
	}
	f.RevealAll()
	in, errs := f.Build()
	if len(errs) > 0 {
		return nil, errorbank.Unprocessable("order form is invalid",
			errorbank.WithDetails(errs.Details()),
			errorbank.WithCause(errs),
		)
	}
	return s.Create(ctx, in.Order())
}

// Create derives boxes and a raffle number, stores the order and returns the
// row as re-read from the database.
func (s *Service) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if order == nil {
		return nil, errorbank.BadRequest("order payload is required")
	}
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(
		attribute.Int64("order.receipt_number", order.ReceiptNumber),
		attribute.Int("order.how_many", order.HowMany),
	))
	defer span.End()

	row := *order
	row.BoxesNeeded = entity.BoxesNeeded(row.HowMany)
	row.RaffleNumber = s.draw()

	stored, err := s.repo.Create(ctx, &row)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}

	s.logger.Info("order created",
		zap.Int64("id", stored.ID),
		zap.Int64("receipt_number", stored.ReceiptNumber),
		zap.Int("boxes_needed", stored.BoxesNeeded),
		zap.Int("raffle_number", stored.RaffleNumber),
	)

	if err := s.storeInCache(ctx, stored); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", stored.ID), zap.Error(err))
	}
	s.metrics.OrderCreated(ctx, stored.BoxesNeeded)
	s.publish(ctx, EventOrderCreated, stored.ID, newCreatedEvent(stored, s.now().UTC()))

	return stored, nil
}

// Get retrieves an order by id, consulting cache when available.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	if order, err := s.getFromCache(ctx, id); err == nil {
		return order, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, errorbank.NotFound("order not found", errorbank.WithDetail("id", id))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.storeInCache(ctx, order); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", id), zap.Error(err))
	}

	return order, nil
}

// List returns every stored order.
func (s *Service) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List")
	defer span.End()

	orders, err := s.repo.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Overdue returns orders whose return date is before asOf.
func (s *Service) Overdue(ctx context.Context, asOf entity.Date) ([]entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Overdue", trace.WithAttributes(
		attribute.String("order.as_of", asOf.String()),
	))
	defer span.End()

	orders, err := s.repo.ListDueBefore(ctx, asOf)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to list overdue orders", errorbank.WithCause(err))
	}
	return orders, nil
}

// Delete removes an order by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found", errorbank.WithDetail("id", id))
		}
		span.RecordError(err)
		return errorbank.Internal("failed to load order", errorbank.WithCause(err))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return errorbank.NotFound("order not found", errorbank.WithDetail("id", id))
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return errorbank.Internal("failed to delete order", errorbank.WithCause(err))
	}

	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache evict failed", zap.Int64("id", id), zap.Error(err))
	}

	s.logger.Info("order deleted", zap.Int64("id", id))
	s.metrics.OrderDeleted(ctx)
	s.publish(ctx, EventOrderDeleted, id, OrderDeletedEvent{
		ID:            existing.ID,
		ReceiptNumber: existing.ReceiptNumber,
		RaffleNumber:  existing.RaffleNumber,
		OccurredAt:    s.now().UTC(),
	})
	return nil
}

func (s *Service) publish(ctx context.Context, eventType string, id int64, event any) {
	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Error("marshal order event", zap.String("event", eventType), zap.Error(err))
		return
	}
	msg := messaging.Message{
		Key:     []byte(fmt.Sprintf("order-%d", id)),
		Value:   payload,
		Headers: map[string]string{messaging.HeaderEventType: eventType},
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.logger.Error("publish order event", zap.String("event", eventType), zap.Int64("id", id), zap.Error(err))
	}
}

func (s *Service) cacheKey(id int64) string {
	return fmt.Sprintf("orders:%d", id)
}

func (s *Service) getFromCache(ctx context.Context, id int64) (*entity.Order, error) {
	bytes, err := s.cache.Get(ctx, s.cacheKey(id))
	if err != nil {
		return nil, err
	}
	var order entity.Order
	if err := json.Unmarshal(bytes, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return nil
	}
	bytes, err := json.Marshal(order)
	if err != nil {
		return err
	}
	return s.cache.Set(ctx, s.cacheKey(order.ID), bytes, s.cacheTTL)
}
