package observability

import (
	"context"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/Additional-Code/hiretrack/orders"

// OrderMetrics holds the instruments recorded by the order service and jobs.
type OrderMetrics struct {
	created metric.Int64Counter
	deleted metric.Int64Counter
	boxes   metric.Int64Counter
	overdue atomic.Int64
}

// NewOrderMetrics registers order instruments on the global meter provider.
// The Manager installs the real provider on start; until then otel delegates.
func NewOrderMetrics() (*OrderMetrics, error) {
	return NewOrderMetricsWith(otel.Meter(meterName))
}

// NopOrderMetrics records nothing.
func NopOrderMetrics() *OrderMetrics {
	m, _ := NewOrderMetricsWith(noop.NewMeterProvider().Meter(meterName))
	return m
}

// NewOrderMetricsWith builds the instruments on the given meter.
func NewOrderMetricsWith(meter metric.Meter) (*OrderMetrics, error) {
	m := &OrderMetrics{}
	var err error

	if m.created, err = meter.Int64Counter("hiretrack.orders.created",
		metric.WithDescription("Orders recorded"),
	); err != nil {
		return nil, err
	}
	if m.deleted, err = meter.Int64Counter("hiretrack.orders.deleted",
		metric.WithDescription("Orders removed"),
	); err != nil {
		return nil, err
	}
	if m.boxes, err = meter.Int64Counter("hiretrack.orders.boxes",
		metric.WithDescription("Storage boxes allocated to new orders"),
		metric.WithUnit("{box}"),
	); err != nil {
		return nil, err
	}
	if _, err = meter.Int64ObservableGauge("hiretrack.orders.overdue",
		metric.WithDescription("Orders past their return date at the last check"),
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(m.overdue.Load())
			return nil
		}),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// OrderCreated records a new order and its boxes.
func (m *OrderMetrics) OrderCreated(ctx context.Context, boxes int) {
	if m == nil {
		return
	}
	m.created.Add(ctx, 1)
	m.boxes.Add(ctx, int64(boxes))
}

// OrderDeleted records a removal.
func (m *OrderMetrics) OrderDeleted(ctx context.Context) {
	if m == nil {
		return
	}
	m.deleted.Add(ctx, 1)
}

// SetOverdue stores the latest overdue count for the gauge.
func (m *OrderMetrics) SetOverdue(n int) {
	if m == nil {
		return
	}
	m.overdue.Store(int64(n))
}

// Overdue returns the last stored overdue count.
func (m *OrderMetrics) Overdue() int64 {
	if m == nil {
		return 0
	}
	return m.overdue.Load()
}
