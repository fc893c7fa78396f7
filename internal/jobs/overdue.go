package jobs

import (
	"context"

	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/entity"
	"github.com/Additional-Code/hiretrack/internal/observability"
	ordersvc "github.com/Additional-Code/hiretrack/internal/service/order"
)

// OverdueLister is the part of the order service the job needs.
type OverdueLister interface {
	Overdue(ctx context.Context, asOf entity.Date) ([]entity.Order, error)
}

// OverdueReturnsJob counts orders past their return date.
type OverdueReturnsJob struct {
	orders  OverdueLister
	metrics *observability.OrderMetrics
	logger  *zap.Logger
	today   func() entity.Date
}

// NewOverdueReturnsJob builds the job. A nil today uses entity.Today.
func NewOverdueReturnsJob(orders OverdueLister, metrics *observability.OrderMetrics, logger *zap.Logger, today func() entity.Date) *OverdueReturnsJob {
	if today == nil {
		today = entity.Today
	}
	return &OverdueReturnsJob{orders: orders, metrics: metrics, logger: logger, today: today}
}

// NewOverdueRegistration schedules the job on JOBS_OVERDUE_SCHEDULE.
func NewOverdueRegistration(cfg config.Config, svc *ordersvc.Service, metrics *observability.OrderMetrics, logger *zap.Logger) Registration {
	return Registration{
		Schedule: cfg.Jobs.OverdueSchedule,
		Job:      NewOverdueReturnsJob(svc, metrics, logger, nil),
	}
}

func (j *OverdueReturnsJob) Name() string { return "overdue_returns" }

// Run logs every overdue order and updates the overdue gauge.
func (j *OverdueReturnsJob) Run(ctx context.Context) error {
	asOf := j.today()
	orders, err := j.orders.Overdue(ctx, asOf)
	if err != nil {
		return err
	}
	for _, o := range orders {
		j.logger.Info("order overdue",
			zap.Int64("id", o.ID),
			zap.String("customer_name", o.CustomerName),
			zap.Int64("receipt_number", o.ReceiptNumber),
			zap.Stringer("return_on", o.ReturnOn),
		)
	}
	j.metrics.SetOverdue(len(orders))
	j.logger.Info("overdue check finished", zap.Stringer("as_of", asOf), zap.Int("overdue", len(orders)))
	return nil
}
