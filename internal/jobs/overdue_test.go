package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/entity"
	"github.com/Additional-Code/hiretrack/internal/observability"
)

type stubLister struct {
	orders []entity.Order
	err    error
	asOf   entity.Date
}

func (s *stubLister) Overdue(_ context.Context, asOf entity.Date) ([]entity.Order, error) {
	s.asOf = asOf
	return s.orders, s.err
}

type countingJob struct {
	runs int
	err  error
}

func (c *countingJob) Name() string { return "counting" }
func (c *countingJob) Run(context.Context) error {
	c.runs++
	return c.err
}

func TestOverdueReturnsJob(t *testing.T) {
	today := entity.MustParseDate("2024-03-15")

	t.Run("should log overdue orders and set the gauge", func(t *testing.T) {
		core, logs := observer.New(zap.InfoLevel)
		lister := &stubLister{orders: []entity.Order{
			{ID: 1, CustomerName: "Ada Lovelace", ReturnOn: entity.MustParseDate("2024-03-01")},
			{ID: 3, CustomerName: "Alan Turing", ReturnOn: entity.MustParseDate("2024-03-14")},
		}}
		metrics := observability.NopOrderMetrics()
		job := NewOverdueReturnsJob(lister, metrics, zap.New(core), func() entity.Date { return today })

		require.NoError(t, job.Run(context.Background()))

		assert.True(t, today.Equal(lister.asOf))
		assert.Equal(t, int64(2), metrics.Overdue())
		assert.Equal(t, 2, logs.FilterMessage("order overdue").Len())
		assert.Equal(t, 1, logs.FilterMessage("overdue check finished").Len())
	})

	t.Run("should keep the gauge when the lookup fails", func(t *testing.T) {
		metrics := observability.NopOrderMetrics()
		metrics.SetOverdue(4)
		job := NewOverdueReturnsJob(&stubLister{err: errors.New("locked")}, metrics, zap.NewNop(), nil)

		assert.Error(t, job.Run(context.Background()))
		assert.Equal(t, int64(4), metrics.Overdue())
		assert.Equal(t, "overdue_returns", job.Name())
	})
}

func newManager(enabled bool, regs ...Registration) *Manager {
	return NewManager(Params{
		Config:        config.Config{Jobs: config.Jobs{Enabled: enabled}},
		Logger:        zap.NewNop(),
		Registrations: regs,
	})
}

func TestManager(t *testing.T) {
	ctx := context.Background()

	t.Run("should schedule and stop registered jobs", func(t *testing.T) {
		m := newManager(true, Registration{Schedule: "@every 1h", Job: &countingJob{}})
		require.NoError(t, m.Start())
		assert.Len(t, m.cron.Entries(), 1)
		assert.NoError(t, m.Stop(ctx))
	})

	t.Run("should reject an invalid schedule", func(t *testing.T) {
		m := newManager(true, Registration{Schedule: "every tuesday", Job: &countingJob{}})
		assert.ErrorContains(t, m.Start(), "counting")
	})

	t.Run("should skip scheduling when disabled", func(t *testing.T) {
		m := newManager(false, Registration{Schedule: "not checked", Job: &countingJob{}})
		require.NoError(t, m.Start())
		assert.Empty(t, m.cron.Entries())
		assert.NoError(t, m.Stop(ctx))
	})

	t.Run("should run a job on demand and swallow its error", func(t *testing.T) {
		m := newManager(true)
		job := &countingJob{err: errors.New("boom")}
		m.RunNow(job)
		m.RunNow(job)
		assert.Equal(t, 2, job.runs)
	})
}
