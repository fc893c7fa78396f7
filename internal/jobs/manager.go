// Package jobs runs scheduled maintenance over stored orders.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/config"
)

// Job is a scheduled unit of work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Registration binds a job to its cron schedule.
type Registration struct {
	Schedule string
	Job      Job
}

// Params collects dependencies via Fx.
type Params struct {
	fx.In

	Config        config.Config
	Logger        *zap.Logger
	Registrations []Registration `group:"jobs"`
}

// Manager owns the cron scheduler for all registered jobs.
type Manager struct {
	cron    *cron.Cron
	logger  *zap.Logger
	enabled bool
	regs    []Registration
	ctx     context.Context
	cancel  context.CancelFunc
}

// Module wires the job manager and the overdue returns job.
var Module = fx.Options(
	fx.Provide(
		NewManager,
		fx.Annotate(NewOverdueRegistration, fx.ResultTags(`group:"jobs"`)),
	),
	fx.Invoke(func(lc fx.Lifecycle, m *Manager) {
		lc.Append(fx.Hook{
			OnStart: func(context.Context) error { return m.Start() },
			OnStop:  m.Stop,
		})
	}),
)

// NewManager creates a manager; jobs are scheduled on Start.
func NewManager(p Params) *Manager {
	ctx, cancel := context.WithCancel(context.Background())
	return &Manager{
		cron:    cron.New(),
		logger:  p.Logger.With(zap.String("component", "jobs")),
		enabled: p.Config.Jobs.Enabled,
		regs:    p.Registrations,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start schedules every registered job and starts the scheduler.
func (m *Manager) Start() error {
	if !m.enabled {
		m.logger.Info("scheduled jobs disabled")
		return nil
	}
	for _, reg := range m.regs {
		job := reg.Job
		if _, err := m.cron.AddFunc(reg.Schedule, func() { m.RunNow(job) }); err != nil {
			return fmt.Errorf("schedule %s (%q): %w", job.Name(), reg.Schedule, err)
		}
		m.logger.Info("job scheduled", zap.String("job", job.Name()), zap.String("schedule", reg.Schedule))
	}
	m.cron.Start()
	return nil
}

// RunNow executes a job immediately and logs its outcome.
func (m *Manager) RunNow(job Job) {
	if err := job.Run(m.ctx); err != nil {
		m.logger.Error("job failed", zap.String("job", job.Name()), zap.Error(err))
	}
}

// Stop halts the scheduler and waits for running jobs or ctx expiry.
func (m *Manager) Stop(ctx context.Context) error {
	m.cancel()
	if !m.enabled {
		return nil
	}
	done := m.cron.Stop()
	select {
	case <-done.Done():
		m.logger.Info("scheduled jobs stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
