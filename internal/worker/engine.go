// Package worker consumes order events from the message bus and routes each
// one to the handler registered for its topic and event type.
package worker

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/messaging"
)

const maxRetryInterval = 30 * time.Second

// Route identifies a handler. An empty Event matches every event on Topic
// that has no more specific route.
type Route struct {
	Topic string
	Event string
}

// HandlerRegistration is provided to the "worker.handlers" group.
type HandlerRegistration struct {
	Topic   string
	Event   string
	Handler messaging.Handler
}

// Params collects dependencies via Fx.
type Params struct {
	fx.In

	Client        messaging.Client
	Logger        *zap.Logger
	Config        config.Config
	Registrations []HandlerRegistration `group:"worker.handlers"`
}

// Stats counts dispatched messages since the engine was built.
type Stats struct {
	Handled  uint64
	Failed   uint64
	Unrouted uint64
}

// Engine runs the consumers for order events.
type Engine struct {
	client  messaging.Client
	logger  *zap.Logger
	enabled bool
	workers config.Worker
	routes  map[Route]messaging.Handler

	handled  atomic.Uint64
	failed   atomic.Uint64
	unrouted atomic.Uint64

	mu     sync.Mutex
	cancel context.CancelFunc
	group  *errgroup.Group
}

// NewEngine builds the routing table. Registrations without a topic or
// handler are ignored; a later registration for the same route wins.
func NewEngine(p Params) *Engine {
	routes := make(map[Route]messaging.Handler, len(p.Registrations))
	for _, r := range p.Registrations {
		if r.Topic == "" || r.Handler == nil {
			continue
		}
		routes[Route{Topic: r.Topic, Event: r.Event}] = r.Handler
	}

	return &Engine{
		client:  p.Client,
		logger:  p.Logger.With(zap.String("component", "worker")),
		enabled: p.Config.Messaging.Enabled && p.Config.Messaging.Workers.Enabled,
		workers: p.Config.Messaging.Workers,
		routes:  routes,
	}
}

// Module provides the Engine and ties it to the Fx lifecycle.
var Module = fx.Options(
	fx.Provide(NewEngine),
	fx.Invoke(func(lc fx.Lifecycle, engine *Engine) {
		lc.Append(fx.Hook{OnStart: engine.start, OnStop: engine.stop})
	}),
)

// Routes lists the registered routes ordered by topic then event.
func (e *Engine) Routes() []Route {
	out := make([]Route, 0, len(e.routes))
	for r := range e.routes {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Topic != out[j].Topic {
			return out[i].Topic < out[j].Topic
		}
		return out[i].Event < out[j].Event
	})
	return out
}

// Topics lists the distinct topics that have at least one route.
func (e *Engine) Topics() []string {
	var topics []string
	for _, r := range e.Routes() {
		if n := len(topics); n == 0 || topics[n-1] != r.Topic {
			topics = append(topics, r.Topic)
		}
	}
	return topics
}

// Stats returns a snapshot of the dispatch counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Handled:  e.handled.Load(),
		Failed:   e.failed.Load(),
		Unrouted: e.unrouted.Load(),
	}
}

func (e *Engine) lookup(msg messaging.Message) (messaging.Handler, Route, bool) {
	route := Route{Topic: msg.Topic, Event: msg.EventType()}
	if route.Topic == "" {
		route.Topic = e.client.Topic()
	}
	if h, ok := e.routes[route]; ok {
		return h, route, true
	}
	h, ok := e.routes[Route{Topic: route.Topic}]
	return h, route, ok
}

// Dispatch hands one message to its handler. Unrouted messages are
// acknowledged and dropped so they do not block the partition.
func (e *Engine) Dispatch(ctx context.Context, workerID int, msg messaging.Message) error {
	handler, route, ok := e.lookup(msg)
	if !ok {
		e.unrouted.Add(1)
		e.logger.Warn("no handler for order event",
			zap.String("topic", route.Topic),
			zap.String("event", route.Event),
			zap.Int64("offset", msg.Offset),
		)
		return nil
	}

	e.logger.Debug("dispatching order event",
		zap.String("topic", route.Topic),
		zap.String("event", route.Event),
		zap.Int("worker", workerID),
	)
	if err := handler(ctx, msg); err != nil {
		e.failed.Add(1)
		return err
	}
	e.handled.Add(1)
	return nil
}

func (e *Engine) start(context.Context) error {
	switch {
	case !e.enabled:
		e.logger.Info("worker engine disabled")
		return nil
	case len(e.routes) == 0:
		e.logger.Info("worker engine has no handlers; skipping")
		return nil
	}

	concurrency := max(e.workers.Concurrency, 1)
	runCtx, cancel := context.WithCancel(context.Background())
	group, groupCtx := errgroup.WithContext(runCtx)
	for id := range concurrency {
		group.Go(func() error {
			e.consume(groupCtx, id)
			return nil
		})
	}

	e.mu.Lock()
	e.cancel, e.group = cancel, group
	e.mu.Unlock()

	e.logger.Info("worker engine started",
		zap.Int("workers", concurrency),
		zap.Strings("topics", e.Topics()),
	)
	return nil
}

func (e *Engine) stop(ctx context.Context) error {
	e.mu.Lock()
	cancel, group := e.cancel, e.group
	e.cancel, e.group = nil, nil
	e.mu.Unlock()
	if cancel == nil {
		return nil
	}
	cancel()

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		stats := e.Stats()
		e.logger.Info("worker engine stopped",
			zap.Uint64("handled", stats.Handled),
			zap.Uint64("failed", stats.Failed),
			zap.Uint64("unrouted", stats.Unrouted),
		)
		return err
	}
}

// consume reads until ctx ends. Consumer errors are retried with
// exponential backoff, which resets once a message gets through.
func (e *Engine) consume(ctx context.Context, workerID int) {
	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = e.workers.PollInterval
	if retry.InitialInterval <= 0 {
		retry.InitialInterval = time.Second
	}
	retry.MaxInterval = maxRetryInterval

	for ctx.Err() == nil {
		err := e.client.Consume(ctx, func(msgCtx context.Context, msg messaging.Message) error {
			retry.Reset()
			return e.Dispatch(msgCtx, workerID, msg)
		})
		if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return
		}

		wait := retry.NextBackOff()
		e.logger.Error("consume failed", zap.Int("worker", workerID), zap.Error(err), zap.Duration("retry_in", wait))
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}
