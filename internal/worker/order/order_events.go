package order

import (
	"context"
	"encoding/json"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/messaging"
	ordersvc "github.com/Additional-Code/hiretrack/internal/service/order"
	"github.com/Additional-Code/hiretrack/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/hiretrack/worker/order")

// Module registers one worker route per order event.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(NewCreatedRegistration, fx.ResultTags(`group:"worker.handlers"`)),
		fx.Annotate(NewDeletedRegistration, fx.ResultTags(`group:"worker.handlers"`)),
	),
)

// NewCreatedRegistration routes order.created to HandleCreated.
func NewCreatedRegistration(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Event:   ordersvc.EventOrderCreated,
		Handler: HandleCreated(logger),
	}
}

// NewDeletedRegistration routes order.deleted to HandleDeleted.
func NewDeletedRegistration(logger *zap.Logger, cfg config.Config) worker.HandlerRegistration {
	return worker.HandlerRegistration{
		Topic:   cfg.Messaging.Kafka.Topic,
		Event:   ordersvc.EventOrderDeleted,
		Handler: HandleDeleted(logger),
	}
}

// HandleCreated logs the raffle entry of a new order.
func HandleCreated(logger *zap.Logger) messaging.Handler {
	return decoded(logger, func(event ordersvc.OrderCreatedEvent) {
		logger.Info("raffle entry recorded",
			zap.Int64("id", event.ID),
			zap.String("customer_name", event.CustomerName),
			zap.Int64("receipt_number", event.ReceiptNumber),
			zap.Int("raffle_number", event.RaffleNumber),
			zap.Int("boxes_needed", event.BoxesNeeded),
			zap.Stringer("return_on", event.ReturnOn),
		)
	})
}

// HandleDeleted logs the withdrawal of a deleted order's raffle entry.
func HandleDeleted(logger *zap.Logger) messaging.Handler {
	return decoded(logger, func(event ordersvc.OrderDeletedEvent) {
		logger.Info("raffle entry withdrawn",
			zap.Int64("id", event.ID),
			zap.Int64("receipt_number", event.ReceiptNumber),
			zap.Int("raffle_number", event.RaffleNumber),
		)
	})
}

func decoded[E any](logger *zap.Logger, apply func(E)) messaging.Handler {
	return func(ctx context.Context, msg messaging.Message) error {
		_, span := workerTracer.Start(ctx, "worker.orders.process", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.String("messaging.event_type", msg.EventType()),
			attribute.Int64("messaging.offset", msg.Offset),
		))
		defer span.End()

		var event E
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			logger.Error("failed to decode order event",
				zap.String("event", msg.EventType()),
				zap.Int64("offset", msg.Offset),
				zap.Error(err),
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return fmt.Errorf("decode %s: %w", msg.EventType(), err)
		}
		apply(event)
		return nil
	}
}
