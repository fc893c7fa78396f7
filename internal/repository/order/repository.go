package order

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/hiretrack/internal/database"
	"github.com/Additional-Code/hiretrack/internal/entity"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/hiretrack/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// Repository encapsulates read/write access for orders.
type Repository struct {
	writer *bun.DB
	reader *bun.DB
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		writer: conns.Writer,
		reader: conns.Reader,
	}
}

// InitTable creates the orders table when it does not exist yet.
func (r *Repository) InitTable(ctx context.Context) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.InitTable")
	defer span.End()

	_, err := r.writer.NewCreateTable().
		Model((*entity.Order)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create table failed")
		return fmt.Errorf("create orders table: %w", err)
	}
	return nil
}

// Create inserts the order and returns the stored row, re-read by its
// generated id.
func (r *Repository) Create(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	if order == nil {
		return nil, errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(
		attribute.Int64("order.receipt_number", order.ReceiptNumber),
	))
	defer span.End()

	row := *order
	row.ID = 0
	if _, err := r.writer.NewInsert().Model(&row).Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return nil, err
	}
	if row.ID == 0 {
		err := errors.New("insert returned no id")
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	// read back through the writer so the row is visible even with a lagging replica
	stored := new(entity.Order)
	if err := r.writer.NewSelect().Model(stored).Where("id = ?", row.ID).Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reselect failed")
		return nil, fmt.Errorf("reselect order %d: %w", row.ID, err)
	}
	span.SetAttributes(attribute.Int64("order.id", stored.ID))
	return stored, nil
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order := new(entity.Order)
	err := r.reader.NewSelect().Model(order).Where("id = ?", id).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		span.SetStatus(codes.Error, "not found")
		return nil, ErrNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return order, nil
}

// List returns every order in insertion order.
func (r *Repository) List(ctx context.Context) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.List")
	defer span.End()

	orders := make([]entity.Order, 0)
	if err := r.reader.NewSelect().Model(&orders).OrderExpr("id ASC").Scan(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

// ListDueBefore returns orders whose return date is strictly before date,
// earliest first.
func (r *Repository) ListDueBefore(ctx context.Context, date entity.Date) ([]entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.ListDueBefore", trace.WithAttributes(
		attribute.String("order.due_before", date.String()),
	))
	defer span.End()

	// ParseDate caps years at four digits, so the text compares as a date
	orders := make([]entity.Order, 0)
	err := r.reader.NewSelect().
		Model(&orders).
		Where("return_on < ?", date).
		OrderExpr("return_on ASC, id ASC").
		Scan(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "select failed")
		return nil, err
	}
	return orders, nil
}

// Delete removes an order by id.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	res, err := r.writer.NewDelete().
		Model((*entity.Order)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "delete failed")
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		span.RecordError(err)
		return err
	}
	if affected == 0 {
		span.SetStatus(codes.Error, "not found")
		return ErrNotFound
	}
	return nil
}
