package seeder

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/hiretrack/internal/entity"
	form "github.com/Additional-Code/hiretrack/internal/form/order"
)

type submitterFunc func(ctx context.Context, f *form.OrderForm) (*entity.Order, error)

func (fn submitterFunc) Submit(ctx context.Context, f *form.OrderForm) (*entity.Order, error) {
	return fn(ctx, f)
}

func TestSeedData(t *testing.T) {
	for i, sample := range Orders {
		f := form.New()
		for field, value := range sample {
			f.Set(field, value)
		}
		_, errs := f.Build()
		assert.Nil(t, errs, "sample %d", i)
	}
}

func TestSeederOrders(t *testing.T) {
	ctx := context.Background()

	t.Run("should submit every sample", func(t *testing.T) {
		var next int64
		s := NewWith(submitterFunc(func(_ context.Context, f *form.OrderForm) (*entity.Order, error) {
			in, errs := f.Build()
			if errs != nil {
				return nil, errs
			}
			next++
			order := in.Order()
			order.ID = next
			return order, nil
		}), zap.NewNop())

		orders, err := s.Orders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, len(Orders))
		assert.Equal(t, "Aroha Ngata", orders[0].CustomerName)
		assert.Equal(t, int64(3), orders[2].ID)
	})

	t.Run("should stop at the first failure", func(t *testing.T) {
		calls := 0
		s := NewWith(submitterFunc(func(context.Context, *form.OrderForm) (*entity.Order, error) {
			calls++
			if calls == 2 {
				return nil, errors.New("database is locked")
			}
			return &entity.Order{ID: int64(calls)}, nil
		}), nil)

		orders, err := s.Orders(ctx)
		assert.Error(t, err)
		assert.Len(t, orders, 1)
		assert.Equal(t, 2, calls)
	})
}
