package order

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/hiretrack/internal/config"
	"github.com/Additional-Code/hiretrack/internal/database"
	"github.com/Additional-Code/hiretrack/internal/entity"
)

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	conns, err := database.Open(config.Database{
		Driver:       "sqlite",
		WriterDSN:    ":memory:",
		MaxOpenConns: 1,
		MaxIdleConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conns.Close() })

	repo := NewRepository(conns)
	require.NoError(t, repo.InitTable(context.Background()))
	return repo
}

func sampleOrder(name, returnOn string) *entity.Order {
	return &entity.Order{
		CustomerName:  name,
		ReceiptNumber: 1001,
		ItemHired:     "Folding chair",
		HowMany:       26,
		HiredOn:       entity.MustParseDate("2024-03-01"),
		ReturnOn:      entity.MustParseDate(returnOn),
		BoxesNeeded:   2,
		RaffleNumber:  417,
	}
}

func TestRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("should create the table idempotently", func(t *testing.T) {
		repo := newTestRepository(t)
		assert.NoError(t, repo.InitTable(ctx))
	})

	t.Run("should insert and return the stored row", func(t *testing.T) {
		repo := newTestRepository(t)

		in := sampleOrder("Ada Lovelace", "2024-03-09")
		in.ID = 99
		stored, err := repo.Create(ctx, in)
		require.NoError(t, err)

		assert.Equal(t, int64(1), stored.ID)
		assert.Equal(t, int64(99), in.ID)
		assert.Equal(t, "Ada Lovelace", stored.CustomerName)
		assert.Equal(t, int64(1001), stored.ReceiptNumber)
		assert.Equal(t, "Folding chair", stored.ItemHired)
		assert.Equal(t, 26, stored.HowMany)
		assert.Equal(t, "2024-03-01", stored.HiredOn.String())
		assert.Equal(t, "2024-03-09", stored.ReturnOn.String())
		assert.Equal(t, 2, stored.BoxesNeeded)
		assert.Equal(t, 417, stored.RaffleNumber)
	})

	t.Run("should reject a nil order", func(t *testing.T) {
		repo := newTestRepository(t)
		_, err := repo.Create(ctx, nil)
		assert.Error(t, err)
	})

	t.Run("should list in insertion order", func(t *testing.T) {
		repo := newTestRepository(t)

		orders, err := repo.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)

		for _, name := range []string{"First", "Second", "Third"} {
			_, err := repo.Create(ctx, sampleOrder(name, "2024-03-09"))
			require.NoError(t, err)
		}

		orders, err = repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 3)
		assert.Equal(t, "First", orders[0].CustomerName)
		assert.Equal(t, "Third", orders[2].CustomerName)
		assert.Less(t, orders[0].ID, orders[1].ID)
	})

	t.Run("should fetch by id", func(t *testing.T) {
		repo := newTestRepository(t)
		created, err := repo.Create(ctx, sampleOrder("Grace Hopper", "2024-03-09"))
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, *created, *got)

		_, err = repo.GetByID(ctx, created.ID+1)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("should delete by id", func(t *testing.T) {
		repo := newTestRepository(t)
		keep, err := repo.Create(ctx, sampleOrder("Keep Me", "2024-03-09"))
		require.NoError(t, err)
		drop, err := repo.Create(ctx, sampleOrder("Drop Me", "2024-03-09"))
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, drop.ID))
		assert.ErrorIs(t, repo.Delete(ctx, drop.ID), ErrNotFound)

		orders, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		assert.Equal(t, keep.ID, orders[0].ID)
	})

	t.Run("should list orders due before a date", func(t *testing.T) {
		repo := newTestRepository(t)
		for _, o := range []*entity.Order{
			sampleOrder("Late Later", "2024-03-05"),
			sampleOrder("Late Early", "2024-03-01"),
			sampleOrder("On Time", "2024-03-10"),
			sampleOrder("Future", "2024-04-01"),
		} {
			_, err := repo.Create(ctx, o)
			require.NoError(t, err)
		}

		due, err := repo.ListDueBefore(ctx, entity.MustParseDate("2024-03-10"))
		require.NoError(t, err)
		require.Len(t, due, 2)
		assert.Equal(t, "Late Early", due[0].CustomerName)
		assert.Equal(t, "Late Later", due[1].CustomerName)
	})

	t.Run("should agree with IsOverdue across the supported year range", func(t *testing.T) {
		repo := newTestRepository(t)
		_, err := entity.ParseDate("10000-01-01")
		require.ErrorIs(t, err, entity.ErrInvalidDate)

		asOf := entity.MustParseDate("2025-01-01")
		for _, o := range []*entity.Order{
			sampleOrder("Far Future", "9999-12-31"),
			sampleOrder("Year One", "1-1-1"),
			sampleOrder("Year Zero", "0-01-01"),
			sampleOrder("Next Year", "2026-1-1"),
		} {
			_, err := repo.Create(ctx, o)
			require.NoError(t, err)
		}

		due, err := repo.ListDueBefore(ctx, asOf)
		require.NoError(t, err)
		names := make([]string, 0, len(due))
		for _, o := range due {
			assert.True(t, o.IsOverdue(asOf), "%s returns on %s", o.CustomerName, o.ReturnOn)
			names = append(names, o.CustomerName)
		}
		assert.Equal(t, []string{"Year Zero", "Year One"}, names)
	})
}
