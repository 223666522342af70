package inventory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/domain/inventory"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/testutil"
)

func TestSequence(t *testing.T) {
	draw := &entity.Draw{
		Base:        entity.Base{ID: "draw1"},
		MinNumber:   1,
		MaxNumber:   3,
		TotalSeries: 2,
	}

	seq := inventory.NewSequence(draw)

	first := seq.NextBatch(4)
	require.Len(t, first, 4)
	second := seq.NextBatch(4)
	require.Len(t, second, 2)
	require.Empty(t, seq.NextBatch(4))

	all := append(first, second...)
	seen := map[[2]int]bool{}
	for _, unit := range all {
		require.Equal(t, "draw1", unit.DrawID)
		require.Equal(t, entity.UnitAvailable, unit.Status)
		require.NotEmpty(t, unit.ID)
		seen[[2]int{unit.Number, unit.Series}] = true
	}

	// Every pair of the grid exactly once.
	require.Len(t, seen, 6)
	for number := 1; number <= 3; number++ {
		for series := 1; series <= 2; series++ {
			require.True(t, seen[[2]int{number, series}])
		}
	}

	// A fresh sequence walks the grid in the same order.
	restarted := inventory.NewSequence(draw)
	again := restarted.NextBatch(6)
	for i := range all {
		require.Equal(t, all[i].Number, again[i].Number)
		require.Equal(t, all[i].Series, again[i].Series)
	}
}

func TestInsertInBatches(t *testing.T) {
	ctx := testutil.MockContext()
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	unitRepo := repository.NewInventoryUnitRepository()

	count, err := inventory.InsertInBatches(ctx, unitRepo, inventory.NewSequence(&draw), 7)
	require.NoError(t, err)
	require.Equal(t, 20, count)

	stored, err := unitRepo.CountForDraw(ctx, draw.ID)
	require.NoError(t, err)
	require.EqualValues(t, 20, stored)
}

func TestInsertInBatches_cancelled(t *testing.T) {
	ctx := testutil.MockContext()
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	count, err := inventory.InsertInBatches(
		cancelled, repository.NewInventoryUnitRepository(), inventory.NewSequence(&draw), 7)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, count)
}
