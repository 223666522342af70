package repository_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/testutil"
)

func TestInventoryUnitRepository_guardedClaims(t *testing.T) {
	ctx := testutil.MockContext()
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	unitRepo := repository.NewInventoryUnitRepository()
	claim := repository.Claim{
		TicketID: "ticket1", UserID: "user1", ExpiresAt: time.Now().Add(time.Minute),
	}

	affected, err := unitRepo.ReserveNumbers(ctx, draw.ID, 1, []int{1, 2, 3}, claim)
	require.NoError(t, err)
	require.EqualValues(t, 3, affected)

	// A second claim on an overlapping set only wins the free number. The
	// caller sees the shortfall and rolls back.
	affected, err = unitRepo.ReserveNumbers(ctx, draw.ID, 1, []int{3, 4},
		repository.Claim{TicketID: "ticket2", UserID: "user2", ExpiresAt: time.Now().Add(time.Minute)})
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	taken, err := unitRepo.TakenNumbers(ctx, draw.ID, 1, []int{2, 3, 4, 5})
	require.NoError(t, err)
	require.Equal(t, []int{2, 3, 4}, taken)
}

func TestInventoryUnitRepository_markSoldRequiresOwnership(t *testing.T) {
	ctx := testutil.MockContext()
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	unitRepo := repository.NewInventoryUnitRepository()
	claim := repository.Claim{
		TicketID: "ticket1", UserID: "user1", ExpiresAt: time.Now().Add(time.Minute),
	}

	_, err = unitRepo.ReserveNumbers(ctx, draw.ID, 1, []int{7}, claim)
	require.NoError(t, err)

	units, err := unitRepo.ReservedUnitsByTicket(ctx, "ticket1", "user1")
	require.NoError(t, err)
	require.Len(t, units, 1)

	// The holds of a ticket are invisible to a different user.
	foreign, err := unitRepo.ReservedUnitsByTicket(ctx, "ticket1", "user2")
	require.NoError(t, err)
	require.Empty(t, foreign)

	// The wrong ticket cannot settle the unit.
	affected, err := unitRepo.MarkSold(ctx, []string{units[0].ID}, "ticket2", "order1")
	require.NoError(t, err)
	require.Zero(t, affected)

	affected, err = unitRepo.MarkSold(ctx, []string{units[0].ID}, "ticket1", "order1")
	require.NoError(t, err)
	require.EqualValues(t, 1, affected)

	// Settled units cannot be released back to the pool.
	affected, err = unitRepo.ReleaseUnits(ctx, []string{units[0].ID})
	require.NoError(t, err)
	require.Zero(t, affected)

	got, err := unitRepo.GetByIDs(ctx, []string{units[0].ID})
	require.NoError(t, err)
	require.Equal(t, entity.UnitSold, got[0].Status)
}
