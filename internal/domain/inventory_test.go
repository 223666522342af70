package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/testutil"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

func requireErrorCode(t *testing.T, err error, code errorx.Code) {
	t.Helper()

	var xerr errorx.Error
	require.True(t, errors.As(err, &xerr), "expected an errorx error, got %v", err)
	require.Equal(t, code, xerr.Code)
}

func Test_inventoryDomain_ReserveNumbers(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	broadcaster := &testutil.MockBroadcaster{}
	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		broadcaster,
	)

	resp, err := domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{3, 7, 7},
	})
	require.NoError(t, err)
	require.Len(t, resp.Units, 2)
	require.Equal(t, 3, resp.Units[0].Number)
	require.Equal(t, 7, resp.Units[1].Number)
	for _, unit := range resp.Units {
		require.Equal(t, string(entity.UnitReserved), unit.Status)
		require.Equal(t, 1, unit.Series)
	}

	events := broadcaster.Events()
	require.Len(t, events, 1)
	reserved, ok := events[0].Event.(*event.NumbersReservedEvent)
	require.True(t, ok)
	require.Equal(t, draw.ID, events[0].DrawID)
	require.Len(t, reserved.Units, 2)

	// The same number in another series is still free.
	avail, err := domain.IsAvailable(ctx, &model.IsAvailableRequest{
		DrawID: draw.ID, Number: 3, Series: 2,
	})
	require.NoError(t, err)
	require.True(t, avail.Available)

	// Another ticket cannot take any of the claimed numbers.
	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket2",
		Series:   1,
		Numbers:  []int{7, 8},
	})
	requireErrorCode(t, err, errorx.NumberConflict)

	// All or nothing, number 8 must still be free after the failure.
	avail, err = domain.IsAvailable(ctx, &model.IsAvailableRequest{
		DrawID: draw.ID, Number: 8, Series: 1,
	})
	require.NoError(t, err)
	require.True(t, avail.Available)
}

func Test_inventoryDomain_ReserveNumbers_outOfRange(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockBroadcaster{},
	)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{5, 11},
	})
	requireErrorCode(t, err, errorx.OutOfRange)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   3,
		Numbers:  []int{5},
	})
	requireErrorCode(t, err, errorx.OutOfRange)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   "no-such-draw",
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{5},
	})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_inventoryDomain_ReserveByQuantity(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, &entity.Draw{TotalSeries: 3})
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockBroadcaster{},
	)

	resp, err := domain.ReserveByQuantity(ctx, &model.ReserveByQuantityRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Number:   5,
		Quantity: 2,
	})
	require.NoError(t, err)
	require.Len(t, resp.Units, 2)

	// Lowest series first.
	require.Equal(t, 1, resp.Units[0].Series)
	require.Equal(t, 2, resp.Units[1].Series)

	// Only one series of number 5 is left.
	_, err = domain.ReserveByQuantity(ctx, &model.ReserveByQuantityRequest{
		DrawID:   draw.ID,
		TicketID: "ticket2",
		Number:   5,
		Quantity: 2,
	})
	requireErrorCode(t, err, errorx.InsufficientUnits)

	// The failed request must not have claimed the remaining series.
	avail, err := domain.IsAvailable(ctx, &model.IsAvailableRequest{
		DrawID: draw.ID, Number: 5, Series: 3,
	})
	require.NoError(t, err)
	require.True(t, avail.Available)
}

func Test_inventoryDomain_ReleaseNumbers(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	broadcaster := &testutil.MockBroadcaster{}
	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		broadcaster,
	)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   2,
		Numbers:  []int{1, 2},
	})
	require.NoError(t, err)

	resp, err := domain.ReleaseNumbers(ctx, &model.ReleaseNumbersRequest{TicketID: "ticket1"})
	require.NoError(t, err)
	require.True(t, resp.Released)

	avail, err := domain.IsAvailable(ctx, &model.IsAvailableRequest{
		DrawID: draw.ID, Number: 1, Series: 2,
	})
	require.NoError(t, err)
	require.True(t, avail.Available)

	events := broadcaster.Events()
	require.Len(t, events, 2)
	released, ok := events[1].Event.(*event.NumbersReleasedEvent)
	require.True(t, ok)
	require.Len(t, released.Units, 2)
	for _, unit := range released.Units {
		require.Equal(t, string(entity.UnitAvailable), unit.Status)
	}

	// Releasing again is a harmless no-op.
	resp, err = domain.ReleaseNumbers(ctx, &model.ReleaseNumbersRequest{TicketID: "ticket1"})
	require.NoError(t, err)
	require.False(t, resp.Released)
}

func Test_inventoryDomain_ReleaseNumbers_anotherUser(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockBroadcaster{},
	)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{6},
	})
	require.NoError(t, err)

	// Somebody else guessing the ticket id cannot free the claim.
	otherCtx := xcontext.WithRequestUserID(ctx, "user2")
	resp, err := domain.ReleaseNumbers(otherCtx, &model.ReleaseNumbersRequest{TicketID: "ticket1"})
	require.NoError(t, err)
	require.False(t, resp.Released)

	avail, err := domain.IsAvailable(ctx, &model.IsAvailableRequest{
		DrawID: draw.ID, Number: 6, Series: 1,
	})
	require.NoError(t, err)
	require.False(t, avail.Available)
}

func Test_inventoryDomain_ReserveNumbers_notGenerated(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockBroadcaster{},
	)

	// The draw exists but its inventory was never generated. The caller gets
	// a not-found for the missing units, not a conflict.
	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{5},
	})
	requireErrorCode(t, err, errorx.NotFound)
}

func Test_inventoryDomain_GetAvailableNumbers(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, &entity.Draw{MaxNumber: 3, TotalSeries: 2})
	require.NoError(t, err)

	count, err := testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)
	require.Equal(t, 6, count)

	domain := NewInventoryDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockBroadcaster{},
	)

	_, err = domain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{2},
	})
	require.NoError(t, err)

	resp, err := domain.GetAvailableNumbers(ctx, &model.GetAvailableNumbersRequest{DrawID: draw.ID})
	require.NoError(t, err)
	require.Len(t, resp.Units, 5)
	for _, unit := range resp.Units {
		require.Equal(t, string(entity.UnitAvailable), unit.Status)
		require.False(t, unit.Number == 2 && unit.Series == 1)
	}
}
