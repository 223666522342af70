package domain

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/testutil"
)

func Test_statisticDomain_GetStats(t *testing.T) {
	ctx := testutil.MockContextWithUserID("user1")
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	unitRepo := repository.NewInventoryUnitRepository()
	inventoryDomain := NewInventoryDomain(
		repository.NewDrawRepository(), unitRepo, &testutil.MockBroadcaster{})
	reconcileDomain := NewReconcileDomain(unitRepo, &testutil.MockBroadcaster{})

	var cached string
	statisticDomain := NewStatisticDomain(
		repository.NewDrawRepository(),
		unitRepo,
		&testutil.MockRedisClient{
			SetFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
				cached = value
				return nil
			},
		},
	)

	reserved, err := inventoryDomain.ReserveNumbers(ctx, &model.ReserveNumbersRequest{
		DrawID:   draw.ID,
		TicketID: "ticket1",
		Series:   1,
		Numbers:  []int{1, 2, 3, 4, 5},
	})
	require.NoError(t, err)

	unitIDs := []string{}
	for _, unit := range reserved.Units {
		unitIDs = append(unitIDs, unit.UnitID)
	}

	require.NoError(t, reconcileDomain.ConfirmSale(ctx, &model.OrderCompletedEvent{
		OrderID:  "order1",
		TicketID: "ticket1",
		UnitIDs:  unitIDs,
	}))

	resp, err := statisticDomain.GetStats(ctx, &model.GetStatsRequest{DrawID: draw.ID})
	require.NoError(t, err)
	require.Equal(t, 20, resp.TotalUnits)
	require.Equal(t, 5, resp.SoldCount)
	require.Equal(t, 15, resp.AvailableCount)
	require.InDelta(t, 25.0, resp.PercentageSold, 0.001)

	// The projection was written to the cache.
	var fromCache model.GetStatsResponse
	require.NoError(t, json.Unmarshal([]byte(cached), &fromCache))
	require.Equal(t, *resp, fromCache)
}

func Test_statisticDomain_GetStats_cacheHit(t *testing.T) {
	ctx := testutil.MockContext()

	want := model.GetStatsResponse{
		DrawID:         "draw1",
		TotalUnits:     100,
		SoldCount:      40,
		AvailableCount: 55,
		PercentageSold: 40,
	}
	b, err := json.Marshal(want)
	require.NoError(t, err)

	// A cache hit never touches the database, the draw does not even exist.
	statisticDomain := NewStatisticDomain(
		repository.NewDrawRepository(),
		repository.NewInventoryUnitRepository(),
		&testutil.MockRedisClient{
			GetFunc: func(ctx context.Context, key string) (string, error) {
				return string(b), nil
			},
		},
	)

	resp, err := statisticDomain.GetStats(ctx, &model.GetStatsRequest{DrawID: "draw1"})
	require.NoError(t, err)
	require.Equal(t, want, *resp)
}

func Test_statisticDomain_GetStats_withoutCache(t *testing.T) {
	ctx := testutil.MockContext()
	draw, err := testutil.SampleDraw(ctx, nil)
	require.NoError(t, err)

	_, err = testutil.GenerateSampleInventory(ctx, draw)
	require.NoError(t, err)

	statisticDomain := NewStatisticDomain(
		repository.NewDrawRepository(), repository.NewInventoryUnitRepository(), nil)

	resp, err := statisticDomain.GetStats(ctx, &model.GetStatsRequest{DrawID: draw.ID})
	require.NoError(t, err)
	require.Equal(t, 20, resp.TotalUnits)
	require.Equal(t, 0, resp.SoldCount)
	require.Equal(t, 20, resp.AvailableCount)
	require.Zero(t, resp.PercentageSold)
}
