package domain

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/testutil"
)

func Test_generationDomain_HandleDrawCreated(t *testing.T) {
	ctx := testutil.MockContext()

	drawRepo := repository.NewDrawRepository()
	unitRepo := repository.NewInventoryUnitRepository()
	domain := NewGenerationDomain(drawRepo, unitRepo)

	ev := &model.DrawCreatedEvent{
		DrawID:      "draw1",
		MinNumber:   1,
		MaxNumber:   10,
		TotalSeries: 2,
	}

	require.NoError(t, domain.HandleDrawCreated(ctx, ev))

	draw, err := drawRepo.GetByID(ctx, "draw1")
	require.NoError(t, err)
	require.Equal(t, 20, draw.TotalUnits())

	count, err := unitRepo.CountForDraw(ctx, "draw1")
	require.NoError(t, err)
	require.EqualValues(t, 20, count)

	// Redelivery of the event must not add a single unit.
	require.NoError(t, domain.HandleDrawCreated(ctx, ev))
	count, err = unitRepo.CountForDraw(ctx, "draw1")
	require.NoError(t, err)
	require.EqualValues(t, 20, count)
}

func Test_generationDomain_HandleDrawCreated_invalidSpace(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewGenerationDomain(
		repository.NewDrawRepository(), repository.NewInventoryUnitRepository())

	err := domain.HandleDrawCreated(ctx, &model.DrawCreatedEvent{
		DrawID:      "draw1",
		MinNumber:   10,
		MaxNumber:   1,
		TotalSeries: 2,
	})
	requireErrorCode(t, err, errorx.BadRequest)

	err = domain.HandleDrawCreated(ctx, &model.DrawCreatedEvent{
		DrawID:      "draw1",
		MinNumber:   1,
		MaxNumber:   10,
		TotalSeries: 0,
	})
	requireErrorCode(t, err, errorx.BadRequest)
}
