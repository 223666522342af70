package domain

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/cryptojackpot/lottery/internal/domain/inventory"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type GenerationDomain interface {
	HandleDrawCreated(ctx context.Context, ev *model.DrawCreatedEvent) error
}

type generationDomain struct {
	drawRepo repository.DrawRepository
	unitRepo repository.InventoryUnitRepository
}

func NewGenerationDomain(
	drawRepo repository.DrawRepository,
	unitRepo repository.InventoryUnitRepository,
) *generationDomain {
	return &generationDomain{
		drawRepo: drawRepo,
		unitRepo: unitRepo,
	}
}

// HandleDrawCreated materializes the full unit grid of a new draw. The event
// is delivered at least once, so a draw whose units already exist is skipped.
// A crash mid-generation leaves a partial grid, the next delivery restarts
// the deterministic sequence and the unique index swallows the overlap.
func (d *generationDomain) HandleDrawCreated(ctx context.Context, ev *model.DrawCreatedEvent) error {
	if ev.DrawID == "" {
		return errorx.New(errorx.BadRequest, "Require a draw id")
	}

	if ev.MinNumber > ev.MaxNumber || ev.TotalSeries < 1 {
		return errorx.New(errorx.BadRequest,
			"Invalid number space [%d, %d] x %d series", ev.MinNumber, ev.MaxNumber, ev.TotalSeries)
	}

	draw, err := d.drawRepo.GetByID(ctx, ev.DrawID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
			return errorx.Unknown
		}

		draw = &entity.Draw{
			Base:        entity.Base{ID: ev.DrawID},
			MinNumber:   ev.MinNumber,
			MaxNumber:   ev.MaxNumber,
			TotalSeries: ev.TotalSeries,
		}

		if err := d.drawRepo.Create(ctx, draw); err != nil {
			if !repository.IsDuplicateKeyError(err) {
				xcontext.Logger(ctx).Errorf("Cannot create draw: %v", err)
				return errorx.Unknown
			}
		}
	}

	existing, err := d.unitRepo.CountForDraw(ctx, draw.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count units of draw: %v", err)
		return errorx.Unknown
	}

	if existing >= int64(draw.TotalUnits()) {
		xcontext.Logger(ctx).Infof("Inventory of draw %s already generated, skipping", draw.ID)
		return nil
	}

	batchSize := xcontext.Configs(ctx).Lottery.GenerationBatchSize
	count, err := inventory.InsertInBatches(ctx, d.unitRepo, inventory.NewSequence(draw), batchSize)
	if err != nil {
		xcontext.Logger(ctx).Errorf(
			"Generation of draw %s stopped after %d units: %v", draw.ID, count, err)
		return errorx.Unknown
	}

	xcontext.Logger(ctx).Infof("Generated %d units for draw %s", count, draw.ID)
	return nil
}
