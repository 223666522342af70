package inventory

import (
	"context"

	"github.com/google/uuid"

	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/repository"
)

// Sequence walks the full (number, series) grid of a draw in a deterministic
// order, number major. It is pure, so generation can be restarted from
// scratch after a crash and produce the same units.
type Sequence struct {
	drawID      string
	minNumber   int
	maxNumber   int
	totalSeries int

	number int
	series int
}

func NewSequence(draw *entity.Draw) *Sequence {
	return &Sequence{
		drawID:      draw.ID,
		minNumber:   draw.MinNumber,
		maxNumber:   draw.MaxNumber,
		totalSeries: draw.TotalSeries,
		number:      draw.MinNumber,
		series:      1,
	}
}

// NextBatch returns up to n units and advances the cursor. It returns an
// empty slice once the grid is exhausted.
func (s *Sequence) NextBatch(n int) []entity.InventoryUnit {
	units := make([]entity.InventoryUnit, 0, n)
	for len(units) < n && s.number <= s.maxNumber {
		units = append(units, entity.InventoryUnit{
			Base:   entity.Base{ID: uuid.NewString()},
			DrawID: s.drawID,
			Number: s.number,
			Series: s.series,
			Status: entity.UnitAvailable,
		})

		s.series++
		if s.series > s.totalSeries {
			s.series = 1
			s.number++
		}
	}

	return units
}

// InsertInBatches persists the remaining units of the sequence in chunks.
// Cancellation is honored between batches only, a batch is never cut short.
// It returns the number of units inserted before stopping. Batches that hit
// the unique index are counted as already present, which makes rerunning
// generation for a draw harmless.
func InsertInBatches(
	ctx context.Context,
	unitRepo repository.InventoryUnitRepository,
	seq *Sequence,
	batchSize int,
) (int, error) {
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		batch := seq.NextBatch(batchSize)
		if len(batch) == 0 {
			return count, nil
		}

		if err := unitRepo.CreateBatch(ctx, batch); err != nil {
			if repository.IsDuplicateKeyError(err) {
				continue
			}

			return count, err
		}

		count += len(batch)
	}
}
