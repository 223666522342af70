package testutil

import (
	"context"
	"reflect"

	"github.com/google/uuid"

	"github.com/cryptojackpot/lottery/internal/domain/inventory"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

// SampleDraw creates a small draw in database. Non-zero fields of init
// overwrite the defaults. This function returns the sample draw.
func SampleDraw(ctx context.Context, init *entity.Draw) (entity.Draw, error) {
	sample := &entity.Draw{
		Base:        entity.Base{ID: uuid.NewString()},
		MinNumber:   1,
		MaxNumber:   10,
		TotalSeries: 2,
	}

	if init != nil {
		overwriteFields(sample, *init)
	}

	drawRepo := repository.NewDrawRepository()
	if err := drawRepo.Create(ctx, sample); err != nil {
		return *sample, err
	}

	return *sample, nil
}

// GenerateSampleInventory materializes the full unit grid of a draw.
func GenerateSampleInventory(ctx context.Context, draw entity.Draw) (int, error) {
	return inventory.InsertInBatches(
		ctx,
		repository.NewInventoryUnitRepository(),
		inventory.NewSequence(&draw),
		xcontext.Configs(ctx).Lottery.GenerationBatchSize,
	)
}

func overwriteFields[T any](origin *T, overwrite T) {
	originValue := reflect.ValueOf(origin).Elem()
	overwriteValue := reflect.ValueOf(overwrite)

	for i := 0; i < overwriteValue.NumField(); i++ {
		overwriteField := overwriteValue.Field(i)
		if overwriteField.Interface() != reflect.Zero(overwriteField.Type()).Interface() {
			originValue.Field(i).Set(overwriteField)
		}
	}
}
