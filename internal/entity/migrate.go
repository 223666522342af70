package entity

import (
	"context"

	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

func MigrateTable(ctx context.Context) error {
	return xcontext.DB(ctx).AutoMigrate(
		&Draw{},
		&InventoryUnit{},
	)
}
