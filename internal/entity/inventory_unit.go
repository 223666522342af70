package entity

import (
	"database/sql"
)

type UnitStatus string

const (
	UnitAvailable UnitStatus = "available"
	UnitReserved  UnitStatus = "reserved"
	UnitSold      UnitStatus = "sold"
)

// InventoryUnit is one purchasable (number, series) slot within a draw.
// The unique index over (draw_id, number, series) is the only
// synchronization primitive guarding concurrent claims; application code
// never read-modify-writes a unit, every mutation is a guarded update.
type InventoryUnit struct {
	Base

	DrawID string `gorm:"uniqueIndex:idx_inventory_units_draw_number_series;index:idx_inventory_units_draw_status"`
	Draw   Draw   `gorm:"foreignKey:DrawID"`

	Number int        `gorm:"uniqueIndex:idx_inventory_units_draw_number_series"`
	Series int        `gorm:"uniqueIndex:idx_inventory_units_draw_number_series"`
	Status UnitStatus `gorm:"index:idx_inventory_units_draw_status"`

	TicketID             sql.NullString `gorm:"index"`
	OrderID              sql.NullString `gorm:"index"`
	UserID               sql.NullString `gorm:"index"`
	ReservationExpiresAt sql.NullTime
}
