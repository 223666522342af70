package domain

import (
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
)

func convertUnit(unit *entity.InventoryUnit) model.UnitStatusInfo {
	return model.UnitStatusInfo{
		UnitID: unit.ID,
		Number: unit.Number,
		Series: unit.Series,
		Status: string(unit.Status),
	}
}

func convertUnits(units []entity.InventoryUnit) []model.UnitStatusInfo {
	result := []model.UnitStatusInfo{}
	for i := range units {
		result = append(result, convertUnit(&units[i]))
	}

	return result
}

// convertUnitsAs is used after a bulk status transition, when the in-memory
// entities still carry the status read before the update.
func convertUnitsAs(units []entity.InventoryUnit, status entity.UnitStatus) []model.UnitStatusInfo {
	result := []model.UnitStatusInfo{}
	for i := range units {
		info := convertUnit(&units[i])
		info.Status = string(status)
		result = append(result, info)
	}

	return result
}
