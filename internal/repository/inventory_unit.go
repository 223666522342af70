package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type StatusCount struct {
	Status entity.UnitStatus
	Count  int64
}

// InventoryUnitRepository owns the only shared mutable table of this
// service. Every mutating method is a single conditional write so the
// store, not the application, adjudicates races.
type InventoryUnitRepository interface {
	CreateBatch(ctx context.Context, units []entity.InventoryUnit) error
	GetByIDs(ctx context.Context, ids []string) ([]entity.InventoryUnit, error)
	GetAvailableUnits(ctx context.Context, drawID string) ([]entity.InventoryUnit, error)
	GetUnitsByNumbers(ctx context.Context, drawID string, series int, numbers []int) ([]entity.InventoryUnit, error)
	CountForDraw(ctx context.Context, drawID string) (int64, error)
	CountByStatus(ctx context.Context, drawID string) ([]StatusCount, error)
	IsAvailable(ctx context.Context, drawID string, number, series int) (bool, error)
	TakenNumbers(ctx context.Context, drawID string, series int, numbers []int) ([]int, error)
	AvailableSeries(ctx context.Context, drawID string, number, limit int) ([]entity.InventoryUnit, error)
	ReserveNumbers(ctx context.Context, drawID string, series int, numbers []int, claim Claim) (int64, error)
	ReserveUnits(ctx context.Context, ids []string, claim Claim) (int64, error)
	ReservedUnitsByTicket(ctx context.Context, ticketID, userID string) ([]entity.InventoryUnit, error)
	ReleaseUnits(ctx context.Context, ids []string) (int64, error)
	MarkSold(ctx context.Context, ids []string, ticketID, orderID string) (int64, error)
}

// Claim carries the ownership fields stamped on a unit when it moves from
// available to reserved. UserID is the authenticated holder of the claim.
type Claim struct {
	TicketID  string
	OrderID   string
	UserID    string
	ExpiresAt time.Time
}

type inventoryUnitRepository struct{}

func NewInventoryUnitRepository() *inventoryUnitRepository {
	return &inventoryUnitRepository{}
}

func (r *inventoryUnitRepository) CreateBatch(ctx context.Context, units []entity.InventoryUnit) error {
	return xcontext.DB(ctx).Create(units).Error
}

func (r *inventoryUnitRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.InventoryUnit, error) {
	var result []entity.InventoryUnit
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) GetAvailableUnits(ctx context.Context, drawID string) ([]entity.InventoryUnit, error) {
	var result []entity.InventoryUnit
	err := xcontext.DB(ctx).
		Where("draw_id=? AND status=?", drawID, entity.UnitAvailable).
		Order("number ASC, series ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) GetUnitsByNumbers(
	ctx context.Context, drawID string, series int, numbers []int,
) ([]entity.InventoryUnit, error) {
	var result []entity.InventoryUnit
	err := xcontext.DB(ctx).
		Where("draw_id=? AND series=? AND number IN (?)", drawID, series, numbers).
		Order("number ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) CountForDraw(ctx context.Context, drawID string) (int64, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("draw_id=?", drawID).Count(&count).Error
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (r *inventoryUnitRepository) CountByStatus(ctx context.Context, drawID string) ([]StatusCount, error) {
	var result []StatusCount
	err := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Select("status, COUNT(*) AS count").
		Where("draw_id=?", drawID).
		Group("status").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) IsAvailable(
	ctx context.Context, drawID string, number, series int,
) (bool, error) {
	var count int64
	err := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("draw_id=? AND number=? AND series=? AND status=?",
			drawID, number, series, entity.UnitAvailable).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// TakenNumbers answers "which of these numbers are already claimed in this
// series" with a single batched query to avoid N+1 lookups on large
// reservations.
func (r *inventoryUnitRepository) TakenNumbers(
	ctx context.Context, drawID string, series int, numbers []int,
) ([]int, error) {
	var result []int
	err := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("draw_id=? AND series=? AND number IN (?) AND status<>?",
			drawID, series, numbers, entity.UnitAvailable).
		Order("number ASC").
		Pluck("number", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) AvailableSeries(
	ctx context.Context, drawID string, number, limit int,
) ([]entity.InventoryUnit, error) {
	var result []entity.InventoryUnit
	err := xcontext.DB(ctx).
		Where("draw_id=? AND number=? AND status=?", drawID, number, entity.UnitAvailable).
		Order("series ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *inventoryUnitRepository) ReserveNumbers(
	ctx context.Context, drawID string, series int, numbers []int, claim Claim,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("draw_id=? AND series=? AND number IN (?) AND status=?",
			drawID, series, numbers, entity.UnitAvailable).
		Updates(claimColumns(claim))
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *inventoryUnitRepository) ReserveUnits(ctx context.Context, ids []string, claim Claim) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("id IN (?) AND status=?", ids, entity.UnitAvailable).
		Updates(claimColumns(claim))
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

// ReservedUnitsByTicket lists the reserved units of a ticket, scoped to the
// user who placed the claim so one caller cannot touch another's holds.
func (r *inventoryUnitRepository) ReservedUnitsByTicket(
	ctx context.Context, ticketID, userID string,
) ([]entity.InventoryUnit, error) {
	var result []entity.InventoryUnit
	err := xcontext.DB(ctx).
		Where("ticket_id=? AND user_id=? AND status=?", ticketID, userID, entity.UnitReserved).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

// ReleaseUnits resets claims back to available. Historical auditing is kept
// by resetting status rather than deleting the rows.
func (r *inventoryUnitRepository) ReleaseUnits(ctx context.Context, ids []string) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("id IN (?) AND status=?", ids, entity.UnitReserved).
		Updates(map[string]any{
			"status":                 entity.UnitAvailable,
			"ticket_id":              sql.NullString{},
			"order_id":               sql.NullString{},
			"user_id":                sql.NullString{},
			"reservation_expires_at": sql.NullTime{},
		})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func (r *inventoryUnitRepository) MarkSold(
	ctx context.Context, ids []string, ticketID, orderID string,
) (int64, error) {
	tx := xcontext.DB(ctx).Model(&entity.InventoryUnit{}).
		Where("id IN (?) AND status=? AND ticket_id=?", ids, entity.UnitReserved, ticketID).
		Updates(map[string]any{
			"status":   entity.UnitSold,
			"order_id": sql.NullString{String: orderID, Valid: orderID != ""},
		})
	if tx.Error != nil {
		return 0, tx.Error
	}

	return tx.RowsAffected, nil
}

func claimColumns(claim Claim) map[string]any {
	return map[string]any{
		"status":                 entity.UnitReserved,
		"ticket_id":              sql.NullString{String: claim.TicketID, Valid: claim.TicketID != ""},
		"order_id":               sql.NullString{String: claim.OrderID, Valid: claim.OrderID != ""},
		"user_id":                sql.NullString{String: claim.UserID, Valid: claim.UserID != ""},
		"reservation_expires_at": sql.NullTime{Time: claim.ExpiresAt, Valid: !claim.ExpiresAt.IsZero()},
	}
}
