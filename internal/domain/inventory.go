package domain

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type InventoryDomain interface {
	GetAvailableNumbers(context.Context, *model.GetAvailableNumbersRequest) (*model.GetAvailableNumbersResponse, error)
	IsAvailable(context.Context, *model.IsAvailableRequest) (*model.IsAvailableResponse, error)
	ReserveNumbers(context.Context, *model.ReserveNumbersRequest) (*model.ReserveNumbersResponse, error)
	ReserveByQuantity(context.Context, *model.ReserveByQuantityRequest) (*model.ReserveByQuantityResponse, error)
	ReleaseNumbers(context.Context, *model.ReleaseNumbersRequest) (*model.ReleaseNumbersResponse, error)
}

type inventoryDomain struct {
	drawRepo    repository.DrawRepository
	unitRepo    repository.InventoryUnitRepository
	broadcaster Broadcaster
}

func NewInventoryDomain(
	drawRepo repository.DrawRepository,
	unitRepo repository.InventoryUnitRepository,
	broadcaster Broadcaster,
) *inventoryDomain {
	return &inventoryDomain{
		drawRepo:    drawRepo,
		unitRepo:    unitRepo,
		broadcaster: broadcaster,
	}
}

func (d *inventoryDomain) GetAvailableNumbers(
	ctx context.Context, req *model.GetAvailableNumbersRequest,
) (*model.GetAvailableNumbersResponse, error) {
	if _, err := d.getDraw(ctx, req.DrawID); err != nil {
		return nil, err
	}

	units, err := d.unitRepo.GetAvailableUnits(ctx, req.DrawID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get available units: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetAvailableNumbersResponse{Units: convertUnits(units)}, nil
}

func (d *inventoryDomain) IsAvailable(
	ctx context.Context, req *model.IsAvailableRequest,
) (*model.IsAvailableResponse, error) {
	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if err := validateRange(draw, []int{req.Number}, req.Series); err != nil {
		return nil, err
	}

	available, err := d.unitRepo.IsAvailable(ctx, req.DrawID, req.Number, req.Series)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check availability: %v", err)
		return nil, errorx.Unknown
	}

	return &model.IsAvailableResponse{Available: available}, nil
}

// ReserveNumbers claims explicitly chosen numbers of one series for a
// ticket. The claim is all or nothing. The conditional update is the only
// arbiter under concurrency, the earlier taken-numbers query exists to give
// callers a message naming the exact conflicting numbers.
func (d *inventoryDomain) ReserveNumbers(
	ctx context.Context, req *model.ReserveNumbersRequest,
) (*model.ReserveNumbersResponse, error) {
	if req.TicketID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a ticket id")
	}

	if len(req.Numbers) == 0 {
		return nil, errorx.New(errorx.BadRequest, "Require at least one number")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	numbers := dedupe(req.Numbers)
	if err := validateRange(draw, numbers, req.Series); err != nil {
		return nil, err
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	taken, err := d.unitRepo.TakenNumbers(ctx, draw.ID, req.Series, numbers)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot check taken numbers: %v", err)
		return nil, errorx.Unknown
	}

	if len(taken) > 0 {
		return nil, errorx.New(errorx.NumberConflict,
			"Numbers already taken in series %d: %v", req.Series, taken)
	}

	claim := repository.Claim{
		TicketID:  req.TicketID,
		OrderID:   req.OrderID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(xcontext.Configs(ctx).Lottery.ReservationTimeout),
	}

	affected, err := d.unitRepo.ReserveNumbers(ctx, draw.ID, req.Series, numbers, claim)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reserve numbers: %v", err)
		return nil, errorx.Unknown
	}

	if affected != int64(len(numbers)) {
		existing, err := d.unitRepo.GetUnitsByNumbers(ctx, draw.ID, req.Series, numbers)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot load units: %v", err)
			return nil, errorx.Unknown
		}

		// A shortfall without a matching row means the inventory of this
		// draw has not been generated yet.
		if missing := missingNumbers(numbers, existing); len(missing) > 0 {
			return nil, errorx.New(errorx.NotFound,
				"Not found numbers %v in series %d", missing, req.Series)
		}

		// Another request won at least one of these units after the
		// pre-check. Nothing was kept, the rollback undoes the rest.
		return nil, errorx.New(errorx.NumberConflict,
			"Some numbers were taken concurrently, no number was reserved")
	}

	units, err := d.unitRepo.GetUnitsByNumbers(ctx, draw.ID, req.Series, numbers)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load reserved units: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	info := convertUnits(units)
	d.broadcaster.Broadcast(draw.ID, &event.NumbersReservedEvent{DrawID: draw.ID, Units: info})

	return &model.ReserveNumbersResponse{Units: info}, nil
}

// ReserveByQuantity claims the requested amount of units of a single number,
// picking the lowest available series first.
func (d *inventoryDomain) ReserveByQuantity(
	ctx context.Context, req *model.ReserveByQuantityRequest,
) (*model.ReserveByQuantityResponse, error) {
	if req.TicketID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a ticket id")
	}

	if req.Quantity <= 0 {
		return nil, errorx.New(errorx.BadRequest, "Quantity must be a positive number")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	draw, err := d.getDraw(ctx, req.DrawID)
	if err != nil {
		return nil, err
	}

	if req.Number < draw.MinNumber || req.Number > draw.MaxNumber {
		return nil, errorx.New(errorx.OutOfRange,
			"Number %d is out of range [%d, %d]", req.Number, draw.MinNumber, draw.MaxNumber)
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	candidates, err := d.unitRepo.AvailableSeries(ctx, draw.ID, req.Number, req.Quantity)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load available series: %v", err)
		return nil, errorx.Unknown
	}

	if len(candidates) < req.Quantity {
		return nil, errorx.New(errorx.InsufficientUnits,
			"Only %d of %d requested units are available for number %d",
			len(candidates), req.Quantity, req.Number)
	}

	ids := make([]string, 0, len(candidates))
	for _, unit := range candidates {
		ids = append(ids, unit.ID)
	}

	claim := repository.Claim{
		TicketID:  req.TicketID,
		OrderID:   req.OrderID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(xcontext.Configs(ctx).Lottery.ReservationTimeout),
	}

	affected, err := d.unitRepo.ReserveUnits(ctx, ids, claim)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot reserve units: %v", err)
		return nil, errorx.Unknown
	}

	if affected != int64(len(ids)) {
		return nil, errorx.New(errorx.NumberConflict,
			"Some units were taken concurrently, no unit was reserved")
	}

	units, err := d.unitRepo.GetByIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load reserved units: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	info := convertUnits(units)
	d.broadcaster.Broadcast(draw.ID, &event.NumbersReservedEvent{DrawID: draw.ID, Units: info})

	return &model.ReserveByQuantityResponse{Units: info}, nil
}

// ReleaseNumbers returns every reserved unit of a ticket to the pool. Only
// the user who placed the claims can release them. Releasing a ticket with
// no reserved units is a successful no-op so callers can retry freely.
func (d *inventoryDomain) ReleaseNumbers(
	ctx context.Context, req *model.ReleaseNumbersRequest,
) (*model.ReleaseNumbersResponse, error) {
	if req.TicketID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a ticket id")
	}

	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Require an authenticated user")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	units, err := d.unitRepo.ReservedUnitsByTicket(ctx, req.TicketID, userID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load reserved units of ticket: %v", err)
		return nil, errorx.Unknown
	}

	if len(units) == 0 {
		return &model.ReleaseNumbersResponse{Released: false}, nil
	}

	ids := make([]string, 0, len(units))
	for _, unit := range units {
		ids = append(ids, unit.ID)
	}

	if _, err := d.unitRepo.ReleaseUnits(ctx, ids); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot release units: %v", err)
		return nil, errorx.Unknown
	}

	xcontext.WithCommitDBTransaction(ctx)

	for drawID, released := range groupByDraw(units) {
		d.broadcaster.Broadcast(drawID, &event.NumbersReleasedEvent{
			DrawID: drawID,
			Units:  convertUnitsAs(released, entity.UnitAvailable),
		})
	}

	return &model.ReleaseNumbersResponse{Released: true}, nil
}

func (d *inventoryDomain) getDraw(ctx context.Context, drawID string) (*entity.Draw, error) {
	if drawID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a draw id")
	}

	draw, err := d.drawRepo.GetByID(ctx, drawID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found draw")
		}

		xcontext.Logger(ctx).Errorf("Cannot get draw: %v", err)
		return nil, errorx.Unknown
	}

	return draw, nil
}

func validateRange(draw *entity.Draw, numbers []int, series int) error {
	var outOfRange []int
	for _, number := range numbers {
		if number < draw.MinNumber || number > draw.MaxNumber {
			outOfRange = append(outOfRange, number)
		}
	}

	if len(outOfRange) > 0 {
		return errorx.New(errorx.OutOfRange,
			"Numbers out of range [%d, %d]: %v", draw.MinNumber, draw.MaxNumber, outOfRange)
	}

	if series < 1 || series > draw.TotalSeries {
		return errorx.New(errorx.OutOfRange,
			"Series %d is out of range [1, %d]", series, draw.TotalSeries)
	}

	return nil
}

func dedupe(numbers []int) []int {
	seen := map[int]bool{}
	result := []int{}
	for _, number := range numbers {
		if !seen[number] {
			seen[number] = true
			result = append(result, number)
		}
	}

	return result
}

func missingNumbers(requested []int, units []entity.InventoryUnit) []int {
	found := map[int]bool{}
	for _, unit := range units {
		found[unit.Number] = true
	}

	var missing []int
	for _, number := range requested {
		if !found[number] {
			missing = append(missing, number)
		}
	}

	return missing
}

func groupByDraw(units []entity.InventoryUnit) map[string][]entity.InventoryUnit {
	result := map[string][]entity.InventoryUnit{}
	for _, unit := range units {
		result[unit.DrawID] = append(result[unit.DrawID], unit)
	}

	return result
}
