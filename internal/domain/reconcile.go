package domain

import (
	"context"

	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
	"github.com/cryptojackpot/lottery/internal/entity"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type ReconcileDomain interface {
	ConfirmSale(ctx context.Context, ev *model.OrderCompletedEvent) error
}

type reconcileDomain struct {
	unitRepo    repository.InventoryUnitRepository
	broadcaster Broadcaster
}

func NewReconcileDomain(
	unitRepo repository.InventoryUnitRepository,
	broadcaster Broadcaster,
) *reconcileDomain {
	return &reconcileDomain{
		unitRepo:    unitRepo,
		broadcaster: broadcaster,
	}
}

// ConfirmSale settles a completed order against the inventory. Order events
// arrive at least once and possibly late, after the reservation already
// expired and was released, so every outcome here must be safe to replay.
func (d *reconcileDomain) ConfirmSale(ctx context.Context, ev *model.OrderCompletedEvent) error {
	if ev.TicketID == "" || len(ev.UnitIDs) == 0 {
		return errorx.New(errorx.BadRequest, "Require a ticket id and at least one unit id")
	}

	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	units, err := d.unitRepo.GetByIDs(ctx, ev.UnitIDs)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot load units of order: %v", err)
		return errorx.Unknown
	}

	if len(units) == 0 {
		xcontext.Logger(ctx).Warnf("Order %s references no known units, ignoring", ev.OrderID)
		return nil
	}

	var available, soldToOther []string
	var reserved []entity.InventoryUnit
	soldToTicket := 0
	for _, unit := range units {
		switch unit.Status {
		case entity.UnitAvailable:
			available = append(available, unit.ID)
		case entity.UnitSold:
			if unit.TicketID.String == ev.TicketID {
				soldToTicket++
			} else {
				soldToOther = append(soldToOther, unit.ID)
			}
		case entity.UnitReserved:
			reserved = append(reserved, unit)
		}
	}

	// A replayed event for an order that already settled.
	if soldToTicket == len(units) {
		xcontext.Logger(ctx).Infof("Order %s already settled, ignoring", ev.OrderID)
		return nil
	}

	// The reservation expired and was released before payment settled. The
	// units may already belong to someone else, so the order must be
	// refunded instead of forced through.
	if len(available) > 0 {
		return errorx.New(errorx.LateConfirmation,
			"Reservation of order %s lapsed before payment settled, units %v are back in the pool",
			ev.OrderID, available)
	}

	if len(soldToOther) > 0 {
		return errorx.New(errorx.IntegrityViolation,
			"Units %v of order %s were sold to another ticket", soldToOther, ev.OrderID)
	}

	ids := make([]string, 0, len(reserved))
	for _, unit := range reserved {
		ids = append(ids, unit.ID)
	}

	affected, err := d.unitRepo.MarkSold(ctx, ids, ev.TicketID, ev.OrderID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot mark units sold: %v", err)
		return errorx.Unknown
	}

	// The guard matches on ticket ownership, a shortfall means some unit is
	// held by a different ticket.
	if affected != int64(len(ids)) {
		return errorx.New(errorx.IntegrityViolation,
			"Units of order %s are reserved by another ticket", ev.OrderID)
	}

	xcontext.WithCommitDBTransaction(ctx)

	for drawID, sold := range groupByDraw(reserved) {
		d.broadcaster.Broadcast(drawID, &event.NumbersSoldEvent{
			DrawID: drawID,
			Units:  convertUnitsAs(sold, entity.UnitSold),
		})
	}

	return nil
}
