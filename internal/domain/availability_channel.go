package domain

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/cryptojackpot/lottery/internal/domain/availability"
	"github.com/cryptojackpot/lottery/internal/domain/availability/event"
	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/internal/repository"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/ws"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

// Snapshots of big draws easily reach megabytes of json, send those
// compressed.
const compressSnapshotThreshold = 10000

type AvailabilityDomain interface {
	ServeClient(ctx context.Context, req *model.ServeAvailabilityClientRequest) error
}

type availabilityDomain struct {
	drawRepo        repository.DrawRepository
	unitRepo        repository.InventoryUnitRepository
	inventoryDomain InventoryDomain
	center          *availability.Center
}

func NewAvailabilityDomain(
	drawRepo repository.DrawRepository,
	unitRepo repository.InventoryUnitRepository,
	inventoryDomain InventoryDomain,
	center *availability.Center,
) *availabilityDomain {
	return &availabilityDomain{
		drawRepo:        drawRepo,
		unitRepo:        unitRepo,
		inventoryDomain: inventoryDomain,
		center:          center,
	}
}

// ServeClient pins a websocket client to the hub of one draw. The client
// first gets a full availability snapshot, then live deltas until either
// side closes the connection.
func (d *availabilityDomain) ServeClient(
	ctx context.Context, req *model.ServeAvailabilityClientRequest,
) error {
	draw, err := d.drawRepo.GetByID(ctx, req.DrawID)
	if err != nil {
		return errorx.New(errorx.BadRequest, "Draw is not valid")
	}

	client := xcontext.WsClient(ctx)
	if client == nil {
		xcontext.Logger(ctx).Errorf("No websocket client in context")
		return errorx.Unknown
	}

	session := availability.NewSession()
	for !session.JoinHub(d.center.GetHub(draw.ID)) {
		// The hub was reaped between lookup and join, take the fresh one.
	}
	defer func() {
		session.LeaveHub()
		d.center.Reap(draw.ID)
	}()

	if err := d.sendSnapshot(ctx, client, draw.ID); err != nil {
		return err
	}

	for {
		select {
		case msg, ok := <-client.R:
			if !ok {
				return nil
			}

			d.handleClientMessage(ctx, client, draw.ID, msg)

		case ev, ok := <-session.C:
			if !ok {
				return nil
			}

			b, err := json.Marshal(ev)
			if err != nil {
				xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
				continue
			}

			if err := client.Write(b, false); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot write to ws: %v", err)
				return nil
			}
		}
	}
}

func (d *availabilityDomain) sendSnapshot(ctx context.Context, client *ws.Client, drawID string) error {
	units, err := d.unitRepo.GetAvailableUnits(ctx, drawID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get available units: %v", err)
		return errorx.Unknown
	}

	b, err := json.Marshal(event.New(&event.AvailableNumbersEvent{
		DrawID: drawID,
		Units:  convertUnits(units),
	}))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal snapshot: %v", err)
		return errorx.Unknown
	}

	if err := client.Write(b, len(units) >= compressSnapshotThreshold); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot write snapshot to ws: %v", err)
		return errorx.Unknown
	}

	return nil
}

func (d *availabilityDomain) handleClientMessage(
	ctx context.Context, client *ws.Client, drawID string, msg []byte,
) {
	var envelope struct {
		Op   string          `json:"o"`
		Data json.RawMessage `json:"d"`
	}

	if err := json.Unmarshal(msg, &envelope); err != nil {
		d.sendToClient(ctx, client, &event.ErrorEvent{Message: "Malformed request"})
		return
	}

	switch envelope.Op {
	case (&event.ReserveNumberEvent{}).Op():
		var reserve event.ReserveNumberEvent
		if err := json.Unmarshal(envelope.Data, &reserve); err != nil {
			d.sendToClient(ctx, client, &event.ErrorEvent{Message: "Malformed reserve request"})
			return
		}

		resp, err := d.inventoryDomain.ReserveByQuantity(ctx, &model.ReserveByQuantityRequest{
			DrawID:   drawID,
			TicketID: reserve.TicketID,
			Number:   reserve.Number,
			Quantity: reserve.Quantity,
		})
		if err != nil {
			d.sendToClient(ctx, client, &event.ErrorEvent{Message: errorMessage(err)})
			return
		}

		// The hub already broadcast the reservation to every watcher, the
		// confirmation goes only to the requester.
		d.sendToClient(ctx, client, &event.ReservationsConfirmedEvent{
			DrawID:   drawID,
			TicketID: reserve.TicketID,
			Units:    resp.Units,
		})

	default:
		d.sendToClient(ctx, client, &event.ErrorEvent{Message: "Unsupported operation"})
	}
}

func (d *availabilityDomain) sendToClient(ctx context.Context, client *ws.Client, ev event.Event) {
	b, err := json.Marshal(event.New(ev))
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal event: %v", err)
		return
	}

	if err := client.Write(b, false); err != nil {
		xcontext.Logger(ctx).Debugf("Cannot write to ws: %v", err)
	}
}

func errorMessage(err error) string {
	var xerr errorx.Error
	if errors.As(err, &xerr) {
		return xerr.Message
	}

	return "Something went wrong"
}
