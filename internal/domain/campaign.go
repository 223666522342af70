package domain

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/puzpuzpuz/xsync"
	"golang.org/x/sync/errgroup"

	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/pubsub"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

type CampaignDomain interface {
	StartCampaign(context.Context, *model.StartCampaignRequest) (*model.StartCampaignResponse, error)
	HandleRecipientsResponse(ctx context.Context, ev *model.MarketingRecipientsResponseEvent) error
}

// campaignDomain runs the marketing blast saga. The recipient list lives in
// another service, so it is requested over the bus with a correlation id and
// the reply is matched back to the waiting request here.
type campaignDomain struct {
	publisher pubsub.Publisher
	pending   *xsync.MapOf[string, chan *model.MarketingRecipientsResponseEvent]
}

func NewCampaignDomain(publisher pubsub.Publisher) *campaignDomain {
	return &campaignDomain{
		publisher: publisher,
		pending:   xsync.NewMapOf[chan *model.MarketingRecipientsResponseEvent](),
	}
}

func (d *campaignDomain) StartCampaign(
	ctx context.Context, req *model.StartCampaignRequest,
) (*model.StartCampaignResponse, error) {
	if req.DrawID == "" {
		return nil, errorx.New(errorx.BadRequest, "Require a draw id")
	}

	correlationID := uuid.NewString()
	replyChan := make(chan *model.MarketingRecipientsResponseEvent, 1)
	d.pending.Store(correlationID, replyChan)
	defer d.pending.Delete(correlationID)

	b, err := json.Marshal(model.MarketingRecipientsRequestEvent{
		CorrelationID: correlationID,
		DrawID:        req.DrawID,
	})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal recipients request: %v", err)
		return nil, errorx.Unknown
	}

	err = d.publisher.Publish(ctx, model.MarketingRecipientsRequestTopic,
		&pubsub.Pack{Key: []byte(req.DrawID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish recipients request: %v", err)
		return nil, errorx.Unknown
	}

	var resp *model.MarketingRecipientsResponseEvent
	select {
	case resp = <-replyChan:
	case <-time.After(xcontext.Configs(ctx).Lottery.CampaignResponseTimeout):
		return nil, errorx.New(errorx.Unavailable, "Timed out waiting for campaign recipients")
	case <-ctx.Done():
		return nil, errorx.New(errorx.Unavailable, "Request cancelled")
	}

	if !resp.Success {
		return nil, errorx.New(errorx.Unavailable,
			"Recipient lookup failed: %s", resp.ErrorMessage)
	}

	batchSize := xcontext.Configs(ctx).Lottery.CampaignBatchSize
	batches := (len(resp.Recipients) + batchSize - 1) / batchSize

	// Batches are independent, push them concurrently.
	group, groupCtx := errgroup.WithContext(ctx)
	for batch := 0; batch < batches; batch++ {
		batch := batch
		group.Go(func() error {
			low := batch * batchSize
			high := low + batchSize
			if high > len(resp.Recipients) {
				high = len(resp.Recipients)
			}

			for _, recipient := range resp.Recipients[low:high] {
				b, err := json.Marshal(model.SendMarketingEmailEvent{
					Email:       recipient.Email,
					Name:        recipient.Name,
					DrawID:      req.DrawID,
					CampaignID:  correlationID,
					BatchNumber: batch + 1,
				})
				if err != nil {
					return err
				}

				err = d.publisher.Publish(groupCtx, model.SendMarketingEmailTopic,
					&pubsub.Pack{Key: []byte(recipient.Email), Msg: b})
				if err != nil {
					return err
				}
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot publish email events: %v", err)
		return nil, errorx.Unknown
	}

	return &model.StartCampaignResponse{
		CampaignID:     correlationID,
		RecipientCount: len(resp.Recipients),
		Batches:        batches,
	}, nil
}

func (d *campaignDomain) HandleRecipientsResponse(
	ctx context.Context, ev *model.MarketingRecipientsResponseEvent,
) error {
	replyChan, ok := d.pending.Load(ev.CorrelationID)
	if !ok {
		// The waiting request timed out or this instance never sent it.
		xcontext.Logger(ctx).Debugf("No pending campaign for correlation id %s", ev.CorrelationID)
		return nil
	}

	select {
	case replyChan <- ev:
	default:
	}

	return nil
}
