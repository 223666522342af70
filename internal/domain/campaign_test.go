package domain

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/pkg/errorx"
	"github.com/cryptojackpot/lottery/pkg/pubsub"
	"github.com/cryptojackpot/lottery/pkg/testutil"
)

func Test_campaignDomain_StartCampaign(t *testing.T) {
	ctx := testutil.MockContext()

	domain := NewCampaignDomain(nil)
	publisher := &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			if topic != model.MarketingRecipientsRequestTopic {
				return nil
			}

			// Answer the recipients request like the marketing service would.
			var req model.MarketingRecipientsRequestEvent
			if err := json.Unmarshal(pack.Msg, &req); err != nil {
				return err
			}

			go domain.HandleRecipientsResponse(ctx, &model.MarketingRecipientsResponseEvent{
				CorrelationID: req.CorrelationID,
				Success:       true,
				Recipients: []model.MarketingRecipient{
					{Email: "a@example.com", Name: "A"},
					{Email: "b@example.com", Name: "B"},
					{Email: "c@example.com", Name: "C"},
				},
			})
			return nil
		},
	}
	domain.publisher = publisher

	resp, err := domain.StartCampaign(ctx, &model.StartCampaignRequest{DrawID: "draw1"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.CampaignID)
	require.Equal(t, 3, resp.RecipientCount)
	require.Equal(t, 1, resp.Batches)

	emails := 0
	for _, p := range publisher.Published() {
		if p.Topic != model.SendMarketingEmailTopic {
			continue
		}

		var ev model.SendMarketingEmailEvent
		require.NoError(t, json.Unmarshal(p.Pack.Msg, &ev))
		require.Equal(t, resp.CampaignID, ev.CampaignID)
		require.Equal(t, "draw1", ev.DrawID)
		require.Equal(t, 1, ev.BatchNumber)
		emails++
	}
	require.Equal(t, 3, emails)
}

func Test_campaignDomain_StartCampaign_timeout(t *testing.T) {
	ctx := testutil.MockContext()

	// Nobody ever answers the recipients request.
	domain := NewCampaignDomain(&testutil.MockPublisher{})

	_, err := domain.StartCampaign(ctx, &model.StartCampaignRequest{DrawID: "draw1"})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_campaignDomain_StartCampaign_lookupFailure(t *testing.T) {
	ctx := testutil.MockContext()

	domain := NewCampaignDomain(nil)
	domain.publisher = &testutil.MockPublisher{
		PublishFunc: func(ctx context.Context, topic string, pack *pubsub.Pack) error {
			var req model.MarketingRecipientsRequestEvent
			if err := json.Unmarshal(pack.Msg, &req); err != nil {
				return err
			}

			go domain.HandleRecipientsResponse(ctx, &model.MarketingRecipientsResponseEvent{
				CorrelationID: req.CorrelationID,
				Success:       false,
				ErrorMessage:  "draw has no participants",
			})
			return nil
		},
	}

	_, err := domain.StartCampaign(ctx, &model.StartCampaignRequest{DrawID: "draw1"})
	requireErrorCode(t, err, errorx.Unavailable)
}

func Test_campaignDomain_HandleRecipientsResponse_unknownCorrelation(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewCampaignDomain(&testutil.MockPublisher{})

	// A response for a request that already timed out is dropped quietly.
	require.NoError(t, domain.HandleRecipientsResponse(ctx, &model.MarketingRecipientsResponseEvent{
		CorrelationID: "gone",
		Success:       true,
	}))
}
