package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cryptojackpot/lottery/internal/model"
	"github.com/cryptojackpot/lottery/pkg/kafka"
	"github.com/cryptojackpot/lottery/pkg/pubsub"
	"github.com/cryptojackpot/lottery/pkg/xcontext"
)

func (s *srv) loadSubscriber() {
	s.subscriber = kafka.NewSubscriber(
		s.configs.Kafka.ConsumerGroup,
		[]string{s.configs.Kafka.Addr},
		[]string{
			model.DrawCreatedTopic,
			model.OrderCompletedTopic,
			model.MarketingRecipientsResponseTopic,
		},
		s.handlePack,
	)
}

func (s *srv) handlePack(ctx context.Context, topic string, pack *pubsub.Pack, t time.Time) {
	// The consumer session context carries only cancellation, dependencies
	// come from the service context.
	ctx = xcontext.WithConfigs(ctx, *s.configs)
	ctx = xcontext.WithLogger(ctx, s.logger)
	ctx = xcontext.WithDB(ctx, s.db)

	switch topic {
	case model.DrawCreatedTopic:
		var ev model.DrawCreatedEvent
		if err := json.Unmarshal(pack.Msg, &ev); err != nil {
			s.logger.Errorf("Cannot unmarshal draw created event: %v", err)
			return
		}

		if err := s.generationDomain.HandleDrawCreated(ctx, &ev); err != nil {
			s.logger.Errorf("Cannot handle draw created event of %s: %v", ev.DrawID, err)
		}

	case model.OrderCompletedTopic:
		var ev model.OrderCompletedEvent
		if err := json.Unmarshal(pack.Msg, &ev); err != nil {
			s.logger.Errorf("Cannot unmarshal order completed event: %v", err)
			return
		}

		if err := s.reconcileDomain.ConfirmSale(ctx, &ev); err != nil {
			s.logger.Errorf("Cannot reconcile order %s: %v", ev.OrderID, err)
		}

	case model.MarketingRecipientsResponseTopic:
		var ev model.MarketingRecipientsResponseEvent
		if err := json.Unmarshal(pack.Msg, &ev); err != nil {
			s.logger.Errorf("Cannot unmarshal recipients response: %v", err)
			return
		}

		if err := s.campaignDomain.HandleRecipientsResponse(ctx, &ev); err != nil {
			s.logger.Errorf("Cannot handle recipients response: %v", err)
		}

	default:
		s.logger.Warnf("Received message on unexpected topic %s", topic)
	}
}
