package model

// Kafka topic names shared across the platform's services.
const (
	DrawCreatedTopic                 = "draw-created"
	OrderCompletedTopic              = "order-completed"
	MarketingRecipientsRequestTopic  = "marketing-recipients-request"
	MarketingRecipientsResponseTopic = "marketing-recipients-response"
	SendMarketingEmailTopic          = "send-marketing-email"

	LotteryConsumerGroup = "lottery-engine"
)
