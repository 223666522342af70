package model

// DrawCreatedEvent is published by the draw-management service once a draw
// exists and its inventory should be materialized.
type DrawCreatedEvent struct {
	DrawID      string `json:"draw_id"`
	MinNumber   int    `json:"min_number"`
	MaxNumber   int    `json:"max_number"`
	TotalSeries int    `json:"total_series"`
}

// OrderCompletedEvent is published by the order service when payment for a
// ticket settles. Delivery is at-least-once, so handling must be idempotent.
type OrderCompletedEvent struct {
	OrderID        string   `json:"order_id"`
	TicketID       string   `json:"ticket_id"`
	UnitIDs        []string `json:"unit_ids"`
	TransactionRef string   `json:"transaction_ref"`
}

type MarketingRecipientsRequestEvent struct {
	CorrelationID string `json:"correlation_id"`
	DrawID        string `json:"draw_id"`
}

type MarketingRecipient struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type MarketingRecipientsResponseEvent struct {
	CorrelationID string               `json:"correlation_id"`
	Success       bool                 `json:"success"`
	ErrorMessage  string               `json:"error_message,omitempty"`
	Recipients    []MarketingRecipient `json:"recipients"`
}

type SendMarketingEmailEvent struct {
	Email       string `json:"email"`
	Name        string `json:"name"`
	DrawID      string `json:"draw_id"`
	CampaignID  string `json:"campaign_id"`
	BatchNumber int    `json:"batch_number"`
}
