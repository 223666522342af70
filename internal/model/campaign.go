package model

type StartCampaignRequest struct {
	DrawID string `json:"draw_id"`
}

type StartCampaignResponse struct {
	CampaignID     string `json:"campaign_id"`
	RecipientCount int    `json:"recipient_count"`
	Batches        int    `json:"batches"`
}
