package model

// UnitStatusInfo is the affected-unit tuple carried by responses and by
// every availability push notification.
type UnitStatusInfo struct {
	UnitID string `json:"unit_id"`
	Number int    `json:"number"`
	Series int    `json:"series"`
	Status string `json:"status"`
}

type GetAvailableNumbersRequest struct {
	DrawID string `json:"draw_id" form:"draw_id"`
}

type GetAvailableNumbersResponse struct {
	Units []UnitStatusInfo `json:"units"`
}

type IsAvailableRequest struct {
	DrawID string `json:"draw_id" form:"draw_id"`
	Number int    `json:"number" form:"number"`
	Series int    `json:"series" form:"series"`
}

type IsAvailableResponse struct {
	Available bool `json:"available"`
}

type ReserveNumbersRequest struct {
	DrawID   string `json:"draw_id"`
	TicketID string `json:"ticket_id"`
	OrderID  string `json:"order_id"`
	Series   int    `json:"series"`
	Numbers  []int  `json:"numbers"`
}

type ReserveNumbersResponse struct {
	Units []UnitStatusInfo `json:"units"`
}

type ReserveByQuantityRequest struct {
	DrawID   string `json:"draw_id"`
	TicketID string `json:"ticket_id"`
	OrderID  string `json:"order_id"`
	Number   int    `json:"number"`
	Quantity int    `json:"quantity"`
}

type ReserveByQuantityResponse struct {
	Units []UnitStatusInfo `json:"units"`
}

type ReleaseNumbersRequest struct {
	TicketID string `json:"ticket_id"`
}

type ReleaseNumbersResponse struct {
	Released bool `json:"released"`
}

type GetStatsRequest struct {
	DrawID string `json:"draw_id" form:"draw_id"`
}

type GetStatsResponse struct {
	DrawID         string  `json:"draw_id"`
	TotalUnits     int     `json:"total_units"`
	SoldCount      int     `json:"sold_count"`
	AvailableCount int     `json:"available_count"`
	PercentageSold float64 `json:"percentage_sold"`
}

type ServeAvailabilityClientRequest struct {
	DrawID string `json:"draw_id" form:"draw_id"`
}
