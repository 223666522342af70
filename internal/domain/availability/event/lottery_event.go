package event

import "github.com/cryptojackpot/lottery/internal/model"

// AVAILABLE NUMBERS EVENT
//
// Full availability snapshot sent to a client right after it joins a draw.
type AvailableNumbersEvent struct {
	DrawID string                 `json:"draw_id"`
	Units  []model.UnitStatusInfo `json:"units"`
}

func (*AvailableNumbersEvent) Op() string {
	return "available_numbers"
}

// NUMBERS RESERVED EVENT
type NumbersReservedEvent struct {
	DrawID string                 `json:"draw_id"`
	Units  []model.UnitStatusInfo `json:"units"`
}

func (*NumbersReservedEvent) Op() string {
	return "numbers_reserved"
}

// NUMBERS RELEASED EVENT
type NumbersReleasedEvent struct {
	DrawID string                 `json:"draw_id"`
	Units  []model.UnitStatusInfo `json:"units"`
}

func (*NumbersReleasedEvent) Op() string {
	return "numbers_released"
}

// NUMBERS SOLD EVENT
type NumbersSoldEvent struct {
	DrawID string                 `json:"draw_id"`
	Units  []model.UnitStatusInfo `json:"units"`
}

func (*NumbersSoldEvent) Op() string {
	return "numbers_sold"
}

// RESERVATIONS CONFIRMED EVENT
//
// Sent only to the client whose reserve_number request succeeded.
type ReservationsConfirmedEvent struct {
	DrawID   string                 `json:"draw_id"`
	TicketID string                 `json:"ticket_id"`
	Units    []model.UnitStatusInfo `json:"units"`
}

func (*ReservationsConfirmedEvent) Op() string {
	return "reservations_confirmed"
}

// ERROR EVENT
//
// Sent only to the client whose request failed.
type ErrorEvent struct {
	Message string `json:"message"`
}

func (*ErrorEvent) Op() string {
	return "error"
}

// RESERVE NUMBER EVENT
//
// Client to server request frame on the availability channel. The series is
// picked by the server, the client only chooses the number and how many
// copies of it to hold.
type ReserveNumberEvent struct {
	TicketID string `json:"ticket_id"`
	Number   int    `json:"number"`
	Quantity int    `json:"quantity"`
}

func (*ReserveNumberEvent) Op() string {
	return "reserve_number"
}
