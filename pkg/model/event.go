package model

import "time"

type EventType string

const (
	EventCreated       EventType = "reservation.created"
	EventStatusChanged EventType = "reservation.status_changed"
)

// ReservationEvent is emitted after a reservation change has been committed.
type ReservationEvent struct {
	Type       EventType         `json:"type"`
	OldStatus  ReservationStatus `json:"old_status,omitempty"`
	NewStatus  ReservationStatus `json:"new_status"`
	RoomName   string            `json:"room_name,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
	// CorrelationID is the request id of the call that produced the event.
	CorrelationID string      `json:"correlation_id,omitempty"`
	Reservation   Reservation `json:"reservation"`
}
