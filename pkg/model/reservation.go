package model

import "time"

type ReservationStatus string

const (
	StatusPending   ReservationStatus = "PENDING"
	StatusConfirmed ReservationStatus = "CONFIRMED"
	StatusCancelled ReservationStatus = "CANCELLED"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled:
		return true
	}
	return false
}

// Active reservations hold capacity in availability queries.
func (s ReservationStatus) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

type Reservation struct {
	ID              string            `json:"id,omitempty" bson:"_id,omitempty"`
	GuestName       string            `json:"guest_name" bson:"guest_name"`
	GuestEmail      string            `json:"guest_email" bson:"guest_email"`
	GuestPhone      string            `json:"guest_phone,omitempty" bson:"guest_phone,omitempty"`
	OwnerRef        string            `json:"owner_ref,omitempty" bson:"owner_ref,omitempty"`
	RoomType        RoomType          `json:"room_type" bson:"room_type"`
	AssignedRoom    string            `json:"assigned_room,omitempty" bson:"assigned_room,omitempty"`
	Date            Date              `json:"date" bson:"date"`
	StartTime       TimeOfDay         `json:"start_time" bson:"start_time"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	PartySize       int               `json:"party_size" bson:"party_size"`
	SpecialRequests string            `json:"special_requests,omitempty" bson:"special_requests,omitempty"`
	Status          ReservationStatus `json:"status" bson:"status"`
	StartAt         time.Time         `json:"start_at" bson:"start_at"`
	EndAt           time.Time         `json:"end_at" bson:"end_at"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at" bson:"updated_at"`
}

func (r *Reservation) Duration() time.Duration {
	return time.Duration(r.DurationMinutes) * time.Minute
}

// ReservationRequest is the guest-facing create input. Date and time stay
// strings until validation so that malformed values surface as field errors.
type ReservationRequest struct {
	GuestName       string   `json:"guest_name" validate:"required,min=1,max=100"`
	GuestEmail      string   `json:"guest_email" validate:"required,email,max=254"`
	GuestPhone      string   `json:"guest_phone,omitempty" validate:"omitempty,e164"`
	OwnerRef        string   `json:"owner_ref,omitempty" validate:"omitempty,max=64"`
	RoomType        RoomType `json:"room_type" validate:"required"`
	Date            string   `json:"date" validate:"required"`
	StartTime       string   `json:"start_time" validate:"required"`
	DurationMinutes *int     `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=720"`
	PartySize       int      `json:"party_size" validate:"required,min=1,max=100"`
	SpecialRequests string   `json:"special_requests,omitempty" validate:"max=1000"`
	// Status is accepted for compatibility and ignored: new reservations are always PENDING.
	Status ReservationStatus `json:"status,omitempty"`
}

// ReservationChanges is the staff-side transition input. A nil field keeps the
// current value; an empty RoomID clears the assignment.
type ReservationChanges struct {
	Status          *ReservationStatus `json:"status,omitempty"`
	RoomID          *string            `json:"room_id,omitempty"`
	DurationMinutes *int               `json:"duration_minutes,omitempty" validate:"omitempty,min=1,max=720"`
}

type ReservationFilter struct {
	Status   ReservationStatus
	Date     *Date
	RoomID   string
	RoomType RoomType
	OwnerRef string
	// Search matches guest name, email or phone case-insensitively.
	Search string
}
