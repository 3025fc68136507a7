package notify

import (
	"fmt"
	"time"

	"stopshot/pkg/model"
)

// StatusMessage is the guest-facing text for a reservation event.
type StatusMessage struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

const (
	subjectDateLayout = "January 02, 2006"
	bodyDateLayout    = "Monday, January 02, 2006"
	bodyTimeLayout    = "03:04 PM"
)

func Render(event model.ReservationEvent) StatusMessage {
	r := event.Reservation
	day := r.Date.In(time.UTC)
	when := fmt.Sprintf("%s on %s at %s",
		r.RoomType.Label(),
		day.Format(bodyDateLayout),
		r.StartTime.On(r.Date, time.UTC).Format(bodyTimeLayout),
	)

	var body string
	switch event.NewStatus {
	case model.StatusConfirmed:
		body = fmt.Sprintf("Your reservation for %s is now CONFIRMED.", when)
		if event.RoomName != "" {
			body += fmt.Sprintf(" You have been assigned to: %s", event.RoomName)
		}
	case model.StatusPending:
		body = fmt.Sprintf("Your reservation request for %s is currently PENDING. We will notify you once it's confirmed.", when)
	case model.StatusCancelled:
		body = fmt.Sprintf("We are sorry to inform you that your reservation for %s has been CANCELLED.", when)
	default:
		body = fmt.Sprintf("Your reservation status has been updated to: %s.", event.NewStatus)
	}

	name := r.GuestName
	if name == "" {
		name = "Valued Customer"
	}

	return StatusMessage{
		To:      r.GuestEmail,
		Subject: fmt.Sprintf("Update on Your Reservation at StopShot - %s", day.Format(subjectDateLayout)),
		Body:    fmt.Sprintf("Dear %s,\n\n%s", name, body),
	}
}
