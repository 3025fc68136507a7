package notify

import (
	"context"
	"strings"
	"testing"

	"stopshot/pkg/kafka"
	"stopshot/pkg/model"
)

func reservationOn(status model.ReservationStatus) model.Reservation {
	return model.Reservation{
		ID:         "r1",
		GuestName:  "Maria",
		GuestEmail: "maria@example.com",
		RoomType:   model.RoomTypeKaraoke,
		Date:       model.Date{Year: 2025, Month: 6, Day: 2},
		StartTime:  model.TimeOfDay{Hour: 18},
		Status:     status,
	}
}

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		status   model.ReservationStatus
		room     string
		guest    string
		wantBody string
	}{
		{
			name:     "confirmed with room",
			status:   model.StatusConfirmed,
			room:     "Karaoke Room 2",
			guest:    "Maria",
			wantBody: "Dear Maria,\n\nYour reservation for Karaoke Room on Monday, June 02, 2025 at 06:00 PM is now CONFIRMED. You have been assigned to: Karaoke Room 2",
		},
		{
			name:     "pending",
			status:   model.StatusPending,
			guest:    "Maria",
			wantBody: "Dear Maria,\n\nYour reservation request for Karaoke Room on Monday, June 02, 2025 at 06:00 PM is currently PENDING. We will notify you once it's confirmed.",
		},
		{
			name:     "cancelled without name",
			status:   model.StatusCancelled,
			wantBody: "Dear Valued Customer,\n\nWe are sorry to inform you that your reservation for Karaoke Room on Monday, June 02, 2025 at 06:00 PM has been CANCELLED.",
		},
		{
			name:     "unknown status",
			status:   "NO_SHOW",
			guest:    "Maria",
			wantBody: "Dear Maria,\n\nYour reservation status has been updated to: NO_SHOW.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := reservationOn(tt.status)
			r.GuestName = tt.guest
			msg := Render(model.ReservationEvent{NewStatus: tt.status, RoomName: tt.room, Reservation: r})

			if msg.Body != tt.wantBody {
				t.Errorf("Body =\n%q\nwant\n%q", msg.Body, tt.wantBody)
			}
			if msg.Subject != "Update on Your Reservation at StopShot - June 02, 2025" {
				t.Errorf("Subject = %q", msg.Subject)
			}
			if msg.To != "maria@example.com" {
				t.Errorf("To = %q", msg.To)
			}
		})
	}
}

type mockPublisher struct {
	published []kafka.Message
}

func (m *mockPublisher) Publish(_ context.Context, msg kafka.Message) error {
	m.published = append(m.published, msg)
	return nil
}

func (m *mockPublisher) Close() error { return nil }

func TestKafkaSender_SetsHeadersAndKey(t *testing.T) {
	pub := &mockPublisher{}
	ev := event("r42")
	ev.CorrelationID = "req-1"

	if err := NewKafkaSender(pub).Send(context.Background(), ev); err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if len(pub.published) != 1 {
		t.Fatalf("published %d messages", len(pub.published))
	}

	msg := pub.published[0]
	if msg.Key != "r42" {
		t.Errorf("Key = %q", msg.Key)
	}
	if got := msg.GetEventType(); got != string(model.EventStatusChanged) {
		t.Errorf("event type = %q", got)
	}
	if got := msg.GetCorrelationID(); got != "req-1" {
		t.Errorf("correlation id = %q", got)
	}
	if !strings.Contains(string(msg.Value), `"new_status":"CONFIRMED"`) {
		t.Errorf("value = %s", msg.Value)
	}

	var decoded model.ReservationEvent
	if err := msg.DecodeValue(&decoded); err != nil || decoded.Reservation.ID != "r42" {
		t.Errorf("DecodeValue() = %+v, %v", decoded, err)
	}
}
