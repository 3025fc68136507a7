package validator

import (
	"io"
	"testing"

	reservationserrors "stopshot/internal/reservations/errors"
	"stopshot/pkg/config"
	"stopshot/pkg/logger"
	"stopshot/pkg/model"
)

func newTestValidator() *ReservationValidator {
	return NewReservationValidator(config.DefaultVenue(), logger.New(logger.Config{Level: "error", Output: io.Discard}))
}

func intPtr(v int) *int { return &v }

func validRequest() *model.ReservationRequest {
	return &model.ReservationRequest{
		GuestName:  "Maria Santos",
		GuestEmail: "maria@example.com",
		RoomType:   model.RoomTypeKaraoke,
		Date:       "2025-06-02",
		StartTime:  "18:00",
		PartySize:  6,
	}
}

func fieldsOf(err error) []string {
	errs, ok := err.(reservationserrors.ValidationErrors)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func TestValidateRequest(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(r *model.ReservationRequest)
		wantFields []string
	}{
		{name: "valid", mutate: func(*model.ReservationRequest) {}},
		{name: "label time accepted", mutate: func(r *model.ReservationRequest) { r.StartTime = "6:00 PM" }},
		{name: "missing name", mutate: func(r *model.ReservationRequest) { r.GuestName = "" }, wantFields: []string{"guest_name"}},
		{name: "bad email", mutate: func(r *model.ReservationRequest) { r.GuestEmail = "nope" }, wantFields: []string{"guest_email"}},
		{name: "zero party", mutate: func(r *model.ReservationRequest) { r.PartySize = 0 }, wantFields: []string{FieldPartySize}},
		{name: "zero duration", mutate: func(r *model.ReservationRequest) { r.DurationMinutes = intPtr(0) }, wantFields: []string{FieldDuration}},
		{name: "bad date", mutate: func(r *model.ReservationRequest) { r.Date = "06/02/2025" }, wantFields: []string{FieldDate}},
		{name: "bad time", mutate: func(r *model.ReservationRequest) { r.StartTime = "25:99" }, wantFields: []string{FieldStartTime}},
		{name: "unknown room type", mutate: func(r *model.ReservationRequest) { r.RoomType = "BOWLING_LANE" }, wantFields: []string{FieldRoomType}},
		{
			name: "collects every error",
			mutate: func(r *model.ReservationRequest) {
				r.GuestName = ""
				r.Date = "tomorrow"
				r.RoomType = "POOL"
			},
			wantFields: []string{"guest_name", FieldDate, FieldRoomType},
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			date, start, err := v.ValidateRequest(req)
			if len(tt.wantFields) == 0 {
				if err != nil {
					t.Fatalf("ValidateRequest() error = %v", err)
				}
				if date != (model.Date{Year: 2025, Month: 6, Day: 2}) || start.Hour != 18 {
					t.Errorf("parsed %v %v", date, start)
				}
				return
			}
			got := fieldsOf(err)
			if len(got) != len(tt.wantFields) {
				t.Fatalf("fields = %v, want %v (err %v)", got, tt.wantFields, err)
			}
			for i := range got {
				if got[i] != tt.wantFields[i] {
					t.Errorf("field[%d] = %s, want %s", i, got[i], tt.wantFields[i])
				}
			}
		})
	}
}

func TestValidateChanges(t *testing.T) {
	bogus := model.ReservationStatus("ARCHIVED")
	confirmed := model.StatusConfirmed
	badRoom := "room-7"
	goodRoom := "64b7f0c2a1b2c3d4e5f60718"
	empty := ""

	tests := []struct {
		name      string
		changes   model.ReservationChanges
		wantField string
	}{
		{name: "empty changes", changes: model.ReservationChanges{}},
		{name: "confirm with room", changes: model.ReservationChanges{Status: &confirmed, RoomID: &goodRoom}},
		{name: "clear room", changes: model.ReservationChanges{RoomID: &empty}},
		{name: "unknown status", changes: model.ReservationChanges{Status: &bogus}, wantField: FieldStatus},
		{name: "malformed room", changes: model.ReservationChanges{RoomID: &badRoom}, wantField: FieldRoomID},
		{name: "negative duration", changes: model.ReservationChanges{DurationMinutes: intPtr(-5)}, wantField: FieldDuration},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.ValidateChanges(&tt.changes)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("ValidateChanges() error = %v", err)
				}
				return
			}
			errs, ok := err.(reservationserrors.ValidationErrors)
			if !ok || !errs.Has(tt.wantField) {
				t.Errorf("ValidateChanges() error = %v, want field %s", err, tt.wantField)
			}
		})
	}
}

func TestCheck(t *testing.T) {
	today := model.Date{Year: 2025, Month: 6, Day: 2}
	karaoke := &model.Room{Name: "Karaoke Room 2", Type: model.RoomTypeKaraoke, Capacity: 8, Bookable: true}
	table := &model.Room{Name: "Table 1", Type: model.RoomTypeTable, Capacity: 4, Bookable: true}
	closed := &model.Room{Name: "Karaoke Room 1", Type: model.RoomTypeKaraoke, Capacity: 10, Bookable: false}

	base := func() *model.Reservation {
		return &model.Reservation{RoomType: model.RoomTypeKaraoke, Date: today, DurationMinutes: 60, PartySize: 6}
	}

	tests := []struct {
		name       string
		mutate     func(r *model.Reservation)
		room       *model.Room
		today      *model.Date
		wantFields []string
	}{
		{name: "valid today", mutate: func(*model.Reservation) {}, room: karaoke, today: &today},
		{name: "past date", mutate: func(r *model.Reservation) { r.Date = today.AddDays(-1) }, today: &today, wantFields: []string{FieldDate}},
		{name: "past date ignored on edit", mutate: func(r *model.Reservation) { r.Date = today.AddDays(-1) }},
		{name: "karaoke 59 minutes", mutate: func(r *model.Reservation) { r.DurationMinutes = 59 }, wantFields: []string{FieldDuration}},
		{name: "table 30 minutes", mutate: func(r *model.Reservation) { r.RoomType = model.RoomTypeTable; r.DurationMinutes = 30; r.PartySize = 2 }, room: table},
		{name: "party exceeds capacity", mutate: func(r *model.Reservation) { r.PartySize = 9 }, room: karaoke, wantFields: []string{FieldPartySize}},
		{name: "party equals capacity", mutate: func(r *model.Reservation) { r.PartySize = 8 }, room: karaoke},
		{name: "room type mismatch", mutate: func(r *model.Reservation) { r.PartySize = 2 }, room: table, wantFields: []string{FieldRoomID}},
		{name: "room not bookable", mutate: func(*model.Reservation) {}, room: closed, wantFields: []string{FieldRoomID}},
		{
			name:       "collects all",
			mutate:     func(r *model.Reservation) { r.DurationMinutes = 30; r.PartySize = 12; r.Date = today.AddDays(-3) },
			room:       karaoke,
			today:      &today,
			wantFields: []string{FieldDate, FieldDuration, FieldPartySize},
		},
	}

	v := newTestValidator()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := base()
			tt.mutate(r)
			errs := v.Check(r, tt.room, tt.today)
			if len(errs) != len(tt.wantFields) {
				t.Fatalf("Check() = %v, want fields %v", errs, tt.wantFields)
			}
			for i, f := range tt.wantFields {
				if errs[i].Field != f {
					t.Errorf("field[%d] = %s, want %s", i, errs[i].Field, f)
				}
			}
		})
	}
}

func TestCheck_PastDateMessage(t *testing.T) {
	today := model.Date{Year: 2025, Month: 6, Day: 2}
	r := &model.Reservation{RoomType: model.RoomTypeTable, Date: today.AddDays(-1), DurationMinutes: 60, PartySize: 2}
	errs := newTestValidator().Check(r, nil, &today)
	if len(errs) != 1 || errs[0].Message != "Reservation date cannot be in the past." {
		t.Errorf("Check() = %v", errs)
	}
}
