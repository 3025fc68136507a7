package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"stopshot/internal/calendar"
	"stopshot/internal/reservations/interval"
	"stopshot/internal/reservations/repository"
	"stopshot/pkg/config"
	apperrors "stopshot/pkg/errors"
	"stopshot/pkg/logger"
	"stopshot/pkg/model"
)

type mockRoomCounter struct {
	counts map[model.RoomType]int
	err    error
}

func (m *mockRoomCounter) CountBookable(context.Context) (map[model.RoomType]int, error) {
	return m.counts, m.err
}

// now is Monday 2025-06-02, noon at the venue.
var now = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		Venue: config.DefaultVenue(),
		Clock: func() time.Time { return now },
		Log:   logger.New(logger.Config{Level: "error", Output: io.Discard}),
	}
}

func seed(t *testing.T, repo repository.ReservationRepository, roomType model.RoomType, status model.ReservationStatus, date model.Date, start string, minutes int) {
	t.Helper()
	startTime := model.MustParseTimeOfDay(start)
	iv := interval.Compute(date, startTime, time.Duration(minutes)*time.Minute, time.UTC)
	r := &model.Reservation{
		GuestName:       "Guest",
		GuestEmail:      "guest@example.com",
		RoomType:        roomType,
		Date:            date,
		StartTime:       startTime,
		DurationMinutes: minutes,
		PartySize:       2,
		Status:          status,
		StartAt:         iv.Start,
		EndAt:           iv.End,
	}
	if err := repo.Create(context.Background(), r); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
}

func day(d int) model.Date {
	return model.Date{Year: 2025, Month: time.June, Day: d}
}

func TestDailyOccupancy(t *testing.T) {
	tests := []struct {
		name        string
		rooms       map[model.RoomType]int
		setup       func(t *testing.T, repo repository.ReservationRepository)
		roomType    model.RoomType
		wantPercent float64
		wantStatus  model.OccupancyStatus
	}{
		{
			name:  "one three hour booking on two tables",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 2, model.RoomTypeKaraoke: 2},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "18:00", 180)
			},
			roomType:    model.RoomTypeTable,
			wantPercent: 16.67,
			wantStatus:  model.OccupancyAvailable,
		},
		{
			name:  "pending and cancelled do not count",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 2, model.RoomTypeKaraoke: 2},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				seed(t, repo, model.RoomTypeTable, model.StatusPending, day(2), "18:00", 180)
				seed(t, repo, model.RoomTypeTable, model.StatusCancelled, day(2), "18:00", 180)
			},
			roomType:    model.RoomTypeTable,
			wantPercent: 0,
			wantStatus:  model.OccupancyAvailable,
		},
		{
			name:  "booking past closing is clipped at one am",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 2, model.RoomTypeKaraoke: 2},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				// 23:00 to 02:00 contributes two hours.
				seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(2), "23:00", 180)
			},
			roomType:    model.RoomTypeKaraoke,
			wantPercent: 11.11,
			wantStatus:  model.OccupancyAvailable,
		},
		{
			name:  "after midnight booking dated the next day counts",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 2, model.RoomTypeKaraoke: 1},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(3), "00:00", 60)
				// Previous business day, entirely outside the window.
				seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(2), "00:00", 60)
			},
			roomType:    model.RoomTypeKaraoke,
			wantPercent: 11.11,
			wantStatus:  model.OccupancyAvailable,
		},
		{
			name:  "half booked is limited",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 2, model.RoomTypeKaraoke: 2},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "16:00", 540)
			},
			roomType:    model.RoomTypeTable,
			wantPercent: 50,
			wantStatus:  model.OccupancyLimited,
		},
		{
			name:  "overbooked clamps to one hundred",
			rooms: map[model.RoomType]int{model.RoomTypeTable: 1, model.RoomTypeKaraoke: 2},
			setup: func(t *testing.T, repo repository.ReservationRepository) {
				seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "16:00", 540)
				seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "18:00", 120)
			},
			roomType:    model.RoomTypeTable,
			wantPercent: 100,
			wantStatus:  model.OccupancyUnavailable,
		},
		{
			name:        "no rooms of type",
			rooms:       map[model.RoomType]int{model.RoomTypeTable: 2},
			setup:       func(*testing.T, repository.ReservationRepository) {},
			roomType:    model.RoomTypeKaraoke,
			wantPercent: 100,
			wantStatus:  model.OccupancyUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repository.NewMemoryReservationRepository()
			tt.setup(t, repo)
			svc := NewAvailabilityService(repo, &mockRoomCounter{counts: tt.rooms}, calendar.NewStaticCalendar(nil), testConfig())

			got, err := svc.DailyOccupancy(context.Background(), day(2))
			if err != nil {
				t.Fatalf("DailyOccupancy() error = %v", err)
			}
			occ, ok := got[tt.roomType]
			if !ok {
				t.Fatalf("no entry for %s in %v", tt.roomType, got)
			}
			if occ.PercentBooked != tt.wantPercent {
				t.Errorf("PercentBooked = %v, want %v", occ.PercentBooked, tt.wantPercent)
			}
			if occ.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", occ.Status, tt.wantStatus)
			}
			if tt.rooms[tt.roomType] == 0 && occ.Message == "" {
				t.Error("zero-room type should explain itself")
			}
		})
	}
}

func TestDailyOccupancy_ReportsEveryRoomType(t *testing.T) {
	repo := repository.NewMemoryReservationRepository()
	svc := NewAvailabilityService(repo, &mockRoomCounter{counts: map[model.RoomType]int{model.RoomTypeTable: 10, model.RoomTypeKaraoke: 2}}, calendar.NewStaticCalendar(nil), testConfig())

	got, err := svc.DailyOccupancy(context.Background(), day(2))
	if err != nil {
		t.Fatalf("DailyOccupancy() error = %v", err)
	}
	if len(got) != 2 {
		t.Errorf("got %d room types, want 2", len(got))
	}
}

func TestMonthGrid(t *testing.T) {
	repo := repository.NewMemoryReservationRepository()
	seed(t, repo, model.RoomTypeKaraoke, model.StatusPending, day(10), "18:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusPending, day(11), "18:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(11), "20:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusCancelled, day(12), "18:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusCancelled, day(12), "19:00", 60)
	seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(13), "18:00", 60)
	seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(13), "19:00", 60)
	// Past day with bookings stays unavailable and not busy.
	seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(1), "18:00", 60)

	cal := calendar.NewStaticCalendar([]model.Date{day(14), {Year: 2025, Month: time.July, Day: 4}})
	svc := NewAvailabilityService(repo, &mockRoomCounter{counts: map[model.RoomType]int{model.RoomTypeKaraoke: 2, model.RoomTypeTable: 10}}, cal, testConfig())

	grid, err := svc.MonthGrid(context.Background(), 2025, time.June, model.RoomTypeKaraoke)
	if err != nil {
		t.Fatalf("MonthGrid() error = %v", err)
	}
	if len(grid) != 30 {
		t.Fatalf("grid has %d days, want 30", len(grid))
	}

	tests := []struct {
		day  int
		want model.DayAvailability
	}{
		{day: 1, want: model.DayAvailability{}},
		{day: 2, want: model.DayAvailability{IsAvailable: true}},
		{day: 10, want: model.DayAvailability{IsAvailable: true}},
		{day: 11, want: model.DayAvailability{IsAvailable: false, IsBusy: true}},
		{day: 12, want: model.DayAvailability{IsAvailable: true}},
		{day: 13, want: model.DayAvailability{IsAvailable: true}},
		{day: 14, want: model.DayAvailability{IsAvailable: true, IsSpecialEvent: true}},
		{day: 30, want: model.DayAvailability{IsAvailable: true}},
	}
	for _, tt := range tests {
		if got := grid[tt.day]; got != tt.want {
			t.Errorf("day %d = %+v, want %+v", tt.day, got, tt.want)
		}
	}
}

func TestMonthGrid_BusyThreshold(t *testing.T) {
	repo := repository.NewMemoryReservationRepository()
	for i := range 7 {
		seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(20), model.TimeOfDay{Hour: 16 + i}.String(), 60)
	}
	for i := range 6 {
		seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(21), model.TimeOfDay{Hour: 16 + i}.String(), 60)
	}
	svc := NewAvailabilityService(repo, &mockRoomCounter{counts: map[model.RoomType]int{model.RoomTypeTable: 10}}, calendar.NewStaticCalendar(nil), testConfig())

	grid, err := svc.MonthGrid(context.Background(), 2025, time.June, model.RoomTypeTable)
	if err != nil {
		t.Fatalf("MonthGrid() error = %v", err)
	}
	if !grid[20].IsBusy || !grid[20].IsAvailable {
		t.Errorf("day 20 with 7/10 = %+v, want busy and available", grid[20])
	}
	if grid[21].IsBusy {
		t.Errorf("day 21 with 6/10 should not be busy")
	}
}

func TestMonthGrid_NoRooms(t *testing.T) {
	svc := NewAvailabilityService(repository.NewMemoryReservationRepository(), &mockRoomCounter{counts: map[model.RoomType]int{}}, calendar.NewStaticCalendar(nil), testConfig())
	grid, err := svc.MonthGrid(context.Background(), 2025, time.July, model.RoomTypeKaraoke)
	if err != nil {
		t.Fatalf("MonthGrid() error = %v", err)
	}
	for d, cell := range grid {
		if cell.IsAvailable || cell.IsBusy {
			t.Errorf("day %d = %+v with no rooms", d, cell)
		}
	}
}

func TestMonthGrid_InvalidInput(t *testing.T) {
	svc := NewAvailabilityService(repository.NewMemoryReservationRepository(), &mockRoomCounter{}, calendar.NewStaticCalendar(nil), testConfig())

	tests := []struct {
		name     string
		month    time.Month
		roomType model.RoomType
	}{
		{name: "month 13", month: 13, roomType: model.RoomTypeTable},
		{name: "month 0", month: 0, roomType: model.RoomTypeTable},
		{name: "unknown type", month: time.June, roomType: "BOWLING"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.MonthGrid(context.Background(), 2025, tt.month, tt.roomType)
			if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
				t.Errorf("MonthGrid() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestTimeSlots(t *testing.T) {
	repo := repository.NewMemoryReservationRepository()
	seed(t, repo, model.RoomTypeKaraoke, model.StatusPending, day(2), "18:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(2), "18:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusConfirmed, day(2), "19:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusCancelled, day(2), "20:00", 60)
	seed(t, repo, model.RoomTypeKaraoke, model.StatusCancelled, day(2), "20:00", 60)
	seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "21:00", 60)
	seed(t, repo, model.RoomTypeTable, model.StatusConfirmed, day(2), "21:00", 60)

	svc := NewAvailabilityService(repo, &mockRoomCounter{counts: map[model.RoomType]int{model.RoomTypeKaraoke: 2, model.RoomTypeTable: 10}}, calendar.NewStaticCalendar(nil), testConfig())

	slots, err := svc.TimeSlots(context.Background(), day(2), model.RoomTypeKaraoke)
	if err != nil {
		t.Fatalf("TimeSlots() error = %v", err)
	}
	if len(slots) != 9 {
		t.Fatalf("got %d slots, want 9: %v", len(slots), slots)
	}
	for _, s := range slots {
		if s.Time == model.MustParseTimeOfDay("18:00") {
			t.Error("fully booked 18:00 slot offered")
		}
	}
	if slots[0].Label != "4:00 PM" || slots[len(slots)-1].Label != "1:00 AM" {
		t.Errorf("labels = %s .. %s", slots[0].Label, slots[len(slots)-1].Label)
	}
}

func TestTimeSlots_PastDateIsEmpty(t *testing.T) {
	svc := NewAvailabilityService(repository.NewMemoryReservationRepository(), &mockRoomCounter{counts: map[model.RoomType]int{model.RoomTypeTable: 10}}, calendar.NewStaticCalendar(nil), testConfig())

	slots, err := svc.TimeSlots(context.Background(), day(1), model.RoomTypeTable)
	if err != nil {
		t.Fatalf("TimeSlots() error = %v", err)
	}
	if slots == nil || len(slots) != 0 {
		t.Errorf("slots = %v, want empty non-nil list", slots)
	}
}

func TestDailyOccupancy_RoomCountFailure(t *testing.T) {
	boom := errors.New("registry down")
	svc := NewAvailabilityService(repository.NewMemoryReservationRepository(), &mockRoomCounter{err: boom}, calendar.NewStaticCalendar(nil), testConfig())
	if _, err := svc.DailyOccupancy(context.Background(), day(2)); !errors.Is(err, boom) {
		t.Errorf("error = %v, want %v", err, boom)
	}
}
