package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"stopshot/internal/calendar"
	"stopshot/internal/reservations/interval"
	"stopshot/pkg/config"
	apperrors "stopshot/pkg/errors"
	"stopshot/pkg/model"
)

const limitedThreshold = 50.0

type AvailabilityService interface {
	MonthGrid(ctx context.Context, year int, month time.Month, roomType model.RoomType) (model.MonthGrid, error)
	TimeSlots(ctx context.Context, date model.Date, roomType model.RoomType) ([]model.TimeSlot, error)
	DailyOccupancy(ctx context.Context, date model.Date) (map[model.RoomType]model.Occupancy, error)
}

// ReservationReader is the read side of the reservation store.
type ReservationReader interface {
	FindByDateRange(ctx context.Context, from, to model.Date, roomType model.RoomType, statuses ...model.ReservationStatus) ([]*model.Reservation, error)
	FindOverlappingWindow(ctx context.Context, window interval.Interval, statuses ...model.ReservationStatus) ([]*model.Reservation, error)
}

type RoomCounter interface {
	CountBookable(ctx context.Context) (map[model.RoomType]int, error)
}

type availabilityService struct {
	reservations ReservationReader
	rooms        RoomCounter
	calendar     calendar.Calendar
	cfg          *config.Config
}

func NewAvailabilityService(reservations ReservationReader, rooms RoomCounter, cal calendar.Calendar, cfg *config.Config) AvailabilityService {
	return &availabilityService{
		reservations: reservations,
		rooms:        rooms,
		calendar:     cal,
		cfg:          cfg,
	}
}

func (s *availabilityService) MonthGrid(ctx context.Context, year int, month time.Month, roomType model.RoomType) (model.MonthGrid, error) {
	if month < time.January || month > time.December {
		return nil, apperrors.InvalidInput("month must be between 1 and 12")
	}
	if year < 1 || year > 9999 {
		return nil, apperrors.InvalidInput("year is out of range")
	}
	if err := s.checkRoomType(roomType); err != nil {
		return nil, err
	}

	first := model.Date{Year: year, Month: month, Day: 1}
	last := model.DateOf(time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC))

	rooms, err := s.roomCount(ctx, roomType)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservations.FindByDateRange(ctx, first, last, roomType, model.StatusPending, model.StatusConfirmed)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for month grid", "year", year, "month", int(month), "error", err)
		return nil, apperrors.Internal("Failed to compute month availability", err)
	}

	events, err := s.calendar.SpecialEvents(ctx, first, last)
	if err != nil {
		s.cfg.Log.Warn("Special event calendar unavailable", "error", err)
		events = nil
	}

	booked := make(map[int]int, last.Day)
	for _, r := range reservations {
		booked[r.Date.Day]++
	}

	today := s.cfg.Venue.Today(s.cfg.Now())
	busyAt := s.cfg.Venue.BusyThreshold * float64(rooms)

	grid := make(model.MonthGrid, last.Day)
	for day := 1; day <= last.Day; day++ {
		date := model.Date{Year: year, Month: month, Day: day}
		count := booked[day]

		cell := model.DayAvailability{IsSpecialEvent: events[date]}
		if !date.Before(today) && rooms > 0 {
			cell.IsAvailable = count < rooms
			cell.IsBusy = float64(count) >= busyAt
		}
		grid[day] = cell
	}
	return grid, nil
}

func (s *availabilityService) TimeSlots(ctx context.Context, date model.Date, roomType model.RoomType) ([]model.TimeSlot, error) {
	if err := s.checkRoomType(roomType); err != nil {
		return nil, err
	}

	slots := []model.TimeSlot{}
	if date.Before(s.cfg.Venue.Today(s.cfg.Now())) {
		return slots, nil
	}

	rooms, err := s.roomCount(ctx, roomType)
	if err != nil {
		return nil, err
	}
	if rooms == 0 {
		return slots, nil
	}

	reservations, err := s.reservations.FindByDateRange(ctx, date, date, roomType, model.StatusPending, model.StatusConfirmed)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for time slots", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to compute time slots", err)
	}

	booked := make(map[model.TimeOfDay]int)
	for _, r := range reservations {
		booked[r.StartTime]++
	}

	for _, slot := range s.cfg.Venue.TimeSlots {
		if booked[slot] < rooms {
			slots = append(slots, model.TimeSlot{Time: slot, Label: slot.Label()})
		}
	}
	return slots, nil
}

// DailyOccupancy sums the confirmed time inside the business day that opens on
// date, including reservations from the previous date that run into it.
func (s *availabilityService) DailyOccupancy(ctx context.Context, date model.Date) (map[model.RoomType]model.Occupancy, error) {
	venue := s.cfg.Venue
	window := interval.BusinessDay(date, venue.BusinessDayStart, venue.BusinessDayEnd, venue.Loc())

	counts, err := s.rooms.CountBookable(ctx)
	if err != nil {
		return nil, err
	}

	reservations, err := s.reservations.FindOverlappingWindow(ctx, window, model.StatusConfirmed)
	if err != nil {
		s.cfg.Log.Error("Failed to load reservations for occupancy", "date", date, "error", err)
		return nil, apperrors.Internal("Failed to compute daily occupancy", err)
	}

	booked := make(map[model.RoomType]time.Duration, len(venue.RoomTypes))
	for _, r := range reservations {
		booked[r.RoomType] += interval.ClipToWindow(interval.Of(r), window.Start, window.End)
	}

	out := make(map[model.RoomType]model.Occupancy, len(venue.RoomTypes))
	for _, roomType := range venue.RoomTypes {
		out[roomType] = occupancyOf(roomType, booked[roomType], counts[roomType], window.Duration())
	}
	return out, nil
}

func occupancyOf(roomType model.RoomType, booked time.Duration, rooms int, window time.Duration) model.Occupancy {
	if rooms <= 0 || window <= 0 {
		return model.Occupancy{
			PercentBooked: 100.0,
			Status:        model.OccupancyUnavailable,
			Message:       fmt.Sprintf("No bookable %s rooms are configured.", roomType.Label()),
		}
	}

	capacity := time.Duration(rooms) * window
	percent := float64(booked) / float64(capacity) * 100
	percent = math.Round(min(max(percent, 0), 100)*100) / 100

	occ := model.Occupancy{PercentBooked: percent}
	switch {
	case percent >= 100:
		occ.Status = model.OccupancyUnavailable
		occ.Message = fmt.Sprintf("All %s rooms are fully booked.", roomType.Label())
	case percent >= limitedThreshold:
		occ.Status = model.OccupancyLimited
		occ.Message = fmt.Sprintf("%s availability is limited.", roomType.Label())
	default:
		occ.Status = model.OccupancyAvailable
	}
	return occ
}

func (s *availabilityService) checkRoomType(roomType model.RoomType) error {
	if !s.cfg.Venue.KnowsRoomType(roomType) {
		return apperrors.InvalidInput(fmt.Sprintf("unknown room_type %q", roomType))
	}
	return nil
}

func (s *availabilityService) roomCount(ctx context.Context, roomType model.RoomType) (int, error) {
	counts, err := s.rooms.CountBookable(ctx)
	if err != nil {
		return 0, err
	}
	return counts[roomType], nil
}
