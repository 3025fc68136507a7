package repository

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	reservationserrors "stopshot/internal/reservations/errors"
	"stopshot/internal/reservations/interval"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memoryReservationRepository backs STORE_DRIVER=memory and the service
// tests. It hands out copies so callers never share state with the store.
type memoryReservationRepository struct {
	mu           sync.RWMutex
	reservations map[string]model.Reservation
}

func NewMemoryReservationRepository() ReservationRepository {
	return &memoryReservationRepository{
		reservations: make(map[string]model.Reservation),
	}
}

func (r *memoryReservationRepository) Create(_ context.Context, reservation *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	reservation.ID = primitive.NewObjectID().Hex()
	r.reservations[reservation.ID] = *reservation
	return nil
}

func (r *memoryReservationRepository) FindByID(_ context.Context, id string) (*model.Reservation, error) {
	if !primitive.IsValidObjectID(id) {
		return nil, reservationserrors.ErrInvalidID
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	reservation, ok := r.reservations[id]
	if !ok {
		return nil, reservationserrors.ErrNotFound
	}
	return &reservation, nil
}

func (r *memoryReservationRepository) Update(_ context.Context, reservation *model.Reservation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.reservations[reservation.ID]
	if !ok {
		return reservationserrors.ErrNotFound
	}
	stored.AssignedRoom = reservation.AssignedRoom
	stored.DurationMinutes = reservation.DurationMinutes
	stored.Status = reservation.Status
	stored.EndAt = reservation.EndAt
	stored.UpdatedAt = reservation.UpdatedAt
	r.reservations[reservation.ID] = stored
	return nil
}

func (r *memoryReservationRepository) FindConflicting(_ context.Context, roomID string, iv interval.Interval, excludeID string) (*model.Reservation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for id, existing := range r.reservations {
		if id == excludeID || existing.AssignedRoom != roomID || existing.Status != model.StatusConfirmed {
			continue
		}
		if interval.Overlaps(iv, interval.Of(&existing)) {
			return &existing, nil
		}
	}
	return nil, nil
}

func (r *memoryReservationRepository) FindByDateRange(_ context.Context, from, to model.Date, roomType model.RoomType, statuses ...model.ReservationStatus) ([]*model.Reservation, error) {
	return r.collect(func(res *model.Reservation) bool {
		return res.RoomType == roomType &&
			!res.Date.Before(from) && !res.Date.After(to) &&
			hasStatus(res.Status, statuses)
	}), nil
}

func (r *memoryReservationRepository) FindOverlappingWindow(_ context.Context, window interval.Interval, statuses ...model.ReservationStatus) ([]*model.Reservation, error) {
	return r.collect(func(res *model.Reservation) bool {
		return hasStatus(res.Status, statuses) && interval.Overlaps(window, interval.Of(res))
	}), nil
}

func (r *memoryReservationRepository) FindAll(_ context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error) {
	matched := r.collect(func(res *model.Reservation) bool { return matches(res, filter) })
	if offset >= int64(len(matched)) {
		return []*model.Reservation{}, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, nil
}

func (r *memoryReservationRepository) Count(_ context.Context, filter model.ReservationFilter) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, res := range r.reservations {
		if matches(&res, filter) {
			count++
		}
	}
	return count, nil
}

func (r *memoryReservationRepository) UnassignRoom(_ context.Context, roomID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var changed int64
	now := time.Now().UTC()
	for id, res := range r.reservations {
		if res.AssignedRoom != roomID {
			continue
		}
		res.AssignedRoom = ""
		res.UpdatedAt = now
		r.reservations[id] = res
		changed++
	}
	return changed, nil
}

// ExecuteTransaction runs fn directly. Every service write path performs a
// single store mutation inside fn, so there is nothing to roll back.
func (r *memoryReservationRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(ctx)
}

// collect returns copies of matching reservations ordered by start instant.
func (r *memoryReservationRepository) collect(keep func(*model.Reservation) bool) []*model.Reservation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.Reservation, 0)
	for _, res := range r.reservations {
		if keep(&res) {
			out = append(out, &res)
		}
	}
	slices.SortFunc(out, func(a, b *model.Reservation) int {
		if c := a.StartAt.Compare(b.StartAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func hasStatus(status model.ReservationStatus, statuses []model.ReservationStatus) bool {
	return len(statuses) == 0 || slices.Contains(statuses, status)
}

func matches(res *model.Reservation, f model.ReservationFilter) bool {
	if f.Status != "" && res.Status != f.Status {
		return false
	}
	if f.Date != nil && res.Date != *f.Date {
		return false
	}
	if f.RoomID != "" && res.AssignedRoom != f.RoomID {
		return false
	}
	if f.RoomType != "" && res.RoomType != f.RoomType {
		return false
	}
	if f.OwnerRef != "" && res.OwnerRef != f.OwnerRef {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		found := false
		for _, field := range []string{res.GuestName, res.GuestEmail, res.GuestPhone} {
			if strings.Contains(strings.ToLower(field), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
