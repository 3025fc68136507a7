package repository

import (
	"context"

	"stopshot/internal/reservations/interval"
	mongotx "stopshot/pkg/db/mongo"
	"stopshot/pkg/model"
)

const (
	CollectionName = "Reservations"
)

// ReservationRepository is the reservation store. Reads used by the
// availability engine never take locks; writers serialize through pkg/lock.
type ReservationRepository interface {
	Create(ctx context.Context, reservation *model.Reservation) error
	FindByID(ctx context.Context, id string) (*model.Reservation, error)
	// Update persists the mutable fields of reservation (room, duration,
	// status and the derived end instant).
	Update(ctx context.Context, reservation *model.Reservation) error
	// FindConflicting returns one CONFIRMED reservation on roomID whose
	// interval overlaps iv, skipping excludeID, or nil when there is none.
	FindConflicting(ctx context.Context, roomID string, iv interval.Interval, excludeID string) (*model.Reservation, error)
	// FindByDateRange lists reservations of roomType whose civil date lies in
	// [from, to] and whose status is one of statuses.
	FindByDateRange(ctx context.Context, from, to model.Date, roomType model.RoomType, statuses ...model.ReservationStatus) ([]*model.Reservation, error)
	// FindOverlappingWindow lists reservations of any type with one of
	// statuses whose interval intersects window.
	FindOverlappingWindow(ctx context.Context, window interval.Interval, statuses ...model.ReservationStatus) ([]*model.Reservation, error)
	FindAll(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, error)
	Count(ctx context.Context, filter model.ReservationFilter) (int64, error)
	// UnassignRoom clears assigned_room on every reservation that references
	// roomID and reports how many were changed.
	UnassignRoom(ctx context.Context, roomID string) (int64, error)
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}
