package service

import (
	"context"
	"errors"

	roomserrors "stopshot/internal/rooms/errors"
	"stopshot/internal/rooms/repository"
	"stopshot/pkg/config"
	apperrors "stopshot/pkg/errors"
	"stopshot/pkg/lock"
	"stopshot/pkg/model"
)

type RoomService interface {
	// ListBookable returns the rooms a reservation of roomType may be
	// assigned to. An empty roomType lists every bookable room.
	ListBookable(ctx context.Context, roomType model.RoomType) ([]*model.Room, error)
	List(ctx context.Context, filter model.RoomFilter) ([]*model.Room, error)
	Get(ctx context.Context, id string) (*model.Room, error)
	// CountBookable is the denominator of the availability grid.
	CountBookable(ctx context.Context) (map[model.RoomType]int, error)
	Delete(ctx context.Context, id string, role model.Role) error
}

// Unassigner clears a deleted room from the reservations that reference it.
type Unassigner interface {
	UnassignRoom(ctx context.Context, roomID string) (int64, error)
}

type roomService struct {
	repo       repository.RoomRepository
	unassigner Unassigner
	locker     lock.Locker
	cfg        *config.Config
}

func NewRoomService(repo repository.RoomRepository, unassigner Unassigner, locker lock.Locker, cfg *config.Config) RoomService {
	return &roomService{
		repo:       repo,
		unassigner: unassigner,
		locker:     locker,
		cfg:        cfg,
	}
}

func (s *roomService) ListBookable(ctx context.Context, roomType model.RoomType) ([]*model.Room, error) {
	return s.List(ctx, model.RoomFilter{Type: roomType, BookableOnly: true})
}

func (s *roomService) List(ctx context.Context, filter model.RoomFilter) ([]*model.Room, error) {
	rooms, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		s.cfg.Log.Error("Failed to list rooms", "room_type", filter.Type, "error", err)
		return nil, apperrors.Internal("Failed to retrieve rooms", err)
	}
	return rooms, nil
}

func (s *roomService) Get(ctx context.Context, id string) (*model.Room, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty").WithCause(roomserrors.ErrInvalidID)
	}

	room, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, roomserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Room", id).WithCause(roomserrors.ErrNotFound)
		}
		if errors.Is(err, roomserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format").WithCause(roomserrors.ErrInvalidID)
		}
		return nil, apperrors.Internal("Failed to retrieve room", err)
	}
	return room, nil
}

func (s *roomService) CountBookable(ctx context.Context) (map[model.RoomType]int, error) {
	rooms, err := s.ListBookable(ctx, "")
	if err != nil {
		return nil, err
	}
	counts := make(map[model.RoomType]int, len(s.cfg.Venue.RoomTypes))
	for _, room := range rooms {
		counts[room.Type]++
	}
	return counts, nil
}

// Delete removes a room and clears it from every reservation assigned to it.
// Only ADMIN and OWNER may delete rooms.
func (s *roomService) Delete(ctx context.Context, id string, role model.Role) error {
	if role != model.RoleAdmin && role != model.RoleOwner {
		return apperrors.Forbidden("Only admins and owners may delete rooms")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	release, err := s.locker.Acquire(ctx, lock.RoomKey(id))
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) {
			return apperrors.Timeout("Timed out waiting for room lock")
		}
		return apperrors.Internal("Failed to acquire room lock", err)
	}
	defer release()

	var unassigned int64
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Delete(txCtx, id); err != nil {
			if errors.Is(err, roomserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Room", id).WithCause(roomserrors.ErrNotFound)
			}
			return apperrors.Internal("Failed to delete room", err)
		}
		n, err := s.unassigner.UnassignRoom(txCtx, id)
		if err != nil {
			return apperrors.Internal("Failed to unassign room from reservations", err)
		}
		unassigned = n
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to delete room", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Room deleted successfully", "id", id, "unassigned_reservations", unassigned)
	return nil
}
