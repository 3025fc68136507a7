package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"stopshot/internal/accounts"
	"stopshot/internal/notify"
	reservationserrors "stopshot/internal/reservations/errors"
	"stopshot/internal/reservations/interval"
	"stopshot/internal/reservations/repository"
	"stopshot/internal/reservations/validator"
	roomserrors "stopshot/internal/rooms/errors"
	"stopshot/pkg/config"
	apperrors "stopshot/pkg/errors"
	"stopshot/pkg/lock"
	"stopshot/pkg/middleware"
	"stopshot/pkg/model"
	"stopshot/pkg/sanitizer"
)

type ReservationService interface {
	Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error)
	Transition(ctx context.Context, id string, changes *model.ReservationChanges, role model.Role) (*model.Reservation, error)
	GetByID(ctx context.Context, id string) (*model.Reservation, error)
	GetAll(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error)
}

// RoomRegistry is the read side of the room registry the state machine
// consults for capacity and type checks.
type RoomRegistry interface {
	Get(ctx context.Context, id string) (*model.Room, error)
}

type reservationService struct {
	repo      repository.ReservationRepository
	rooms     RoomRegistry
	accounts  accounts.Directory
	locker    lock.Locker
	hook      notify.Hook
	validator *validator.ReservationValidator
	cfg       *config.Config
}

func NewReservationService(
	repo repository.ReservationRepository,
	rooms RoomRegistry,
	directory accounts.Directory,
	locker lock.Locker,
	hook notify.Hook,
	validator *validator.ReservationValidator,
	cfg *config.Config,
) ReservationService {
	return &reservationService{
		repo:      repo,
		rooms:     rooms,
		accounts:  directory,
		locker:    locker,
		hook:      hook,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *reservationService) Create(ctx context.Context, req *model.ReservationRequest) (*model.Reservation, error) {
	s.sanitize(req)

	date, start, err := s.validator.ValidateRequest(req)
	if err != nil {
		s.cfg.Log.Warn("Reservation request validation failed", "error", err)
		return nil, toAppError(err)
	}

	duration := s.cfg.Venue.DefaultDuration(req.RoomType)
	if req.DurationMinutes != nil {
		duration = *req.DurationMinutes
	}

	now := s.cfg.Now().UTC().Truncate(time.Millisecond)
	reservation := &model.Reservation{
		GuestName:       req.GuestName,
		GuestEmail:      req.GuestEmail,
		GuestPhone:      req.GuestPhone,
		OwnerRef:        req.OwnerRef,
		RoomType:        req.RoomType,
		Date:            date,
		StartTime:       start,
		DurationMinutes: duration,
		PartySize:       req.PartySize,
		SpecialRequests: req.SpecialRequests,
		Status:          model.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	today := s.cfg.Venue.Today(s.cfg.Now())
	if errs := s.validator.Check(reservation, nil, &today); len(errs) > 0 {
		s.cfg.Log.Warn("Reservation rules rejected request", "error", errs)
		return nil, toAppError(errs)
	}

	iv := interval.Compute(date, start, reservation.Duration(), s.cfg.Venue.Loc())
	reservation.StartAt, reservation.EndAt = iv.Start.UTC(), iv.End.UTC()

	if reservation.OwnerRef == "" {
		reservation.OwnerRef = s.resolveOwner(ctx, reservation)
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, reservation); err != nil {
			return apperrors.Internal("Failed to create reservation", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create reservation", "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation created successfully",
		"id", reservation.ID,
		"room_type", reservation.RoomType,
		"date", reservation.Date,
		"start_time", reservation.StartTime,
		"duration_minutes", reservation.DurationMinutes,
	)

	s.hook.Notify(ctx, model.ReservationEvent{
		Type:          model.EventCreated,
		NewStatus:     reservation.Status,
		OccurredAt:    now,
		CorrelationID: middleware.RequestIDFrom(ctx),
		Reservation:   *reservation,
	})
	return reservation, nil
}

// resolveOwner links an anonymous reservation to an account by email. A
// directory failure leaves the reservation unlinked.
func (s *reservationService) resolveOwner(ctx context.Context, r *model.Reservation) string {
	if s.accounts == nil {
		return ""
	}
	account, err := s.accounts.FindOrCreate(ctx, r.GuestEmail, r.GuestName)
	if err != nil {
		s.cfg.Log.Warn("Failed to resolve reservation owner", "email", r.GuestEmail, "error", err)
		return ""
	}
	return account.ID
}

func (s *reservationService) Transition(ctx context.Context, id string, changes *model.ReservationChanges, role model.Role) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	if changes == nil {
		changes = &model.ReservationChanges{}
	}

	if err := s.authorize(role, changes.Status); err != nil {
		return nil, err
	}
	if err := s.validator.ValidateChanges(changes); err != nil {
		return nil, toAppError(err)
	}

	old, updated, room, err := s.transition(ctx, id, changes, role)
	if err != nil {
		s.cfg.Log.Warn("Reservation transition rejected", "id", id, "role", role, "error", err)
		return nil, err
	}

	s.cfg.Log.Info("Reservation transitioned successfully",
		"id", id,
		"from", old,
		"to", updated.Status,
		"assigned_room", updated.AssignedRoom,
		"role", role,
	)

	// Locks are released by now; the hook never runs under them.
	if old != updated.Status {
		event := model.ReservationEvent{
			Type:          model.EventStatusChanged,
			OldStatus:     old,
			NewStatus:     updated.Status,
			OccurredAt:    updated.UpdatedAt,
			CorrelationID: middleware.RequestIDFrom(ctx),
			Reservation:   *updated,
		}
		if room != nil {
			event.RoomName = room.Name
		}
		s.hook.Notify(ctx, event)
	}
	return updated, nil
}

func (s *reservationService) authorize(role model.Role, target *model.ReservationStatus) error {
	if !canTransitionAny(role) {
		return forbidden(role, "modify reservations")
	}
	if target != nil && isReachable(*target) && !canTransitionTo(role, *target) {
		return forbidden(role, fmt.Sprintf("transition reservations to %s", *target))
	}
	return nil
}

// transition runs under the reservation lock and, when confirming onto a room,
// the room lock. It returns the previous status, the committed reservation and
// the assigned room if one was checked.
func (s *reservationService) transition(ctx context.Context, id string, changes *model.ReservationChanges, role model.Role) (model.ReservationStatus, *model.Reservation, *model.Room, error) {
	release, err := s.acquire(ctx, lock.ReservationKey(id))
	if err != nil {
		return "", nil, nil, err
	}
	defer release()

	existing, err := s.load(ctx, id)
	if err != nil {
		return "", nil, nil, err
	}

	from := existing.Status
	target := from
	if changes.Status != nil {
		target = *changes.Status
	}
	if !isAllowedTransition(from, target) {
		return "", nil, nil, apperrors.InvalidTransition(string(from), string(target)).
			WithCause(&reservationserrors.InvalidTransitionError{From: string(from), To: string(target)})
	}
	if changes.Status == nil && !canTransitionTo(role, target) {
		return "", nil, nil, forbidden(role, fmt.Sprintf("edit %s reservations", target))
	}

	prospective := s.merge(existing, changes, target)

	var room *model.Room
	if target != model.StatusCancelled {
		var errs reservationserrors.ValidationErrors
		room, errs, err = s.lookupRoom(ctx, prospective.AssignedRoom)
		if err != nil {
			return "", nil, nil, err
		}

		if target == model.StatusConfirmed && room != nil {
			releaseRoom, err := s.acquire(ctx, lock.RoomKey(room.ID))
			if err != nil {
				return "", nil, nil, err
			}
			defer releaseRoom()

			// The room may have been deleted or edited while we waited.
			room, errs, err = s.lookupRoom(ctx, room.ID)
			if err != nil {
				return "", nil, nil, err
			}
		}
		errs = append(errs, s.validator.Check(prospective, room, nil)...)

		if target == model.StatusConfirmed && room != nil {
			conflict, err := s.repo.FindConflicting(ctx, room.ID, interval.Of(prospective), prospective.ID)
			if err != nil {
				return "", nil, nil, apperrors.Internal("Failed to check room conflicts", err)
			}
			if conflict != nil {
				errs.Add(validator.FieldRoomID, fmt.Sprintf("%s is already booked from %s to %s on %s",
					room.Name, conflict.StartTime, conflictEnd(conflict, s.cfg.Venue.Loc()), conflict.Date))
			}
		}

		if len(errs) > 0 {
			return "", nil, nil, toAppError(errs)
		}
	}

	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, prospective); err != nil {
			if errors.Is(err, reservationserrors.ErrNotFound) {
				return notFound(id)
			}
			return apperrors.Internal("Failed to update reservation", err)
		}
		return nil
	})
	if err != nil {
		return "", nil, nil, err
	}

	return from, prospective, room, nil
}

// lookupRoom resolves an assigned room id. Unknown or malformed ids come back
// as room_id validation errors; only store failures are returned as err.
func (s *reservationService) lookupRoom(ctx context.Context, id string) (*model.Room, reservationserrors.ValidationErrors, error) {
	if id == "" {
		return nil, nil, nil
	}
	var errs reservationserrors.ValidationErrors
	room, err := s.rooms.Get(ctx, id)
	switch {
	case errors.Is(err, roomserrors.ErrNotFound):
		errs.Add(validator.FieldRoomID, fmt.Sprintf("room %s does not exist", id))
		return nil, errs, nil
	case errors.Is(err, roomserrors.ErrInvalidID):
		errs.Add(validator.FieldRoomID, "room_id must be a valid MongoDB ObjectID")
		return nil, errs, nil
	case err != nil:
		return nil, nil, err
	}
	return room, nil, nil
}

// merge applies changes to a copy of existing; the stored value is untouched
// until the copy passes validation. Cancelling keeps the room and duration
// as they were, so a cancel never stores an unchecked room.
func (s *reservationService) merge(existing *model.Reservation, changes *model.ReservationChanges, target model.ReservationStatus) *model.Reservation {
	prospective := *existing
	prospective.Status = target
	if target != model.StatusCancelled {
		if changes.RoomID != nil {
			prospective.AssignedRoom = *changes.RoomID
		}
		if changes.DurationMinutes != nil {
			prospective.DurationMinutes = *changes.DurationMinutes
		}
	}

	iv := interval.Compute(prospective.Date, prospective.StartTime, prospective.Duration(), s.cfg.Venue.Loc())
	prospective.StartAt, prospective.EndAt = iv.Start.UTC(), iv.End.UTC()
	prospective.UpdatedAt = s.cfg.Now().UTC().Truncate(time.Millisecond)
	return &prospective
}

func conflictEnd(r *model.Reservation, loc *time.Location) string {
	return r.EndAt.In(loc).Format(model.TimeLayout)
}

func (s *reservationService) acquire(ctx context.Context, key string) (func(), error) {
	release, err := s.locker.Acquire(ctx, key)
	if err != nil {
		if errors.Is(err, lock.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			s.cfg.Log.Warn("Timed out waiting for lock", "key", key)
			return nil, apperrors.Timeout("Timed out waiting for a concurrent change to finish")
		}
		return nil, apperrors.Internal("Failed to acquire lock", err)
	}
	return release, nil
}

func (s *reservationService) load(ctx context.Context, id string) (*model.Reservation, error) {
	reservation, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, reservationserrors.ErrNotFound) {
			return nil, notFound(id)
		}
		if errors.Is(err, reservationserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid reservation ID format").WithCause(reservationserrors.ErrInvalidID)
		}
		return nil, apperrors.Internal("Failed to retrieve reservation", err)
	}
	return reservation, nil
}

func (s *reservationService) GetByID(ctx context.Context, id string) (*model.Reservation, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Reservation ID cannot be empty")
	}
	return s.load(ctx, id)
}

func (s *reservationService) GetAll(ctx context.Context, filter model.ReservationFilter, limit int, offset int64) ([]*model.Reservation, int64, error) {
	var count int64
	var reservations []*model.Reservation
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.Count(ctx, filter)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count reservations", "error", errCount)
			errCount = apperrors.Internal("Failed to count reservations", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		reservations, errFind = s.repo.FindAll(ctx, filter, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list reservations", "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve reservations", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return reservations, count, nil
}

func (s *reservationService) sanitize(req *model.ReservationRequest) {
	req.GuestName = sanitizer.NormalizeName(req.GuestName)
	req.GuestEmail = sanitizer.NormalizeEmail(req.GuestEmail)
	req.SpecialRequests = sanitizer.NormalizeText(req.SpecialRequests)
	req.OwnerRef = sanitizer.TrimAndNormalize(req.OwnerRef)
	req.RoomType = model.RoomType(sanitizer.NormalizeCode(string(req.RoomType)))

	// An unparseable phone is kept as typed so validation reports it.
	if phone := sanitizer.NormalizePhone(req.GuestPhone); phone != "" {
		req.GuestPhone = phone
	} else {
		req.GuestPhone = sanitizer.TrimAndNormalize(req.GuestPhone)
	}
}

func toAppError(err error) error {
	var errs reservationserrors.ValidationErrors
	if errors.As(err, &errs) {
		return apperrors.Validation("Reservation validation failed", map[string]any{
			"errors": []reservationserrors.ValidationError(errs),
		}).WithCause(errs)
	}
	return apperrors.Internal("Failed to validate reservation", err)
}

func notFound(id string) error {
	return apperrors.NotFoundWithID("Reservation", id).
		WithCause(&reservationserrors.NotFoundError{Entity: "Reservation", ID: id})
}

func forbidden(role model.Role, action string) error {
	return apperrors.Forbidden(fmt.Sprintf("Role %s may not %s", role, action)).
		WithCause(&reservationserrors.ForbiddenError{Role: string(role), Action: action})
}
