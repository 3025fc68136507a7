package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	reservationserrors "stopshot/internal/reservations/errors"
	"stopshot/pkg/config"
	"stopshot/pkg/logger"
	"stopshot/pkg/model"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldDuration  = "duration_minutes"
	FieldPartySize = "party_size"
	FieldRoomType  = "room_type"
	FieldRoomID    = "room_id"
	FieldStatus    = "status"
)

type ReservationValidator struct {
	validate *validator.Validate
	venue    config.Venue
	logger   *logger.Logger
}

func NewReservationValidator(venue config.Venue, log *logger.Logger) *ReservationValidator {
	v := validator.New()

	// Report json field names so errors line up with the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	log.Info("Reservation validator initialized successfully")

	return &ReservationValidator{
		validate: v,
		venue:    venue,
		logger:   log,
	}
}

// ValidateRequest checks the create input and parses its civil date and start
// time. Every problem found is returned at once.
func (v *ReservationValidator) ValidateRequest(req *model.ReservationRequest) (model.Date, model.TimeOfDay, error) {
	var errs reservationserrors.ValidationErrors
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return model.Date{}, model.TimeOfDay{}, err
		}
		errs = v.translateValidationErrors(validationErrs)
	}

	var date model.Date
	if req.Date != "" {
		d, err := model.ParseDate(req.Date)
		if err != nil {
			errs.Add(FieldDate, "date must be in YYYY-MM-DD format")
		}
		date = d
	}

	var start model.TimeOfDay
	if req.StartTime != "" {
		t, err := model.ParseTimeOfDay(req.StartTime)
		if err != nil {
			errs.Add(FieldStartTime, "start_time must be in HH:MM format")
		}
		start = t
	}

	if req.RoomType != "" && !v.venue.KnowsRoomType(req.RoomType) {
		errs.Add(FieldRoomType, fmt.Sprintf("room_type must be one of: %s", v.roomTypeList()))
	}

	return date, start, errs.OrNil()
}

// ValidateChanges checks the shape of a staff transition request before any
// reservation is loaded.
func (v *ReservationValidator) ValidateChanges(changes *model.ReservationChanges) error {
	var errs reservationserrors.ValidationErrors
	if err := v.validate.Struct(changes); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		errs = v.translateValidationErrors(validationErrs)
	}

	if changes.Status != nil && !changes.Status.Valid() {
		errs.Add(FieldStatus, "status must be one of: PENDING CONFIRMED CANCELLED")
	}
	if changes.RoomID != nil && *changes.RoomID != "" && !primitive.IsValidObjectID(*changes.RoomID) {
		errs.Add(FieldRoomID, "room_id must be a valid MongoDB ObjectID")
	}

	return errs.OrNil()
}

// Check applies the reservation rules that need no store access. today is set
// only at creation, when the date must not lie in the past. room is the
// assigned room, or nil when none is assigned.
func (v *ReservationValidator) Check(r *model.Reservation, room *model.Room, today *model.Date) reservationserrors.ValidationErrors {
	var errs reservationserrors.ValidationErrors

	if today != nil && r.Date.Before(*today) {
		errs.Add(FieldDate, "Reservation date cannot be in the past.")
	}

	if r.DurationMinutes <= 0 {
		errs.Add(FieldDuration, "duration_minutes must be positive")
	} else if minimum := v.venue.MinimumDuration(r.RoomType); r.DurationMinutes < minimum {
		errs.Add(FieldDuration, fmt.Sprintf("%s reservations must last at least %d minutes", r.RoomType.Label(), minimum))
	}

	if room != nil {
		if !room.Bookable {
			errs.Add(FieldRoomID, fmt.Sprintf("room %s is not bookable", room.Name))
		}
		if room.Type != r.RoomType {
			errs.Add(FieldRoomID, fmt.Sprintf("room %s is a %s, reservation is for a %s", room.Name, room.Type.Label(), r.RoomType.Label()))
		}
		if r.PartySize > room.Capacity {
			errs.Add(FieldPartySize, fmt.Sprintf("party_size (%d) exceeds capacity of %s (%d)", r.PartySize, room.Name, room.Capacity))
		}
	}

	return errs
}

func (v *ReservationValidator) roomTypeList() string {
	names := make([]string, 0, len(v.venue.RoomTypes))
	for _, t := range v.venue.RoomTypes {
		names = append(names, string(t))
	}
	return strings.Join(names, " ")
}

func (v *ReservationValidator) translateValidationErrors(errs validator.ValidationErrors) reservationserrors.ValidationErrors {
	var validationErrors reservationserrors.ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +14155552671)", err.Field())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		}

		validationErrors.Add(err.Field(), message)
	}

	return validationErrors
}
