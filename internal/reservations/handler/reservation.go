package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"stopshot/internal/reservations/service"
	apperrors "stopshot/pkg/errors"
	httputil "stopshot/pkg/http"
	"stopshot/pkg/logger"
	"stopshot/pkg/middleware"
	"stopshot/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type ReservationHandler struct {
	service service.ReservationService
	log     *logger.Logger
}

func NewReservationHandler(svc service.ReservationService, log *logger.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: svc,
		log:     log,
	}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeBadBody(w, "Create", err)
		return
	}

	// Ownership comes from the verified token, never from the body.
	req.OwnerRef = middleware.SubjectFromContext(r.Context())

	reservation, err := h.service.Create(r.Context(), &req)
	if err != nil {
		h.writeError(w, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, reservation); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

// GetAll lists reservations filtered by status, date, room_id, room_type and
// search query parameters. Staff see every reservation; signed-in customers
// only their own; anonymous guests nothing.
func (h *ReservationHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := r.Context()
	role := middleware.RoleFromContext(ctx)
	subject := middleware.SubjectFromContext(ctx)
	if !service.IsStaff(role) && (role == model.RoleGuest || subject == "") {
		h.writeError(w, "GetAll", apperrors.Forbidden("Sign in to list reservations"))
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	filter, err := extractFilter(r)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}
	if !service.IsStaff(role) {
		filter.OwnerRef = subject
	}

	reservations, count, err := h.service.GetAll(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, "GetAll", err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, count, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func extractFilter(r *http.Request) (model.ReservationFilter, error) {
	query := r.URL.Query()
	filter := model.ReservationFilter{
		RoomID:   strings.TrimSpace(query.Get("room_id")),
		RoomType: model.RoomType(strings.ToUpper(strings.TrimSpace(query.Get("room_type")))),
		OwnerRef: strings.TrimSpace(query.Get("owner_ref")),
		Search:   strings.TrimSpace(query.Get("search")),
	}

	if raw := query.Get("status"); raw != "" {
		status := model.ReservationStatus(strings.ToUpper(strings.TrimSpace(raw)))
		if !status.Valid() {
			return filter, apperrors.InvalidInput("invalid status parameter: " + raw)
		}
		filter.Status = status
	}
	if query.Get("date") != "" {
		date, err := httputil.ExtractDate(r, "date")
		if err != nil {
			return filter, err
		}
		filter.Date = &date
	}
	return filter, nil
}

// GetByID lets staff read any reservation; other callers only their own.
func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	reservation, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	ctx := r.Context()
	if !service.IsStaff(middleware.RoleFromContext(ctx)) {
		subject := middleware.SubjectFromContext(ctx)
		if subject == "" || subject != reservation.OwnerRef {
			h.writeError(w, "GetByID", apperrors.NotFoundWithID("Reservation", id))
			return
		}
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Transition serves PATCH /api/v1/reservations/id/:id with a body of
// {"status": "CONFIRMED", "room_id": "...", "duration_minutes": 120}.
func (h *ReservationHandler) Transition(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var changes model.ReservationChanges
	if err := json.NewDecoder(r.Body).Decode(&changes); err != nil {
		h.writeBadBody(w, "Transition", err)
		return
	}

	role := middleware.RoleFromContext(r.Context())
	reservation, err := h.service.Transition(r.Context(), ps.ByName("id"), &changes, role)
	if err != nil {
		h.writeError(w, "Transition", err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.log.Error("failed to write success response", "handler", "Transition", "operation", "WriteSuccess", "error", err)
	}
}

func (h *ReservationHandler) writeBadBody(w http.ResponseWriter, handler string, err error) {
	h.log.Warn("failed to decode request body", "handler", handler, "error", err)
	if writeErr := httputil.WriteJSON(w, http.StatusBadRequest, httputil.ErrorResponse{
		Error: "Invalid request body",
		Code:  apperrors.CodeBadRequest,
	}); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteJSON", "error", writeErr)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/reservations", h.Create)
	router.GET("/api/v1/reservations", h.GetAll)
	router.GET("/api/v1/reservations/id/:id", h.GetByID)
	router.PATCH("/api/v1/reservations/id/:id", h.Transition)
}
