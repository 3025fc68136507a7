package handler

import (
	"net/http"
	"time"

	"stopshot/internal/availability/service"
	httputil "stopshot/pkg/http"
	"stopshot/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(svc service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: svc,
		log:     log,
	}
}

// Month serves GET /api/v1/availability/month?year=2025&month=6&room_type=TABLE.
func (h *AvailabilityHandler) Month(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	year, err := httputil.ExtractInt(r, "year")
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}
	month, err := httputil.ExtractInt(r, "month")
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}
	roomType, err := httputil.ExtractRoomType(r, "room_type")
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	grid, err := h.service.MonthGrid(r.Context(), year, time.Month(month), roomType)
	if err != nil {
		h.writeError(w, "Month", err)
		return
	}

	if err := httputil.WriteSuccess(w, grid); err != nil {
		h.log.Error("failed to write success response", "handler", "Month", "operation", "WriteSuccess", "error", err)
	}
}

// Slots serves GET /api/v1/availability/slots?date=2025-06-02&room_type=KARAOKE_ROOM.
func (h *AvailabilityHandler) Slots(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}
	roomType, err := httputil.ExtractRoomType(r, "room_type")
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}

	slots, err := h.service.TimeSlots(r.Context(), date, roomType)
	if err != nil {
		h.writeError(w, "Slots", err)
		return
	}

	if err := httputil.WriteSuccess(w, slots); err != nil {
		h.log.Error("failed to write success response", "handler", "Slots", "operation", "WriteSuccess", "error", err)
	}
}

// Summary serves GET /api/v1/availability/summary?date=2025-06-02.
func (h *AvailabilityHandler) Summary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	date, err := httputil.ExtractDate(r, "date")
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	occupancy, err := h.service.DailyOccupancy(r.Context(), date)
	if err != nil {
		h.writeError(w, "Summary", err)
		return
	}

	if err := httputil.WriteSuccess(w, occupancy); err != nil {
		h.log.Error("failed to write success response", "handler", "Summary", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/availability/month", h.Month)
	router.GET("/api/v1/availability/slots", h.Slots)
	router.GET("/api/v1/availability/summary", h.Summary)
}
