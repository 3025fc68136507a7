package handler

import (
	"net/http"
	"strconv"

	"stopshot/internal/rooms/service"
	apperrors "stopshot/pkg/errors"
	httputil "stopshot/pkg/http"
	"stopshot/pkg/logger"
	"stopshot/pkg/middleware"
	"stopshot/pkg/model"
	"stopshot/pkg/sanitizer"

	"github.com/julienschmidt/httprouter"
)

type RoomHandler struct {
	service service.RoomService
	log     *logger.Logger
}

func NewRoomHandler(svc service.RoomService, log *logger.Logger) *RoomHandler {
	return &RoomHandler{
		service: svc,
		log:     log,
	}
}

// List serves GET /api/v1/rooms?room_type=KARAOKE_ROOM&bookable=true.
func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	query := r.URL.Query()
	filter := model.RoomFilter{
		Type: model.RoomType(sanitizer.NormalizeCode(query.Get("room_type"))),
	}
	if raw := query.Get("bookable"); raw != "" {
		bookable, err := strconv.ParseBool(raw)
		if err != nil {
			h.writeError(w, "List", apperrors.InvalidInput("bookable must be true or false"))
			return
		}
		filter.BookableOnly = bookable
	}

	rooms, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.writeError(w, "List", err)
		return
	}

	if err := httputil.WriteSuccess(w, rooms); err != nil {
		h.log.Error("failed to write success response", "handler", "List", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.writeError(w, "GetByID", err)
		return
	}

	if err := httputil.WriteSuccess(w, room); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	role := middleware.RoleFromContext(r.Context())
	if err := h.service.Delete(r.Context(), ps.ByName("id"), role); err != nil {
		h.writeError(w, "Delete", err)
		return
	}

	httputil.WriteNoContent(w)
}

func (h *RoomHandler) writeError(w http.ResponseWriter, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *RoomHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/rooms", h.List)
	router.GET("/api/v1/rooms/id/:id", h.GetByID)
	router.DELETE("/api/v1/rooms/id/:id", h.Delete)
}
