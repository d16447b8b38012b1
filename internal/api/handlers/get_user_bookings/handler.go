package get_user_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	"github.com/bookwise-app/booking-backend/internal/service/bookings"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

const (
	msgInvalidUserID = "invalid user ID"
	msgInvalidStatus = "invalid status filter"
	msgMissingUser   = "missing authenticated user"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/{userId}/bookings?status=&upcoming=
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	userID, err := strconv.ParseInt(vars["userId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /users/{id}/bookings - Invalid user ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidUserID)
		return
	}

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("GET /users/{id}/bookings - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	req := &models.GetUserBookingsRequest{
		UserID: userID,
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}
	if upcoming := r.URL.Query().Get("upcoming"); upcoming == "true" {
		req.UpcomingOnly = true
	}

	result, err := h.service.GetUserBookings(r.Context(), req, actor)
	if err != nil {
		var denied *bookings.DeniedError

		switch {
		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/bookings - Invalid status filter: user_id=%d", userID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.As(err, &denied):
			h.logger.Warn("GET /users/{id}/bookings - Access denied: user_id=%d, actor_id=%d", userID, actor.ID)
			handlers.RespondForbidden(w, denied.Reason)

		default:
			h.logger.Error("GET /users/{id}/bookings - Failed to get bookings: user_id=%d, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/bookings - Bookings retrieved successfully: user_id=%d, count=%d",
		userID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
