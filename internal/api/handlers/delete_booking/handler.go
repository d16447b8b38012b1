package delete_booking

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	"github.com/bookwise-app/booking-backend/internal/service/bookings"
)

const (
	msgInvalidBookingID = "invalid booking ID"
	msgNotFound         = "booking not found"
	msgMissingUser      = "missing authenticated user"
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

// Handle DELETE /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id} - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	if err := h.service.Delete(r.Context(), bookingID, actor); err != nil {
		var denied *bookings.DeniedError

		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("DELETE /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &denied):
			h.logger.Warn("DELETE /bookings/{id} - Access denied: booking_id=%d, user_id=%d, reason=%s",
				bookingID, actor.ID, denied.Reason)
			handlers.RespondForbidden(w, denied.Reason)

		default:
			h.logger.Error("DELETE /bookings/{id} - Failed to delete booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /bookings/{id} - Booking deleted successfully: booking_id=%d, user_id=%d",
		bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
