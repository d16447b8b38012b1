package update_booking

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
	msgInvalidBody      = "invalid request body"
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

// Handle PATCH /api/v1/bookings/{bookingId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id} - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var body UpdateBookingRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req, err := body.toServiceRequest()
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id} - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, err := h.service.Update(r.Context(), bookingID, req, actor)
	if err != nil {
		var denied *bookings.DeniedError

		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id} - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &denied):
			h.logger.Warn("PATCH /bookings/{id} - Access denied: booking_id=%d, user_id=%d, reason=%s",
				bookingID, actor.ID, denied.Reason)
			handlers.RespondForbidden(w, denied.Reason)

		case errors.Is(err, bookings.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id} - Validation failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id} - Failed to update booking: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id} - Booking updated successfully: booking_id=%d, user_id=%d",
		bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
