package approve_booking

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
	msgAlreadyApproved  = "booking is already approved"
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

// Handle PATCH /api/v1/bookings/{bookingId}/approve
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/approve - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/approve - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	booking, err := h.service.Approve(r.Context(), bookingID, actor)
	if err != nil {
		var denied *bookings.DeniedError

		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/approve - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &denied):
			h.logger.Warn("PATCH /bookings/{id}/approve - Access denied: booking_id=%d, user_id=%d",
				bookingID, actor.ID)
			handlers.RespondForbidden(w, denied.Reason)

		case errors.Is(err, bookings.ErrAlreadyApproved):
			h.logger.Warn("PATCH /bookings/{id}/approve - Already approved: booking_id=%d", bookingID)
			handlers.RespondConflict(w, msgAlreadyApproved)

		case errors.Is(err, bookings.ErrInvalidStateTransition):
			h.logger.Warn("PATCH /bookings/{id}/approve - Invalid state: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/approve - Failed to approve booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/approve - Booking approved successfully: booking_id=%d, approved_by=%d",
		bookingID, actor.ID)
	handlers.RespondJSON(w, http.StatusOK, booking)
}
