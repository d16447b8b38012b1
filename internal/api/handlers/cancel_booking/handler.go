package cancel_booking

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	cancelUC "github.com/bookwise-app/booking-backend/internal/usecase/cancel_booking"
)

const (
	msgInvalidBookingID = "invalid booking ID"
	msgInvalidBody      = "invalid request body"
	msgNotFound         = "booking not found"
	msgMissingUser      = "missing authenticated user"
)

type Handler struct {
	usecase CancelBookingUseCase
	logger  Logger
}

func NewHandler(usecase CancelBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/bookings/{bookingId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	bookingID, err := strconv.ParseInt(vars["bookingId"], 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	// Тело запроса опционально
	var body CancelBookingRequest
	if err := handlers.DecodeJSON(r, &body); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req := &cancelUC.Request{
		BookingID:          bookingID,
		CancellationReason: body.CancellationReason,
	}

	result, err := h.usecase.Execute(r.Context(), req, actor)
	if err != nil {
		var denied *cancelUC.DeniedError

		switch {
		case errors.Is(err, cancelUC.ErrBookingNotFound):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Booking not found: booking_id=%d", bookingID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.As(err, &denied):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Access denied: booking_id=%d, user_id=%d, reason=%s",
				bookingID, actor.ID, denied.Reason)
			handlers.RespondForbidden(w, denied.Reason)

		case errors.Is(err, cancelUC.ErrInvalidStateTransition):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Invalid state: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondConflict(w, err.Error())

		case errors.Is(err, cancelUC.ErrInvalidInput):
			h.logger.Warn("PATCH /bookings/{id}/cancel - Validation failed: booking_id=%d, error=%v", bookingID, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /bookings/{id}/cancel - Failed to cancel booking: booking_id=%d, error=%v",
				bookingID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /bookings/{id}/cancel - Booking cancelled successfully: booking_id=%d, user_id=%d, refund=%s",
		bookingID, actor.ID, result.RefundStatus)
	handlers.RespondJSON(w, http.StatusOK, result)
}
