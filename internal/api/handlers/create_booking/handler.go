package create_booking

import (
	"errors"
	"net/http"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	createUC "github.com/bookwise-app/booking-backend/internal/usecase/create_booking"
)

const (
	msgInvalidBody = "invalid request body"
	msgMissingUser = "missing authenticated user"
)

type Handler struct {
	usecase CreateBookingUseCase
	logger  Logger
}

func NewHandler(usecase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		usecase: usecase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var body CreateBookingRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("POST /bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	req, err := body.toUseCaseRequest()
	if err != nil {
		h.logger.Warn("POST /bookings - Invalid request: %v", err)
		handlers.RespondBadRequest(w, err.Error())
		return
	}

	booking, err := h.usecase.Execute(r.Context(), req, actor)
	if err != nil {
		var denied *createUC.DeniedError

		switch {
		case errors.As(err, &denied):
			h.logger.Warn("POST /bookings - Access denied: user_id=%d, reason=%s", actor.ID, denied.Reason)
			handlers.RespondForbidden(w, denied.Reason)

		case errors.Is(err, createUC.ErrInvalidInput):
			h.logger.Warn("POST /bookings - Validation failed: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondBadRequest(w, err.Error())

		case errors.Is(err, createUC.ErrClosedDay),
			errors.Is(err, createUC.ErrOutsideBusinessHours),
			errors.Is(err, createUC.ErrDateTooFarInFuture),
			errors.Is(err, createUC.ErrTooLateToBook),
			errors.Is(err, createUC.ErrTooManyActiveBookings):
			h.logger.Warn("POST /bookings - Business rule rejected: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondUnprocessable(w, err.Error())

		default:
			h.logger.Error("POST /bookings - Failed to create booking: user_id=%d, error=%v", actor.ID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /bookings - Booking created successfully: booking_id=%d, user_id=%d",
		booking.ID, actor.ID)
	handlers.RespondJSON(w, http.StatusCreated, booking)
}
