package update_rules

import (
	"errors"
	"net/http"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
	"github.com/bookwise-app/booking-backend/internal/api/middleware"
	"github.com/bookwise-app/booking-backend/internal/service/rules"
	"github.com/bookwise-app/booking-backend/internal/service/rules/models"
)

const (
	msgInvalidBody = "invalid request body"
	msgMissingUser = "missing authenticated user"
	msgForbidden   = "only staff can update booking rules"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	actor, ok := middleware.GetUser(r.Context())
	if !ok {
		h.logger.Warn("PUT /rules - Missing authenticated user")
		handlers.RespondUnauthorized(w, msgMissingUser)
		return
	}

	var body models.UpdateRulesRequest
	if err := handlers.DecodeJSON(r, &body); err != nil {
		h.logger.Warn("PUT /rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBody)
		return
	}

	result, err := h.service.Update(r.Context(), &body, actor)
	if err != nil {
		switch {
		case errors.Is(err, rules.ErrAccessDenied):
			h.logger.Warn("PUT /rules - Access denied: user_id=%d", actor.ID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("PUT /rules - Validation failed: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PUT /rules - Failed to update rules: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /rules - Rules updated successfully by user_id=%d", actor.ID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
