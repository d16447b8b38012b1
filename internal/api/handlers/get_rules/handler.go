package get_rules

import (
	"net/http"

	"github.com/bookwise-app/booking-backend/internal/api/handlers"
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

// Handle GET /api/v1/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	rules, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("GET /rules - Failed to get rules: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /rules - Rules retrieved successfully")
	handlers.RespondJSON(w, http.StatusOK, rules)
}
