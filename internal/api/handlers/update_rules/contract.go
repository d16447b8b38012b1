package update_rules

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/service/rules/models"
)

type RulesService interface {
	Update(ctx context.Context, req *models.UpdateRulesRequest, actor *domain.User) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
