package rules

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// RulesRepository интерфейс репозитория бизнес-правил
type RulesRepository interface {
	Get(ctx context.Context) (*domain.BookingRules, error)
	Save(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
