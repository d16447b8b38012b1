package create_booking

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	createUC "github.com/bookwise-app/booking-backend/internal/usecase/create_booking"
)

type CreateBookingUseCase interface {
	Execute(ctx context.Context, req *createUC.Request, actor *domain.User) (*createUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
