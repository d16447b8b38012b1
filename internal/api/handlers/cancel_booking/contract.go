package cancel_booking

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	cancelUC "github.com/bookwise-app/booking-backend/internal/usecase/cancel_booking"
)

type CancelBookingUseCase interface {
	Execute(ctx context.Context, req *cancelUC.Request, actor *domain.User) (*cancelUC.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
