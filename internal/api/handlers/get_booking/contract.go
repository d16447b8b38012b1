package get_booking

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

type BookingService interface {
	GetByID(ctx context.Context, id int64, actor *domain.User) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
