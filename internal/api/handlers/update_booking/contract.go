package update_booking

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

type BookingService interface {
	Update(ctx context.Context, id int64, req *models.UpdateBookingRequest, actor *domain.User) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
