package get_user_bookings

import (
	"context"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

type BookingService interface {
	GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor *domain.User) (*models.BookingListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
