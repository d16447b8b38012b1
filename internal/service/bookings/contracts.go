package bookings

import (
	"context"
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	storage "github.com/bookwise-app/booking-backend/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByUser(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error)
	Update(ctx context.Context, id int64, upd storage.BookingUpdate) (*domain.Booking, domain.ChangeSet, error)
	Approve(ctx context.Context, id int64) (*domain.Booking, error)
	Delete(ctx context.Context, id int64) error
}

// UserRepository интерфейс репозитория пользователей
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// PaymentServiceClient интерфейс клиента для PaymentService
type PaymentServiceClient interface {
	HasPayment(ctx context.Context, bookingID int64) (bool, error)
}

// Broadcaster интерфейс broadcast-транспорта
type Broadcaster interface {
	Broadcast(ctx context.Context, event events.Event) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
