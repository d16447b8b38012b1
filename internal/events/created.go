package events

import (
	"fmt"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// BookingCreated событие создания бронирования
type BookingCreated struct {
	booking *domain.Booking
	owner   *domain.User
}

// NewBookingCreated создает событие создания бронирования
func NewBookingCreated(booking *domain.Booking, owner *domain.User) *BookingCreated {
	return &BookingCreated{booking: booking, owner: owner}
}

// Name имя события
func (e *BookingCreated) Name() string {
	return "booking.created"
}

// Channels каналы доставки: админский канал и канал владельца
// Канал сотрудника здесь не добавляется, даже если сотрудник назначен —
// это зафиксированное поведение, updated/cancelled ведут себя иначе
func (e *BookingCreated) Channels() []string {
	return []string{
		ChannelBookings,
		UserChannel(e.booking.UserID),
	}
}

// CreatedPayload данные события booking.created
type CreatedPayload struct {
	ID        int64          `json:"id"`
	User      CreatedUserRef `json:"user"`
	Service   string         `json:"service"`
	Date      string         `json:"date"`
	Time      string         `json:"time"`
	Status    string         `json:"status"`
	CreatedAt string         `json:"created_at"`
	Message   string         `json:"message"`
}

// CreatedUserRef ссылка на владельца в payload события создания
// В отличие от updated/cancelled, здесь отдаются имя и email без ID
type CreatedUserRef struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Payload данные события
func (e *BookingCreated) Payload() interface{} {
	return CreatedPayload{
		ID: e.booking.ID,
		User: CreatedUserRef{
			Name:  e.owner.Name,
			Email: e.owner.Email,
		},
		Service:   e.booking.ServiceName,
		Date:      e.booking.StartTime.Format(domain.DateFormat),
		Time:      e.booking.StartTime.Format(domain.TimeFormat),
		Status:    string(e.booking.Status),
		CreatedAt: e.booking.CreatedAt.Format(domain.DateTimeFormat),
		Message:   fmt.Sprintf("New booking created for %s", e.booking.ServiceName),
	}
}

// ShouldBroadcast guard эмиссии: событие отправляется, если транспорт включен
func (e *BookingCreated) ShouldBroadcast(transportEnabled bool) bool {
	return transportEnabled
}
