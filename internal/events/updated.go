package events

import (
	"fmt"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// BookingUpdated событие изменения бронирования
type BookingUpdated struct {
	booking *domain.Booking
	owner   *domain.User
	staff   *domain.User // nil, если сотрудник не назначен
	changes domain.ChangeSet
}

// NewBookingUpdated создает событие изменения бронирования
// changes содержит только реально изменившиеся поля (wasChanged-семантика):
// пустой набор означает no-op обновление, которое не должно отправляться
func NewBookingUpdated(booking *domain.Booking, owner, staff *domain.User, changes domain.ChangeSet) *BookingUpdated {
	return &BookingUpdated{
		booking: booking,
		owner:   owner,
		staff:   staff,
		changes: changes,
	}
}

// Name имя события
func (e *BookingUpdated) Name() string {
	return "booking.updated"
}

// Channels каналы доставки: админский канал, канал владельца и канал
// сотрудника (если назначен)
func (e *BookingUpdated) Channels() []string {
	channels := []string{
		ChannelBookings,
		UserChannel(e.booking.UserID),
	}

	if e.booking.HasStaff() {
		channels = append(channels, StaffChannel(*e.booking.StaffID))
	}

	return channels
}

// UpdatedPayload данные события booking.updated
type UpdatedPayload struct {
	ID        int64              `json:"id"`
	Status    string             `json:"status"`
	Changes   domain.ChangeSet   `json:"changes"`
	User      UserRef            `json:"user"`
	Staff     *UserRef           `json:"staff"`
	Service   ServiceRef         `json:"service"`
	Date      string             `json:"date"`
	Time      string             `json:"time"`
	EndTime   string             `json:"end_time"`
	UpdatedAt string             `json:"updated_at"`
	Message   string             `json:"message"`
}

// Payload данные события
func (e *BookingUpdated) Payload() interface{} {
	var staff *UserRef
	if e.staff != nil {
		staff = &UserRef{ID: e.staff.ID, Name: e.staff.Name}
	}

	return UpdatedPayload{
		ID:      e.booking.ID,
		Status:  string(e.booking.Status),
		Changes: e.changes,
		User:    UserRef{ID: e.owner.ID, Name: e.owner.Name},
		Staff:   staff,
		Service: ServiceRef{
			ID:       e.booking.ServiceID,
			Name:     e.booking.ServiceName,
			Duration: e.booking.ServiceDurationMinutes,
		},
		Date:      e.booking.StartTime.Format(domain.DateFormat),
		Time:      e.booking.StartTime.Format(domain.TimeFormat),
		EndTime:   e.booking.EndTime.Format(domain.TimeFormat),
		UpdatedAt: e.booking.UpdatedAt.Format(domain.DateTimeFormat),
		Message:   e.notificationMessage(),
	}
}

// notificationMessage выбирает текст уведомления по набору изменений
// Правила проверяются строго по порядку, срабатывает только первое:
// статус, затем дата/время, затем общий случай
func (e *BookingUpdated) notificationMessage() string {
	if v, ok := e.changes["status"]; ok {
		switch changeValue(v) {
		case string(domain.StatusConfirmed):
			return "Your booking has been confirmed"
		case string(domain.StatusCancelled):
			return "Your booking has been cancelled"
		case "rescheduled":
			return "Your booking has been rescheduled"
		default:
			return "Your booking status has been updated"
		}
	}

	if e.changes.Has("booking_date") || e.changes.Has("start_time") {
		return "Your booking time has been changed"
	}

	return "Your booking details have been updated"
}

// ShouldBroadcast guard эмиссии: транспорт включен и есть хотя бы одно
// изменение — no-op обновления не отправляются
func (e *BookingUpdated) ShouldBroadcast(transportEnabled bool) bool {
	return transportEnabled && !e.changes.Empty()
}

// changeValue приводит значение изменения к строке для сравнения
func changeValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case domain.BookingStatus:
		return string(t)
	default:
		return fmt.Sprint(v)
	}
}
