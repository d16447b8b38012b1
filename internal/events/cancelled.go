package events

import (
	"fmt"
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// BookingCancelled событие отмены бронирования
type BookingCancelled struct {
	booking     *domain.Booking
	owner       *domain.User
	cancelledBy *domain.User // nil, если инициатор неизвестен
	reason      *string
	hasPayment  bool
	now         time.Time
}

// NewBookingCancelled создает событие отмены бронирования
// hasPayment определяет применимость возврата средств, now — момент отмены
// для расчета refund-статуса
func NewBookingCancelled(
	booking *domain.Booking,
	owner *domain.User,
	cancelledBy *domain.User,
	reason *string,
	hasPayment bool,
	now time.Time,
) *BookingCancelled {
	return &BookingCancelled{
		booking:     booking,
		owner:       owner,
		cancelledBy: cancelledBy,
		reason:      reason,
		hasPayment:  hasPayment,
		now:         now,
	}
}

// Name имя события
func (e *BookingCancelled) Name() string {
	return "booking.cancelled"
}

// Channels каналы доставки: админский канал, канал владельца и канал
// сотрудника (если назначен)
func (e *BookingCancelled) Channels() []string {
	channels := []string{
		ChannelBookings,
		UserChannel(e.booking.UserID),
	}

	if e.booking.HasStaff() {
		channels = append(channels, StaffChannel(*e.booking.StaffID))
	}

	return channels
}

// InitiatorRef инициатор отмены в payload
type InitiatorRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"` // admin, staff или customer
}

// CancelledServiceRef услуга в payload события отмены (без ID)
type CancelledServiceRef struct {
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}

// CancelledPayload данные события booking.cancelled
type CancelledPayload struct {
	ID           int64               `json:"id"`
	Service      CancelledServiceRef `json:"service"`
	OriginalDate string              `json:"original_date"`
	OriginalTime string              `json:"original_time"`
	CancelledAt  string              `json:"cancelled_at"`
	Reason       *string             `json:"reason"`
	InitiatedBy  *InitiatorRef       `json:"initiated_by"`
	Customer     UserRef             `json:"customer"`
	RefundStatus string              `json:"refund_status"`
	Message      string              `json:"message"`
}

// Payload данные события
func (e *BookingCancelled) Payload() interface{} {
	var initiatedBy *InitiatorRef
	if e.cancelledBy != nil {
		initiatedBy = &InitiatorRef{
			ID:   e.cancelledBy.ID,
			Name: e.cancelledBy.Name,
			Type: initiatorType(e.cancelledBy),
		}
	}

	refund := domain.RefundTier(e.booking.StartTime, e.now, e.hasPayment)

	return CancelledPayload{
		ID: e.booking.ID,
		Service: CancelledServiceRef{
			Name:     e.booking.ServiceName,
			Duration: e.booking.ServiceDurationMinutes,
		},
		OriginalDate: e.booking.StartTime.Format(domain.DateFormat),
		OriginalTime: e.booking.StartTime.Format(domain.TimeFormat),
		CancelledAt:  e.now.Format(domain.DateTimeFormat),
		Reason:       e.reason,
		InitiatedBy:  initiatedBy,
		Customer:     UserRef{ID: e.owner.ID, Name: e.owner.Name},
		RefundStatus: string(refund),
		Message:      e.notificationMessage(),
	}
}

// notificationMessage текст уведомления: если отмену выполнил не владелец,
// сообщение называет инициатора
func (e *BookingCancelled) notificationMessage() string {
	date := e.booking.StartTime.Format(domain.HumanDateFormat)

	if e.cancelledBy != nil && e.cancelledBy.ID != e.booking.UserID {
		return fmt.Sprintf("Your booking for %s on %s has been cancelled by %s",
			e.booking.ServiceName, date, e.cancelledBy.Name)
	}

	return fmt.Sprintf("Your booking for %s on %s has been cancelled",
		e.booking.ServiceName, date)
}

// ShouldBroadcast guard эмиссии: событие отправляется, если транспорт включен
func (e *BookingCancelled) ShouldBroadcast(transportEnabled bool) bool {
	return transportEnabled
}

// initiatorType определяет тип инициатора отмены для payload
func initiatorType(u *domain.User) string {
	if u.IsAdmin() {
		return "admin"
	}
	if u.IsStaff() {
		return "staff"
	}
	return "customer"
}
