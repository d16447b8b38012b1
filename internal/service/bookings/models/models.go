package models

import (
	"errors"
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID       int64   `json:"userId"`
	Status       *string `json:"status,omitempty"`
	UpcomingOnly bool    `json:"upcomingOnly,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetUserBookingsRequest) ToDomainFilter() (domain.UserBookingsFilter, error) {
	filter := domain.UserBookingsFilter{
		UserID:       r.UserID,
		UpcomingOnly: r.UpcomingOnly,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// UpdateBookingRequest запрос на обновление бронирования
// nil-поля не изменяются
type UpdateBookingRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	StartTime   *time.Time `json:"startTime,omitempty"`
	EndTime     *time.Time `json:"endTime,omitempty"`
	StaffID     *int64     `json:"staffId,omitempty"`
}

// CancelBookingRequest запрос на отмену бронирования
type CancelBookingRequest struct {
	CancellationReason *string `json:"cancellationReason,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
// Производные поля (isRefundable, durationMinutes, isActive, isUpcoming)
// вычисляются на момент ответа и никогда не хранятся
type BookingResponse struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"userId"`
	StaffID     *int64  `json:"staffId,omitempty"`
	ServiceID   *int64  `json:"serviceId,omitempty"`
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601

	Status           string `json:"status"`
	RequiresApproval bool   `json:"requiresApproval"`
	Approved         bool   `json:"approved"`

	ServiceName            string `json:"serviceName"`
	ServiceDurationMinutes int    `json:"serviceDurationMinutes"`

	// Производные атрибуты
	DurationMinutes int  `json:"durationMinutes"`
	IsRefundable    bool `json:"isRefundable"`
	IsActive        bool `json:"isActive"`
	IsUpcoming      bool `json:"isUpcoming"`

	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        *string `json:"cancelledAt,omitempty"` // ISO 8601

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
// now используется для вычисления производных атрибутов
func FromDomainBooking(b *domain.Booking, now time.Time) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:          b.ID,
		UserID:      b.UserID,
		StaffID:     b.StaffID,
		ServiceID:   b.ServiceID,
		Title:       b.Title,
		Description: b.Description,

		StartTime: b.StartTime.Format(time.RFC3339),
		EndTime:   b.EndTime.Format(time.RFC3339),

		Status:           string(b.Status),
		RequiresApproval: b.RequiresApproval,
		Approved:         b.Approved,

		ServiceName:            b.ServiceName,
		ServiceDurationMinutes: b.ServiceDurationMinutes,

		DurationMinutes: b.DurationMinutes(),
		IsRefundable:    b.IsRefundable(now),
		IsActive:        b.IsActive(now),
		IsUpcoming:      b.StartTime.After(now),

		CancellationReason: b.CancellationReason,

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		cancelledStr := b.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &cancelledStr
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking, now time.Time) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking, now); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)

	switch s {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled:
		return s, nil
	default:
		return "", ErrInvalidStatus
	}
}
