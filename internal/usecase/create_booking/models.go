package create_booking

import (
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// Request запрос на создание бронирования
type Request struct {
	Title       string
	Description *string

	StartTime time.Time
	EndTime   time.Time

	StaffID   *int64
	ServiceID *int64

	ServiceName            string
	ServiceDurationMinutes int
}

// Response ответ с созданным бронированием
type Response struct {
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

	DurationMinutes int  `json:"durationMinutes"`
	IsRefundable    bool `json:"isRefundable"`
	IsUpcoming      bool `json:"isUpcoming"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// toResponse конвертирует domain модель в response
func toResponse(b *domain.Booking, now time.Time) *Response {
	return &Response{
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
		IsUpcoming:      b.StartTime.After(now),

		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}
