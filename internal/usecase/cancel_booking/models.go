package cancel_booking

import (
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// Request запрос на отмену бронирования
type Request struct {
	BookingID          int64
	CancellationReason *string
}

// Response ответ с отмененным бронированием и статусом возврата средств
type Response struct {
	ID     int64  `json:"id"`
	UserID int64  `json:"userId"`
	Title  string `json:"title"`

	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601

	Status             string  `json:"status"`
	CancellationReason *string `json:"cancellationReason,omitempty"`
	CancelledAt        string  `json:"cancelledAt"` // ISO 8601

	RefundStatus string `json:"refundStatus"`

	UpdatedAt time.Time `json:"updatedAt"`
}

// toResponse конвертирует domain модель в response
func toResponse(b *domain.Booking, refundStatus domain.RefundStatus) *Response {
	resp := &Response{
		ID:     b.ID,
		UserID: b.UserID,
		Title:  b.Title,

		StartTime: b.StartTime.Format(time.RFC3339),
		EndTime:   b.EndTime.Format(time.RFC3339),

		Status:             string(b.Status),
		CancellationReason: b.CancellationReason,

		RefundStatus: string(refundStatus),

		UpdatedAt: b.UpdatedAt,
	}

	if b.CancelledAt != nil {
		resp.CancelledAt = b.CancelledAt.Format(time.RFC3339)
	}

	return resp
}
