package update_booking

import (
	"fmt"
	"time"

	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

// UpdateBookingRequest тело запроса на обновление бронирования
// Отсутствующие поля не изменяются
type UpdateBookingRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	StartTime   *string `json:"startTime,omitempty"` // ISO 8601
	EndTime     *string `json:"endTime,omitempty"`   // ISO 8601
	StaffID     *int64  `json:"staffId,omitempty"`
}

// toServiceRequest конвертирует HTTP-модель в запрос сервиса
func (r *UpdateBookingRequest) toServiceRequest() (*models.UpdateBookingRequest, error) {
	req := &models.UpdateBookingRequest{
		Title:       r.Title,
		Description: r.Description,
		StaffID:     r.StaffID,
	}

	if r.StartTime != nil {
		startTime, err := time.Parse(time.RFC3339, *r.StartTime)
		if err != nil {
			return nil, fmt.Errorf("invalid startTime: %v", err)
		}
		req.StartTime = &startTime
	}

	if r.EndTime != nil {
		endTime, err := time.Parse(time.RFC3339, *r.EndTime)
		if err != nil {
			return nil, fmt.Errorf("invalid endTime: %v", err)
		}
		req.EndTime = &endTime
	}

	return req, nil
}
