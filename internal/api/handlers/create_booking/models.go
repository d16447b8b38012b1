package create_booking

import (
	"fmt"
	"time"

	createUC "github.com/bookwise-app/booking-backend/internal/usecase/create_booking"
)

// CreateBookingRequest тело запроса на создание бронирования
type CreateBookingRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`

	StartTime string `json:"startTime"` // ISO 8601
	EndTime   string `json:"endTime"`   // ISO 8601

	StaffID   *int64 `json:"staffId,omitempty"`
	ServiceID *int64 `json:"serviceId,omitempty"`

	ServiceName            string `json:"serviceName,omitempty"`
	ServiceDurationMinutes int    `json:"serviceDurationMinutes,omitempty"`
}

// toUseCaseRequest конвертирует HTTP-модель в запрос use case
func (r *CreateBookingRequest) toUseCaseRequest() (*createUC.Request, error) {
	startTime, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid startTime: %v", err)
	}

	endTime, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("invalid endTime: %v", err)
	}

	return &createUC.Request{
		Title:       r.Title,
		Description: r.Description,

		StartTime: startTime,
		EndTime:   endTime,

		StaffID:   r.StaffID,
		ServiceID: r.ServiceID,

		ServiceName:            r.ServiceName,
		ServiceDurationMinutes: r.ServiceDurationMinutes,
	}, nil
}
