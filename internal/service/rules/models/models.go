package models

import (
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// UpdateRulesRequest запрос на частичное обновление бизнес-правил
// nil-поля не изменяются
type UpdateRulesRequest struct {
	BusinessHoursStart *int      `json:"businessHoursStart,omitempty"`
	BusinessHoursEnd   *int      `json:"businessHoursEnd,omitempty"`
	OpenDays           *[]string `json:"openDays,omitempty"`

	SlotIntervalMinutes *int `json:"slotIntervalMinutes,omitempty"`
	BufferMinutes       *int `json:"bufferMinutes,omitempty"`

	MaxFutureDays           *int  `json:"maxFutureDays,omitempty"`
	MinAdvanceNoticeHours   *int  `json:"minAdvanceNoticeHours,omitempty"`
	CancellationWindowHours *int  `json:"cancellationWindowHours,omitempty"`
	MaxActivePerUser        *int  `json:"maxActivePerUser,omitempty"`
	AutoConfirm             *bool `json:"autoConfirm,omitempty"`

	FullRefundHours    *int `json:"fullRefundHours,omitempty"`
	PartialRefundHours *int `json:"partialRefundHours,omitempty"`
}

// RulesResponse ответ с текущими бизнес-правилами
type RulesResponse struct {
	BusinessHoursStart int      `json:"businessHoursStart"`
	BusinessHoursEnd   int      `json:"businessHoursEnd"`
	OpenDays           []string `json:"openDays"`

	SlotIntervalMinutes int `json:"slotIntervalMinutes"`
	BufferMinutes       int `json:"bufferMinutes"`

	MaxFutureDays           int  `json:"maxFutureDays"`
	MinAdvanceNoticeHours   int  `json:"minAdvanceNoticeHours"`
	CancellationWindowHours int  `json:"cancellationWindowHours"`
	MaxActivePerUser        int  `json:"maxActivePerUser"`
	AutoConfirm             bool `json:"autoConfirm"`

	FullRefundHours    int `json:"fullRefundHours"`
	PartialRefundHours int `json:"partialRefundHours"`

	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// FromDomainRules конвертирует domain модель в DTO
func FromDomainRules(r *domain.BookingRules) *RulesResponse {
	if r == nil {
		return nil
	}

	resp := &RulesResponse{
		BusinessHoursStart:      r.BusinessHoursStart,
		BusinessHoursEnd:        r.BusinessHoursEnd,
		OpenDays:                append([]string(nil), r.OpenDays...),
		SlotIntervalMinutes:     r.SlotIntervalMinutes,
		BufferMinutes:           r.BufferMinutes,
		MaxFutureDays:           r.MaxFutureDays,
		MinAdvanceNoticeHours:   r.MinAdvanceNoticeHours,
		CancellationWindowHours: r.CancellationWindowHours,
		MaxActivePerUser:        r.MaxActivePerUser,
		AutoConfirm:             r.AutoConfirm,
		FullRefundHours:         r.FullRefundHours,
		PartialRefundHours:      r.PartialRefundHours,
	}

	if !r.UpdatedAt.IsZero() {
		updatedAt := r.UpdatedAt
		resp.UpdatedAt = &updatedAt
	}

	return resp
}
