package create_booking

import (
	"fmt"
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if len(req.Title) == 0 {
		return fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if len(req.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}
	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}
	if req.EndTime.IsZero() {
		return fmt.Errorf("%w: endTime is required", ErrInvalidInput)
	}
	if !req.EndTime.After(req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}

	if req.StaffID != nil && *req.StaffID <= 0 {
		return fmt.Errorf("%w: staffId must be positive", ErrInvalidInput)
	}
	if req.ServiceID != nil && *req.ServiceID <= 0 {
		return fmt.Errorf("%w: serviceId must be positive", ErrInvalidInput)
	}
	if req.ServiceDurationMinutes < 0 {
		return fmt.Errorf("%w: serviceDurationMinutes must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateSchedule проверяет интервал бронирования против бизнес-правил:
// бронирование в будущем, не дальше maxFutureDays, в рабочий день,
// внутри рабочих часов и с соблюдением минимального уведомления
func validateSchedule(req *Request, rules *domain.BookingRules, now time.Time) error {
	if !req.StartTime.After(now) {
		return fmt.Errorf("%w: startTime must be in the future", ErrInvalidInput)
	}

	if rules.MaxFutureDays > 0 {
		maxStart := now.AddDate(0, 0, rules.MaxFutureDays)
		if req.StartTime.After(maxStart) {
			return fmt.Errorf("%w: can only book %d days in advance", ErrDateTooFarInFuture, rules.MaxFutureDays)
		}
	}

	if !rules.IsOpenOn(req.StartTime.Weekday()) {
		return ErrClosedDay
	}

	if !rules.WithinBusinessHours(req.StartTime, req.EndTime) {
		return fmt.Errorf("%w: bookings are accepted between %d:00 and %d:00",
			ErrOutsideBusinessHours, rules.BusinessHoursStart, rules.BusinessHoursEnd)
	}

	if rules.MinAdvanceNoticeHours > 0 {
		minStart := now.Add(time.Duration(rules.MinAdvanceNoticeHours) * time.Hour)
		if req.StartTime.Before(minStart) {
			return fmt.Errorf("%w: must book at least %d hours in advance",
				ErrTooLateToBook, rules.MinAdvanceNoticeHours)
		}
	}

	return nil
}
