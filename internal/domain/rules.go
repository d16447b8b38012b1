package domain

import (
	"strings"
	"time"
)

// BookingRules represents the business rules configuration for the booking
// system: working hours, slot granularity, booking limits and refund policy.
// Stored as a single record; Update applies partial changes.
type BookingRules struct {
	ID int64

	BusinessHoursStart int      // opening hour, 0-23
	BusinessHoursEnd   int      // closing hour, 1-24, exclusive
	OpenDays           []string // lowercase weekday names

	SlotIntervalMinutes int
	BufferMinutes       int // buffer between consecutive bookings

	MaxFutureDays           int // how far in advance a booking may start
	MinAdvanceNoticeHours   int
	CancellationWindowHours int
	MaxActivePerUser        int
	AutoConfirm             bool // skip approval, create bookings as confirmed

	FullRefundHours    int
	PartialRefundHours int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DefaultRules returns the rules applied when no record has been configured yet
func DefaultRules() *BookingRules {
	return &BookingRules{
		BusinessHoursStart:      DefaultBusinessHoursStart,
		BusinessHoursEnd:        DefaultBusinessHoursEnd,
		OpenDays:                append([]string(nil), DefaultOpenDays...),
		SlotIntervalMinutes:     DefaultSlotIntervalMinutes,
		BufferMinutes:           DefaultBufferMinutes,
		MaxFutureDays:           DefaultMaxFutureDays,
		MinAdvanceNoticeHours:   DefaultMinAdvanceNoticeHours,
		CancellationWindowHours: DefaultCancellationWindowHours,
		MaxActivePerUser:        DefaultMaxActivePerUser,
		AutoConfirm:             DefaultAutoConfirm,
		FullRefundHours:         DefaultFullRefundHours,
		PartialRefundHours:      DefaultPartialRefundHours,
	}
}

// IsOpenOn returns true if the business is open on the given weekday
func (r *BookingRules) IsOpenOn(day time.Weekday) bool {
	name := strings.ToLower(day.String())
	for _, d := range r.OpenDays {
		if d == name {
			return true
		}
	}
	return false
}

// WithinBusinessHours returns true if the whole [start, end] window falls
// inside the configured working hours of the start day
func (r *BookingRules) WithinBusinessHours(start, end time.Time) bool {
	if start.Hour() < r.BusinessHoursStart {
		return false
	}
	closing := time.Date(start.Year(), start.Month(), start.Day(),
		r.BusinessHoursEnd, 0, 0, 0, start.Location())
	return !end.After(closing)
}
