package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultRules(t *testing.T) {
	rules := DefaultRules()

	assert.Equal(t, 9, rules.BusinessHoursStart)
	assert.Equal(t, 17, rules.BusinessHoursEnd)
	assert.Equal(t, []string{"monday", "tuesday", "wednesday", "thursday", "friday"}, rules.OpenDays)
	assert.Equal(t, 30, rules.SlotIntervalMinutes)
	assert.Equal(t, 15, rules.BufferMinutes)
	assert.Equal(t, 90, rules.MaxFutureDays)
	assert.Equal(t, 2, rules.MinAdvanceNoticeHours)
	assert.Equal(t, 24, rules.CancellationWindowHours)
	assert.Equal(t, 5, rules.MaxActivePerUser)
	assert.False(t, rules.AutoConfirm)
	assert.Equal(t, 48, rules.FullRefundHours)
	assert.Equal(t, 24, rules.PartialRefundHours)
}

func TestBookingRules_IsOpenOn(t *testing.T) {
	rules := DefaultRules()

	assert.True(t, rules.IsOpenOn(time.Monday))
	assert.True(t, rules.IsOpenOn(time.Friday))
	assert.False(t, rules.IsOpenOn(time.Saturday))
	assert.False(t, rules.IsOpenOn(time.Sunday))
}

func TestBookingRules_WithinBusinessHours(t *testing.T) {
	rules := DefaultRules() // 9:00 - 17:00

	day := time.Date(2025, 6, 10, 0, 0, 0, 0, time.UTC)

	at := func(hour, minute int) time.Time {
		return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	}

	assert.True(t, rules.WithinBusinessHours(at(9, 0), at(10, 0)))
	assert.True(t, rules.WithinBusinessHours(at(16, 0), at(17, 0)))
	assert.False(t, rules.WithinBusinessHours(at(8, 30), at(9, 30)))
	assert.False(t, rules.WithinBusinessHours(at(16, 30), at(17, 30)))
}
