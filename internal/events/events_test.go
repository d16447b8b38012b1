package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/pkg/ptr"
)

var (
	eventNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

	eventOwner = &domain.User{ID: 7, Name: "Alice Johnson", Email: "alice@example.com", Role: domain.RoleUser}
	eventStaff = &domain.User{ID: 3, Name: "Bob Smith", Role: domain.RoleManager}
	eventAdmin = &domain.User{ID: 1, Name: "Root Admin", Role: domain.RoleAdmin}
)

func testBooking() *domain.Booking {
	return &domain.Booking{
		ID:     42,
		UserID: eventOwner.ID,

		Title:     "Haircut appointment",
		StartTime: time.Date(2025, 6, 12, 14, 30, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 12, 15, 30, 0, 0, time.UTC),
		Status:    domain.StatusConfirmed,

		ServiceName:            "Haircut",
		ServiceDurationMinutes: 60,

		CreatedAt: eventNow,
		UpdatedAt: eventNow,
	}
}

func TestBookingCreated_Channels(t *testing.T) {
	booking := testBooking()
	// Канал сотрудника не добавляется, даже когда сотрудник назначен
	booking.StaffID = ptr.Ptr(eventStaff.ID)

	event := NewBookingCreated(booking, eventOwner)

	assert.Equal(t, []string{"bookings", "user.7"}, event.Channels())
}

func TestBookingCreated_Payload(t *testing.T) {
	event := NewBookingCreated(testBooking(), eventOwner)

	payload, ok := event.Payload().(CreatedPayload)
	require.True(t, ok)

	assert.Equal(t, int64(42), payload.ID)
	assert.Equal(t, "Alice Johnson", payload.User.Name)
	assert.Equal(t, "alice@example.com", payload.User.Email)
	assert.Equal(t, "Haircut", payload.Service)
	assert.Equal(t, "2025-06-12", payload.Date)
	assert.Equal(t, "14:30", payload.Time)
	assert.Equal(t, "confirmed", payload.Status)
	assert.Equal(t, "2025-06-10 12:00:00", payload.CreatedAt)
	assert.Equal(t, "New booking created for Haircut", payload.Message)
}

func TestBookingCreated_ShouldBroadcast(t *testing.T) {
	event := NewBookingCreated(testBooking(), eventOwner)

	assert.True(t, event.ShouldBroadcast(true))
	assert.False(t, event.ShouldBroadcast(false))
}

func TestBookingUpdated_Channels(t *testing.T) {
	booking := testBooking()
	event := NewBookingUpdated(booking, eventOwner, nil, domain.ChangeSet{"title": "x"})
	assert.Equal(t, []string{"bookings", "user.7"}, event.Channels())

	booking.StaffID = ptr.Ptr(eventStaff.ID)
	event = NewBookingUpdated(booking, eventOwner, eventStaff, domain.ChangeSet{"title": "x"})
	assert.Equal(t, []string{"bookings", "user.7", "staff.3"}, event.Channels())
}

func TestBookingUpdated_MessagePrecedence(t *testing.T) {
	booking := testBooking()

	tests := []struct {
		name    string
		changes domain.ChangeSet
		want    string
	}{
		{
			"status confirmed",
			domain.ChangeSet{"status": "confirmed"},
			"Your booking has been confirmed",
		},
		{
			"status cancelled",
			domain.ChangeSet{"status": "cancelled"},
			"Your booking has been cancelled",
		},
		{
			"status rescheduled",
			domain.ChangeSet{"status": "rescheduled"},
			"Your booking has been rescheduled",
		},
		{
			"unknown status value",
			domain.ChangeSet{"status": "archived"},
			"Your booking status has been updated",
		},
		{
			// Статус имеет приоритет над изменением времени
			"status wins over time change",
			domain.ChangeSet{"status": "confirmed", "start_time": "15:00"},
			"Your booking has been confirmed",
		},
		{
			"date change",
			domain.ChangeSet{"booking_date": "2025-06-13"},
			"Your booking time has been changed",
		},
		{
			"time change",
			domain.ChangeSet{"start_time": "15:00"},
			"Your booking time has been changed",
		},
		{
			"details only",
			domain.ChangeSet{"title": "New title"},
			"Your booking details have been updated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := NewBookingUpdated(booking, eventOwner, nil, tt.changes)
			payload, ok := event.Payload().(UpdatedPayload)
			require.True(t, ok)
			assert.Equal(t, tt.want, payload.Message)
		})
	}
}

func TestBookingUpdated_ShouldBroadcast(t *testing.T) {
	booking := testBooking()

	withChanges := NewBookingUpdated(booking, eventOwner, nil, domain.ChangeSet{"title": "x"})
	assert.True(t, withChanges.ShouldBroadcast(true))
	assert.False(t, withChanges.ShouldBroadcast(false))

	// No-op обновление не отправляется даже при включенном транспорте
	noOp := NewBookingUpdated(booking, eventOwner, nil, domain.ChangeSet{})
	assert.False(t, noOp.ShouldBroadcast(true))
}

func TestBookingCancelled_Payload(t *testing.T) {
	booking := testBooking()
	reason := "Schedule conflict"

	event := NewBookingCancelled(booking, eventOwner, eventOwner, &reason, true, eventNow)

	payload, ok := event.Payload().(CancelledPayload)
	require.True(t, ok)

	assert.Equal(t, int64(42), payload.ID)
	assert.Equal(t, "Haircut", payload.Service.Name)
	assert.Equal(t, 60, payload.Service.Duration)
	assert.Equal(t, "2025-06-12", payload.OriginalDate)
	assert.Equal(t, "14:30", payload.OriginalTime)
	assert.Equal(t, "2025-06-10 12:00:00", payload.CancelledAt)
	assert.Equal(t, &reason, payload.Reason)
	assert.Equal(t, "customer", payload.InitiatedBy.Type)
	// Старт через ~50 часов — полный возврат
	assert.Equal(t, "full_refund_pending", payload.RefundStatus)
	assert.Equal(t, "Your booking for Haircut on Jun 12, 2025 has been cancelled", payload.Message)
}

func TestBookingCancelled_MessageNamesForeignInitiator(t *testing.T) {
	booking := testBooking()

	event := NewBookingCancelled(booking, eventOwner, eventAdmin, nil, false, eventNow)

	payload, ok := event.Payload().(CancelledPayload)
	require.True(t, ok)

	assert.Equal(t, "admin", payload.InitiatedBy.Type)
	assert.Equal(t, "not_applicable", payload.RefundStatus)
	assert.Equal(t, "Your booking for Haircut on Jun 12, 2025 has been cancelled by Root Admin", payload.Message)
}

func TestBookingCancelled_RefundTiers(t *testing.T) {
	booking := testBooking()

	// Старт ровно через 24 часа — частичный возврат
	booking.StartTime = eventNow.Add(24 * time.Hour)
	event := NewBookingCancelled(booking, eventOwner, eventOwner, nil, true, eventNow)
	payload := event.Payload().(CancelledPayload)
	assert.Equal(t, "partial_refund_pending", payload.RefundStatus)

	// Старт через 30 минут — без возврата
	booking.StartTime = eventNow.Add(30 * time.Minute)
	event = NewBookingCancelled(booking, eventOwner, eventOwner, nil, true, eventNow)
	payload = event.Payload().(CancelledPayload)
	assert.Equal(t, "no_refund", payload.RefundStatus)
}

func TestStaffInitiatorType(t *testing.T) {
	booking := testBooking()
	booking.StaffID = ptr.Ptr(eventStaff.ID)

	event := NewBookingCancelled(booking, eventOwner, eventStaff, nil, false, eventNow)
	payload := event.Payload().(CancelledPayload)

	assert.Equal(t, "staff", payload.InitiatedBy.Type)
	assert.Equal(t, []string{"bookings", "user.7", "staff.3"}, event.Channels())
}
