package domain

import "time"

// BookingStatus represents the status of a booking
type BookingStatus string

const (
	StatusPending   BookingStatus = "pending"
	StatusConfirmed BookingStatus = "confirmed"
	StatusCancelled BookingStatus = "cancelled"
)

// Booking represents a scheduled reservation of a service for a time window
type Booking struct {
	ID      int64
	UserID  int64  // owner
	StaffID *int64 // assigned staff member (optional)

	ServiceID   *int64
	Title       string
	Description *string

	StartTime time.Time
	EndTime   time.Time

	Status           BookingStatus
	RequiresApproval bool
	Approved         bool

	// Denormalized service data for history and notifications
	ServiceName            string
	ServiceDurationMinutes int

	CancellationReason *string
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsRefundable returns true if the booking starts in the future and is not cancelled
func (b *Booking) IsRefundable(now time.Time) bool {
	return b.StartTime.After(now) && b.Status != StatusCancelled
}

// DurationMinutes returns the booking duration in whole minutes
func (b *Booking) DurationMinutes() int {
	return int(b.EndTime.Sub(b.StartTime).Minutes())
}

// IsActive returns true if now falls within [StartTime, EndTime], bounds inclusive
func (b *Booking) IsActive(now time.Time) bool {
	return !now.Before(b.StartTime) && !now.After(b.EndTime)
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsPast returns true if the booking has already started
func (b *Booking) IsPast(now time.Time) bool {
	return b.StartTime.Before(now)
}

// HasStaff returns true if a staff member is assigned to the booking
func (b *Booking) HasStaff() bool {
	return b.StaffID != nil
}

// CanTransitionTo reports whether the status machine allows moving to next.
// Allowed transitions: pending→confirmed, pending→cancelled, confirmed→cancelled.
// There is no transition out of cancelled.
func (b *Booking) CanTransitionTo(next BookingStatus) bool {
	switch b.Status {
	case StatusPending:
		return next == StatusConfirmed || next == StatusCancelled
	case StatusConfirmed:
		return next == StatusCancelled
	default:
		return false
	}
}

// Approve marks the booking approved and confirmed.
// Callers must check CanTransitionTo(StatusConfirmed) first; approving a
// cancelled booking is an invalid state transition.
func (b *Booking) Approve() {
	b.Approved = true
	b.Status = StatusConfirmed
}

// ChangeSet describes which booking fields changed during an update,
// keyed by column name with the new value
type ChangeSet map[string]interface{}

// Has returns true if the given field is present in the change set
func (c ChangeSet) Has(field string) bool {
	_, ok := c[field]
	return ok
}

// Empty returns true if nothing changed
func (c ChangeSet) Empty() bool {
	return len(c) == 0
}

// UserBookingsFilter filter for listing a user's bookings
type UserBookingsFilter struct {
	UserID       int64
	Status       *BookingStatus
	UpcomingOnly bool // only bookings with start_time in the future
}
