package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	"github.com/bookwise-app/booking-backend/internal/policy"
	storage "github.com/bookwise-app/booking-backend/internal/infra/storage/booking"
	paymentClient "github.com/bookwise-app/booking-backend/internal/integrations/paymentservice"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
	"github.com/bookwise-app/booking-backend/pkg/ptr"
)

// --- Mocks ---

type mockBookingRepo struct {
	getByIDFn   func(ctx context.Context, id int64) (*domain.Booking, error)
	getByUserFn func(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error)
	updateFn    func(ctx context.Context, id int64, upd storage.BookingUpdate) (*domain.Booking, domain.ChangeSet, error)
	approveFn   func(ctx context.Context, id int64) (*domain.Booking, error)
	deleteFn    func(ctx context.Context, id int64) error
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockBookingRepo) GetByUser(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error) {
	return m.getByUserFn(ctx, filter, now)
}
func (m *mockBookingRepo) Update(ctx context.Context, id int64, upd storage.BookingUpdate) (*domain.Booking, domain.ChangeSet, error) {
	return m.updateFn(ctx, id, upd)
}
func (m *mockBookingRepo) Approve(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.approveFn(ctx, id)
}
func (m *mockBookingRepo) Delete(ctx context.Context, id int64) error {
	return m.deleteFn(ctx, id)
}

type mockUserRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.User, error)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return m.getByIDFn(ctx, id)
}

type mockPaymentClient struct {
	hasPaymentFn func(ctx context.Context, bookingID int64) (bool, error)
}

func (m *mockPaymentClient) HasPayment(ctx context.Context, bookingID int64) (bool, error) {
	return m.hasPaymentFn(ctx, bookingID)
}

type mockBroadcaster struct {
	events []events.Event
}

func (m *mockBroadcaster) Broadcast(ctx context.Context, event events.Event) error {
	m.events = append(m.events, event)
	return nil
}
type passthroughTxManager struct{}

func (passthroughTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
func (passthroughTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct{ now time.Time }

func (p fixedTimeProvider) Now() time.Time { return p.now }

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

// --- Fixtures ---

var svcNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func svcOwner() *domain.User {
	verifiedAt := svcNow.Add(-time.Hour)
	return &domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser, EmailVerifiedAt: &verifiedAt}
}

func svcAdmin() *domain.User {
	return &domain.User{ID: 1, Name: "Admin", Role: domain.RoleAdmin}
}

func svcManager() *domain.User {
	return &domain.User{ID: 3, Name: "Manager", Role: domain.RoleManager}
}

func svcBooking() *domain.Booking {
	return &domain.Booking{
		ID:        42,
		UserID:    7,
		Title:     "Haircut appointment",
		StartTime: svcNow.Add(48 * time.Hour),
		EndTime:   svcNow.Add(49 * time.Hour),
		Status:    domain.StatusPending,

		RequiresApproval: true,

		ServiceName:            "Haircut",
		ServiceDurationMinutes: 60,
	}
}

func newTestService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	payment PaymentServiceClient,
	broadcaster Broadcaster,
) *Service {
	svc := NewService(bookingRepo, userRepo, payment, broadcaster, passthroughTxManager{}, noopLogger{})
	svc.timeProvider = fixedTimeProvider{now: svcNow}
	return svc
}

// --- GetByID ---

func TestGetByID_OwnerAllowed(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.GetByID(context.Background(), 42, svcOwner())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.True(t, resp.IsUpcoming)
	assert.True(t, resp.IsRefundable)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	stranger := &domain.User{ID: 99, Role: domain.RoleUser}
	_, err := svc.GetByID(context.Background(), 42, stranger)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccessDenied)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, policy.ReasonNotOwner, denied.Reason)
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, storage.ErrBookingNotFound
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetByID(context.Background(), 42, svcOwner())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// --- GetUserBookings ---

func TestGetUserBookings_OwnListAllowed(t *testing.T) {
	repo := &mockBookingRepo{
		getByUserFn: func(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error) {
			assert.Equal(t, int64(7), filter.UserID)
			return []*domain.Booking{svcBooking()}, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 7}, svcOwner())

	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)
}

func TestGetUserBookings_ForeignListDenied(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 8}, svcOwner())

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetUserBookings_AdminSeesAnyList(t *testing.T) {
	repo := &mockBookingRepo{
		getByUserFn: func(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error) {
			return nil, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{UserID: 8}, svcAdmin())
	assert.NoError(t, err)
}

// --- Update ---

func TestUpdate_EmitsEventWithChanges(t *testing.T) {
	updated := svcBooking()
	updated.Title = "New title"

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
		updateFn: func(ctx context.Context, id int64, upd storage.BookingUpdate) (*domain.Booking, domain.ChangeSet, error) {
			return updated, domain.ChangeSet{"title": "New title"}, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return svcOwner(), nil
		},
	}
	broadcaster := &mockBroadcaster{}

	svc := newTestService(repo, users, nil, broadcaster)

	resp, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{
		Title: ptr.Ptr("New title"),
	}, svcOwner())

	require.NoError(t, err)
	assert.Equal(t, "New title", resp.Title)
	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "booking.updated", broadcaster.events[0].Name())
}

func TestUpdate_NoOpSkipsBroadcast(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
		updateFn: func(ctx context.Context, id int64, upd storage.BookingUpdate) (*domain.Booking, domain.ChangeSet, error) {
			return svcBooking(), domain.ChangeSet{}, nil
		},
	}
	broadcaster := &mockBroadcaster{}

	svc := newTestService(repo, nil, nil, broadcaster)

	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{
		Title: ptr.Ptr("Haircut appointment"),
	}, svcOwner())

	require.NoError(t, err)
	assert.Empty(t, broadcaster.events)
}

func TestUpdate_PastBookingDenied(t *testing.T) {
	past := svcBooking()
	past.StartTime = svcNow.Add(-2 * time.Hour)
	past.EndTime = svcNow.Add(-time.Hour)

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return past, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{
		Title: ptr.Ptr("New title"),
	}, svcOwner())

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, policy.ReasonPastModify, denied.Reason)
}

func TestUpdate_InvalidTimeWindow(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	// Новый start позже существующего end
	_, err := svc.Update(context.Background(), 42, &models.UpdateBookingRequest{
		StartTime: ptr.Ptr(svcNow.Add(72 * time.Hour)),
	}, svcOwner())

	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- Approve ---

func TestApprove_ManagerAllowed(t *testing.T) {
	approved := svcBooking()
	approved.Approved = true
	approved.Status = domain.StatusConfirmed

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
		approveFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return approved, nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			return svcOwner(), nil
		},
	}
	broadcaster := &mockBroadcaster{}

	svc := newTestService(repo, users, nil, broadcaster)

	resp, err := svc.Approve(context.Background(), 42, svcManager())

	require.NoError(t, err)
	assert.True(t, resp.Approved)
	assert.Equal(t, "confirmed", resp.Status)
	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "booking.updated", broadcaster.events[0].Name())
}

func TestApprove_RegularUserDenied(t *testing.T) {
	svc := newTestService(&mockBookingRepo{}, nil, nil, nil)

	_, err := svc.Approve(context.Background(), 42, svcOwner())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestApprove_AlreadyApproved(t *testing.T) {
	booking := svcBooking()
	booking.Approved = true
	booking.Status = domain.StatusConfirmed

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Approve(context.Background(), 42, svcManager())
	assert.ErrorIs(t, err, ErrAlreadyApproved)
}

func TestApprove_CancelledBookingRejected(t *testing.T) {
	booking := svcBooking()
	booking.Status = domain.StatusCancelled

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}

	svc := newTestService(repo, nil, nil, nil)

	_, err := svc.Approve(context.Background(), 42, svcManager())
	assert.ErrorIs(t, err, ErrInvalidStateTransition)
}

// --- Delete ---

func TestDelete_OwnerAllowed(t *testing.T) {
	deleted := false
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return false, nil
		},
	}

	svc := newTestService(repo, nil, payment, nil)

	err := svc.Delete(context.Background(), 42, svcOwner())

	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDelete_WithPaymentsDenied(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(repo, nil, payment, nil)

	err := svc.Delete(context.Background(), 42, svcOwner())

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, policy.ReasonHasPayments, denied.Reason)
}

func TestDelete_DegradedPaymentCheckBlocksDelete(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return false, paymentClient.ErrServiceDegraded
		},
	}

	svc := newTestService(repo, nil, payment, nil)

	// При недоступном PaymentService удаление блокируется консервативно
	err := svc.Delete(context.Background(), 42, svcOwner())
	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestDelete_AdminBypassesPaymentBlock(t *testing.T) {
	deleted := false
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return svcBooking(), nil
		},
		deleteFn: func(ctx context.Context, id int64) error {
			deleted = true
			return nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return true, nil
		},
	}

	svc := newTestService(repo, nil, payment, nil)

	err := svc.Delete(context.Background(), 42, svcAdmin())

	require.NoError(t, err)
	assert.True(t, deleted)
}
