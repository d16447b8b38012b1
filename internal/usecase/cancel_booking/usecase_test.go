package cancel_booking

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
	"github.com/bookwise-app/booking-backend/pkg/ptr"
)

// --- Mocks ---

type mockBookingRepo struct {
	getByIDFn func(ctx context.Context, id int64) (*domain.Booking, error)
	cancelFn  func(ctx context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Booking, error)
}

func (m *mockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return m.getByIDFn(ctx, id)
}
func (m *mockBookingRepo) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Booking, error) {
	return m.cancelFn(ctx, id, reason, cancelledAt)
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

var ucNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func owner() *domain.User {
	return &domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser}
}

func confirmedBooking() *domain.Booking {
	return &domain.Booking{
		ID:        42,
		UserID:    7,
		Title:     "Haircut appointment",
		StartTime: ucNow.Add(48 * time.Hour),
		EndTime:   ucNow.Add(49 * time.Hour),
		Status:    domain.StatusConfirmed,

		ServiceName:            "Haircut",
		ServiceDurationMinutes: 60,
	}
}

func cancelledFrom(b *domain.Booking, reason *string, at time.Time) *domain.Booking {
	out := *b
	out.Status = domain.StatusCancelled
	out.CancellationReason = reason
	out.CancelledAt = &at
	return &out
}

func newTestUseCase(
	repo BookingRepository,
	users UserRepository,
	payment PaymentServiceClient,
	broadcaster Broadcaster,
) *UseCase {
	uc := NewUseCase(repo, users, payment, broadcaster, passthroughTxManager{}, noopLogger{})
	uc.timeProvider = fixedTimeProvider{now: ucNow}
	return uc
}

// --- Tests ---

func TestExecute_OwnerCancelsWithRefund(t *testing.T) {
	reason := "Schedule conflict"
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return confirmedBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, r *string, cancelledAt time.Time) (*domain.Booking, error) {
			return cancelledFrom(confirmedBooking(), r, cancelledAt), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return true, nil
		},
	}
	broadcaster := &mockBroadcaster{}

	uc := newTestUseCase(repo, nil, payment, broadcaster)

	resp, err := uc.Execute(context.Background(), &Request{
		BookingID:          42,
		CancellationReason: &reason,
	}, owner())

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	assert.Equal(t, &reason, resp.CancellationReason)
	// Старт через 48 часов — полный возврат
	assert.Equal(t, "full_refund_pending", resp.RefundStatus)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "booking.cancelled", broadcaster.events[0].Name())
}

func TestExecute_NoPaymentMeansNotApplicable(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return confirmedBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, r *string, cancelledAt time.Time) (*domain.Booking, error) {
			return cancelledFrom(confirmedBooking(), r, cancelledAt), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return false, nil
		},
	}

	uc := newTestUseCase(repo, nil, payment, &mockBroadcaster{})

	resp, err := uc.Execute(context.Background(), &Request{BookingID: 42}, owner())

	require.NoError(t, err)
	assert.Equal(t, "not_applicable", resp.RefundStatus)
}

func TestExecute_DegradedPaymentCheckAssumesNoPayment(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return confirmedBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, r *string, cancelledAt time.Time) (*domain.Booking, error) {
			return cancelledFrom(confirmedBooking(), r, cancelledAt), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return false, paymentClient.ErrServiceDegraded
		},
	}

	uc := newTestUseCase(repo, nil, payment, &mockBroadcaster{})

	// Отмена не блокируется недоступностью PaymentService
	resp, err := uc.Execute(context.Background(), &Request{BookingID: 42}, owner())

	require.NoError(t, err)
	assert.Equal(t, "not_applicable", resp.RefundStatus)
}

func TestExecute_NotFound(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return nil, storage.ErrBookingNotFound
		},
	}

	uc := newTestUseCase(repo, nil, nil, &mockBroadcaster{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 42}, owner())
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestExecute_AlreadyCancelledDenied(t *testing.T) {
	booking := confirmedBooking()
	booking.Status = domain.StatusCancelled

	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return booking, nil
		},
	}

	uc := newTestUseCase(repo, nil, nil, &mockBroadcaster{})

	_, err := uc.Execute(context.Background(), &Request{BookingID: 42}, owner())

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, policy.ReasonNotCancellable, denied.Reason)
}

func TestExecute_StrangerDenied(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return confirmedBooking(), nil
		},
	}

	uc := newTestUseCase(repo, nil, nil, &mockBroadcaster{})

	stranger := &domain.User{ID: 99, Role: domain.RoleUser}
	_, err := uc.Execute(context.Background(), &Request{BookingID: 42}, stranger)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestExecute_AdminCancelLoadsOwnerForEvent(t *testing.T) {
	repo := &mockBookingRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.Booking, error) {
			return confirmedBooking(), nil
		},
		cancelFn: func(ctx context.Context, id int64, r *string, cancelledAt time.Time) (*domain.Booking, error) {
			return cancelledFrom(confirmedBooking(), r, cancelledAt), nil
		},
	}
	users := &mockUserRepo{
		getByIDFn: func(ctx context.Context, id int64) (*domain.User, error) {
			assert.Equal(t, int64(7), id)
			return owner(), nil
		},
	}
	payment := &mockPaymentClient{
		hasPaymentFn: func(ctx context.Context, bookingID int64) (bool, error) {
			return false, nil
		},
	}
	broadcaster := &mockBroadcaster{}

	uc := newTestUseCase(repo, users, payment, broadcaster)

	admin := &domain.User{ID: 1, Name: "Root Admin", Role: domain.RoleAdmin}
	_, err := uc.Execute(context.Background(), &Request{BookingID: 42}, admin)

	require.NoError(t, err)
	require.Len(t, broadcaster.events, 1)

	payload, ok := broadcaster.events[0].Payload().(events.CancelledPayload)
	require.True(t, ok)
	assert.Equal(t, "Alice", payload.Customer.Name)
	assert.Equal(t, "admin", payload.InitiatedBy.Type)
}

func TestExecute_ReasonTooLong(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, nil, nil, &mockBroadcaster{})

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	_, err := uc.Execute(context.Background(), &Request{
		BookingID:          42,
		CancellationReason: ptr.Ptr(string(long)),
	}, owner())

	assert.ErrorIs(t, err, ErrInvalidInput)
}
