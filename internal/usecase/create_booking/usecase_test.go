package create_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	"github.com/bookwise-app/booking-backend/internal/policy"
)

// --- Mocks ---

type mockBookingRepo struct {
	createFn            func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	countActiveByUserFn func(ctx context.Context, userID int64, now time.Time) (int, error)
}

func (m *mockBookingRepo) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	return m.createFn(ctx, booking)
}
func (m *mockBookingRepo) CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	return m.countActiveByUserFn(ctx, userID, now)
}

type mockRulesProvider struct {
	rules *domain.BookingRules
}

func (m *mockRulesProvider) GetDomain(ctx context.Context) (*domain.BookingRules, error) {
	return m.rules, nil
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

// Вторник, рабочий день
var ucNow = time.Date(2025, 6, 10, 8, 0, 0, 0, time.UTC)

func verifiedUser() *domain.User {
	verifiedAt := ucNow.Add(-24 * time.Hour)
	return &domain.User{ID: 7, Name: "Alice", Role: domain.RoleUser, EmailVerifiedAt: &verifiedAt}
}

func validRequest() *Request {
	// Среда 11 июня, 10:00-11:00 — внутри рабочих часов, уведомление соблюдено
	return &Request{
		Title:     "Haircut appointment",
		StartTime: time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2025, 6, 11, 11, 0, 0, 0, time.UTC),

		ServiceName:            "Haircut",
		ServiceDurationMinutes: 60,
	}
}

func newTestUseCase(repo BookingRepository, rules *domain.BookingRules, broadcaster Broadcaster) *UseCase {
	uc := NewUseCase(repo, &mockRulesProvider{rules: rules}, broadcaster, passthroughTxManager{}, noopLogger{})
	uc.timeProvider = fixedTimeProvider{now: ucNow}
	return uc
}

// --- Tests ---

func TestExecute_CreatesPendingBookingByDefault(t *testing.T) {
	var created *domain.Booking
	repo := &mockBookingRepo{
		countActiveByUserFn: func(ctx context.Context, userID int64, now time.Time) (int, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			booking.ID = 42
			created = booking
			return booking, nil
		},
	}
	broadcaster := &mockBroadcaster{}

	uc := newTestUseCase(repo, domain.DefaultRules(), broadcaster)

	resp, err := uc.Execute(context.Background(), validRequest(), verifiedUser())

	require.NoError(t, err)
	assert.Equal(t, int64(42), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.True(t, resp.RequiresApproval)
	assert.False(t, resp.Approved)
	assert.Equal(t, domain.StatusPending, created.Status)

	require.Len(t, broadcaster.events, 1)
	assert.Equal(t, "booking.created", broadcaster.events[0].Name())
}

func TestExecute_AutoConfirmSkipsApproval(t *testing.T) {
	repo := &mockBookingRepo{
		countActiveByUserFn: func(ctx context.Context, userID int64, now time.Time) (int, error) {
			return 0, nil
		},
		createFn: func(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
			booking.ID = 42
			return booking, nil
		},
	}

	rules := domain.DefaultRules()
	rules.AutoConfirm = true

	uc := newTestUseCase(repo, rules, &mockBroadcaster{})

	resp, err := uc.Execute(context.Background(), validRequest(), verifiedUser())

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	assert.False(t, resp.RequiresApproval)
	assert.True(t, resp.Approved)
}

func TestExecute_UnverifiedEmailDenied(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})

	unverified := &domain.User{ID: 8, Role: domain.RoleUser}
	_, err := uc.Execute(context.Background(), validRequest(), unverified)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAccessDenied)

	var denied *DeniedError
	require.ErrorAs(t, err, &denied)
	assert.Equal(t, policy.ReasonEmailUnverified, denied.Reason)
}

func TestExecute_ActiveBookingsLimit(t *testing.T) {
	repo := &mockBookingRepo{
		countActiveByUserFn: func(ctx context.Context, userID int64, now time.Time) (int, error) {
			return 5, nil
		},
	}

	uc := newTestUseCase(repo, domain.DefaultRules(), &mockBroadcaster{})

	_, err := uc.Execute(context.Background(), validRequest(), verifiedUser())
	assert.ErrorIs(t, err, ErrTooManyActiveBookings)
}

func TestExecute_ClosedDayRejected(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})

	req := validRequest()
	// Суббота 14 июня
	req.StartTime = time.Date(2025, 6, 14, 10, 0, 0, 0, time.UTC)
	req.EndTime = time.Date(2025, 6, 14, 11, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req, verifiedUser())
	assert.ErrorIs(t, err, ErrClosedDay)
}

func TestExecute_OutsideBusinessHoursRejected(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})

	req := validRequest()
	// 16:30-17:30 выходит за закрытие в 17:00
	req.StartTime = time.Date(2025, 6, 11, 16, 30, 0, 0, time.UTC)
	req.EndTime = time.Date(2025, 6, 11, 17, 30, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req, verifiedUser())
	assert.ErrorIs(t, err, ErrOutsideBusinessHours)
}

func TestExecute_TooFarInFutureRejected(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})

	req := validRequest()
	req.StartTime = ucNow.AddDate(0, 0, 91)
	req.EndTime = req.StartTime.Add(time.Hour)

	_, err := uc.Execute(context.Background(), req, verifiedUser())
	assert.ErrorIs(t, err, ErrDateTooFarInFuture)
}

func TestExecute_AdvanceNoticeRejected(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})

	req := validRequest()
	// Старт через час при требуемых двух часах уведомления
	req.StartTime = time.Date(2025, 6, 10, 9, 0, 0, 0, time.UTC)
	req.EndTime = time.Date(2025, 6, 10, 10, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req, verifiedUser())
	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ValidationErrors(t *testing.T) {
	uc := newTestUseCase(&mockBookingRepo{}, domain.DefaultRules(), &mockBroadcaster{})
	actor := verifiedUser()

	tests := []struct {
		name   string
		mutate func(req *Request)
	}{
		{"empty title", func(req *Request) { req.Title = "" }},
		{"end before start", func(req *Request) { req.EndTime = req.StartTime.Add(-time.Hour) }},
		{"end equals start", func(req *Request) { req.EndTime = req.StartTime }},
		{"zero start", func(req *Request) { req.StartTime = time.Time{} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := uc.Execute(context.Background(), req, actor)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
