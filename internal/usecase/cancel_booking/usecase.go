package cancel_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	storage "github.com/bookwise-app/booking-backend/internal/infra/storage/booking"
	userRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/user"
	paymentClient "github.com/bookwise-app/booking-backend/internal/integrations/paymentservice"
	"github.com/bookwise-app/booking-backend/internal/policy"
)

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	userRepo      UserRepository
	paymentClient PaymentServiceClient
	broadcaster   Broadcaster
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	paymentClient PaymentServiceClient,
	broadcaster Broadcaster,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		paymentClient: paymentClient,
		broadcaster:   broadcaster,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case отмены бронирования
// Бронирование блокируется на время проверки и смены статуса; событие
// booking.cancelled несет расчетный refund-статус
func (uc *UseCase) Execute(ctx context.Context, req *Request, actor *domain.User) (*Response, error) {
	uc.logger.Info("CancelBooking: booking=%d, user=%d", req.BookingID, actor.ID)

	// 1. Валидация входных данных
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: bookingID must be positive", ErrInvalidInput)
	}
	if req.CancellationReason != nil && len(*req.CancellationReason) > domain.MaxCancellationReasonLength {
		return nil, fmt.Errorf("%w: cancellationReason must not exceed %d characters",
			ErrInvalidInput, domain.MaxCancellationReasonLength)
	}

	now := uc.timeProvider.Now()

	var cancelled *domain.Booking

	// 2. Проверка и смена статуса под блокировкой строки
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: failed to get booking: %v", ErrInternal, err)
		}

		decision := policy.Decide(policy.ActionCancel, policy.Input{
			Actor:   actor,
			Booking: booking,
			Now:     now,
		})
		if !decision.Allowed {
			return &DeniedError{Reason: decision.Reason}
		}

		if !booking.CanTransitionTo(domain.StatusCancelled) {
			return fmt.Errorf("%w: cannot cancel booking in status %q",
				ErrInvalidStateTransition, booking.Status)
		}

		cancelled, err = uc.bookingRepo.Cancel(txCtx, req.BookingID, req.CancellationReason, now)
		if err != nil {
			return fmt.Errorf("%w: failed to cancel booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) || errors.Is(err, ErrAccessDenied) ||
			errors.Is(err, ErrInvalidStateTransition) {
			uc.logger.Warn("CancelBooking: booking=%d rejected: %v", req.BookingID, err)
		} else {
			uc.logger.Error("CancelBooking: booking=%d failed: %v", req.BookingID, err)
		}
		return nil, err
	}

	// 3. Определяем применимость возврата средств
	// При недоступности PaymentService возврат считается неприменимым:
	// refund-статус в уведомлении информационный, а не транзакционный
	hasPayment, err := uc.paymentClient.HasPayment(ctx, req.BookingID)
	if err != nil {
		if errors.Is(err, paymentClient.ErrServiceDegraded) {
			uc.logger.Warn("CancelBooking: payment check degraded for booking=%d, assuming no payment", req.BookingID)
			hasPayment = false
		} else {
			uc.logger.Error("CancelBooking: payment check failed for booking=%d: %v", req.BookingID, err)
			hasPayment = false
		}
	}

	refundStatus := domain.RefundTier(cancelled.StartTime, now, hasPayment)

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%d, refund=%s",
		cancelled.ID, refundStatus)

	// 4. Отправляем событие booking.cancelled (ошибки доставки не фатальны)
	uc.emitCancelled(ctx, cancelled, actor, req.CancellationReason, hasPayment, now)

	return toResponse(cancelled, refundStatus), nil
}

// emitCancelled строит и отправляет событие booking.cancelled
func (uc *UseCase) emitCancelled(
	ctx context.Context,
	booking *domain.Booking,
	actor *domain.User,
	reason *string,
	hasPayment bool,
	now time.Time,
) {
	owner := actor
	if actor.ID != booking.UserID {
		loaded, err := uc.userRepo.GetByID(ctx, booking.UserID)
		if err != nil {
			if !errors.Is(err, userRepo.ErrUserNotFound) {
				uc.logger.Error("CancelBooking: failed to load owner for booking id=%d: %v", booking.ID, err)
			}
			return
		}
		owner = loaded
	}

	event := events.NewBookingCancelled(booking, owner, actor, reason, hasPayment, now)
	if err := uc.broadcaster.Broadcast(ctx, event); err != nil {
		uc.logger.Error("CancelBooking: broadcast failed for booking id=%d: %v", booking.ID, err)
	}
}
