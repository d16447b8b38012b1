package create_booking

import (
	"context"
	"fmt"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	"github.com/bookwise-app/booking-backend/internal/policy"
)

// UseCase use case для создания бронирования
type UseCase struct {
	bookingRepo   BookingRepository
	rulesProvider RulesProvider
	broadcaster   Broadcaster
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	rulesProvider RulesProvider,
	broadcaster Broadcaster,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:   bookingRepo,
		rulesProvider: rulesProvider,
		broadcaster:   broadcaster,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case создания бронирования
// Использует сериализуемую транзакцию, чтобы лимит активных бронирований
// не нарушался при конкурентных запросах
func (uc *UseCase) Execute(ctx context.Context, req *Request, actor *domain.User) (*Response, error) {
	uc.logger.Info("CreateBooking: user=%d, title=%q, start=%s",
		actor.ID, req.Title, req.StartTime.Format(domain.DateTimeFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateBooking: validation failed: %v", err)
		return nil, err
	}

	now := uc.timeProvider.Now()

	// 2. Авторизация: создавать бронирования может только пользователь
	// с подтвержденным email
	decision := policy.Decide(policy.ActionCreate, policy.Input{
		Actor: actor,
		Now:   now,
	})
	if !decision.Allowed {
		uc.logger.Warn("CreateBooking: access denied for user=%d: %s", actor.ID, decision.Reason)
		return nil, &DeniedError{Reason: decision.Reason}
	}

	// 3. Получаем бизнес-правила
	rules, err := uc.rulesProvider.GetDomain(ctx)
	if err != nil {
		uc.logger.Error("CreateBooking: failed to get rules: %v", err)
		return nil, fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
	}

	// 4. Валидация расписания против бизнес-правил
	if err := validateSchedule(req, rules, now); err != nil {
		uc.logger.Warn("CreateBooking: schedule validation failed: %v", err)
		return nil, err
	}

	var result *domain.Booking

	// 5. Лимит активных бронирований и вставка в одной сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		activeCount, err := uc.bookingRepo.CountActiveByUser(txCtx, actor.ID, now)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to count active bookings: %v", err)
			return fmt.Errorf("%w: failed to count active bookings: %v", ErrInternal, err)
		}

		if activeCount >= rules.MaxActivePerUser {
			uc.logger.Warn("CreateBooking: user=%d has %d/%d active bookings",
				actor.ID, activeCount, rules.MaxActivePerUser)
			return fmt.Errorf("%w: maximum %d active bookings allowed",
				ErrTooManyActiveBookings, rules.MaxActivePerUser)
		}

		booking := &domain.Booking{
			UserID:      actor.ID,
			StaffID:     req.StaffID,
			ServiceID:   req.ServiceID,
			Title:       req.Title,
			Description: req.Description,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,

			ServiceName:            req.ServiceName,
			ServiceDurationMinutes: req.ServiceDurationMinutes,
		}

		// auto_confirm=false: бронирование требует одобрения и создается
		// в статусе pending; true — сразу confirmed
		if rules.AutoConfirm {
			booking.Status = domain.StatusConfirmed
			booking.RequiresApproval = false
			booking.Approved = true
		} else {
			booking.Status = domain.StatusPending
			booking.RequiresApproval = true
			booking.Approved = false
		}

		result, err = uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			uc.logger.Error("CreateBooking: failed to create booking: %v", err)
			return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%d, status=%s", result.ID, result.Status)

	// 6. Отправляем событие booking.created (ошибки доставки не фатальны)
	event := events.NewBookingCreated(result, actor)
	if err := uc.broadcaster.Broadcast(ctx, event); err != nil {
		uc.logger.Error("CreateBooking: broadcast failed for booking id=%d: %v", result.ID, err)
	}

	return toResponse(result, now), nil
}
