package bookings

import (
	"context"
	"errors"
	"fmt"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/internal/events"
	"github.com/bookwise-app/booking-backend/internal/policy"
	storage "github.com/bookwise-app/booking-backend/internal/infra/storage/booking"
	userRepo "github.com/bookwise-app/booking-backend/internal/infra/storage/user"
	paymentClient "github.com/bookwise-app/booking-backend/internal/integrations/paymentservice"
	"github.com/bookwise-app/booking-backend/internal/service/bookings/models"
)

// msgListNotOwner причина отказа при запросе чужого списка бронирований
const msgListNotOwner = "You can only view your own bookings."

// msgApproveNotStaff причина отказа при одобрении не сотрудником
const msgApproveNotStaff = "Only staff can approve bookings."

// Service сервис для работы с бронированиями
// Создание и отмена вынесены в отдельные use cases
type Service struct {
	bookingRepo   BookingRepository
	userRepo      UserRepository
	paymentClient PaymentServiceClient
	broadcaster   Broadcaster
	txManager     TransactionManager
	timeProvider  TimeProvider
	logger        Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	userRepo UserRepository,
	paymentClient PaymentServiceClient,
	broadcaster Broadcaster,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:   bookingRepo,
		userRepo:      userRepo,
		paymentClient: paymentClient,
		broadcaster:   broadcaster,
		txManager:     txManager,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// GetByID получает бронирование по ID
// Видимость определяется политикой: владелец или админ
func (s *Service) GetByID(ctx context.Context, id int64, actor *domain.User) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, actor.ID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	now := s.timeProvider.Now()

	decision := policy.Decide(policy.ActionView, policy.Input{
		Actor:   actor,
		Booking: booking,
		Now:     now,
	})
	if !decision.Allowed {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d: %s", actor.ID, id, decision.Reason)
		return nil, &DeniedError{Reason: decision.Reason}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking, now), nil
}

// GetUserBookings получает историю бронирований пользователя
// Пользователь видит только свой список, админ — любой
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest, actor *domain.User) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d by actor=%d, status=%v",
		req.UserID, actor.ID, req.Status)

	if !actor.IsAdmin() && actor.ID != req.UserID {
		s.logger.Warn("GetUserBookings: access denied for actor=%d to user=%d bookings", actor.ID, req.UserID)
		return nil, &DeniedError{Reason: msgListNotOwner}
	}

	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetUserBookings: invalid status=%v for user=%d", req.Status, req.UserID)
		return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
	}

	now := s.timeProvider.Now()

	bookings, err := s.bookingRepo.GetByUser(ctx, filter, now)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings, now), nil
}

// Update обновляет поля бронирования (title, description, время, сотрудник)
// Выполняется в транзакции с блокировкой строки; событие booking.updated
// отправляется только если хотя бы одно поле реально изменилось
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateBookingRequest, actor *domain.User) (*models.BookingResponse, error) {
	s.logger.Info("Update: updating booking id=%d by user=%d", id, actor.ID)

	if err := validateUpdateRequest(req); err != nil {
		s.logger.Warn("Update: validation failed for booking id=%d: %v", id, err)
		return nil, err
	}

	now := s.timeProvider.Now()

	var (
		updated *domain.Booking
		changes domain.ChangeSet
	)

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		decision := policy.Decide(policy.ActionUpdate, policy.Input{
			Actor:   actor,
			Booking: booking,
			Now:     now,
		})
		if !decision.Allowed {
			return &DeniedError{Reason: decision.Reason}
		}

		// Валидация результирующего временного окна: даже частичное
		// обновление не должно нарушать end_time > start_time
		effStart := booking.StartTime
		if req.StartTime != nil {
			effStart = *req.StartTime
		}
		effEnd := booking.EndTime
		if req.EndTime != nil {
			effEnd = *req.EndTime
		}
		if !effEnd.After(effStart) {
			return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
		}

		updated, changes, err = s.bookingRepo.Update(txCtx, id, storage.BookingUpdate{
			Title:       req.Title,
			Description: req.Description,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			StaffID:     req.StaffID,
		})
		if err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if changes.Empty() {
		s.logger.Info("Update: no changes for booking id=%d, skipping broadcast", id)
	} else {
		s.emitUpdated(ctx, updated, changes)
	}

	s.logger.Info("Update: successfully updated booking id=%d (%d fields changed)", id, len(changes))
	return models.FromDomainBooking(updated, now), nil
}

// Approve одобряет бронирование: approved=true, status=confirmed
// Доступно только сотрудникам (админ или менеджер); одобрение отмененного
// бронирования — недопустимый переход статуса
func (s *Service) Approve(ctx context.Context, id int64, actor *domain.User) (*models.BookingResponse, error) {
	s.logger.Info("Approve: approving booking id=%d by user=%d", id, actor.ID)

	if !actor.HasRole(domain.RoleAdmin, domain.RoleManager) {
		s.logger.Warn("Approve: access denied for user=%d (role=%s)", actor.ID, actor.Role)
		return nil, &DeniedError{Reason: msgApproveNotStaff}
	}

	var approved *domain.Booking

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		booking, err := s.bookingRepo.GetByID(txCtx, id)
		if err != nil {
			if errors.Is(err, storage.ErrBookingNotFound) {
				return ErrBookingNotFound
			}
			return fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
		}

		if booking.Approved {
			return ErrAlreadyApproved
		}
		if booking.Status != domain.StatusConfirmed && !booking.CanTransitionTo(domain.StatusConfirmed) {
			return fmt.Errorf("%w: cannot approve booking in status %q", ErrInvalidStateTransition, booking.Status)
		}

		approved, err = s.bookingRepo.Approve(txCtx, id)
		if err != nil {
			return fmt.Errorf("%w: Approve - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	s.emitUpdated(ctx, approved, domain.ChangeSet{"status": string(domain.StatusConfirmed)})

	s.logger.Info("Approve: successfully approved booking id=%d", id)
	return models.FromDomainBooking(approved, s.timeProvider.Now()), nil
}

// Delete физически удаляет бронирование
// Запрещено для прошедших бронирований и бронирований с платежами
func (s *Service) Delete(ctx context.Context, id int64, actor *domain.User) error {
	s.logger.Info("Delete: deleting booking id=%d by user=%d", id, actor.ID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			s.logger.Warn("Delete: booking id=%d not found", id)
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	hasPayments, err := s.paymentClient.HasPayment(ctx, id)
	if err != nil {
		if errors.Is(err, paymentClient.ErrServiceDegraded) {
			// PaymentService недоступен: для защиты от удаления считаем,
			// что платеж существует
			s.logger.Warn("Delete: payment check degraded for booking id=%d, blocking delete", id)
			hasPayments = true
		} else {
			s.logger.Error("Delete: payment check failed for booking id=%d: %v", id, err)
			return fmt.Errorf("%w: Delete - payment check: %v", ErrInternal, err)
		}
	}

	decision := policy.Decide(policy.ActionDelete, policy.Input{
		Actor:       actor,
		Booking:     booking,
		Now:         s.timeProvider.Now(),
		HasPayments: hasPayments,
	})
	if !decision.Allowed {
		s.logger.Warn("Delete: access denied for user=%d to booking id=%d: %s", actor.ID, id, decision.Reason)
		return &DeniedError{Reason: decision.Reason}
	}

	if err := s.bookingRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrBookingNotFound) {
			return ErrBookingNotFound
		}
		s.logger.Error("Delete: repository error for booking id=%d: %v", id, err)
		return fmt.Errorf("%w: Delete - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Delete: successfully deleted booking id=%d", id)
	return nil
}

// Вспомогательные методы

// emitUpdated строит и отправляет событие booking.updated
// Ошибки доставки логируются и не влияют на результат операции
func (s *Service) emitUpdated(ctx context.Context, booking *domain.Booking, changes domain.ChangeSet) {
	owner, staff, err := s.loadEventParticipants(ctx, booking)
	if err != nil {
		s.logger.Error("emitUpdated: failed to load participants for booking id=%d: %v", booking.ID, err)
		return
	}

	event := events.NewBookingUpdated(booking, owner, staff, changes)
	if err := s.broadcaster.Broadcast(ctx, event); err != nil {
		s.logger.Error("emitUpdated: broadcast failed for booking id=%d: %v", booking.ID, err)
	}
}

// loadEventParticipants загружает владельца и назначенного сотрудника
// для денормализации в payload события
func (s *Service) loadEventParticipants(ctx context.Context, booking *domain.Booking) (*domain.User, *domain.User, error) {
	owner, err := s.userRepo.GetByID(ctx, booking.UserID)
	if err != nil {
		if errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, nil, ErrUserNotFound
		}
		return nil, nil, err
	}

	var staff *domain.User
	if booking.HasStaff() {
		staff, err = s.userRepo.GetByID(ctx, *booking.StaffID)
		if err != nil && !errors.Is(err, userRepo.ErrUserNotFound) {
			return nil, nil, err
		}
	}

	return owner, staff, nil
}

// validateUpdateRequest валидирует поля запроса на обновление
func validateUpdateRequest(req *models.UpdateBookingRequest) error {
	if req.Title != nil && len(*req.Title) == 0 {
		return fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
	}
	if req.Title != nil && len(*req.Title) > domain.MaxTitleLength {
		return fmt.Errorf("%w: title must not exceed %d characters", ErrInvalidInput, domain.MaxTitleLength)
	}
	if req.Description != nil && len(*req.Description) > domain.MaxDescriptionLength {
		return fmt.Errorf("%w: description must not exceed %d characters", ErrInvalidInput, domain.MaxDescriptionLength)
	}
	if req.StartTime != nil && req.EndTime != nil && !req.EndTime.After(*req.StartTime) {
		return fmt.Errorf("%w: endTime must be after startTime", ErrInvalidInput)
	}
	return nil
}
