package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bookwise-app/booking-backend/internal/domain"
	storage "github.com/bookwise-app/booking-backend/internal/infra/storage/rules"
	"github.com/bookwise-app/booking-backend/internal/service/rules/models"
)

// validWeekdays допустимые значения элементов open_days
var validWeekdays = map[string]struct{}{
	"monday":    {},
	"tuesday":   {},
	"wednesday": {},
	"thursday":  {},
	"friday":    {},
	"saturday":  {},
	"sunday":    {},
}

// Service сервис конфигурации бизнес-правил
type Service struct {
	rulesRepo RulesRepository
	txManager TransactionManager
	logger    Logger
}

// NewService создает новый экземпляр сервиса бизнес-правил
func NewService(rulesRepo RulesRepository, txManager TransactionManager, logger Logger) *Service {
	return &Service{
		rulesRepo: rulesRepo,
		txManager: txManager,
		logger:    logger,
	}
}

// Get возвращает текущие бизнес-правила
// Если правила еще не настраивались, возвращаются значения по умолчанию
func (s *Service) Get(ctx context.Context) (*models.RulesResponse, error) {
	s.logger.Info("Get: fetching booking rules")

	rules, err := s.rulesRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			s.logger.Info("Get: no rules configured, returning defaults")
			return models.FromDomainRules(domain.DefaultRules()), nil
		}
		s.logger.Error("Get: repository error: %v", err)
		return nil, fmt.Errorf("%w: Get - repository error: %v", ErrInternal, err)
	}

	return models.FromDomainRules(rules), nil
}

// GetDomain возвращает доменную модель правил для использования другими
// сервисами при валидации бронирований
func (s *Service) GetDomain(ctx context.Context) (*domain.BookingRules, error) {
	rules, err := s.rulesRepo.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrRulesNotFound) {
			return domain.DefaultRules(), nil
		}
		return nil, fmt.Errorf("%w: GetDomain - repository error: %v", ErrInternal, err)
	}
	return rules, nil
}

// Update применяет частичное обновление бизнес-правил
// Доступно только админам и менеджерам
func (s *Service) Update(ctx context.Context, req *models.UpdateRulesRequest, actor *domain.User) (*models.RulesResponse, error) {
	s.logger.Info("Update: updating booking rules by user=%d", actor.ID)

	if !actor.HasRole(domain.RoleAdmin, domain.RoleManager) {
		s.logger.Warn("Update: access denied for user=%d (role=%s)", actor.ID, actor.Role)
		return nil, fmt.Errorf("%w: only staff can update booking rules", ErrAccessDenied)
	}

	var saved *domain.BookingRules

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		current, err := s.rulesRepo.Get(txCtx)
		if err != nil {
			if errors.Is(err, storage.ErrRulesNotFound) {
				current = domain.DefaultRules()
			} else {
				return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
			}
		}

		applyChanges(current, req)

		if err := validateRules(current); err != nil {
			return err
		}

		saved, err = s.rulesRepo.Save(txCtx, current)
		if err != nil {
			return fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			s.logger.Warn("Update: validation failed: %v", err)
		} else {
			s.logger.Error("Update: failed to update rules: %v", err)
		}
		return nil, err
	}

	s.logger.Info("Update: successfully updated booking rules")
	return models.FromDomainRules(saved), nil
}

// applyChanges переносит ненулевые поля запроса в доменную модель
func applyChanges(rules *domain.BookingRules, req *models.UpdateRulesRequest) {
	if req.BusinessHoursStart != nil {
		rules.BusinessHoursStart = *req.BusinessHoursStart
	}
	if req.BusinessHoursEnd != nil {
		rules.BusinessHoursEnd = *req.BusinessHoursEnd
	}
	if req.OpenDays != nil {
		days := make([]string, 0, len(*req.OpenDays))
		for _, d := range *req.OpenDays {
			days = append(days, strings.ToLower(strings.TrimSpace(d)))
		}
		rules.OpenDays = days
	}
	if req.SlotIntervalMinutes != nil {
		rules.SlotIntervalMinutes = *req.SlotIntervalMinutes
	}
	if req.BufferMinutes != nil {
		rules.BufferMinutes = *req.BufferMinutes
	}
	if req.MaxFutureDays != nil {
		rules.MaxFutureDays = *req.MaxFutureDays
	}
	if req.MinAdvanceNoticeHours != nil {
		rules.MinAdvanceNoticeHours = *req.MinAdvanceNoticeHours
	}
	if req.CancellationWindowHours != nil {
		rules.CancellationWindowHours = *req.CancellationWindowHours
	}
	if req.MaxActivePerUser != nil {
		rules.MaxActivePerUser = *req.MaxActivePerUser
	}
	if req.AutoConfirm != nil {
		rules.AutoConfirm = *req.AutoConfirm
	}
	if req.FullRefundHours != nil {
		rules.FullRefundHours = *req.FullRefundHours
	}
	if req.PartialRefundHours != nil {
		rules.PartialRefundHours = *req.PartialRefundHours
	}
}

// validateRules проверяет согласованность итогового набора правил
func validateRules(r *domain.BookingRules) error {
	if r.BusinessHoursStart < domain.MinBusinessHour || r.BusinessHoursStart > domain.MaxBusinessHour {
		return fmt.Errorf("%w: businessHoursStart must be between %d and %d",
			ErrInvalidInput, domain.MinBusinessHour, domain.MaxBusinessHour)
	}
	if r.BusinessHoursEnd < domain.MinBusinessHour || r.BusinessHoursEnd > domain.MaxBusinessHour {
		return fmt.Errorf("%w: businessHoursEnd must be between %d and %d",
			ErrInvalidInput, domain.MinBusinessHour, domain.MaxBusinessHour)
	}
	if r.BusinessHoursEnd <= r.BusinessHoursStart {
		return fmt.Errorf("%w: businessHoursEnd must be after businessHoursStart", ErrInvalidInput)
	}

	if len(r.OpenDays) == 0 {
		return fmt.Errorf("%w: openDays must not be empty", ErrInvalidInput)
	}
	for _, d := range r.OpenDays {
		if _, ok := validWeekdays[d]; !ok {
			return fmt.Errorf("%w: invalid weekday %q in openDays", ErrInvalidInput, d)
		}
	}

	if r.SlotIntervalMinutes < domain.MinSlotIntervalMinutes || r.SlotIntervalMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: slotIntervalMinutes must be between %d and %d",
			ErrInvalidInput, domain.MinSlotIntervalMinutes, domain.MaxSlotIntervalMinutes)
	}
	if r.BufferMinutes < 0 || r.BufferMinutes > domain.MaxSlotIntervalMinutes {
		return fmt.Errorf("%w: bufferMinutes must be between 0 and %d",
			ErrInvalidInput, domain.MaxSlotIntervalMinutes)
	}

	if r.MaxFutureDays < domain.MinFutureDays || r.MaxFutureDays > domain.MaxFutureDays {
		return fmt.Errorf("%w: maxFutureDays must be between %d and %d",
			ErrInvalidInput, domain.MinFutureDays, domain.MaxFutureDays)
	}
	if r.MinAdvanceNoticeHours < 0 || r.MinAdvanceNoticeHours > domain.MaxAdvanceNoticeHours {
		return fmt.Errorf("%w: minAdvanceNoticeHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxAdvanceNoticeHours)
	}
	if r.CancellationWindowHours < 0 || r.CancellationWindowHours > domain.MaxCancellationWindowHrs {
		return fmt.Errorf("%w: cancellationWindowHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxCancellationWindowHrs)
	}
	if r.MaxActivePerUser < 1 || r.MaxActivePerUser > domain.MaxActiveBookingsPerUser {
		return fmt.Errorf("%w: maxActivePerUser must be between 1 and %d",
			ErrInvalidInput, domain.MaxActiveBookingsPerUser)
	}

	if r.FullRefundHours < 0 || r.FullRefundHours > domain.MaxRefundPolicyHours {
		return fmt.Errorf("%w: fullRefundHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxRefundPolicyHours)
	}
	if r.PartialRefundHours < 0 || r.PartialRefundHours > domain.MaxRefundPolicyHours {
		return fmt.Errorf("%w: partialRefundHours must be between 0 and %d",
			ErrInvalidInput, domain.MaxRefundPolicyHours)
	}
	if r.PartialRefundHours > r.FullRefundHours {
		return fmt.Errorf("%w: partialRefundHours must not exceed fullRefundHours", ErrInvalidInput)
	}

	return nil
}
