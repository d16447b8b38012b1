package rules

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/pkg/dbmetrics"
	"github.com/bookwise-app/booking-backend/pkg/psqlbuilder"
)

// Переиспользуем интерфейс из dbmetrics для работы с БД
type DBExecutor = dbmetrics.DBExecutor

var rulesColumns = []string{
	"id",
	"business_hours_start",
	"business_hours_end",
	"open_days",
	"slot_interval_minutes",
	"buffer_minutes",
	"max_future_days",
	"min_advance_notice_hours",
	"cancellation_window_hours",
	"max_active_per_user",
	"auto_confirm",
	"full_refund_hours",
	"partial_refund_hours",
	"created_at",
	"updated_at",
}

// Repository репозиторий конфигурации бизнес-правил
// Правила хранятся одной записью (singleton)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория правил
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Get получает текущие бизнес-правила
func (r *Repository) Get(ctx context.Context) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(rulesColumns...).
		From("booking_rules").
		OrderBy("id ASC").
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Get - build select query: %v", ErrBuildQuery, err)
	}

	rules, err := scanRules(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Get - scan rules: %v", ErrScanRow, err)
	}

	return rules, nil
}

// Save сохраняет бизнес-правила: обновляет существующую запись
// или создает первую, если правила еще не настраивались
func (r *Repository) Save(ctx context.Context, rules *domain.BookingRules) (*domain.BookingRules, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	if rules.ID == 0 {
		return r.insert(ctx, executor, rules)
	}

	query, args, err := psqlbuilder.Update("booking_rules").
		Set("business_hours_start", rules.BusinessHoursStart).
		Set("business_hours_end", rules.BusinessHoursEnd).
		Set("open_days", pq.Array(rules.OpenDays)).
		Set("slot_interval_minutes", rules.SlotIntervalMinutes).
		Set("buffer_minutes", rules.BufferMinutes).
		Set("max_future_days", rules.MaxFutureDays).
		Set("min_advance_notice_hours", rules.MinAdvanceNoticeHours).
		Set("cancellation_window_hours", rules.CancellationWindowHours).
		Set("max_active_per_user", rules.MaxActivePerUser).
		Set("auto_confirm", rules.AutoConfirm).
		Set("full_refund_hours", rules.FullRefundHours).
		Set("partial_refund_hours", rules.PartialRefundHours).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": rules.ID}).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build update query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&rules.ID, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrRulesNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Save - execute update: %v", ErrExecQuery, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

func (r *Repository) insert(ctx context.Context, executor DBExecutor, rules *domain.BookingRules) (*domain.BookingRules, error) {
	query, args, err := psqlbuilder.Insert("booking_rules").
		Columns(
			"business_hours_start",
			"business_hours_end",
			"open_days",
			"slot_interval_minutes",
			"buffer_minutes",
			"max_future_days",
			"min_advance_notice_hours",
			"cancellation_window_hours",
			"max_active_per_user",
			"auto_confirm",
			"full_refund_hours",
			"partial_refund_hours",
		).
		Values(
			rules.BusinessHoursStart,
			rules.BusinessHoursEnd,
			pq.Array(rules.OpenDays),
			rules.SlotIntervalMinutes,
			rules.BufferMinutes,
			rules.MaxFutureDays,
			rules.MinAdvanceNoticeHours,
			rules.CancellationWindowHours,
			rules.MaxActivePerUser,
			rules.AutoConfirm,
			rules.FullRefundHours,
			rules.PartialRefundHours,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Save - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&rules.ID, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Save - execute insert: %v", ErrExecQuery, err)
	}

	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return rules, nil
}

func scanRules(row *sql.Row) (*domain.BookingRules, error) {
	var rules domain.BookingRules
	var openDays pq.StringArray
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&rules.ID,
		&rules.BusinessHoursStart,
		&rules.BusinessHoursEnd,
		&openDays,
		&rules.SlotIntervalMinutes,
		&rules.BufferMinutes,
		&rules.MaxFutureDays,
		&rules.MinAdvanceNoticeHours,
		&rules.CancellationWindowHours,
		&rules.MaxActivePerUser,
		&rules.AutoConfirm,
		&rules.FullRefundHours,
		&rules.PartialRefundHours,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	rules.OpenDays = []string(openDays)
	rules.CreatedAt = createdAt.Time
	rules.UpdatedAt = updatedAt.Time

	return &rules, nil
}
