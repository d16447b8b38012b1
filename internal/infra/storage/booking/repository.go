package booking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/bookwise-app/booking-backend/internal/domain"
	"github.com/bookwise-app/booking-backend/pkg/dbmetrics"
	"github.com/bookwise-app/booking-backend/pkg/psqlbuilder"
)

// bookingColumns полный набор колонок таблицы bookings
var bookingColumns = []string{
	"id",
	"user_id",
	"staff_id",
	"service_id",
	"title",
	"description",
	"start_time",
	"end_time",
	"status",
	"requires_approval",
	"approved",
	"service_name",
	"service_duration_minutes",
	"cancellation_reason",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с бронированиями
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория бронирований
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новое бронирование
// Если в контексте передана активная транзакция, использует её
func (r *Repository) Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("bookings").
		Columns(
			"user_id",
			"staff_id",
			"service_id",
			"title",
			"description",
			"start_time",
			"end_time",
			"status",
			"requires_approval",
			"approved",
			"service_name",
			"service_duration_minutes",
		).
		Values(
			booking.UserID,
			booking.StaffID,
			booking.ServiceID,
			booking.Title,
			booking.Description,
			booking.StartTime,
			booking.EndTime,
			booking.Status,
			booking.RequiresApproval,
			booking.Approved,
			booking.ServiceName,
			booking.ServiceDurationMinutes,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&booking.ID,
		&createdAt,
		&updatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return booking, nil
}

// GetByID получает бронирование по ID
// Внутри транзакции строка блокируется через FOR UPDATE
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// GetByUser получает список бронирований пользователя
// Опционально фильтрует по статусу и по признаку "только предстоящие"
func (r *Repository) GetByUser(ctx context.Context, filter domain.UserBookingsFilter, now time.Time) ([]*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(bookingColumns...).
		From("bookings").
		Where(squirrel.Eq{"user_id": filter.UserID}).
		OrderBy("start_time DESC")

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	}
	if filter.UpcomingOnly {
		selectBuilder = selectBuilder.Where(squirrel.Gt{"start_time": now})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByUser - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanBookings(rows)
}

// CountActiveByUser считает активные бронирования пользователя
// (pending/confirmed с началом в будущем) — для лимита max_active_per_user
func (r *Repository) CountActiveByUser(ctx context.Context, userID int64, now time.Time) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("bookings").
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"status": []string{string(domain.StatusPending), string(domain.StatusConfirmed)}}).
		Where(squirrel.Gt{"start_time": now}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountActiveByUser - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// BookingUpdate частичное обновление полей бронирования
// nil-поля остаются без изменений
type BookingUpdate struct {
	Title       *string
	Description *string
	StartTime   *time.Time
	EndTime     *time.Time
	StaffID     *int64
}

// Update применяет частичное обновление и возвращает обновленное бронирование
// вместе с набором реально изменившихся полей (wasChanged-семантика):
// сравнение ведется с текущей строкой, no-op обновление возвращает пустой
// ChangeSet без выполнения UPDATE. Ключи изменений различают перенос даты
// ("booking_date") и перенос времени в пределах дня ("start_time")
func (r *Repository) Update(ctx context.Context, id int64, upd BookingUpdate) (*domain.Booking, domain.ChangeSet, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	changes := detectChanges(current, upd)
	if changes.Empty() {
		return current, changes, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	updateBuilder := psqlbuilder.Update("bookings").
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(bookingColumns))

	if upd.Title != nil {
		updateBuilder = updateBuilder.Set("title", *upd.Title)
	}
	if upd.Description != nil {
		updateBuilder = updateBuilder.Set("description", *upd.Description)
	}
	if upd.StartTime != nil {
		updateBuilder = updateBuilder.Set("start_time", *upd.StartTime)
	}
	if upd.EndTime != nil {
		updateBuilder = updateBuilder.Set("end_time", *upd.EndTime)
	}
	if upd.StaffID != nil {
		updateBuilder = updateBuilder.Set("staff_id", *upd.StaffID)
	}

	query, args, err := updateBuilder.ToSql()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	updated, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("%w: Update - scan booking: %v", ErrScanRow, err)
	}

	return updated, changes, nil
}

// Approve помечает бронирование одобренным и подтвержденным
func (r *Repository) Approve(ctx context.Context, id int64) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("approved", true).
		Set("status", domain.StatusConfirmed).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Approve - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Approve - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// Cancel переводит бронирование в статус cancelled
func (r *Repository) Cancel(ctx context.Context, id int64, reason *string, cancelledAt time.Time) (*domain.Booking, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("bookings").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_at", cancelledAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + joinColumns(bookingColumns)).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	booking, err := scanBooking(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Cancel - scan booking: %v", ErrScanRow, err)
	}

	return booking, nil
}

// Delete физически удаляет бронирование
func (r *Repository) Delete(ctx context.Context, id int64) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("bookings").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	res, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute delete: %v", ErrExecQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: Delete - rows affected: %v", ErrExecQuery, err)
	}
	if affected == 0 {
		return ErrBookingNotFound
	}

	return nil
}

// detectChanges сравнивает запрошенное обновление с текущей строкой
func detectChanges(current *domain.Booking, upd BookingUpdate) domain.ChangeSet {
	changes := domain.ChangeSet{}

	if upd.Title != nil && *upd.Title != current.Title {
		changes["title"] = *upd.Title
	}
	if upd.Description != nil && (current.Description == nil || *upd.Description != *current.Description) {
		changes["description"] = *upd.Description
	}
	if upd.StartTime != nil && !upd.StartTime.Equal(current.StartTime) {
		newDate := upd.StartTime.Format(domain.DateFormat)
		if newDate != current.StartTime.Format(domain.DateFormat) {
			changes["booking_date"] = newDate
		}
		if upd.StartTime.Format(domain.TimeFormat) != current.StartTime.Format(domain.TimeFormat) {
			changes["start_time"] = upd.StartTime.Format(domain.TimeFormat)
		}
	}
	if upd.EndTime != nil && !upd.EndTime.Equal(current.EndTime) {
		changes["end_time"] = upd.EndTime.Format(domain.TimeFormat)
	}
	if upd.StaffID != nil && (current.StaffID == nil || *upd.StaffID != *current.StaffID) {
		changes["staff_id"] = *upd.StaffID
	}

	return changes
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	var booking domain.Booking
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.StaffID,
		&booking.ServiceID,
		&booking.Title,
		&booking.Description,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.RequiresApproval,
		&booking.Approved,
		&booking.ServiceName,
		&booking.ServiceDurationMinutes,
		&booking.CancellationReason,
		&booking.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	booking.CreatedAt = createdAt.Time
	booking.UpdatedAt = updatedAt.Time

	return &booking, nil
}

func scanBookings(rows *sql.Rows) ([]*domain.Booking, error) {
	bookings := make([]*domain.Booking, 0)

	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan booking row: %v", ErrScanRow, err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate booking rows: %v", ErrExecQuery, err)
	}

	return bookings, nil
}

func joinColumns(columns []string) string {
	return strings.Join(columns, ", ")
}
