package create_booking

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAccessDenied возвращается, когда пользователь не может создавать
	// бронирования (например, email не подтвержден)
	ErrAccessDenied = errors.New("access denied")

	// ErrOutsideBusinessHours возвращается, когда интервал бронирования
	// выходит за рабочие часы
	ErrOutsideBusinessHours = errors.New("booking is outside business hours")

	// ErrClosedDay возвращается при бронировании на нерабочий день
	ErrClosedDay = errors.New("business is closed on the requested day")

	// ErrDateTooFarInFuture возвращается при превышении max_future_days
	ErrDateTooFarInFuture = errors.New("booking date is too far in the future")

	// ErrTooLateToBook возвращается при нарушении min_advance_notice_hours
	ErrTooLateToBook = errors.New("too late to book this time")

	// ErrTooManyActiveBookings возвращается при превышении лимита
	// активных бронирований пользователя
	ErrTooManyActiveBookings = errors.New("active bookings limit reached")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)

// DeniedError отказ авторизации с человекочитаемой причиной
type DeniedError struct {
	Reason string
}

// Error реализует error
func (e *DeniedError) Error() string {
	return "access denied: " + e.Reason
}

// Unwrap возвращает сентинел ErrAccessDenied
func (e *DeniedError) Unwrap() error {
	return ErrAccessDenied
}
