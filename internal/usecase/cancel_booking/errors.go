package cancel_booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound возвращается, когда владелец бронирования не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	// Конкретная причина отказа передается через DeniedError
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidStateTransition возвращается при попытке отменить
	// уже отмененное бронирование
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

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
