package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking not found")

	// ErrUserNotFound возвращается, когда пользователь не найден
	ErrUserNotFound = errors.New("user not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	// Конкретная причина отказа передается через DeniedError
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidStateTransition возвращается при попытке недопустимого
	// перехода статуса (например, одобрение отмененного бронирования)
	ErrInvalidStateTransition = errors.New("invalid booking state transition")

	// ErrAlreadyApproved возвращается при повторном одобрении
	ErrAlreadyApproved = errors.New("booking is already approved")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)

// DeniedError отказ авторизации с человекочитаемой причиной
// Разворачивается в ErrAccessDenied для errors.Is
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
