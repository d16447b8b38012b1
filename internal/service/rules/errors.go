package rules

import "errors"

var (
	// ErrAccessDenied возвращается, когда у пользователя нет прав
	// на изменение бизнес-правил
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput возвращается при некорректных значениях правил
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
