package paymentservice

import "errors"

var (
	// ErrPaymentNotFound возвращается, когда по бронированию нет платежа
	ErrPaymentNotFound = errors.New("payment not found for booking")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse возвращается при некорректном ответе от сервиса
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")

	// ErrServiceDegraded возвращается при применении graceful degradation
	// Указывает, что PaymentService недоступен и вызывающий код должен
	// выбрать консервативное значение по месту использования
	ErrServiceDegraded = errors.New("paymentservice unavailable: graceful degradation applied")
)
