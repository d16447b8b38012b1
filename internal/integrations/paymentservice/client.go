package paymentservice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetBookingPayment получает платеж по ID бронирования
func (c *Client) GetBookingPayment(ctx context.Context, bookingID int64) (*Payment, error) {
	url := fmt.Sprintf("%s/internal/bookings/%d/payment", c.baseURL, bookingID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusBadRequest:
		return nil, fmt.Errorf("%w: invalid booking ID format", ErrInvalidResponse)
	case http.StatusNotFound:
		return nil, ErrPaymentNotFound
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var payment Payment
	if err := json.NewDecoder(resp.Body).Decode(&payment); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &payment, nil
}

// HasPayment проверяет наличие платежа по бронированию с graceful degradation
// При недоступности PaymentService возвращает ErrServiceDegraded: вызывающий
// код сам выбирает безопасное значение (для защиты от удаления платеж
// считается существующим, для отображения refund-статуса — отсутствующим)
func (c *Client) HasPayment(ctx context.Context, bookingID int64) (bool, error) {
	_, err := c.GetBookingPayment(ctx, bookingID)
	if err != nil {
		if errors.Is(err, ErrPaymentNotFound) {
			return false, nil
		}

		// Повышаем уровень логирования до ERROR, чтобы быстрее заметить проблему
		c.log.Error("PaymentService unavailable, applying graceful degradation for booking_id=%d: %v", bookingID, err)
		return false, fmt.Errorf("%w: booking_id=%d, error=%v", ErrServiceDegraded, bookingID, err)
	}

	return true, nil
}
