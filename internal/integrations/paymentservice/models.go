package paymentservice

import "time"

// Payment модель платежа из PaymentService
type Payment struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	Amount    float64   `json:"amount"`
	Currency  string    `json:"currency"`
	Status    string    `json:"status"` // pending, captured, refunded
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse модель ошибки от PaymentService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
