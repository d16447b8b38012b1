package events

import "fmt"

// Имена broadcast-каналов
const (
	// ChannelBookings общий канал для администраторов
	ChannelBookings = "bookings"
)

// UserChannel возвращает персональный канал владельца бронирования
func UserChannel(userID int64) string {
	return fmt.Sprintf("user.%d", userID)
}

// StaffChannel возвращает персональный канал назначенного сотрудника
func StaffChannel(staffID int64) string {
	return fmt.Sprintf("staff.%d", staffID)
}

// Event broadcast-событие жизненного цикла бронирования
// Чистое значение: построение каналов и payload не имеет побочных эффектов,
// доставку выполняет транспорт (internal/infra/broadcast)
type Event interface {
	// Name имя события для подписчиков (например, "booking.created")
	Name() string
	// Channels список каналов доставки
	Channels() []string
	// Payload данные события (сериализуются в JSON транспортом)
	Payload() interface{}
	// ShouldBroadcast guard эмиссии: false, если транспорт выключен
	// или событие не несет изменений
	ShouldBroadcast(transportEnabled bool) bool
}

// UserRef ссылка на пользователя в payload
type UserRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ServiceRef ссылка на услугу в payload
type ServiceRef struct {
	ID       *int64 `json:"id"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
}
