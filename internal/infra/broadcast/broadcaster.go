package broadcast

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/bookwise-app/booking-backend/internal/events"
)

const (
	// ExchangeName topic exchange для broadcast-событий бронирований
	ExchangeName = "booking.events"
	// ExchangeKind тип exchange
	ExchangeKind = "topic"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Broadcaster публикует события жизненного цикла бронирований в RabbitMQ
// Каждый канал события превращается в отдельное сообщение с routing key
// "<канал>.<имя события>", payload сериализуется в JSON
// Доставка fire-and-forget: порядок, ретраи и семантика доставки — зона
// ответственности брокера и подписчиков
type Broadcaster struct {
	conn    *amqp.Connection
	channel *amqp.Channel
	enabled bool
	log     Logger
}

// New подключается к брокеру и объявляет exchange
// Если enabled=false, подключение не выполняется и все события подавляются
// guard-предикатом ShouldBroadcast
func New(url string, enabled bool, log Logger) (*Broadcaster, error) {
	if !enabled {
		return &Broadcaster{enabled: false, log: log}, nil
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeKind, true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: exchange declare: %v", ErrConnect, err)
	}

	return &Broadcaster{conn: conn, channel: ch, enabled: true, log: log}, nil
}

// Enabled возвращает true, если транспорт включен
// Потребляется guard-предикатом событий
func (b *Broadcaster) Enabled() bool {
	return b.enabled
}

// Broadcast публикует событие во все его каналы
// Событие, чей ShouldBroadcast вернул false, молча пропускается
func (b *Broadcaster) Broadcast(ctx context.Context, event events.Event) error {
	if !event.ShouldBroadcast(b.enabled) {
		return nil
	}

	body, err := json.Marshal(event.Payload())
	if err != nil {
		return fmt.Errorf("%w: event=%s: %v", ErrMarshalPayload, event.Name(), err)
	}

	for _, channel := range event.Channels() {
		routingKey := channel + "." + event.Name()

		err := b.channel.PublishWithContext(
			ctx,
			ExchangeName,
			routingKey,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        body,
			},
		)
		if err != nil {
			return fmt.Errorf("%w: event=%s, channel=%s: %v", ErrPublish, event.Name(), channel, err)
		}
	}

	b.log.Info("Broadcast: published event=%s to %d channels", event.Name(), len(event.Channels()))
	return nil
}

// Close закрывает канал и подключение к брокеру
func (b *Broadcaster) Close() {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		b.conn.Close()
	}
}
