package broadcast

import "errors"

var (
	// ErrConnect возвращается при ошибке подключения к брокеру
	ErrConnect = errors.New("broadcast: failed to connect to broker")

	// ErrMarshalPayload возвращается при ошибке сериализации payload
	ErrMarshalPayload = errors.New("broadcast: failed to marshal payload")

	// ErrPublish возвращается при ошибке публикации сообщения
	ErrPublish = errors.New("broadcast: failed to publish message")
)
