package bus

import "context"

// Handler consumes one published message. Returning an error signals a
// processing failure to the transport (RabbitMQ nacks for redelivery, the
// memory bus logs it).
type Handler func(ctx context.Context, data []byte) error

// Responder answers one request/response call.
type Responder func(ctx context.Context, data []byte) ([]byte, error)

// MessageBus moves integration events between services. Payloads are
// marshaled to JSON by the implementation.
type MessageBus interface {
	Publish(ctx context.Context, topic string, payload any) error
	Subscribe(topic string, handler Handler)
	Request(ctx context.Context, topic string, payload any) ([]byte, error)
	Respond(topic string, responder Responder)
	Close() error
}
