package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"isengard/internal/infrastructure/metrics"
)

const replyToQueue = "amq.rabbitmq.reply-to"

// RabbitBus is the AMQP MessageBus. Every topic is a fanout exchange; each
// subscribing service consumes its own durable queue named
// "<topic>.<service>", so distinct services each receive a copy while
// replicas of one service share the queue. Request/response runs over a
// dedicated queue per topic with direct reply-to.
type RabbitBus struct {
	conn    *amqp.Connection
	pubCh   *amqp.Channel
	pubMu   sync.Mutex
	service string
	logger  *zap.Logger
	metrics *metrics.BusMetrics

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewRabbitBus(url, service string, logger *zap.Logger, busMetrics *metrics.BusMetrics) (*RabbitBus, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connecting to rabbitmq: %w", err)
	}

	pubCh, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening publish channel: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RabbitBus{
		conn:    conn,
		pubCh:   pubCh,
		service: service,
		logger:  logger,
		metrics: busMetrics,
		ctx:     ctx,
		cancel:  cancel,
	}, nil
}

func (b *RabbitBus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", topic, err)
	}

	b.pubMu.Lock()
	defer b.pubMu.Unlock()

	if err := b.declareExchange(b.pubCh, topic); err != nil {
		return err
	}

	err = b.pubCh.PublishWithContext(ctx, topic, "", false, false, amqp.Publishing{
		ContentType: "application/json",
		MessageId:   uuid.New().String(),
		Timestamp:   time.Now().UTC(),
		Body:        data,
	})
	if err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}

	b.metrics.Published.WithLabelValues(topic).Inc()
	return nil
}

func (b *RabbitBus) Subscribe(topic string, handler Handler) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(topic, handler)
	}()
}

func (b *RabbitBus) consumeLoop(topic string, handler Handler) {
	for {
		if err := b.consume(topic, handler); err != nil {
			b.logger.Error("subscription lost, reconnecting",
				zap.String("topic", topic),
				zap.Error(err))
		}

		select {
		case <-b.ctx.Done():
			return
		case <-time.After(2 * time.Second):
		}
	}
}

func (b *RabbitBus) consume(topic string, handler Handler) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	if err := b.declareExchange(ch, topic); err != nil {
		return err
	}

	queueName := topic + "." + b.service
	queue, err := ch.QueueDeclare(queueName, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring queue %s: %w", queueName, err)
	}
	if err := ch.QueueBind(queue.Name, "", topic, false, nil); err != nil {
		return fmt.Errorf("binding queue %s: %w", queueName, err)
	}

	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consuming %s: %w", queueName, err)
	}

	for {
		select {
		case <-b.ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel for %s closed", queueName)
			}
			b.metrics.Consumed.WithLabelValues(topic).Inc()
			if err := handler(b.ctx, delivery.Body); err != nil {
				b.metrics.Failed.WithLabelValues(topic).Inc()
				b.logger.Error("message handler failed",
					zap.String("topic", topic),
					zap.Error(err))
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (b *RabbitBus) Request(ctx context.Context, topic string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling %s request: %w", topic, err)
	}

	ch, err := b.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	// Direct reply-to: consume the pseudo-queue on the same channel before
	// publishing the request.
	replies, err := ch.Consume(replyToQueue, "", true, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("consuming reply queue: %w", err)
	}

	correlationID := uuid.New().String()
	err = ch.PublishWithContext(ctx, "", rpcQueue(topic), false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: correlationID,
		ReplyTo:       replyToQueue,
		Body:          data,
	})
	if err != nil {
		return nil, fmt.Errorf("publishing request to %s: %w", topic, err)
	}
	b.metrics.Published.WithLabelValues(topic).Inc()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case reply, ok := <-replies:
			if !ok {
				return nil, fmt.Errorf("reply channel for %s closed", topic)
			}
			if reply.CorrelationId != correlationID {
				continue
			}
			return reply.Body, nil
		}
	}
}

func (b *RabbitBus) Respond(topic string, responder Responder) {
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			if err := b.respond(topic, responder); err != nil {
				b.logger.Error("responder lost, reconnecting",
					zap.String("topic", topic),
					zap.Error(err))
			}

			select {
			case <-b.ctx.Done():
				return
			case <-time.After(2 * time.Second):
			}
		}
	}()
}

func (b *RabbitBus) respond(topic string, responder Responder) error {
	ch, err := b.conn.Channel()
	if err != nil {
		return fmt.Errorf("opening channel: %w", err)
	}
	defer ch.Close()

	queue, err := ch.QueueDeclare(rpcQueue(topic), true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("declaring rpc queue for %s: %w", topic, err)
	}

	deliveries, err := ch.Consume(queue.Name, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("consuming rpc queue for %s: %w", topic, err)
	}

	for {
		select {
		case <-b.ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("rpc delivery channel for %s closed", topic)
			}
			b.metrics.Consumed.WithLabelValues(topic).Inc()

			response, err := responder(b.ctx, delivery.Body)
			if err != nil {
				b.metrics.Failed.WithLabelValues(topic).Inc()
				b.logger.Error("responder failed",
					zap.String("topic", topic),
					zap.Error(err))
				_ = delivery.Nack(false, true)
				continue
			}

			err = ch.PublishWithContext(b.ctx, "", delivery.ReplyTo, false, false, amqp.Publishing{
				ContentType:   "application/json",
				CorrelationId: delivery.CorrelationId,
				Body:          response,
			})
			if err != nil {
				b.logger.Error("publishing reply failed",
					zap.String("topic", topic),
					zap.Error(err))
				_ = delivery.Nack(false, true)
				continue
			}
			_ = delivery.Ack(false)
		}
	}
}

func (b *RabbitBus) declareExchange(ch *amqp.Channel, topic string) error {
	if err := ch.ExchangeDeclare(topic, "fanout", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declaring exchange %s: %w", topic, err)
	}
	return nil
}

func (b *RabbitBus) Close() error {
	b.cancel()
	b.wg.Wait()
	b.pubCh.Close()
	return b.conn.Close()
}

func rpcQueue(topic string) string {
	return "rpc." + topic
}
