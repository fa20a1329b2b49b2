package consumers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"order-entry/config"
	"order-entry/logger"
	"order-entry/middlewares"
	"order-entry/models"

	amqp "github.com/rabbitmq/amqp091-go"
)

var errUnknownEvent = errors.New("unknown event type")

// StartOrderConsumer 消费订单事件队列和死信队列，直到 ctx 结束
func StartOrderConsumer(ctx context.Context, ch *amqp.Channel, cfg *config.Config, log logger.Logger) error {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"order-entry", // consumer tag
		false,         // auto-ack
		false,         // exclusive
		false,         // no-local
		false,         // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register consumer: %w", err)
	}

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"order-entry-dlq",
		false, // auto-ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register dlq consumer: %w", err)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				processOrderMessage(ctx, log, msg)
			case msg, ok := <-dlqMsgs:
				if !ok {
					return
				}
				processDeadLetterMessage(ctx, log, msg)
			}
		}
	}()
	return nil
}

func processOrderMessage(ctx context.Context, log logger.Logger, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			log.Errorf(ctx, "recovered from panic in message processing: %v", r)
			_ = msg.Nack(false, false)
		}
	}()

	event, err := handleOrderEvent(ctx, log, msg.Body)
	if err != nil {
		log.Warnf(ctx, "reject order event: %v", err)
		// 拒绝消息，不重新入队，进入死信队列
		_ = msg.Nack(false, false)
		return
	}
	middlewares.RecordOrderEvent(event.Type)
	_ = msg.Ack(false)
}

func handleOrderEvent(ctx context.Context, log logger.Logger, body []byte) (models.OrderEvent, error) {
	var event models.OrderEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return event, fmt.Errorf("invalid message format: %w", err)
	}
	ctx = logger.WithSlNo(ctx, event.SlNo)

	switch event.Type {
	case models.EventSubmitted:
		log.Infof(ctx, "order %s submitted: %d items, total %s", event.SlNo, event.Items, event.Total)
	case models.EventQueuedLocally:
		log.Warnf(ctx, "order %s saved locally and not synced: %d items, total %s", event.SlNo, event.Items, event.Total)
	default:
		return event, fmt.Errorf("%w: %q", errUnknownEvent, event.Type)
	}
	return event, nil
}

func processDeadLetterMessage(ctx context.Context, log logger.Logger, msg amqp.Delivery) {
	log.Errorf(ctx, "received dead letter: %s", msg.Body)
	middlewares.RecordOrderEvent("dead_letter")
	_ = msg.Ack(false)
}
