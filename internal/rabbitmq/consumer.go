package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

const consumerConcurrency = 10

// EventHandler обрабатывает одно событие. Ошибка возвращает сообщение в очередь.
type EventHandler func(ctx context.Context, event models.AccountEvent) error

// ConsumeEvents читает события аккаунтов из очереди queueName до отмены ctx.
func ConsumeEvents(ctx context.Context, ch *amqp.Channel, queueName string, log *slog.Logger, handler EventHandler) error {
	const op = "rabbitmq.ConsumeEvents"
	delivery, err := ch.Consume(
		queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	handleDeliveries(ctx, delivery, log, handler)
	return nil
}

// handleDeliveries блокируется, пока не закроется delivery или не отменится ctx.
// Некорректный JSON отклоняется без повторной доставки.
func handleDeliveries(ctx context.Context, delivery <-chan amqp.Delivery, log *slog.Logger, handler EventHandler) {
	sem := make(chan struct{}, consumerConcurrency)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		select {
		case d, ok := <-delivery:
			if !ok {
				return
			}
			sem <- struct{}{}
			wg.Add(1)
			go func(d amqp.Delivery) {
				defer wg.Done()
				defer func() { <-sem }()

				var event models.AccountEvent
				if err := json.Unmarshal(d.Body, &event); err != nil {
					log.Warn("failed to decode account event", sl.Err(err))
					if nackErr := d.Nack(false, false); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if err := handler(ctx, event); err != nil {
					log.Warn("failed to handle account event", slog.String("type", string(event.Type)), sl.Err(err))
					if nackErr := d.Nack(false, true); nackErr != nil {
						log.Error("failed to nack message", sl.Err(nackErr))
					}
					return
				}
				if ackErr := d.Ack(false); ackErr != nil {
					log.Error("failed to ack message", sl.Err(ackErr))
				}
			}(d)
		case <-ctx.Done():
			return
		}
	}
}
