package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Channel — часть *amqp.Channel, нужная для публикации.
type Channel interface {
	Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// PublishMessage публикует сообщение в RabbitMQ.
func PublishMessage(ch Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AccountPublisher отправляет события аккаунтов в обменник, используя тип события как ключ маршрутизации.
type AccountPublisher struct {
	ch       Channel
	exchange string
}

// NewAccountPublisher создает публикатор событий аккаунтов.
func NewAccountPublisher(ch Channel, exchange string) *AccountPublisher {
	return &AccountPublisher{ch: ch, exchange: exchange}
}

// Publish публикует событие. Отменённый контекст прерывает публикацию.
func (p *AccountPublisher) Publish(ctx context.Context, event models.AccountEvent) error {
	const op = "rabbitmq.AccountPublisher.Publish"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := PublishMessage(p.ch, p.exchange, string(event.Type), event); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
