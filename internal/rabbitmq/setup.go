package rabbitmq

import (
	"fmt"

	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// AuditQueue собирает все события аккаунтов.
const AuditQueue = "accounts.audit"

// QueueConfig описывает очередь и ключ, которым она привязана к обменнику.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// AccountQueues возвращает привязки очереди аудита ко всем типам событий.
func AccountQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AuditQueue, RoutingKey: string(models.EventAccountCreated)},
		{QueueName: AuditQueue, RoutingKey: string(models.EventAccountLoggedIn)},
		{QueueName: AuditQueue, RoutingKey: string(models.EventAccountLoggedOut)},
		{QueueName: AuditQueue, RoutingKey: string(models.EventAccountEdited)},
	}
}

// SetupChannel открывает канал, объявляет durable direct-обменник exchange
// и привязывает к нему очереди.
func SetupChannel(conn *amqp.Connection, exchange string, queues []QueueConfig) (*amqp.Channel, error) {
	const op = "rabbitmq.SetupChannel"

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := ch.Qos(10, 0, false); err != nil {
		return nil, fmt.Errorf("%s: failed to set QoS: %w", op, err)
	}

	err = ch.ExchangeDeclare(
		exchange,
		"direct",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	for _, q := range queues {
		_, err := ch.QueueDeclare(
			q.QueueName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to declare queue %s: %w", op, q.QueueName, err)
		}

		err = ch.QueueBind(
			q.QueueName,
			q.RoutingKey,
			exchange,
			false,
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to bind queue %s with routing key %s: %w", op, q.QueueName, q.RoutingKey, err)
		}
	}

	return ch, nil
}
