package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/rabbitmq"
)

const (
	watchRetries = 3
	watchDelay   = time.Second
)

// NewRabbitWatch возвращает WatchFunc, читающую очередь аудита обменника exchange.
func NewRabbitWatch(url, exchange string, log *slog.Logger) WatchFunc {
	return func(ctx context.Context, out io.Writer) error {
		const op = "cli.watch"

		conn, err := rabbitmq.Connect(url, watchRetries, watchDelay)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer conn.Close()

		ch, err := rabbitmq.SetupChannel(conn, exchange, rabbitmq.AccountQueues())
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		defer ch.Close()

		if err := rabbitmq.ConsumeEvents(ctx, ch, rabbitmq.AuditQueue, log, PrintEvents(out)); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return nil
	}
}

// PrintEvents возвращает обработчик, печатающий события по одному в строке.
// Обработчик вызывается из нескольких горутин, запись в out сериализуется.
func PrintEvents(out io.Writer) rabbitmq.EventHandler {
	var mu sync.Mutex
	return func(_ context.Context, e models.AccountEvent) error {
		mu.Lock()
		defer mu.Unlock()
		_, err := fmt.Fprintln(out, FormatEvent(e))
		return err
	}
}

// FormatEvent форматирует событие для вывода в терминал.
func FormatEvent(e models.AccountEvent) string {
	return fmt.Sprintf("%s %-18s id=%d username=%s status=%s",
		e.OccurredAt.UTC().Format(time.RFC3339), e.Type, e.AccountID, e.Username, e.Status)
}
