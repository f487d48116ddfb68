// Package sl содержит вспомогательные функции для работы с логгером slog.
// Основная цель — единообразно формировать структурированные поля лога
// для ошибок и аккаунтов, не допуская утечки пароля и токена в логи.
package sl

import (
	"log/slog"
	"os"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Err возвращает slog.Attr с ключом "error" и значением текста ошибки.
// Для nil-ошибки возвращается пустая строка.
//
// Пример:
//
//	log.Error("failed to do something", sl.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.Attr{
		Key:   "error",
		Value: slog.StringValue(err.Error()),
	}
}

// Account возвращает группу атрибутов с публичными полями аккаунта.
// Пароль и токен намеренно не логируются.
func Account(acc models.Account) slog.Attr {
	return slog.Group("account",
		slog.Int64("id", acc.ID),
		slog.String("username", acc.Username),
		slog.String("status", string(acc.Status)),
	)
}

// Окружения, влияющие на формат и уровень логов.
const (
	envDev  = "dev"
	envProd = "prod"
)

// New создает логгер для окружения env: текстовый для local, JSON для dev и prod.
func New(env string) *slog.Logger {
	switch env {
	case envDev:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case envProd:
		return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	default:
		return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
}
