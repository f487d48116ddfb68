package account

import (
	"errors"
	"fmt"

	"github.com/magabrotheeeer/account-service/internal/lib/metrics"
)

// Kind классифицирует отказ операции сервиса.
type Kind int

const (
	// KindValidation — не заполнены обязательные поля.
	KindValidation Kind = iota + 1
	// KindConflict — нарушение уникальности или повторная отправка того же username.
	KindConflict
	// KindNotFound — аккаунт не найден по id или username.
	KindNotFound
	// KindUnauthorized — неверный пароль.
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not found"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "unknown"
	}
}

// Error — типизированная ошибка сервиса аккаунтов.
// Транспортный слой переводит Kind в код ответа, Message отдаётся клиенту как есть.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is сравнивает ошибки по Kind, что позволяет писать errors.Is(err, account.ErrConflict).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Сентинел-значения для сравнения через errors.Is.
var (
	ErrValidation   = &Error{Kind: KindValidation}
	ErrConflict     = &Error{Kind: KindConflict}
	ErrNotFound     = &Error{Kind: KindNotFound}
	ErrUnauthorized = &Error{Kind: KindUnauthorized}
)

// KindOf возвращает Kind ошибки сервиса или 0, если это инфраструктурная ошибка.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// result переводит ошибку в значение метки метрики операций.
func result(err error) string {
	if err == nil {
		return metrics.ResultOK
	}
	switch KindOf(err) {
	case KindValidation:
		return metrics.ResultValidation
	case KindConflict:
		return metrics.ResultConflict
	case KindNotFound:
		return metrics.ResultNotFound
	case KindUnauthorized:
		return metrics.ResultUnauthorized
	default:
		return metrics.ResultError
	}
}
