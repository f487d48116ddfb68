package storage

import (
	"errors"
	"fmt"
)

// Поля аккаунта, на которых хранилище обеспечивает уникальность.
const (
	FieldUsername = "username"
	FieldName     = "name"
)

var (
	// ErrAccountExists возвращается, когда запись нарушила бы уникальность username или name.
	ErrAccountExists = errors.New("account already exists")
	// ErrAccountNotFound возвращается при обновлении несуществующего аккаунта.
	ErrAccountNotFound = errors.New("account not found")
)

// DuplicateError описывает нарушение уникальности при записи.
// Field пуст, если хранилище не смогло определить конкретное поле.
type DuplicateError struct {
	Field string
	Err   error
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return ErrAccountExists.Error()
	}
	if e.Err == nil {
		return fmt.Sprintf("%s: duplicate %s", ErrAccountExists, e.Field)
	}
	return fmt.Sprintf("%s: duplicate %s: %v", ErrAccountExists, e.Field, e.Err)
}

// Is позволяет сравнивать ошибку с ErrAccountExists через errors.Is.
func (e *DuplicateError) Is(target error) bool {
	return target == ErrAccountExists
}

func (e *DuplicateError) Unwrap() error {
	return e.Err
}
