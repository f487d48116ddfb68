// Package token выпускает непрозрачные сессионные токены.
package token

import "github.com/google/uuid"

// Generator выпускает новый токен при каждом вызове.
type Generator interface {
	New() string
}

// UUIDGenerator выпускает токены в виде случайного UUID v4.
type UUIDGenerator struct{}

// New возвращает новый UUID v4 в строковом виде.
func (UUIDGenerator) New() string {
	return uuid.NewString()
}
