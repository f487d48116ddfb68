package models

import "time"

// EventType определяет вид события жизненного цикла аккаунта.
type EventType string

const (
	EventAccountCreated   EventType = "account.created"
	EventAccountLoggedIn  EventType = "account.logged_in"
	EventAccountLoggedOut EventType = "account.logged_out"
	EventAccountEdited    EventType = "account.edited"
)

// AccountEvent публикуется после каждой успешной изменяющей операции.
// Пароль и токен в событие не попадают.
type AccountEvent struct {
	Type       EventType `json:"type"`
	AccountID  int64     `json:"account_id"`
	Username   string    `json:"username"`
	Status     Status    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewAccountEvent собирает событие из текущего состояния аккаунта.
func NewAccountEvent(t EventType, acc Account, at time.Time) AccountEvent {
	return AccountEvent{
		Type:       t,
		AccountID:  acc.ID,
		Username:   acc.Username,
		Status:     acc.Status,
		OccurredAt: at,
	}
}
