// Package models содержит доменную модель учётной записи пользователя,
// входные структуры операций сервиса и события жизненного цикла аккаунта.
package models

import "time"

// Status отражает присутствие пользователя в системе.
// Это не уровень доступа, а лишь флаг ONLINE/OFFLINE.
type Status string

const (
	// StatusOnline выставляется при создании аккаунта и при каждом входе.
	StatusOnline Status = "ONLINE"
	// StatusOffline выставляется при выходе.
	StatusOffline Status = "OFFLINE"
)

// Valid сообщает, является ли значение одним из допустимых статусов.
func (s Status) Valid() bool {
	return s == StatusOnline || s == StatusOffline
}

// Account — единственная сущность системы.
// ID назначается хранилищем при первом сохранении и после этого не меняется.
type Account struct {
	ID           int64      // Идентификатор, назначаемый хранилищем
	Name         string     // Отображаемое имя, уникально на момент создания
	Username     string     // Уникальный логин
	Password     string     // Пароль в том виде, в котором его прислал клиент
	Token        string     // Сессионный токен, перевыпускается при каждом входе
	Status       Status     // ONLINE или OFFLINE
	CreationDate time.Time  // Момент создания, UTC
	Birthday     *time.Time // Дата рождения, задаётся только редактированием
}

// CreateInput — входные данные регистрации.
type CreateInput struct {
	Name     string
	Username string
	Password string
}

// LoginInput — учётные данные для входа.
type LoginInput struct {
	Username string
	Password string
}

// EditInput — изменения профиля. Nil-поля не трогаются.
type EditInput struct {
	ID       int64
	Username *string
	Birthday *time.Time
}

// ParseBirthday принимает дату в формате YYYY-MM-DD или полный RFC3339.
// Результат всегда полночь UTC: время суток отбрасывается после перевода в UTC,
// так что значение совпадает с тем, что хранит колонка DATE.
func ParseBirthday(s string) (time.Time, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return BirthdayDate(t), nil
}

// BirthdayDate отбрасывает время суток после перевода в UTC.
func BirthdayDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
