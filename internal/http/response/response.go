// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON‑ответов HTTP‑обработчиков: представление аккаунта,
// ответы с ошибкой и перевод ошибок сервиса в коды HTTP.
package response

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/magabrotheeeer/account-service/internal/services/account"
)

// ErrorResponse описывает ответ с ошибкой.
type ErrorResponse struct {
	Status string `json:"status" example:"Error"`
	Error  string `json:"error" example:"invalid request body"`
}

const (
	// StatusOK — значение статуса для успешного ответа.
	StatusOK = "OK"
	// StatusError — значение статуса для ответа с ошибкой.
	StatusError = "Error"
)

// InternalErrorMessage отдаётся клиенту вместо текста инфраструктурных ошибок.
const InternalErrorMessage = "internal error"

// Account — внешнее представление аккаунта. Пароль не отдаётся никогда,
// токен только при регистрации и входе.
type Account struct {
	ID           int64         `json:"id" example:"1"`
	CreationDate time.Time     `json:"creationDate"`
	Name         string        `json:"name" example:"Alice"`
	Username     string        `json:"username" example:"alice"`
	Status       models.Status `json:"status" example:"ONLINE"`
	Birthday     *time.Time    `json:"birthday"`
	Token        string        `json:"token,omitempty"`
}

// NewAccount строит представление без токена.
func NewAccount(acc models.Account) Account {
	return Account{
		ID:           acc.ID,
		CreationDate: acc.CreationDate,
		Name:         acc.Name,
		Username:     acc.Username,
		Status:       acc.Status,
		Birthday:     acc.Birthday,
	}
}

// NewAccountWithToken строит представление с сессионным токеном.
func NewAccountWithToken(acc models.Account) Account {
	view := NewAccount(acc)
	view.Token = acc.Token
	return view
}

// NewAccounts строит список представлений.
func NewAccounts(accs []models.Account) []Account {
	views := make([]Account, 0, len(accs))
	for _, acc := range accs {
		views = append(views, NewAccount(acc))
	}
	return views
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status: StatusError,
		Error:  msg,
	}
}

// StatusCode переводит ошибку сервиса аккаунтов в код HTTP.
func StatusCode(err error) int {
	switch account.KindOf(err) {
	case account.KindValidation:
		return http.StatusBadRequest
	case account.KindConflict:
		return http.StatusConflict
	case account.KindNotFound:
		return http.StatusNotFound
	case account.KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// FromError возвращает код и тело ответа для ошибки сервиса.
// Текст инфраструктурных ошибок клиенту не раскрывается.
func FromError(err error) (int, ErrorResponse) {
	code := StatusCode(err)
	if code == http.StatusInternalServerError {
		return code, Error(InternalErrorMessage)
	}
	return code, Error(err.Error())
}

// ValidationError формирует ErrorResponse на основе ошибок валидации.
// Каждое нарушение формируется в человеко‑читаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "birthday":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a date in format YYYY-MM-DD or RFC3339", err.Field()))
		case "max":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is too long", err.Field()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not a valid", err.Field()))
		}
	}
	return ErrorResponse{
		Status: StatusError,
		Error:  strings.Join(errsMsgs, ", "),
	}
}

// RenderError пишет ответ с кодом и телом, соответствующими ошибке сервиса.
func RenderError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := FromError(err)
	render.Status(r, code)
	render.JSON(w, r, body)
}

// RenderBadRequest пишет ответ 400 с переданным сообщением.
func RenderBadRequest(w http.ResponseWriter, r *http.Request, msg string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, Error(msg))
}
