// Package login реализует HTTP-обработчик входа в аккаунт.
package login

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Request — учётные данные для входа.
type Request struct {
	Username string `json:"username" example:"alice"`
	Password string `json:"password" example:"secret"`
}

// Service описывает бизнес-логику входа.
type Service interface {
	Login(ctx context.Context, in models.LoginInput) (models.Account, error)
}

// Handler обрабатывает POST /login.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик входа.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Вход в аккаунт
// @Description  Переводит аккаунт в ONLINE и выдаёт новый токен.
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body Request true "Учётные данные"
// @Success      200 {object} response.Account
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Info("failed to decode request body", sl.Err(err))
		response.RenderBadRequest(w, r, "invalid request body")
		return
	}

	acc, err := h.service.Login(r.Context(), models.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		log.Info("login failed", slog.String("username", req.Username), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("logged in", sl.Account(acc))
	render.JSON(w, r, response.NewAccountWithToken(acc))
}
