// Package create реализует HTTP-обработчик регистрации аккаунта.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Request — входные данные для регистрации.
// Обязательность полей проверяет сервис, здесь только ограничение длины.
type Request struct {
	Name     string `json:"name" validate:"max=255" example:"Alice"`
	Username string `json:"username" validate:"max=255" example:"alice"`
	Password string `json:"password" validate:"max=255" example:"secret"`
}

// Service описывает бизнес-логику регистрации.
type Service interface {
	Create(ctx context.Context, in models.CreateInput) (models.Account, error)
}

// Handler обрабатывает POST /users.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик регистрации.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary      Регистрация аккаунта
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        request body Request true "Данные аккаунта"
// @Success      201 {object} response.Account
// @Failure      400 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Router       /users [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.create"

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

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ValidationError(verrs))
			return
		}
		log.Error("validator failed", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	acc, err := h.service.Create(r.Context(), models.CreateInput{
		Name:     req.Name,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		log.Info("failed to create account", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account created", sl.Account(acc))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.NewAccountWithToken(acc))
}
