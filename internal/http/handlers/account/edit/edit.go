// Package edit реализует HTTP-обработчик редактирования профиля.
//
// Поддерживаются смена username и даты рождения. Отсутствующие поля не меняются,
// успешный ответ — 204 без тела.
package edit

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Request — изменения профиля.
type Request struct {
	Username *string `json:"username,omitempty" validate:"omitempty,max=255" example:"alice2"`
	Birthday *string `json:"birthday,omitempty" validate:"omitempty,birthday" example:"1990-05-17"`
}

// Service описывает бизнес-логику редактирования.
type Service interface {
	Edit(ctx context.Context, in models.EditInput) (models.Account, error)
}

// Handler обрабатывает PUT /users/{id}.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает обработчик редактирования.
func New(log *slog.Logger, service Service) *Handler {
	validate := validator.New()
	_ = validate.RegisterValidation("birthday", func(fl validator.FieldLevel) bool {
		_, err := models.ParseBirthday(fl.Field().String())
		return err == nil
	})
	return &Handler{
		log:      log,
		service:  service,
		validate: validate,
	}
}

// ServeHTTP godoc
// @Summary      Редактирование профиля
// @Tags         accounts
// @Accept       json
// @Param        id path int true "ID аккаунта"
// @Param        request body Request true "Изменения"
// @Success      204
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      409 {object} response.ErrorResponse
// @Router       /users/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.edit"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Info("failed to decode id from url", sl.Err(err))
		response.RenderBadRequest(w, r, "failed to decode id from url")
		return
	}

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

	in := models.EditInput{ID: id, Username: req.Username}
	if req.Birthday != nil {
		birthday, _ := models.ParseBirthday(*req.Birthday)
		in.Birthday = &birthday
	}

	acc, err := h.service.Edit(r.Context(), in)
	if err != nil {
		log.Info("failed to edit account", slog.Int64("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("account edited", sl.Account(acc))
	w.WriteHeader(http.StatusNoContent)
}
