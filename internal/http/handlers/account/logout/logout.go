// Package logout реализует HTTP-обработчик выхода из аккаунта.
package logout

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Service описывает бизнес-логику выхода.
type Service interface {
	LogoutByID(ctx context.Context, id int64) (models.Account, error)
}

// Handler обрабатывает PUT /logout/{id}.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик выхода.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Выход из аккаунта
// @Tags         accounts
// @Produce      json
// @Param        id path int true "ID аккаунта"
// @Success      200 {object} response.Account
// @Failure      400 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Router       /logout/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.logout"

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

	acc, err := h.service.LogoutByID(r.Context(), id)
	if err != nil {
		log.Info("logout failed", slog.Int64("id", id), sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Info("logged out", sl.Account(acc))
	render.JSON(w, r, response.NewAccount(acc))
}
