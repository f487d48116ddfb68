// Package list реализует HTTP-обработчик получения всех аккаунтов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/account-service/internal/http/response"
	"github.com/magabrotheeeer/account-service/internal/lib/sl"
	"github.com/magabrotheeeer/account-service/internal/models"
)

// Service описывает бизнес-логику получения списка аккаунтов.
type Service interface {
	List(ctx context.Context) ([]models.Account, error)
}

// Handler обрабатывает GET /users.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает обработчик списка.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary      Список аккаунтов
// @Tags         accounts
// @Produce      json
// @Success      200 {array} response.Account
// @Failure      500 {object} response.ErrorResponse
// @Router       /users [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.account.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	accs, err := h.service.List(r.Context())
	if err != nil {
		log.Error("failed to list accounts", sl.Err(err))
		response.RenderError(w, r, err)
		return
	}

	log.Debug("listed accounts", slog.Int("count", len(accs)))
	render.JSON(w, r, response.NewAccounts(accs))
}
