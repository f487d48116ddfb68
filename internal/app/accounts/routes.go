package accounts

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	// Регистрация swagger-спецификации.
	_ "github.com/magabrotheeeer/account-service/docs"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/create"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/edit"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/list"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/login"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/logout"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/account/read"
	"github.com/magabrotheeeer/account-service/internal/http/handlers/health"
	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
)

// AccountService объединяет операции, которые нужны HTTP-обработчикам.
type AccountService interface {
	create.Service
	login.Service
	logout.Service
	list.Service
	read.Service
	edit.Service
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, service AccountService, pinger health.Pinger) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middlewarectx.MetricsMiddleware,
	)

	r.Post("/users", create.New(logger, service).ServeHTTP)
	r.Get("/users", list.New(logger, service).ServeHTTP)
	r.Get("/users/{id}", read.New(logger, service).ServeHTTP)
	r.Put("/users/{id}", edit.New(logger, service).ServeHTTP)
	r.Post("/login", login.New(logger, service).ServeHTTP)
	r.Put("/logout/{id}", logout.New(logger, service).ServeHTTP)

	r.Get("/health", health.New(logger, pinger).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
