// Package metrics объявляет Prometheus-метрики сервиса аккаунтов.
// Метрики регистрируются в реестре по умолчанию и отдаются через /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result для accounts_operations_total.
const (
	ResultOK           = "ok"
	ResultValidation   = "validation"
	ResultConflict     = "conflict"
	ResultNotFound     = "not_found"
	ResultUnauthorized = "unauthorized"
	ResultError        = "error"
)

var (
	// HTTPRequests считает обработанные HTTP-запросы.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_http_requests_total",
		Help: "Total number of HTTP requests processed by the account service.",
	}, []string{"method", "route", "code"})

	// HTTPDuration измеряет длительность HTTP-запросов.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "accounts_http_request_duration_seconds",
		Help:    "Duration of HTTP requests processed by the account service.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// GRPCRequests считает обработанные unary-вызовы gRPC.
	GRPCRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_grpc_requests_total",
		Help: "Total number of gRPC calls processed by the account service.",
	}, []string{"method", "code"})

	// Operations считает вызовы операций сервиса по исходу.
	Operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "accounts_operations_total",
		Help: "Total number of account service operations by result.",
	}, []string{"operation", "result"})
)

// ObserveOperation увеличивает счётчик операции с указанным исходом.
func ObserveOperation(operation, result string) {
	Operations.WithLabelValues(operation, result).Inc()
}
