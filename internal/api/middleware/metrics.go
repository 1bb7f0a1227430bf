// metrics.go — Prometheus HTTP метрики портала.
// Регистрирует метрики: cp_http_requests_total, cp_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cp_http_requests_total",
			Help: "Общее количество HTTP-запросов к Certificate Portal",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cp_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Certificate Portal в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			status := strconv.Itoa(wrapped.statusCode)
			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(time.Since(start).Seconds())
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

const (
	publicPrefix = "/api/v1/certificates/"
	adminPrefix  = "/api/v1/admin/certificates/"
)

// normalizePath заменяет идентификаторы в пути на шаблоны маршрутов,
// чтобы кардинальность лейбла path не зависела от числа сертификатов.
// Неизвестные пути сворачиваются в "other".
func normalizePath(path string) string {
	switch path {
	case "/health/live", "/health/ready", "/metrics", "/api/v1/admin/certificates":
		return path
	}

	if rest, ok := strings.CutPrefix(path, publicPrefix); ok && rest != "" {
		switch {
		case !strings.Contains(rest, "/"):
			return publicPrefix + "{certificateId}"
		case strings.Count(rest, "/") == 1 && strings.HasSuffix(rest, "/download"):
			return publicPrefix + "{certificateId}/download"
		}
		return "other"
	}

	if rest, ok := strings.CutPrefix(path, adminPrefix); ok && rest != "" {
		id, suffix, _ := strings.Cut(rest, "/")
		if id == "" {
			return "other"
		}
		switch suffix {
		case "":
			return adminPrefix + "{id}"
		case "reset-redemption", "rotate-id":
			return adminPrefix + "{id}/" + suffix
		}
	}

	return "other"
}
