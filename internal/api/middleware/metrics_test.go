package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// counterValue читает текущее значение счётчика.
func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("чтение метрики: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/health/live", "/health/live"},
		{"/metrics", "/metrics"},
		{"/api/v1/certificates/AB12CD34", "/api/v1/certificates/{certificateId}"},
		{"/api/v1/certificates/AB12CD34/download", "/api/v1/certificates/{certificateId}/download"},
		{"/api/v1/certificates/AB12CD34/other", "other"},
		{"/api/v1/certificates/", "other"},
		{"/api/v1/admin/certificates", "/api/v1/admin/certificates"},
		{"/api/v1/admin/certificates/3f2a9c1e-0000-4000-8000-000000000000", "/api/v1/admin/certificates/{id}"},
		{"/api/v1/admin/certificates/3f2a9c1e-0000-4000-8000-000000000000/reset-redemption", "/api/v1/admin/certificates/{id}/reset-redemption"},
		{"/api/v1/admin/certificates/x/rotate-id", "/api/v1/admin/certificates/{id}/rotate-id"},
		{"/api/v1/admin/certificates/x/unknown", "other"},
		{"/wp-login.php", "other"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := normalizePath(tt.path); got != tt.want {
				t.Errorf("normalizePath(%q) = %q, ожидается %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	counter := httpRequestsTotal.WithLabelValues(http.MethodGet, "/api/v1/certificates/{certificateId}/download", "403")
	before := counterValue(t, counter)

	handler := MetricsMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	for _, id := range []string{"AAAA1111", "BBBB2222"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/certificates/"+id+"/download", nil))
	}

	if got := counterValue(t, counter) - before; got != 2 {
		t.Errorf("прирост cp_http_requests_total = %v, ожидается 2", got)
	}
}
