package server

import (
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"io"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"

	"github.com/bigkaa/certportal/internal/api/generated"
	"github.com/bigkaa/certportal/internal/api/middleware"
	"github.com/bigkaa/certportal/internal/config"
)

const testKeyID = "server-test"

// okServer отвечает 200 на операции, задействованные в тестах.
type okServer struct {
	generated.Unimplemented
}

func (okServer) HealthLive(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (okServer) DownloadCertificate(w http.ResponseWriter, _ *http.Request, _ string) {
	w.WriteHeader(http.StatusOK)
}

func (okServer) ListCertificates(w http.ResponseWriter, _ *http.Request, _ generated.ListCertificatesParams) {
	w.WriteHeader(http.StatusOK)
}

func (okServer) DeleteCertificate(w http.ResponseWriter, _ *http.Request, _ generated.Id) {
	w.WriteHeader(http.StatusNoContent)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestAuth создаёт JWTAuth с локальным ключом.
func newTestAuth(t *testing.T) (*middleware.JWTAuth, *rsa.PrivateKey) {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatal(err)
	}
	jwks, _ := json.Marshal(map[string]any{
		"keys": []map[string]any{{
			"kty": "RSA", "kid": testKeyID, "use": "sig", "alg": "RS256",
			"n": base64.RawURLEncoding.EncodeToString(key.N.Bytes()),
			"e": base64.RawURLEncoding.EncodeToString(big.NewInt(int64(key.E)).Bytes()),
		}},
	})
	kf, err := keyfunc.NewJWKSetJSON(jwks)
	if err != nil {
		t.Fatal(err)
	}
	auth := middleware.NewJWTAuthWithKeyfunc(kf, "", []string{"certportal-admins"}, []string{"certportal-viewers"}, testLogger())
	return auth, key
}

func signToken(t *testing.T, key *rsa.PrivateKey, group string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"sub":    "user-1",
		"groups": []string{group},
		"exp":    jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	token.Header["kid"] = testKeyID
	s, err := token.SignedString(key)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRouter_AdminRequiresToken(t *testing.T) {
	auth, key := newTestAuth(t)
	router := NewRouter(testLogger(), okServer{}, auth)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		status int
	}{
		{"health без токена", http.MethodGet, "/health/live", "", http.StatusOK},
		{"скачивание без токена", http.MethodGet, "/api/v1/certificates/AB12CD34/download", "", http.StatusOK},
		{"admin без токена", http.MethodGet, "/api/v1/admin/certificates", "", http.StatusUnauthorized},
		{"admin с readonly", http.MethodGet, "/api/v1/admin/certificates", signToken(t, key, "certportal-viewers"), http.StatusOK},
		{"admin без группы портала", http.MethodGet, "/api/v1/admin/certificates", signToken(t, key, "other"), http.StatusForbidden},
		{"некорректный UUID", http.MethodDelete, "/api/v1/admin/certificates/xyz", signToken(t, key, "certportal-admins"), http.StatusBadRequest},
		{"удаление с admin", http.MethodDelete, "/api/v1/admin/certificates/3f2a9c1e-0000-4000-8000-000000000000", signToken(t, key, "certportal-admins"), http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != tt.status {
				t.Errorf("статус = %d, ожидался %d (тело: %s)", rec.Code, tt.status, rec.Body.String())
			}
		})
	}
}

func TestRouter_NoAuthConfigured(t *testing.T) {
	router := NewRouter(testLogger(), okServer{}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/certificates", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("статус = %d, ожидался 401", rec.Code)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/certificates/AB12CD34/download", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("публичный маршрут: статус = %d, ожидался 200", rec.Code)
	}
}

func TestIsAdminPath(t *testing.T) {
	tests := map[string]bool{
		"/api/v1/admin":                 true,
		"/api/v1/admin/certificates":    true,
		"/api/v1/administrator":         false,
		"/api/v1/certificates/AB12CD34": false,
		"/health/ready":                 false,
	}
	for path, want := range tests {
		if got := isAdminPath(path); got != want {
			t.Errorf("isAdminPath(%q) = %v, ожидается %v", path, got, want)
		}
	}
}

func TestNew_UsesConfiguredTimeouts(t *testing.T) {
	cfg := &config.Config{
		Port:             9999,
		HTTPReadTimeout:  3 * time.Second,
		HTTPWriteTimeout: 4 * time.Second,
		HTTPIdleTimeout:  5 * time.Second,
	}
	s := New(cfg, testLogger(), okServer{}, nil)

	if s.httpServer.Addr != ":9999" {
		t.Errorf("Addr = %q", s.httpServer.Addr)
	}
	if s.httpServer.ReadTimeout != 3*time.Second || s.httpServer.WriteTimeout != 4*time.Second || s.httpServer.IdleTimeout != 5*time.Second {
		t.Errorf("таймауты = %v/%v/%v", s.httpServer.ReadTimeout, s.httpServer.WriteTimeout, s.httpServer.IdleTimeout)
	}
}
