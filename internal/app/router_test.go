package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/medbill/medbill/internal/auth"
	"github.com/medbill/medbill/internal/billing"
	"github.com/medbill/medbill/internal/observability"
)

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	tokens := auth.NewTokenIssuer("secret", time.Hour)
	return NewRouter(RouterParams{
		Config:         &Config{AppEnv: "test", RateLimitPerMinute: 1000},
		Tokens:         tokens,
		BillingHandler: billing.NewHandler(nil, nil),
		Metrics:        observability.NewMetrics(),
	})
}

func TestHealthzAndHeaders(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestBillsRequireBearerToken(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bills", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	var env struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.Equal(t, http.StatusUnauthorized, env.Status)
	require.Equal(t, "Access denied!", env.Message)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	router := testRouter(t)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "Route not found!")
}

func TestMetricsEndpoint(t *testing.T) {
	router := testRouter(t)
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `medbill_http_requests_total{code="200",route="/healthz"} 1`)
}

func TestLoadConfigRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := LoadConfig()
	require.Error(t, err)

	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("OTP_TTL", "2m")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, 2*time.Minute, cfg.OTPTTL)
	require.Equal(t, 24*time.Hour, cfg.JWTTTL)
	require.False(t, cfg.IsProduction())
}
