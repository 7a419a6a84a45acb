package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pinmark/pinmark-backend/config"
	"github.com/pinmark/pinmark-backend/internal/auth"
	"github.com/pinmark/pinmark-backend/internal/notifications/mailer"
)

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		Server:    config.ServerConfig{AllowedOrigins: []string{"https://app.example"}},
		Quota:     config.QuotaConfig{FreeBytes: 1, ProBytes: 2},
		RateLimit: config.RateLimitConfig{FunctionsRPS: 1, FunctionsBurst: 1},
		App:       config.AppConfig{Version: "test"},
	}
	svc := NewServices(cfg, db, nil, mailer.LogMailer{})

	return BuildRouter(RouterDeps{
		Config:   cfg,
		Logger:   zap.NewNop(),
		Services: svc,
		Verifier: auth.NewJWTVerifier("secret", "authenticated"),
	})
}

func TestBuildRouter_PublicRoutes(t *testing.T) {
	r := testRouter(t)

	for _, path := range []string{"/health", "/healthz", "/metrics"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"), path)
	}
}

func TestBuildRouter_RequiresAuth(t *testing.T) {
	r := testRouter(t)

	cases := []struct{ method, path string }{
		{http.MethodGet, "/api/v1/projects"},
		{http.MethodGet, "/api/v1/me"},
		{http.MethodPost, "/functions/get-upload-url"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code, tc.path)
	}
}

func TestBuildRouter_CORS(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/projects", nil)
	req.Header.Set("Origin", "https://app.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"https://app.example"})
	assert.True(t, check("https://app.example"))
	assert.False(t, check("https://evil.example"))

	assert.True(t, originChecker([]string{"*"})("https://anything.example"))
}
