package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okPing(context.Context) error { return nil }
func downPing(context.Context) error { return errors.New("connection refused") }

func serveHealth(t *testing.T, h *HealthHandler, method, path string) (*httptest.ResponseRecorder, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true
	h.RegisterRoutes(router)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(method, path, nil))

	var resp HealthResponse
	if rr.Code != http.StatusMethodNotAllowed {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	}
	return rr, resp
}

func TestHealthCheck(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("test-service", "1.0.0", okPing, okPing), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "healthy", resp.Status)
	assert.Equal(t, "test-service", resp.Service)
	assert.Equal(t, "1.0.0", resp.Version)
	assert.Equal(t, "up", resp.DB)
	assert.Equal(t, "up", resp.Redis)
}

func TestHealthCheck_Disabled(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("svc", "1", nil, nil), http.MethodGet, "/healthz")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "disabled", resp.DB)
	assert.Equal(t, "disabled", resp.Redis)
}

func TestHealthCheck_DatabaseDown(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("svc", "1", downPing, okPing), http.MethodGet, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unhealthy", resp.Status)
	assert.Equal(t, "down", resp.DB)
}

func TestHealthCheck_RedisDown(t *testing.T) {
	rr, resp := serveHealth(t, NewHealthHandler("svc", "1", okPing, downPing), http.MethodGet, "/health")

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "degraded", resp.Status)
	assert.Equal(t, "down", resp.Redis)
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr, _ := serveHealth(t, NewHealthHandler("svc", "1", nil, nil), http.MethodPost, "/health")
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
