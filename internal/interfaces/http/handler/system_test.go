package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/manutdmohit/proficientlegal-sub000/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okPing(context.Context) error { return nil }

func failPing(context.Context) error { return errors.New("connection refused") }

func runHealth(t *testing.T, h *SystemHandler) (int, HealthResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/health", nil)

	h.Health(c)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler("legal-site", "1.0.0")
	assert.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		checks     []DependencyCheck
		wantCode   int
		wantStatus string
	}{
		{
			name:       "all dependencies up",
			checks:     []DependencyCheck{{Name: "database", Required: true, Ping: okPing}, {Name: "redis", Ping: okPing}},
			wantCode:   http.StatusOK,
			wantStatus: HealthStatusHealthy,
		},
		{
			name:       "redis down degrades",
			checks:     []DependencyCheck{{Name: "database", Required: true, Ping: okPing}, {Name: "redis", Ping: failPing}},
			wantCode:   http.StatusOK,
			wantStatus: HealthStatusDegraded,
		},
		{
			name:       "database down is unhealthy",
			checks:     []DependencyCheck{{Name: "database", Required: true, Ping: failPing}, {Name: "redis", Ping: failPing}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: HealthStatusUnhealthy,
		},
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: HealthStatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := runHealth(t, NewSystemHandler("legal-site", "1.0.0", tt.checks...))
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestSystemHandler_HealthReportsFailure(t *testing.T) {
	_, resp := runHealth(t, NewSystemHandler("legal-site", "1.0.0",
		DependencyCheck{Name: "redis", Ping: failPing}))
	assert.Equal(t, "error: connection refused", resp.Checks["redis"])
	assert.Equal(t, "legal-site", resp.Service)
}

func TestSystemHandler_HealthBoundsSlowChecks(t *testing.T) {
	slow := func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}
	start := time.Now()
	code, _ := runHealth(t, NewSystemHandler("legal-site", "1.0.0",
		DependencyCheck{Name: "database", Required: true, Ping: slow}))

	assert.Equal(t, http.StatusServiceUnavailable, code)
	assert.Less(t, time.Since(start), healthCheckTimeout+time.Second)
}

func TestSystemHandler_GetSystemInfo(t *testing.T) {
	h := NewSystemHandler("legal-site", "1.2.3")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/admin/system/info", nil)

	h.GetSystemInfo(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "legal-site", data["name"])
	assert.Equal(t, "1.2.3", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}

func TestSystemHandler_Ping(t *testing.T) {
	h := NewSystemHandler("legal-site", "1.0.0")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request, _ = http.NewRequest(http.MethodGet, "/api/v1/ping", nil)

	h.Ping(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "pong", data["message"])

	_, err := time.Parse(time.RFC3339, data["timestamp"].(string))
	assert.NoError(t, err)
}
