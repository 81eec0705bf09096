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

	"github.com/markode-co/MarkodeAITool/internal/codegen"
)

type fakeStats struct{}

func (fakeStats) Stats() codegen.Stats { return codegen.Stats{Calls: 3, Errors: 1} }
func (fakeStats) BackendName() string  { return "openai:gpt-4o" }

func healthRequest(t *testing.T, h *HealthHandler, path string) (int, HealthResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w.Code, resp
}

func TestHealthCheck(t *testing.T) {
	up := PingFunc(func(context.Context) error { return nil })
	down := PingFunc(func(context.Context) error { return errors.New("refused") })

	t.Run("all up", func(t *testing.T) {
		code, resp := healthRequest(t, NewHealthHandler("markode-api", "1.0.0", up, up, fakeStats{}), "/health")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "up", resp.DB)
		assert.Equal(t, "up", resp.Redis)
		require.NotNil(t, resp.LLM)
		assert.Equal(t, int64(3), resp.LLM.Stats.Calls)
	})

	t.Run("dependencies disabled", func(t *testing.T) {
		code, resp := healthRequest(t, NewHealthHandler("markode-api", "1.0.0", nil, nil, nil), "/healthz")
		assert.Equal(t, http.StatusOK, code)
		assert.Equal(t, "disabled", resp.DB)
		assert.Nil(t, resp.LLM)
	})

	t.Run("redis down", func(t *testing.T) {
		code, resp := healthRequest(t, NewHealthHandler("markode-api", "1.0.0", up, down, nil), "/health")
		assert.Equal(t, http.StatusServiceUnavailable, code)
		assert.Equal(t, "degraded", resp.Status)
		assert.Equal(t, "down", resp.Redis)
	})
}
