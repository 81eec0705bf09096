package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/internal/codegen"
)

// Pinger is satisfied by *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts other clients, e.g. func(ctx) error { return rdb.Ping(ctx).Err() }.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// StatsSource is satisfied by *codegen.Client.
type StatsSource interface {
	Stats() codegen.Stats
	BackendName() string
}

type HealthResponse struct {
	Status    string         `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
	Service   string         `json:"service"`
	Version   string         `json:"version"`
	DB        string         `json:"db,omitempty"`
	Redis     string         `json:"redis,omitempty"`
	LLM       *LLMHealthInfo `json:"llm,omitempty"`
}

type LLMHealthInfo struct {
	Backend string        `json:"backend"`
	Stats   codegen.Stats `json:"stats"`
}

type HealthHandler struct {
	serviceName string
	version     string
	db          Pinger
	redis       Pinger
	llm         StatsSource
}

func NewHealthHandler(serviceName, version string, db, redis Pinger, llm StatsSource) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		db:          db,
		redis:       redis,
		llm:         llm,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		DB:        ping(c.Request.Context(), h.db),
		Redis:     ping(c.Request.Context(), h.redis),
	}
	if h.llm != nil {
		resp.LLM = &LLMHealthInfo{Backend: h.llm.BackendName(), Stats: h.llm.Stats()}
	}

	status := http.StatusOK
	if resp.DB == "down" || resp.Redis == "down" {
		resp.Status = "degraded"
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, resp)
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return "disabled"
	}
	pingCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	if err := p.Ping(pingCtx); err != nil {
		return "down"
	}
	return "up"
}
