package bootstrap

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	httpapi "github.com/markode-co/MarkodeAITool/internal/api/http"
	"github.com/markode-co/MarkodeAITool/internal/api/http/middleware"
	"github.com/markode-co/MarkodeAITool/internal/auth"
	authhttp "github.com/markode-co/MarkodeAITool/internal/auth/http"
	projectshttp "github.com/markode-co/MarkodeAITool/internal/projects/http"
	"github.com/markode-co/MarkodeAITool/internal/projects/service"
	templateshttp "github.com/markode-co/MarkodeAITool/internal/templates/http"
	"github.com/markode-co/MarkodeAITool/internal/users"
)

// UserStore is satisfied by *users.Repo.
type UserStore interface {
	auth.UserEnsurer
	GetByFirebaseUID(ctx context.Context, firebaseUID string) (*users.User, error)
}

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string

	DB    httpapi.Pinger
	Redis httpapi.Pinger
	LLM   httpapi.StatsSource

	// Authenticate puts the caller's firebase uid in the gin context:
	// the Firebase token middleware in production, auth.DevUser otherwise.
	Authenticate gin.HandlerFunc
	Users        UserStore

	Generation  *service.GenerationService
	Improvement *service.ImprovementService
	Projects    *service.ProjectService
	Templates   templateshttp.Store
	Events      projectshttp.EventSource
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     dep.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID, "X-User-Id", "X-User-Email", "X-User-Name", "X-User-Photo"},
		ExposeHeaders:    []string{middleware.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.DB, dep.Redis, dep.LLM)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")

	templateshttp.New(dep.Templates).Register(api.Group("/templates"))

	authed := api.Group("")
	authed.Use(dep.Authenticate, auth.WithUser(dep.Users))

	authhttp.New(dep.Users).Register(authed)

	projectsHandler := projectshttp.New(dep.Generation, dep.Improvement, dep.Projects, dep.Events)
	projectsHandler.Register(authed.Group("/projects"))

	return r
}
