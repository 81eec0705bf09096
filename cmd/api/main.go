package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/markode-co/MarkodeAITool/config"
	httpapi "github.com/markode-co/MarkodeAITool/internal/api/http"
	"github.com/markode-co/MarkodeAITool/internal/auth"
	"github.com/markode-co/MarkodeAITool/internal/auth/middleware"
	"github.com/markode-co/MarkodeAITool/internal/bootstrap"
	"github.com/markode-co/MarkodeAITool/internal/codegen"
	"github.com/markode-co/MarkodeAITool/internal/logging"
	"github.com/markode-co/MarkodeAITool/internal/projects/events"
	projectrepo "github.com/markode-co/MarkodeAITool/internal/projects/repository"
	"github.com/markode-co/MarkodeAITool/internal/projects/service"
	"github.com/markode-co/MarkodeAITool/internal/projects/sweeper"
	"github.com/markode-co/MarkodeAITool/internal/storage/postgres"
	templaterepo "github.com/markode-co/MarkodeAITool/internal/templates/repository"
	"github.com/markode-co/MarkodeAITool/internal/users"
)

const serviceName = "markode-api"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.SetLevel(cfg.App.LogLevel)
	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	sqlDB, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer sqlDB.Close()

	if err := postgres.EnsureSchema(ctx, sqlDB); err != nil {
		log.Fatalf("db: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	backend, err := codegen.NewBackendFromConfig(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("llm: %v", err)
	}
	llm := codegen.NewClient(backend, codegen.Options{
		Timeout: cfg.LLM.Timeout,
		RPS:     cfg.LLM.RPS,
		Burst:   cfg.LLM.Burst,
	})

	templates, err := templaterepo.NewTemplateRepository(sqlDB, 0)
	if err != nil {
		log.Fatalf("templates: %v", err)
	}
	projects := projectrepo.NewProjectRepository(sqlDB)
	bus := events.NewRedisBus(rdb, 0)

	genSvc := service.NewGenerationService(projects, llm, bus)
	impSvc := service.NewImprovementService(projects, llm)
	projSvc := service.NewProjectService(projects, templates, bus)

	sw := sweeper.New(projects, bus, cfg.Generation.StaleAfter, cfg.Generation.SweepSchedule)
	if err := sw.Start(); err != nil {
		log.Fatalf("sweeper: %v", err)
	}

	authenticate, err := authMiddleware(ctx, cfg)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:    serviceName,
		Version:        cfg.App.Version,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		DB:             pool,
		Redis:          httpapi.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		LLM:            llm,
		Authenticate:   authenticate,
		Users:          users.NewRepo(pool),
		Generation:     genSvc,
		Improvement:    impSvc,
		Projects:       projSvc,
		Templates:      templates,
		Events:         bus,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("%s %s listening on :%s (llm=%s)", serviceName, cfg.App.Version, cfg.Server.Port, llm.BackendName())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	sw.Stop(shutdownCtx)
	if err := genSvc.Wait(shutdownCtx); err != nil {
		log.Printf("generation tasks still running at shutdown: %v", err)
	}
}

// authMiddleware verifies Firebase tokens when credentials are configured.
// Outside production a missing credentials file falls back to header-based dev users.
func authMiddleware(ctx context.Context, cfg *config.Config) (gin.HandlerFunc, error) {
	if cfg.Firebase.CredentialsPath == "" {
		if cfg.IsProduction() {
			return nil, errors.New("FIREBASE_CREDENTIALS_PATH is required in production")
		}
		log.Println("Warning: FIREBASE_CREDENTIALS_PATH not set, using X-User-Id dev authentication")
		return auth.DevUser(), nil
	}

	client, err := auth.InitializeFirebase(ctx, &cfg.Firebase)
	if err != nil {
		return nil, err
	}
	return middleware.FirebaseAuthMiddleware(client), nil
}
