package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"

	"github.com/sonarhq/sonar-catalog/pkg/catalog/api"
	"github.com/sonarhq/sonar-catalog/pkg/catalog/config"
)

// ServerEnv carries the process-level settings read before the catalog
// configuration is assembled.
type ServerEnv struct {
	EnvPrefix string `env:"SONAR_ENV_PREFIX" env-default:""`
	LogFormat string `env:"SONAR_LOG_FORMAT" env-default:"text"` // text or json
}

func main() {
	var serverEnv ServerEnv
	if err := cleanenv.ReadEnv(&serverEnv); err != nil {
		log.Fatalf("Failed to read server environment: %v", err)
	}

	setupLogger(serverEnv.LogFormat)

	serverConfig, err := config.Load(config.WithEnv(serverEnv.EnvPrefix))
	if err != nil {
		log.Fatalf("Failed to load server configuration: %v", err)
	}

	svc, err := serverConfig.BuildService()
	if err != nil {
		log.Fatalf("Failed to build catalog service: %v", err)
	}

	if serverConfig.SeedOnStart {
		if err := svc.EnsureInitialized(context.Background()); err != nil {
			log.Fatalf("Failed to initialize catalog: %v", err)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Mount("/api/v1", api.NewCatalogHandler(svc).Routes())

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: r,
	}

	go func() {
		slog.Info("Sonar catalog server starting",
			"port", serverConfig.Port,
			"environment", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"storage", serverConfig.StorageType)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("Server exiting")
}

func setupLogger(format string) {
	if format == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}
}
