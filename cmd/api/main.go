// cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/time/rate"

	"biblioteca/internal/books"
	"biblioteca/pkg/telemetry"
)

func main() {
	logger := telemetry.NewLogger(getEnv("LOG_LEVEL", "info"), getEnv("LOG_FORMAT", "console"))
	ctx := context.Background()

	shutdownTracing, err := telemetry.SetupTracing("biblioteca", getEnv("TRACE_EXPORTER", "none"))
	if err != nil {
		logger.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(ctx)

	store, err := books.OpenStore(ctx, getEnv("BOOKS_DB", "biblioteca.db"))
	if err != nil {
		logger.Fatalf("failed to open book store: %v", err)
	}
	defer store.Close()

	seeded, err := books.EnsureSeeded(ctx, store)
	if err != nil {
		logger.Fatalf("failed to seed book store: %v", err)
	}
	if seeded > 0 {
		logger.Infof("seeded %d example books", seeded)
	}

	svc := books.NewService(store)
	handler := books.NewHandler(svc)
	metrics := telemetry.NewMetrics("biblioteca")
	limiter := rate.NewLimiter(
		rate.Limit(getEnvInt("RATE_LIMIT_RPS", 50)),
		getEnvInt("RATE_LIMIT_BURST", 100),
	)

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(telemetry.RequestLogger(logger.Component("http")))
	router.Use(metrics.Middleware)
	router.Use(telemetry.RateLimit(limiter))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())
	router.Mount("/books", handler.Routes())

	port := getEnv("PORT", "8000")
	logger.Infof("biblioteca API listening on port %s", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		logger.Fatalf("server failed: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
