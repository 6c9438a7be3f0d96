package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	httpLayer "github.com/bdowdell/cuffnote/http"
	"github.com/bdowdell/cuffnote/repository"
	"github.com/bdowdell/cuffnote/service"
)

func main() {
	_ = godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	})))

	scheduleRepo := repository.NewScheduleRepositoryMemory()

	var cache repository.CacheRepository
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cache = repository.NewRedisCache(addr)
	} else {
		cache = repository.NewMockCache()
	}

	mortgageService := service.NewMortgageService(scheduleRepo, cache)
	scheduleHandler := httpLayer.NewScheduleHandler(mortgageService)

	prepaymentService := service.NewPrepaymentService(mortgageService)
	prepaymentHandler := httpLayer.NewPrepaymentHandler(prepaymentService)

	rateLimiter := httpLayer.NewRateLimiter(5, time.Minute)
	defer rateLimiter.Stop()

	mux := http.NewServeMux()
	mux.Handle(
		"/mortgage/schedule",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(scheduleHandler.CalculateSchedule),
		),
	)

	mux.Handle(
		"/mortgage/summary",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(scheduleHandler.Summary),
		),
	)

	mux.Handle(
		"/mortgage/prepayment",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(scheduleHandler.CalculatePrepayment),
		),
	)

	mux.Handle(
		"/mortgage/prepayment/compare",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(prepaymentHandler.Compare),
		),
	)

	mux.Handle(
		"/mortgage/prepayment/recommend",
		httpLayer.RateLimitMiddleware(
			rateLimiter,
			http.HandlerFunc(prepaymentHandler.RecommendExtraAmount),
		),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	server := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("mortgage API listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("server failed to start", "error", err)
		return
	case <-quit:
		slog.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		slog.Error("error during server shutdown", "error", err)
	}

	slog.Info("server exited")
}

func logLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
