package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rogerio-castellano/catalog-api/internal/auth"
	"github.com/rogerio-castellano/catalog-api/internal/config"
	"github.com/rogerio-castellano/catalog-api/internal/http/handlers"
	rl "github.com/rogerio-castellano/catalog-api/internal/http/rate_limiter"
	"github.com/rogerio-castellano/catalog-api/internal/http/router"
	"github.com/rogerio-castellano/catalog-api/internal/logger"
)

const shutdownTimeout = 10 * time.Second

// @title Catalog API
// @version 1.0
// @description JWT-authenticated CRUD API for a product catalog.
// @host localhost:3000
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("could not load configuration: %v", err)
	}

	level, _ := cfg.SlogLevel()
	lg := logger.New(level, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, lg); err != nil {
		lg.Fatal("server stopped with error", "error", err)
	}
	lg.Info("server stopped")
}

func run(ctx context.Context, cfg *config.Config, lg *logger.Logger) error {
	st, err := openStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()
	lg.Info("store ready", "driver", cfg.Store.Driver)

	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authService := auth.NewService(st.users, tokens)

	seeded, err := authService.SeedUser(ctx, cfg.Seed.Username, cfg.Seed.Password)
	if err != nil {
		return err
	}
	lg.Info("seed user available", "username", seeded.Username, "id", seeded.ID)

	var visitors *rl.Visitors
	if cfg.RateLimit.RPS > 0 {
		visitors = rl.NewVisitors(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		go visitors.StartVisitorCleanupLoop(ctx)
	}

	srv := handlers.NewServer(st.products, authService, lg, cfg)
	httpServer := &http.Server{
		Addr: cfg.Addr(),
		Handler: router.NewRouter(srv, router.Options{
			Logger:        lg,
			Verifier:      authService,
			Visitors:      visitors,
			AllowedOrigin: cfg.CORS.AllowedOrigin,
			Development:   cfg.IsDevelopment(),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server running", "addr", httpServer.Addr, "env", cfg.Env)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	lg.Info("shutting down", "timeout", shutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
