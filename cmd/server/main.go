package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	accounthandler "upcheck/internal/account/handler"
	accountservice "upcheck/internal/account/service"
	checkhandler "upcheck/internal/check/handler"
	checkservice "upcheck/internal/check/service"
	apihttp "upcheck/internal/http"
	"upcheck/internal/platform/config"
	"upcheck/internal/platform/httpserver"
	"upcheck/internal/platform/logger"
	"upcheck/internal/platform/metrics"
	"upcheck/internal/storage"
	tokenhandler "upcheck/internal/token/handler"
	tokenservice "upcheck/internal/token/service"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal service packages.
func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	store, err := storage.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Error("opening data directory", "dir", cfg.DataDir, "error", err)
		os.Exit(1)
	}

	m := metrics.New()

	// One lock set shared by both services: account read-modify-write
	// sequences must be exclusive across account and check operations.
	ownerLocks := storage.NewKeyMutex()

	tokens := tokenservice.New(store, cfg.HashingSecret, cfg.TokenTTL,
		tokenservice.WithLogger(log),
		tokenservice.WithMetrics(m),
	)
	accounts := accountservice.New(store, ownerLocks, tokens, cfg.HashingSecret,
		accountservice.WithLogger(log),
		accountservice.WithMetrics(m),
	)
	checks := checkservice.New(store, ownerLocks, tokens, cfg.MaxChecks,
		checkservice.WithLogger(log),
		checkservice.WithMetrics(m),
	)

	router := apihttp.NewRouter(
		accounthandler.New(accounts, log),
		tokenhandler.New(tokens, log),
		checkhandler.New(checks, log),
	)

	apiServer := httpserver.New(cfg.Addr, router)
	opsServer := httpserver.New(cfg.OpsAddr, apihttp.NewOpsRouter())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("api server listening", "addr", cfg.Addr, "data_dir", cfg.DataDir)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		log.Info("ops server listening", "addr", cfg.OpsAddr)
		if err := opsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return opsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
