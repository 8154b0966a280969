package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/toller892/paraformer-api-server/external/config"
	engineimpl "github.com/toller892/paraformer-api-server/external/engine"
	fetcherimpl "github.com/toller892/paraformer-api-server/external/fetcher"
	"github.com/toller892/paraformer-api-server/external/httpapi"
	mediaimpl "github.com/toller892/paraformer-api-server/external/media"
	repositoryimpl "github.com/toller892/paraformer-api-server/external/repository"
	webhookimpl "github.com/toller892/paraformer-api-server/external/webhook"
	"github.com/toller892/paraformer-api-server/internal/config"
	"github.com/toller892/paraformer-api-server/internal/engine"
	"github.com/toller892/paraformer-api-server/internal/readiness"
	"github.com/toller892/paraformer-api-server/internal/transcript"
	"github.com/samber/do/v2"
)

const shutdownGracePeriod = 15 * time.Second

func main() {
	slog.Info("startup: loading configuration")
	cfg := mustLoadConfig()
	initLogger(cfg)
	slog.Info("startup: configuration loaded", "env", cfg.Env, "backend", cfg.EngineBackend)

	slog.Info("startup: building dependency graph")
	gate := readiness.NewGate()
	injector := setupDI(cfg, gate)

	warmEngines(cfg, gate, injector)
	runServer(cfg, injector)
}

func mustLoadConfig() *config.Config {
	cfg, err := configloader.Load()
	if err != nil {
		slog.Error("config validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config, gate *readiness.Gate) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	do.ProvideValue(injector, gate)
	mediaimpl.RegisterDI(injector)
	engineimpl.RegisterDI(injector)
	fetcherimpl.RegisterDI(injector)
	repositoryimpl.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	transcript.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

// warmEngines launches the one-shot model warmup in the background. Requests
// arriving before it settles are rejected by the readiness gate, so the HTTP
// server can start listening immediately.
func warmEngines(cfg *config.Config, gate *readiness.Gate, injector do.Injector) {
	warmer, err := do.Invoke[engine.Warmer](injector)
	if err != nil {
		slog.Error("failed to resolve engine warmer", "error", err)
		os.Exit(1)
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.EngineWarmupTimeoutSec)*time.Second)
		defer cancel()

		slog.Info("startup: warming inference engines", "timeout_sec", cfg.EngineWarmupTimeoutSec)
		gate.Run(ctx, warmer.Warm)
	}()
}

func runServer(cfg *config.Config, injector do.Injector) {
	handler, err := do.Invoke[*httpapi.Handler](injector)
	if err != nil {
		slog.Error("failed to resolve http handler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: handler.Router(),
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: http server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server failed", "error", err)
		}
		close(done)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		slog.Info("shutting down")
	case <-done:
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("http shutdown failed", "error", err)
	}
	<-done
}
