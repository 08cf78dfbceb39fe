// Command rankd serves the rank API and runs the rank monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/shoprank/internal/app"
	"github.com/rickgao/shoprank/internal/config"
	"github.com/rickgao/shoprank/internal/metrics"
	"github.com/rickgao/shoprank/internal/monitor"
	"github.com/rickgao/shoprank/internal/notify"
	"github.com/rickgao/shoprank/internal/server"
	"github.com/rickgao/shoprank/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/rankd.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Set up structured logging
	logger := app.NewLogger(os.Stdout, cfg.SlogLevel())
	slog.SetDefault(logger)

	logger.Info("starting rankd",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize", "error", err)
		os.Exit(1)
	}
	defer func() { _ = a.Close() }()

	logger.Info("history store ready", "driver", cfg.History.Driver)

	// Verify search credentials before serving
	pingCtx, pingCancel := context.WithTimeout(ctx, cfg.Search.Timeout)
	if err := a.Search.Ping(pingCtx); err != nil {
		logger.Warn("search API check failed", "error", err)
	}
	pingCancel()

	// Metrics server
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler: metrics.Handler(cfg.Metrics.Path),
	}
	go func() {
		logger.Info("starting metrics server", "port", cfg.Metrics.Port, "path", cfg.Metrics.Path)
		if err := metricsServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()

	// API server
	apiServer := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      server.New(a.Service, logger).Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
	go func() {
		logger.Info("starting api server", "addr", cfg.Server.Addr)
		if err := apiServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api server error", "error", err)
			cancel()
		}
	}()

	// Rank monitor
	var mon *monitor.Monitor
	if cfg.Monitor.Enabled {
		mon, err = startMonitor(ctx, cfg, a, logger)
		if err != nil {
			logger.Error("failed to start monitor", "error", err)
			os.Exit(1)
		}
	}

	logger.Info("rankd running", "addr", cfg.Server.Addr)

	// Wait for shutdown
	<-ctx.Done()

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if mon != nil {
		if err := mon.Stop(shutdownCtx); err != nil {
			logger.Warn("monitor stop", "error", err)
		}
	}
	_ = apiServer.Shutdown(shutdownCtx)
	_ = metricsServer.Shutdown(shutdownCtx)

	logger.Info("rankd stopped")
}

func startMonitor(ctx context.Context, cfg *config.Config, a *app.App, logger *slog.Logger) (*monitor.Monitor, error) {
	notifiers := notify.Multi{notify.NewLog(logger)}
	if cfg.Telegram.BotToken != "" {
		tg, err := notify.NewTelegram(cfg.Telegram.BotToken, cfg.Telegram.ChatID)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}

	watches := make([]monitor.Watch, len(cfg.Monitor.Watches))
	for i, w := range cfg.Monitor.Watches {
		watches[i] = monitor.Watch{Keyword: w.Keyword, Merchant: w.Merchant}
	}

	mon := monitor.New(monitor.Config{
		Interval:    cfg.Monitor.Interval,
		Concurrency: cfg.Monitor.Concurrency,
		Timeout:     cfg.Monitor.Timeout,
	}, a.Service, a.History, notifiers, watches, logger)

	if err := mon.Start(ctx); err != nil {
		return nil, err
	}
	return mon, nil
}
