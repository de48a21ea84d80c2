package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/panel"
	"github.com/dgallion1/docoutline/internal/workspace"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the change tracker.
	tracker := workspace.NewTracker(workspace.Options{
		Workers:     cfg.WorkerCount,
		QueueSize:   cfg.MaxQueueSize,
		DocumentTTL: cfg.DocumentTTL,
		StatsWindow: cfg.StatsWindow,
	}, log)
	tracker.Start(ctx)

	// Forward panel updates to the host bridge when one is configured.
	var bridge *panel.Client
	if cfg.PanelURL != "" {
		bridge = panel.NewClient(cfg.PanelURL, cfg.PanelAPIKey)
		pub := panel.NewPublisher(bridge, log)
		tracker.Subscribe(pub.Notify)
		go pub.Run(ctx)
		log.Info("publishing panel updates", "url", cfg.PanelURL)
	}

	// Initialize HTTP server.
	srv := api.NewServer(tracker, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		tracker.Stop()
		cancel()
		if bridge != nil {
			bridge.Close()
		}
	}()

	log.Info("starting docoutline", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
