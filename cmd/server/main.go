package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/JonMunkholm/sheetview/internal/config"
	"github.com/JonMunkholm/sheetview/internal/convert"
	"github.com/JonMunkholm/sheetview/internal/core"
	"github.com/JonMunkholm/sheetview/internal/dispatch"
	"github.com/JonMunkholm/sheetview/internal/logging"
	"github.com/JonMunkholm/sheetview/internal/metrics"
	"github.com/JonMunkholm/sheetview/internal/session"
	"github.com/JonMunkholm/sheetview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	rec := metrics.New()
	limiter := core.NewLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)

	pdf := convert.New(cfg.PDF.APIURL, convert.WithTimeout(cfg.PDF.Timeout))
	if pdf.Configured() {
		slog.Info("pdf conversion enabled", "url", pdf.BaseURL())
	} else {
		slog.Warn("PDF_API_URL not set, PDF uploads will fail")
	}

	dcfg := dispatch.Config{
		MaxRows:  cfg.Upload.RowLimit,
		Limiter:  limiter,
		Observer: rec,
	}
	if pdf.Configured() {
		dcfg.Converter = pdf
	}
	dispatcher := dispatch.New(dcfg)
	slog.Info("formats registered", "formats", dispatcher.Formats(), "row_limit", cfg.Upload.RowLimit)

	store := session.NewStore(session.StoreConfig{
		MaxSessions: cfg.Session.MaxSessions,
		MaxIdle:     cfg.Session.MaxIdle,
		Observer:    rec,
		Gauge:       rec,
	})

	server, err := web.NewServer(web.Deps{
		Config:     cfg,
		Store:      store,
		Dispatcher: dispatcher,
		Limiter:    limiter,
		PDF:        pdf,
		Metrics:    rec,
	})
	if err != nil {
		slog.Error("failed to create server", "error", err)
		os.Exit(1)
	}

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go store.Run(jobCtx, cfg.Session.CleanupInterval)

	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if st := limiter.Status(); st.Active > 0 {
			slog.Info("waiting for conversions to complete", "active", st.Active)
			if err := limiter.WaitForDrain(shutdownCtx); err != nil {
				slog.Warn("conversions did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
