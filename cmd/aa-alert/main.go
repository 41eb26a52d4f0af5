// Command aa-alert is the ArcheAge world-event alert service.
//
// It polls the remote event schedule once per tick, projects each monitored
// event's next occurrence, and posts Discord embed warnings at the
// configured lead times. An HTTP admin API (see cmd/aactl) configures the
// destination channel and mute window at runtime.
//
// Usage:
//
//	DATABASE_URL=... DISCORD_TOKEN=... ALERT_CHANNEL_ID=... aa-alert
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/kikibot/aa-alert/internal/alert"
	"github.com/kikibot/aa-alert/internal/api"
	"github.com/kikibot/aa-alert/internal/api/handler"
	"github.com/kikibot/aa-alert/internal/catalog"
	"github.com/kikibot/aa-alert/internal/config"
	"github.com/kikibot/aa-alert/internal/db"
	"github.com/kikibot/aa-alert/internal/discord"
	"github.com/kikibot/aa-alert/internal/dispatch"
	"github.com/kikibot/aa-alert/internal/maintenance"
	"github.com/kikibot/aa-alert/internal/settings"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	// Load .env if present
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Connect to database
	logger.Info("Connecting to database...")
	pool, err := db.New(ctx, cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	// Durable settings (destination override, mute window)
	store := settings.New(pool, cfg.AlertChannelID)
	if err := store.EnsureSchema(ctx); err != nil {
		logger.Error("Failed to ensure settings schema", "error", err)
		os.Exit(1)
	}

	// Alert pipeline wiring
	sender := discord.NewClient(cfg.DiscordAPIBase, cfg.DiscordToken, logger)
	dispatcher := dispatch.New(sender, store, cfg.Region, cfg.AlertRoleID, logger)
	fetcher := catalog.NewClient(cfg.EventsURL, 30, logger)
	worker := alert.NewWorker(fetcher, dispatcher, alert.NewMemStore(), alert.Config{
		Region:      cfg.Region,
		Targets:     cfg.Targets,
		LeadMinutes: cfg.LeadMinutes,
		Tolerance:   cfg.Tolerance,
	}, logger)

	// Tick driver: SkipIfStillRunning serializes ticks so dedup state is
	// never touched by two overlapping runs; Recover keeps a bad tick from
	// taking the process down.
	clog := cronLogger{logger}
	driver := cron.New(cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)))
	if _, err := driver.AddFunc(cfg.TickCron, func() { worker.RunTick(ctx) }); err != nil {
		logger.Error("Invalid TICK_CRON", "error", err, "cron", cfg.TickCron)
		os.Exit(1)
	}
	driver.Start()
	defer driver.Stop()

	logger.Info("Alert pipeline started",
		"region", cfg.Region,
		"targets", len(cfg.Targets),
		"lead_minutes", cfg.LeadMinutes,
		"cron", cfg.TickCron,
		"tolerance", cfg.Tolerance)

	// Eager first tick so a restart doesn't wait out a full interval.
	go worker.RunTick(ctx)

	// Mute sweep ticker
	go maintenance.Start(ctx, store, maintenance.DefaultConfig(), logger)

	// Admin API + liveness endpoint
	h := handler.New(store, dispatcher, worker, pool, handler.Info{
		Region:      cfg.Region,
		Targets:     cfg.Targets,
		LeadMinutes: cfg.LeadMinutes,
	}, logger)
	router := api.NewRouter(h, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.APIHost, cfg.APIPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in background
	go func() {
		logger.Info("Starting admin API", "addr", addr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt
	<-ctx.Done()
	logger.Info("Shutting down...")

	// Graceful shutdown with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", "error", err)
	}
	logger.Info("Server stopped")
}

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, kv ...interface{}) {
	c.l.Debug(msg, kv...)
}

func (c cronLogger) Error(err error, msg string, kv ...interface{}) {
	c.l.Error(msg, append([]interface{}{"error", err}, kv...)...)
}
