package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "modernc.org/sqlite"

	emailPkg "memberdesk/internal/adapters/email"
	web "memberdesk/internal/adapters/http"
	"memberdesk/internal/adapters/http/perf"
	"memberdesk/internal/adapters/storage"
	accountStore "memberdesk/internal/adapters/storage/account"
	attendanceStore "memberdesk/internal/adapters/storage/attendance"
	memberStore "memberdesk/internal/adapters/storage/member"
	memberLogStore "memberdesk/internal/adapters/storage/memberlog"
	pricingStore "memberdesk/internal/adapters/storage/pricing"
	renewalStore "memberdesk/internal/adapters/storage/renewal"
	"memberdesk/internal/adapters/storage/txn"
	"memberdesk/internal/application/orchestrators"
	"memberdesk/internal/config"
	"memberdesk/internal/domain/pricing"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config_invalid", "error", err.Error())
		os.Exit(1)
	}
	setupLogging(cfg)
	loc, _ := cfg.Location()

	// WAL mode, foreign keys and busy timeout on every connection
	dsn := cfg.DBPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		fatal("failed to open database", err)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		fatal("database unreachable", err)
	}
	if err := storage.MigrateDB(db); err != nil {
		fatal("failed to migrate database", err)
	}

	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector, cfg.SlowQuery())

	stores := &web.Stores{
		AccountStore:    accountStore.NewSQLiteStore(timedDB),
		MemberStore:     memberStore.NewSQLiteStore(timedDB),
		AttendanceStore: attendanceStore.NewSQLiteStore(timedDB),
		RenewalStore:    renewalStore.NewSQLiteStore(timedDB),
		LogStore:        memberLogStore.NewSQLiteStore(timedDB),
		PricingStore:    pricingStore.NewSQLiteStore(timedDB),
		Writes:          txn.New(timedDB),
	}
	clock := orchestrators.Clock{Now: time.Now, Location: loc}

	ctx := context.Background()
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: stores.AccountStore, Clock: clock}
	if err := orchestrators.ExecuteSeedAdmin(ctx, seedDeps, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		fatal("failed to seed admin", err)
	}

	// An explicit pricing file overrides the stored list; the embedded defaults only fill an empty table.
	prices, override := loadPrices(cfg)
	if err := orchestrators.ExecuteSeedPricing(ctx, prices, override, orchestrators.SeedPricingDeps{PricingStore: stores.PricingStore}); err != nil {
		fatal("failed to seed pricing", err)
	}

	var sender emailPkg.Sender
	if cfg.ResendKey != "" {
		sender = emailPkg.NewResendSender(cfg.ResendKey, cfg.ResendFrom)
		slog.Info("email_configured", "provider", "resend")
	} else {
		sender = emailPkg.NewNoopSender()
		if cfg.IsProduction() {
			slog.Warn("email_disabled", "detail", "MEMBERDESK_RESEND_KEY is not set; welcome emails are not delivered")
		} else {
			slog.Info("email_configured", "provider", "noop")
		}
	}

	stop := make(chan struct{})
	defer close(stop)

	orchestrators.StartBackgroundWorker(orchestrators.ExpireMembersDeps{
		MemberStore: stores.MemberStore,
		LogStore:    stores.LogStore,
		Tx:          stores.Writes,
		Clock:       clock,
	}, cfg.ExpiryInterval, stop)

	handler := web.NewMux("static", stores, collector, web.Options{
		Location:        loc,
		CSRFKey:         []byte(cfg.CSRFKey),
		Production:      cfg.IsProduction(),
		SummaryCacheTTL: cfg.SummaryCacheTTL,
		SlowRequest:     cfg.SlowRequest(),
		Welcome:         &orchestrators.WelcomeEmail{Sender: sender, From: cfg.ResendFrom},
	}, stop)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()
	go func() {
		<-sigCtx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 10*time.Second)
		defer done()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("server_shutdown_failed", "error", err.Error())
		}
	}()

	slog.Info("server_starting", "version", version, "addr", cfg.Addr, "env", cfg.Env,
		"tz", loc.String(), "schema", storage.LatestSchemaVersion())
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		fatal("server failed", err)
	}
	slog.Info("server_stopped")
}

// loadPrices returns the configured price list and whether it replaces stored prices.
func loadPrices(cfg config.Config) ([]pricing.Price, bool) {
	if cfg.PricingFile != "" {
		prices, err := pricing.LoadFile(cfg.PricingFile)
		if err != nil {
			fatal("failed to load pricing file", err)
		}
		return prices, true
	}
	prices, err := pricing.Defaults()
	if err != nil {
		fatal("failed to parse default pricing", err)
	}
	return prices, false
}

// setupLogging installs a JSON logger in production and a text logger otherwise.
func setupLogging(cfg config.Config) {
	var h slog.Handler
	if cfg.IsProduction() {
		h = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		h = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(h))
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err.Error())
	os.Exit(1)
}
