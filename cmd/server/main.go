package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/JonMunkholm/talentdesk/internal/config"
	"github.com/JonMunkholm/talentdesk/internal/core"
	"github.com/JonMunkholm/talentdesk/internal/core/tables" // Register all tables
	"github.com/JonMunkholm/talentdesk/internal/logging"
	"github.com/JonMunkholm/talentdesk/internal/table"
	"github.com/JonMunkholm/talentdesk/internal/web"
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

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_source", cfg.Data.Source,
		"session_max", cfg.Session.Max,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	ctx := context.Background()

	if cfg.UsesPostgres() {
		pool, err := connect(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		core.UseSources(tables.PostgresSources(pool, cfg.Data.CacheTTL))
	}
	if cfg.UsesCSV() {
		slog.Info("reading tables from csv files", "dir", cfg.Data.CSVDir)
		core.UseSources(tables.CSVSources(cfg.Data.CSVDir, cfg.Data.CacheTTL))
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	service := core.NewService(core.ServiceConfig{
		PageSize:           cfg.Table.DefaultPageSize,
		MaxRows:            cfg.Table.MaxRows,
		SelectScope:        table.SelectScope(cfg.Table.SelectScope),
		MaxSessions:        cfg.Session.Max,
		LoadTimeout:        cfg.Data.LoadTimeout,
		MaxConcurrentLoads: cfg.Data.MaxConcurrentLoads,
	}, core.WithMetrics(core.NewMetrics(reg)))

	slog.Info("tables registered",
		"count", core.TableCount(),
		"groups", len(core.Groups()),
	)
	for _, group := range core.Groups() {
		slog.Debug("table group", "group", group, "tables", len(core.ByGroup(group)))
	}

	// A failed warm-up only costs the first session its load time
	if err := service.WarmUp(ctx); err != nil {
		slog.Warn("warm-up incomplete", "error", err)
	}

	server := web.NewServer(service, cfg, web.WithGatherer(reg))

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go service.StartSessionSweeper(jobCtx, core.SweepConfig{
		TTL:      cfg.Session.TTL,
		Interval: cfg.Session.SweepInterval,
	})

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.LoadStatus(); status.Active > 0 {
			slog.Info("waiting for data loads to complete", "active", status.Active)
			if err := service.Drain(shutdownCtx); err != nil {
				slog.Warn("data loads did not complete in time", "error", err)
			}
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}

// connect opens and pings a pool sized from cfg.
func connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
