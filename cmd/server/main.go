package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/pressly/goose/v3"
	"golang.org/x/sync/errgroup"

	"github.com/tanzeem/pickup/internal/config"
	"github.com/tanzeem/pickup/internal/database"
	"github.com/tanzeem/pickup/internal/handler/api"
	"github.com/tanzeem/pickup/internal/handler/health"
	"github.com/tanzeem/pickup/internal/handler/live"
	"github.com/tanzeem/pickup/internal/metrics"
	"github.com/tanzeem/pickup/internal/migrations"
	"github.com/tanzeem/pickup/internal/pickup"
	"github.com/tanzeem/pickup/internal/schedule"
	"github.com/tanzeem/pickup/internal/server"
	"github.com/tanzeem/pickup/internal/snapshot"
	"github.com/tanzeem/pickup/internal/tanzeem"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	ops, err := config.LoadOps(cfg.OpsConfigPath)
	if err != nil {
		return fmt.Errorf("loading ops config: %w", err)
	}

	// --- Snapshot slot ---
	slot, closeSlot, err := openSlot(ctx, cfg.Snapshot, logger)
	if err != nil {
		return fmt.Errorf("opening %s snapshot slot: %w", cfg.Snapshot.Driver, err)
	}
	defer closeSlot()

	// --- Store ---
	reg := metrics.NewRegistry()
	store, err := pickup.Open(ctx, slot,
		pickup.WithStorageKey(cfg.StorageKey),
		pickup.WithLogger(logger),
		pickup.WithRecorder(metrics.NewPrometheusRecorder(reg)),
	)
	if err != nil {
		return fmt.Errorf("opening pickup store: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, func(r chi.Router) {
		r.Mount("/healthz", health.NewHandler(logger, map[string]health.Checker{
			"snapshot": slot,
		}).Routes())
		r.Mount("/api", api.NewHandler(store, ops, logger).Routes())
		r.Mount("/ws", live.NewHandler(store, logger).Routes())
		r.Handle("/metrics", metrics.Handler(reg))
		server.MountSPA(r, logger, cfg.SPADir)
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	if cfg.DemoResetCron != "" {
		sched, err := schedule.New(logger)
		if err != nil {
			return err
		}
		if _, err := sched.AddDemoReset(cfg.DemoResetCron, store); err != nil {
			return err
		}
		logger.Info("demo reset scheduled", "cron", cfg.DemoResetCron)
		g.Go(func() error { return sched.Run(gctx) })
	}

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}

type slot interface {
	tanzeem.SnapshotSlot
	health.Checker
}

// openSlot connects the configured snapshot driver. The returned func
// releases its connections.
func openSlot(ctx context.Context, cfg config.Snapshot, logger *slog.Logger) (slot, func(), error) {
	noop := func() {}

	switch cfg.Driver {
	case "sqlite":
		db, err := database.Open(ctx, cfg.DBPath)
		if err != nil {
			return nil, noop, err
		}
		n, err := migrations.Run(ctx, db, goose.DialectSQLite3)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		logger.Info("connected to sqlite", "path", cfg.DBPath, "migrations_applied", n)
		return snapshot.NewSQL(db, snapshot.DialectSQLite), func() { db.Close() }, nil

	case "postgres":
		db, err := database.OpenPostgres(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, noop, err
		}
		n, err := migrations.Run(ctx, db, goose.DialectPostgres)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		logger.Info("connected to postgres", "migrations_applied", n)
		return snapshot.NewSQL(db, snapshot.DialectPostgres), func() { db.Close() }, nil

	case "file":
		f, err := snapshot.NewFile(cfg.Dir)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("storing snapshots in files", "dir", cfg.Dir)
		return f, noop, nil

	case "redis":
		rdb, err := snapshot.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("connected to redis")
		return snapshot.NewRedis(rdb, cfg.RedisPrefix), func() { rdb.Close() }, nil

	case "s3":
		s, err := snapshot.NewS3(ctx, snapshot.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			Prefix:          cfg.S3Prefix,
			PathStyle:       cfg.S3PathStyle,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err != nil {
			return nil, noop, err
		}
		logger.Info("storing snapshots in s3", "bucket", cfg.S3Bucket)
		return s, noop, nil

	case "nats":
		n, err := snapshot.OpenNATS(ctx, cfg.NATSURL, cfg.NATSBucket)
		if err != nil {
			return nil, noop, err
		}
		logger.Info("connected to nats", "bucket", cfg.NATSBucket)
		return n, n.Close, nil

	case "memory":
		logger.Warn("snapshots kept in memory, state is lost on restart")
		return snapshot.NewMemory(), noop, nil
	}

	return nil, noop, fmt.Errorf("unknown snapshot driver %q", cfg.Driver)
}
