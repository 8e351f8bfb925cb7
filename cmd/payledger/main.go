package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"PayLedger/internal/core"
	"PayLedger/internal/ingestion"
	"PayLedger/internal/observability"
	"PayLedger/internal/persistence"
	"PayLedger/internal/report"

	_ "github.com/lib/pq"
	"github.com/nats-io/nats.go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds all application configuration, loaded from environment
// variables with flag overrides.
type Config struct {
	LaneCapacity int

	// Serve mode (NATS)
	NATSURL     string
	NATSSubject string
	NATSBuffer  int
	HTTPAddr    string

	// Optional snapshot export
	PostgresDSN string
}

func DefaultConfig() Config {
	return Config{
		LaneCapacity: envIntOrDefault("PAY_LANE_CAPACITY", core.DefaultLaneCapacity),
		NATSURL:      envOrDefault("PAY_NATS_URL", nats.DefaultURL),
		NATSSubject:  envOrDefault("PAY_NATS_SUBJECT", ingestion.DefaultSubject),
		NATSBuffer:   envIntOrDefault("PAY_NATS_BUFFER", 1024),
		HTTPAddr:     envOrDefault("PAY_HTTP_ADDR", ":9091"),
		PostgresDSN:  envOrDefault("PAY_POSTGRES_DSN", ""),
	}
}

func main() {
	serve := flag.Bool("serve", false, "consume events from NATS until interrupted instead of reading a CSV file")
	pgDSN := flag.String("pg-dsn", "", "export the final balance snapshot to this Postgres DSN")
	flag.Parse()

	cfg := DefaultConfig()
	if *pgDSN != "" {
		cfg.PostgresDSN = *pgDSN
	}

	logger := observability.NewLogger("payledger")

	if err := run(cfg, *serve, flag.Arg(0), logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cfg Config, serve bool, csvPath string, logger zerolog.Logger) error {
	metrics := observability.NewMetrics()
	engine := core.NewEngine(core.Config{LaneCapacity: cfg.LaneCapacity}, logger, metrics)

	var src core.Source

	if serve {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		conn, err := nats.Connect(cfg.NATSURL)
		if err != nil {
			return fmt.Errorf("connect nats: %w", err)
		}
		defer conn.Close()

		src, err = ingestion.NewNATSSource(ctx, conn, cfg.NATSSubject, cfg.NATSBuffer)
		if err != nil {
			return err
		}

		health := observability.NewHealthChecker()
		health.SetReady(true)
		go serveHTTP(cfg.HTTPAddr, health, logger)

		logger.Info().
			Str("subject", cfg.NATSSubject).
			Str("url", cfg.NATSURL).
			Msg("consuming transaction events, SIGINT to drain and report")
	} else {
		if csvPath == "" {
			return errors.New("expected 1 argument: path to transaction log")
		}
		f, err := os.Open(csvPath)
		if err != nil {
			return fmt.Errorf("open transaction log: %w", err)
		}
		defer f.Close()

		src, err = ingestion.NewCSVSource(f)
		if err != nil {
			return err
		}
	}

	accounts, err := engine.Run(src)
	if err != nil {
		return err
	}

	if err := report.Write(os.Stdout, accounts); err != nil {
		return err
	}

	if cfg.PostgresDSN != "" {
		if err := exportSnapshot(cfg, engine, metrics); err != nil {
			return err
		}
		logger.Info().Str("run_id", engine.RunID().String()).Msg("balance snapshot exported")
	}

	return nil
}

func exportSnapshot(cfg Config, engine *core.Engine, metrics *observability.Metrics) error {
	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		return fmt.Errorf("postgres open: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping: %w", err)
	}

	exporter := persistence.NewExporter(db, 500, metrics)
	if err := exporter.EnsureSchema(ctx); err != nil {
		return err
	}
	return exporter.ExportAccounts(ctx, engine.RunID(), engine.Accounts())
}

func serveHTTP(addr string, health *observability.HealthChecker, logger zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", health.LivenessHandler)
	mux.HandleFunc("/readyz", health.ReadinessHandler)

	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error().Err(err).Str("addr", addr).Msg("http listener stopped")
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOrDefault(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
