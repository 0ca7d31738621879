// Package main runs the seller intelligence engine:
// - HTTP API: stock health, restock batches, order intake, dashboard
// - Ingestion (continuous): Kafka order/sale events, WebSocket sales feed
// - Forecast boundary: remote forecaster with optional Redis cache and
//   local degraded fallback
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	"seller-intel-engine/internal/config"
	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/forecast"
	"seller-intel-engine/internal/ingestion"
	"seller-intel-engine/internal/inventory"
	"seller-intel-engine/internal/observability"
	"seller-intel-engine/internal/orders"
	"seller-intel-engine/internal/reporting"
	"seller-intel-engine/internal/server"
	"seller-intel-engine/internal/storage"
	chstore "seller-intel-engine/internal/storage/clickhouse"
	"seller-intel-engine/internal/storage/memory"
	"seller-intel-engine/internal/storage/migrations"
	pgstore "seller-intel-engine/internal/storage/postgres"
)

// stores holds the selected storage implementations.
type stores struct {
	products  storage.ProductStore
	sales     storage.SalesHistoryStore
	summaries storage.OrderSummaryStore
}

// mirroredSalesStore duplicates appends into the ClickHouse daily sales
// table. Reads always come from the primary store; mirror failures are
// logged, never surfaced.
type mirroredSalesStore struct {
	primary   storage.SalesHistoryStore
	analytics *chstore.DailySalesStore
	logger    zerolog.Logger
}

func (s *mirroredSalesStore) Append(ctx context.Context, productID string, records []domain.SalesRecord) error {
	if err := s.primary.Append(ctx, productID, records); err != nil {
		return err
	}
	if err := s.analytics.InsertBulk(ctx, productID, records); err != nil {
		s.logger.Warn().Err(err).Str("product_id", productID).Msg("clickhouse mirror append failed")
	}
	return nil
}

func (s *mirroredSalesStore) GetByProductID(ctx context.Context, productID string) ([]domain.SalesRecord, error) {
	return s.primary.GetByProductID(ctx, productID)
}

func main() {
	envFile := flag.String("env-file", ".env", "Path to .env file (optional)")
	useMemory := flag.Bool("use-memory", false, "Use in-memory storage instead of PostgreSQL")
	issueToken := flag.String("issue-token", "", "Print an API token for the given subject and exit")
	flag.Parse()

	cfg := config.Load(*envFile)
	logger := newLogger(cfg.Logger)

	if *issueToken != "" {
		if cfg.JWT.SecretKey == "" {
			logger.Fatal().Msg("JWT_SECRET_KEY is required to issue tokens")
		}
		token, err := server.IssueToken([]byte(cfg.JWT.SecretKey), *issueToken, 24*time.Hour)
		if err != nil {
			logger.Fatal().Err(err).Msg("issue token failed")
		}
		os.Stdout.WriteString(token + "\n")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, cleanup, err := createStores(ctx, cfg, *useMemory, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("storage init failed")
	}
	defer cleanup()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := observability.NewMetrics(registry)

	// Analytics mirror: sale appends are duplicated into ClickHouse for
	// velocity queries over long horizons.
	var analytics *chstore.DailySalesStore
	if cfg.Clickhouse.Enabled {
		conn, err := migrations.RunClickhouseMigrations(ctx, cfg.Clickhouse.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("clickhouse init failed")
		}
		defer conn.Close()
		analytics = chstore.NewDailySalesStore(conn)
		st.sales = &mirroredSalesStore{
			primary:   st.sales,
			analytics: analytics,
			logger:    logger,
		}
		logger.Info().Msg("clickhouse analytics mirror enabled")
	}

	adapter, rdbClose := buildForecastAdapter(cfg, metrics, logger)
	defer rdbClose()

	guard := inventory.NewGuard(adapter, inventory.GuardConfig{
		DeadStockDays:    cfg.Guard.DeadStockDays,
		RaiseMarginFloor: cfg.Guard.MinMarginPct,
		SafetyDays:       cfg.Guard.SafetyDays,
		MaxConcurrency:   cfg.Guard.MaxConcurrency,
	}, logger)
	generator := reporting.NewGenerator(st.products, st.sales, guard)
	manager := orders.NewManager(st.summaries, st.products, logger)

	srvOpts := server.Options{
		Guard:     guard,
		Generator: generator,
		Orders:    manager,
		Products:  st.products,
		Sales:     st.sales,
		Metrics:   metrics,
		Registry:  registry,
		Config:    cfg.Server,
		JWT:       cfg.JWT,
		Logger:    logger,
	}
	// A typed nil in the interface field would defeat the handler's nil check.
	if analytics != nil {
		srvOpts.Analytics = analytics
	}
	srv := server.New(srvOpts)

	// Ingestion sources per config toggles.
	var sources []ingestion.Source
	if cfg.Kafka.Enabled {
		sources = append(sources, ingestion.NewKafkaSource(ingestion.KafkaSourceConfig{
			Brokers: cfg.Kafka.Brokers,
			Topic:   cfg.Kafka.Topic,
			GroupID: cfg.Kafka.GroupID,
		}, logger))
	}
	if cfg.WS.Enabled && cfg.WS.Endpoint != "" {
		sources = append(sources, ingestion.NewWSSource(cfg.WS.Endpoint, nil, logger))
	}
	if len(sources) > 0 {
		runner := ingestion.NewRunner(sources, st.sales, manager, metrics, logger)
		go func() {
			if err := runner.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error().Err(err).Msg("ingestion stopped")
			}
		}()
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info().Str("signal", sig.String()).Msg("shutting down")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown failed")
		}
	}()

	if err := srv.Start(cfg.Server.HTTPAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal().Err(err).Msg("server error")
	}
	logger.Info().Msg("shutdown complete")
}

func newLogger(cfg config.LoggerConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	var logger zerolog.Logger
	if cfg.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}

// createStores selects the storage backend. With --use-memory everything
// lives in process; otherwise PostgreSQL is required and migrations run at
// startup.
func createStores(ctx context.Context, cfg *config.Config, useMemory bool, logger zerolog.Logger) (*stores, func(), error) {
	if useMemory || !cfg.Postgres.Enabled {
		logger.Info().Msg("using in-memory storage")
		return &stores{
			products:  memory.NewProductStore(),
			sales:     memory.NewSalesHistoryStore(),
			summaries: memory.NewOrderSummaryStore(),
		}, func() {}, nil
	}

	pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}
	logger.Info().Msg("postgres storage ready")

	return &stores{
		products:  pgstore.NewProductStore(pool),
		sales:     pgstore.NewSalesHistoryStore(pool),
		summaries: pgstore.NewOrderSummaryStore(pool),
	}, pool.Close, nil
}

// buildForecastAdapter assembles the forecast chain: instrumented HTTP
// client, optional Redis cache, then the fallback layer in strict or
// degraded mode. Instrumentation sits inside the cache so hits do not count
// as external calls.
func buildForecastAdapter(cfg *config.Config, metrics *observability.Metrics, logger zerolog.Logger) (forecast.Adapter, func()) {
	var adapter forecast.Adapter = forecast.NewInstrumentedAdapter(
		forecast.NewHTTPClient(cfg.Forecast.Endpoint,
			forecast.WithTimeout(cfg.Forecast.Timeout),
			forecast.WithMaxRetries(cfg.Forecast.MaxRetries),
		),
		metrics.ForecastCalls,
		metrics.ForecastCallLatency,
	)

	closeFn := func() {}
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		adapter = forecast.NewCachedAdapter(adapter, rdb, cfg.Forecast.CacheTTL, logger)
		closeFn = func() { _ = rdb.Close() }
	}

	mode := forecast.ModeDegraded
	if cfg.Forecast.Strict {
		mode = forecast.ModeStrict
	}
	return forecast.NewFallbackAdapter(adapter, mode, logger), closeFn
}
