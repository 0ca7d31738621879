// Package main runs a one-shot restock batch and writes CSV and Markdown
// reports to the output directory.
//
// Products come either from a JSON file (--products-file) with embedded
// sales history, or from PostgreSQL when POSTGRES_ENABLED is set.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/rs/zerolog"

	"seller-intel-engine/internal/config"
	"seller-intel-engine/internal/domain"
	"seller-intel-engine/internal/forecast"
	"seller-intel-engine/internal/inventory"
	"seller-intel-engine/internal/reporting"
	"seller-intel-engine/internal/storage/migrations"
	pgstore "seller-intel-engine/internal/storage/postgres"
)

func main() {
	envFile := flag.String("env-file", ".env", "Path to .env file (optional)")
	productsFile := flag.String("products-file", "", "JSON file with products to evaluate")
	outputDir := flag.String("output-dir", "output", "Output directory for reports")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall batch timeout")
	flag.Parse()

	cfg := config.Load(*envFile)
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.InfoLevel).With().Timestamp().Logger()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	mode := forecast.ModeDegraded
	if cfg.Forecast.Strict {
		mode = forecast.ModeStrict
	}
	adapter := forecast.NewFallbackAdapter(
		forecast.NewHTTPClient(cfg.Forecast.Endpoint,
			forecast.WithTimeout(cfg.Forecast.Timeout),
			forecast.WithMaxRetries(cfg.Forecast.MaxRetries),
		),
		mode, logger)

	guard := inventory.NewGuard(adapter, inventory.GuardConfig{
		DeadStockDays:    cfg.Guard.DeadStockDays,
		RaiseMarginFloor: cfg.Guard.MinMarginPct,
		SafetyDays:       cfg.Guard.SafetyDays,
		MaxConcurrency:   cfg.Guard.MaxConcurrency,
	}, logger)

	var report *reporting.RestockReport
	switch {
	case *productsFile != "":
		products, err := loadProducts(*productsFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", *productsFile).Msg("load products failed")
		}
		gen := reporting.NewGenerator(nil, nil, guard)
		report = gen.GenerateFor(ctx, products)

	case cfg.Postgres.Enabled:
		pool, err := pgstore.NewPool(ctx, cfg.Postgres.DSN)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connect failed")
		}
		defer pool.Close()
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			logger.Fatal().Err(err).Msg("migrations failed")
		}

		gen := reporting.NewGenerator(
			pgstore.NewProductStore(pool),
			pgstore.NewSalesHistoryStore(pool),
			guard,
		)
		report, err = gen.Generate(ctx)
		if err != nil {
			logger.Fatal().Err(err).Msg("restock batch failed")
		}

	default:
		logger.Fatal().Msg("--products-file or POSTGRES_ENABLED=true is required")
	}

	if err := reporting.WriteFiles(report, *outputDir); err != nil {
		logger.Fatal().Err(err).Msg("write reports failed")
	}
	logger.Info().
		Int("products", report.ProductCount).
		Int("high_risk", report.HighRiskCount).
		Int("forecast_failures", report.ForecastFailures).
		Str("output_dir", *outputDir).
		Msg("restock reports written")
}

func loadProducts(path string) ([]*domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, err
	}
	return products, nil
}
