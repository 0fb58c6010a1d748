package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pondzashi/SuiPort/internal/app/service"
	"github.com/pondzashi/SuiPort/internal/client"
	"github.com/pondzashi/SuiPort/internal/infrastructure/addressloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/ledger"
	"github.com/pondzashi/SuiPort/internal/infrastructure/report"
	"github.com/pondzashi/SuiPort/internal/infrastructure/snapshotstore"
	"github.com/pondzashi/SuiPort/internal/infrastructure/suirpc"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
	"github.com/pondzashi/SuiPort/internal/pkg/metrics"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zapLogger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "CRITICAL: failed to initialize zap logger: %v\n", err)
		os.Exit(1)
	}
	defer zapLogger.Sync()

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		zapLogger.Fatal("Failed to load configuration", zap.String("path", cfgPath), zap.Error(err))
	}

	logger.Init(zapLogger, cfg.Logging.Level)
	logger.Info("Portfolio snapshot run starting", "config", cfgPath, "out_dir", cfg.Run.OutDir)

	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

	addresses, err := addressloader.NewFileLoader(cfg.Run, appLogger).Addresses()
	if err != nil {
		logger.Fatal("Failed to resolve address list", "error", err)
	}

	chainClient, err := suirpc.NewClient(cfg.SuiRPC, zapLogger)
	if err != nil {
		logger.Fatal("Failed to connect to fullnode", "url", cfg.SuiRPC.URL, "error", err)
	}
	defer chainClient.Close()

	feedTimeout := time.Duration(cfg.CoinGecko.RequestTimeoutMillis) * time.Millisecond
	feedClient := client.NewCoinGeckoClient(cfg.CoinGecko.BaseURL, cfg.CoinGecko.APIKey, feedTimeout, zapLogger)
	priceResolver := service.NewPriceService(feedClient, appLogger, cfg)
	lendingStore := snapshotstore.NewFileStore(cfg.Run.OutDir, appLogger)

	valuationSvc := service.NewValuationService(
		chainClient,
		priceResolver,
		lendingStore,
		appLogger,
		cfg.Performance.MaxConcurrentRoutines,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	snap, err := valuationSvc.BuildSnapshot(ctx, addresses)
	if err != nil {
		errPath := filepath.Join(cfg.Run.OutDir, "latest_error.json")
		_ = os.MkdirAll(cfg.Run.OutDir, 0o755)
		_ = os.WriteFile(errPath, []byte(fmt.Sprintf("{\n  \"error\": %q\n}\n", err.Error())), 0o644)
		logger.Fatal("Valuation run failed", "error", err, "artifact", errPath)
	}

	if err := snapshotstore.SaveLatest(cfg.Run.OutDir, snap); err != nil {
		logger.Fatal("Failed to persist snapshot", "error", err)
	}
	if err := ledger.NewWriter(cfg.Run.OutDir, appLogger).Append(snap); err != nil {
		logger.Error("Ledger append incomplete", "error", err)
	}

	markdown := report.Markdown(snap)
	reportPath := filepath.Join(cfg.Run.OutDir, "report.md")
	if err := os.WriteFile(reportPath, []byte(markdown), 0o644); err != nil {
		logger.Error("Failed to write report", "path", reportPath, "error", err)
	}

	if page, err := report.Dashboard(snap); err != nil {
		logger.Error("Failed to render dashboard page", "error", err)
	} else {
		dashboardPath := filepath.Join(cfg.Run.OutDir, "dashboard.html")
		if err := os.WriteFile(dashboardPath, page, 0o644); err != nil {
			logger.Error("Failed to write dashboard page", "path", dashboardPath, "error", err)
		}
	}

	fmt.Println(markdown)
	logger.Info("Snapshot run complete",
		"accounts", len(snap.Accounts),
		"portfolio_total_usd", snap.Totals.PortfolioTotal)
}
