package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pondzashi/SuiPort/internal/app/service"
	"github.com/pondzashi/SuiPort/internal/client"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/restapi"
	"github.com/pondzashi/SuiPort/internal/infrastructure/snapshotstore"
	"github.com/pondzashi/SuiPort/internal/infrastructure/suirpc"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
	"github.com/pondzashi/SuiPort/internal/pkg/metrics"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

func main() {
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
	logger.Info("Dashboard server starting", "port", cfg.Server.Port)

	metrics.MustRegisterMetrics()

	appLogger := logger.NewSlogAdapter()

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

	handler := restapi.NewSnapshotHandler(valuationSvc, cfg, appLogger)
	router := restapi.SetupRouter(handler, cfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Fatal("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exiting")
}
