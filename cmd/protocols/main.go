package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/pondzashi/SuiPort/internal/infrastructure/addressloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/configloader"
	"github.com/pondzashi/SuiPort/internal/infrastructure/protocolfetch"
	"github.com/pondzashi/SuiPort/internal/pkg/logger"
	"github.com/pondzashi/SuiPort/internal/pkg/utils"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		log.WithError(err).WithField("path", cfgPath).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.WithField("level", cfg.Logging.Level).Warn("Invalid log level in config, defaulting to info")
		level = logrus.InfoLevel
	}
	log.SetLevel(level)

	addresses, err := addressloader.NewFileLoader(cfg.Run, logger.NewSlogAdapter()).Addresses()
	if err != nil {
		log.WithError(err).Fatal("Failed to resolve address list")
	}

	fetcher := protocolfetch.NewFetcher(cfg.Protocols, cfg.Run.OutDir, log)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if err := fetcher.FetchAll(ctx, addresses); err != nil {
		log.WithError(err).Fatal("Protocol fetch run failed")
	}
	if err := fetcher.FetchBlockVision(ctx, addresses); err != nil {
		log.WithError(err).Fatal("BlockVision fetch run failed")
	}

	log.WithField("addresses", len(addresses)).Info("Protocol fetch run complete")
}
