// ====================================
// File: cmd/paycalc/main.go
// ====================================
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/rovshanmuradov/paycalc/internal/calc"
	"github.com/rovshanmuradov/paycalc/internal/config"
	"github.com/rovshanmuradov/paycalc/internal/utils/logger"
)

const configPath = "configs/config.yaml"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	path := configPath
	if _, err := os.Stat(path); err != nil {
		path = ""
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.DefaultConfig()
	logCfg.Development = cfg.DebugLogging
	logCfg.LogFile = cfg.LogFile
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.WithComponent("config").Debug("config loaded",
		zap.String("path", path),
		zap.String("fee_rate", cfg.FeeRate),
		zap.Int64("duration_minutes", cfg.DurationMinutes),
		zap.Int("token_decimals", cfg.TokenDecimals),
		zap.String("mint", cfg.Mint))

	opLog := log.WithOperation("payment_calculation")

	done := log.TrackPerformance("payment_calculation")
	_, err = calc.NewRunner(cfg, opLog, os.Stdout).Run(ctx)
	done()
	if err != nil {
		log.LogError("calculation failed", err)
		_ = log.Sync()
		os.Exit(1)
	}
}
