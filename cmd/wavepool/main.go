// Package main is the entry point for wavepool.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/Faultbox/wavepool/internal/app"
	"github.com/Faultbox/wavepool/internal/config"
	"github.com/Faultbox/wavepool/internal/desktop"
	"github.com/Faultbox/wavepool/internal/logger"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== wavepool ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	var a *app.App
	if config.Headless() {
		a, err = app.NewHeadless(cfg)
	} else {
		a, err = desktop.New(cfg)
	}
	if err != nil {
		logger.Error("failed to create host", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("frame loop failed", zap.Error(err))
		a.Close()
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("wavepool stopped", zap.Uint64("frames", a.Driver().Frames()))
}
