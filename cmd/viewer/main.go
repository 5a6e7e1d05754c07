// Package main is the entry point for the scenegl demo viewer.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/rovergraph/scenegl/internal/config"
	"github.com/rovergraph/scenegl/internal/logger"
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

	logger.Log.Info("=== SceneGL Viewer ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	v, err := newViewer(cfg)
	if err != nil {
		logger.Log.Error("failed to create viewer", zap.Error(err))
		os.Exit(1)
	}
	defer v.close()

	if err := v.run(); err != nil {
		logger.Log.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Log.Info("viewer closed normally")
}
