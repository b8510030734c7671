package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/graphview/internal/config"
	"github.com/specialistvlad/graphview/internal/ctxlog"
	"github.com/specialistvlad/graphview/internal/telemetry"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	registry *prometheus.Registry
	metrics  *telemetry.Metrics
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and metrics registry.
// Logs go to logW, the report to outW.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	var configPaths []string
	if appConfig.ConfigPath != "" {
		configPaths = append(configPaths, appConfig.ConfigPath)
	}

	cfgModel, err := loader.Load(ctx, configPaths...)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load configuration: %w", err))
	}
	logger.Debug("Configuration loaded.", "default_view", cfgModel.Settings.DefaultView, "filters", len(cfgModel.Filters))

	registry := prometheus.NewRegistry()
	metrics, err := telemetry.New(registry)
	if err != nil {
		// A fresh registry cannot hold conflicting metrics; this is a programmer error.
		panic(err)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		model:    cfgModel,
		registry: registry,
		metrics:  metrics,
	}
}

// Metrics returns the application's counters. This is primarily for testing.
func (a *App) Metrics() *telemetry.Metrics {
	return a.metrics
}
