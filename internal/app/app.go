package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/specialistvlad/passgraph/internal/config"
	"github.com/specialistvlad/passgraph/internal/ctxlog"
	"github.com/specialistvlad/passgraph/internal/metrics"
	"github.com/specialistvlad/passgraph/internal/passgraph"
	"github.com/specialistvlad/passgraph/internal/report"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	model    *config.Model
	compiler *passgraph.Compiler
	metrics  *metrics.Recorder
	registry *prometheus.Registry

	mu   sync.RWMutex
	plan *report.Plan

	httpServer *http.Server
}

// NewApp is the constructor for the main application. Reports go to outW and
// logs to logW. A graph description that cannot be loaded is a fatal startup
// error and panics.
func NewApp(outW, logW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, logW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	model, err := loader.Load(ctx, appConfig.GraphPath)
	if err != nil {
		panic(fmt.Errorf("failed to load graph description: %w", err))
	}
	logger.Debug("Graph description loaded.", "queues", len(model.Queues), "passes", len(model.Passes))

	registry := prometheus.NewRegistry()
	recorder := metrics.NewRecorder()
	recorder.MustRegister(registry)

	return &App{
		outW:     outW,
		logger:   logger,
		config:   appConfig,
		model:    model,
		compiler: passgraph.New(passgraph.WithQueueCount(max(1, model.QueueCount()))),
		metrics:  recorder,
		registry: registry,
	}
}

// Model returns the loaded graph description.
func (a *App) Model() *config.Model {
	return a.model
}

// Compiler returns the application's compiler. This is primarily for testing.
func (a *App) Compiler() *passgraph.Compiler {
	return a.compiler
}

// Plan returns the report of the last successful build, or nil.
func (a *App) Plan() *report.Plan {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.plan
}
