// Package infrastructure provides core initialization for a detection run.
// It assembles common dependencies (logging, database, storage, model) that
// the pipeline requires.
package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"syscall"

	"github.com/google/uuid"

	"github.com/JaimeStill/spotter/internal/config"
	"github.com/JaimeStill/spotter/internal/detector"
	"github.com/JaimeStill/spotter/pkg/database"
	"github.com/JaimeStill/spotter/pkg/lifecycle"
	"github.com/JaimeStill/spotter/pkg/storage"
)

// ModelLoader opens the detection model described by cfg.
type ModelLoader func(cfg *config.ModelConfig) (detector.Model, error)

// Infrastructure holds the core systems required by the pipeline.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Database  database.System
	Storage   storage.System
	Model     detector.Model
	RunID     string

	cfg    *config.Config
	loader ModelLoader
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not connect or load the model;
// call Start separately. Resources opened here are released by Shutdown, or
// before returning when New fails.
func New(cfg *config.Config, loader ModelLoader) (*Infrastructure, error) {
	lc := lifecycle.New(context.Background(), os.Interrupt, syscall.SIGTERM)

	fail := func(err error) (*Infrastructure, error) {
		return nil, errors.Join(err, lc.Shutdown(cfg.ShutdownTimeoutDuration()))
	}

	runID := uuid.NewString()
	logger, closeLog, err := newLogger(&cfg.Log)
	if err != nil {
		return fail(fmt.Errorf("logger init failed: %w", err))
	}
	lc.OnShutdown("log", closeLog)
	logger = logger.With("run_id", runID)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return fail(fmt.Errorf("database init failed: %w", err))
	}
	lc.OnShutdown("database", db.Close)

	store, err := storage.New(&cfg.Storage, logger)
	if err != nil {
		return fail(fmt.Errorf("storage init failed: %w", err))
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Database:  db,
		Storage:   store,
		RunID:     runID,
		cfg:       cfg,
		loader:    loader,
	}, nil
}

// Start loads the model and verifies the database is reachable.
// Each acquired resource registers its release hook with the lifecycle.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}

	model, err := i.loader(&i.cfg.Model)
	if err != nil {
		return fmt.Errorf("model load failed: %w", err)
	}
	i.Model = model
	i.Lifecycle.OnShutdown("model", model.Close)

	i.Logger.Info(
		"model loaded",
		"path", i.cfg.Model.Path,
		"classes", len(model.Labels()),
	)
	return nil
}

// Shutdown releases every registered resource.
func (i *Infrastructure) Shutdown() error {
	return i.Lifecycle.Shutdown(i.cfg.ShutdownTimeoutDuration())
}
