// Package app owns the process lifecycle: it wires the database, model
// store and services together at startup and tears them down at shutdown.
// The state machine is Uninitialized -> Ready -> ShutDown with no other
// transitions; re-initialization within one process is not supported.
package app

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"github.com/itemguard/moderation-api/internal/api"
	"github.com/itemguard/moderation-api/internal/database"
	"github.com/itemguard/moderation-api/internal/logger"
	"github.com/itemguard/moderation-api/internal/middleware"
	"github.com/itemguard/moderation-api/internal/modelstore"
	"github.com/itemguard/moderation-api/internal/repository"
	"github.com/itemguard/moderation-api/internal/services"
	"github.com/itemguard/moderation-api/pkg/config"
)

// State is the application lifecycle state
type State int32

const (
	StateUninitialized State = iota
	StateReady
	StateShutDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateReady:
		return "ready"
	case StateShutDown:
		return "shut down"
	}
	return "unknown"
}

// Application holds the process-wide dependencies. Handlers receive them by
// injection; there is no ambient global state.
type Application struct {
	cfg      *config.Config
	logger   logger.Logger
	db       *database.DB
	services *services.Services
	router   *gin.Engine
	state    atomic.Int32
}

// New creates an uninitialized application
func New(cfg *config.Config, log logger.Logger) *Application {
	return &Application{
		cfg:    cfg,
		logger: log,
	}
}

// Startup transitions Uninitialized -> Ready. The database connection is
// required (lookup-by-id is enabled in this deployment), so a connection
// failure aborts startup. A model load failure does not: the application
// becomes Ready with an unavailable prediction service, which surfaces to
// callers as 503.
func (a *Application) Startup(ctx context.Context) error {
	if State(a.state.Load()) != StateUninitialized {
		return fmt.Errorf("application already started (state: %s)", a.State())
	}

	db, err := database.New(a.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	a.db = db

	if err := database.RunMigrations(a.cfg.DatabaseURL); err != nil {
		db.Close()
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	repos := repository.NewRepositories(db.DB)

	store := modelstore.New(a.cfg, repos.Registry, a.logger)
	artifact, err := store.Obtain(ctx)
	if err != nil {
		a.logger.Error("Scoring model unavailable, serving degraded", err)
		artifact = nil
	}

	a.services = services.New(repos, artifact, a.logger)

	r := gin.New()
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.LoggingMiddleware(a.logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(gin.CustomRecovery(a.recoverHandler))

	api.SetupRoutes(r, a.services, a.db, a.logger)
	a.router = r

	a.state.Store(int32(StateReady))
	a.logger.Info("Application ready", "model_loaded", a.services.Prediction.Available())

	return nil
}

// recoverHandler is the catch-all boundary: any panic in a handler becomes
// a generic 500 and the process keeps serving.
func (a *Application) recoverHandler(c *gin.Context, err interface{}) {
	a.logger.Error("Panic recovered in request handler", fmt.Errorf("%v", err),
		"path", c.Request.URL.Path)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error."})
}

// Router returns the HTTP handler. Valid only after Startup succeeds.
func (a *Application) Router() http.Handler {
	return a.router
}

// State returns the current lifecycle state
func (a *Application) State() State {
	return State(a.state.Load())
}

// Shutdown transitions Ready -> ShutDown, releasing the database connection
// and the service references. Terminal: no requests are served afterwards.
func (a *Application) Shutdown() error {
	if !a.state.CompareAndSwap(int32(StateReady), int32(StateShutDown)) {
		return fmt.Errorf("cannot shut down from state %s", a.State())
	}

	a.services = nil

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		a.db = nil
	}

	a.logger.Info("Application shut down")
	return nil
}
