// Package serverapp wires configuration, storage, rendering, and the
// GraphQL handler into a managed server lifecycle.
package serverapp

import (
	"database/sql"
	"fmt"
	"net/http"
	"sync"

	"pagesnap/internal/config"
	"pagesnap/internal/dbexec"
	"pagesnap/internal/logging"
	"pagesnap/internal/observability"
	"pagesnap/internal/render"
	"pagesnap/internal/repository"
	"pagesnap/internal/storage"
)

// App owns runtime resources for the pagesnap server lifecycle.
type App struct {
	cfg    *config.Config
	logger *logging.Logger

	loggerProvider *observability.LoggerProvider

	metrics *observability.GraphQLMetrics

	db            *sql.DB
	queryExecutor dbexec.QueryExecutor
	repo          *repository.Repository

	renderer *render.Renderer
	store    *storage.Store

	graphqlHandler http.Handler
	mux            *http.ServeMux
	handler        http.Handler

	serverAddr string
	srv        *http.Server

	cleanup cleanupStack

	stateMu      sync.Mutex
	initialized  bool
	started      bool
	serverErrors chan error

	shutdownOnce sync.Once
}

// New creates an App lifecycle wrapper.
func New(cfg *config.Config, logger *logging.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	return &App{
		cfg:    cfg,
		logger: logger,
	}, nil
}

// AttachLoggerProvider registers an optional logger provider for shutdown cleanup.
func (a *App) AttachLoggerProvider(provider *observability.LoggerProvider) {
	a.stateMu.Lock()
	defer a.stateMu.Unlock()
	a.loggerProvider = provider
}
