package serverapp

import (
	"context"
	"fmt"
	"log/slog"

	"pagesnap/internal/dbexec"
	"pagesnap/internal/render"
	"pagesnap/internal/repository"
)

// Init initializes all runtime resources. It is idempotent.
func (a *App) Init(ctx context.Context) error {
	a.stateMu.Lock()
	if a.initialized {
		a.stateMu.Unlock()
		return nil
	}
	a.stateMu.Unlock()

	if ctx == nil {
		ctx = context.Background()
	}

	cleanup := cleanupStack{}
	success := false
	defer func() {
		if !success {
			cleanup.run(context.Background(), a.logger)
		}
	}()

	if a.loggerProvider != nil {
		cleanup.push("logger provider", func(shutdownCtx context.Context) error {
			return a.loggerProvider.Shutdown(shutdownCtx, a.logger.Logger)
		})
	}

	metrics := initMetrics(a.cfg, a.logger)

	a.logger.Info("connecting to Postgres",
		slog.String("host", a.cfg.Database.Host),
		slog.Int("port", a.cfg.Database.Port),
		slog.String("database", a.cfg.Database.Database),
	)

	db, err := connectDB(a.cfg)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	cleanup.push("database", func(_ context.Context) error {
		return db.Close()
	})

	if err := configureDatabase(ctx, a.cfg, a.logger, db); err != nil {
		return fmt.Errorf("failed to verify database connection: %w", err)
	}

	queryExecutor := dbexec.NewStandardExecutor(db)
	repo := repository.New(queryExecutor, a.logger)

	store, err := initStorage(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("failed to initialize object storage: %w", err)
	}

	renderer, err := render.New(render.Config{
		BrowserBin: a.cfg.Render.BrowserPath,
		Timeout:    a.cfg.Render.NavTimeout,
		Width:      a.cfg.Render.Width,
		Height:     a.cfg.Render.Height,
	}, a.logger)
	if err != nil {
		return fmt.Errorf("failed to launch browser: %w", err)
	}
	cleanup.push("browser", func(shutdownCtx context.Context) error {
		return renderer.Close(shutdownCtx)
	})

	graphqlHandler, err := buildGraphQLHandler(a.cfg, a.logger, repo, renderer, store, metrics)
	if err != nil {
		return fmt.Errorf("failed to initialize GraphQL handler: %w", err)
	}

	mux := buildRouter(a.cfg, a.logger, db, store, graphqlHandler, metrics)
	handler := wrapHTTPHandler(a.cfg, a.logger, mux)

	serverAddr := fmt.Sprintf("%s:%d", a.cfg.Server.Host, a.cfg.Server.Port)
	srv := buildServer(a.cfg, handler, serverAddr)
	cleanup.push("HTTP server", func(shutdownCtx context.Context) error {
		return srv.Shutdown(shutdownCtx)
	})

	a.stateMu.Lock()
	a.metrics = metrics
	a.db = db
	a.queryExecutor = queryExecutor
	a.repo = repo
	a.renderer = renderer
	a.store = store
	a.graphqlHandler = graphqlHandler
	a.mux = mux
	a.handler = handler
	a.serverAddr = serverAddr
	a.srv = srv
	a.cleanup = cleanup
	a.initialized = true
	a.stateMu.Unlock()

	success = true
	return nil
}
