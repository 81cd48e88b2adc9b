package serverapp

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"pagesnap/internal/config"
	"pagesnap/internal/logging"
	"pagesnap/internal/middleware"
	"pagesnap/internal/observability"
	"pagesnap/internal/page"
	"pagesnap/internal/render"
	"pagesnap/internal/repository"
	"pagesnap/internal/resolver"
	"pagesnap/internal/storage"

	"github.com/graphql-go/handler"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// healthCheckTimeout bounds the database ping on /healthz.
const healthCheckTimeout = 2 * time.Second

func InitLogger(cfg *config.Config) (*logging.Logger, *observability.LoggerProvider, error) {
	loggerCfg := logging.Config{
		Level:  cfg.Observability.Logging.Level,
		Format: cfg.Observability.Logging.Format,
	}
	logger := logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	if !cfg.Observability.Logging.ExportsEnabled {
		return logger, nil, nil
	}

	logger.Info("initializing OpenTelemetry logging",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("service_version", cfg.Observability.ServiceVersion),
		slog.String("environment", cfg.Observability.Environment),
		slog.String("otlp_endpoint", cfg.Observability.OTLP.Endpoint),
		slog.Bool("insecure", cfg.Observability.OTLP.Insecure),
	)

	loggerProvider, err := observability.InitLoggerProvider(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: cfg.Observability.ServiceVersion,
		Environment:    cfg.Observability.Environment,
		OTLPConfig: observability.OTLPExporterConfig{
			Endpoint: cfg.Observability.OTLP.Endpoint,
			Insecure: cfg.Observability.OTLP.Insecure,
			Headers:  cfg.Observability.OTLP.Headers,
			Timeout:  cfg.Observability.OTLP.Timeout,
		},
	})
	if err != nil {
		return nil, nil, err
	}

	logger.Info("OpenTelemetry logging initialized successfully")

	loggerCfg.LoggerProvider = loggerProvider.Provider()
	logger = logging.NewLogger(loggerCfg)
	slog.SetDefault(logger.Logger)

	return logger, loggerProvider, nil
}

func initMetrics(cfg *config.Config, logger *logging.Logger) *observability.GraphQLMetrics {
	if !cfg.Observability.MetricsEnabled {
		return nil
	}

	logger.Info("initializing Prometheus metrics",
		slog.String("service_name", cfg.Observability.ServiceName),
		slog.String("service_version", cfg.Observability.ServiceVersion),
		slog.String("environment", cfg.Observability.Environment),
	)

	return observability.NewGraphQLMetrics()
}

func connectDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.ConnString())
	if err != nil {
		return nil, err
	}
	return db, nil
}

func configureDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger, db *sql.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	db.SetMaxOpenConns(cfg.Database.Pool.MaxOpen)
	db.SetMaxIdleConns(cfg.Database.Pool.MaxIdle)
	db.SetConnMaxLifetime(cfg.Database.Pool.MaxLifetime)

	if err := waitForDatabase(ctx, cfg, logger, db); err != nil {
		return err
	}

	logger.Info("connected to database",
		slog.String("database", cfg.Database.Database),
		slog.Int("pool_max_open", cfg.Database.Pool.MaxOpen),
		slog.Int("pool_max_idle", cfg.Database.Pool.MaxIdle),
		slog.Duration("pool_max_lifetime", cfg.Database.Pool.MaxLifetime),
	)
	return nil
}

func waitForDatabase(ctx context.Context, cfg *config.Config, logger *logging.Logger, db *sql.DB) error {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := cfg.Database.ConnectionTimeout
	interval := cfg.Database.ConnectionRetryInterval

	// If timeout is 0, try once and fail immediately
	if timeout == 0 {
		return db.PingContext(ctx)
	}

	deadline := time.Now().Add(timeout)
	attempt := 0

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		attempt++
		err := db.PingContext(ctx)

		if err == nil {
			if attempt > 1 {
				logger.Info("database connection established", slog.Int("attempts", attempt))
			}
			return nil
		}

		if time.Now().After(deadline) {
			return fmt.Errorf("database not available after %v: %w", timeout, err)
		}

		logger.Warn("database not ready, retrying...",
			slog.Int("attempt", attempt),
			slog.Duration("retry_in", interval),
			slog.String("error", err.Error()),
		)
		time.Sleep(interval)

		// Exponential backoff, capped at 30s
		interval = min(interval*2, 30*time.Second)
	}
}

func initStorage(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*storage.Store, error) {
	store, err := storage.New(storage.Config{
		Endpoint:      cfg.Storage.Endpoint,
		AccessKey:     cfg.Storage.AccessKey,
		SecretKey:     cfg.Storage.SecretKey,
		Bucket:        cfg.Storage.Bucket,
		UseSSL:        cfg.Storage.UseSSL,
		PresignExpiry: cfg.Storage.PresignExpiry,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := store.EnsureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("object storage ready",
		slog.String("endpoint", cfg.Storage.Endpoint),
		slog.String("bucket", cfg.Storage.Bucket),
		slog.Bool("use_ssl", cfg.Storage.UseSSL),
	)
	return store, nil
}

// meteredRenderer records render latency per snapshot format.
type meteredRenderer struct {
	inner   *render.Renderer
	metrics *observability.GraphQLMetrics
}

func (m *meteredRenderer) Render(ctx context.Context, site string, pageType page.Type) ([]byte, error) {
	start := time.Now()
	data, err := m.inner.Render(ctx, site, pageType)
	if err == nil {
		m.metrics.RecordRender(time.Since(start), strings.ToLower(string(pageType)))
	}
	return data, err
}

func buildGraphQLHandler(cfg *config.Config, logger *logging.Logger, repo *repository.Repository, renderer *render.Renderer, store *storage.Store, metrics *observability.GraphQLMetrics) (http.Handler, error) {
	var rendererIface resolver.Renderer = renderer
	if metrics != nil {
		rendererIface = &meteredRenderer{inner: renderer, metrics: metrics}
	}

	res := resolver.NewResolver(repo, rendererIface, store, logger)
	schema, err := res.Schema()
	if err != nil {
		return nil, err
	}

	graphqlHandler := handler.New(&handler.Config{
		Schema:   &schema,
		Pretty:   true,
		GraphiQL: true,
	})

	var out http.Handler = graphqlHandler
	if metrics != nil {
		out = middleware.GraphQLMetricsMiddleware(metrics)(out)
		logger.Info("GraphQL metrics middleware enabled")
	}

	return out, nil
}

func buildRouter(cfg *config.Config, logger *logging.Logger, db *sql.DB, store *storage.Store, graphqlHandler http.Handler, metrics *observability.GraphQLMetrics) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/api/v1", graphqlHandler)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			http.Redirect(w, r, "/api/v1", http.StatusFound)
			return
		}
		http.NotFound(w, r)
	})

	mux.HandleFunc("GET /file/{key}", fileHandler(store))
	mux.HandleFunc("GET /healthz", healthHandler(db))

	if metrics != nil {
		mux.Handle("GET /metrics", metrics.Handler())
		logger.Info("metrics endpoint enabled", slog.String("path", "/metrics"))
	}

	return mux
}

func wrapHTTPHandler(cfg *config.Config, logger *logging.Logger, handler http.Handler) http.Handler {
	handler = middleware.OriginMiddleware()(handler)
	handler = middleware.LoggingMiddleware(logger)(handler)

	if cfg.Server.CORSEnabled {
		handler = middleware.CORSMiddleware(middleware.CORSConfig{
			Enabled:          cfg.Server.CORSEnabled,
			AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
			AllowedMethods:   cfg.Server.CORSAllowedMethods,
			AllowedHeaders:   cfg.Server.CORSAllowedHeaders,
			ExposeHeaders:    cfg.Server.CORSExposeHeaders,
			AllowCredentials: cfg.Server.CORSAllowCredentials,
			MaxAge:           cfg.Server.CORSMaxAge,
		})(handler)
	}

	return handler
}

func buildServer(cfg *config.Config, handler http.Handler, serverAddr string) *http.Server {
	return &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}
}

func startServer(cfg *config.Config, logger *logging.Logger, srv *http.Server, serverAddr string) chan error {
	serverErrors := make(chan error, 1)
	go func() {
		logAttrs := []any{
			slog.String("address", serverAddr),
			slog.String("graphql_endpoint", "/api/v1"),
			slog.String("file_endpoint", "/file/{key}"),
			slog.String("health_endpoint", "/healthz"),
			slog.String("log_level", cfg.Observability.Logging.Level),
			slog.String("log_format", cfg.Observability.Logging.Format),
		}
		if cfg.Observability.MetricsEnabled {
			logAttrs = append(logAttrs, slog.String("metrics_endpoint", "/metrics"))
		}

		logger.Info("server starting", logAttrs...)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrors <- fmt.Errorf("server failed: %w", err)
		}
	}()
	return serverErrors
}

// fileHandler redirects artifact downloads to a time-limited link on the
// object store, so artifact bytes never stream through this server.
func fileHandler(store *storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logging.FromContext(r.Context())
		key := r.PathValue("key")
		if key == "" {
			http.NotFound(w, r)
			return
		}

		exists, err := store.Exists(r.Context(), key)
		if err != nil {
			reqLogger.Error("artifact lookup failed",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}
		if !exists {
			http.NotFound(w, r)
			return
		}

		location, err := store.PresignedURL(r.Context(), key)
		if err != nil {
			reqLogger.Error("failed to presign artifact",
				slog.String("key", key),
				slog.String("error", err.Error()),
			)
			http.Error(w, "internal server error", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, location, http.StatusFound)
	}
}

// healthHandler returns an HTTP handler for health checks
func healthHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqLogger := logging.FromContext(r.Context())

		w.Header().Set("Content-Type", "application/json")

		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			reqLogger.Error("health check failed",
				slog.String("error", err.Error()),
				slog.String("check", "database"),
			)
			w.WriteHeader(http.StatusServiceUnavailable)
			// Generic message to avoid leaking internal details
			_, _ = fmt.Fprint(w, `{"status":"unhealthy","database":"failed"}`)
			return
		}

		reqLogger.Debug("health check passed")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprint(w, `{"status":"healthy","database":"ok"}`)
	}
}
