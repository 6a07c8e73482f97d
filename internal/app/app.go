package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/riskibarqy/league-scorebook/internal/config"
	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	cacherepo "github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/guarded"
	"github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/league-scorebook/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/league-scorebook/internal/platform/cache"
	"github.com/riskibarqy/league-scorebook/internal/platform/dbconn"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

const provisionTimeout = 15 * time.Second

// OpenStore builds the division repository selected by STORE_BACKEND,
// provisions it and wraps it in the read-through cache when enabled. The
// returned closer releases the database pool.
func OpenStore(ctx context.Context, cfg config.Config, logger *logging.Logger) (division.Repository, func() error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	var (
		repo    division.Repository
		closeFn = func() error { return nil }
	)

	switch cfg.StoreBackend {
	case config.StoreBackendMemory:
		logger.Warn("using in-memory document store", "reason", "STORE_BACKEND=memory")
		repo = memory.NewDivisionRepository()
	case config.StoreBackendPostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, nil, err
		}

		pg := postgres.NewDivisionRepository(db)
		provisionCtx, cancel := context.WithTimeout(ctx, provisionTimeout)
		err = pg.EnsureReady(provisionCtx)
		cancel()
		if err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("%w: provision document store: %v", usecase.ErrDependencyUnavailable, err)
		}

		logger.Info("document store ready", "backend", cfg.StoreBackend, "database", dbconn.DatabaseName(cfg.DBURL))
		repo = pg
		if cfg.StoreCircuitBreaker.Enabled {
			repo = guarded.NewDivisionRepository(pg, cfg.StoreCircuitBreaker, logger)
		}
		closeFn = db.Close
	default:
		return nil, nil, fmt.Errorf("unsupported store backend %q", cfg.StoreBackend)
	}

	if cfg.CacheEnabled {
		logger.Info("document cache enabled", "ttl", cfg.CacheTTL.String())
		repo = cacherepo.NewDivisionRepository(repo, basecache.NewStore(cfg.CacheTTL))
	}
	return repo, closeFn, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	db, err := otelsqlx.Open("postgres", dbconn.NormalizeURL(cfg.DBURL, cfg.DBDisablePreparedBinary),
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbconn.DatabaseName(cfg.DBURL)),
		otelsql.WithQueryFormatter(dbconn.FormatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	db.SetMaxIdleConns(cfg.DBMaxOpenConns)
	db.SetConnMaxIdleTime(5 * time.Minute)
	otelsql.ReportDBStatsMetrics(db.DB)
	return db, nil
}

// NewHTTPServer wires the document store, the division service and the
// HTTP router. The closer must run after the server has shut down.
func NewHTTPServer(ctx context.Context, cfg config.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	repo, closeStore, err := OpenStore(ctx, cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	divisionSvc := usecase.NewDivisionService(repo, logger, cfg.Location)
	handler := httpapi.NewHandler(divisionSvc, logger, cfg.MaxUploadBytes)
	router := httpapi.NewRouter(handler, logger, httpapi.RouterOptions{
		CORSAllowedOrigins:  cfg.CORSAllowedOrigins,
		CaptureRequestBody:  cfg.UptraceEnabled && cfg.UptraceCaptureRequestBody,
		RequestBodyMaxBytes: cfg.UptraceRequestBodyMaxBytes,
	})

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
	}
	return server, closeStore, nil
}
