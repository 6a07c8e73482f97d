package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-scorebook/internal/config"
	cacherepo "github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/league-scorebook/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

func memoryConfig() config.Config {
	return config.Config{
		AppEnv:                     config.EnvDev,
		HTTPAddr:                   ":0",
		ReadTimeout:                time.Second,
		WriteTimeout:               time.Second,
		Location:                   time.UTC,
		MaxUploadBytes:             1 << 20,
		StoreBackend:               config.StoreBackendMemory,
		CacheTTL:                   time.Minute,
		CORSAllowedOrigins:         []string{"*"},
		UptraceRequestBodyMaxBytes: 4096,
	}
}

func TestOpenStore_Memory(t *testing.T) {
	repo, closeStore, err := OpenStore(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	_, ok := repo.(*memory.DivisionRepository)
	require.True(t, ok, "expected memory repository, got %T", repo)
}

func TestOpenStore_CacheWrapsBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.CacheEnabled = true

	repo, closeStore, err := OpenStore(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	_, ok := repo.(*cacherepo.DivisionRepository)
	require.True(t, ok, "expected cache decorator, got %T", repo)
}

func TestOpenStore_UnknownBackend(t *testing.T) {
	cfg := memoryConfig()
	cfg.StoreBackend = "cosmos"

	_, _, err := OpenStore(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}

func TestNewHTTPServer_ServesHealthz(t *testing.T) {
	srv, closeStore, err := NewHTTPServer(context.Background(), memoryConfig(), logging.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closeStore() })

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestNewHTTPServer_RequiresAddr(t *testing.T) {
	cfg := memoryConfig()
	cfg.HTTPAddr = ""

	_, _, err := NewHTTPServer(context.Background(), cfg, logging.NewNop())
	require.Error(t, err)
}
