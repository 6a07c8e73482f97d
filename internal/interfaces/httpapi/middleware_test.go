package httpapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name        string
		allowed     []string
		method      string
		origin      string
		wantStatus  int
		wantOrigin  string
		wantVary    bool
		wantExposed bool
	}{
		{name: "configured origin", allowed: []string{"https://scores.example.com"}, method: http.MethodGet, origin: "https://scores.example.com", wantStatus: http.StatusOK, wantOrigin: "https://scores.example.com", wantVary: true, wantExposed: true},
		{name: "wildcard preflight", allowed: []string{"*"}, method: http.MethodOptions, origin: "https://scores.example.com", wantStatus: http.StatusNoContent, wantOrigin: "*", wantExposed: true},
		{name: "unconfigured origin", allowed: []string{"https://allowed.example.com"}, method: http.MethodGet, origin: "https://other.example.com", wantStatus: http.StatusOK},
		{name: "no origin header", allowed: []string{"*"}, method: http.MethodGet, wantStatus: http.StatusOK},
		{name: "blank entries ignored", allowed: []string{" ", ""}, method: http.MethodPut, origin: "https://scores.example.com", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/organizations/metro/divisions", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			CORS(tt.allowed, okHandler()).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tt.wantVary, rec.Header().Get("Vary") == "Origin")
			require.Equal(t, tt.wantExposed, rec.Header().Get("Access-Control-Expose-Headers") == "Retry-After")
		})
	}
}

func TestShouldTraceRequest(t *testing.T) {
	for _, path := range []string{"/healthz", "/health", "/livez", "/readyz", " /HEALTHZ "} {
		require.False(t, shouldTraceRequest(path), "path %q", path)
	}
	for _, path := range []string{"/", "/v1/organizations/metro/divisions", "/v1/organizations/metro/divisions/a/scores"} {
		require.True(t, shouldTraceRequest(path), "path %q", path)
	}
}

func TestRecoverPanic_WritesInternalEnvelope(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("schedule index out of range")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/organizations/metro/divisions", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope[any](t, rec)
	require.Equal(t, "internal server error", body.Error.Message)
}

func TestRecoverPanic_RepanicsOnAbort(t *testing.T) {
	handler := recoverPanic(logging.NewNop(), http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))

	require.PanicsWithValue(t, http.ErrAbortHandler, func() {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}

func TestRequestLogging_PassesStatusThrough(t *testing.T) {
	handler := RequestLogging(logging.NewNop(), http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusTeapot, rec.Code)
}
