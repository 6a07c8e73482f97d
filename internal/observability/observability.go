package observability

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/league-scorebook/internal/config"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

// Stack holds the running tracing and profiling components of a process.
type Stack struct {
	logger          *logging.Logger
	shutdownTracing func(context.Context) error
	stopProfiler    func() error
	pprofServer     *http.Server
}

// Start brings up tracing first so profiling startup is traced too. On
// failure anything already started is stopped again.
func Start(cfg config.Config, logger *logging.Logger) (*Stack, error) {
	if logger == nil {
		logger = logging.Default()
	}

	shutdownTracing, err := InitUptrace(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("init uptrace: %w", err)
	}

	stopProfiler, err := InitPyroscope(cfg, logger)
	if err != nil {
		_ = shutdownTracing(context.Background())
		return nil, fmt.Errorf("init pyroscope: %w", err)
	}

	return &Stack{
		logger:          logger,
		shutdownTracing: shutdownTracing,
		stopProfiler:    stopProfiler,
		pprofServer:     StartPprofServer(cfg, logger),
	}, nil
}

// Shutdown stops every component and joins their errors.
func (s *Stack) Shutdown(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs []error
	if err := StopPprofServer(ctx, s.pprofServer, s.logger); err != nil {
		errs = append(errs, fmt.Errorf("stop pprof: %w", err))
	}
	if err := s.stopProfiler(); err != nil {
		errs = append(errs, fmt.Errorf("stop pyroscope: %w", err))
	}
	if err := s.shutdownTracing(ctx); err != nil {
		errs = append(errs, fmt.Errorf("shutdown uptrace: %w", err))
	}
	return errors.Join(errs...)
}
