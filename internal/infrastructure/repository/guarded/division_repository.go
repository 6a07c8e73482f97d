package guarded

import (
	"context"
	"errors"
	"fmt"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
	"github.com/riskibarqy/league-scorebook/internal/platform/resilience"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

// DivisionRepository trips a circuit breaker after consecutive store
// failures and fails fast while it is open. Missing or conflicting documents
// are normal outcomes and count as successes.
type DivisionRepository struct {
	next    division.Repository
	breaker *resilience.CircuitBreaker
	logger  *logging.Logger
}

func NewDivisionRepository(next division.Repository, cfg resilience.CircuitBreakerConfig, logger *logging.Logger) *DivisionRepository {
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.With("component", "document_store_breaker")
	breaker := resilience.NewCircuitBreaker(cfg)
	breaker.OnStateChange(func(from, to resilience.CircuitState) {
		logger.Warn("document store circuit breaker changed state", "from", string(from), "to", string(to))
	})
	return &DivisionRepository{next: next, breaker: breaker, logger: logger}
}

func (r *DivisionRepository) State() resilience.CircuitState {
	return r.breaker.State()
}

func (r *DivisionRepository) GetInfoList(ctx context.Context, organization string) (division.InfoList, bool, error) {
	var (
		out    division.InfoList
		exists bool
	)
	err := r.do(ctx, "get_info_list", func() error {
		var err error
		out, exists, err = r.next.GetInfoList(ctx, organization)
		return err
	})
	return out, exists, err
}

func (r *DivisionRepository) CreateInfoList(ctx context.Context, list division.InfoList) error {
	return r.do(ctx, "create_info_list", func() error {
		return r.next.CreateInfoList(ctx, list)
	})
}

func (r *DivisionRepository) ReplaceInfoList(ctx context.Context, list division.InfoList) error {
	return r.do(ctx, "replace_info_list", func() error {
		return r.next.ReplaceInfoList(ctx, list)
	})
}

func (r *DivisionRepository) GetDivision(ctx context.Context, organization, key string) (division.Division, bool, error) {
	var (
		out    division.Division
		exists bool
	)
	err := r.do(ctx, "get_division", func() error {
		var err error
		out, exists, err = r.next.GetDivision(ctx, organization, key)
		return err
	})
	return out, exists, err
}

func (r *DivisionRepository) CreateDivision(ctx context.Context, item division.Division) error {
	return r.do(ctx, "create_division", func() error {
		return r.next.CreateDivision(ctx, item)
	})
}

func (r *DivisionRepository) ReplaceDivision(ctx context.Context, item division.Division) error {
	return r.do(ctx, "replace_division", func() error {
		return r.next.ReplaceDivision(ctx, item)
	})
}

func (r *DivisionRepository) DeleteDivision(ctx context.Context, organization, key string) error {
	return r.do(ctx, "delete_division", func() error {
		return r.next.DeleteDivision(ctx, organization, key)
	})
}

func (r *DivisionRepository) do(ctx context.Context, op string, fn func() error) error {
	err := r.breaker.Execute(fn, isStoreFailure)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		r.logger.WarnContext(ctx, "document store circuit breaker rejected request", "operation", op, "state", string(r.breaker.State()))
		return fmt.Errorf("%w: document store is temporarily unavailable: %w", usecase.ErrDependencyUnavailable, err)
	}
	return err
}

func isStoreFailure(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, division.ErrDocumentNotFound), errors.Is(err, division.ErrDocumentConflict):
		return false
	case errors.Is(err, context.Canceled):
		return false
	default:
		return true
	}
}
