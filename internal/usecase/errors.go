package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrLocked                = errors.New("division is locked")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// isClientError reports errors caused by the request rather than the store.
func isClientError(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrNotFound) || errors.Is(err, ErrLocked)
}
