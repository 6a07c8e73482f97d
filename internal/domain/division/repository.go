package division

import (
	"context"
	"errors"
)

var (
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentConflict = errors.New("document already exists")
)

// Repository stores the two documents kept per organization: the division
// index and one detail document per division. Writes are independent; there
// is no transaction spanning both documents.
type Repository interface {
	GetInfoList(ctx context.Context, organization string) (InfoList, bool, error)
	CreateInfoList(ctx context.Context, list InfoList) error
	ReplaceInfoList(ctx context.Context, list InfoList) error

	GetDivision(ctx context.Context, organization, key string) (Division, bool, error)
	CreateDivision(ctx context.Context, item Division) error
	ReplaceDivision(ctx context.Context, item Division) error
	DeleteDivision(ctx context.Context, organization, key string) error
}
