package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	qb "github.com/riskibarqy/league-scorebook/internal/platform/querybuilder"
)

// createDocumentsTable mirrors db/migrations/000001_create_league_documents.
const createDocumentsTable = `CREATE TABLE IF NOT EXISTS league_documents (
    organization TEXT NOT NULL,
    id TEXT NOT NULL,
    doc_type TEXT NOT NULL,
    body JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    PRIMARY KEY (organization, id)
)`

// DivisionRepository stores division documents as JSONB rows partitioned by
// organization. The index document and each division document are separate
// rows, written without a shared transaction.
type DivisionRepository struct {
	db *sqlx.DB

	readyMu sync.Mutex
	ready   bool
}

func NewDivisionRepository(db *sqlx.DB) *DivisionRepository {
	return &DivisionRepository{db: db}
}

// EnsureReady provisions the documents table once. A failed attempt is
// retried by the next caller.
func (r *DivisionRepository) EnsureReady(ctx context.Context) error {
	r.readyMu.Lock()
	defer r.readyMu.Unlock()

	if r.ready {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, createDocumentsTable); err != nil {
		return crerr.Wrap(err, "provision league_documents")
	}
	r.ready = true
	return nil
}

// forgetReady makes the next call provision again after the table vanished.
func (r *DivisionRepository) forgetReady(err error) {
	if !isUndefinedTable(err) {
		return
	}
	r.readyMu.Lock()
	r.ready = false
	r.readyMu.Unlock()
}

func (r *DivisionRepository) GetInfoList(ctx context.Context, organization string) (division.InfoList, bool, error) {
	var out division.InfoList
	exists, err := r.getDocument(ctx, organization, division.InfoListID, docTypeDivisionList, &out)
	if err != nil {
		return division.InfoList{}, false, err
	}
	return out, exists, nil
}

func (r *DivisionRepository) CreateInfoList(ctx context.Context, list division.InfoList) error {
	return r.createDocument(ctx, list.Organization, division.InfoListID, docTypeDivisionList, list)
}

func (r *DivisionRepository) ReplaceInfoList(ctx context.Context, list division.InfoList) error {
	return r.replaceDocument(ctx, list.Organization, division.InfoListID, docTypeDivisionList, list)
}

func (r *DivisionRepository) GetDivision(ctx context.Context, organization, key string) (division.Division, bool, error) {
	var out division.Division
	exists, err := r.getDocument(ctx, organization, key, docTypeDivision, &out)
	if err != nil {
		return division.Division{}, false, err
	}
	return out, exists, nil
}

func (r *DivisionRepository) CreateDivision(ctx context.Context, item division.Division) error {
	return r.createDocument(ctx, item.Organization, item.ID, docTypeDivision, item)
}

func (r *DivisionRepository) ReplaceDivision(ctx context.Context, item division.Division) error {
	return r.replaceDocument(ctx, item.Organization, item.ID, docTypeDivision, item)
}

func (r *DivisionRepository) DeleteDivision(ctx context.Context, organization, key string) error {
	if err := r.EnsureReady(ctx); err != nil {
		return err
	}

	query, args, err := qb.DeleteFrom(documentsTable).
		Where(
			qb.Eq("organization", organization),
			qb.Eq("id", key),
			qb.Eq("doc_type", docTypeDivision),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build delete division query: %w", err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.forgetReady(err)
		return crerr.Wrapf(err, "delete division organization=%s id=%s", organization, key)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return crerr.Wrapf(division.ErrDocumentNotFound, "delete division organization=%s id=%s", organization, key)
	}
	return nil
}

func (r *DivisionRepository) getDocument(ctx context.Context, organization, id, docType string, dest any) (bool, error) {
	if err := r.EnsureReady(ctx); err != nil {
		return false, err
	}

	query, args, err := qb.Select("organization", "id", "doc_type", "body", "created_at", "updated_at").
		From(documentsTable).
		Where(
			qb.Eq("organization", organization),
			qb.Eq("id", id),
			qb.Eq("doc_type", docType),
		).
		ToSQL()
	if err != nil {
		return false, fmt.Errorf("build get %s query: %w", docType, err)
	}

	var row documentTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		r.forgetReady(err)
		return false, crerr.Wrapf(err, "get %s organization=%s id=%s", docType, organization, id)
	}

	if err := sonic.UnmarshalString(row.Body, dest); err != nil {
		return false, crerr.Wrapf(err, "decode %s organization=%s id=%s", docType, organization, id)
	}
	return true, nil
}

func (r *DivisionRepository) createDocument(ctx context.Context, organization, id, docType string, doc any) error {
	if err := r.EnsureReady(ctx); err != nil {
		return err
	}

	body, err := sonic.MarshalString(doc)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", docType)
	}

	query, args, err := qb.InsertModel(documentsTable, documentInsertModel{
		Organization: organization,
		ID:           id,
		DocType:      docType,
		Body:         body,
	}, "")
	if err != nil {
		return fmt.Errorf("build insert %s query: %w", docType, err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return crerr.Wrapf(division.ErrDocumentConflict, "create %s organization=%s id=%s", docType, organization, id)
		}
		r.forgetReady(err)
		return crerr.Wrapf(err, "create %s organization=%s id=%s", docType, organization, id)
	}
	return nil
}

func (r *DivisionRepository) replaceDocument(ctx context.Context, organization, id, docType string, doc any) error {
	if err := r.EnsureReady(ctx); err != nil {
		return err
	}

	body, err := sonic.MarshalString(doc)
	if err != nil {
		return crerr.Wrapf(err, "encode %s", docType)
	}

	query, args, err := qb.Update(documentsTable).
		SetExpr("body", "?::jsonb", body).
		SetExpr("updated_at", "NOW()").
		Where(
			qb.Eq("organization", organization),
			qb.Eq("id", id),
			qb.Eq("doc_type", docType),
		).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build replace %s query: %w", docType, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.forgetReady(err)
		return crerr.Wrapf(err, "replace %s organization=%s id=%s", docType, organization, id)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return crerr.Wrapf(err, "replace %s rows affected", docType)
	}
	if n == 0 {
		return crerr.Wrapf(division.ErrDocumentNotFound, "replace %s organization=%s id=%s", docType, organization, id)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func isUniqueViolation(err error) bool {
	return pqConditionName(err) == "unique_violation"
}

// isUndefinedTable catches the table being dropped after EnsureReady ran.
func isUndefinedTable(err error) bool {
	return pqConditionName(err) == "undefined_table"
}

func pqConditionName(err error) string {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return ""
	}
	return pqErr.Code.Name()
}
