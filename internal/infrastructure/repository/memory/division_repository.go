package memory

import (
	"context"
	"sync"

	"github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
)

type documentKey struct {
	organization string
	id           string
}

// DivisionRepository keeps documents as encoded JSON so callers never share
// slices or pointers with the stored state.
type DivisionRepository struct {
	mu        sync.RWMutex
	lists     map[string][]byte
	divisions map[documentKey][]byte
}

func NewDivisionRepository() *DivisionRepository {
	return &DivisionRepository{
		lists:     make(map[string][]byte),
		divisions: make(map[documentKey][]byte),
	}
}

func (r *DivisionRepository) GetInfoList(_ context.Context, organization string) (division.InfoList, bool, error) {
	r.mu.RLock()
	raw, ok := r.lists[organization]
	r.mu.RUnlock()
	if !ok {
		return division.InfoList{}, false, nil
	}

	var out division.InfoList
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return division.InfoList{}, false, crerr.Wrapf(err, "decode division list organization=%s", organization)
	}
	return out, true, nil
}

func (r *DivisionRepository) CreateInfoList(_ context.Context, list division.InfoList) error {
	raw, err := sonic.Marshal(list)
	if err != nil {
		return crerr.Wrap(err, "encode division list")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[list.Organization]; ok {
		return crerr.Wrapf(division.ErrDocumentConflict, "division list organization=%s", list.Organization)
	}
	r.lists[list.Organization] = raw
	return nil
}

func (r *DivisionRepository) ReplaceInfoList(_ context.Context, list division.InfoList) error {
	raw, err := sonic.Marshal(list)
	if err != nil {
		return crerr.Wrap(err, "encode division list")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.lists[list.Organization]; !ok {
		return crerr.Wrapf(division.ErrDocumentNotFound, "division list organization=%s", list.Organization)
	}
	r.lists[list.Organization] = raw
	return nil
}

func (r *DivisionRepository) GetDivision(_ context.Context, organization, key string) (division.Division, bool, error) {
	r.mu.RLock()
	raw, ok := r.divisions[documentKey{organization: organization, id: key}]
	r.mu.RUnlock()
	if !ok {
		return division.Division{}, false, nil
	}

	var out division.Division
	if err := sonic.Unmarshal(raw, &out); err != nil {
		return division.Division{}, false, crerr.Wrapf(err, "decode division organization=%s id=%s", organization, key)
	}
	return out, true, nil
}

func (r *DivisionRepository) CreateDivision(_ context.Context, item division.Division) error {
	raw, err := sonic.Marshal(item)
	if err != nil {
		return crerr.Wrap(err, "encode division")
	}

	k := documentKey{organization: item.Organization, id: item.ID}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.divisions[k]; ok {
		return crerr.Wrapf(division.ErrDocumentConflict, "division organization=%s id=%s", item.Organization, item.ID)
	}
	r.divisions[k] = raw
	return nil
}

func (r *DivisionRepository) ReplaceDivision(_ context.Context, item division.Division) error {
	raw, err := sonic.Marshal(item)
	if err != nil {
		return crerr.Wrap(err, "encode division")
	}

	k := documentKey{organization: item.Organization, id: item.ID}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.divisions[k]; !ok {
		return crerr.Wrapf(division.ErrDocumentNotFound, "division organization=%s id=%s", item.Organization, item.ID)
	}
	r.divisions[k] = raw
	return nil
}

func (r *DivisionRepository) DeleteDivision(_ context.Context, organization, key string) error {
	k := documentKey{organization: organization, id: key}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.divisions[k]; !ok {
		return crerr.Wrapf(division.ErrDocumentNotFound, "division organization=%s id=%s", organization, key)
	}
	delete(r.divisions, k)
	return nil
}
