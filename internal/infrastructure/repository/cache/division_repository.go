package cache

import (
	"context"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	basecache "github.com/riskibarqy/league-scorebook/internal/platform/cache"
)

// DivisionRepository is a read-through decorator. Cached documents are
// cloned on the way out because callers edit schedules in place.
type DivisionRepository struct {
	next  division.Repository
	cache *basecache.Store
}

func NewDivisionRepository(next division.Repository, cache *basecache.Store) *DivisionRepository {
	return &DivisionRepository{next: next, cache: cache}
}

func (r *DivisionRepository) GetInfoList(ctx context.Context, organization string) (division.InfoList, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, infoListKey(organization), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetInfoList(ctx, organization)
		if err != nil {
			return nil, err
		}
		return cachedInfoList{value: cloneInfoList(item), exists: exists}, nil
	})
	if err != nil {
		return division.InfoList{}, false, err
	}

	cached, _ := v.(cachedInfoList)
	return cloneInfoList(cached.value), cached.exists, nil
}

func (r *DivisionRepository) CreateInfoList(ctx context.Context, list division.InfoList) error {
	defer r.cache.Invalidate(ctx, infoListKey(list.Organization))
	return r.next.CreateInfoList(ctx, list)
}

func (r *DivisionRepository) ReplaceInfoList(ctx context.Context, list division.InfoList) error {
	defer r.cache.Invalidate(ctx, infoListKey(list.Organization))
	return r.next.ReplaceInfoList(ctx, list)
}

func (r *DivisionRepository) GetDivision(ctx context.Context, organization, key string) (division.Division, bool, error) {
	v, err := r.cache.GetOrLoad(ctx, divisionKey(organization, key), func(ctx context.Context) (any, error) {
		item, exists, err := r.next.GetDivision(ctx, organization, key)
		if err != nil {
			return nil, err
		}
		return cachedDivision{value: cloneDivision(item), exists: exists}, nil
	})
	if err != nil {
		return division.Division{}, false, err
	}

	cached, _ := v.(cachedDivision)
	return cloneDivision(cached.value), cached.exists, nil
}

// Writes invalidate even when they fail since the store may have applied them.

func (r *DivisionRepository) CreateDivision(ctx context.Context, item division.Division) error {
	defer r.cache.Invalidate(ctx, divisionKey(item.Organization, item.ID))
	return r.next.CreateDivision(ctx, item)
}

func (r *DivisionRepository) ReplaceDivision(ctx context.Context, item division.Division) error {
	defer r.cache.Invalidate(ctx, divisionKey(item.Organization, item.ID))
	return r.next.ReplaceDivision(ctx, item)
}

func (r *DivisionRepository) DeleteDivision(ctx context.Context, organization, key string) error {
	defer r.cache.Invalidate(ctx, divisionKey(organization, key))
	return r.next.DeleteDivision(ctx, organization, key)
}

type cachedInfoList struct {
	value  division.InfoList
	exists bool
}

type cachedDivision struct {
	value  division.Division
	exists bool
}

func infoListKey(organization string) string {
	return "division:list:" + organization
}

func divisionKey(organization, key string) string {
	return "division:doc:" + organization + ":" + key
}

func cloneInfoList(item division.InfoList) division.InfoList {
	out := item
	out.Divisions = append([]division.Info(nil), item.Divisions...)
	return out
}

func cloneDivision(item division.Division) division.Division {
	out := item
	out.Standings = append([]division.Standing(nil), item.Standings...)
	if item.Schedule == nil {
		return out
	}

	out.Schedule = make([]division.ScheduleEntry, len(item.Schedule))
	for i, entry := range item.Schedule {
		if entry.Game != nil {
			game := *entry.Game
			game.HomeScore = cloneScore(entry.Game.HomeScore)
			game.VisitorScore = cloneScore(entry.Game.VisitorScore)
			entry.Game = &game
		}
		out.Schedule[i] = entry
	}
	return out
}

func cloneScore(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
