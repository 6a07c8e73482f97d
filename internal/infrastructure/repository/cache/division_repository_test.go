package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	divisionmock "github.com/riskibarqy/league-scorebook/internal/mocks/domain/division"
	basecache "github.com/riskibarqy/league-scorebook/internal/platform/cache"
)

func sampleDivision() division.Division {
	day := time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC)
	return division.Division{
		Organization: "metro-softball",
		ID:           "div-a",
		Standings:    []division.Standing{{TeamID: 1, Name: "Hawks"}, {TeamID: 2, Name: "Owls"}},
		Schedule: []division.ScheduleEntry{
			{Kind: division.EntryWeek, GameID: 0, Week: "Week 1"},
			{Kind: division.EntryGame, GameID: 1, Game: &division.Game{Day: day, HomeID: 1, VisitorID: 2}},
		},
	}
}

func TestDivisionRepository_GetDivisionCachesAndClones(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := divisionmock.NewRepository(t)
	next.On("GetDivision", mock.Anything, "metro-softball", "div-a").
		Return(sampleDivision(), true, nil).
		Once()

	repo := NewDivisionRepository(next, basecache.NewStore(time.Minute))

	first, exists, err := repo.GetDivision(ctx, "metro-softball", "div-a")
	require.NoError(t, err)
	require.True(t, exists)

	score := 9
	first.Schedule[1].Game.HomeScore = &score
	first.Standings[0].Wins = 5

	second, exists, err := repo.GetDivision(ctx, "metro-softball", "div-a")
	require.NoError(t, err)
	require.True(t, exists)
	require.Nil(t, second.Schedule[1].Game.HomeScore)
	require.Zero(t, second.Standings[0].Wins)
}

func TestDivisionRepository_ReplaceInvalidates(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := divisionmock.NewRepository(t)
	item := sampleDivision()

	next.On("GetDivision", mock.Anything, "metro-softball", "div-a").
		Return(item, true, nil).
		Twice()
	next.On("ReplaceDivision", mock.Anything, item).
		Return(nil).
		Once()

	repo := NewDivisionRepository(next, basecache.NewStore(time.Minute))

	_, _, err := repo.GetDivision(ctx, "metro-softball", "div-a")
	require.NoError(t, err)
	require.NoError(t, repo.ReplaceDivision(ctx, item))
	_, _, err = repo.GetDivision(ctx, "metro-softball", "div-a")
	require.NoError(t, err)
}

func TestDivisionRepository_InfoListMissIsCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := divisionmock.NewRepository(t)
	next.On("GetInfoList", mock.Anything, "metro-softball").
		Return(division.InfoList{}, false, nil).
		Once()
	next.On("CreateInfoList", mock.Anything, mock.AnythingOfType("division.InfoList")).
		Return(nil).
		Once()
	next.On("GetInfoList", mock.Anything, "metro-softball").
		Return(division.InfoList{Organization: "metro-softball", Divisions: []division.Info{{ID: "Div-A"}}}, true, nil).
		Once()

	repo := NewDivisionRepository(next, basecache.NewStore(time.Minute))

	for i := 0; i < 2; i++ {
		_, exists, err := repo.GetInfoList(ctx, "metro-softball")
		require.NoError(t, err)
		require.False(t, exists)
	}

	require.NoError(t, repo.CreateInfoList(ctx, division.InfoList{Organization: "metro-softball"}))

	list, exists, err := repo.GetInfoList(ctx, "metro-softball")
	require.NoError(t, err)
	require.True(t, exists)
	require.Len(t, list.Divisions, 1)
}
