//go:build integration

package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/go-cmp/cmp"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
)

func setupDivisionRepository(t *testing.T) *DivisionRepository {
	t.Helper()

	ctx := context.Background()
	const (
		dbName   = "scorebook"
		user     = "scorebook"
		password = "scorebook"
	)

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase(dbName),
		tcpostgres.WithUsername(user),
		tcpostgres.WithPassword(password),
		testcontainers.WithWaitStrategy(
			wait.ForSQL("5432/tcp", "postgres", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", user, password, host, port.Port(), dbName)
			}).WithStartupTimeout(45*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := sqlx.Open("postgres", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	repo := NewDivisionRepository(db)
	require.NoError(t, repo.EnsureReady(ctx))
	require.NoError(t, repo.EnsureReady(ctx))
	return repo
}

func TestDivisionRepository_RoundTrip(t *testing.T) {
	repo := setupDivisionRepository(t)
	ctx := context.Background()

	day := time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC)
	home, visitor := 5, 3
	item := division.Division{
		Organization: "metro-softball",
		ID:           "div-a",
		Standings: []division.Standing{
			{TeamID: 1, Name: "Hawks", Wins: 1, RunsScored: 5, RunsAgainst: 3, Percentage: 1},
			{TeamID: 2, Name: "Owls", Losses: 1, RunsScored: 3, RunsAgainst: 5, GamesBehind: 1},
		},
		Schedule: []division.ScheduleEntry{
			{Kind: division.EntryWeek, GameID: 0, Week: "Week 1"},
			{Kind: division.EntryGame, GameID: 1, Game: &division.Game{
				Day: day, Time: day.Add(9 * time.Hour), Field: "Field 1",
				Home: "Hawks", HomeID: 1, Visitor: "Owls", VisitorID: 2,
				HomeScore: &home, VisitorScore: &visitor,
			}},
		},
	}

	require.NoError(t, repo.CreateDivision(ctx, item))
	err := repo.CreateDivision(ctx, item)
	require.True(t, errors.Is(err, division.ErrDocumentConflict), "expected conflict, got %v", err)

	got, exists, err := repo.GetDivision(ctx, "metro-softball", "div-a")
	require.NoError(t, err)
	require.True(t, exists)
	if diff := cmp.Diff(item, got); diff != "" {
		t.Fatalf("division did not round-trip (-want +got):\n%s", diff)
	}

	_, exists, err = repo.GetDivision(ctx, "other-org", "div-a")
	require.NoError(t, err)
	require.False(t, exists, "documents must be partitioned by organization")

	require.NoError(t, repo.DeleteDivision(ctx, "metro-softball", "div-a"))
	err = repo.ReplaceDivision(ctx, item)
	require.True(t, errors.Is(err, division.ErrDocumentNotFound), "expected not found, got %v", err)
}

func TestDivisionRepository_InfoListDoesNotCollideWithDivisionKeys(t *testing.T) {
	repo := setupDivisionRepository(t)
	ctx := context.Background()

	list := division.InfoList{
		Organization: "metro-softball",
		ID:           division.InfoListID,
		Divisions:    []division.Info{{Organization: "metro-softball", ID: "DivisionListID", League: "Spring"}},
	}
	require.NoError(t, repo.CreateInfoList(ctx, list))
	require.NoError(t, repo.CreateDivision(ctx, division.Division{Organization: "metro-softball", ID: division.StorageKey("DivisionListID")}))

	got, exists, err := repo.GetInfoList(ctx, "metro-softball")
	require.NoError(t, err)
	require.True(t, exists)
	require.Equal(t, "Spring", got.Divisions[0].League)
}
