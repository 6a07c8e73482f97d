package division

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func intPtr(v int) *int { return &v }

func threeTeams() []Standing {
	return []Standing{
		{TeamID: 1, Name: "Hawks"},
		{TeamID: 2, Name: "Owls"},
		{TeamID: 3, Name: "Crows"},
	}
}

func gameEntry(id, home, visitor int, homeScore, visitorScore *int) ScheduleEntry {
	day := time.Date(2024, 4, 6, 0, 0, 0, 0, time.UTC)
	return ScheduleEntry{
		Kind:   EntryGame,
		GameID: id,
		Game: &Game{
			Day:          day,
			Time:         day.Add(18 * time.Hour),
			Field:        "Field 1",
			HomeID:       home,
			VisitorID:    visitor,
			HomeScore:    homeScore,
			VisitorScore: visitorScore,
		},
	}
}

func TestRecalculateStandings_WinsLossesTiesAndRuns(t *testing.T) {
	schedule := []ScheduleEntry{
		{Kind: EntryWeek, GameID: 0, Week: "Week 1"},
		gameEntry(1, 1, 2, intPtr(5), intPtr(3)),
		gameEntry(2, 2, 3, intPtr(4), intPtr(4)),
		gameEntry(3, 3, 1, intPtr(2), intPtr(9)),
		gameEntry(4, 1, 3, nil, nil),
	}

	got, err := RecalculateStandings(threeTeams(), schedule)
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}

	want := []Standing{
		{TeamID: 1, Name: "Hawks", Wins: 2, RunsScored: 14, RunsAgainst: 5, Percentage: 1, GamesBehind: 0},
		{TeamID: 2, Name: "Owls", Losses: 1, Ties: 1, RunsScored: 7, RunsAgainst: 9, Percentage: 0, GamesBehind: 1.5},
		{TeamID: 3, Name: "Crows", Losses: 1, Ties: 1, RunsScored: 6, RunsAgainst: 13, Percentage: 0, GamesBehind: 1.5},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected standings (-want +got):\n%s", diff)
	}
}

func TestRecalculateStandings_SingleForfeit(t *testing.T) {
	entry := gameEntry(0, 1, 2, nil, nil)
	entry.Game.VisitorForfeit = true

	got, err := RecalculateStandings(threeTeams(), []ScheduleEntry{entry})
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}

	home, visitor := got[0], got[1]
	if home.Wins != 1 || home.Losses != 0 {
		t.Fatalf("expected home win, got %+v", home)
	}
	if visitor.Losses != 1 || visitor.Wins != 0 {
		t.Fatalf("expected visitor loss, got %+v", visitor)
	}
	if visitor.Forfeits != 1 || visitor.ForfeitsCharged != 1 {
		t.Fatalf("expected one forfeit charged to visitor, got %+v", visitor)
	}
	if home.Forfeits != 0 || home.ForfeitsCharged != 0 {
		t.Fatalf("expected no forfeit for home, got %+v", home)
	}
	if home.RunsScored != 0 || home.RunsAgainst != 0 || visitor.RunsScored != 0 || visitor.RunsAgainst != 0 {
		t.Fatalf("expected run totals unchanged, home=%+v visitor=%+v", home, visitor)
	}
}

func TestRecalculateStandings_ForfeitOverridesReportedScore(t *testing.T) {
	entry := gameEntry(0, 1, 2, intPtr(9), intPtr(1))
	entry.Game.HomeForfeit = true

	got, err := RecalculateStandings(threeTeams(), []ScheduleEntry{entry})
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}
	if got[0].Losses != 1 || got[1].Wins != 1 {
		t.Fatalf("expected forfeiting home to lose, got home=%+v visitor=%+v", got[0], got[1])
	}
}

func TestRecalculateStandings_DoubleForfeitIsTwoLosses(t *testing.T) {
	entry := gameEntry(0, 1, 2, intPtr(0), intPtr(0))
	entry.Game.HomeForfeit = true
	entry.Game.VisitorForfeit = true

	got, err := RecalculateStandings(threeTeams(), []ScheduleEntry{entry})
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}
	for _, row := range got[:2] {
		if row.Losses != 1 || row.Ties != 0 || row.Wins != 0 {
			t.Fatalf("expected a single loss for team %d, got %+v", row.TeamID, row)
		}
		if row.Forfeits != 1 || row.ForfeitsCharged != 1 {
			t.Fatalf("expected forfeit counters for team %d, got %+v", row.TeamID, row)
		}
	}
}

func TestRecalculateStandings_TeamWithoutGames(t *testing.T) {
	got, err := RecalculateStandings(threeTeams(), []ScheduleEntry{
		gameEntry(0, 1, 2, intPtr(3), intPtr(1)),
	})
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}

	idle := got[2]
	if idle.Percentage != 0 {
		t.Fatalf("expected zero percentage, got %v", idle.Percentage)
	}
	if idle.GamesBehind != 0.5 {
		t.Fatalf("expected 0.5 games behind leader, got %v", idle.GamesBehind)
	}
}

func TestRecalculateStandings_NoGamesPlayed(t *testing.T) {
	got, err := RecalculateStandings(threeTeams(), []ScheduleEntry{gameEntry(0, 1, 2, nil, nil)})
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}
	for _, row := range got {
		if row.GamesBehind != 0 || row.Percentage != 0 {
			t.Fatalf("expected zeroed row, got %+v", row)
		}
	}
}

func TestRecalculateStandings_ResetsStaleCounters(t *testing.T) {
	stale := threeTeams()
	stale[0].Wins = 40
	stale[1].RunsAgainst = 99
	stale[2].GamesBehind = 12

	got, err := RecalculateStandings(stale, nil)
	if err != nil {
		t.Fatalf("recalculate standings: %v", err)
	}
	if diff := cmp.Diff(threeTeams(), got); diff != "" {
		t.Fatalf("expected zeroed standings (-want +got):\n%s", diff)
	}
	if stale[0].Wins != 40 {
		t.Fatalf("input standings must not be mutated")
	}
}

func TestRecalculateStandings_IdempotentAndOrderIndependent(t *testing.T) {
	forfeit := gameEntry(3, 3, 1, nil, nil)
	forfeit.Game.HomeForfeit = true
	schedule := []ScheduleEntry{
		gameEntry(0, 1, 2, intPtr(5), intPtr(3)),
		gameEntry(1, 2, 3, intPtr(6), intPtr(2)),
		gameEntry(2, 3, 2, intPtr(1), intPtr(1)),
		forfeit,
		{Kind: EntryWeek, GameID: 4, Week: "Week 2"},
		gameEntry(5, 2, 1, intPtr(0), intPtr(8)),
	}

	first, err := RecalculateStandings(threeTeams(), schedule)
	if err != nil {
		t.Fatalf("first recalculation: %v", err)
	}
	second, err := RecalculateStandings(first, schedule)
	if err != nil {
		t.Fatalf("second recalculation: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("recalculation is not idempotent (-first +second):\n%s", diff)
	}

	reversed := make([]ScheduleEntry, len(schedule))
	for i, entry := range schedule {
		reversed[len(schedule)-1-i] = entry
	}
	third, err := RecalculateStandings(threeTeams(), reversed)
	if err != nil {
		t.Fatalf("reversed recalculation: %v", err)
	}
	if diff := cmp.Diff(first, third); diff != "" {
		t.Fatalf("recalculation depends on row order (-forward +reversed):\n%s", diff)
	}
}

func TestRecalculateStandings_UnknownTeam(t *testing.T) {
	_, err := RecalculateStandings(threeTeams(), []ScheduleEntry{gameEntry(0, 1, 7, nil, nil)})
	if !errors.Is(err, ErrUnknownTeam) {
		t.Fatalf("expected ErrUnknownTeam, got %v", err)
	}
}

func TestForfeitScores(t *testing.T) {
	tests := []struct {
		name                    string
		homeForfeit, visForfeit bool
		wantHome, wantVisitor   int
	}{
		{name: "visitor forfeit", visForfeit: true, wantHome: 7, wantVisitor: 0},
		{name: "home forfeit", homeForfeit: true, wantHome: 0, wantVisitor: 7},
		{name: "double forfeit", homeForfeit: true, visForfeit: true, wantHome: 0, wantVisitor: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			home, visitor := ForfeitScores(tc.homeForfeit, tc.visForfeit)
			if home != tc.wantHome || visitor != tc.wantVisitor {
				t.Fatalf("unexpected scores: got %d-%d want %d-%d", home, visitor, tc.wantHome, tc.wantVisitor)
			}
		})
	}
}
