package division

import (
	"errors"
	"fmt"
)

var ErrUnknownTeam = errors.New("schedule references unknown team")

const (
	forfeitWinnerScore = 7
	forfeitLoserScore  = 0
)

// RecalculateStandings rebuilds every standings counter from the schedule.
// The input slice is left untouched; rows keep their order in the result.
func RecalculateStandings(standings []Standing, schedule []ScheduleEntry) ([]Standing, error) {
	out := make([]Standing, len(standings))
	byTeam := make(map[int]*Standing, len(standings))
	for i, row := range standings {
		out[i] = Standing{TeamID: row.TeamID, Name: row.Name}
		byTeam[row.TeamID] = &out[i]
	}

	for _, entry := range schedule {
		if !entry.IsGame() {
			continue
		}
		game := entry.Game

		home, ok := byTeam[game.HomeID]
		if !ok {
			return nil, fmt.Errorf("%w: game=%d team=%d", ErrUnknownTeam, entry.GameID, game.HomeID)
		}
		visitor, ok := byTeam[game.VisitorID]
		if !ok {
			return nil, fmt.Errorf("%w: game=%d team=%d", ErrUnknownTeam, entry.GameID, game.VisitorID)
		}

		applyGame(home, visitor, *game)
	}

	finalizeStandings(out)
	return out, nil
}

func applyGame(home, visitor *Standing, game Game) {
	if game.Reported() {
		home.RunsScored += *game.HomeScore
		home.RunsAgainst += *game.VisitorScore
		visitor.RunsScored += *game.VisitorScore
		visitor.RunsAgainst += *game.HomeScore
	}

	if game.HomeForfeit {
		home.Forfeits++
		home.ForfeitsCharged++
	}
	if game.VisitorForfeit {
		visitor.Forfeits++
		visitor.ForfeitsCharged++
	}

	switch {
	case game.HomeForfeit && game.VisitorForfeit:
		// not a tie
		home.Losses++
		visitor.Losses++
		return
	case game.HomeForfeit || game.VisitorForfeit:
		homeScore, visitorScore := ForfeitScores(game.HomeForfeit, game.VisitorForfeit)
		recordResult(home, visitor, homeScore, visitorScore)
		return
	case game.Reported():
		recordResult(home, visitor, *game.HomeScore, *game.VisitorScore)
	}
}

func recordResult(home, visitor *Standing, homeScore, visitorScore int) {
	switch {
	case homeScore > visitorScore:
		home.Wins++
		visitor.Losses++
	case homeScore < visitorScore:
		home.Losses++
		visitor.Wins++
	default:
		home.Ties++
		visitor.Ties++
	}
}

// finalizeStandings derives percentage and games behind from the final totals.
// The leader is the team with the most wins; fewer losses, then the lower
// team id, break ties so the result does not depend on row order.
func finalizeStandings(rows []Standing) {
	if len(rows) == 0 {
		return
	}

	leader := rows[0]
	for _, row := range rows[1:] {
		if row.Wins > leader.Wins ||
			(row.Wins == leader.Wins && row.Losses < leader.Losses) ||
			(row.Wins == leader.Wins && row.Losses == leader.Losses && row.TeamID < leader.TeamID) {
			leader = row
		}
	}

	for i := range rows {
		row := &rows[i]
		played := row.Wins + row.Losses + row.Ties
		if played > 0 {
			row.Percentage = float64(row.Wins) / float64(played)
		}
		row.GamesBehind = float64((leader.Wins-row.Wins)+(row.Losses-leader.Losses)) / 2
	}
}

// ForfeitScores returns the scores recorded for a forfeited game.
// A double forfeit is 0-0.
func ForfeitScores(homeForfeit, visitorForfeit bool) (home, visitor int) {
	switch {
	case homeForfeit && visitorForfeit:
		return forfeitLoserScore, forfeitLoserScore
	case visitorForfeit:
		return forfeitWinnerScore, forfeitLoserScore
	case homeForfeit:
		return forfeitLoserScore, forfeitWinnerScore
	default:
		return 0, 0
	}
}
