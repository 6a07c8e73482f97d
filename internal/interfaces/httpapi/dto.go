package httpapi

import (
	"cmp"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "3:04 PM"
)

type divisionInfoDTO struct {
	ID      string `json:"id"`
	League  string `json:"league"`
	Div     string `json:"div"`
	Locked  bool   `json:"locked"`
	Updated string `json:"updated,omitempty"`
}

type standingDTO struct {
	TeamID          int     `json:"teamId"`
	Name            string  `json:"name"`
	Wins            int     `json:"wins"`
	Losses          int     `json:"losses"`
	Ties            int     `json:"ties"`
	OvertimeLosses  int     `json:"overtimeLosses"`
	Percentage      float64 `json:"percentage"`
	GamesBehind     float64 `json:"gamesBehind"`
	RunsScored      int     `json:"runsScored"`
	RunsAgainst     int     `json:"runsAgainst"`
	Forfeits        int     `json:"forfeits"`
	ForfeitsCharged int     `json:"forfeitsCharged"`
}

type scheduleEntryDTO struct {
	GameID         int    `json:"gameId"`
	Week           string `json:"week,omitempty"`
	Day            string `json:"day,omitempty"`
	Time           string `json:"time,omitempty"`
	Field          string `json:"field,omitempty"`
	Home           string `json:"home,omitempty"`
	Visitor        string `json:"visitor,omitempty"`
	HomeScore      *int   `json:"homeScore,omitempty"`
	VisitorScore   *int   `json:"visitorScore,omitempty"`
	HomeForfeit    bool   `json:"homeForfeit,omitempty"`
	VisitorForfeit bool   `json:"visitorForfeit,omitempty"`
}

type standingsPageDTO struct {
	Division           *divisionInfoDTO   `json:"division,omitempty"`
	ShowOvertimeLosses bool               `json:"showOvertimeLosses"`
	Team               string             `json:"team,omitempty"`
	Standings          []standingDTO      `json:"standings"`
	Schedule           []scheduleEntryDTO `json:"schedule"`
}

type loadScheduleResultDTO struct {
	FirstGameDate string `json:"firstGameDate"`
	LastGameDate  string `json:"lastGameDate"`
}

func divisionInfoToDTO(v division.Info) divisionInfoDTO {
	out := divisionInfoDTO{
		ID:     v.ID,
		League: v.League,
		Div:    v.Div,
		Locked: v.Locked,
	}
	if !v.Updated.IsZero() {
		out.Updated = v.Updated.Format(time.RFC3339)
	}
	return out
}

// standingsToDTO orders teams by games behind, then by percentage.
func standingsToDTO(rows []division.Standing) []standingDTO {
	sorted := slices.Clone(rows)
	slices.SortStableFunc(sorted, func(a, b division.Standing) int {
		if c := cmp.Compare(a.GamesBehind, b.GamesBehind); c != 0 {
			return c
		}
		return cmp.Compare(b.Percentage, a.Percentage)
	})

	out := make([]standingDTO, 0, len(sorted))
	for _, s := range sorted {
		out = append(out, standingDTO{
			TeamID:          s.TeamID,
			Name:            s.Name,
			Wins:            s.Wins,
			Losses:          s.Losses,
			Ties:            s.Ties,
			OvertimeLosses:  s.OvertimeLosses,
			Percentage:      s.Percentage,
			GamesBehind:     s.GamesBehind,
			RunsScored:      s.RunsScored,
			RunsAgainst:     s.RunsAgainst,
			Forfeits:        s.Forfeits,
			ForfeitsCharged: s.ForfeitsCharged,
		})
	}
	return out
}

func scheduleToDTO(rows []division.ScheduleEntry) []scheduleEntryDTO {
	out := make([]scheduleEntryDTO, 0, len(rows))
	for _, row := range rows {
		if !row.IsGame() {
			out = append(out, scheduleEntryDTO{GameID: row.GameID, Week: row.Week})
			continue
		}
		g := row.Game
		out = append(out, scheduleEntryDTO{
			GameID:         row.GameID,
			Day:            formatDay(g.Day),
			Time:           g.Time.Format(timeLayout),
			Field:          g.Field,
			Home:           g.Home,
			Visitor:        g.Visitor,
			HomeScore:      g.HomeScore,
			VisitorScore:   g.VisitorScore,
			HomeForfeit:    g.HomeForfeit,
			VisitorForfeit: g.VisitorForfeit,
		})
	}
	return out
}

// filterScheduleByTeam keeps the games the team plays in. Week rows are
// dropped once a team is selected.
func filterScheduleByTeam(rows []division.ScheduleEntry, team string) []division.ScheduleEntry {
	if team == "" {
		return rows
	}
	out := make([]division.ScheduleEntry, 0, len(rows))
	for _, row := range rows {
		if !row.IsGame() {
			continue
		}
		if strings.EqualFold(row.Game.Home, team) || strings.EqualFold(row.Game.Visitor, team) {
			out = append(out, row)
		}
	}
	return out
}

// Overtime losses only mean something in hockey leagues.
func showOvertimeLosses(organization string) bool {
	return strings.Contains(strings.ToLower(organization), "hockey")
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dayLayout)
}
