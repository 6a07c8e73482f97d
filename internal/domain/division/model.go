package division

import (
	"strings"
	"time"
)

// InfoListID is the fixed document key of the per-organization division index.
const InfoListID = "DivisionListID"

// Info is the catalog metadata of one division.
type Info struct {
	Organization string    `json:"organization"`
	ID           string    `json:"id"`
	League       string    `json:"league"`
	Div          string    `json:"div"`
	Updated      time.Time `json:"updated"`
	// Locked blocks score submission.
	Locked bool `json:"locked"`
}

// InfoList is the per-organization index document.
type InfoList struct {
	Organization string `json:"organization"`
	ID           string `json:"id"`
	Divisions    []Info `json:"divisionList"`
}

// Division is the detail document of one division.
type Division struct {
	Organization string          `json:"organization"`
	ID           string          `json:"id"`
	Standings    []Standing      `json:"standings"`
	Schedule     []ScheduleEntry `json:"schedule"`
}

// Exists reports whether the division was loaded from a stored document.
func (d Division) Exists() bool {
	return d.Organization != "" && d.ID != ""
}

type EntryKind string

const (
	EntryGame EntryKind = "game"
	EntryWeek EntryKind = "week"
)

// ScheduleEntry is one schedule row: either a game or a week boundary.
type ScheduleEntry struct {
	Kind   EntryKind `json:"kind"`
	GameID int       `json:"gameId"`
	Week   string    `json:"week,omitempty"`
	Game   *Game     `json:"game,omitempty"`
}

func (e ScheduleEntry) IsGame() bool {
	return e.Kind == EntryGame && e.Game != nil
}

// Game holds the fields of a played or unplayed game.
type Game struct {
	Day            time.Time `json:"day"`
	Time           time.Time `json:"time"`
	Field          string    `json:"field"`
	Home           string    `json:"home"`
	HomeID         int       `json:"homeId"`
	Visitor        string    `json:"visitor"`
	VisitorID      int       `json:"visitorId"`
	HomeScore      *int      `json:"homeScore,omitempty"`
	VisitorScore   *int      `json:"visitorScore,omitempty"`
	HomeForfeit    bool      `json:"homeForfeit"`
	VisitorForfeit bool      `json:"visitorForfeit"`
}

// Reported reports whether both scores are present.
func (g Game) Reported() bool {
	return g.HomeScore != nil && g.VisitorScore != nil
}

// Standing is the cumulative record of one team.
type Standing struct {
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

// ScoreEntry is a caller-supplied score report for one game.
type ScoreEntry struct {
	GameID         int  `json:"gameId"`
	HomeScore      *int `json:"homeScore,omitempty"`
	VisitorScore   *int `json:"visitorScore,omitempty"`
	HomeForfeit    bool `json:"homeForfeit"`
	VisitorForfeit bool `json:"visitorForfeit"`
}

// StorageKey returns the document key for a display division id.
func StorageKey(divisionID string) string {
	return strings.ToLower(strings.TrimSpace(divisionID))
}

// SameID compares two division ids the way the index does.
func SameID(a, b string) bool {
	return StorageKey(a) == StorageKey(b)
}
