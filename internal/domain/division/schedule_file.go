package division

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

var ErrMalformedSchedule = errors.New("malformed schedule file")

const (
	scheduleHeaderLines = 4
	scheduleFieldCount  = 6
	weekMarkerPrefix    = "week"
	doubleHeaderOffset  = 90 * time.Minute
)

var (
	scheduleDateLayouts = []string{"1/2/2006", "01/02/2006", "1/2/06", "2006-01-02"}
	scheduleTimeLayouts = []string{"3:04 PM", "3:04PM", "3:04 pm", "3:04pm", "15:04", "15:04:05"}
)

// ParsedSchedule is the in-memory result of parsing a schedule upload.
type ParsedSchedule struct {
	Standings     []Standing
	Schedule      []ScheduleEntry
	FirstGameDate time.Time
	LastGameDate  time.Time
}

// ParseScheduleFile reads a schedule upload. The layout is four header
// lines, one team name per line closed by a blank line, then one row per
// game ("date,day,time,home,visitor,field") or week marker ("week N").
// Any malformed line fails the whole parse.
func ParseScheduleFile(r io.Reader, useDoubleHeaders bool) (ParsedSchedule, error) {
	lines, err := readLines(r)
	if err != nil {
		return ParsedSchedule{}, fmt.Errorf("read schedule file: %w", err)
	}
	if len(lines) < scheduleHeaderLines {
		return ParsedSchedule{}, fmt.Errorf("%w: expected %d header lines, got %d", ErrMalformedSchedule, scheduleHeaderLines, len(lines))
	}

	var out ParsedSchedule
	idx := scheduleHeaderLines
	for ; idx < len(lines) && lines[idx] != ""; idx++ {
		out.Standings = append(out.Standings, Standing{
			TeamID: len(out.Standings) + 1,
			Name:   lines[idx],
		})
	}
	if idx >= len(lines) {
		return ParsedSchedule{}, fmt.Errorf("%w: team list is not terminated by a blank line", ErrMalformedSchedule)
	}
	if len(out.Standings) == 0 {
		return ParsedSchedule{}, fmt.Errorf("%w: no teams listed", ErrMalformedSchedule)
	}

	gameID := 0
	seenGame := false
	for idx++; idx < len(lines); idx++ {
		line := lines[idx]
		if line == "" {
			continue
		}

		fields := strings.Split(line, ",")
		label := strings.TrimSpace(fields[0])
		if strings.HasPrefix(strings.ToLower(label), weekMarkerPrefix) {
			out.Schedule = append(out.Schedule, ScheduleEntry{Kind: EntryWeek, GameID: gameID, Week: label})
			gameID++
			continue
		}

		game, err := parseGameLine(fields, out.Standings)
		if err != nil {
			return ParsedSchedule{}, fmt.Errorf("%w: line %d: %v", ErrMalformedSchedule, idx+1, err)
		}

		out.Schedule = append(out.Schedule, ScheduleEntry{Kind: EntryGame, GameID: gameID, Game: &game})
		gameID++

		if useDoubleHeaders {
			second := Game{
				Day:       game.Day,
				Time:      game.Time.Add(doubleHeaderOffset),
				Field:     game.Field,
				Home:      game.Visitor,
				HomeID:    game.VisitorID,
				Visitor:   game.Home,
				VisitorID: game.HomeID,
			}
			out.Schedule = append(out.Schedule, ScheduleEntry{Kind: EntryGame, GameID: gameID, Game: &second})
			gameID++
		}

		if !seenGame {
			out.FirstGameDate = game.Day
			seenGame = true
		}
		out.LastGameDate = game.Day
	}

	return out, nil
}

func parseGameLine(fields []string, teams []Standing) (Game, error) {
	if len(fields) < scheduleFieldCount {
		return Game{}, fmt.Errorf("expected %d comma-separated fields, got %d", scheduleFieldCount, len(fields))
	}
	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	day, err := parseWithLayouts(fields[0], scheduleDateLayouts)
	if err != nil {
		return Game{}, fmt.Errorf("invalid date %q", fields[0])
	}
	clock, err := parseWithLayouts(fields[2], scheduleTimeLayouts)
	if err != nil {
		return Game{}, fmt.Errorf("invalid time %q", fields[2])
	}
	homeID, err := parseTeamID(fields[3], len(teams))
	if err != nil {
		return Game{}, fmt.Errorf("home team: %w", err)
	}
	visitorID, err := parseTeamID(fields[4], len(teams))
	if err != nil {
		return Game{}, fmt.Errorf("visitor team: %w", err)
	}

	return Game{
		Day:       day,
		Time:      day.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute + time.Duration(clock.Second())*time.Second),
		Field:     fields[5],
		Home:      teams[homeID-1].Name,
		HomeID:    homeID,
		Visitor:   teams[visitorID-1].Name,
		VisitorID: visitorID,
	}, nil
}

func parseTeamID(raw string, teamCount int) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid team id %q", raw)
	}
	if id < 1 || id > teamCount {
		return 0, fmt.Errorf("team id %d out of range 1..%d", id, teamCount)
	}
	return id, nil
}

func parseWithLayouts(raw string, layouts []string) (time.Time, error) {
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, raw)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized value %q", raw)
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	lines := make([]string, 0, 64)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
