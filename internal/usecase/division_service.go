package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

// LoadScheduleResult reports the outcome of a schedule upload. Validation
// problems are returned here rather than as errors; the dates are only
// meaningful when Success is true.
type LoadScheduleResult struct {
	Success       bool      `json:"success"`
	ErrorMessage  string    `json:"errorMessage,omitempty"`
	FirstGameDate time.Time `json:"firstGameDate"`
	LastGameDate  time.Time `json:"lastGameDate"`
}

// DivisionService owns reads and writes of the division index document and
// the per-division detail documents. The two documents are written with
// independent calls: an index entry without a detail document is a valid
// state, and concurrent writers to one division are last-write-wins.
type DivisionService struct {
	repo     division.Repository
	logger   *logging.Logger
	location *time.Location
	now      func() time.Time
}

func NewDivisionService(repo division.Repository, logger *logging.Logger, location *time.Location) *DivisionService {
	if logger == nil {
		logger = logging.Default()
	}
	if location == nil {
		location = time.UTC
	}

	return &DivisionService{
		repo:     repo,
		logger:   logger,
		location: location,
		now:      time.Now,
	}
}

// GetDivision returns the division document, or an empty Division when none is stored.
func (s *DivisionService) GetDivision(ctx context.Context, organization, divisionID string) (division.Division, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.GetDivision", divisionAttrs(organization, divisionID)...)
	defer span.End()

	organization = strings.TrimSpace(organization)
	key := division.StorageKey(divisionID)
	if organization == "" || key == "" {
		return division.Division{}, fmt.Errorf("%w: organization and division id are required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetDivision(ctx, organization, key)
	if err != nil {
		return division.Division{}, fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return division.Division{}, nil
	}

	return item, nil
}

// GetDivisionInfoIfExists looks up one index entry, ignoring id case.
func (s *DivisionService) GetDivisionInfoIfExists(ctx context.Context, organization, divisionID string) (division.Info, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.GetDivisionInfoIfExists", divisionAttrs(organization, divisionID)...)
	defer span.End()

	items, err := s.GetDivisionList(ctx, organization)
	if err != nil {
		return division.Info{}, false, err
	}

	for _, item := range items {
		if division.SameID(item.ID, divisionID) {
			return item, true, nil
		}
	}

	return division.Info{}, false, nil
}

// GetDivisionList returns the organization's index entries in stored order.
func (s *DivisionService) GetDivisionList(ctx context.Context, organization string) ([]division.Info, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.GetDivisionList", attrOrganization.String(organization))
	defer span.End()

	organization = strings.TrimSpace(organization)
	if organization == "" {
		return nil, fmt.Errorf("%w: organization is required", ErrInvalidInput)
	}

	list, exists, err := s.repo.GetInfoList(ctx, organization)
	if err != nil {
		return nil, fmt.Errorf("get division list: %w", err)
	}
	if !exists || len(list.Divisions) == 0 {
		return []division.Info{}, nil
	}

	return append([]division.Info(nil), list.Divisions...), nil
}

// SaveDivisionInfo upserts one index entry, or removes it when remove is set.
// Removing also deletes the division document on a best-effort basis.
func (s *DivisionService) SaveDivisionInfo(ctx context.Context, info division.Info, remove bool) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.SaveDivisionInfo", divisionAttrs(info.Organization, info.ID)...)
	defer span.End()
	defer func() { recordSpanError(span, err) }()

	info.Organization = strings.TrimSpace(info.Organization)
	info.ID = strings.TrimSpace(info.ID)
	if info.Organization == "" || info.ID == "" {
		return fmt.Errorf("%w: organization and division id are required", ErrInvalidInput)
	}

	list, exists, err := s.repo.GetInfoList(ctx, info.Organization)
	if err != nil {
		return fmt.Errorf("get division list: %w", err)
	}
	if !exists {
		list = division.InfoList{Organization: info.Organization, ID: division.InfoListID}
	}

	idx := -1
	for i, item := range list.Divisions {
		if division.SameID(item.ID, info.ID) {
			idx = i
			break
		}
	}

	if remove {
		if idx < 0 {
			s.logger.DebugContext(ctx, "division not indexed, nothing to delete",
				"organization", info.Organization,
				"division_id", info.ID,
			)
			return nil
		}

		// The detail document goes first so a failure in between leaves an
		// index entry without a document, never an orphaned document.
		if err := s.repo.DeleteDivision(ctx, info.Organization, division.StorageKey(info.ID)); err != nil {
			s.logger.WarnContext(ctx, "delete division document failed, continuing",
				"organization", info.Organization,
				"division_id", info.ID,
				"error", err,
			)
		}

		list.Divisions = append(list.Divisions[:idx:idx], list.Divisions[idx+1:]...)
		if err := s.repo.ReplaceInfoList(ctx, list); err != nil {
			return fmt.Errorf("replace division list: %w", err)
		}
		return nil
	}

	if info.Updated.IsZero() {
		info.Updated = s.localNow()
	}
	if idx >= 0 {
		list.Divisions[idx] = info
	} else {
		list.Divisions = append(list.Divisions, info)
	}

	if exists {
		if err := s.repo.ReplaceInfoList(ctx, list); err != nil {
			return fmt.Errorf("replace division list: %w", err)
		}
		return nil
	}
	if err := s.repo.CreateInfoList(ctx, list); err != nil {
		return fmt.Errorf("create division list: %w", err)
	}
	return nil
}

// LoadScheduleFile parses an uploaded schedule and stores it as the
// division's schedule and zeroed standings, creating the division document
// on first load and replacing it afterwards.
func (s *DivisionService) LoadScheduleFile(ctx context.Context, file io.Reader, organization, divisionID string, useDoubleHeaders bool) (_ LoadScheduleResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.LoadScheduleFile", divisionAttrs(organization, divisionID)...)
	defer span.End()
	defer func() { recordSpanError(span, err) }()

	organization = strings.TrimSpace(organization)
	key := division.StorageKey(divisionID)
	if organization == "" || key == "" {
		return LoadScheduleResult{ErrorMessage: "Organization and division are required"}, nil
	}

	_, registered, err := s.GetDivisionInfoIfExists(ctx, organization, divisionID)
	if err != nil {
		return LoadScheduleResult{}, err
	}
	if !registered {
		return LoadScheduleResult{ErrorMessage: "Division Does Not Exist"}, nil
	}

	parsed, err := division.ParseScheduleFile(file, useDoubleHeaders)
	if err != nil {
		s.logger.InfoContext(ctx, "schedule upload rejected",
			"organization", organization,
			"division_id", divisionID,
			"error", err,
		)
		return LoadScheduleResult{ErrorMessage: err.Error()}, nil
	}

	_, exists, err := s.repo.GetDivision(ctx, organization, key)
	if err != nil {
		return LoadScheduleResult{}, fmt.Errorf("get division: %w", err)
	}

	item := division.Division{
		Organization: organization,
		ID:           key,
		Standings:    parsed.Standings,
		Schedule:     parsed.Schedule,
	}
	if exists {
		err = s.repo.ReplaceDivision(ctx, item)
	} else {
		err = s.repo.CreateDivision(ctx, item)
	}
	if err != nil {
		return LoadScheduleResult{}, fmt.Errorf("store division schedule: %w", err)
	}

	s.logger.InfoContext(ctx, "schedule loaded",
		"organization", organization,
		"division_id", key,
		"teams", len(parsed.Standings),
		"rows", len(parsed.Schedule),
		"double_headers", useDoubleHeaders,
	)

	return LoadScheduleResult{
		Success:       true,
		FirstGameDate: parsed.FirstGameDate,
		LastGameDate:  parsed.LastGameDate,
	}, nil
}

// SaveScores applies reported scores, recomputes the standings, stamps the
// index entry and then replaces the division document.
func (s *DivisionService) SaveScores(ctx context.Context, organization, divisionID string, entries []division.ScoreEntry) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.SaveScores", divisionAttrs(organization, divisionID)...)
	defer span.End()
	defer func() { recordSpanError(span, err) }()

	organization = strings.TrimSpace(organization)
	key := division.StorageKey(divisionID)
	if organization == "" || key == "" {
		return fmt.Errorf("%w: organization and division id are required", ErrInvalidInput)
	}

	info, registered, err := s.GetDivisionInfoIfExists(ctx, organization, divisionID)
	if err != nil {
		return err
	}
	if !registered {
		return fmt.Errorf("%w: division=%s", ErrNotFound, divisionID)
	}

	item, exists, err := s.repo.GetDivision(ctx, organization, key)
	if err != nil {
		return fmt.Errorf("get division: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: division=%s has no schedule", ErrNotFound, divisionID)
	}

	applied := applyScores(item.Schedule, entries)

	standings, err := division.RecalculateStandings(item.Standings, item.Schedule)
	if err != nil {
		return fmt.Errorf("recalculate standings: %w", err)
	}
	item.Standings = standings

	info.Updated = s.localNow()
	if err := s.SaveDivisionInfo(ctx, info, false); err != nil {
		return fmt.Errorf("stamp division info: %w", err)
	}

	if err := s.repo.ReplaceDivision(ctx, item); err != nil {
		if errors.Is(err, division.ErrDocumentNotFound) {
			return fmt.Errorf("%w: division=%s document disappeared: %v", ErrNotFound, divisionID, err)
		}
		return fmt.Errorf("replace division: %w", err)
	}

	s.logger.InfoContext(ctx, "scores saved",
		"organization", organization,
		"division_id", key,
		"submitted", len(entries),
		"applied", applied,
	)
	return nil
}

// GetGames returns every game played on the same day and field as gameID.
func (s *DivisionService) GetGames(ctx context.Context, organization, divisionID string, gameID int) ([]division.ScheduleEntry, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.DivisionService.GetGames", divisionAttrs(organization, divisionID)...)
	defer span.End()

	item, err := s.GetDivision(ctx, organization, divisionID)
	if err != nil {
		return nil, err
	}

	var ref *division.Game
	for _, entry := range item.Schedule {
		if entry.GameID == gameID && entry.IsGame() {
			ref = entry.Game
			break
		}
	}
	if ref == nil {
		return []division.ScheduleEntry{}, nil
	}

	out := make([]division.ScheduleEntry, 0, 4)
	for _, entry := range item.Schedule {
		if !entry.IsGame() {
			continue
		}
		if entry.Game.Day.Equal(ref.Day) && entry.Game.Field == ref.Field {
			out = append(out, entry)
		}
	}

	return out, nil
}

func (s *DivisionService) localNow() time.Time {
	return s.now().In(s.location)
}

// applyScores copies reported scores onto matching games and returns how many
// games were updated. Unknown game ids and week rows are ignored.
func applyScores(schedule []division.ScheduleEntry, entries []division.ScoreEntry) int {
	byGameID := make(map[int]int, len(schedule))
	for i, entry := range schedule {
		if entry.IsGame() {
			byGameID[entry.GameID] = i
		}
	}

	applied := 0
	for _, entry := range entries {
		idx, ok := byGameID[entry.GameID]
		if !ok {
			continue
		}

		game := *schedule[idx].Game
		game.HomeForfeit = entry.HomeForfeit
		game.VisitorForfeit = entry.VisitorForfeit
		game.HomeScore = copyScore(entry.HomeScore)
		game.VisitorScore = copyScore(entry.VisitorScore)

		if game.HomeForfeit || game.VisitorForfeit {
			home, visitor := division.ForfeitScores(game.HomeForfeit, game.VisitorForfeit)
			game.HomeScore = &home
			game.VisitorScore = &visitor
		}

		schedule[idx].Game = &game
		applied++
	}

	return applied
}

func copyScore(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}
