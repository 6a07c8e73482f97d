package usecase

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/riskibarqy/league-scorebook/internal/domain/division"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

const (
	importStatusSuccess = "success"
	importStatusFailed  = "failed"
	importStatusSkipped = "skipped"

	defaultImportWorkers = 4
	maxImportWorkers     = 32
)

// ScheduleSource is one schedule file destined for one division.
type ScheduleSource struct {
	DivisionID string
	Name       string
	Open       func() (io.ReadCloser, error)
}

type ImportSchedulesInput struct {
	Organization     string
	Sources          []ScheduleSource
	UseDoubleHeaders bool
	// Register creates missing index entries from the file's first two
	// header lines (league, division) before loading.
	Register bool
	Workers  int
}

type ImportScheduleTaskResult struct {
	DivisionID    string    `json:"divisionId"`
	Source        string    `json:"source"`
	Status        string    `json:"status"`
	Message       string    `json:"message,omitempty"`
	FirstGameDate time.Time `json:"firstGameDate,omitempty"`
	LastGameDate  time.Time `json:"lastGameDate,omitempty"`
	DurationMs    int64     `json:"durationMs"`
}

type ImportSchedulesResult struct {
	Tasks        []ImportScheduleTaskResult `json:"tasks"`
	SuccessCount int                        `json:"successCount"`
	FailedCount  int                        `json:"failedCount"`
	SkippedCount int                        `json:"skippedCount"`
}

// ScheduleImportService loads many schedule files for one organization.
// Each division gets at most one task, so no two workers ever write the
// same division document.
type ScheduleImportService struct {
	divisions *DivisionService
	logger    *logging.Logger
}

func NewScheduleImportService(divisions *DivisionService, logger *logging.Logger) *ScheduleImportService {
	if logger == nil {
		logger = logging.Default()
	}
	return &ScheduleImportService{divisions: divisions, logger: logger}
}

func (s *ScheduleImportService) Import(ctx context.Context, input ImportSchedulesInput) (ImportSchedulesResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ScheduleImportService.Import", attrOrganization.String(input.Organization))
	defer span.End()

	organization := strings.TrimSpace(input.Organization)
	if organization == "" {
		return ImportSchedulesResult{}, fmt.Errorf("%w: organization is required", ErrInvalidInput)
	}

	workerCount := input.Workers
	if workerCount <= 0 {
		workerCount = defaultImportWorkers
	}
	if workerCount > maxImportWorkers {
		workerCount = maxImportWorkers
	}

	var result ImportSchedulesResult
	tasks := make([]ScheduleSource, 0, len(input.Sources))
	seen := make(map[string]string, len(input.Sources))
	for _, src := range input.Sources {
		key := division.StorageKey(src.DivisionID)
		if first, dup := seen[key]; dup {
			result.Tasks = append(result.Tasks, ImportScheduleTaskResult{
				DivisionID: src.DivisionID,
				Source:     src.Name,
				Status:     importStatusSkipped,
				Message:    fmt.Sprintf("division already loaded from %s", first),
			})
			continue
		}
		seen[key] = src.Name
		tasks = append(tasks, src)
	}

	// The index is a single document per organization, so registration
	// runs before the pool starts.
	if input.Register {
		for _, src := range tasks {
			if err := s.register(ctx, organization, src); err != nil {
				return ImportSchedulesResult{}, err
			}
		}
	}

	results := make(chan ImportScheduleTaskResult, len(tasks))
	var successCount atomic.Int32
	var failedCount atomic.Int32

	pool, err := ants.NewPool(workerCount)
	if err != nil {
		return ImportSchedulesResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, task := range tasks {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.load(ctx, organization, task, input.UseDoubleHeaders)
			if row.Status == importStatusSuccess {
				successCount.Add(1)
			} else {
				failedCount.Add(1)
			}
			results <- row
		}); err != nil {
			workers.Done()
			return ImportSchedulesResult{}, fmt.Errorf("submit task to worker pool: %w", err)
		}
	}

	workers.Wait()
	close(results)

	for row := range results {
		result.Tasks = append(result.Tasks, row)
	}
	sort.SliceStable(result.Tasks, func(i, j int) bool {
		if result.Tasks[i].DivisionID != result.Tasks[j].DivisionID {
			return result.Tasks[i].DivisionID < result.Tasks[j].DivisionID
		}
		return result.Tasks[i].Source < result.Tasks[j].Source
	})

	result.SuccessCount = int(successCount.Load())
	result.FailedCount = int(failedCount.Load())
	result.SkippedCount = len(result.Tasks) - result.SuccessCount - result.FailedCount

	s.logger.InfoContext(ctx, "schedule import finished",
		"organization", organization,
		"success", result.SuccessCount,
		"failed", result.FailedCount,
		"skipped", result.SkippedCount,
		"workers", workerCount,
	)
	return result, nil
}

func (s *ScheduleImportService) load(ctx context.Context, organization string, src ScheduleSource, useDoubleHeaders bool) ImportScheduleTaskResult {
	start := time.Now()
	row := ImportScheduleTaskResult{DivisionID: src.DivisionID, Source: src.Name}

	file, err := src.Open()
	if err != nil {
		row.Status = importStatusFailed
		row.Message = fmt.Sprintf("open: %v", err)
		row.DurationMs = time.Since(start).Milliseconds()
		return row
	}
	defer file.Close()

	loaded, err := s.divisions.LoadScheduleFile(ctx, file, organization, src.DivisionID, useDoubleHeaders)
	switch {
	case err != nil:
		row.Status = importStatusFailed
		row.Message = err.Error()
		s.logger.WarnContext(ctx, "schedule import failed", "organization", organization, "division_id", src.DivisionID, "error", err)
	case !loaded.Success:
		row.Status = importStatusFailed
		row.Message = loaded.ErrorMessage
	default:
		row.Status = importStatusSuccess
		row.FirstGameDate = loaded.FirstGameDate
		row.LastGameDate = loaded.LastGameDate
	}
	row.DurationMs = time.Since(start).Milliseconds()
	return row
}

func (s *ScheduleImportService) register(ctx context.Context, organization string, src ScheduleSource) error {
	_, exists, err := s.divisions.GetDivisionInfoIfExists(ctx, organization, src.DivisionID)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	league, div, err := readScheduleHeader(src)
	if err != nil {
		s.logger.WarnContext(ctx, "skip registration", "division_id", src.DivisionID, "source", src.Name, "error", err)
		return nil
	}

	if err := s.divisions.SaveDivisionInfo(ctx, division.Info{
		Organization: organization,
		ID:           src.DivisionID,
		League:       league,
		Div:          div,
	}, false); err != nil {
		return fmt.Errorf("register division %s: %w", src.DivisionID, err)
	}
	s.logger.InfoContext(ctx, "division registered", "organization", organization, "division_id", src.DivisionID)
	return nil
}

func readScheduleHeader(src ScheduleSource) (league, div string, err error) {
	file, err := src.Open()
	if err != nil {
		return "", "", err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lines := make([]string, 0, 2)
	for len(lines) < 2 && scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	if len(lines) < 2 || lines[0] == "" || lines[1] == "" {
		return "", "", fmt.Errorf("%w: missing league and division header", division.ErrMalformedSchedule)
	}
	return lines[0], lines[1], nil
}
