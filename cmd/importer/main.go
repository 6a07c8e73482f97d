package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"
	_ "time/tzdata"

	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/league-scorebook/internal/app"
	"github.com/riskibarqy/league-scorebook/internal/config"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
	"github.com/riskibarqy/league-scorebook/internal/usecase"
)

var scheduleExtensions = map[string]struct{}{".txt": {}, ".csv": {}, ".sched": {}}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "importer",
		Usage: "bulk load division schedule files",
		Commands: []*cli.Command{
			{
				Name:  "load",
				Usage: "load every schedule file in a directory; the file name is the division id",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "org", Usage: "organization that owns the divisions", Required: true},
					&cli.StringFlag{Name: "dir", Usage: "directory of schedule files", Required: true},
					&cli.BoolFlag{Name: "double-headers", Usage: "schedule a return game after each listed game"},
					&cli.BoolFlag{Name: "register", Usage: "create missing divisions from the file header"},
					&cli.IntFlag{Name: "workers", Usage: "concurrent uploads", Value: 4},
				},
				Action: runLoad,
			},
		},
	}
}

func runLoad(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Service:     "league-scorebook-importer",
		Version:     cfg.ServiceVersion,
		Environment: cfg.AppEnv,
		Output:      c.App.ErrWriter,
	})
	defer func() { _ = logger.Sync() }()

	sources, err := scanScheduleDir(c.String("dir"))
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return cli.Exit(fmt.Sprintf("no schedule files found in %s", c.String("dir")), 2)
	}

	repo, closeStore, err := app.OpenStore(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = closeStore() }()

	importer := usecase.NewScheduleImportService(usecase.NewDivisionService(repo, logger, cfg.Location), logger)
	result, err := importer.Import(c.Context, usecase.ImportSchedulesInput{
		Organization:     c.String("org"),
		Sources:          sources,
		UseDoubleHeaders: c.Bool("double-headers"),
		Register:         c.Bool("register"),
		Workers:          c.Int("workers"),
	})
	if err != nil {
		return err
	}

	printReport(c.App.Writer, result)
	if result.FailedCount > 0 {
		return cli.Exit(fmt.Sprintf("%d schedule file(s) failed", result.FailedCount), 1)
	}
	return nil
}

// scanScheduleDir lists schedule files in dir, sorted by name. Nested
// directories are not walked.
func scanScheduleDir(dir string) ([]usecase.ScheduleSource, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read schedule dir: %w", err)
	}

	sources := make([]usecase.ScheduleSource, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := scheduleExtensions[ext]; !ok {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		sources = append(sources, usecase.ScheduleSource{
			DivisionID: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Name:       entry.Name(),
			Open:       func() (io.ReadCloser, error) { return os.Open(path) },
		})
	}

	sort.Slice(sources, func(i, j int) bool { return sources[i].Name < sources[j].Name })
	return sources, nil
}

func printReport(w io.Writer, result usecase.ImportSchedulesResult) {
	for _, task := range result.Tasks {
		line := fmt.Sprintf("%-8s %-20s %s", task.Status, task.DivisionID, task.Source)
		if !task.FirstGameDate.IsZero() {
			line += fmt.Sprintf("  %s..%s", task.FirstGameDate.Format("2006-01-02"), task.LastGameDate.Format("2006-01-02"))
		}
		if task.Message != "" {
			line += "  " + task.Message
		}
		fmt.Fprintln(w, line)
	}
	fmt.Fprintf(w, "loaded=%d failed=%d skipped=%d\n", result.SuccessCount, result.FailedCount, result.SkippedCount)
}
