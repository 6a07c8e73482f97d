package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/urfave/cli/v2"

	"github.com/riskibarqy/league-scorebook/internal/platform/dbconn"
	"github.com/riskibarqy/league-scorebook/internal/platform/logging"
)

var defaultMigrationDirs = []string{"./db/migrations", "/app/db/migrations"}

func main() {
	logger := logging.New(logging.Options{Level: logging.LevelInfo, Service: "league-scorebook-migration"})
	defer func() { _ = logger.Sync() }()

	if err := newApp(logger).Run(os.Args); err != nil {
		logger.Error("migration failed", "error", err)
		_ = logger.Sync()
		os.Exit(1)
	}
}

func newApp(logger *logging.Logger) *cli.App {
	return &cli.App{
		Name:  "migration",
		Usage: "manage the league_documents schema",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "db-url",
				Usage:    "postgres connection url",
				EnvVars:  []string{"DB_URL"},
				Required: true,
			},
			&cli.StringFlag{
				Name:    "dir",
				Usage:   "migrations directory",
				EnvVars: []string{"MIGRATIONS_DIR", "MIGRATIONS_PATH"},
			},
			&cli.BoolFlag{
				Name:    "disable-prepared-binary-result",
				Usage:   "append disable_prepared_binary_result=yes to the url",
				EnvVars: []string{"DB_DISABLE_PREPARED_BINARY_RESULT"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "up",
				Usage: "apply all pending migrations",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					if err := ignoreNoChange(logger, m.Up()); err != nil {
						return err
					}
					logger.Info("migrations applied")
					return nil
				}),
			},
			{
				Name:      "down",
				Usage:     "roll back migrations",
				ArgsUsage: "[steps]",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					steps, err := parseSteps(c.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(logger, m.Steps(-steps)); err != nil {
						return err
					}
					logger.Info("migrations rolled back", "steps", steps)
					return nil
				}),
			},
			{
				Name:  "version",
				Usage: "print the current schema version",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					version, dirty, err := m.Version()
					if errors.Is(err, migrate.ErrNilVersion) {
						fmt.Fprintln(c.App.Writer, "version: none")
						fmt.Fprintln(c.App.Writer, "dirty: false")
						return nil
					}
					if err != nil {
						return fmt.Errorf("read version: %w", err)
					}
					fmt.Fprintf(c.App.Writer, "version: %d\n", version)
					fmt.Fprintf(c.App.Writer, "dirty: %t\n", dirty)
					return nil
				}),
			},
			{
				Name:      "force",
				Usage:     "set the schema version without running migrations",
				ArgsUsage: "<version>",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					version, err := parseVersion(c.Args().First())
					if err != nil {
						return err
					}
					if err := m.Force(version); err != nil {
						return fmt.Errorf("force version %d: %w", version, err)
					}
					logger.Info("schema version forced", "version", version)
					return nil
				}),
			},
			{
				Name:      "goto",
				Aliases:   []string{"migrate"},
				Usage:     "migrate up or down to a version",
				ArgsUsage: "<version>",
				Action: withMigrator(logger, func(c *cli.Context, m *migrate.Migrate) error {
					target, err := parseTarget(c.Args().First())
					if err != nil {
						return err
					}
					if err := ignoreNoChange(logger, m.Migrate(target)); err != nil {
						return err
					}
					logger.Info("migrated", "version", target)
					return nil
				}),
			},
		},
	}
}

func withMigrator(logger *logging.Logger, fn func(*cli.Context, *migrate.Migrate) error) cli.ActionFunc {
	return func(c *cli.Context) error {
		dir, err := resolveMigrationsDir(c.String("dir"))
		if err != nil {
			return err
		}

		sourceURL := "file://" + filepath.ToSlash(dir)
		dbURL := dbconn.NormalizeURL(c.String("db-url"), c.Bool("disable-prepared-binary-result"))
		m, err := migrate.New(sourceURL, dbURL)
		if err != nil {
			return fmt.Errorf("create migrator: %w", err)
		}
		defer func() {
			srcErr, dbErr := m.Close()
			if srcErr != nil {
				logger.Warn("close migration source", "error", srcErr)
			}
			if dbErr != nil {
				logger.Warn("close migration db", "error", dbErr)
			}
		}()

		logger.Info("migration source", "source", sourceURL, "database", dbconn.Redact(dbURL))
		return fn(c, m)
	}
}

func ignoreNoChange(logger *logging.Logger, err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		logger.Info("no migration changes")
		return nil
	}
	return err
}

func resolveMigrationsDir(explicit string) (string, error) {
	candidates := append([]string{strings.TrimSpace(explicit)}, defaultMigrationDirs...)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		abs, err := filepath.Abs(candidate)
		if err != nil {
			continue
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			continue
		}
		return abs, nil
	}

	return "", fmt.Errorf("migration directory not found (checked --dir, %s)", strings.Join(defaultMigrationDirs, ", "))
}
