package main

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "github.com/lib/pq"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/config"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/logger"
	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/migration"
	"github.com/manutdmohit/proficientlegal-sub000/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const defaultMigrationsDir = "migrations"

// cliContext carries the global flags and the lazily built logger
type cliContext struct {
	dir      string
	logLevel string
	log      *zap.Logger
}

func newRootCommand() *cobra.Command {
	ctx := &cliContext{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Practice site database migrations",
		Long:          "Applies the embedded schema migrations, or those in --path, to the database named by LEGAL_DATABASE_*.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if ctx.log != nil {
				_ = logger.Sync(ctx.log)
			}
		},
	}

	root.PersistentFlags().StringVar(&ctx.dir, "path", "", "Read migrations from this directory instead of the embedded set")
	root.PersistentFlags().StringVar(&ctx.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	root.AddCommand(
		newUpCommand(ctx),
		newDownCommand(ctx),
		newStepCommand(ctx),
		newGotoCommand(ctx),
		newVersionCommand(ctx),
		newForceCommand(ctx),
		newDropCommand(ctx),
		newCreateCommand(ctx),
		newListCommand(ctx),
	)
	return root
}

func (c *cliContext) init(cmd *cobra.Command) error {
	log, err := logger.New(logger.Config{
		Level:      c.logLevel,
		Format:     "console",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	c.log = log

	if c.dir != "" {
		abs, err := filepath.Abs(c.dir)
		if err != nil {
			return fmt.Errorf("resolve --path: %w", err)
		}
		c.dir = abs
	}

	c.log.Debug("Migration CLI started",
		zap.String("command", cmd.Name()),
		zap.String("source", c.sourceName()),
	)
	return nil
}

func (c *cliContext) sourceName() string {
	if c.dir == "" {
		return "embedded"
	}
	return c.dir
}

// withMigrator opens the configured database and runs fn against it
func (c *cliContext) withMigrator(fn func(*migration.Migrator) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()
	if err := db.Ping(); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}

	var m *migration.Migrator
	if c.dir != "" {
		m, err = migration.NewFromDir(db, c.dir, c.log)
	} else {
		m, err = migration.NewFromFS(db, migrations.FS, c.log)
	}
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer m.Close()

	return fn(m)
}
