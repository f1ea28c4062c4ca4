package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manutdmohit/proficientlegal-sub000/internal/infrastructure/migration"
	"github.com/manutdmohit/proficientlegal-sub000/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newUpCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return ctx.withMigrator((*migration.Migrator).Up)
		},
	}
}

func newDownCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back all migrations",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			return ctx.withMigrator((*migration.Migrator).Down)
		},
	}
}

func newStepCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "step <n>",
		Short:   "Apply n migrations, or roll back when n is negative",
		Example: "  migrate step -- -1",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid step count %q", args[0])
			}
			return ctx.withMigrator(func(m *migration.Migrator) error { return m.Steps(n) })
		},
	}
}

func newGotoCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "goto <version>",
		Short: "Migrate up or down to a specific version",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.ParseUint(args[0], 10, 32)
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return ctx.withMigrator(func(m *migration.Migrator) error { return m.GoTo(uint(version)) })
		},
	}
}

func newVersionCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show the current migration version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ctx.withMigrator(func(m *migration.Migrator) error {
				version, dirty, err := m.Version()
				if err != nil {
					return err
				}
				if version == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", version, dirty)
				return nil
			})
		},
	}
}

func newForceCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the recorded version after a failed run, without migrating",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid version %q", args[0])
			}
			return ctx.withMigrator(func(m *migration.Migrator) error { return m.Force(version) })
		},
	}
}

func newDropCommand(ctx *cliContext) *cobra.Command {
	var confirm bool
	cmd := &cobra.Command{
		Use:   "drop",
		Short: "Drop every object in the database",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			if !confirm {
				return errors.New("drop cancelled, pass --confirm to proceed")
			}
			return ctx.withMigrator((*migration.Migrator).Drop)
		},
	}
	cmd.Flags().BoolVar(&confirm, "confirm", false, "Confirm dropping all database objects")
	return cmd
}

func newCreateCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:     "create <name> [description]",
		Short:   "Create the next numbered migration pair",
		Example: `  migrate create add_matter_notes "Internal notes on enquiries"`,
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(_ *cobra.Command, args []string) error {
			dir := ctx.dir
			if dir == "" {
				dir = defaultMigrationsDir
			}
			var description string
			if len(args) == 2 {
				description = args[1]
			}
			mf, err := migration.CreateMigration(dir, args[0], description)
			if err != nil {
				return err
			}
			ctx.log.Info("Migration created",
				zap.String("version", mf.Version),
				zap.String("up_file", mf.UpPath),
				zap.String("down_file", mf.DownPath),
			)
			return nil
		},
	}
}

func newListCommand(ctx *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var (
				names []string
				err   error
			)
			if ctx.dir != "" {
				names, err = migration.ListMigrations(ctx.dir)
			} else {
				names, err = migration.ListEmbedded(migrations.FS)
			}
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations found")
				return nil
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}
