package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"uattracker/infrastructure/config"
	"uattracker/infrastructure/sqlite"
	"uattracker/infrastructure/store"
)

type rootOptions struct {
	dbPath        string
	migrationsDir string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "uatctl",
		Short:         "Manage UAT projects from the command line",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (defaults to configured SQLITE_PATH)")
	cmd.PersistentFlags().StringVar(&opts.migrationsDir, "migrations", "", "migrations directory (defaults to configured UAT_MIGRATIONS_DIR)")

	cmd.AddCommand(newProjectsCmd(opts), newReportCmd(opts), newImportCmd(opts))
	return cmd
}

// openGateway loads config, applies migrations and returns a gateway plus
// a close func for the database.
func (o *rootOptions) openGateway(ctx context.Context) (*store.Gateway, *slog.Logger, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, err
	}
	if o.dbPath != "" {
		cfg.DB.Path = o.dbPath
	}
	if o.migrationsDir != "" {
		cfg.DB.MigrationsDir = o.migrationsDir
	}
	logger := cfg.NewLogger()

	migrationsDir, err := config.ResolveMigrationsDir(cfg.DB.MigrationsDir)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := sqlite.OpenDB(cfg.DB.Path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("open db: %w", err)
	}
	if err := sqlite.ApplyMigrations(ctx, db, migrationsDir); err != nil {
		_ = db.Close()
		return nil, nil, nil, fmt.Errorf("apply migrations: %w", err)
	}
	return store.NewGateway(db, logger), logger, func() { _ = db.Close() }, nil
}
