package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"uattracker/frontend/login"
	"uattracker/infrastructure/config"
	"uattracker/infrastructure/rbac"
	"uattracker/infrastructure/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", slog.Any("err", err))
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	in := adminInput()
	if err := seed(context.Background(), cfg, in); err != nil {
		logger.Error("seed admin", slog.Any("err", err))
		os.Exit(1)
	}
	logger.Info("seeded admin user", slog.String("username", in.Username), slog.String("db", cfg.DB.Path))
}

// seed opens the configured database, migrates it and upserts the account.
func seed(ctx context.Context, cfg config.Config, in login.UserInput) error {
	migrationsDir, err := config.ResolveMigrationsDir(cfg.DB.MigrationsDir)
	if err != nil {
		return fmt.Errorf("resolve migrations dir: %w", err)
	}
	db, err := sqlite.OpenDB(cfg.DB.Path)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return login.UpsertUser(ctx, db, in)
}

func adminInput() login.UserInput {
	return login.UserInput{
		Username:    getenv("ADMIN_USERNAME", "admin"),
		DisplayName: getenv("ADMIN_DISPLAY_NAME", "Administrator"),
		Email:       os.Getenv("ADMIN_EMAIL"),
		Role:        rbac.RoleAdmin,
		IsInternal:  true,
		Password:    getenv("ADMIN_PASSWORD", "Admin123!Tracker"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
