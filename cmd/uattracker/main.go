package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"uattracker/infrastructure/cache"
	"uattracker/infrastructure/config"
	httpserver "uattracker/infrastructure/http"
	"uattracker/infrastructure/rbac"
	"uattracker/infrastructure/sqlite"
	"uattracker/infrastructure/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	migrationsDir, err := config.ResolveMigrationsDir(cfg.DB.MigrationsDir)
	if err != nil {
		log.Fatalf("resolve migrations dir: %v", err)
	}

	db, err := sqlite.OpenDB(cfg.DB.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		log.Fatalf("apply migrations: %v", err)
	}

	rbacCache := cache.NewRbacRolesCache()
	server := httpserver.NewServer(cfg.Server.Addr, httpserver.Deps{
		DB:           db,
		Gateway:      store.NewGateway(db, logger),
		SessionCache: cache.NewUserSessionCache(),
		UserCache:    cache.NewUserCache(),
		RbacCache:    rbacCache,
		Rbac:         rbac.New(rbacCache),
		Workspaces:   cache.NewWorkspaceCache(),
		Logger:       logger,
		SessionTTL:   cfg.Server.SessionTTL,
	})
	if err := server.Start(); err != nil {
		log.Fatalf("start server: %v", err)
	}
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go server.RunSessionSweeper(sweepCtx, 10*time.Minute)

	logger.Info("uattracker listening", slog.String("addr", cfg.Server.Addr), slog.String("db", cfg.DB.Path))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	stopSweep()
	if err := server.Stop(); err != nil {
		logger.Error("graceful shutdown error", slog.Any("err", err))
	}
}
