package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jot/internal/auth"
	"jot/internal/config"
	"jot/internal/db"
	httpx "jot/internal/http"

	"go.uber.org/zap"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	cfg, _ := config.Load()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("cannot connect database", zap.Error(err))
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}

	authSvc := &auth.Service{DB: gdb}
	created, err := authSvc.SeedAdmin(context.Background(), cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		logger.Fatal("admin bootstrap failed", zap.Error(err))
	}
	if created {
		logger.Info("default admin user created", zap.String("username", cfg.AdminUsername))
	}

	codec := auth.NewJWT(cfg.JWTSecret, cfg.TokenTTL)
	r := httpx.NewRouter(cfg, gdb, codec, logger)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("listening", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server stopped", zap.Error(err))
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	_ = srv.Shutdown(shutdownCtx)
}
