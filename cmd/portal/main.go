package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/whms/health-portal/internal/api"
	"github.com/whms/health-portal/internal/capture"
	"github.com/whms/health-portal/internal/core/ports"
	"github.com/whms/health-portal/internal/core/service"
	"github.com/whms/health-portal/internal/infrastructure/camera"
	"github.com/whms/health-portal/internal/infrastructure/config"
	"github.com/whms/health-portal/internal/infrastructure/db/bolt"
	redisdb "github.com/whms/health-portal/internal/infrastructure/db/redis"
	"github.com/whms/health-portal/internal/infrastructure/qrdetect"
	"github.com/whms/health-portal/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx := context.Background()

	db, err := bolt.Open(cfg.Bolt.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Bolt.Path).Msg("failed to open portal database")
	}
	defer db.Close()

	// The replay guard is optional: without Redis, scanned codes may be
	// reused, which is the original behaviour of the system.
	var replay ports.ReplayGuard
	var rdb *goredis.Client
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer client.Close()
		rdb = client
		replay = redisdb.NewReplayGuard(client)
	}

	identityStore := bolt.NewIdentityStore(db, log)
	sessionStore := bolt.NewSessionStore(db, log)

	registry, err := service.NewRegistry(ctx, identityStore, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build identity registry")
	}

	cam := camera.NewPushCamera()
	captureSession := capture.NewSession(cam, qrdetect.NewZXingDetector(), cfg.ScanTicksPerSecond, log)

	authService := service.NewAuthService(registry, sessionStore, captureSession, replay, cfg.JWTSecret, 24*time.Hour, log)
	scanService := service.NewScanService(captureSession, authService, log)

	if restored, err := authService.Current(ctx); err != nil {
		log.Warn().Err(err).Msg("session restore failed")
	} else if restored != nil {
		log.Info().Str("username", restored.Identity.Username).Msg("restored previous session")
	}

	e := api.NewRouter(api.Dependencies{
		Auth:     authService,
		Scan:     scanService,
		Registry: registry,
		Camera:   cam,
		BoltDB:   db,
		Redis:    rdb,
		JWT:      cfg.JWTSecret,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Msg("portal listening")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	captureSession.Stop()

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown failed")
	}
}
