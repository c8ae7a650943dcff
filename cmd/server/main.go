package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"go.uber.org/zap"

	"github.com/mamadbah2/timeclock/internal/cache"
	"github.com/mamadbah2/timeclock/internal/config"
	"github.com/mamadbah2/timeclock/internal/repository/mongodb"
	"github.com/mamadbah2/timeclock/internal/repository/sheets"
	"github.com/mamadbah2/timeclock/internal/scheduler"
	"github.com/mamadbah2/timeclock/internal/server/handlers"
	"github.com/mamadbah2/timeclock/internal/server/router"
	reportingsvc "github.com/mamadbah2/timeclock/internal/service/reporting"
	timetrackingsvc "github.com/mamadbah2/timeclock/internal/service/timetracking"
	"github.com/mamadbah2/timeclock/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File}))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	loc := cfg.Reporting.Location()

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelStartup()

	mongoRepo, err := mongodb.NewMongoDBRepository(startupCtx, cfg.MongoDB, baseLogger.Named("repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	// Status reads fall back to clock_out while indexes are missing.
	if err := mongoRepo.EnsureIndexes(startupCtx); err != nil {
		baseLogger.Warn("failed to ensure mongodb indexes", zap.Error(err))
	}

	var statusCache cache.StatusCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(startupCtx, cfg.Redis)
		if err != nil {
			baseLogger.Warn("redis unavailable, status cache disabled", zap.Error(err))
		} else {
			redisCache := cache.NewRedisStatusCache(redisClient, cfg.Redis.TTL, baseLogger.Named("cache.status"))
			defer func() { _ = redisCache.Close() }()
			statusCache = redisCache
			baseLogger.Info("redis status cache enabled", zap.String("addr", cfg.Redis.Addr))
		}
	}

	trackingSvc := timetrackingsvc.NewService(mongoRepo, statusCache, loc, baseLogger.Named("svc.timetracking"))
	reportingSvc := reportingsvc.NewService(mongoRepo, loc, baseLogger.Named("svc.reporting"))

	engine := router.New(router.Handlers{
		TimeTracking: handlers.NewTimeTrackingHandler(trackingSvc, baseLogger.Named("handlers.timetracking")),
		System:       handlers.NewSystemHandler(trackingSvc, cfg.MongoDB, baseLogger.Named("handlers.system")),
		Admin:        handlers.NewAdminHandler(trackingSvc, reportingSvc, baseLogger.Named("handlers.admin")),
	}, cfg.Server, baseLogger.Named("router"))

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(startupCtx, cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		writer := sheets.NewTimesheetWriter(sheetsRepo, cfg.Sheets.Range, loc, baseLogger.Named("repo.sheets.timesheet"))

		sched := scheduler.NewScheduler(cfg.Reporting, reportingSvc, writer, baseLogger.Named("scheduler"))
		if err := sched.Start(); err != nil {
			baseLogger.Fatal("failed to start scheduler", zap.Error(err))
		}
		defer sched.Stop()
	} else {
		baseLogger.Info("google sheets not configured, timesheet export disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port), zap.String("timezone", loc.String()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
