package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/sekolahdev/presensi-api/api/swagger"
	"github.com/sekolahdev/presensi-api/internal/handler"
	"github.com/sekolahdev/presensi-api/internal/middleware"
	"github.com/sekolahdev/presensi-api/internal/repository"
	"github.com/sekolahdev/presensi-api/internal/service"
	"github.com/sekolahdev/presensi-api/pkg/cache"
	"github.com/sekolahdev/presensi-api/pkg/clock"
	"github.com/sekolahdev/presensi-api/pkg/config"
	"github.com/sekolahdev/presensi-api/pkg/database"
	"github.com/sekolahdev/presensi-api/pkg/jobs"
	"github.com/sekolahdev/presensi-api/pkg/logger"
	corsmiddleware "github.com/sekolahdev/presensi-api/pkg/middleware/cors"
	reqidmiddleware "github.com/sekolahdev/presensi-api/pkg/middleware/requestid"
)

// @title Presensi API
// @version 1.0.0
// @description Fingerprint attendance core: scan ingestion, rule resolution, leave reconciliation
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, rule caching and notifications disabled", "error", err)
		redisClient = nil
	}

	metricsSvc := service.NewMetricsService()
	sysClock := clock.System{}

	ruleRepo := repository.NewRuleRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	directoryRepo := repository.NewDirectoryRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	ruleSvc, err := service.NewRuleService(ruleRepo, cacheRepo, cfg.Attendance, cfg.Rules.CacheTTL, logr, metricsSvc)
	if err != nil {
		logr.Sugar().Fatalw("invalid default attendance windows", "error", err)
	}
	scanSvc := service.NewScanService(directoryRepo, attendanceRepo, ruleSvc, nil, sysClock, logr, metricsSvc)
	leaveSvc := service.NewLeaveService(leaveRepo, directoryRepo, nil, logr, metricsSvc)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, logr)
	notifierSvc := service.NewNotifierService(redisClient, cfg.Notifications.Channel, cfg.Notifications.Enabled, logr)
	sweepSvc, err := service.NewSweepService(attendanceRepo, sysClock, cfg.Sweep, logr, metricsSvc)
	if err != nil {
		logr.Sugar().Fatalw("invalid sweep configuration", "error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sweepQueue := jobs.NewQueue("absent-sweep", sweepSvc.HandleJob, jobs.QueueConfig{
		Workers: cfg.Sweep.Workers,
		Logger:  logr,
	})
	sweepQueue.Start(ctx)
	defer sweepQueue.Stop()
	sweepQueue.EnqueueEvery(ctx, cfg.Sweep.TickInterval, jobs.Job{Type: "absent-sweep"})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/metrics", metricsHandler.Scrape)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	scanHandler := handler.NewScanHandler(scanSvc, notifierSvc)
	leaveHandler := handler.NewLeaveHandler(leaveSvc)
	attendanceHandler := handler.NewAttendanceHandler(attendanceSvc)
	jobHandler := handler.NewJobHandler(sweepSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.POST("/scans", middleware.DeviceToken(cfg.DeviceAuth.Secret), scanHandler.Ingest)
		api.POST("/leaves", leaveHandler.Submit)
		api.GET("/leaves", leaveHandler.List)
		api.GET("/attendance", attendanceHandler.List)
		api.POST("/jobs/absent-sweep", jobHandler.AbsentSweep)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
