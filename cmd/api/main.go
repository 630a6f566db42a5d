package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/mentorlink/course-api/api/swagger"
	"github.com/mentorlink/course-api/internal/handler"
	"github.com/mentorlink/course-api/internal/middleware"
	"github.com/mentorlink/course-api/internal/models"
	"github.com/mentorlink/course-api/internal/repository"
	"github.com/mentorlink/course-api/internal/service"
	"github.com/mentorlink/course-api/pkg/cache"
	"github.com/mentorlink/course-api/pkg/config"
	"github.com/mentorlink/course-api/pkg/database"
	"github.com/mentorlink/course-api/pkg/jobs"
	"github.com/mentorlink/course-api/pkg/logger"
	corsmiddleware "github.com/mentorlink/course-api/pkg/middleware/cors"
	reqidmiddleware "github.com/mentorlink/course-api/pkg/middleware/requestid"
)

// @title MentorLink Course API
// @version 1.0.0
// @description Enrollment status engine and student dashboards
// @BasePath /api/v1
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, dashboard caching disabled", "error", err)
	} else {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		defer cacheRepo.Close() //nolint:errcheck
		cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Dashboard.CacheTTL, logr, cfg.Dashboard.CacheEnabled)
	}

	sessionRepo := repository.NewSessionRepository(db)
	statusRepo := repository.NewEnrollmentStatusRepository(db)
	itemRepo := repository.NewScheduleItemRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	validate := validator.New()

	statusSvc := service.NewStatusService(sessionRepo, statusRepo, cacheSvc, metricsSvc, logr)
	dashboardSvc := service.NewDashboardService(sessionRepo, statusRepo, cacheSvc, cfg.Dashboard.CacheTTL, logr)
	itemSvc := service.NewScheduleItemService(itemRepo, sessionRepo, statusSvc, logr)
	paymentSvc := service.NewPaymentService(paymentRepo, sessionRepo, statusSvc, validate, logr)
	exportSvc := service.NewExportService(statusRepo, sessionRepo, logr)

	recalcQueue := jobs.NewQueue("recalc", func(ctx context.Context, job jobs.Job) error {
		key, ok := job.Payload.(models.EnrollmentKey)
		if !ok {
			return fmt.Errorf("job %s: unexpected payload %T", job.ID, job.Payload)
		}
		_, err := statusSvc.RecalculateOne(ctx, key)
		return err
	}, jobs.QueueConfig{
		Workers:    cfg.Recalc.Workers,
		BufferSize: cfg.Recalc.QueueSize,
		MaxRetries: cfg.Recalc.MaxRetries,
		RetryDelay: cfg.Recalc.RetryDelay,
		Logger:     logr,
	})
	recalcQueue.Start(ctx)
	defer recalcQueue.Stop()

	go runPeriodicRecalculation(ctx, statusSvc, cfg.Recalc.Interval, logr)

	enrollmentHandler := handler.NewEnrollmentHandler(dashboardSvc, exportSvc)
	scheduleHandler := handler.NewScheduleHandler(dashboardSvc, itemSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	recalcHandler := handler.NewRecalculationHandler(statusSvc, recalcQueue)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.JWT(cfg.JWT.Secret), middleware.WithResponseMeta())
	{
		api.GET("/enrollments/ongoing", enrollmentHandler.Ongoing)
		api.GET("/enrollments/completed", enrollmentHandler.Completed)
		if cfg.Exports.Enabled {
			api.GET("/enrollments/export", enrollmentHandler.Export)
		}
		api.GET("/sessions/today", scheduleHandler.Today)

		api.PATCH("/schedule-items/:id/complete",
			middleware.RequireRoles(models.RoleMentor, models.RoleAdmin), scheduleHandler.CompleteItem)
		api.POST("/payments/:id/status",
			middleware.RequireRoles(models.RoleAdmin), paymentHandler.UpdateStatus)

		admin := api.Group("/recalculations", middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("", recalcHandler.RecalculateAll)
			admin.POST("/enrollment", recalcHandler.RecalculateEnrollment)
			admin.POST("/verify", recalcHandler.Verify)
		}
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("graceful shutdown failed", "error", err)
	}
}

// runPeriodicRecalculation repairs any enrollment a mutation notification
// missed by recomputing everything on a fixed interval.
func runPeriodicRecalculation(ctx context.Context, statusSvc *service.StatusService, interval time.Duration, logr *zap.Logger) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := statusSvc.RecalculateAll(ctx); err != nil {
				logr.Sugar().Errorw("periodic recalculation failed", "error", err)
			}
		}
	}
}
