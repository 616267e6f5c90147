package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/emstack/ems-api/api/swagger"
	"github.com/emstack/ems-api/internal/handler"
	"github.com/emstack/ems-api/internal/middleware"
	"github.com/emstack/ems-api/internal/repository"
	"github.com/emstack/ems-api/internal/service"
	"github.com/emstack/ems-api/pkg/cache"
	"github.com/emstack/ems-api/pkg/config"
	"github.com/emstack/ems-api/pkg/database"
	"github.com/emstack/ems-api/pkg/logger"
	corsmiddleware "github.com/emstack/ems-api/pkg/middleware/cors"
	reqidmiddleware "github.com/emstack/ems-api/pkg/middleware/requestid"
	"github.com/emstack/ems-api/pkg/storage"
)

// @title EMS API
// @version 1.0.0
// @description Employee management system API
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Bootstrap(db); err != nil {
		logr.Sugar().Fatalw("failed to bootstrap schema", "error", err)
	}

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Warn("redis unavailable, caching disabled", zap.Error(err))
		redisClient = nil
	}

	store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init report storage", "error", err)
	}

	validate := validator.New()

	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	leaveRepo := repository.NewLeaveRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	metricsSvc := service.NewMetricsService()
	repository.SetQueryObserver(metricsSvc.ObserveDBQuery)
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.SummaryTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	employeeSvc := service.NewEmployeeService(employeeRepo, validate, logr)
	departmentSvc := service.NewDepartmentService(departmentRepo, employeeRepo, validate, logr)
	attendanceSvc := service.NewAttendanceService(attendanceRepo, employeeRepo, validate, logr)
	leaveSvc := service.NewLeaveService(leaveRepo, employeeRepo, validate, logr)
	payrollSvc := service.NewPayrollService(payrollRepo, employeeRepo, validate, logr)
	performanceSvc := service.NewPerformanceService(reviewRepo, employeeRepo, validate, logr)
	reportSvc := service.NewReportService(employeeSvc, departmentSvc, attendanceSvc, leaveSvc, payrollSvc, performanceSvc, store, logr)
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "ems-api",
	})

	if err := authSvc.EnsureAdmin(context.Background(), cfg.Admin.Email, cfg.Admin.Password); err != nil {
		logr.Sugar().Fatalw("failed to seed admin user", "error", err)
	}

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	registerRoutes(r, cfg, routeHandlers{
		auth:        handler.NewAuthHandler(authSvc),
		employees:   handler.NewEmployeeHandler(employeeSvc),
		departments: handler.NewDepartmentHandler(departmentSvc),
		attendance:  handler.NewAttendanceHandler(attendanceSvc),
		leaves:      handler.NewLeaveHandler(leaveSvc),
		payrolls:    handler.NewPayrollHandler(payrollSvc),
		performance: handler.NewPerformanceHandler(performanceSvc),
		reports:     handler.NewReportHandler(reportSvc),
		metrics:     metricsHandler,
	}, authSvc, cacheSvc)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
