package main

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/dumeirei/hotel-revenue-backend/docs"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/jwt"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	adminHandler "github.com/dumeirei/hotel-revenue-backend/internal/handler/admin"
	analyticsHandler "github.com/dumeirei/hotel-revenue-backend/internal/handler/analytics"
	dashboardHandler "github.com/dumeirei/hotel-revenue-backend/internal/handler/dashboard"
	reportHandler "github.com/dumeirei/hotel-revenue-backend/internal/handler/report"
	revenueHandler "github.com/dumeirei/hotel-revenue-backend/internal/handler/revenue"
	"github.com/dumeirei/hotel-revenue-backend/internal/middleware"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	adminService "github.com/dumeirei/hotel-revenue-backend/internal/service/admin"
	analyticsService "github.com/dumeirei/hotel-revenue-backend/internal/service/analytics"
	dashboardService "github.com/dumeirei/hotel-revenue-backend/internal/service/dashboard"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/export"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/importer"
	reportService "github.com/dumeirei/hotel-revenue-backend/internal/service/report"
	revenueService "github.com/dumeirei/hotel-revenue-backend/internal/service/revenue"
)

// application 路由装配后供 main 使用的服务
type application struct {
	records *adminService.RecordService
}

// setupRouter 设置路由
func setupRouter(
	r *gin.Engine,
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	redisClient *redis.Client,
	m *metrics.Metrics,
) *application {
	jwtManager := jwt.NewManager(&jwt.Config{
		Secret:           cfg.JWT.Secret,
		AccessExpireTime: cfg.JWT.AccessTokenDuration(),
		Issuer:           cfg.JWT.Issuer,
	})

	// 仓储
	revenueRepo := repository.NewRevenueRepository(db).WithMetrics(m)

	// 服务
	reportSvc := reportService.NewService(revenueRepo, cfg.Hotel.ExpectedChannels, m)
	revenueSvc := revenueService.NewService(revenueRepo)
	dashboardSvc := dashboardService.NewService(reportSvc, cfg.Hotel.TotalRooms)
	analyticsSvc := analyticsService.NewService(revenueRepo)
	exportSvc := export.NewService(revenueRepo)
	importSvc := importer.NewService(db, m)
	authSvc := adminService.NewAuthService(&cfg.Admin, jwtManager, redisClient, m)
	recordSvc := adminService.NewRecordService(revenueRepo, revenueSvc, m)

	// 处理器
	reportH := reportHandler.NewHandler(reportSvc, cfg.Hotel.TotalRooms, cfg.Hotel.ReportDefaultDays)
	revenueH := revenueHandler.NewHandler(revenueSvc)
	dashboardH := dashboardHandler.NewHandler(dashboardSvc)
	analyticsH := analyticsHandler.NewHandler(analyticsSvc)
	authH := adminHandler.NewAuthHandler(authSvc)
	importH := adminHandler.NewImportHandler(importSvc)
	recordH := adminHandler.NewRecordHandler(recordSvc, exportSvc, cfg.Admin.MaxListLimit)

	// 全局中间件
	r.Use(middleware.RequestID(logger))
	r.Use(middleware.Recovery(logger))
	// 未配置可信代理时 gin 也不读取代理头，ClientIP 即 TCP 对端
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Error("Invalid server.trusted_proxies, proxy headers are ignored", zap.Error(err))
	}
	r.Use(middleware.RealIP(cfg.Server.TrustedProxies))
	r.Use(middleware.SecureHeaders())
	if cfg.Tracing.Enabled {
		r.Use(middleware.Tracing(&middleware.TracingConfig{
			ServiceName: cfg.Tracing.ServiceName,
			SkipPaths:   []string{"/health", "/ping", "/ready", cfg.Metrics.Path},
		}))
	}
	r.Use(middleware.CORS(middleware.CORSFromConfig(&cfg.CORS)))
	r.Use(middleware.Logging(middleware.DefaultLoggingConfig(logger)))
	if cfg.Metrics.Enabled {
		r.Use(m.Middleware())
	}
	if cfg.RateLimit.Enabled {
		r.Use(middleware.IPRateLimit(redisClient, "api", cfg.RateLimit.RequestsPerMinute, time.Minute))
	}

	// 健康检查
	r.GET("/health", healthHandler)
	r.GET("/ping", pingHandler)
	r.GET("/ready", readyHandler(db, redisClient))
	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	oplog := middleware.NewOperationLogger(logger)

	v1 := r.Group("/api/v1")
	v1.Use(oplog.Log())
	{
		reports := v1.Group("/reports")
		reports.GET("/weekly", reportH.Weekly)
		reports.GET("/weekly/export", reportH.Export)

		revenues := v1.Group("/revenues")
		revenues.POST("", revenueH.Create)
		revenues.GET("/view", revenueH.View)
		revenues.GET("/:id", revenueH.Get)
		revenues.PUT("/:id", revenueH.Update)

		v1.GET("/dashboard", dashboardH.Get)
		v1.POST("/analytics/query", analyticsH.Query)
	}

	admin := v1.Group("/admin")
	{
		admin.POST("/login", authH.Login)

		authed := admin.Group("")
		authed.Use(middleware.AdminAuth(jwtManager, authSvc))
		{
			authed.POST("/logout", authH.Logout)
			authed.GET("/me", authH.Me)

			imports := []gin.HandlerFunc{middleware.RequestSizeLimiter(cfg.Import.MaxUploadBytes())}
			if cfg.RateLimit.Enabled {
				imports = append(imports, middleware.IPRateLimit(redisClient, "import", cfg.RateLimit.ImportPerMinute, time.Minute))
			}
			authed.POST("/imports", append(imports, importH.Import)...)

			authed.GET("/stats", recordH.Stats)
			authed.GET("/records", recordH.List)
			authed.GET("/records/export", recordH.Export)
			authed.GET("/records/:id", recordH.Get)
			authed.PUT("/records/:id", recordH.Update)
			authed.DELETE("/records/:id", recordH.Delete)
			authed.POST("/records/delete_batch", recordH.DeleteBatch)
			authed.POST("/records/delete_by_date_range", recordH.DeleteByDateRange)
			authed.POST("/records/clear_all", recordH.ClearAll)
		}
	}

	return &application{records: recordSvc}
}
