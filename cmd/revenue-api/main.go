// Package main 是应用程序入口
//
// @title 酒店营收周报 API
// @version 1.0
// @description 酒店每日营收记录、周报、看板与数据管理后台
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/cache"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/crypto"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/database"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/tracing"
	"github.com/dumeirei/hotel-revenue-backend/internal/scheduler"
)

const version = "1.0.0"

func main() {
	configPath := flag.String("config", "", "配置文件路径，默认查找 ./configs/config.yaml")
	hashPassword := flag.String("hash-password", "", "输出密码的 bcrypt 哈希后退出，用于填写 admin.password_hash")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *hashPassword != "" {
		hash, err := crypto.HashPassword(*hashPassword, cfg.Admin.BcryptCost)
		if err != nil {
			fmt.Printf("Failed to hash password: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(hash)
		return
	}

	// 初始化日志
	if err := logger.Init(&cfg.Logger); err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	log := logger.GetLogger()

	log.Info("Starting Hotel Revenue Backend",
		zap.String("version", version),
		zap.String("env", cfg.Server.Mode),
		zap.String("hotel", cfg.Hotel.Name),
		zap.Int("total_rooms", cfg.Hotel.TotalRooms),
	)
	if cfg.Admin.PasswordHash == "" {
		log.Warn("admin.password_hash is empty, admin login is disabled")
	}

	// 金额以数字而不是字符串输出
	decimal.MarshalJSONWithoutQuotes = true

	tracer, err := tracing.Init(&tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: version,
		Environment:    cfg.Server.Mode,
		Endpoint:       cfg.Tracing.Endpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
	})
	if err != nil {
		log.Fatal("Failed to init tracing", zap.Error(err))
	}

	// 初始化数据库连接
	db, err := database.Init(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	log.Info("Database connected successfully", zap.String("driver", cfg.Database.Driver))

	// Redis 不可用时不做登录锁定、令牌注销和限流
	var redisClient *redis.Client
	if client, err := cache.Init(&cfg.Redis); err != nil {
		log.Warn("Redis unavailable, running without lockout and rate limiting", zap.Error(err))
	} else {
		redisClient = client
		log.Info("Redis connected successfully")
	}

	// 设置 Gin 模式
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	m := metrics.Init("hotel_revenue")

	engine := gin.New()
	app := setupRouter(engine, cfg, log, db, redisClient, m)

	sched := scheduler.NewScheduler(log)
	if cfg.Scheduler.Enabled {
		scheduler.NewTaskHandler(app.records).RegisterTasks(sched, &cfg.Scheduler)
		sched.Start()
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		sched.Stop()
	}
	if err := tracer.Shutdown(ctx); err != nil {
		log.Warn("Tracer shutdown failed", zap.Error(err))
	}
	if err := cache.Close(); err != nil {
		log.Warn("Redis close failed", zap.Error(err))
	}
	if err := database.Close(); err != nil {
		log.Warn("Database close failed", zap.Error(err))
	}

	log.Info("Server exited")
}
