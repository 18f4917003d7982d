//go:build integration

// Package integration 提供基于 testcontainers-go 的集成测试环境
package integration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/database"
)

const (
	postgresImage = "postgres:15-alpine"
	redisImage    = "redis:7-alpine"
	dbName        = "hotel_revenue_test"
	dbUser        = "revenue"
	dbPassword    = "revenue_password"
)

// Environment 集成测试使用的 Postgres 与 Redis 容器
type Environment struct {
	postgres *tcPostgres.PostgresContainer
	redis    *tcRedis.RedisContainer

	DB    *gorm.DB
	Redis *redis.Client
}

// Start 启动容器并完成数据库迁移
func Start(ctx context.Context) (*Environment, error) {
	env := &Environment{}

	pg, err := tcPostgres.Run(ctx, postgresImage,
		tcPostgres.WithDatabase(dbName),
		tcPostgres.WithUsername(dbUser),
		tcPostgres.WithPassword(dbPassword),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres: %w", err)
	}
	env.postgres = pg

	host, err := pg.Host(ctx)
	if err != nil {
		return env, fmt.Errorf("postgres host: %w", err)
	}
	port, err := pg.MappedPort(ctx, "5432")
	if err != nil {
		return env, fmt.Errorf("postgres port: %w", err)
	}

	env.DB, err = database.Init(&config.DatabaseConfig{
		Driver:      "postgres",
		Host:        host,
		Port:        port.Int(),
		User:        dbUser,
		Password:    dbPassword,
		Name:        dbName,
		SSLMode:     "disable",
		Timezone:    "UTC",
		AutoMigrate: true,
	})
	if err != nil {
		return env, err
	}

	rc, err := tcRedis.Run(ctx, redisImage,
		testcontainers.WithWaitStrategy(
			wait.ForLog("Ready to accept connections").WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return env, fmt.Errorf("start redis: %w", err)
	}
	env.redis = rc

	uri, err := rc.ConnectionString(ctx)
	if err != nil {
		return env, fmt.Errorf("redis connection string: %w", err)
	}
	opts, err := redis.ParseURL(uri)
	if err != nil {
		return env, fmt.Errorf("parse redis url: %w", err)
	}
	env.Redis = redis.NewClient(opts)
	if err := env.Redis.Ping(ctx).Err(); err != nil {
		return env, fmt.Errorf("ping redis: %w", err)
	}

	return env, nil
}

// Close 关闭连接并销毁容器
func (e *Environment) Close(ctx context.Context) error {
	var errs []error
	if e.Redis != nil {
		errs = append(errs, e.Redis.Close())
	}
	if e.DB != nil {
		errs = append(errs, database.Close())
	}
	if e.redis != nil {
		errs = append(errs, e.redis.Terminate(ctx))
	}
	if e.postgres != nil {
		errs = append(errs, e.postgres.Terminate(ctx))
	}
	return errors.Join(errs...)
}
