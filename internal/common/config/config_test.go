// Package config 配置管理单元测试
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithDefaultValues(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "hotel-revenue-backend", cfg.Server.Name)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 29, cfg.Hotel.TotalRooms)
	assert.Equal(t, DefaultExpectedChannels, cfg.Hotel.ExpectedChannels)
	assert.Equal(t, 7, cfg.Hotel.ReportDefaultDays)
	assert.Empty(t, cfg.Server.TrustedProxies)
}

func TestLoadFromFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  name: "revenue-test"
  mode: "release"
  port: 9000
  trusted_proxies: ["10.0.0.0/8", "127.0.0.1"]
database:
  driver: "sqlite"
  sqlite_path: "/tmp/revenue.db"
hotel:
  total_rooms: 40
  expected_channels: ["携程", "美团", "飞猪", "抖音来客", "散客", "会员", "协议"]
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	cfg, err := load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "revenue-test", cfg.Server.Name)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.True(t, cfg.IsRelease())
	assert.Equal(t, 40, cfg.Hotel.TotalRooms)
	assert.Len(t, cfg.Hotel.ExpectedChannels, 7)
	assert.Equal(t, "/tmp/revenue.db", cfg.Database.DSN())
	// 未覆盖的字段保持默认值
	assert.Equal(t, 5, cfg.Admin.MaxLoginAttempts)
}

func TestLoad_TotalRoomsEnvAlias(t *testing.T) {
	t.Setenv("TOTAL_ROOMS", "35")

	cfg, err := load("")
	require.NoError(t, err)
	assert.Equal(t, 35, cfg.Hotel.TotalRooms)
}

func TestLoad_InvalidFile(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("server: [unclosed"), 0644))

	_, err := load(configPath)
	assert.Error(t, err)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	cfg1 := Get()
	cfg2 := Get()
	assert.Same(t, cfg1, cfg2)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	tests := []struct {
		name   string
		config DatabaseConfig
		want   string
	}{
		{
			name: "postgres",
			config: DatabaseConfig{
				Driver:   "postgres",
				Host:     "localhost",
				Port:     5432,
				User:     "postgres",
				Password: "secret",
				Name:     "hotel_revenue",
				SSLMode:  "disable",
				Timezone: "Asia/Shanghai",
			},
			want: "host=localhost port=5432 user=postgres password=secret dbname=hotel_revenue sslmode=disable TimeZone=Asia/Shanghai",
		},
		{
			name:   "sqlite",
			config: DatabaseConfig{Driver: "sqlite", SQLitePath: "./data/hotel_revenue.db"},
			want:   "./data/hotel_revenue.db",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.config.DSN())
		})
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := RedisConfig{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestDurations(t *testing.T) {
	jwtCfg := JWTConfig{AccessTokenExpire: 12}
	assert.Equal(t, 12*time.Hour, jwtCfg.AccessTokenDuration())

	adminCfg := AdminConfig{LockoutMinutes: 15}
	assert.Equal(t, 15*time.Minute, adminCfg.LockoutDuration())

	schedCfg := SchedulerConfig{RecordStatsInterval: 300}
	assert.Equal(t, 5*time.Minute, schedCfg.RecordStatsDuration())

	importCfg := ImportConfig{MaxUploadMB: 16}
	assert.Equal(t, int64(16<<20), importCfg.MaxUploadBytes())
}

func TestConfig_Mode(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Mode: "debug"}}
	assert.True(t, cfg.IsDebug())
	assert.False(t, cfg.IsRelease())
}
