// Package database 数据库模块单元测试
package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
)

func swapDB(t *testing.T, conn *gorm.DB) {
	t.Helper()
	old := db
	db = conn
	t.Cleanup(func() { db = old })
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, getLogLevel(true))
	assert.Equal(t, gormlogger.Warn, getLogLevel(false))
}

func TestInit_SQLite(t *testing.T) {
	old := db
	t.Cleanup(func() { db = old })
	t.Cleanup(func() { _ = Close() })

	cfg := &config.DatabaseConfig{
		Driver:      "sqlite",
		SQLitePath:  filepath.Join(t.TempDir(), "revenue.db"),
		AutoMigrate: true,
	}
	conn, err := Init(cfg)
	require.NoError(t, err)
	assert.Equal(t, conn, GetDB())
	assert.True(t, conn.Migrator().HasTable(&models.DailyRevenue{}))
	assert.NoError(t, Ping(context.Background()))
}

func TestInit_InvalidDriver(t *testing.T) {
	_, err := Init(&config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)

	_, err = Init(&config.DatabaseConfig{Driver: "sqlite"})
	assert.Error(t, err, "sqlite 需要文件路径")
}

func TestPing_NotInitialized(t *testing.T) {
	swapDB(t, nil)
	assert.Error(t, Ping(context.Background()))
}

func TestPaginate(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type Item struct {
		ID int64
	}
	require.NoError(t, testDB.AutoMigrate(&Item{}))
	for i := 1; i <= 50; i++ {
		testDB.Create(&Item{ID: int64(i)})
	}

	tests := []struct {
		name         string
		offset       int
		limit        int
		expectedLen  int
		expectedFrom int64
	}{
		{"第一页", 0, 10, 10, 1},
		{"偏移 45", 45, 10, 5, 46},
		{"超出范围", 60, 10, 0, 0},
		{"负偏移按 0 处理", -5, 10, 10, 1},
		{"limit 为 0 使用默认值", 0, 0, 20, 1},
		{"limit 上限", 0, 5000, 50, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var results []Item
			testDB.Order("id").Scopes(Paginate(tt.offset, tt.limit)).Find(&results)
			assert.Len(t, results, tt.expectedLen)
			if tt.expectedLen > 0 {
				assert.Equal(t, tt.expectedFrom, results[0].ID)
			}
		})
	}
}

func TestOrderByDateDesc(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type Row struct {
		ID         int64
		RecordDate time.Time
	}
	require.NoError(t, testDB.AutoMigrate(&Row{}))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	testDB.Create(&Row{ID: 1, RecordDate: base})
	testDB.Create(&Row{ID: 2, RecordDate: base.AddDate(0, 0, 1)})
	testDB.Create(&Row{ID: 3, RecordDate: base})

	var results []Row
	testDB.Scopes(OrderByDateDesc).Find(&results)
	require.Len(t, results, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{results[0].ID, results[1].ID, results[2].ID})
}

func TestTransaction(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	type Counter struct {
		ID    int64
		Value int
	}
	require.NoError(t, testDB.AutoMigrate(&Counter{}))
	swapDB(t, testDB)

	t.Run("提交", func(t *testing.T) {
		err := Transaction(func(tx *gorm.DB) error {
			return tx.Create(&Counter{ID: 1, Value: 100}).Error
		})
		require.NoError(t, err)

		var c Counter
		testDB.First(&c, 1)
		assert.Equal(t, 100, c.Value)
	})

	t.Run("回滚", func(t *testing.T) {
		err := Transaction(func(tx *gorm.DB) error {
			tx.Create(&Counter{ID: 2, Value: 1})
			return assert.AnError
		})
		assert.Error(t, err)

		var count int64
		testDB.Model(&Counter{}).Where("id = ?", 2).Count(&count)
		assert.Equal(t, int64(0), count)
	})
}

func TestWithContext(t *testing.T) {
	testDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	swapDB(t, testDB)

	assert.NotNil(t, WithContext(context.Background()))
}
