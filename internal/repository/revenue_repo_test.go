// Package repository 营收记录仓储单元测试
package repository

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dumeirei/hotel-revenue-backend/internal/models"
)

// setupRevenueTestDB 创建营收测试数据库
func setupRevenueTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))
	return db
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createRevenue(t *testing.T, repo *RevenueRepository, d time.Time, channel, fee, orderID string, nights, revenue float64) *models.DailyRevenue {
	t.Helper()
	rec := &models.DailyRevenue{
		RecordDate: d,
		Channel:    channel,
		FeeType:    fee,
		OrderID:    orderID,
		RoomNights: decimal.NewFromFloat(nights),
		Revenue:    decimal.NewFromFloat(revenue),
	}
	require.NoError(t, repo.Create(context.Background(), rec))
	return rec
}

func TestRevenueRepository_CRUD(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	rec := createRevenue(t, repo, date(2024, 1, 3), "携程", "房费", "", 2, 456.5)
	require.NotZero(t, rec.ID)

	got, err := repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, "携程", got.Channel)
	assert.True(t, got.Revenue.Equal(decimal.NewFromFloat(456.5)))
	assert.Equal(t, date(2024, 1, 3), got.RecordDate.UTC())

	got.Revenue = decimal.NewFromInt(500)
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, rec.ID)
	require.NoError(t, err)
	assert.True(t, got.Revenue.Equal(decimal.NewFromInt(500)))

	n, err := repo.Delete(ctx, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = repo.GetByID(ctx, rec.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRevenueRepository_UniqueKey(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	rec := createRevenue(t, repo, date(2024, 1, 3), "携程", "房费", "", 1, 100)

	exists, err := repo.ExistsByKey(ctx, date(2024, 1, 3), "携程", "房费", 0)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByKey(ctx, date(2024, 1, 3), "携程", "房费", rec.ID)
	require.NoError(t, err)
	assert.False(t, exists, "排除自身")

	dup := &models.DailyRevenue{RecordDate: date(2024, 1, 3), Channel: "携程", FeeType: "房费"}
	assert.Error(t, repo.Create(ctx, dup), "唯一索引")

	createRevenue(t, repo, date(2024, 1, 3), "携程", "房费", "携程_2024-01-03_2", 1, 100)
	exists, err = repo.ExistsByOrderID(ctx, "携程_2024-01-03_2")
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.ExistingOrderIDs(ctx, []string{"携程_2024-01-03_2", "missing"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	assert.Contains(t, found, "携程_2024-01-03_2")
}

func TestRevenueRepository_FetchRecords(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	createRevenue(t, repo, date(2024, 1, 1), "携程", "房费", "a1", 1, 200)
	createRevenue(t, repo, date(2024, 1, 1), "携程", "房费", "a2", 2, 300.25)
	createRevenue(t, repo, date(2024, 1, 1), "美团", "加收全天", "", 0, 50)
	createRevenue(t, repo, date(2024, 1, 7), "美团", "房费", "", 1, 180)
	createRevenue(t, repo, date(2024, 1, 8), "美团", "房费", "", 1, 999)

	rows, err := repo.FetchRecords(ctx, date(2024, 1, 1), date(2024, 1, 7))
	require.NoError(t, err)
	require.Len(t, rows, 3, "同日同渠道同科目合并，区间外排除")

	first := rows[0]
	assert.Equal(t, "携程", first.Channel)
	assert.True(t, first.RoomNights.Equal(decimal.NewFromInt(3)))
	assert.True(t, first.Revenue.Equal(decimal.NewFromFloat(500.25)))

	t.Run("按渠道和科目过滤", func(t *testing.T) {
		rows, err := repo.Aggregate(ctx, AggregateQuery{
			Start:    date(2024, 1, 1),
			End:      date(2024, 1, 31),
			Channels: []string{"美团"},
			FeeTypes: []string{"房费"},
		})
		require.NoError(t, err)
		assert.Len(t, rows, 2)
		for _, r := range rows {
			assert.Equal(t, "美团", r.Channel)
		}
	})
}

func TestRevenueRepository_List(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	for d := 1; d <= 5; d++ {
		createRevenue(t, repo, date(2024, 3, d), "携程", "房费", "", 1, float64(100*d))
		createRevenue(t, repo, date(2024, 3, d), "美团", "房费", "", 1, float64(10*d))
	}
	guest := &models.DailyRevenue{RecordDate: date(2024, 3, 6), Channel: "散客", FeeType: "房费", GuestName: "张三", OrderID: "散客_2024-03-06_2"}
	require.NoError(t, repo.Create(ctx, guest))

	list, total, err := repo.List(ctx, RevenueFilter{}, 0, 4)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, list, 4)
	assert.Equal(t, date(2024, 3, 6), list[0].RecordDate.UTC(), "按日期倒序")

	start, end := date(2024, 3, 2), date(2024, 3, 3)
	list, total, err = repo.List(ctx, RevenueFilter{StartDate: &start, EndDate: &end, Channel: "美团"}, 0, 100)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, list, 2)

	list, _, err = repo.List(ctx, RevenueFilter{Keyword: "张"}, 0, 100)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "散客", list[0].Channel)

	all, err := repo.ListAll(ctx, RevenueFilter{FeeType: "房费"})
	require.NoError(t, err)
	assert.Len(t, all, 11)
}

func TestRevenueRepository_Periods(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	createRevenue(t, repo, date(2023, 12, 31), "携程", "房费", "", 1, 100)
	createRevenue(t, repo, date(2024, 1, 15), "携程", "房费", "", 2, 300)
	createRevenue(t, repo, date(2024, 1, 20), "美团", "钟点房费", "", 1, 80)
	createRevenue(t, repo, date(2024, 3, 2), "美团", "房费", "", 1, 120)

	years, err := repo.AvailableYears(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int{2024, 2023}, years)

	months, err := repo.AvailableMonths(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, months)

	months, err = repo.AvailableMonths(ctx, 2020)
	require.NoError(t, err)
	assert.Empty(t, months)

	list, err := repo.ListByPeriod(ctx, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Len(t, list, 2)

	totals, err := repo.SumByPeriod(ctx, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(2), totals.Records)
	assert.True(t, totals.Revenue.Equal(decimal.NewFromInt(380)))
	assert.True(t, totals.RoomNights.Equal(decimal.NewFromInt(3)))

	totals, err = repo.SumByPeriod(ctx, date(2025, 1, 1), date(2025, 1, 31))
	require.NoError(t, err)
	assert.Zero(t, totals.Records)
	assert.True(t, totals.Revenue.IsZero())
}

func TestRevenueRepository_Deletes(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	a := createRevenue(t, repo, date(2024, 1, 1), "携程", "房费", "", 1, 100)
	b := createRevenue(t, repo, date(2024, 1, 2), "携程", "房费", "", 1, 100)
	createRevenue(t, repo, date(2024, 1, 3), "携程", "房费", "", 1, 100)
	createRevenue(t, repo, date(2024, 1, 4), "携程", "房费", "", 1, 100)
	createRevenue(t, repo, date(2024, 2, 1), "携程", "房费", "", 1, 100)

	n, err := repo.DeleteBatch(ctx, []int64{a.ID, b.ID, 9999})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = repo.DeleteBatch(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = repo.DeleteByDateRange(ctx, date(2024, 1, 1), date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	n, err = repo.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRevenueRepository_Stats(t *testing.T) {
	repo := NewRevenueRepository(setupRevenueTestDB(t))
	ctx := context.Background()

	stats, err := repo.Stats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalRecords)
	assert.Nil(t, stats.EarliestDate)

	createRevenue(t, repo, date(2023, 12, 30), "携程", "房费", "", 1, 100)
	createRevenue(t, repo, date(2024, 1, 2), "美团", "房费", "", 2, 250.5)
	createRevenue(t, repo, date(2024, 1, 2), "美团", "加收全天", "", 0, 49.5)

	stats, err = repo.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalRecords)
	assert.Equal(t, 400.0, stats.TotalRevenue)
	assert.Equal(t, 3.0, stats.TotalNights)
	assert.Equal(t, int64(2), stats.ChannelCount)
	assert.Equal(t, int64(2), stats.FeeTypeCount)
	require.NotNil(t, stats.EarliestDate)
	assert.Equal(t, date(2023, 12, 30), stats.EarliestDate.UTC())
	assert.Equal(t, date(2024, 1, 2), stats.LatestDate.UTC())
	assert.Equal(t, map[string]int64{"2023": 1, "2024": 2}, stats.RecordsByYear)
}
