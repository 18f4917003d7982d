package revenue

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
)

func setupService(t *testing.T) (*Service, *repository.RevenueRepository) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(models.AllModels()...))

	repo := repository.NewRevenueRepository(db)
	return NewService(repo), repo
}

func request(date, channel, fee string, nights, revenue float64) *RecordRequest {
	return &RecordRequest{
		RecordDate: date,
		Channel:    channel,
		FeeType:    fee,
		RoomNights: decimal.NewFromFloat(nights),
		Revenue:    decimal.NewFromFloat(revenue),
	}
}

func TestService_Create(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	rec, err := svc.Create(ctx, request("2024-01-08", " 携程 ", "房费", 2, 456))
	require.NoError(t, err)
	assert.Equal(t, "携程", rec.Channel)
	assert.Empty(t, rec.OrderID)

	t.Run("重复记录", func(t *testing.T) {
		_, err := svc.Create(ctx, request("2024/01/08", "携程", "房费", 1, 10))
		assert.ErrorIs(t, err, commonErrors.ErrRecordDuplicate)
	})

	t.Run("不同科目不算重复", func(t *testing.T) {
		_, err := svc.Create(ctx, request("2024-01-08", "携程", "加收全天", 0, 60))
		assert.NoError(t, err)
	})

	t.Run("校验", func(t *testing.T) {
		cases := map[string]*RecordRequest{
			"缺少渠道":  request("2024-01-09", " ", "房费", 1, 1),
			"缺少科目":  request("2024-01-09", "携程", "", 1, 1),
			"日期错误":  request("2024-13-40", "携程", "房费", 1, 1),
			"间夜数为负": request("2024-01-09", "携程", "房费", -1, 1),
		}
		for name, req := range cases {
			t.Run(name, func(t *testing.T) {
				_, err := svc.Create(ctx, req)
				assert.ErrorIs(t, err, commonErrors.ErrRecordInvalid)
			})
		}
	})

	t.Run("收入允许为负", func(t *testing.T) {
		_, err := svc.Create(ctx, request("2024-01-09", "美团", "调整房费", 0, -30))
		assert.NoError(t, err)
	})
}

func TestService_UpdateAndDelete(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	a, err := svc.Create(ctx, request("2024-01-08", "携程", "房费", 2, 400))
	require.NoError(t, err)
	b, err := svc.Create(ctx, request("2024-01-09", "携程", "房费", 1, 200))
	require.NoError(t, err)

	updated, err := svc.Update(ctx, a.ID, request("2024-01-08", "携程", "房费", 3, 600))
	require.NoError(t, err, "与自身相同的键不算重复")
	assert.True(t, updated.Revenue.Equal(decimal.NewFromInt(600)))

	_, err = svc.Update(ctx, b.ID, request("2024-01-08", "携程", "房费", 1, 1))
	assert.ErrorIs(t, err, commonErrors.ErrRecordDuplicate)

	_, err = svc.Update(ctx, 999, request("2024-01-10", "携程", "房费", 1, 1))
	assert.ErrorIs(t, err, commonErrors.ErrRecordNotFound)

	require.NoError(t, svc.Delete(ctx, b.ID))
	assert.ErrorIs(t, svc.Delete(ctx, b.ID), commonErrors.ErrRecordNotFound)

	_, err = svc.Get(ctx, b.ID)
	assert.ErrorIs(t, err, commonErrors.ErrRecordNotFound)
}

func TestService_View(t *testing.T) {
	svc, _ := setupService(t)
	ctx := context.Background()

	for _, req := range []*RecordRequest{
		request("2023-12-31", "携程", "房费", 1, 100),
		request("2024-01-05", "携程", "房费", 2, 300.5),
		request("2024-01-06", "美团", "房费", 1, 99.5),
		request("2024-03-01", "美团", "房费", 1, 120),
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	view, err := svc.View(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "2024年1月", view.DisplayPeriod)
	assert.Len(t, view.Records, 2)
	assert.Equal(t, []int{2024, 2023}, view.AvailableYears)
	assert.Equal(t, []int{1, 3}, view.AvailableMonths)
	assert.Equal(t, PeriodTotals{Records: 2, RoomNights: 3, Revenue: 400}, view.Totals)

	view, err = svc.View(ctx, 2024, 0)
	require.NoError(t, err)
	assert.Equal(t, "2024年全年", view.DisplayPeriod)
	assert.Len(t, view.Records, 3)

	_, err = svc.View(ctx, 2024, 13)
	assert.ErrorIs(t, err, commonErrors.ErrInvalidParams)
}
