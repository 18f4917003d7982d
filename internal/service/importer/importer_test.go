package importer

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
)

func setupDB(t *testing.T) *gorm.DB {
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

// workbook 生成内存中的 xlsx，rows[0] 为表头
func workbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var header = []interface{}{"统计渠道", "营业日", "房费科目", "间夜数", "房费", "客人"}

func TestService_Import(t *testing.T) {
	db := setupDB(t)
	reg := prometheus.NewRegistry()
	svc := NewService(db, metrics.New("test", reg))
	ctx := context.Background()

	file := func() *bytes.Buffer {
		return workbook(t, [][]interface{}{
			header,
			{"携程", "2024-01-08", "房费", 2, 456.5, "张三"},
			{"美团", 45299, "加收全天", 1, 60, ""},
			{"飞猪", "2024/01/09", "手工输入房费", "3", "abc", ""},
			{},
			{"", "2024-01-09", "房费", 1, 100, ""},
			{"散客", "下周一", "房费", 1, 100, ""},
		})
	}

	res, err := svc.Import(ctx, "营收.xlsx", file())
	require.NoError(t, err)
	assert.Equal(t, 5, res.Total, "空行不计入")
	assert.Equal(t, 3, res.Imported)
	assert.Equal(t, 2, res.Failed)
	assert.Zero(t, res.Skipped)
	assert.Equal(t, 516.5, res.Revenue)
	require.Len(t, res.Errors, 2)
	assert.Equal(t, 6, res.Errors[0].Row)
	assert.Contains(t, res.Errors[0].Reason, "统计渠道")
	assert.Equal(t, 7, res.Errors[1].Row)

	var recs []models.DailyRevenue
	require.NoError(t, db.Order("id").Find(&recs).Error)
	require.Len(t, recs, 3)

	assert.Equal(t, "携程_2024-01-08_0", recs[0].OrderID)
	assert.Equal(t, "张三", recs[0].GuestName)
	assert.True(t, recs[0].RoomNights.Equal(decimal.NewFromInt(2)))

	assert.Equal(t, "美团_2024-01-08_1", recs[1].OrderID, "Excel 序列号日期")
	assert.True(t, recs[1].RoomNights.IsZero(), "加收全天不计间夜")

	assert.True(t, recs[2].RoomNights.IsZero())
	assert.True(t, recs[2].Revenue.IsZero(), "无法解析的数值按 0 处理")

	t.Run("重复导入全部跳过", func(t *testing.T) {
		res, err := svc.Import(ctx, "营收.XLSX", file())
		require.NoError(t, err)
		assert.Zero(t, res.Imported)
		assert.Equal(t, 3, res.Skipped)

		var count int64
		db.Model(&models.DailyRevenue{}).Count(&count)
		assert.Equal(t, int64(3), count)
	})

	t.Run("指标", func(t *testing.T) {
		expected := `
# HELP test_import_rows_total Total number of rows processed by Excel import
# TYPE test_import_rows_total counter
test_import_rows_total{result="failed"} 4
test_import_rows_total{result="imported"} 3
test_import_rows_total{result="skipped"} 3
`
		assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "test_import_rows_total"))
	})
}

func TestService_ImportErrors(t *testing.T) {
	svc := NewService(setupDB(t), nil)
	ctx := context.Background()

	t.Run("不支持 xls", func(t *testing.T) {
		_, err := svc.Import(ctx, "old.xls", strings.NewReader("whatever"))
		assert.ErrorIs(t, err, commonErrors.ErrImportFormat)
	})

	t.Run("不是 Excel 文件", func(t *testing.T) {
		_, err := svc.Import(ctx, "fake.xlsx", strings.NewReader("not a zip"))
		assert.ErrorIs(t, err, commonErrors.ErrImportFormat)
	})

	t.Run("缺少列", func(t *testing.T) {
		buf := workbook(t, [][]interface{}{{"统计渠道", "营业日", "房费"}, {"携程", "2024-01-08", 100}})
		_, err := svc.Import(ctx, "a.xlsx", buf)
		require.ErrorIs(t, err, commonErrors.ErrImportMissingColumn)
		assert.Contains(t, commonErrors.GetAppError(err).Message, "房费科目")
		assert.Contains(t, commonErrors.GetAppError(err).Message, "间夜数")
	})

	t.Run("只有表头", func(t *testing.T) {
		_, err := svc.Import(ctx, "a.xlsx", workbook(t, [][]interface{}{header}))
		assert.ErrorIs(t, err, commonErrors.ErrImportEmpty)
	})
}

func TestParseCellDate(t *testing.T) {
	for raw, want := range map[string]string{
		"2024-01-08":          "2024-01-08",
		"2024/01/08":          "2024-01-08",
		"2024.01.08":          "2024-01-08",
		"20240108":            "2024-01-08",
		"2024-01-08 13:45:00": "2024-01-08",
		"45299":               "2024-01-08",
		"45299.5":             "2024-01-08",
	} {
		t.Run(raw, func(t *testing.T) {
			d, err := ParseCellDate(raw)
			require.NoError(t, err)
			assert.Equal(t, want, d.Format("2006-01-02"))
		})
	}

	_, err := ParseCellDate("明天")
	assert.Error(t, err)
	_, err = ParseCellDate("0")
	assert.Error(t, err)
}
