// Package importer 从 Excel 导入营收明细
package importer

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/report"
)

// Excel 列名
const (
	ColumnChannel    = "统计渠道"
	ColumnDate       = "营业日"
	ColumnFeeType    = "房费科目"
	ColumnRoomNights = "间夜数"
	ColumnRevenue    = "房费"
	ColumnGuest      = "客人"
)

// RequiredColumns 导入必需的列
var RequiredColumns = []string{ColumnChannel, ColumnDate, ColumnFeeType, ColumnRoomNights, ColumnRevenue}

// maxRowErrors 结果中最多返回的失败行数
const maxRowErrors = 100

// RowError 导入失败的行，Row 为 Excel 中的行号
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// Result 导入结果
type Result struct {
	Total    int        `json:"total"`
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Failed   int        `json:"failed"`
	Revenue  float64    `json:"revenue"`
	Errors   []RowError `json:"errors"`
}

// Service Excel 导入服务
type Service struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewService 创建导入服务
func NewService(db *gorm.DB, m *metrics.Metrics) *Service {
	return &Service{db: db, metrics: m}
}

// Import 解析并导入 .xlsx 文件，已存在的订单号跳过，整个导入在一个事务内完成
func (s *Service) Import(ctx context.Context, filename string, r io.Reader) (*Result, error) {
	if !strings.EqualFold(filepath.Ext(filename), ".xlsx") {
		return nil, commonErrors.ErrImportFormat
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, commonErrors.ErrImportFormat.WithError(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, commonErrors.ErrImportEmpty
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, commonErrors.ErrImportFormat.WithError(err)
	}
	if len(rows) == 0 {
		return nil, commonErrors.ErrImportEmpty
	}

	cols, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := &Result{Errors: []RowError{}}
	candidates := make([]*models.DailyRevenue, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if isBlank(row) {
			continue
		}
		result.Total++

		rec, reason := parseRow(row, cols, i)
		if reason != "" {
			result.fail(i+2, reason)
			continue
		}
		candidates = append(candidates, rec)
	}
	if result.Total == 0 {
		return nil, commonErrors.ErrImportEmpty
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repository.NewRevenueRepository(tx)

		ids := make([]string, len(candidates))
		for i, c := range candidates {
			ids[i] = c.OrderID
		}
		existing, err := repo.ExistingOrderIDs(ctx, ids)
		if err != nil {
			return err
		}

		fresh := candidates[:0]
		for _, c := range candidates {
			if _, ok := existing[c.OrderID]; ok {
				result.Skipped++
				continue
			}
			fresh = append(fresh, c)
		}
		if err := repo.CreateBatch(ctx, fresh); err != nil {
			return err
		}

		total := decimal.Zero
		for _, c := range fresh {
			total = total.Add(c.Revenue)
		}
		result.Imported = len(fresh)
		result.Revenue = utils.Money(total)
		return nil
	})
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}

	s.metrics.RecordImportRows("imported", result.Imported)
	s.metrics.RecordImportRows("skipped", result.Skipped)
	s.metrics.RecordImportRows("failed", result.Failed)

	logger.WithContext(ctx).Info("excel imported",
		zap.String("file", filename),
		zap.Int("total", result.Total),
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

func (r *Result) fail(row int, reason string) {
	r.Failed++
	if len(r.Errors) < maxRowErrors {
		r.Errors = append(r.Errors, RowError{Row: row, Reason: reason})
	}
}

// headerIndex 返回列名到列下标的映射
func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		name := strings.TrimSpace(h)
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	var missing []string
	for _, c := range RequiredColumns {
		if _, ok := cols[c]; !ok {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, commonErrors.ErrImportMissingColumn.WithMessage("Excel 缺少必要的列: " + strings.Join(missing, ", "))
	}
	return cols, nil
}

// parseRow 解析一行数据，index 为数据行的 0 起始序号，用于生成订单号
func parseRow(row []string, cols map[string]int, index int) (*models.DailyRevenue, string) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	channel := cell(ColumnChannel)
	if channel == "" {
		return nil, "统计渠道为空"
	}
	feeType := cell(ColumnFeeType)
	if feeType == "" {
		return nil, "房费科目为空"
	}
	rawDate := cell(ColumnDate)
	if rawDate == "" {
		return nil, "营业日为空"
	}
	date, err := ParseCellDate(rawDate)
	if err != nil {
		return nil, fmt.Sprintf("营业日格式无法识别: %s", rawDate)
	}

	nights := utils.ParseDecimal(cell(ColumnRoomNights))
	if !report.CountsRoomNights(feeType) {
		nights = decimal.Zero
	}

	return &models.DailyRevenue{
		RecordDate: date,
		Channel:    channel,
		FeeType:    feeType,
		RoomNights: nights,
		Revenue:    utils.ParseDecimal(cell(ColumnRevenue)),
		GuestName:  cell(ColumnGuest),
		OrderID:    fmt.Sprintf("%s_%s_%d", channel, utils.FormatDate(date), index),
	}, ""
}

// ParseCellDate 解析日期单元格，支持文本日期和 Excel 序列号
func ParseCellDate(raw string) (time.Time, error) {
	if t, err := utils.ParseDate(raw); err == nil {
		return t, nil
	}

	serial, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || serial < 1 || serial > 2958465 {
		return time.Time{}, fmt.Errorf("invalid date cell %q", raw)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, err
	}
	return utils.TruncateDay(t), nil
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
