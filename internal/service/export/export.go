// Package export 导出营收记录和周报
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/xuri/excelize/v2"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/report"
)

// utf8BOM 让 Excel 正确识别 UTF-8 编码的 CSV
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// 周报工作表名称
const (
	SheetSummary  = "汇总"
	SheetChannels = "渠道"
	SheetWeekdays = "星期"
	SheetDaily    = "每日"
	SheetCrossTab = "交叉表"
	SheetDetails  = "明细"
)

// RecordLister 按条件读取全部记录
type RecordLister interface {
	ListAll(ctx context.Context, filter repository.RevenueFilter) ([]*models.DailyRevenue, error)
}

// Service 导出服务
type Service struct {
	records RecordLister
}

// NewService 创建导出服务
func NewService(records RecordLister) *Service {
	return &Service{records: records}
}

// CSVFilename 记录导出文件名
func CSVFilename(now time.Time) string {
	return "revenue_records_" + now.Format("20060102_150405") + ".csv"
}

// ReportFilename 周报导出文件名
func ReportFilename(doc *report.Document) string {
	return fmt.Sprintf("weekly_report_%s_%s.xlsx",
		compactDate(doc.StartDate), compactDate(doc.EndDate))
}

func compactDate(s string) string {
	t, err := utils.ParseDate(s)
	if err != nil {
		return s
	}
	return t.Format("20060102")
}

// RecordsCSV 把满足条件的记录写成带 BOM 的 CSV，返回写出的记录数
func (s *Service) RecordsCSV(ctx context.Context, filter repository.RevenueFilter, w io.Writer) (int, error) {
	recs, err := s.records.ListAll(ctx, filter)
	if err != nil {
		return 0, commonErrors.ErrDatabaseError.WithError(err)
	}

	if _, err := w.Write(utf8BOM); err != nil {
		return 0, commonErrors.ErrExportFailed.WithError(err)
	}
	cw := csv.NewWriter(w)
	_ = cw.Write([]string{"ID", "营业日", "统计渠道", "房费科目", "间夜数", "房费", "订单号", "客人", "创建时间"})
	for _, r := range recs {
		_ = cw.Write([]string{
			fmt.Sprintf("%d", r.ID),
			utils.FormatDate(r.RecordDate),
			r.Channel,
			r.FeeType,
			r.RoomNights.StringFixed(2),
			r.Revenue.StringFixed(2),
			r.OrderID,
			r.GuestName,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return 0, commonErrors.ErrExportFailed.WithError(err)
	}
	return len(recs), nil
}

// ReportXLSX 把周报写成多工作表的 Excel
func ReportXLSX(doc *report.Document, w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return commonErrors.ErrExportFailed.WithError(err)
	}

	sw := &sheetWriter{f: f, headerStyle: headerStyle}
	sw.summary(doc)
	sw.channels(doc)
	sw.weekdays(doc)
	sw.daily(doc)
	sw.crossTab(doc)
	sw.details(doc)
	if sw.err != nil {
		return commonErrors.ErrExportFailed.WithError(sw.err)
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return commonErrors.ErrExportFailed.WithError(err)
	}
	if idx, err := f.GetSheetIndex(SheetSummary); err == nil {
		f.SetActiveSheet(idx)
	}
	if _, err := f.WriteTo(w); err != nil {
		return commonErrors.ErrExportFailed.WithError(err)
	}
	return nil
}

// sheetWriter 按行写工作表，记录第一个错误
type sheetWriter struct {
	f           *excelize.File
	headerStyle int
	sheet       string
	row         int
	err         error
}

func (s *sheetWriter) newSheet(name string, header ...interface{}) {
	if s.err != nil {
		return
	}
	if _, s.err = s.f.NewSheet(name); s.err != nil {
		return
	}
	s.sheet, s.row = name, 0
	if len(header) > 0 {
		s.append(header...)
		s.err = s.f.SetRowStyle(name, 1, 1, s.headerStyle)
	}
}

func (s *sheetWriter) append(values ...interface{}) {
	if s.err != nil {
		return
	}
	s.row++
	cell, err := excelize.CoordinatesToCellName(1, s.row)
	if err != nil {
		s.err = err
		return
	}
	s.err = s.f.SetSheetRow(s.sheet, cell, &values)
}

func (s *sheetWriter) summary(doc *report.Document) {
	sum := doc.Summary
	cmp := doc.Comparison.Totals
	s.newSheet(SheetSummary, "指标", "本期", "上期", "变化", "变化率(%)")
	s.append("统计周期", doc.DateRange, doc.PreviousDateRange)
	s.append("房间总数", doc.TotalRooms)
	for _, m := range []struct {
		name string
		d    report.Delta
	}{
		{"总收入", cmp.TotalRevenue},
		{"房费收入", cmp.RoomRevenue},
		{"钟点收入", cmp.HourlyRevenue},
		{"间夜数", cmp.RoomNights},
		{"平均房价", cmp.AvgDailyRate},
		{"出租率(%)", cmp.OccupancyRate},
		{"RevPAR", cmp.RevPAR},
	} {
		s.append(m.name, m.d.Current, m.d.Previous, m.d.Absolute, m.d.Percent)
	}
	s.append("其他收入", sum.OtherRevenue)
	s.append("营业总额", sum.GrossRevenue)
}

func (s *sheetWriter) channels(doc *report.Document) {
	s.newSheet(SheetChannels, "渠道", "房费收入", "钟点收入", "总收入", "收入占比(%)",
		"间夜数", "间夜占比(%)", "平均房价", "出租率贡献(%)", "RevPAR贡献")
	for _, c := range doc.Channels {
		s.append(c.Channel, c.RoomRevenue, c.HourlyRevenue, c.TotalRevenue, c.RevenuePercent,
			c.RoomNights, c.RoomNightsPercent, c.AvgDailyRate, c.OccupancyContribution, c.RevPARContribution)
	}
}

func (s *sheetWriter) weekdays(doc *report.Document) {
	s.newSheet(SheetWeekdays, "星期", "天数", "房费收入", "钟点收入", "总收入", "间夜数", "平均房价", "出租率(%)", "RevPAR")
	for _, d := range doc.Weekdays {
		s.append(d.DayName, d.Occurrences, d.RoomRevenue, d.HourlyRevenue, d.TotalRevenue,
			d.RoomNights, d.AvgDailyRate, d.OccupancyRate, d.RevPAR)
	}
}

func (s *sheetWriter) daily(doc *report.Document) {
	s.newSheet(SheetDaily, "日期", "星期", "房费收入", "钟点收入", "总收入", "间夜数", "平均房价", "出租率(%)", "RevPAR")
	for _, d := range doc.Daily {
		s.append(d.Date, d.DayName, d.RoomRevenue, d.HourlyRevenue, d.TotalRevenue,
			d.RoomNights, d.AvgDailyRate, d.OccupancyRate, d.RevPAR)
	}
}

func (s *sheetWriter) crossTab(doc *report.Document) {
	ct := doc.CrossTab
	header := make([]interface{}, 0, len(ct.Columns)+1)
	header = append(header, "收入")
	for _, c := range ct.Columns {
		header = append(header, c)
	}
	rows := make([]report.CrossTabRow, 0, len(ct.Rows)+1)
	rows = append(rows, ct.Rows...)
	rows = append(rows, ct.Total)

	s.newSheet(SheetCrossTab, header...)
	for _, r := range rows {
		s.append(crossRow(r.Channel, r.Revenue)...)
	}

	s.append()
	nightsHeader := append([]interface{}{"间夜数"}, header[1:]...)
	s.append(nightsHeader...)
	if s.err == nil {
		s.err = s.f.SetRowStyle(s.sheet, s.row, s.row, s.headerStyle)
	}
	for _, r := range rows {
		s.append(crossRow(r.Channel, r.RoomNights)...)
	}
}

func crossRow(label string, values []float64) []interface{} {
	out := make([]interface{}, 0, len(values)+1)
	out = append(out, label)
	for _, v := range values {
		out = append(out, v)
	}
	return out
}

func (s *sheetWriter) details(doc *report.Document) {
	s.newSheet(SheetDetails, "日期", "星期", "渠道", "原始渠道", "房费科目", "分类", "间夜数", "房费")
	for _, d := range doc.Details {
		s.append(d.Date, d.DayName, d.Channel, d.RawChannel, d.FeeType, d.Category.Label(), d.RoomNights, d.Revenue)
	}
}
