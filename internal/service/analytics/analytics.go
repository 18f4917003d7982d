// Package analytics 提供白名单化的结构化营收分析查询
package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/report"
)

// 分析维度
const (
	DimensionDate      = "record_date"
	DimensionMonth     = "month"
	DimensionChannel   = "channel"
	DimensionFeeType   = "fee_type"
	DimensionDayOfWeek = "day_of_week"
)

// 分析指标
const (
	MetricRevenue    = "revenue"
	MetricRoomNights = "room_nights"
	MetricAvgPrice   = "avg_price"
)

// 图表类型
const (
	ChartBar     = "bar"
	ChartLine    = "line"
	ChartPie     = "pie"
	ChartHeatmap = "heatmap"
	ChartCombo   = "combo"
)

var dimensionLabels = map[string]string{
	DimensionDate:      "日期",
	DimensionMonth:     "月份",
	DimensionChannel:   "销售渠道",
	DimensionFeeType:   "房费科目",
	DimensionDayOfWeek: "星期",
}

var metricLabels = map[string]string{
	MetricRevenue:    "收入 (元)",
	MetricRoomNights: "间夜数",
	MetricAvgPrice:   "平均房价 (元)",
}

var chartTypes = map[string]struct{}{
	ChartBar: {}, ChartLine: {}, ChartPie: {}, ChartHeatmap: {}, ChartCombo: {},
}

// Aggregator 提供分组汇总数据
type Aggregator interface {
	Aggregate(ctx context.Context, q repository.AggregateQuery) ([]models.RevenueAggregate, error)
}

// Query 分析查询
type Query struct {
	Dimension         string   `json:"dimension" binding:"required" example:"channel"`
	Metrics           []string `json:"metrics" example:"revenue,room_nights"`
	StartDate         string   `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate           string   `json:"end_date" binding:"required" example:"2024-01-31"`
	ChartType         string   `json:"chart_type" example:"bar"`
	Channels          []string `json:"channels"`
	NormalizeChannels bool     `json:"normalize_channels"`
}

// Row 结果行，Values 只包含查询的指标
type Row struct {
	Key        string             `json:"key"`
	Label      string             `json:"label"`
	Values     map[string]float64 `json:"values"`
	Percentage float64            `json:"percentage,omitempty"`
}

// Visualization 图表描述
type Visualization struct {
	ChartType   string   `json:"chart_type"`
	Title       string   `json:"title"`
	XAxisLabel  string   `json:"x_axis_label"`
	YAxisLabel  string   `json:"y_axis_label"`
	Y2AxisLabel string   `json:"y2_axis_label,omitempty"`
	Series      []string `json:"series"`
}

// Result 查询结果
type Result struct {
	Dimension     string             `json:"dimension"`
	Metrics       []string           `json:"metrics"`
	DateRange     string             `json:"date_range"`
	Rows          []Row              `json:"rows"`
	Totals        map[string]float64 `json:"totals"`
	Visualization Visualization      `json:"visualization"`
}

// Service 分析服务
type Service struct {
	source Aggregator
}

// NewService 创建分析服务
func NewService(source Aggregator) *Service {
	return &Service{source: source}
}

type acc struct {
	revenue, room, nights decimal.Decimal
}

func (a *acc) add(r models.RevenueAggregate) {
	a.revenue = a.revenue.Add(r.Revenue)
	if report.ClassifyFee(r.FeeType) == report.FeeAccommodation {
		a.room = a.room.Add(r.Revenue)
		if r.RoomNights.IsPositive() {
			a.nights = a.nights.Add(r.RoomNights)
		}
	}
}

func (a *acc) value(metric string) float64 {
	switch metric {
	case MetricRevenue:
		return utils.Money(a.revenue)
	case MetricRoomNights:
		return utils.Money(a.nights)
	case MetricAvgPrice:
		return utils.Money(utils.SafeDiv(a.room, a.nights))
	}
	return 0
}

// Run 执行分析查询
func (s *Service) Run(ctx context.Context, q *Query) (*Result, error) {
	start, end, err := q.validate()
	if err != nil {
		return nil, err
	}

	aq := repository.AggregateQuery{Start: start, End: end}
	if !q.NormalizeChannels {
		aq.Channels = q.Channels
	}
	rows, err := s.source.Aggregate(ctx, aq)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}

	var allowed map[string]struct{}
	if q.NormalizeChannels && len(q.Channels) > 0 {
		allowed = make(map[string]struct{})
		for _, c := range report.NormalizeChannels(q.Channels) {
			allowed[c] = struct{}{}
		}
	}

	groups := make(map[string]*acc)
	var total acc
	for _, r := range rows {
		if q.NormalizeChannels {
			r.Channel = report.NormalizeChannel(r.Channel)
			if allowed != nil {
				if _, ok := allowed[r.Channel]; !ok {
					continue
				}
			}
		}
		key := groupKey(q.Dimension, r)
		g, ok := groups[key]
		if !ok {
			g = &acc{}
			groups[key] = g
		}
		g.add(r)
		total.add(r)
	}

	res := &Result{
		Dimension: q.Dimension,
		Metrics:   q.Metrics,
		DateRange: utils.FormatDateRange(start, end),
		Rows:      q.buildRows(groups),
		Totals:    make(map[string]float64, len(q.Metrics)),
	}
	for _, m := range q.Metrics {
		res.Totals[m] = total.value(m)
	}
	if q.ChartType == ChartPie {
		addPercentages(res.Rows, q.Metrics[0])
	}
	res.Visualization = q.visualization()

	logger.WithContext(ctx).Debug("analytics query",
		zap.String("dimension", q.Dimension),
		zap.Strings("metrics", q.Metrics),
		zap.Int("rows", len(res.Rows)),
	)
	return res, nil
}

func (q *Query) validate() (time.Time, time.Time, error) {
	if _, ok := dimensionLabels[q.Dimension]; !ok {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidDimension
	}
	if len(q.Metrics) == 0 {
		q.Metrics = []string{MetricRevenue}
	}
	q.Metrics = utils.Unique(q.Metrics)
	for _, m := range q.Metrics {
		if _, ok := metricLabels[m]; !ok {
			return time.Time{}, time.Time{}, commonErrors.ErrInvalidMetric.WithMessage("不支持的分析指标: " + m)
		}
	}
	if q.ChartType == "" {
		q.ChartType = ChartBar
	}
	if _, ok := chartTypes[q.ChartType]; !ok {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidParams.WithMessage("不支持的图表类型")
	}

	start, err := utils.ParseDate(q.StartDate)
	if err != nil {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidParams.WithMessage("无效的开始日期格式")
	}
	end, err := utils.ParseDate(q.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidParams.WithMessage("无效的结束日期格式")
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidRange
	}
	if utils.DaysInclusive(start, end) > report.MaxRangeDays {
		return time.Time{}, time.Time{}, commonErrors.ErrInvalidRange.WithMessage("查询区间过长")
	}
	return start, end, nil
}

func groupKey(dimension string, r models.RevenueAggregate) string {
	switch dimension {
	case DimensionDate:
		return utils.FormatDate(r.RecordDate)
	case DimensionMonth:
		return r.RecordDate.Format("2006-01")
	case DimensionChannel:
		return r.Channel
	case DimensionFeeType:
		return r.FeeType
	case DimensionDayOfWeek:
		return report.WeekdayName(report.ISOWeekday(r.RecordDate))
	}
	return ""
}

func (q *Query) buildRows(groups map[string]*acc) []Row {
	row := func(key string, a *acc) Row {
		values := make(map[string]float64, len(q.Metrics))
		for _, m := range q.Metrics {
			values[m] = a.value(m)
		}
		return Row{Key: key, Label: key, Values: values}
	}

	var rows []Row
	switch q.Dimension {
	case DimensionDayOfWeek:
		rows = make([]Row, 0, 7)
		for _, name := range report.WeekdayNames() {
			a, ok := groups[name]
			if !ok {
				a = &acc{}
			}
			rows = append(rows, row(name, a))
		}
		return rows
	case DimensionDate, DimensionMonth:
		rows = make([]Row, 0, len(groups))
		for k, a := range groups {
			rows = append(rows, row(k, a))
		}
		sort.Slice(rows, func(i, j int) bool { return rows[i].Key < rows[j].Key })
		if q.Dimension == DimensionDate {
			for i := range rows {
				if t, err := utils.ParseDate(rows[i].Key); err == nil {
					rows[i].Label = t.Format("01-02")
				}
			}
		}
		return rows
	default:
		rows = make([]Row, 0, len(groups))
		for k, a := range groups {
			rows = append(rows, row(k, a))
		}
		primary := q.Metrics[0]
		sort.Slice(rows, func(i, j int) bool {
			vi, vj := rows[i].Values[primary], rows[j].Values[primary]
			if vi != vj {
				return vi > vj
			}
			return rows[i].Key < rows[j].Key
		})
		return rows
	}
}

// addPercentages 饼图按第一个指标计算占比
func addPercentages(rows []Row, metric string) {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(r.Values[metric]))
	}
	if !total.IsPositive() {
		return
	}
	for i := range rows {
		v := decimal.NewFromFloat(rows[i].Values[metric])
		rows[i].Percentage = utils.Money(v.Mul(decimal.NewFromInt(100)).Div(total))
	}
}

func (q *Query) visualization() Visualization {
	v := Visualization{
		ChartType:  q.ChartType,
		Title:      dimensionLabels[q.Dimension] + "分析",
		XAxisLabel: dimensionLabels[q.Dimension],
		YAxisLabel: metricLabels[q.Metrics[0]],
		Series:     make([]string, len(q.Metrics)),
	}
	for i, m := range q.Metrics {
		v.Series[i] = metricLabels[m]
	}
	if q.ChartType == ChartCombo && len(q.Metrics) > 1 {
		v.Y2AxisLabel = metricLabels[q.Metrics[1]]
	}
	return v
}
