// Package dashboard 提供首页经营看板
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/report"
)

// PeriodSource 提供单个区间的聚合结果
type PeriodSource interface {
	Period(ctx context.Context, start, end time.Time, totalRooms int) (*report.Aggregation, error)
}

// KPI 看板指标块，*_change 为相对对比区间的变化百分比（保留 1 位小数）
type KPI struct {
	DateRange        string  `json:"date_range"`
	CompareRange     string  `json:"compare_range"`
	Revenue          float64 `json:"revenue"`
	RoomNights       float64 `json:"room_nights"`
	AvgPrice         float64 `json:"avg_price"`
	OccupancyRate    float64 `json:"occupancy_rate"`
	RevPAR           float64 `json:"revpar"`
	RevenueChange    float64 `json:"revenue_change"`
	RoomNightsChange float64 `json:"room_nights_change"`
	AvgPriceChange   float64 `json:"avg_price_change"`
	OccupancyChange  float64 `json:"occupancy_rate_change"`
	RevPARChange     float64 `json:"revpar_change"`
}

// Dashboard 看板数据
type Dashboard struct {
	Today      string `json:"today"`
	TotalRooms int    `json:"total_rooms"`
	ThisWeek   KPI    `json:"this_week"`
	LastWeek   KPI    `json:"last_week"`
	ThisMonth  KPI    `json:"this_month"`
}

// Service 看板服务
type Service struct {
	source     PeriodSource
	totalRooms int
	now        func() time.Time
}

// NewService 创建看板服务
func NewService(source PeriodSource, totalRooms int) *Service {
	return &Service{source: source, totalRooms: totalRooms, now: time.Now}
}

type window struct {
	start, end time.Time
}

// Get 计算本周、上周、本月三组指标
func (s *Service) Get(ctx context.Context) (*Dashboard, error) {
	today := utils.TruncateDay(s.now())
	weekStart := utils.WeekStart(today)
	lastWeekStart := weekStart.AddDate(0, 0, -7)
	monthStart := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
	lastMonthStart, lastMonthEnd := utils.MonthRange(monthStart.AddDate(0, -1, 0).Year(), monthStart.AddDate(0, -1, 0).Month())

	windows := []window{
		{weekStart, today},
		{lastWeekStart, weekStart.AddDate(0, 0, -1)},
		{lastWeekStart.AddDate(0, 0, -7), lastWeekStart.AddDate(0, 0, -1)},
		{monthStart, today},
		{lastMonthStart, lastMonthEnd},
	}

	aggs := make([]*report.Aggregation, len(windows))
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range windows {
		i, w := i, w
		g.Go(func() error {
			agg, err := s.source.Period(gctx, w.start, w.end, s.totalRooms)
			if err != nil {
				return err
			}
			aggs[i] = agg
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Dashboard{
		Today:      utils.FormatDate(today),
		TotalRooms: s.totalRooms,
		ThisWeek:   buildKPI(aggs[0], aggs[1]),
		LastWeek:   buildKPI(aggs[1], aggs[2]),
		ThisMonth:  buildKPI(aggs[3], aggs[4]),
	}, nil
}

func buildKPI(cur, prev *report.Aggregation) KPI {
	c, p := cur.Summary, prev.Summary
	return KPI{
		DateRange:        c.DateRange,
		CompareRange:     p.DateRange,
		Revenue:          c.TotalRevenue,
		RoomNights:       c.RoomNights,
		AvgPrice:         c.AvgDailyRate,
		OccupancyRate:    c.OccupancyRate,
		RevPAR:           c.RevPAR,
		RevenueChange:    changePercent(c.TotalRevenue, p.TotalRevenue),
		RoomNightsChange: changePercent(c.RoomNights, p.RoomNights),
		AvgPriceChange:   changePercent(c.AvgDailyRate, p.AvgDailyRate),
		OccupancyChange:  changePercent(c.OccupancyRate, p.OccupancyRate),
		RevPARChange:     changePercent(c.RevPAR, p.RevPAR),
	}
}

// changePercent 看板的变化百分比保留 1 位小数
func changePercent(cur, prev float64) float64 {
	return report.PercentChange(cur, prev, 1)
}
