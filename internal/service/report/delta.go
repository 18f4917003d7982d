package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
)

// Delta 环比变化
type Delta struct {
	Current  float64 `json:"current"`
	Previous float64 `json:"previous"`
	Absolute float64 `json:"absolute"`
	Percent  float64 `json:"percent"`
}

// Compare 计算当前值相对上期值的变化，上期值不为正时百分比为 0
func Compare(current, previous float64) Delta {
	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(previous)
	abs := cur.Sub(prev)

	return Delta{
		Current:  current,
		Previous: previous,
		Absolute: utils.Money(abs),
		Percent:  PercentChange(current, previous, 2),
	}
}

// PercentChange 变化百分比，保留 places 位小数，上期值不为正时为 0
func PercentChange(current, previous float64, places int32) float64 {
	prev := decimal.NewFromFloat(previous)
	if !prev.IsPositive() {
		return 0
	}
	abs := decimal.NewFromFloat(current).Sub(prev)
	v, _ := abs.Mul(hundred).DivRound(prev, 8).Round(places).Float64()
	return v
}

// TotalsComparison 区间合计的环比
type TotalsComparison struct {
	TotalRevenue  Delta `json:"total_revenue"`
	RoomRevenue   Delta `json:"room_revenue"`
	HourlyRevenue Delta `json:"hourly_revenue"`
	RoomNights    Delta `json:"room_nights"`
	AvgDailyRate  Delta `json:"avg_daily_rate"`
	OccupancyRate Delta `json:"occupancy_rate"`
	RevPAR        Delta `json:"revpar"`
}

// ChannelComparison 单个渠道的环比
type ChannelComparison struct {
	Channel               string `json:"channel"`
	TotalRevenue          Delta  `json:"total_revenue"`
	RoomRevenue           Delta  `json:"room_revenue"`
	RoomNights            Delta  `json:"room_nights"`
	AvgDailyRate          Delta  `json:"avg_daily_rate"`
	OccupancyContribution Delta  `json:"occupancy_contribution"`
	RevPARContribution    Delta  `json:"revpar_contribution"`
}

// Comparison 本期与上期的对比
type Comparison struct {
	PreviousDateRange string              `json:"previous_date_range"`
	Totals            TotalsComparison    `json:"totals"`
	Channels          []ChannelComparison `json:"channels"`
}

// PreviousPeriod 返回紧邻 [start, end] 之前、等长的区间
func PreviousPeriod(start, end time.Time) (time.Time, time.Time) {
	start = utils.TruncateDay(start)
	end = utils.TruncateDay(end)
	days := utils.DaysInclusive(start, end)
	prevEnd := start.AddDate(0, 0, -1)
	return prevEnd.AddDate(0, 0, -(days - 1)), prevEnd
}

// ComparePeriods 对比两个区间的聚合结果，prev 为 nil 时按全 0 处理
func ComparePeriods(cur, prev *Aggregation) Comparison {
	if prev == nil {
		prev = &Aggregation{}
	}
	c, p := cur.Summary, prev.Summary

	out := Comparison{
		PreviousDateRange: p.DateRange,
		Totals: TotalsComparison{
			TotalRevenue:  Compare(c.TotalRevenue, p.TotalRevenue),
			RoomRevenue:   Compare(c.RoomRevenue, p.RoomRevenue),
			HourlyRevenue: Compare(c.HourlyRevenue, p.HourlyRevenue),
			RoomNights:    Compare(c.RoomNights, p.RoomNights),
			AvgDailyRate:  Compare(c.AvgDailyRate, p.AvgDailyRate),
			OccupancyRate: Compare(c.OccupancyRate, p.OccupancyRate),
			RevPAR:        Compare(c.RevPAR, p.RevPAR),
		},
	}

	names := make([]string, 0, len(cur.Channels)+len(prev.Channels))
	seen := make(map[string]struct{}, len(cur.Channels))
	for _, ch := range cur.Channels {
		names = append(names, ch.Channel)
		seen[ch.Channel] = struct{}{}
	}
	for _, ch := range prev.Channels {
		if _, ok := seen[ch.Channel]; !ok {
			names = append(names, ch.Channel)
		}
	}

	out.Channels = make([]ChannelComparison, 0, len(names))
	for _, name := range names {
		cc, _ := cur.Channel(name)
		pc, _ := prev.Channel(name)
		out.Channels = append(out.Channels, ChannelComparison{
			Channel:               name,
			TotalRevenue:          Compare(cc.TotalRevenue, pc.TotalRevenue),
			RoomRevenue:           Compare(cc.RoomRevenue, pc.RoomRevenue),
			RoomNights:            Compare(cc.RoomNights, pc.RoomNights),
			AvgDailyRate:          Compare(cc.AvgDailyRate, pc.AvgDailyRate),
			OccupancyContribution: Compare(cc.OccupancyContribution, pc.OccupancyContribution),
			RevPARContribution:    Compare(cc.RevPARContribution, pc.RevPARContribution),
		})
	}
	return out
}
