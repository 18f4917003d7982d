package report

import (
	"time"

	"github.com/shopspring/decimal"
)

// Record 参与聚合的营收记录
type Record struct {
	Date       time.Time
	Channel    string
	FeeType    string
	RoomNights decimal.Decimal
	Revenue    decimal.Decimal
}

// Params 聚合参数
type Params struct {
	StartDate        time.Time
	EndDate          time.Time
	TotalRooms       int
	ExpectedChannels []string
}

// PeriodSummary 区间汇总
type PeriodSummary struct {
	DateRange     string  `json:"date_range"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	NumDays       int     `json:"num_days"`
	TotalRooms    int     `json:"total_rooms"`
	Records       int     `json:"records"`
	TotalRevenue  float64 `json:"total_revenue"`
	RoomRevenue   float64 `json:"room_revenue"`
	HourlyRevenue float64 `json:"hourly_revenue"`
	OtherRevenue  float64 `json:"other_revenue"`
	GrossRevenue  float64 `json:"gross_revenue"`
	RoomNights    float64 `json:"room_nights"`
	AvgDailyRate  float64 `json:"avg_daily_rate"`
	OccupancyRate float64 `json:"occupancy_rate"`
	RevPAR        float64 `json:"revpar"`
}

// ChannelSummary 渠道汇总
type ChannelSummary struct {
	Channel               string  `json:"channel"`
	RoomRevenue           float64 `json:"room_revenue"`
	HourlyRevenue         float64 `json:"hourly_revenue"`
	TotalRevenue          float64 `json:"total_revenue"`
	RoomNights            float64 `json:"room_nights"`
	RevenuePercent        float64 `json:"revenue_percent"`
	RoomNightsPercent     float64 `json:"room_nights_percent"`
	AvgDailyRate          float64 `json:"avg_daily_rate"`
	OccupancyContribution float64 `json:"occupancy_contribution"`
	RevPARContribution    float64 `json:"revpar_contribution"`
}

// DaySummary 按星期汇总，周一到周日固定 7 行
type DaySummary struct {
	Weekday       int     `json:"weekday"`
	DayName       string  `json:"day_name"`
	Occurrences   int     `json:"occurrences"`
	RoomRevenue   float64 `json:"room_revenue"`
	HourlyRevenue float64 `json:"hourly_revenue"`
	TotalRevenue  float64 `json:"total_revenue"`
	RoomNights    float64 `json:"room_nights"`
	AvgDailyRate  float64 `json:"avg_daily_rate"`
	OccupancyRate float64 `json:"occupancy_rate"`
	RevPAR        float64 `json:"revpar"`
}

// DailyPoint 按日历日的趋势数据
type DailyPoint struct {
	Date          string  `json:"date"`
	Label         string  `json:"label"`
	DayName       string  `json:"day_name"`
	ShortDayName  string  `json:"short_day_name"`
	RoomRevenue   float64 `json:"room_revenue"`
	HourlyRevenue float64 `json:"hourly_revenue"`
	TotalRevenue  float64 `json:"total_revenue"`
	RoomNights    float64 `json:"room_nights"`
	AvgDailyRate  float64 `json:"avg_daily_rate"`
	OccupancyRate float64 `json:"occupancy_rate"`
	RevPAR        float64 `json:"revpar"`
}

// TrendPoint 渠道每日数据
type TrendPoint struct {
	Date         string  `json:"date"`
	Label        string  `json:"label"`
	RoomNights   float64 `json:"room_nights"`
	Revenue      float64 `json:"revenue"`
	AvgDailyRate float64 `json:"avg_daily_rate"`
}

// ChannelTrend 渠道每日趋势
type ChannelTrend struct {
	Channel string       `json:"channel"`
	Points  []TrendPoint `json:"points"`
}

// FeeTypeSummary 科目汇总
type FeeTypeSummary struct {
	FeeType        string      `json:"fee_type"`
	Category       FeeCategory `json:"category"`
	CategoryLabel  string      `json:"category_label"`
	Records        int         `json:"records"`
	Revenue        float64     `json:"revenue"`
	RoomNights     float64     `json:"room_nights"`
	RevenuePercent float64     `json:"revenue_percent"`
}

// DetailRow 明细行，渠道为标准化后的名称
type DetailRow struct {
	Date       string      `json:"date"`
	DayName    string      `json:"day_name"`
	Channel    string      `json:"channel"`
	RawChannel string      `json:"raw_channel"`
	FeeType    string      `json:"fee_type"`
	Category   FeeCategory `json:"category"`
	RoomNights float64     `json:"room_nights"`
	Revenue    float64     `json:"revenue"`
}

// Aggregation 单个区间的聚合结果
type Aggregation struct {
	StartDate     time.Time
	EndDate       time.Time
	Summary       PeriodSummary
	Channels      []ChannelSummary
	Weekdays      []DaySummary
	Daily         []DailyPoint
	ChannelTrends []ChannelTrend
	FeeTypes      []FeeTypeSummary
	Details       []DetailRow

	// 渠道 × 星期 交叉表的原始累计值，下标为 ISO 星期
	grid map[string]*[8]bucket
	// 区间合计的原始累计值
	total bucket
}

// Channel 按名称查找渠道汇总
func (a *Aggregation) Channel(name string) (ChannelSummary, bool) {
	for _, ch := range a.Channels {
		if ch.Channel == name {
			return ch, true
		}
	}
	return ChannelSummary{}, false
}
