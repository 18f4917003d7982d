package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
)

// TotalLabel 交叉表合计行/列的名称
const TotalLabel = "合计"

// CrossTabRow 交叉表中一个渠道的行，Revenue/RoomNights 依次为周一..周日和合计
type CrossTabRow struct {
	Channel    string    `json:"channel"`
	Revenue    []float64 `json:"revenue"`
	RoomNights []float64 `json:"room_nights"`
}

// CrossTab 渠道 × 星期 交叉表
type CrossTab struct {
	Columns []string      `json:"columns"`
	Rows    []CrossTabRow `json:"rows"`
	Total   CrossTabRow   `json:"total"`
}

// Document 周报文档
type Document struct {
	DateRange         string           `json:"date_range"`
	PreviousDateRange string           `json:"previous_date_range"`
	StartDate         string           `json:"start_date"`
	EndDate           string           `json:"end_date"`
	TotalRooms        int              `json:"total_rooms"`
	Summary           PeriodSummary    `json:"summary"`
	Channels          []ChannelSummary `json:"channels"`
	Weekdays          []DaySummary     `json:"weekdays"`
	Daily             []DailyPoint     `json:"daily"`
	ChannelTrends     []ChannelTrend   `json:"channel_trends"`
	FeeTypes          []FeeTypeSummary `json:"fee_types"`
	Details           []DetailRow      `json:"details"`
	Comparison        Comparison       `json:"comparison"`
	CrossTab          CrossTab         `json:"cross_tab"`
	GeneratedAt       time.Time        `json:"generated_at"`
}

// BuildReport 组装周报文档
func BuildReport(cur, prev *Aggregation) *Document {
	cmp := ComparePeriods(cur, prev)
	return &Document{
		DateRange:         cur.Summary.DateRange,
		PreviousDateRange: cmp.PreviousDateRange,
		StartDate:         cur.Summary.StartDate,
		EndDate:           cur.Summary.EndDate,
		TotalRooms:        cur.Summary.TotalRooms,
		Summary:           cur.Summary,
		Channels:          cur.Channels,
		Weekdays:          cur.Weekdays,
		Daily:             cur.Daily,
		ChannelTrends:     cur.ChannelTrends,
		FeeTypes:          cur.FeeTypes,
		Details:           cur.Details,
		Comparison:        cmp,
		CrossTab:          buildCrossTab(cur),
		GeneratedAt:       time.Now(),
	}
}

func buildCrossTab(agg *Aggregation) CrossTab {
	columns := append(WeekdayNames(), TotalLabel)

	var colRevenue, colNights [8]decimal.Decimal
	rows := make([]CrossTabRow, 0, len(agg.Channels))
	for _, ch := range agg.Channels {
		var cells [8]bucket
		if g := agg.grid[ch.Channel]; g != nil {
			cells = *g
		}
		row := CrossTabRow{
			Channel:    ch.Channel,
			Revenue:    make([]float64, 8),
			RoomNights: make([]float64, 8),
		}
		rowRevenue, rowNights := decimal.Zero, decimal.Zero
		for wd := 1; wd <= 7; wd++ {
			rev := cells[wd].revenue()
			row.Revenue[wd-1] = utils.Money(rev)
			row.RoomNights[wd-1] = utils.Money(cells[wd].nights)
			rowRevenue = rowRevenue.Add(rev)
			rowNights = rowNights.Add(cells[wd].nights)
			colRevenue[wd] = colRevenue[wd].Add(rev)
			colNights[wd] = colNights[wd].Add(cells[wd].nights)
		}
		row.Revenue[7] = utils.Money(rowRevenue)
		row.RoomNights[7] = utils.Money(rowNights)
		rows = append(rows, row)
	}

	total := CrossTabRow{
		Channel:    TotalLabel,
		Revenue:    make([]float64, 8),
		RoomNights: make([]float64, 8),
	}
	for wd := 1; wd <= 7; wd++ {
		total.Revenue[wd-1] = utils.Money(colRevenue[wd])
		total.RoomNights[wd-1] = utils.Money(colNights[wd])
	}
	total.Revenue[7] = utils.Money(agg.total.revenue())
	total.RoomNights[7] = utils.Money(agg.total.nights)

	return CrossTab{Columns: columns, Rows: rows, Total: total}
}
