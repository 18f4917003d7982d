package report

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
)

// MaxRangeDays 单次聚合允许的最大天数
const MaxRangeDays = 3660

var hundred = decimal.NewFromInt(100)

// bucket 累计值，住宿类计间夜，钟点类只计收入
type bucket struct {
	room   decimal.Decimal
	hourly decimal.Decimal
	other  decimal.Decimal
	nights decimal.Decimal
}

func (b *bucket) add(cat FeeCategory, nights, revenue decimal.Decimal) {
	switch cat {
	case FeeAccommodation:
		b.room = b.room.Add(revenue)
		b.nights = b.nights.Add(nights)
	case FeeHourly:
		b.hourly = b.hourly.Add(revenue)
	default:
		b.other = b.other.Add(revenue)
	}
}

// revenue 住宿 + 钟点，按两位小数分别取整后相加
func (b *bucket) revenue() decimal.Decimal {
	return b.room.Round(2).Add(b.hourly.Round(2))
}

func (b *bucket) gross() decimal.Decimal {
	return b.revenue().Add(b.other.Round(2))
}

type feeBucket struct {
	category FeeCategory
	records  int
	revenue  decimal.Decimal
	nights   decimal.Decimal
}

// Aggregate 聚合区间内的营收记录
func Aggregate(records []Record, p Params) (*Aggregation, error) {
	start := utils.TruncateDay(p.StartDate)
	end := utils.TruncateDay(p.EndDate)
	if end.Before(start) {
		return nil, errors.ErrInvalidRange
	}
	numDays := utils.DaysInclusive(start, end)
	if numDays <= 0 {
		return nil, errors.ErrInvalidRange
	}
	if numDays > MaxRangeDays {
		return nil, errors.ErrInvalidRange.WithMessage("查询区间过长")
	}
	if p.TotalRooms < 0 {
		return nil, errors.ErrInvalidRooms
	}

	b := &builder{
		start:    start,
		end:      end,
		numDays:  numDays,
		rooms:    p.TotalRooms,
		expected: NormalizeChannels(p.ExpectedChannels),
		channels: make(map[string]*bucket),
		days:     make([]bucket, numDays),
		trends:   make(map[string][]bucket),
		grid:     make(map[string]*[8]bucket),
		fees:     make(map[string]*feeBucket),
	}
	for _, r := range records {
		b.add(r)
	}
	return b.build(), nil
}

type builder struct {
	start, end time.Time
	numDays    int
	rooms      int
	expected   []string

	total    bucket
	records  int
	channels map[string]*bucket
	weekdays [8]bucket
	days     []bucket
	trends   map[string][]bucket
	grid     map[string]*[8]bucket
	fees     map[string]*feeBucket
	feeOrder []string
	details  []DetailRow
}

func (b *builder) add(r Record) {
	date := utils.TruncateDay(r.Date)
	if date.Before(b.start) || date.After(b.end) {
		return
	}
	b.records++

	channel := NormalizeChannel(r.Channel)
	feeType := strings.TrimSpace(r.FeeType)
	cat := ClassifyFee(feeType)

	nights := decimal.Zero
	if cat == FeeAccommodation && r.RoomNights.IsPositive() {
		nights = r.RoomNights
	}

	b.total.add(cat, nights, r.Revenue)

	wd := ISOWeekday(date)
	if cat != FeeOther {
		ch, ok := b.channels[channel]
		if !ok {
			ch = &bucket{}
			b.channels[channel] = ch
		}
		ch.add(cat, nights, r.Revenue)

		b.weekdays[wd].add(cat, nights, r.Revenue)

		idx := utils.DaysInclusive(b.start, date) - 1
		b.days[idx].add(cat, nights, r.Revenue)

		series, ok := b.trends[channel]
		if !ok {
			series = make([]bucket, b.numDays)
			b.trends[channel] = series
		}
		series[idx].add(cat, nights, r.Revenue)

		row, ok := b.grid[channel]
		if !ok {
			row = &[8]bucket{}
			b.grid[channel] = row
		}
		row[wd].add(cat, nights, r.Revenue)
	}

	fb, ok := b.fees[feeType]
	if !ok {
		fb = &feeBucket{category: cat}
		b.fees[feeType] = fb
		b.feeOrder = append(b.feeOrder, feeType)
	}
	fb.records++
	fb.revenue = fb.revenue.Add(r.Revenue)
	fb.nights = fb.nights.Add(nights)

	b.details = append(b.details, DetailRow{
		Date:       utils.FormatDate(date),
		DayName:    WeekdayName(wd),
		Channel:    channel,
		RawChannel: r.Channel,
		FeeType:    feeType,
		Category:   cat,
		RoomNights: utils.Money(nights),
		Revenue:    utils.Money(r.Revenue),
	})
}

func (b *builder) build() *Aggregation {
	agg := &Aggregation{
		StartDate: b.start,
		EndDate:   b.end,
		grid:      b.grid,
		total:     b.total,
	}

	agg.Summary = PeriodSummary{
		DateRange:     utils.FormatDateRange(b.start, b.end),
		StartDate:     utils.FormatDate(b.start),
		EndDate:       utils.FormatDate(b.end),
		NumDays:       b.numDays,
		TotalRooms:    b.rooms,
		Records:       b.records,
		TotalRevenue:  utils.Money(b.total.revenue()),
		RoomRevenue:   utils.Money(b.total.room),
		HourlyRevenue: utils.Money(b.total.hourly),
		OtherRevenue:  utils.Money(b.total.other),
		GrossRevenue:  utils.Money(b.total.gross()),
		RoomNights:    utils.Money(b.total.nights),
		AvgDailyRate:  avgDailyRate(b.total.room, b.total.nights),
		OccupancyRate: occupancy(b.total.nights, b.rooms, b.numDays),
		RevPAR:        revpar(b.total.revenue(), b.rooms, b.numDays),
	}

	order := b.channelOrder()
	agg.Channels = b.buildChannels(order)
	agg.Weekdays = b.buildWeekdays()
	agg.Daily = b.buildDaily()
	agg.ChannelTrends = b.buildTrends(agg.Channels)
	agg.FeeTypes = b.buildFeeTypes()

	sort.SliceStable(b.details, func(i, j int) bool {
		di, dj := b.details[i], b.details[j]
		if di.Date != dj.Date {
			return di.Date < dj.Date
		}
		if di.Channel != dj.Channel {
			return di.Channel < dj.Channel
		}
		return di.FeeType < dj.FeeType
	})
	agg.Details = b.details
	if agg.Details == nil {
		agg.Details = []DetailRow{}
	}

	return agg
}

// channelOrder 预期渠道在前（配置顺序），其余观测到的渠道按名称排序
func (b *builder) channelOrder() []string {
	order := make([]string, 0, len(b.expected)+len(b.channels))
	seen := make(map[string]struct{}, len(b.expected))
	for _, name := range b.expected {
		order = append(order, name)
		seen[name] = struct{}{}
	}
	var observed []string
	for name := range b.channels {
		if _, ok := seen[name]; !ok {
			observed = append(observed, name)
		}
	}
	sort.Strings(observed)
	return append(order, observed...)
}

func (b *builder) buildChannels(order []string) []ChannelSummary {
	type entry struct {
		summary ChannelSummary
		total   decimal.Decimal
	}
	entries := make([]entry, 0, len(order))
	for _, name := range order {
		acc := b.channels[name]
		if acc == nil {
			acc = &bucket{}
		}
		total := acc.revenue()
		entries = append(entries, entry{
			total: total,
			summary: ChannelSummary{
				Channel:               name,
				RoomRevenue:           utils.Money(acc.room),
				HourlyRevenue:         utils.Money(acc.hourly),
				TotalRevenue:          utils.Money(total),
				RoomNights:            utils.Money(acc.nights),
				RevenuePercent:        percentOf(acc.room, b.total.room),
				RoomNightsPercent:     percentOf(acc.nights, b.total.nights),
				AvgDailyRate:          avgDailyRate(acc.room, acc.nights),
				OccupancyContribution: occupancy(acc.nights, b.rooms, b.numDays),
				RevPARContribution:    revpar(total, b.rooms, b.numDays),
			},
		})
	}

	// 按合计收入降序；零收入渠道之间保持原顺序，负收入渠道排在其后
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].total.GreaterThan(entries[j].total)
	})

	out := make([]ChannelSummary, len(entries))
	for i, e := range entries {
		out[i] = e.summary
	}
	return out
}

func (b *builder) buildWeekdays() []DaySummary {
	var occurrences [8]int
	for i := 0; i < b.numDays; i++ {
		occurrences[ISOWeekday(b.start.AddDate(0, 0, i))]++
	}

	out := make([]DaySummary, 0, 7)
	for wd := 1; wd <= 7; wd++ {
		acc := b.weekdays[wd]
		out = append(out, DaySummary{
			Weekday:       wd,
			DayName:       WeekdayName(wd),
			Occurrences:   occurrences[wd],
			RoomRevenue:   utils.Money(acc.room),
			HourlyRevenue: utils.Money(acc.hourly),
			TotalRevenue:  utils.Money(acc.revenue()),
			RoomNights:    utils.Money(acc.nights),
			AvgDailyRate:  avgDailyRate(acc.room, acc.nights),
			OccupancyRate: occupancy(acc.nights, b.rooms, occurrences[wd]),
			RevPAR:        revpar(acc.revenue(), b.rooms, occurrences[wd]),
		})
	}
	return out
}

func (b *builder) buildDaily() []DailyPoint {
	out := make([]DailyPoint, 0, b.numDays)
	for i := 0; i < b.numDays; i++ {
		date := b.start.AddDate(0, 0, i)
		wd := ISOWeekday(date)
		acc := b.days[i]
		out = append(out, DailyPoint{
			Date:          utils.FormatDate(date),
			Label:         date.Format("01-02"),
			DayName:       WeekdayName(wd),
			ShortDayName:  WeekdayShortName(wd),
			RoomRevenue:   utils.Money(acc.room),
			HourlyRevenue: utils.Money(acc.hourly),
			TotalRevenue:  utils.Money(acc.revenue()),
			RoomNights:    utils.Money(acc.nights),
			AvgDailyRate:  avgDailyRate(acc.room, acc.nights),
			OccupancyRate: occupancy(acc.nights, b.rooms, 1),
			RevPAR:        revpar(acc.revenue(), b.rooms, 1),
		})
	}
	return out
}

func (b *builder) buildTrends(channels []ChannelSummary) []ChannelTrend {
	out := make([]ChannelTrend, 0, len(channels))
	for _, ch := range channels {
		series := b.trends[ch.Channel]
		points := make([]TrendPoint, 0, b.numDays)
		for i := 0; i < b.numDays; i++ {
			date := b.start.AddDate(0, 0, i)
			var acc bucket
			if series != nil {
				acc = series[i]
			}
			points = append(points, TrendPoint{
				Date:         utils.FormatDate(date),
				Label:        date.Format("01-02"),
				RoomNights:   utils.Money(acc.nights),
				Revenue:      utils.Money(acc.revenue()),
				AvgDailyRate: avgDailyRate(acc.room, acc.nights),
			})
		}
		out = append(out, ChannelTrend{Channel: ch.Channel, Points: points})
	}
	return out
}

func (b *builder) buildFeeTypes() []FeeTypeSummary {
	gross := b.total.gross()
	out := make([]FeeTypeSummary, 0, len(b.feeOrder))
	for _, name := range b.feeOrder {
		fb := b.fees[name]
		out = append(out, FeeTypeSummary{
			FeeType:        name,
			Category:       fb.category,
			CategoryLabel:  fb.category.Label(),
			Records:        fb.records,
			Revenue:        utils.Money(fb.revenue),
			RoomNights:     utils.Money(fb.nights),
			RevenuePercent: percentOf(fb.revenue, gross),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].FeeType < out[j].FeeType
	})
	return out
}

// avgDailyRate 平均房价 = 房费收入 / 间夜，间夜为 0 时返回 0
func avgDailyRate(room, nights decimal.Decimal) float64 {
	if !nights.IsPositive() {
		return 0
	}
	return utils.Money(utils.SafeDiv(room, nights))
}

// occupancy 出租率(%) = 间夜 / (房间数 × 天数) × 100
func occupancy(nights decimal.Decimal, rooms, days int) float64 {
	if rooms <= 0 || days <= 0 || !nights.IsPositive() {
		return 0
	}
	available := decimal.NewFromInt(int64(rooms) * int64(days))
	return utils.Money(utils.SafeDiv(nights.Mul(hundred), available))
}

// revpar 每间可售房收入 = 收入 / (房间数 × 天数)
func revpar(revenue decimal.Decimal, rooms, days int) float64 {
	if rooms <= 0 || days <= 0 {
		return 0
	}
	available := decimal.NewFromInt(int64(rooms) * int64(days))
	return utils.Money(utils.SafeDiv(revenue, available))
}

// percentOf 占比(%)，合计不为正时返回 0
func percentOf(part, whole decimal.Decimal) float64 {
	if !whole.IsPositive() {
		return 0
	}
	return utils.Money(utils.SafeDiv(part.Mul(hundred), whole))
}
