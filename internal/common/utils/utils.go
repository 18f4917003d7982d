// Package utils 提供通用工具函数
package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout 统一的日期格式
const DateLayout = "2006-01-02"

// dateLayouts 解析日期时依次尝试的格式
var dateLayouts = []string{
	DateLayout,
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-1-2",
	"2006/1/2",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"01-02-06",
}

// TruncateDay 去掉时分秒，返回当天 UTC 零点
func TruncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today 当前日期（本地时区的日历日）
func Today() time.Time {
	return TruncateDay(time.Now())
}

// ParseDate 解析日期，支持常见的几种写法
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return TruncateDay(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// FormatDate 格式化为 2006-01-02
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// FormatDateRange 格式化日期区间，例如 2024.01.01 - 2024.01.07
func FormatDateRange(start, end time.Time) string {
	return start.Format("2006.01.02") + " - " + end.Format("2006.01.02")
}

// DaysInclusive 返回闭区间 [start, end] 的天数，end 早于 start 时返回值 <= 0
func DaysInclusive(start, end time.Time) int {
	return int(TruncateDay(end).Sub(TruncateDay(start)).Hours()/24) + 1
}

// MonthRange 返回某年某月的第一天和最后一天
func MonthRange(year int, month time.Month) (time.Time, time.Time) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return first, first.AddDate(0, 1, -1)
}

// WeekStart 返回所在周的周一
func WeekStart(t time.Time) time.Time {
	t = TruncateDay(t)
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// Round 按小数位四舍五入
func Round(f float64, places int32) float64 {
	v, _ := decimal.NewFromFloat(f).Round(places).Float64()
	return v
}

// Money 把 decimal 金额转为保留两位小数的 float64
func Money(d decimal.Decimal) float64 {
	v, _ := d.Round(2).Float64()
	return v
}

// SafeDiv 安全除法，分母为 0 时返回 0
func SafeDiv(num, den decimal.Decimal) decimal.Decimal {
	if den.IsZero() {
		return decimal.Zero
	}
	return num.DivRound(den, 8)
}

// ParseDecimal 解析数值，无法解析时返回 0
func ParseDecimal(s string) decimal.Decimal {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil {
			return decimal.NewFromFloat(f)
		}
		return decimal.Zero
	}
	return d
}

// Contains 判断切片是否包含元素
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// Unique 切片去重，保持首次出现的顺序
func Unique[T comparable](slice []T) []T {
	seen := make(map[T]struct{}, len(slice))
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if _, ok := seen[v]; !ok {
			seen[v] = struct{}{}
			result = append(result, v)
		}
	}
	return result
}

// 分页默认值
const (
	DefaultLimit = 20
	MaxLimit     = 1000
)

// Pagination 偏移量分页参数
type Pagination struct {
	Offset int `json:"offset" form:"offset"`
	Limit  int `json:"limit" form:"limit"`
}

// Normalize 规范化分页参数，maxLimit <= 0 时使用 MaxLimit
func (p *Pagination) Normalize(defaultLimit, maxLimit int) {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = DefaultLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Limit < 1 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
}
