package report

import "time"

// 按 ISO 星期（周一=1 … 周日=7）索引，下标 0 不使用
var (
	weekdayNames      = [8]string{"", "星期一", "星期二", "星期三", "星期四", "星期五", "星期六", "星期日"}
	weekdayShortNames = [8]string{"", "一", "二", "三", "四", "五", "六", "日"}
)

// ISOWeekday 返回 ISO 星期序号
func ISOWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// WeekdayName 星期名称，如 星期一
func WeekdayName(isoWeekday int) string {
	if isoWeekday < 1 || isoWeekday > 7 {
		return ""
	}
	return weekdayNames[isoWeekday]
}

// WeekdayShortName 星期简称，如 一
func WeekdayShortName(isoWeekday int) string {
	if isoWeekday < 1 || isoWeekday > 7 {
		return ""
	}
	return weekdayShortNames[isoWeekday]
}

// WeekdayNames 周一到周日的名称
func WeekdayNames() []string {
	names := make([]string, 7)
	copy(names, weekdayNames[1:])
	return names
}
