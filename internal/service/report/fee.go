package report

import "strings"

// FeeCategory 房费科目分类
type FeeCategory string

const (
	// FeeAccommodation 计入间夜和平均房价
	FeeAccommodation FeeCategory = "accommodation"
	// FeeHourly 钟点/全天加收，只计收入
	FeeHourly FeeCategory = "hourly"
	// FeeOther 其他科目，不参与出租率相关计算
	FeeOther FeeCategory = "other"
)

// 房费科目
const (
	FeeTypeRoom       = "房费"
	FeeTypeManualRoom = "手工输入房费"
	FeeTypeAdjustRoom = "调整房费"
	FeeTypeFullDay    = "加收全天"
)

var feeCategories = map[string]FeeCategory{
	FeeTypeRoom:       FeeAccommodation,
	FeeTypeManualRoom: FeeAccommodation,
	FeeTypeAdjustRoom: FeeAccommodation,
	FeeTypeFullDay:    FeeHourly,
}

// ClassifyFee 返回科目分类
func ClassifyFee(feeType string) FeeCategory {
	if c, ok := feeCategories[strings.TrimSpace(feeType)]; ok {
		return c
	}
	return FeeOther
}

// Label 分类的中文名称
func (c FeeCategory) Label() string {
	switch c {
	case FeeAccommodation:
		return "住宿"
	case FeeHourly:
		return "钟点"
	default:
		return "其他"
	}
}

// CountsRoomNights 导入时该科目是否保留间夜数，加收全天、手工输入房费、调整房费 清零
func CountsRoomNights(feeType string) bool {
	switch strings.TrimSpace(feeType) {
	case FeeTypeFullDay, FeeTypeManualRoom, FeeTypeAdjustRoom:
		return false
	}
	return true
}
