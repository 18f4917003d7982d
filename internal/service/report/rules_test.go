package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeChannel(t *testing.T) {
	cases := map[string]string{
		"携程":      "携程",
		"携程EBK":   "携程",
		"美团EBK":   "美团",
		"飞猪信用住":   "飞猪",
		"抖音":      "抖音来客",
		"其他":      "抖音来客",
		"门店":      "散客",
		" 携程EBK ": "携程",
		"会员":      "会员",
		"":        "",
	}
	for in, want := range cases {
		t.Run("渠道_"+in, func(t *testing.T) {
			got := NormalizeChannel(in)
			assert.Equal(t, want, got)
			assert.Equal(t, got, NormalizeChannel(got), "标准化应幂等")
		})
	}
}

func TestNormalizeChannels(t *testing.T) {
	got := NormalizeChannels([]string{"携程EBK", "携程", "", "美团", "门店", "会员"})
	assert.Equal(t, []string{"携程", "美团", "散客", "会员"}, got)
}

func TestClassifyFee(t *testing.T) {
	t.Run("住宿类", func(t *testing.T) {
		for _, fee := range []string{"房费", "手工输入房费", "调整房费", " 房费 "} {
			assert.Equal(t, FeeAccommodation, ClassifyFee(fee), fee)
		}
	})

	t.Run("钟点类", func(t *testing.T) {
		assert.Equal(t, FeeHourly, ClassifyFee("加收全天"))
	})

	t.Run("其他科目", func(t *testing.T) {
		for _, fee := range []string{"餐饮", "赔偿", "", "加收半天"} {
			assert.Equal(t, FeeOther, ClassifyFee(fee), fee)
		}
	})

	t.Run("分类名称", func(t *testing.T) {
		assert.Equal(t, "住宿", FeeAccommodation.Label())
		assert.Equal(t, "钟点", FeeHourly.Label())
		assert.Equal(t, "其他", FeeOther.Label())
	})
}

func TestCountsRoomNights(t *testing.T) {
	assert.True(t, CountsRoomNights("房费"))
	assert.True(t, CountsRoomNights("餐饮"))
	assert.False(t, CountsRoomNights("加收全天"))
	assert.False(t, CountsRoomNights("手工输入房费"))
	assert.False(t, CountsRoomNights("调整房费"))
}

func TestWeekday(t *testing.T) {
	// 2024-01-01 是周一
	monday := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		assert.Equal(t, i+1, ISOWeekday(monday.AddDate(0, 0, i)))
	}

	assert.Equal(t, "星期一", WeekdayName(1))
	assert.Equal(t, "星期日", WeekdayName(7))
	assert.Equal(t, "", WeekdayName(0))
	assert.Equal(t, "日", WeekdayShortName(7))
	assert.Equal(t, "", WeekdayShortName(8))

	names := WeekdayNames()
	assert.Len(t, names, 7)
	names[0] = "x"
	assert.Equal(t, "星期一", WeekdayName(1), "返回的切片应为副本")
}
