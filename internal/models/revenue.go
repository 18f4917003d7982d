package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyRevenue 每日营收明细
// 手工录入的记录 OrderID 为空，导入的记录使用 渠道_日期_行号 作为 OrderID
type DailyRevenue struct {
	ID         int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	RecordDate time.Time       `gorm:"type:date;not null;index;uniqueIndex:uk_daily_revenue_key,priority:1" json:"record_date"`
	Channel    string          `gorm:"type:varchar(50);not null;uniqueIndex:uk_daily_revenue_key,priority:2" json:"channel"`
	FeeType    string          `gorm:"type:varchar(50);not null;uniqueIndex:uk_daily_revenue_key,priority:3" json:"fee_type"`
	OrderID    string          `gorm:"type:varchar(100);not null;default:'';uniqueIndex:uk_daily_revenue_key,priority:4" json:"order_id"`
	GuestName  string          `gorm:"type:varchar(100);not null;default:''" json:"guest_name"`
	RoomNights decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"room_nights"`
	Revenue    decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"revenue"`
	CreatedAt  time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName 表名
func (DailyRevenue) TableName() string {
	return "daily_revenues"
}

// RevenueAggregate 按 日期/渠道/科目 汇总后的营收
type RevenueAggregate struct {
	RecordDate time.Time       `json:"record_date"`
	Channel    string          `json:"channel"`
	FeeType    string          `json:"fee_type"`
	RoomNights decimal.Decimal `json:"room_nights"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// RevenueTotals 营收合计
type RevenueTotals struct {
	Records    int64           `json:"records"`
	RoomNights decimal.Decimal `json:"room_nights"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// AllModels 需要自动迁移的模型
func AllModels() []interface{} {
	return []interface{}{
		&DailyRevenue{},
	}
}
