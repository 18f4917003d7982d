// Package repository 提供数据访问层
package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
)

const revenueTable = "daily_revenues"

// RevenueFilter 营收记录列表过滤条件
type RevenueFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Channel   string
	FeeType   string
	Keyword   string // 匹配客人姓名或订单号
}

// AggregateQuery 汇总查询条件
type AggregateQuery struct {
	Start    time.Time
	End      time.Time
	Channels []string
	FeeTypes []string
}

// RevenueStats 营收记录概况
type RevenueStats struct {
	TotalRecords  int64            `json:"total_records"`
	TotalRevenue  float64          `json:"total_revenue"`
	TotalNights   float64          `json:"total_room_nights"`
	ChannelCount  int64            `json:"channel_count"`
	FeeTypeCount  int64            `json:"fee_type_count"`
	EarliestDate  *time.Time       `json:"earliest_date"`
	LatestDate    *time.Time       `json:"latest_date"`
	RecordsByYear map[string]int64 `json:"records_by_year"`
}

// RevenueRepository 营收记录仓储
type RevenueRepository struct {
	db      *gorm.DB
	metrics *metrics.Metrics
}

// NewRevenueRepository 创建营收记录仓储
func NewRevenueRepository(db *gorm.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

// WithMetrics 记录汇总查询耗时
func (r *RevenueRepository) WithMetrics(m *metrics.Metrics) *RevenueRepository {
	r.metrics = m
	return r
}

// FetchRecords 读取闭区间内按 日期/渠道/科目 汇总的营收
func (r *RevenueRepository) FetchRecords(ctx context.Context, start, end time.Time) ([]models.RevenueAggregate, error) {
	return r.Aggregate(ctx, AggregateQuery{Start: start, End: end})
}

// Aggregate 按 日期/渠道/科目 分组求和，可按渠道和科目过滤
func (r *RevenueRepository) Aggregate(ctx context.Context, q AggregateQuery) ([]models.RevenueAggregate, error) {
	begin := time.Now()
	defer func() { r.metrics.RecordDBQuery("aggregate", revenueTable, time.Since(begin)) }()

	query := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).
		Select("record_date, channel, fee_type, SUM(room_nights) AS room_nights, SUM(revenue) AS revenue").
		Where("record_date >= ? AND record_date <= ?", q.Start, q.End)
	if len(q.Channels) > 0 {
		query = query.Where("channel IN ?", q.Channels)
	}
	if len(q.FeeTypes) > 0 {
		query = query.Where("fee_type IN ?", q.FeeTypes)
	}

	var rows []models.RevenueAggregate
	err := query.Group("record_date, channel, fee_type").
		Order("record_date, channel, fee_type").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Create 创建营收记录
func (r *RevenueRepository) Create(ctx context.Context, rec *models.DailyRevenue) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// CreateBatch 批量创建营收记录
func (r *RevenueRepository) CreateBatch(ctx context.Context, recs []*models.DailyRevenue) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(recs, 200).Error
}

// GetByID 根据 ID 获取营收记录
func (r *RevenueRepository) GetByID(ctx context.Context, id int64) (*models.DailyRevenue, error) {
	var rec models.DailyRevenue
	if err := r.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

// Update 更新营收记录
func (r *RevenueRepository) Update(ctx context.Context, rec *models.DailyRevenue) error {
	return r.db.WithContext(ctx).Save(rec).Error
}

// Delete 删除营收记录，返回受影响行数
func (r *RevenueRepository) Delete(ctx context.Context, id int64) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&models.DailyRevenue{}, id)
	return result.RowsAffected, result.Error
}

// ExistsByKey 判断 日期/渠道/科目 相同的手工记录是否存在，excludeID > 0 时排除该记录
func (r *RevenueRepository) ExistsByKey(ctx context.Context, date time.Time, channel, feeType string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).
		Where("record_date = ? AND channel = ? AND fee_type = ? AND order_id = ?", date, channel, feeType, "")
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsByOrderID 判断导入订单号是否已存在
func (r *RevenueRepository) ExistsByOrderID(ctx context.Context, orderID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).
		Where("order_id = ?", orderID).
		Count(&count).Error
	return count > 0, err
}

// ExistingOrderIDs 返回给定订单号中已存在的部分
func (r *RevenueRepository) ExistingOrderIDs(ctx context.Context, orderIDs []string) (map[string]struct{}, error) {
	out := make(map[string]struct{})
	const chunk = 500
	for i := 0; i < len(orderIDs); i += chunk {
		j := i + chunk
		if j > len(orderIDs) {
			j = len(orderIDs)
		}
		var found []string
		err := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).
			Where("order_id IN ?", orderIDs[i:j]).
			Pluck("order_id", &found).Error
		if err != nil {
			return nil, err
		}
		for _, id := range found {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

// List 获取营收记录列表（管理端）
func (r *RevenueRepository) List(ctx context.Context, filter RevenueFilter, offset, limit int) ([]*models.DailyRevenue, int64, error) {
	var list []*models.DailyRevenue
	var total int64

	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.DailyRevenue{}), filter)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.Order("record_date DESC, id DESC").
		Offset(offset).Limit(limit).
		Find(&list).Error; err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListAll 获取满足条件的全部记录，用于导出
func (r *RevenueRepository) ListAll(ctx context.Context, filter RevenueFilter) ([]*models.DailyRevenue, error) {
	var list []*models.DailyRevenue
	err := r.applyFilter(r.db.WithContext(ctx).Model(&models.DailyRevenue{}), filter).
		Order("record_date DESC, id DESC").
		Find(&list).Error
	return list, err
}

func (r *RevenueRepository) applyFilter(query *gorm.DB, filter RevenueFilter) *gorm.DB {
	if filter.StartDate != nil {
		query = query.Where("record_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("record_date <= ?", *filter.EndDate)
	}
	if filter.Channel != "" {
		query = query.Where("channel = ?", filter.Channel)
	}
	if filter.FeeType != "" {
		query = query.Where("fee_type = ?", filter.FeeType)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("guest_name LIKE ? OR order_id LIKE ?", like, like)
	}
	return query
}

// ListByPeriod 按日期区间获取记录，按日期升序
func (r *RevenueRepository) ListByPeriod(ctx context.Context, start, end time.Time) ([]*models.DailyRevenue, error) {
	var list []*models.DailyRevenue
	err := r.db.WithContext(ctx).
		Where("record_date >= ? AND record_date <= ?", start, end).
		Order("record_date, channel, fee_type, id").
		Find(&list).Error
	return list, err
}

// SumByPeriod 汇总日期区间内的记录数、间夜数和收入
func (r *RevenueRepository) SumByPeriod(ctx context.Context, start, end time.Time) (*models.RevenueTotals, error) {
	var totals models.RevenueTotals
	err := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).
		Select("COUNT(*) AS records, COALESCE(SUM(room_nights), 0) AS room_nights, COALESCE(SUM(revenue), 0) AS revenue").
		Where("record_date >= ? AND record_date <= ?", start, end).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// distinctDates 返回全部不重复的营业日
func (r *RevenueRepository) distinctDates(ctx context.Context, start, end *time.Time) ([]time.Time, error) {
	query := r.db.WithContext(ctx).Model(&models.DailyRevenue{})
	if start != nil {
		query = query.Where("record_date >= ?", *start)
	}
	if end != nil {
		query = query.Where("record_date <= ?", *end)
	}

	var dates []time.Time
	if err := query.Distinct("record_date").Pluck("record_date", &dates).Error; err != nil {
		return nil, err
	}
	return dates, nil
}

// AvailableYears 有数据的年份，降序
func (r *RevenueRepository) AvailableYears(ctx context.Context) ([]int, error) {
	dates, err := r.distinctDates(ctx, nil, nil)
	if err != nil {
		return nil, err
	}

	seen := make(map[int]struct{})
	years := make([]int, 0)
	for _, d := range dates {
		y := d.Year()
		if _, ok := seen[y]; !ok {
			seen[y] = struct{}{}
			years = append(years, y)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// AvailableMonths 某年有数据的月份，升序
func (r *RevenueRepository) AvailableMonths(ctx context.Context, year int) ([]int, error) {
	start := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	dates, err := r.distinctDates(ctx, &start, &end)
	if err != nil {
		return nil, err
	}

	var seen [13]bool
	months := make([]int, 0, 12)
	for _, d := range dates {
		seen[d.Month()] = true
	}
	for m := 1; m <= 12; m++ {
		if seen[m] {
			months = append(months, m)
		}
	}
	return months, nil
}

// DeleteBatch 按 ID 批量删除
func (r *RevenueRepository) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).Where("id IN ?", ids).Delete(&models.DailyRevenue{})
	return result.RowsAffected, result.Error
}

// DeleteByDateRange 删除日期区间内的记录
func (r *RevenueRepository) DeleteByDateRange(ctx context.Context, start, end time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("record_date >= ? AND record_date <= ?", start, end).
		Delete(&models.DailyRevenue{})
	return result.RowsAffected, result.Error
}

// ClearAll 清空全部营收记录
func (r *RevenueRepository) ClearAll(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Session(&gorm.Session{AllowGlobalUpdate: true}).
		Delete(&models.DailyRevenue{})
	return result.RowsAffected, result.Error
}

// Count 记录总数
func (r *RevenueRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DailyRevenue{}).Count(&count).Error
	return count, err
}

// Stats 营收记录概况
func (r *RevenueRepository) Stats(ctx context.Context) (*RevenueStats, error) {
	db := r.db.WithContext(ctx)
	stats := &RevenueStats{RecordsByYear: map[string]int64{}}

	var totals models.RevenueTotals
	if err := db.Model(&models.DailyRevenue{}).
		Select("COUNT(*) AS records, COALESCE(SUM(room_nights), 0) AS room_nights, COALESCE(SUM(revenue), 0) AS revenue").
		Scan(&totals).Error; err != nil {
		return nil, err
	}
	stats.TotalRecords = totals.Records
	stats.TotalRevenue, _ = totals.Revenue.Round(2).Float64()
	stats.TotalNights, _ = totals.RoomNights.Round(2).Float64()
	if totals.Records == 0 {
		return stats, nil
	}

	if err := db.Model(&models.DailyRevenue{}).Distinct("channel").Count(&stats.ChannelCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.DailyRevenue{}).Distinct("fee_type").Count(&stats.FeeTypeCount).Error; err != nil {
		return nil, err
	}

	var first, last models.DailyRevenue
	if err := db.Order("record_date ASC").First(&first).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err := db.Order("record_date DESC").First(&last).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	stats.EarliestDate = &first.RecordDate
	stats.LatestDate = &last.RecordDate

	var perDate []struct {
		RecordDate time.Time
		Records    int64
	}
	if err := db.Model(&models.DailyRevenue{}).
		Select("record_date, COUNT(*) AS records").
		Group("record_date").
		Scan(&perDate).Error; err != nil {
		return nil, err
	}
	for _, d := range perDate {
		stats.RecordsByYear[d.RecordDate.Format("2006")] += d.Records
	}
	return stats, nil
}
