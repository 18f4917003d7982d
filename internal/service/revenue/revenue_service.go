// Package revenue 提供营收记录的录入和查询服务
package revenue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
)

// Service 营收记录服务
type Service struct {
	repo *repository.RevenueRepository
}

// NewService 创建营收记录服务
func NewService(repo *repository.RevenueRepository) *Service {
	return &Service{repo: repo}
}

// RecordRequest 新增/修改营收记录请求
type RecordRequest struct {
	RecordDate string          `json:"record_date" binding:"required" example:"2024-01-08"`
	Channel    string          `json:"channel" binding:"required,max=50" example:"携程"`
	FeeType    string          `json:"fee_type" binding:"required,max=50" example:"房费"`
	RoomNights decimal.Decimal `json:"room_nights" swaggertype:"number" example:"2"`
	Revenue    decimal.Decimal `json:"revenue" swaggertype:"number" example:"456.00"`
	GuestName  string          `json:"guest_name" binding:"max=100"`
}

// normalized 校验并返回解析后的日期
func (r *RecordRequest) normalized() (time.Time, error) {
	r.Channel = strings.TrimSpace(r.Channel)
	r.FeeType = strings.TrimSpace(r.FeeType)
	r.GuestName = strings.TrimSpace(r.GuestName)

	if r.Channel == "" || r.FeeType == "" {
		return time.Time{}, commonErrors.ErrRecordInvalid.WithMessage("渠道和房费科目不能为空")
	}
	date, err := utils.ParseDate(r.RecordDate)
	if err != nil {
		return time.Time{}, commonErrors.ErrRecordInvalid.WithMessage("营业日格式错误")
	}
	if r.RoomNights.IsNegative() {
		return time.Time{}, commonErrors.ErrRecordInvalid.WithMessage("间夜数不能为负数")
	}
	return date, nil
}

// Create 新增手工营收记录
func (s *Service) Create(ctx context.Context, req *RecordRequest) (*models.DailyRevenue, error) {
	date, err := req.normalized()
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByKey(ctx, date, req.Channel, req.FeeType, 0)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	if exists {
		return nil, commonErrors.ErrRecordDuplicate
	}

	rec := &models.DailyRevenue{
		RecordDate: date,
		Channel:    req.Channel,
		FeeType:    req.FeeType,
		RoomNights: req.RoomNights,
		Revenue:    req.Revenue,
		GuestName:  req.GuestName,
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}

	logger.WithContext(ctx).Info("revenue record created",
		logger.RecordID(rec.ID),
		logger.Channel(rec.Channel),
		zap.String("fee_type", rec.FeeType),
	)
	return rec, nil
}

// Get 获取单条记录
func (s *Service) Get(ctx context.Context, id int64) (*models.DailyRevenue, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, commonErrors.ErrRecordNotFound
		}
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	return rec, nil
}

// Update 修改记录，唯一性检查排除自身
func (s *Service) Update(ctx context.Context, id int64, req *RecordRequest) (*models.DailyRevenue, error) {
	date, err := req.normalized()
	if err != nil {
		return nil, err
	}

	rec, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if rec.OrderID == "" {
		exists, err := s.repo.ExistsByKey(ctx, date, req.Channel, req.FeeType, id)
		if err != nil {
			return nil, commonErrors.ErrDatabaseError.WithError(err)
		}
		if exists {
			return nil, commonErrors.ErrRecordDuplicate
		}
	}

	rec.RecordDate = date
	rec.Channel = req.Channel
	rec.FeeType = req.FeeType
	rec.RoomNights = req.RoomNights
	rec.Revenue = req.Revenue
	rec.GuestName = req.GuestName
	if err := s.repo.Update(ctx, rec); err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	return rec, nil
}

// Delete 删除记录
func (s *Service) Delete(ctx context.Context, id int64) error {
	n, err := s.repo.Delete(ctx, id)
	if err != nil {
		return commonErrors.ErrDatabaseError.WithError(err)
	}
	if n == 0 {
		return commonErrors.ErrRecordNotFound
	}
	return nil
}

// PeriodTotals 区间合计
type PeriodTotals struct {
	Records    int64   `json:"records"`
	RoomNights float64 `json:"room_nights"`
	Revenue    float64 `json:"revenue"`
}

// MonthView 按年/月浏览营收记录
type MonthView struct {
	Year            int                    `json:"year"`
	Month           int                    `json:"month"`
	DisplayPeriod   string                 `json:"display_period"`
	Records         []*models.DailyRevenue `json:"records"`
	AvailableYears  []int                  `json:"available_years"`
	AvailableMonths []int                  `json:"available_months"`
	Totals          PeriodTotals           `json:"totals"`
}

// View 返回某年某月的记录，month 为 0 时返回全年
func (s *Service) View(ctx context.Context, year, month int) (*MonthView, error) {
	if month < 0 || month > 12 {
		return nil, commonErrors.ErrInvalidParams.WithMessage("月份必须在 1-12 之间")
	}

	var start, end time.Time
	display := fmt.Sprintf("%d年全年", year)
	if month == 0 {
		start = time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
		end = time.Date(year, 12, 31, 0, 0, 0, 0, time.UTC)
	} else {
		start, end = utils.MonthRange(year, time.Month(month))
		display = fmt.Sprintf("%d年%d月", year, month)
	}

	records, err := s.repo.ListByPeriod(ctx, start, end)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	years, err := s.repo.AvailableYears(ctx)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	months, err := s.repo.AvailableMonths(ctx, year)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}

	view := &MonthView{
		Year:            year,
		Month:           month,
		DisplayPeriod:   display,
		Records:         records,
		AvailableYears:  years,
		AvailableMonths: months,
	}

	nights, revenue := decimal.Zero, decimal.Zero
	for _, r := range records {
		nights = nights.Add(r.RoomNights)
		revenue = revenue.Add(r.Revenue)
	}
	view.Totals = PeriodTotals{
		Records:    int64(len(records)),
		RoomNights: utils.Money(nights),
		Revenue:    utils.Money(revenue),
	}
	return view, nil
}
