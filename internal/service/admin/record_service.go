package admin

import (
	"context"
	"time"

	"go.uber.org/zap"

	commonErrors "github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
	"github.com/dumeirei/hotel-revenue-backend/internal/repository"
	"github.com/dumeirei/hotel-revenue-backend/internal/service/revenue"
)

// MaxBatchDelete 单次批量删除的最大记录数
const MaxBatchDelete = 1000

// RecordService 营收记录维护服务
type RecordService struct {
	repo    *repository.RevenueRepository
	revenue *revenue.Service
	metrics *metrics.Metrics
}

// NewRecordService 创建记录维护服务
func NewRecordService(repo *repository.RevenueRepository, revenueSvc *revenue.Service, m *metrics.Metrics) *RecordService {
	return &RecordService{repo: repo, revenue: revenueSvc, metrics: m}
}

// Stats 数据概况
func (s *RecordService) Stats(ctx context.Context) (*repository.RevenueStats, error) {
	stats, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, commonErrors.ErrDatabaseError.WithError(err)
	}
	s.metrics.SetRevenueRecords(stats.TotalRecords)
	return stats, nil
}

// List 分页查询记录
func (s *RecordService) List(ctx context.Context, filter repository.RevenueFilter, offset, limit int) ([]*models.DailyRevenue, int64, error) {
	list, total, err := s.repo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, commonErrors.ErrDatabaseError.WithError(err)
	}
	return list, total, nil
}

// Get 获取单条记录
func (s *RecordService) Get(ctx context.Context, id int64) (*models.DailyRevenue, error) {
	return s.revenue.Get(ctx, id)
}

// Update 修改记录
func (s *RecordService) Update(ctx context.Context, id int64, req *revenue.RecordRequest) (*models.DailyRevenue, error) {
	return s.revenue.Update(ctx, id, req)
}

// Delete 删除单条记录
func (s *RecordService) Delete(ctx context.Context, id int64) (int64, error) {
	if err := s.revenue.Delete(ctx, id); err != nil {
		return 0, err
	}
	s.refreshGauge(ctx)
	return 1, nil
}

// DeleteBatchRequest 批量删除请求
type DeleteBatchRequest struct {
	IDs []int64 `json:"ids"`
}

// DeleteBatch 按 ID 批量删除
func (s *RecordService) DeleteBatch(ctx context.Context, ids []int64) (int64, error) {
	ids = utils.Unique(ids)
	if len(ids) == 0 {
		return 0, commonErrors.ErrInvalidParams.WithMessage("未选择记录")
	}
	if len(ids) > MaxBatchDelete {
		return 0, commonErrors.ErrInvalidParams.WithMessage("单次最多删除 1000 条记录")
	}

	n, err := s.repo.DeleteBatch(ctx, ids)
	if err != nil {
		return 0, commonErrors.ErrDatabaseError.WithError(err)
	}
	s.refreshGauge(ctx)
	return n, nil
}

// DateRangeRequest 按日期删除请求
type DateRangeRequest struct {
	StartDate string `json:"start_date" binding:"required" example:"2024-01-01"`
	EndDate   string `json:"end_date" binding:"required" example:"2024-01-31"`
}

// DeleteByDateRange 删除闭区间内的记录
func (s *RecordService) DeleteByDateRange(ctx context.Context, req *DateRangeRequest) (int64, error) {
	start, err := utils.ParseDate(req.StartDate)
	if err != nil {
		return 0, commonErrors.ErrInvalidParams.WithMessage("无效的开始日期格式")
	}
	end, err := utils.ParseDate(req.EndDate)
	if err != nil {
		return 0, commonErrors.ErrInvalidParams.WithMessage("无效的结束日期格式")
	}
	if end.Before(start) {
		return 0, commonErrors.ErrInvalidRange
	}

	n, err := s.repo.DeleteByDateRange(ctx, start, end)
	if err != nil {
		return 0, commonErrors.ErrDatabaseError.WithError(err)
	}
	logger.WithContext(ctx).Warn("records deleted by date range", logger.DateRange(start, end), logger.Rows(n))
	s.refreshGauge(ctx)
	return n, nil
}

// ClearAll 清空全部记录
func (s *RecordService) ClearAll(ctx context.Context) (int64, error) {
	n, err := s.repo.ClearAll(ctx)
	if err != nil {
		return 0, commonErrors.ErrDatabaseError.WithError(err)
	}
	logger.WithContext(ctx).Warn("all revenue records cleared", logger.Rows(n))
	s.metrics.SetRevenueRecords(0)
	return n, nil
}

// RefreshRecordCount 刷新记录数指标，供定时任务调用
func (s *RecordService) RefreshRecordCount(ctx context.Context) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, err
	}
	s.metrics.SetRevenueRecords(n)
	return n, nil
}

func (s *RecordService) refreshGauge(ctx context.Context) {
	if _, err := s.RefreshRecordCount(ctx); err != nil {
		logger.WithContext(ctx).Warn("refresh record count failed", zap.Error(err))
	}
}
