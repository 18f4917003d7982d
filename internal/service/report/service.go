package report

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/errors"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/logger"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/tracing"
	"github.com/dumeirei/hotel-revenue-backend/internal/common/utils"
	"github.com/dumeirei/hotel-revenue-backend/internal/models"
)

// RecordFetcher 按日期区间读取按 (日期, 渠道, 科目) 汇总的营收记录
type RecordFetcher interface {
	FetchRecords(ctx context.Context, start, end time.Time) ([]models.RevenueAggregate, error)
}

// Service 报表服务
type Service struct {
	fetcher          RecordFetcher
	expectedChannels []string
	metrics          *metrics.Metrics
}

// NewService 创建报表服务
func NewService(fetcher RecordFetcher, expectedChannels []string, m *metrics.Metrics) *Service {
	return &Service{
		fetcher:          fetcher,
		expectedChannels: expectedChannels,
		metrics:          m,
	}
}

// ExpectedChannels 返回配置的预期渠道
func (s *Service) ExpectedChannels() []string {
	return s.expectedChannels
}

// WeeklyReport 生成区间周报，并与上一等长区间对比
func (s *Service) WeeklyReport(ctx context.Context, start, end time.Time, totalRooms int) (doc *Document, err error) {
	begin := time.Now()
	start, end = utils.TruncateDay(start), utils.TruncateDay(end)

	ctx, span := tracing.StartReportSpan(ctx, "report.WeeklyReport", start, end, totalRooms)
	defer span.End()
	defer func() {
		s.metrics.RecordReport("weekly", err, time.Since(begin))
		if err != nil {
			tracing.SetError(ctx, err)
		}
	}()

	if err = validate(start, end, totalRooms); err != nil {
		return nil, err
	}

	prevStart, prevEnd := PreviousPeriod(start, end)

	var curRows, prevRows []models.RevenueAggregate
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, ferr := s.fetcher.FetchRecords(gctx, start, end)
		curRows = rows
		return ferr
	})
	g.Go(func() error {
		rows, ferr := s.fetcher.FetchRecords(gctx, prevStart, prevEnd)
		prevRows = rows
		return ferr
	})
	if err = g.Wait(); err != nil {
		logger.WithContext(ctx).Error("读取营收记录失败",
			logger.DateRange(start, end), zap.Error(err))
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	cur, err := Aggregate(ToRecords(curRows), s.params(start, end, totalRooms))
	if err != nil {
		return nil, err
	}
	prev, err := Aggregate(ToRecords(prevRows), s.params(prevStart, prevEnd, totalRooms))
	if err != nil {
		return nil, err
	}

	tracing.SetRecords(ctx, cur.Summary.Records)
	logger.WithContext(ctx).Info("周报生成完成",
		logger.DateRange(start, end),
		zap.Int("records", cur.Summary.Records),
		zap.Float64("total_revenue", cur.Summary.TotalRevenue),
		logger.Latency(time.Since(begin)),
	)

	return BuildReport(cur, prev), nil
}

// Period 聚合单个区间，供看板等只需要汇总的调用方使用
func (s *Service) Period(ctx context.Context, start, end time.Time, totalRooms int) (agg *Aggregation, err error) {
	begin := time.Now()
	start, end = utils.TruncateDay(start), utils.TruncateDay(end)
	defer func() {
		s.metrics.RecordReport("period", err, time.Since(begin))
	}()

	if err = validate(start, end, totalRooms); err != nil {
		return nil, err
	}
	rows, err := s.fetcher.FetchRecords(ctx, start, end)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	return Aggregate(ToRecords(rows), s.params(start, end, totalRooms))
}

func (s *Service) params(start, end time.Time, totalRooms int) Params {
	return Params{
		StartDate:        start,
		EndDate:          end,
		TotalRooms:       totalRooms,
		ExpectedChannels: s.expectedChannels,
	}
}

// validate 在读取数据之前校验参数
func validate(start, end time.Time, totalRooms int) error {
	if end.Before(start) {
		return errors.ErrInvalidRange
	}
	if utils.DaysInclusive(start, end) > MaxRangeDays {
		return errors.ErrInvalidRange.WithMessage("查询区间过长")
	}
	if totalRooms < 0 {
		return errors.ErrInvalidRooms
	}
	return nil
}

// ToRecords 把存储层的汇总行转为引擎输入
func ToRecords(rows []models.RevenueAggregate) []Record {
	out := make([]Record, 0, len(rows))
	for _, r := range rows {
		out = append(out, Record{
			Date:       r.RecordDate,
			Channel:    r.Channel,
			FeeType:    r.FeeType,
			RoomNights: r.RoomNights,
			Revenue:    r.Revenue,
		})
	}
	return out
}
