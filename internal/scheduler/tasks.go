package scheduler

import (
	"context"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
)

// TaskRecordStats 刷新记录数指标的任务名
const TaskRecordStats = "record_stats"

// RecordCounter 统计营收记录数并更新指标
type RecordCounter interface {
	RefreshRecordCount(ctx context.Context) (int64, error)
}

// TaskHandler 任务处理器
type TaskHandler struct {
	records RecordCounter
}

// NewTaskHandler 创建任务处理器
func NewTaskHandler(records RecordCounter) *TaskHandler {
	return &TaskHandler{records: records}
}

// RefreshRecordStats 刷新营收记录数量指标
func (h *TaskHandler) RefreshRecordStats(ctx context.Context) error {
	_, err := h.records.RefreshRecordCount(ctx)
	return err
}

// RegisterTasks 按配置注册所有任务
func (h *TaskHandler) RegisterTasks(s *Scheduler, cfg *config.SchedulerConfig) {
	s.AddTask(TaskRecordStats, cfg.RecordStatsDuration(), h.RefreshRecordStats)
}
