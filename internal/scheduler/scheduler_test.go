package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
)

type countingRecords struct {
	calls atomic.Int32
	err   error
}

func (c *countingRecords) RefreshRecordCount(context.Context) (int64, error) {
	c.calls.Add(1)
	return 42, c.err
}

func TestScheduler_RunsImmediatelyAndOnTick(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	var runs atomic.Int32
	s.AddTask("tick", 10*time.Millisecond, func(context.Context) error {
		runs.Add(1)
		return nil
	})
	s.Start()

	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "停止后不再执行")
}

func TestScheduler_SkipsNonPositiveInterval(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	s.AddTask("never", 0, func(context.Context) error { return nil })
	assert.Empty(t, s.Tasks())
}

func TestScheduler_FailuresAndPanicsAreLogged(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	s := NewScheduler(zap.New(core))

	s.AddTask("boom", time.Hour, func(context.Context) error { panic("bad") })
	s.AddTask("fail", time.Hour, func(context.Context) error { return errors.New("db down") })
	s.Start()

	assert.Eventually(t, func() bool {
		return logs.FilterMessage("task panicked").Len() == 1 && logs.FilterMessage("task failed").Len() == 1
	}, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestTaskHandler_RegisterTasks(t *testing.T) {
	records := &countingRecords{}
	h := NewTaskHandler(records)
	s := NewScheduler(zap.NewNop())

	h.RegisterTasks(s, &config.SchedulerConfig{Enabled: true, RecordStatsInterval: 60})
	require.Len(t, s.Tasks(), 1)
	assert.Equal(t, TaskRecordStats, s.Tasks()[0].Name)
	assert.Equal(t, time.Minute, s.Tasks()[0].Interval)

	require.NoError(t, h.RefreshRecordStats(context.Background()))
	assert.Equal(t, int32(1), records.calls.Load())

	records.err = errors.New("db down")
	assert.Error(t, h.RefreshRecordStats(context.Background()))
}
