// Package tracing 提供 OpenTelemetry 分布式追踪单元测试
package tracing

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestInit(t *testing.T) {
	t.Run("禁用追踪", func(t *testing.T) {
		tracer, err := Init(&Config{ServiceName: "disabled", Enabled: false})
		require.NoError(t, err)
		assert.Nil(t, tracer.provider)
		assert.Same(t, tracer, GetTracer())
	})

	t.Run("启用 stdout 导出", func(t *testing.T) {
		tracer, err := Init(&Config{ServiceName: "revenue-test", SampleRate: 0.5, Enabled: true})
		require.NoError(t, err)
		require.NotNil(t, tracer.provider)
		assert.Equal(t, "revenue-test", tracer.config.ServiceName)
		assert.NoError(t, tracer.Shutdown(context.Background()))
	})

	t.Run("默认配置", func(t *testing.T) {
		tracer, err := Init(nil)
		require.NoError(t, err)
		assert.Equal(t, "hotel-revenue-backend", tracer.config.ServiceName)
		assert.NoError(t, tracer.Shutdown(context.Background()))
	})
}

func TestStartReportSpan_Disabled(t *testing.T) {
	_, err := Init(&Config{Enabled: false})
	require.NoError(t, err)

	ctx, span := StartReportSpan(context.Background(), "report.WeeklyReport",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 7, 0, 0, 0, 0, time.UTC), 29)
	require.NotNil(t, span)
	assert.False(t, span.IsRecording())

	SetError(ctx, errors.New("boom"))
	SetRecords(ctx, 12)
	span.End()
}

func TestStartReportSpan_Recording(t *testing.T) {
	tracer, err := Init(&Config{ServiceName: "revenue-test", SampleRate: 1, Enabled: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = tracer.Shutdown(context.Background())
		_, _ = Init(&Config{Enabled: false})
	})

	_, span := StartReportSpan(context.Background(), "report.WeeklyReport",
		time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC), 29)
	assert.True(t, span.IsRecording())
	assert.True(t, span.SpanContext().HasTraceID())
	span.End()
}

func TestNilTracer(t *testing.T) {
	var tracer *Tracer
	ctx := context.Background()
	got, span := tracer.Start(ctx, "noop")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
}

func TestNewSampler(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), newSampler(1.5).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), newSampler(0).Description())
	assert.Contains(t, newSampler(0.25).Description(), "TraceIDRatioBased")
}
