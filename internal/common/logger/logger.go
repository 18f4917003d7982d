// Package logger 提供结构化日志功能
package logger

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/dumeirei/hotel-revenue-backend/internal/common/config"
)

var log *zap.Logger

type ctxKey struct{}

// Init 按配置构建全局日志器，output 支持 stdout、file、both
func Init(cfg *config.LoggerConfig) error {
	core := zapcore.NewCore(newEncoder(cfg.Format), newWriteSyncer(cfg), getLogLevel(cfg.Level))

	opts := []zap.Option{zap.AddStacktrace(zapcore.ErrorLevel)}
	if cfg.Caller {
		opts = append(opts, zap.AddCaller(), zap.AddCallerSkip(1))
	}
	SetLogger(zap.New(core, opts...))
	return nil
}

func newEncoder(format string) zapcore.Encoder {
	ec := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.000"),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	if format == "json" {
		return zapcore.NewJSONEncoder(ec)
	}
	ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return zapcore.NewConsoleEncoder(ec)
}

func newWriteSyncer(cfg *config.LoggerConfig) zapcore.WriteSyncer {
	toFile := cfg.FilePath != "" && (cfg.Output == "file" || cfg.Output == "both")
	toStdout := cfg.Output != "file" || !toFile

	var ws []zapcore.WriteSyncer
	if toStdout {
		ws = append(ws, zapcore.AddSync(os.Stdout))
	}
	if toFile {
		ws = append(ws, zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
			LocalTime:  true,
		}))
	}
	return zapcore.NewMultiWriteSyncer(ws...)
}

func getLogLevel(level string) zapcore.Level {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(level)); err != nil || l < zapcore.DebugLevel || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

// SetLogger 替换全局日志器，测试中用于注入 observer
func SetLogger(l *zap.Logger) {
	log = l
}

// GetLogger 获取全局日志器，未初始化时退回开发模式日志器
func GetLogger() *zap.Logger {
	if log == nil {
		l, _ := zap.NewDevelopment()
		SetLogger(l)
	}
	return log
}

// Sync 刷新缓冲
func Sync() error {
	if log != nil {
		return log.Sync()
	}
	return nil
}

func Debug(msg string, fields ...zap.Field) { GetLogger().Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { GetLogger().Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { GetLogger().Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { GetLogger().Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { GetLogger().Fatal(msg, fields...) }

// NewContext 把请求级日志器放入 context
func NewContext(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithContext 取出请求级日志器（带 request_id），没有时返回全局日志器
func WithContext(ctx context.Context) *zap.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*zap.Logger); ok && l != nil {
			return l
		}
	}
	return GetLogger()
}

// ErrorField 错误字段
var ErrorField = zap.Error

func RequestID(id string) zap.Field { return zap.String("request_id", id) }
func AdminID(id int64) zap.Field    { return zap.Int64("admin_id", id) }
func Module(name string) zap.Field  { return zap.String("module", name) }
func Action(name string) zap.Field  { return zap.String("action", name) }
func Channel(name string) zap.Field { return zap.String("channel", name) }
func RecordID(id int64) zap.Field   { return zap.Int64("record_id", id) }
func Rows(n int64) zap.Field        { return zap.Int64("rows", n) }

// DateRange 报表区间，格式 2024-01-01~2024-01-07
func DateRange(start, end time.Time) zap.Field {
	return zap.String("date_range", start.Format("2006-01-02")+"~"+end.Format("2006-01-02"))
}

// 请求日志字段
func Latency(d time.Duration) zap.Field { return zap.Duration("latency", d) }
func StatusCode(code int) zap.Field     { return zap.Int("status_code", code) }
func Method(method string) zap.Field    { return zap.String("method", method) }
func Path(path string) zap.Field        { return zap.String("path", path) }
func IP(ip string) zap.Field            { return zap.String("ip", ip) }
