// Package audit writes compliance-audit events to a dedicated rotated
// log, separate from the application log so retention can differ.
package audit

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the audit log destination and retention.
type Config struct {
	// Path is the audit log file; empty disables file output and
	// events are dropped (useful in tests).
	Path string

	// MaxSize is the maximum size in megabytes before rotation.
	MaxSize int

	// MaxBackups is the number of rotated files to retain.
	MaxBackups int

	// MaxAge is the number of days to retain rotated files.
	MaxAge int

	// Compress rotated files.
	Compress bool
}

// DefaultConfig returns production audit retention: compliance wants a
// longer tail than the app log.
func DefaultConfig() Config {
	return Config{
		Path:       "logs/audit.log",
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     90,
		Compress:   true,
	}
}

// Logger records audit events.
type Logger struct {
	zl *zap.Logger
}

// NewLogger builds an audit logger on its own zap core.
func NewLogger(cfg Config) *Logger {
	if cfg.Path == "" {
		return &Logger{zl: zap.NewNop()}
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		MessageKey:     "event",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.Path,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(rotator),
		zapcore.InfoLevel,
	)
	return &Logger{zl: zap.New(core)}
}

// Record writes one audit event.
func (l *Logger) Record(ev Event) {
	l.zl.Info(string(ev.Type),
		zap.String("feature", ev.Feature),
		zap.String("identity", ev.Identity),
		zap.String("request_id", ev.RequestID),
		zap.Bool("cached", ev.Cached),
		zap.String("status", ev.Status),
		zap.Float64("duration_seconds", ev.Duration),
		zap.Time("at", ev.Timestamp),
	)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.zl.Sync()
}
