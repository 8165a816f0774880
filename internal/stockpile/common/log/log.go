// Package log is the structured logger shared by the Stockpile client
// packages. Fields travel as maps so callers never import zap directly.
package log

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger defines the Stockpile client logging interface.
// Fields are attached as structured key/value pairs to a single entry.
type Logger interface {
	Info(fields map[string]any, msg string)
	Error(fields map[string]any, msg string)
	Debug(fields map[string]any, msg string)
	Warn(fields map[string]any, msg string)
	Panic(fields map[string]any, msg string)
	Fatal(fields map[string]any, msg string)

	// With returns a child logger which attaches fields to every entry.
	With(fields map[string]any) Logger
}

// holder lets loggers of different concrete types share one atomic slot.
type holder struct{ Logger }

var global atomic.Pointer[holder]

func init() {
	SetLogger(newZapLogger(false, zapcore.InfoLevel))
}

// SetLogger replaces the global logger instance.
func SetLogger(l Logger) {
	global.Store(&holder{l})
}

// GetLogger returns the current global logger instance.
func GetLogger() Logger {
	return global.Load().Logger
}

// Configure installs a zap logger for env ("prod" selects JSON output, any
// other value the colored console encoder) at the named level.
func Configure(env, level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(level))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	SetLogger(newZapLogger(env != "prod", lvl))
	return nil
}

func Info(fields map[string]any, msg string)  { GetLogger().Info(fields, msg) }
func Error(fields map[string]any, msg string) { GetLogger().Error(fields, msg) }
func Debug(fields map[string]any, msg string) { GetLogger().Debug(fields, msg) }
func Warn(fields map[string]any, msg string)  { GetLogger().Warn(fields, msg) }
func Panic(fields map[string]any, msg string) { GetLogger().Panic(fields, msg) }
func Fatal(fields map[string]any, msg string) { GetLogger().Fatal(fields, msg) }

type zapLogger struct {
	base *zap.Logger
}

func newZapLogger(dev bool, level zapcore.Level) Logger {
	enc := zap.NewProductionEncoderConfig()
	newEncoder := zapcore.NewJSONEncoder
	opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)}
	if dev {
		enc = zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		newEncoder = zapcore.NewConsoleEncoder
		opts = append(opts, zap.Development())
	}
	enc.TimeKey = "time"
	enc.MessageKey = "msg"
	enc.LevelKey = "level"

	core := zapcore.NewCore(newEncoder(enc), zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))
	return &zapLogger{base: zap.New(core, opts...)}
}

// write defers field conversion until the level is known to be enabled.
// Panic and fatal entries are always checked in so their terminal action runs.
func (l *zapLogger) write(level zapcore.Level, fields map[string]any, msg string) {
	if ce := l.base.Check(level, msg); ce != nil {
		ce.Write(zapFields(fields)...)
	}
}

func (l *zapLogger) Info(fields map[string]any, msg string)  { l.write(zapcore.InfoLevel, fields, msg) }
func (l *zapLogger) Error(fields map[string]any, msg string) { l.write(zapcore.ErrorLevel, fields, msg) }
func (l *zapLogger) Debug(fields map[string]any, msg string) { l.write(zapcore.DebugLevel, fields, msg) }
func (l *zapLogger) Warn(fields map[string]any, msg string)  { l.write(zapcore.WarnLevel, fields, msg) }
func (l *zapLogger) Panic(fields map[string]any, msg string) { l.write(zapcore.PanicLevel, fields, msg) }
func (l *zapLogger) Fatal(fields map[string]any, msg string) { l.write(zapcore.FatalLevel, fields, msg) }

func (l *zapLogger) With(fields map[string]any) Logger {
	return &zapLogger{base: l.base.With(zapFields(fields)...)}
}

// zapFields orders fields by key so console output is stable between runs.
// Errors are logged under their key with zap's error encoding.
func zapFields(m map[string]any) []zap.Field {
	if len(m) == 0 {
		return nil
	}
	fields := make([]zap.Field, 0, len(m))
	for _, k := range slices.Sorted(maps.Keys(m)) {
		if err, ok := m[k].(error); ok {
			fields = append(fields, zap.NamedError(k, err))
			continue
		}
		fields = append(fields, zap.Any(k, m[k]))
	}
	return fields
}

type noopLogger struct{}

func (n *noopLogger) Info(map[string]any, string)  {}
func (n *noopLogger) Error(map[string]any, string) {}
func (n *noopLogger) Debug(map[string]any, string) {}
func (n *noopLogger) Warn(map[string]any, string)  {}
func (n *noopLogger) Panic(map[string]any, string) {}
func (n *noopLogger) Fatal(map[string]any, string) {}

func (n *noopLogger) With(map[string]any) Logger { return n }

// NewNoopLogger returns a Logger that discards everything, for tests.
func NewNoopLogger() Logger {
	return &noopLogger{}
}
