// Package log adapts zap to the kratos logger interface.
package log

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ log.Logger = (*ZapLogger)(nil)

// Output formats accepted by New.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// ZapLogger is a kratos logger backed by zap.
type ZapLogger struct {
	log  *zap.Logger
	Sync func() error
}

// NewZapLogger returns a zap logger writing to w.
func NewZapLogger(w io.Writer, encoder zapcore.Encoder, level zap.AtomicLevel, opts ...zap.Option) *ZapLogger {
	core := zapcore.NewCore(encoder, zapcore.AddSync(w), level)
	zapLogger := zap.New(core, opts...)
	return &ZapLogger{log: zapLogger, Sync: zapLogger.Sync}
}

// Log implements log.Logger.
func (l *ZapLogger) Log(level log.Level, keyvals ...interface{}) error {
	if len(keyvals) == 0 || len(keyvals)%2 != 0 {
		l.log.Warn(fmt.Sprint("Keyvalues must appear in pairs: ", keyvals))
		return nil
	}

	fields := make([]zap.Field, 0, len(keyvals)/2+1)
	fields = append(fields, zap.String("caller", getCaller()))
	var msg string
	for i := 0; i < len(keyvals); i += 2 {
		key := fmt.Sprint(keyvals[i])
		// log.Helper puts the formatted message under "msg"
		if key == log.DefaultMessageKey {
			msg = fmt.Sprint(keyvals[i+1])
			continue
		}
		fields = append(fields, zap.Any(key, fmt.Sprint(keyvals[i+1])))
	}

	switch level {
	case log.LevelDebug:
		l.log.Debug(msg, fields...)
	case log.LevelInfo:
		l.log.Info(msg, fields...)
	case log.LevelWarn:
		l.log.Warn(msg, fields...)
	case log.LevelError:
		l.log.Error(msg, fields...)
	case log.LevelFatal:
		l.log.Fatal(msg, fields...)
	}
	return nil
}

// New returns a stdout logger in the given format; anything other than
// FormatJSON falls back to console output.
func New(format string, lvl zapcore.Level) *ZapLogger {
	if strings.EqualFold(format, FormatJSON) {
		return NewJSON(os.Stdout, lvl)
	}
	return NewConsole(os.Stdout, lvl)
}

// NewConsole creates a human readable logger.
func NewConsole(w io.Writer, lvl zapcore.Level) *ZapLogger {
	eConfig := zapcore.EncoderConfig{
		TimeKey:        "t",
		LevelKey:       "level",
		NameKey:        "logger",
		MessageKey:     "msg",
		StacktraceKey:  "stack",
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}
	return NewZapLogger(w,
		zapcore.NewConsoleEncoder(eConfig),
		zap.NewAtomicLevelAt(lvl),
		zap.AddStacktrace(zap.NewAtomicLevelAt(zapcore.ErrorLevel)),
	)
}

// NewJSON creates a JSON logger.
func NewJSON(w io.Writer, lvl zapcore.Level) *ZapLogger {
	eConfig := zap.NewProductionEncoderConfig()
	eConfig.EncodeDuration = zapcore.StringDurationEncoder
	eConfig.EncodeTime = timeEncoder
	eConfig.CallerKey = "" // caller is added by Log

	return NewZapLogger(w,
		zapcore.NewJSONEncoder(eConfig),
		zap.NewAtomicLevelAt(lvl),
		zap.AddStacktrace(zap.NewAtomicLevelAt(zapcore.ErrorLevel)),
	)
}

// ParseLevel maps a level name to a zap level. Unknown names yield info.
func ParseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func timeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("2006-01-02 15:04:05.000"))
}

// skipPatterns are path fragments of logging plumbing that never count as the caller.
var skipPatterns = []string{
	"go-kratos/kratos",
	"pkg/log/zap.go",
}

// getCaller returns file:line of the first frame outside the logging plumbing.
func getCaller() string {
	const maxDepth = 15
	for i := 3; i < maxDepth; i++ {
		_, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		if skipFrame(file) {
			continue
		}
		return formatCaller(file, line)
	}
	return "unknown"
}

func skipFrame(file string) bool {
	for _, pattern := range skipPatterns {
		if strings.Contains(file, pattern) {
			return true
		}
	}
	return false
}

// formatCaller trims file to the path below the module root.
func formatCaller(file string, line int) string {
	for _, marker := range []string{"/internal/", "/pkg/", "/cmd/"} {
		if idx := strings.LastIndex(file, marker); idx != -1 {
			return fmt.Sprintf("%s:%d", file[idx+1:], line)
		}
	}
	parts := strings.Split(file, "/")
	if len(parts) >= 2 {
		return fmt.Sprintf("%s/%s:%d", parts[len(parts)-2], parts[len(parts)-1], line)
	}
	return fmt.Sprintf("%s:%d", file, line)
}
