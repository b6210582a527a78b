package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"time"

	"github.com/phsym/console-slog"
)

// levelFatal sits above slog.LevelError so fatal records stay distinguishable
// in the output.
const levelFatal = slog.LevelError + 4

var slogLevels = map[Level]slog.Level{
	DebugLevel: slog.LevelDebug,
	InfoLevel:  slog.LevelInfo,
	WarnLevel:  slog.LevelWarn,
	ErrorLevel: slog.LevelError,
	FatalLevel: levelFatal,
}

func toSlogLevel(level Level) slog.Level {
	if l, ok := slogLevels[level]; ok {
		return l
	}

	return slog.LevelError
}

// SlogLogger implements Logger on top of log/slog. The level is shared with
// every child created by With.
type SlogLogger struct {
	logger *slog.Logger
	level  *slog.LevelVar
}

var _ Logger = (*SlogLogger)(nil)

// NewSlog creates a slog based logger writing to stdout.
func NewSlog(level Level, addSource bool) Logger {
	return NewSlogWithWriter(os.Stdout, level, addSource)
}

// NewSlogWithWriter creates a slog based logger writing to w.
//
// When the ENV environment variable is "development" the human readable
// console handler is used, otherwise records are emitted as JSON with the
// timestamp under "ts".
func NewSlogWithWriter(w io.Writer, level Level, addSource bool) Logger {
	lv := &slog.LevelVar{}
	lv.Set(toSlogLevel(level))

	var handler slog.Handler
	if os.Getenv("ENV") == "development" {
		handler = console.NewHandler(w, &console.HandlerOptions{AddSource: addSource, Level: lv})
	} else {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{AddSource: addSource, Level: lv, ReplaceAttr: replaceAttr})
	}

	return &SlogLogger{logger: slog.New(handler), level: lv}
}

func replaceAttr(_ []string, a slog.Attr) slog.Attr {
	switch a.Key {
	case slog.TimeKey:
		a.Key = "ts"
	case slog.LevelKey:
		if lv, ok := a.Value.Any().(slog.Level); ok && lv >= levelFatal {
			a.Value = slog.StringValue("FATAL")
		}
	}

	return a
}

func (l *SlogLogger) Debug(msg string, keysAndValues ...any) {
	l.log(slog.LevelDebug, msg, keysAndValues)
}

func (l *SlogLogger) Info(msg string, keysAndValues ...any) {
	l.log(slog.LevelInfo, msg, keysAndValues)
}

func (l *SlogLogger) Warn(msg string, keysAndValues ...any) {
	l.log(slog.LevelWarn, msg, keysAndValues)
}

func (l *SlogLogger) Error(msg string, keysAndValues ...any) {
	l.log(slog.LevelError, msg, keysAndValues)
}

func (l *SlogLogger) Fatal(msg string, keysAndValues ...any) {
	l.log(levelFatal, msg, keysAndValues)
	os.Exit(1)
}

// With returns a child logger sharing the parent's level.
func (l *SlogLogger) With(keyValues ...any) Logger {
	return &SlogLogger{logger: l.logger.With(keyValues...), level: l.level}
}

func (l *SlogLogger) Level() Level {
	cur := l.level.Level()
	for level, sl := range slogLevels {
		if sl == cur {
			return level
		}
	}

	return ErrorLevel
}

func (l *SlogLogger) SetLevel(level Level) {
	l.level.Set(toSlogLevel(level))
}

// log must be called directly by an exported logging method: the caller pc
// is taken at a fixed depth.
func (l *SlogLogger) log(level slog.Level, msg string, args []any) {
	ctx := context.Background()
	if !l.logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // runtime.Callers, log, exported method
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = l.logger.Handler().Handle(ctx, r)
}
