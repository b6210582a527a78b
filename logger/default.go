package logger

import "sync/atomic"

type holder struct{ l Logger }

var defLogger atomic.Pointer[holder]

func init() {
	defLogger.Store(&holder{l: NewSlog(InfoLevel, false)})
}

// GetLogger returns the package default logger. Components fall back to it
// when no logger is configured.
func GetLogger() Logger {
	return defLogger.Load().l
}

// SetLogger replaces the package default logger. A nil logger is ignored.
//
// Components capture the default when they are created, so SetLogger should
// be called before connecting.
func SetLogger(l Logger) {
	if l != nil {
		defLogger.Store(&holder{l: l})
	}
}

// SetLevel sets the level of the package default logger.
func SetLevel(level Level) {
	GetLogger().SetLevel(level)
}

// Fatal logs through the package default logger, then exits.
func Fatal(msg string, keysAndValues ...any) {
	GetLogger().Fatal(msg, keysAndValues...)
}
