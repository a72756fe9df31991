package log

import (
	stdlog "log"
	"strings"
)

// stdLogWriter adapts a Logger to io.Writer for stdlib log redirection.
type stdLogWriter struct {
	logger Logger
	level  Level
}

func (w stdLogWriter) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")
	switch w.level {
	case DebugLevel:
		w.logger.Debug(msg)
	case WarnLevel:
		w.logger.Warn(msg)
	case ErrorLevel:
		w.logger.Error(msg)
	default:
		w.logger.Info(msg)
	}
	return len(p), nil
}

// RedirectStdLog routes the standard library's default logger (used by
// Pebble among others) through the provided Logger at info level.
func RedirectStdLog(logger Logger) {
	stdlog.SetFlags(0)
	stdlog.SetOutput(stdLogWriter{logger: logger.WithComponent("stdlog"), level: InfoLevel})
}

// ToStdLogger returns a *log.Logger that forwards to the provided Logger at
// the given level, for libraries that require the stdlib type.
func ToStdLogger(logger Logger, level Level) *stdlog.Logger {
	return stdlog.New(stdLogWriter{logger: logger, level: level}, "", 0)
}
