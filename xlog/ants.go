package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// AntsXLogger receives the messages of one ants pool. The pool only
// reports recovered worker panics, hence the error level.
type AntsXLogger struct {
	logger XLogger
}

func (l *AntsXLogger) Printf(format string, args ...any) {
	if l == nil || l.logger == nil {
		return
	}
	l.logger.Logf(zapcore.ErrorLevel, format, args...)
}

// NewAntsXLogger tags every message with the pool name.
func NewAntsXLogger(logger XLogger, pool string) *AntsXLogger {
	child := newComponentLogger(logger, "Ants")
	child.logger.Store(child.zap().With(zap.String("pool", pool)))
	return &AntsXLogger{logger: child}
}
