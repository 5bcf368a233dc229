package xlog

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type logLevel string

const (
	LogLevelDebug logLevel = "DEBUG"
	LogLevelInfo  logLevel = "INFO"
	LogLevelWarn  logLevel = "WARN"
	LogLevelError logLevel = "ERROR"
)

var zapLevels = map[logLevel]zapcore.Level{
	LogLevelDebug: zapcore.DebugLevel,
	LogLevelInfo:  zapcore.InfoLevel,
	LogLevelWarn:  zapcore.WarnLevel,
	LogLevelError: zapcore.ErrorLevel,
}

// zapLevel falls back to debug for the unknown names.
func (lvl logLevel) zapLevel() zapcore.Level {
	if l, ok := zapLevels[logLevel(strings.ToUpper(strings.TrimSpace(string(lvl))))]; ok {
		return l
	}
	return zapcore.DebugLevel
}

func (lvl logLevel) String() string {
	return string(lvl)
}

type logEncoderType uint8

const (
	JSON logEncoderType = iota
	PlainText
	_encMax
)

// An empty key drops the entry field.
const coreKeyIgnored = ""

func (typ logEncoderType) newEncoder(cfg zapcore.EncoderConfig) zapcore.Encoder {
	if typ == PlainText {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

// xlogCore exposes the settings a component core copies from its parent.
type xlogCore interface {
	timeEncoder() zapcore.TimeEncoder
	levelEncoder() zapcore.LevelEncoder
	writeSyncer() zapcore.WriteSyncer
	encoderType() logEncoderType

	zapcore.Core
}

// XLogger is the logger of the harness and of the fx and ants adapters.
// Failures carrying an infra.ErrorStack go through ErrorStack so that
// the frames are written as JSON fields.
type XLogger interface {
	zap() *zap.Logger

	IncreaseLogLevel(level zapcore.Level)
	Level() string
	Sync() error

	Debug(msg string, fields ...zap.Field)
	Info(msg string, fields ...zap.Field)
	Warn(msg string, fields ...zap.Field)
	Error(err error, msg string, fields ...zap.Field)
	ErrorStack(err error, msg string, fields ...zap.Field)

	Logf(lvl zapcore.Level, format string, args ...any)
}
