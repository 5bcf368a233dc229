package xlog

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var _ xlogCore = (*consoleCore)(nil)

type consoleCore struct {
	lvlEnabler zapcore.LevelEnabler
	lvlEnc     zapcore.LevelEncoder
	tsEnc      zapcore.TimeEncoder
	ws         zapcore.WriteSyncer
	enc        logEncoderType
	core       zapcore.Core
}

func (cc *consoleCore) timeEncoder() zapcore.TimeEncoder     { return cc.tsEnc }
func (cc *consoleCore) levelEncoder() zapcore.LevelEncoder   { return cc.lvlEnc }
func (cc *consoleCore) writeSyncer() zapcore.WriteSyncer     { return cc.ws }
func (cc *consoleCore) encoderType() logEncoderType          { return cc.enc }
func (cc *consoleCore) Enabled(lvl zapcore.Level) bool       { return cc.lvlEnabler.Enabled(lvl) }
func (cc *consoleCore) With(fields []zap.Field) zapcore.Core { return cc.core.With(fields) }
func (cc *consoleCore) Sync() error                          { return cc.core.Sync() }
func (cc *consoleCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	return cc.core.Check(ent, ce)
}

func (cc *consoleCore) Write(ent zapcore.Entry, fields []zap.Field) error {
	return cc.core.Write(ent, fields)
}

var consoleCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     "callAt",
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   "fn",
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

// The component loggers (fx, ants) drop the caller and function keys,
// the caller is always the adapter itself.
var componentCoreEncoderCfg = zapcore.EncoderConfig{
	MessageKey:    "msg",
	LevelKey:      "lvl",
	TimeKey:       "ts",
	CallerKey:     coreKeyIgnored,
	EncodeCaller:  zapcore.ShortCallerEncoder,
	FunctionKey:   coreKeyIgnored,
	NameKey:       "component",
	EncodeName:    zapcore.FullNameEncoder,
	StacktraceKey: coreKeyIgnored,
}

func newConsoleCore(
	lvlEnabler zapcore.LevelEnabler,
	encoder logEncoderType,
	ws zapcore.WriteSyncer,
	lvlEnc zapcore.LevelEncoder,
	tsEnc zapcore.TimeEncoder,
) xlogCore {
	cc := &consoleCore{
		lvlEnabler: lvlEnabler,
		lvlEnc:     lvlEnc,
		tsEnc:      tsEnc,
		ws:         ws,
		enc:        encoder,
	}
	config := consoleCoreEncoderCfg
	config.EncodeLevel, config.EncodeTime = lvlEnc, tsEnc
	cc.core = zapcore.NewCore(cc.enc.newEncoder(config), cc.ws, cc.lvlEnabler)
	return cc
}

// wrapComponentCore shares the writer and follows the level changes
// of the parent core.
func wrapComponentCore(core xlogCore) xlogCore {
	cc := &consoleCore{
		lvlEnabler: zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return core.Enabled(l)
		}),
		lvlEnc: core.levelEncoder(),
		tsEnc:  core.timeEncoder(),
		ws:     core.writeSyncer(),
		enc:    core.encoderType(),
	}
	config := componentCoreEncoderCfg
	config.EncodeLevel, config.EncodeTime = cc.lvlEnc, cc.tsEnc
	cc.core = zapcore.NewCore(cc.enc.newEncoder(config), cc.ws, cc.lvlEnabler)
	return cc
}
