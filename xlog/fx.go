package xlog

import (
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FxXLogger prints the fx lifecycle events of the harness.
type FxXLogger struct {
	logger XLogger
}

var _ fxevent.Logger = (*FxXLogger)(nil)

type fxEntry struct {
	lvl    zapcore.Level
	msg    string
	err    error
	fields []zap.Field
}

// outcome names a successful step "<step> <done>" at debug level
// and a failed step "<step> failed" at error level.
func outcome(step, done string, err error, fields ...zap.Field) fxEntry {
	if err != nil {
		return fxEntry{lvl: zapcore.ErrorLevel, msg: step + " failed", err: err, fields: fields}
	}
	if done != "" {
		step += " " + done
	}
	return fxEntry{lvl: zapcore.DebugLevel, msg: step, fields: fields}
}

func failure(step string, err error, fields ...zap.Field) []fxEntry {
	if err == nil {
		return nil
	}
	return []fxEntry{outcome(step, "", err, fields...)}
}

func hookFields(fn, caller string) []zap.Field {
	return []zap.Field{zap.String("function", fn), zap.String("caller", caller)}
}

func fxEntries(event fxevent.Event) []fxEntry {
	switch e := event.(type) {
	case *fxevent.OnStartExecuting:
		return []fxEntry{outcome("HOOK OnStart", "", nil, hookFields(e.FunctionName, e.CallerName)...)}
	case *fxevent.OnStartExecuted:
		return []fxEntry{outcome("HOOK OnStart", "executed", e.Err,
			append(hookFields(e.FunctionName, e.CallerName), zap.Duration("in", e.Runtime))...)}
	case *fxevent.OnStopExecuting:
		return []fxEntry{outcome("HOOK OnStop", "", nil, hookFields(e.FunctionName, e.CallerName)...)}
	case *fxevent.OnStopExecuted:
		return []fxEntry{outcome("HOOK OnStop", "executed", e.Err,
			append(hookFields(e.FunctionName, e.CallerName), zap.Duration("in", e.Runtime))...)}
	case *fxevent.Supplied:
		return []fxEntry{outcome("SUPPLY", "", e.Err, zap.String("type", e.TypeName), zap.String("module", e.ModuleName))}
	case *fxevent.Provided:
		entries := make([]fxEntry, 0, len(e.OutputTypeNames)+1)
		for _, rtype := range e.OutputTypeNames {
			entries = append(entries, outcome("PROVIDE", "", nil,
				zap.String("rtype", rtype),
				zap.String("constructor", e.ConstructorName),
				zap.Bool("private", e.Private),
			))
		}
		return append(entries, failure("PROVIDE", e.Err, zap.Strings("stacktrace", e.StackTrace))...)
	case *fxevent.Decorated:
		entries := make([]fxEntry, 0, len(e.OutputTypeNames)+1)
		for _, rtype := range e.OutputTypeNames {
			entries = append(entries, outcome("DECORATE", "", nil,
				zap.String("rtype", rtype),
				zap.String("decorator", e.DecoratorName),
			))
		}
		return append(entries, failure("DECORATE", e.Err, zap.Strings("stacktrace", e.StackTrace))...)
	case *fxevent.Invoking:
		return []fxEntry{outcome("INVOKING", "", nil, zap.String("function", e.FunctionName))}
	case *fxevent.Invoked:
		return failure("INVOKE", e.Err, zap.String("function", e.FunctionName), zap.String("trace", e.Trace))
	case *fxevent.Stopping:
		return []fxEntry{{lvl: zapcore.InfoLevel, msg: "STOPPING", fields: []zap.Field{zap.String("signal", e.Signal.String())}}}
	case *fxevent.Stopped:
		return failure("STOP", e.Err)
	case *fxevent.RollingBack:
		return []fxEntry{{lvl: zapcore.WarnLevel, msg: "START failed, rolling back", fields: []zap.Field{zap.Error(e.StartErr)}}}
	case *fxevent.RolledBack:
		return failure("ROLLBACK", e.Err)
	case *fxevent.Started:
		if e.Err != nil {
			return failure("START", e.Err)
		}
		return []fxEntry{outcome("RUNNING", "", nil)}
	case *fxevent.LoggerInitialized:
		return []fxEntry{outcome("LOGGER", "initialized", e.Err, zap.String("constructor", e.ConstructorName))}
	}
	return nil
}

func (l *FxXLogger) LogEvent(event fxevent.Event) {
	if l == nil || l.logger == nil {
		return
	}
	for _, ent := range fxEntries(event) {
		switch {
		case ent.err != nil:
			l.logger.Error(ent.err, ent.msg, ent.fields...)
		case ent.lvl == zapcore.WarnLevel:
			l.logger.Warn(ent.msg, ent.fields...)
		case ent.lvl == zapcore.InfoLevel:
			l.logger.Info(ent.msg, ent.fields...)
		default:
			l.logger.Debug(ent.msg, ent.fields...)
		}
	}
}

func NewFxXLogger(logger XLogger) *FxXLogger {
	return &FxXLogger{
		logger: newComponentLogger(logger, "Fx"),
	}
}
