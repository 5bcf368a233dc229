package infra

import (
	"errors"
	"fmt"
	"io"
	"path"
	"runtime"
	"strconv"
	"strings"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// References:
// https://github.com/pkg/errors/blob/master/stack.go

const maxStackDepth = 32

type Frame uintptr

func (frame Frame) pc() uintptr {
	return uintptr(frame) - 1
}

func (frame Frame) fileLine() (string, int) {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFile", 0
	}
	return fn.FileLine(frame.pc())
}

func (frame Frame) name() string {
	fn := runtime.FuncForPC(frame.pc())
	if fn == nil {
		return "unknownFunc"
	}
	return fn.Name()
}

// Format characters:
// %s - source file
// %d - source line
// %n - function name
// %v - equivalent to %s:%d
// %+s - function name and full path separated by \n\t
// %+v - equivalent to %+s:%d
func (frame Frame) Format(s fmt.State, verb rune) {
	file, line := frame.fileLine()
	switch verb {
	case 's':
		if s.Flag('+') {
			_, _ = io.WriteString(s, frame.name())
			_, _ = io.WriteString(s, "\n\t")
			_, _ = io.WriteString(s, file)
		} else {
			_, _ = io.WriteString(s, path.Base(file))
		}
	case 'd':
		_, _ = io.WriteString(s, strconv.Itoa(line))
	case 'n':
		_, _ = io.WriteString(s, funcName(frame.name()))
	case 'v':
		frame.Format(s, 's')
		_, _ = io.WriteString(s, ":")
		frame.Format(s, 'd')
	}
}

func (frame Frame) MarshalText() ([]byte, error) {
	name := frame.name()
	if name == "unknownFunc" {
		return []byte("unknownFrame"), nil
	}
	file, line := frame.fileLine()
	builder := strings.Builder{}
	_, _ = builder.WriteString(name)
	_, _ = builder.WriteString(" ")
	_, _ = builder.WriteString(file)
	_, _ = builder.WriteString(":")
	_, _ = builder.WriteString(strconv.Itoa(line))
	return []byte(builder.String()), nil
}

func funcName(name string) string {
	i := strings.LastIndex(name, "/")
	name = name[i+1:]
	i = strings.Index(name, ".")
	return name[i+1:]
}

// ErrorStack carries one or more errors together with the call stack
// captured where it was created. It can be inlined into a zap entry.
type ErrorStack interface {
	error
	zapcore.ObjectMarshaler
	Unwrap() []error
	Frames() []Frame
}

var _ ErrorStack = (*errorStack)(nil)

type errorStack struct {
	msg    string
	err    error
	frames []Frame
}

func callers(skip int) []Frame {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip, pcs)
	frames := make([]Frame, 0, n)
	for i := 0; i < n; i++ {
		frames = append(frames, Frame(pcs[i]))
	}
	return frames
}

func (es *errorStack) Error() string {
	if es.err == nil {
		return es.msg
	}
	if len(es.msg) == 0 {
		return es.err.Error()
	}
	return es.msg + ": " + es.err.Error()
}

func (es *errorStack) Unwrap() []error {
	return multierr.Errors(es.err)
}

func (es *errorStack) Frames() []Frame {
	return es.frames
}

func (es *errorStack) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("error", es.msg)
	return multierr.Combine(
		enc.AddArray("errors", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
			for _, err := range multierr.Errors(es.err) {
				arr.AppendString(err.Error())
			}
			return nil
		})),
		enc.AddArray("errorStack", zapcore.ArrayMarshalerFunc(func(arr zapcore.ArrayEncoder) error {
			for _, frame := range es.frames {
				text, _ := frame.MarshalText()
				arr.AppendByteString(text)
			}
			return nil
		})),
	)
}

func NewErrorStack(msg string) ErrorStack {
	return &errorStack{
		msg:    msg,
		frames: callers(3),
	}
}

// WrapErrorStackWithMessage returns nil if err is nil.
// Wrapping an existing ErrorStack keeps its original frames.
func WrapErrorStackWithMessage(err error, msg string) error {
	if err == nil {
		return nil
	}
	var es *errorStack
	if errors.As(err, &es) && es != nil {
		return &errorStack{
			msg:    msg,
			err:    err,
			frames: es.frames,
		}
	}
	return &errorStack{
		msg:    msg,
		err:    err,
		frames: callers(3),
	}
}
