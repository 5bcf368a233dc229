package infra

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

var initPC = caller()

func caller() Frame {
	var PCs [3]uintptr
	n := runtime.Callers(2, PCs[:])
	frames := runtime.CallersFrames(PCs[:n])
	frame, _ := frames.Next()
	return Frame(frame.PC)
}

func TestFrameFormat(t *testing.T) {
	testcases := []struct {
		Frame
		format string
		want   string
	}{
		{initPC, "%s", "err_stack_test.go"},
		{initPC, "%n", "init"},
		{initPC, "%d", "15"},
		{initPC, "%v", "err_stack_test.go:15"},
		{Frame(0), "%s", "unknownFile"},
		{Frame(0), "%n", "unknownFunc"},
		{Frame(0), "%d", "0"},
	}

	for _, tc := range testcases {
		require.Equal(t, tc.want, fmt.Sprintf(tc.format, tc.Frame))
	}
	require.True(t, strings.HasSuffix(fmt.Sprintf("%+v", initPC), "err_stack_test.go:15"))
}

func TestFrameMarshalText(t *testing.T) {
	text, err := initPC.MarshalText()
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(text), "github.com/benz9527/xtree/lib/infra.init "))
	require.True(t, strings.HasSuffix(string(text), "err_stack_test.go:15"))

	text, err = Frame(0).MarshalText()
	require.NoError(t, err)
	require.Equal(t, "unknownFrame", string(text))
}

func TestNewErrorStack(t *testing.T) {
	es := NewErrorStack("rbtree broken")
	require.Equal(t, "rbtree broken", es.Error())
	require.NotEmpty(t, es.Frames())
	require.Empty(t, es.Unwrap())
}

func TestWrapErrorStackWithMessage(t *testing.T) {
	require.Nil(t, WrapErrorStackWithMessage(nil, "nothing"))

	errA, errB := errors.New("a"), errors.New("b")
	err := WrapErrorStackWithMessage(multierr.Combine(errA, errB), "validate")
	require.Error(t, err)
	require.Equal(t, "validate: a; b", err.Error())
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)

	es, ok := err.(ErrorStack)
	require.True(t, ok)
	require.Len(t, es.Unwrap(), 2)

	rewrapped := WrapErrorStackWithMessage(err, "outer")
	require.Equal(t, es.Frames(), rewrapped.(ErrorStack).Frames())
	require.ErrorIs(t, rewrapped, errB)
}

func TestErrorStackMarshalLogObject(t *testing.T) {
	err := WrapErrorStackWithMessage(errors.New("red violation"), "validate")
	enc := zapcore.NewMapObjectEncoder()
	require.NoError(t, err.(ErrorStack).MarshalLogObject(enc))
	require.Equal(t, "validate", enc.Fields["error"])
	require.Equal(t, []any{"red violation"}, enc.Fields["errors"])
	require.NotEmpty(t, enc.Fields["errorStack"])
}
