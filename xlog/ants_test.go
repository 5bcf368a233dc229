package xlog

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	antsv2 "github.com/panjf2000/ants/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

type testMemOutWriter struct {
	lock sync.Mutex
	data bytes.Buffer
}

func (w *testMemOutWriter) Write(p []byte) (n int, err error) {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.data.Write(p)
}

func (w *testMemOutWriter) String() string {
	w.lock.Lock()
	defer w.lock.Unlock()
	return w.data.String()
}

func (w *testMemOutWriter) Reset() {
	w.lock.Lock()
	defer w.lock.Unlock()
	w.data.Reset()
}

func TestAntsXLogger_ParentLogLevelChanged(t *testing.T) {
	var (
		parentLogger XLogger      = nil
		logger       *AntsXLogger = nil
	)
	logger.Printf("test %d", 123)

	w := &testMemOutWriter{}
	opts := []XLoggerOption{
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerEncoder(JSON),
		WithXLoggerWriter(w),
		WithXLoggerTimeEncoder(zapcore.ISO8601TimeEncoder),
		WithXLoggerLevelEncoder(zapcore.CapitalLevelEncoder),
	}
	parentLogger = NewXLogger(opts...)
	logger = NewAntsXLogger(parentLogger, "tree")

	parentLogger.IncreaseLogLevel(zapcore.ErrorLevel + 1)
	logger.Printf("test %d", 123)
	require.Empty(t, w.String())

	parentLogger.IncreaseLogLevel(zapcore.DebugLevel)
	logger.Printf("test %d", 456)
	_ = parentLogger.Sync()
	out := w.String()
	require.Contains(t, out, `"component":"Ants"`)
	require.Contains(t, out, `"pool":"tree"`)
	require.Contains(t, out, `"msg":"test 456"`)
	require.Contains(t, out, `"lvl":"ERROR"`)
	require.NotContains(t, out, "callAt")
}

func TestAntsXLogger_AntsPool(t *testing.T) {
	w := &testMemOutWriter{}
	parentLogger := NewXLogger(
		WithXLoggerLevel(LogLevelDebug),
		WithXLoggerWriter(w),
	)
	logger := NewAntsXLogger(parentLogger, "stress")

	p, err := antsv2.NewPool(10, antsv2.WithLogger(logger))
	require.NoError(t, err)
	defer p.Release()

	var wg sync.WaitGroup
	wg.Add(1)
	err = p.Submit(func() {
		defer wg.Done()
		parentLogger.Logf(LogLevelDebug.zapLevel(), "test %d", 123)
	})
	require.NoError(t, err)
	wg.Wait()

	err = p.Submit(func() {
		panic("xlogger panic in ants pool")
	})
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return strings.Contains(w.String(), "xlogger panic in ants pool")
	}, time.Second, 10*time.Millisecond)
	require.Contains(t, w.String(), `"pool":"stress"`)
	require.Contains(t, w.String(), `"msg":"test 123"`)
	_ = parentLogger.Sync()
}
