package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

func newTestLogger() (xlog.XLogger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return xlog.NewXLogger(
		xlog.WithXLoggerLevel(xlog.LogLevelDebug),
		xlog.WithXLoggerWriter(buf),
	), buf
}

func TestScenarios(t *testing.T) {
	logger, buf := newTestLogger()
	require.NoError(t, runScenarios(context.Background(), logger, &config{}))
	require.Equal(t, len(scenarios), strings.Count(buf.String(), "scenario passed"))
	require.NotContains(t, buf.String(), "scenario failed")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, runScenarios(ctx, logger, &config{}), context.Canceled)
}

func TestExpect(t *testing.T) {
	require.NoError(t, expect(true, "unused"))
	err := expect(false, "size %d", 3)
	require.EqualError(t, err, "size 3")
}

func TestRunStressSuite(t *testing.T) {
	testcases := []struct {
		name string
		cfg  *config
	}{
		{
			name: "unique dense keys",
			cfg:  &config{seed: 1, ops: 3000, keys: 64},
		},
		{
			name: "unique sparse keys",
			cfg:  &config{seed: 2, ops: 3000, keys: 1 << 20},
		},
		{
			name: "duplicate keys",
			cfg:  &config{seed: 3, ops: 3000, keys: 32, dup: true},
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			report, err := runStressSuite(context.Background(), tc.cfg, 0)
			require.NoError(tt, err)
			require.Equal(tt, int64(report.inserts-report.erases), report.size)
			require.LessOrEqual(tt, report.inserts+report.erases+report.lookups, tc.cfg.ops)
			require.LessOrEqual(tt, float64(report.height), heightBound(report.size))
			if tc.cfg.dup {
				require.Greater(tt, report.size, int64(tc.cfg.keys))
			} else {
				require.LessOrEqual(tt, report.size, int64(tc.cfg.keys))
			}
		})
	}
}

func TestRunStressSuite_Deterministic(t *testing.T) {
	cfg := &config{seed: 42, ops: 1000, keys: 128}
	r1, err := runStressSuite(context.Background(), cfg, 3)
	require.NoError(t, err)
	r2, err := runStressSuite(context.Background(), cfg, 3)
	require.NoError(t, err)
	require.Equal(t, r1, r2)
}

func TestRunStress(t *testing.T) {
	logger, buf := newTestLogger()
	cfg := &config{seed: 7, ops: 500, keys: 64, suites: 6, workers: 2}
	require.NoError(t, runStress(context.Background(), logger, cfg))
	require.Equal(t, cfg.suites, strings.Count(buf.String(), "stress suite passed"))
	require.Contains(t, buf.String(), `"msg":"stress passed"`)

	metrics := &bytes.Buffer{}
	cfg.metrics, cfg.metricsOut = observability.PrometheusMetricsExporter, metrics
	require.NoError(t, runStress(context.Background(), logger, cfg))
	require.Contains(t, metrics.String(), "xtree_stress_suites")
	require.Contains(t, metrics.String(), "xtree_stress_tree_height")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := runStress(ctx, logger, cfg)
	require.ErrorIs(t, err, context.Canceled)
	require.Contains(t, buf.String(), "stress suite failed")
}

func TestApp(t *testing.T) {
	testcases := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{
			name: "scenarios",
			args: []string{"xtree", "--log-level", "error", "scenarios"},
		},
		{
			name: "stress",
			args: []string{"xtree", "-l", "error", "-f", "text", "stress", "--seed", "9", "--ops", "300", "--keys", "32", "--suites", "3", "--dup"},
		},
		{
			name:    "unknown log format",
			args:    []string{"xtree", "--log-format", "xml", "scenarios"},
			wantErr: true,
		},
		{
			name:    "unknown metrics exporter",
			args:    []string{"xtree", "-l", "error", "stress", "--metrics", "otlp"},
			wantErr: true,
		},
		{
			name:    "non-positive ops",
			args:    []string{"xtree", "-l", "error", "stress", "--ops", "0"},
			wantErr: true,
		},
		{
			name:    "timeout",
			args:    []string{"xtree", "-l", "error", "--timeout", "1ns", "stress", "--ops", "100000", "--suites", "2"},
			wantErr: true,
		},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			err := newApp().Run(tc.args)
			if tc.wantErr {
				require.Error(tt, err)
				return
			}
			require.NoError(tt, err)
		})
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := &config{logFormat: "json", timeout: time.Second}
	require.NoError(t, cfg.validate())

	cfg.logFormat, cfg.timeout = "yaml", 0
	err := cfg.validate()
	require.ErrorContains(t, err, `unknown log format "yaml"`)
	require.ErrorContains(t, err, "timeout must be positive")

	cfg = &config{}
	err = cfg.validateStress()
	require.ErrorContains(t, err, "ops must be positive")
	require.ErrorContains(t, err, "keys must be positive")
	require.ErrorContains(t, err, "suites must be positive")

	cfg.applyStressDefaults()
	require.NotZero(t, cfg.seed)
	require.Positive(t, cfg.workers)
}
