package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader sdkmetric.Reader) map[string]metricdata.Metrics {
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	res := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			res[m.Name] = m
		}
	}
	return res
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key attribute.Key) map[string]int64 {
	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	res := make(map[string]int64)
	for _, dp := range sum.DataPoints {
		v, ok := dp.Attributes.Value(key)
		require.True(t, ok)
		res[v.Emit()] += dp.Value
	}
	return res
}

func TestStressStats(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() {
		require.NoError(t, mp.Shutdown(context.Background()))
	}()

	stats := NewStressStats(mp)
	stats.RecordSuite(SuiteResult{Inserts: 6, Erases: 3, Lookups: 1, Size: 3, Height: 2, Passed: true})
	stats.RecordSuite(SuiteResult{Inserts: 4, Erases: 1, Lookups: 2, Size: 3, Height: 3, Passed: true})
	stats.RecordSuite(SuiteResult{Inserts: 1, Passed: false})

	metrics := collect(t, reader)
	require.Equal(t, map[string]int64{"insert": 11, "erase": 4, "count": 3},
		sumByAttr(t, metrics["xtree.stress.ops"], "op"))
	require.Equal(t, map[string]int64{"true": 2, "false": 1},
		sumByAttr(t, metrics["xtree.stress.suites"], "passed"))

	height, ok := metrics["xtree.stress.tree.height"].Data.(metricdata.Histogram[int64])
	require.True(t, ok)
	require.Len(t, height.DataPoints, 1)
	require.Equal(t, uint64(2), height.DataPoints[0].Count)
	require.Equal(t, int64(5), height.DataPoints[0].Sum)

	var nilStats *StressStats
	require.NotPanics(t, func() {
		nilStats.RecordSuite(SuiteResult{Passed: true})
	})
}

func TestParseMetricsExporter(t *testing.T) {
	testcases := []struct {
		name     string
		expected MetricsExporter
		wantErr  bool
	}{
		{"", NoneMetricsExporter, false},
		{"none", NoneMetricsExporter, false},
		{" Stdout", StdoutMetricsExporter, false},
		{"PROMETHEUS", PrometheusMetricsExporter, false},
		{"otlp", "", true},
	}
	for _, tc := range testcases {
		exp, err := ParseMetricsExporter(tc.name)
		if tc.wantErr {
			require.Error(t, err)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tc.expected, exp)
	}
}

func TestNewMeterProvider(t *testing.T) {
	testcases := []struct {
		kind     MetricsExporter
		contains string
	}{
		{NoneMetricsExporter, ""},
		{StdoutMetricsExporter, "xtree.stress.ops"},
		{PrometheusMetricsExporter, "xtree_stress_ops"},
	}
	for _, tc := range testcases {
		t.Run(string(tc.kind), func(tt *testing.T) {
			buf := &bytes.Buffer{}
			mp, shutdown, err := NewMeterProvider(tc.kind, buf)
			require.NoError(tt, err)
			require.NoError(tt, StartRuntimeStats(mp))
			NewStressStats(mp).RecordSuite(SuiteResult{Inserts: 1, Size: 1, Height: 1, Passed: true})
			require.NoError(tt, shutdown(context.Background()))
			if tc.contains == "" {
				require.Zero(tt, buf.Len())
				return
			}
			require.Contains(tt, buf.String(), tc.contains)
		})
	}

	_, _, err := NewMeterProvider("otlp", &bytes.Buffer{})
	require.Error(t, err)
}
