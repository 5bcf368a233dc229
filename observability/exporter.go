package observability

// https://opentelemetry.io/docs/languages/go/exporters/

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/multierr"
)

type MetricsExporter string

const (
	NoneMetricsExporter       MetricsExporter = "none"
	StdoutMetricsExporter     MetricsExporter = "stdout"
	PrometheusMetricsExporter MetricsExporter = "prometheus"
)

// The stdout reader exports on shutdown anyway, the interval only matters
// for long runs.
const stdoutExportInterval = 10 * time.Second

func ParseMetricsExporter(name string) (MetricsExporter, error) {
	switch exp := MetricsExporter(strings.ToLower(strings.TrimSpace(name))); exp {
	case NoneMetricsExporter, StdoutMetricsExporter, PrometheusMetricsExporter:
		return exp, nil
	case "":
		return NoneMetricsExporter, nil
	default:
		return "", fmt.Errorf("unknown metrics exporter %q", name)
	}
}

// NewMeterProvider builds a meter provider for the exporter kind.
// The returned shutdown writes the last collection into w.
func NewMeterProvider(kind MetricsExporter, w io.Writer) (metric.MeterProvider, func(ctx context.Context) error, error) {
	switch kind {
	case NoneMetricsExporter, "":
		return noop.NewMeterProvider(), func(context.Context) error { return nil }, nil
	case StdoutMetricsExporter:
		return newConsoleMetricsProvider(w, stdoutExportInterval)
	case PrometheusMetricsExporter:
		return newPrometheusMetricsProvider(w)
	}
	return nil, nil, fmt.Errorf("unknown metrics exporter %q", kind)
}

// Serves for test/dev environment.
func newConsoleMetricsProvider(w io.Writer, interval time.Duration) (metric.MeterProvider, func(ctx context.Context) error, error) {
	exporter, err := stdoutmetric.New(stdoutmetric.WithWriter(w))
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(interval),
	)))
	return mp, mp.Shutdown, nil
}

// The registry is private to the provider and dumped in the text
// exposition format on shutdown.
func newPrometheusMetricsProvider(w io.Writer) (metric.MeterProvider, func(ctx context.Context) error, error) {
	reg := promclient.NewRegistry()
	exporter, err := prometheus.New(prometheus.WithRegisterer(reg))
	if err != nil {
		return nil, nil, err
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	shutdown := func(ctx context.Context) error {
		families, err := reg.Gather()
		for _, mf := range families {
			if _, _err := expfmt.MetricFamilyToText(w, mf); _err != nil {
				err = multierr.Append(err, _err)
			}
		}
		return multierr.Append(err, mp.Shutdown(ctx))
	}
	return mp, shutdown, nil
}
