package observability

import (
	"context"

	"github.com/samber/lo"
	otelruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	StressStatsName = "xtree/stress"
)

var (
	insertOp = metric.WithAttributeSet(attribute.NewSet(attribute.String("op", "insert")))
	eraseOp  = metric.WithAttributeSet(attribute.NewSet(attribute.String("op", "erase")))
	countOp  = metric.WithAttributeSet(attribute.NewSet(attribute.String("op", "count")))
	passed   = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("passed", true)))
	failed   = metric.WithAttributeSet(attribute.NewSet(attribute.Bool("passed", false)))
)

// SuiteResult is the outcome of one stress suite.
type SuiteResult struct {
	Inserts int
	Erases  int
	Lookups int
	Size    int64
	Height  int64
	Passed  bool
}

type StressStats struct {
	ops        metric.Int64Counter
	suites     metric.Int64Counter
	treeSize   metric.Int64Histogram
	treeHeight metric.Int64Histogram
}

// RecordSuite is safe to call from the pool workers.
func (stats *StressStats) RecordSuite(res SuiteResult) {
	if stats == nil {
		return
	}
	ctx := context.Background()
	stats.ops.Add(ctx, int64(res.Inserts), insertOp)
	stats.ops.Add(ctx, int64(res.Erases), eraseOp)
	stats.ops.Add(ctx, int64(res.Lookups), countOp)
	if !res.Passed {
		stats.suites.Add(ctx, 1, failed)
		return
	}
	stats.suites.Add(ctx, 1, passed)
	stats.treeSize.Record(ctx, res.Size)
	stats.treeHeight.Record(ctx, res.Height)
}

func NewStressStats(mp metric.MeterProvider) *StressStats {
	meter := mp.Meter(StressStatsName, metric.WithInstrumentationVersion(otelruntime.Version()))
	return &StressStats{
		ops: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.stress.ops",
			metric.WithDescription("The number of applied tree operations."),
		)),
		suites: lo.Must[metric.Int64Counter](meter.Int64Counter(
			"xtree.stress.suites",
			metric.WithDescription("The number of finished stress suites."),
		)),
		treeSize: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xtree.stress.tree.size",
			metric.WithDescription("The element count of a tree at the end of a passed suite."),
		)),
		treeHeight: lo.Must[metric.Int64Histogram](meter.Int64Histogram(
			"xtree.stress.tree.height",
			metric.WithDescription("The height of a tree at the end of a passed suite."),
		)),
	}
}

// StartRuntimeStats registers the go runtime instruments on the provider.
func StartRuntimeStats(mp metric.MeterProvider) error {
	return otelruntime.Start(otelruntime.WithMeterProvider(mp))
}
