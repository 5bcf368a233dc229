package main

import (
	"context"
	"fmt"
	"math"
	randv2 "math/rand/v2"
	"os"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/samber/lo"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/tree"
	"github.com/benz9527/xtree/observability"
	"github.com/benz9527/xtree/xlog"
)

type suiteReport struct {
	id      int
	inserts int
	erases  int
	lookups int
	size    int64
	height  int64
}

func (r suiteReport) result(passed bool) observability.SuiteResult {
	return observability.SuiteResult{
		Inserts: r.inserts,
		Erases:  r.erases,
		Lookups: r.lookups,
		Size:    r.size,
		Height:  r.height,
		Passed:  passed,
	}
}

func (r suiteReport) fields() []zap.Field {
	return []zap.Field{
		zap.Int("suite", r.id),
		zap.Int("inserts", r.inserts),
		zap.Int("erases", r.erases),
		zap.Int("lookups", r.lookups),
		zap.Int64("size", r.size),
		zap.Int64("height", r.height),
	}
}

// heightBound is the red-black upper bound of the longest root-to-leaf
// path in nodes.
func heightBound(size int64) float64 {
	return 2 * math.Log2(float64(size+1))
}

// runStressSuite drives one tree against a multiplicity model. Every
// operation is followed by a full rule validation.
func runStressSuite(ctx context.Context, cfg *config, id int) (report suiteReport, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = infra.NewErrorStack(fmt.Sprintf("suite %d panic: %v", id, r))
		}
	}()

	var opts []tree.RBTreeOpt[int, int]
	if cfg.dup {
		opts = append(opts, tree.WithRBTreeAllowDuplicates[int, int]())
	}
	t := tree.NewRBTree[int, int](opts...)
	rng := randv2.New(randv2.NewPCG(cfg.seed, uint64(id)))
	model := make(map[int]int64, cfg.keys)
	size := int64(0)
	report.id = id

	for i := 0; i < cfg.ops; i++ {
		if i&0xff == 0 {
			if err = ctx.Err(); err != nil {
				return report, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("suite %d aborted at op %d", id, i))
			}
		}

		key := rng.IntN(cfg.keys)
		switch op := rng.IntN(10); {
		case op < 6:
			_, ok := t.Insert(key, i)
			if expected := cfg.dup || model[key] == 0; ok != expected {
				return report, infra.NewErrorStack(fmt.Sprintf("suite %d op %d: insert %d reported %t", id, i, key, ok))
			}
			if ok {
				model[key]++
				size++
				report.inserts++
			}
		case op < 9:
			ok := t.Erase(key)
			if expected := model[key] > 0; ok != expected {
				return report, infra.NewErrorStack(fmt.Sprintf("suite %d op %d: erase %d reported %t", id, i, key, ok))
			}
			if ok {
				if model[key]--; model[key] == 0 {
					delete(model, key)
				}
				size--
				report.erases++
			}
		default:
			if count := t.Count(key); count != model[key] {
				return report, infra.NewErrorStack(fmt.Sprintf("suite %d op %d: count %d is %d, expected %d", id, i, key, count, model[key]))
			}
			report.lookups++
		}

		if err = tree.Validate[int, int](t); err != nil {
			return report, infra.WrapErrorStackWithMessage(err, fmt.Sprintf("suite %d op %d", id, i))
		}
		if t.Len() != size {
			return report, infra.NewErrorStack(fmt.Sprintf("suite %d op %d: size %d, expected %d", id, i, t.Len(), size))
		}
	}

	report.size, report.height = size, t.Height()
	if bound := heightBound(size); float64(report.height) > bound {
		return report, infra.NewErrorStack(fmt.Sprintf("suite %d: height %d exceeds %.2f", id, report.height, bound))
	}
	return report, nil
}

// runStress runs the suites in an ants pool. Each suite owns its tree,
// nothing is shared between the workers except the error collection.
func runStress(ctx context.Context, logger xlog.XLogger, cfg *config) error {
	logger.Info("stress start",
		zap.Uint64("seed", cfg.seed),
		zap.Int("ops", cfg.ops),
		zap.Int("keys", cfg.keys),
		zap.Bool("dup", cfg.dup),
		zap.Int("suites", cfg.suites),
		zap.Int("workers", cfg.workers),
		zap.String("metrics", string(cfg.metrics)),
	)

	out := cfg.metricsOut
	if out == nil {
		out = os.Stdout
	}
	mp, shutdown, err := observability.NewMeterProvider(cfg.metrics, out)
	if err != nil {
		return err
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			logger.Warn("metrics shutdown failed", zap.Error(err))
		}
	}()
	if err = observability.StartRuntimeStats(mp); err != nil {
		logger.Warn("runtime metrics unavailable", zap.Error(err))
	}
	stats := observability.NewStressStats(mp)

	pool := lo.Must(ants.NewPool(cfg.workers, ants.WithLogger(xlog.NewAntsXLogger(logger, "stress"))))
	defer pool.Release()

	var (
		wg      sync.WaitGroup
		lock    sync.Mutex
		merr    error
		reports = make([]suiteReport, 0, cfg.suites)
	)
	for _, id := range lo.Range(cfg.suites) {
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			report, err := runStressSuite(ctx, cfg, id)
			stats.RecordSuite(report.result(err == nil))
			lock.Lock()
			defer lock.Unlock()
			if err != nil {
				logger.ErrorStack(err, "stress suite failed", report.fields()...)
				merr = multierr.Append(merr, err)
				return
			}
			logger.Debug("stress suite passed", report.fields()...)
			reports = append(reports, report)
		}); err != nil {
			wg.Done()
			lock.Lock()
			merr = multierr.Append(merr, err)
			lock.Unlock()
			break
		}
	}
	wg.Wait()

	if merr != nil {
		return merr
	}
	logger.Info("stress passed",
		zap.Int("suites", len(reports)),
		zap.Int("inserts", lo.SumBy(reports, func(r suiteReport) int { return r.inserts })),
		zap.Int("erases", lo.SumBy(reports, func(r suiteReport) int { return r.erases })),
		zap.Int64("maxHeight", lo.MaxBy(reports, func(a, b suiteReport) bool { return a.height > b.height }).height),
	)
	return nil
}
