package main

import (
	"context"
	"fmt"
	"slices"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/benz9527/xtree/lib/infra"
	"github.com/benz9527/xtree/lib/set"
	"github.com/benz9527/xtree/xlog"
)

type scenario struct {
	name string
	run  func() error
}

func expect(cond bool, format string, args ...any) error {
	if cond {
		return nil
	}
	return infra.NewErrorStack(fmt.Sprintf(format, args...))
}

func expectKeys(s *set.Set[int], keys ...int) error {
	actual := s.Keys()
	return expect(slices.Equal(actual, keys), "keys %v, expected %v", actual, keys)
}

var scenarios = []scenario{
	{
		name: "duplicate insertion is refused",
		run: func() error {
			s := set.NewSet[int]()
			var err error
			for _, key := range []int{10, 5, 15} {
				_, ok := s.Insert(key)
				err = multierr.Append(err, expect(ok, "insert %d refused", key))
			}
			_, ok := s.Insert(10)
			return multierr.Combine(
				err,
				expect(!ok, "duplicate insert of 10 accepted"),
				expect(!s.Contains(20), "absent key 20 found"),
				expectKeys(s, 5, 10, 15),
			)
		},
	},
	{
		name: "erase keeps the neighbours",
		run: func() error {
			s := set.NewSet[int](1, 2, 3)
			return multierr.Combine(
				expect(s.Erase(2), "erase 2 missed"),
				expect(!s.Contains(2), "erased key 2 found"),
				expect(s.Contains(1) && s.Contains(3), "neighbour of 2 lost"),
				expect(s.Len() == 2, "size %d, expected 2", s.Len()),
			)
		},
	},
	{
		name: "forward iteration is sorted",
		run: func() error {
			s := set.NewSet[int](3, 1, 2)
			keys := make([]int, 0, 3)
			for it := s.Begin(); !it.IsEnd(); it = it.Next() {
				k, err := it.Key()
				if err != nil {
					return err
				}
				keys = append(keys, k)
			}
			return expect(slices.Equal(keys, []int{1, 2, 3}), "iterated %v", keys)
		},
	},
	{
		name: "copy and move",
		run: func() error {
			s := set.NewSet[int](1, 2, 3)
			copied := s.Clone()
			moved := s.Move()
			return multierr.Combine(
				expectKeys(copied, 1, 2, 3),
				expectKeys(moved, 1, 2, 3),
				expect(s.Empty(), "moved-from set holds %d keys", s.Len()),
				copied.Validate(),
				moved.Validate(),
			)
		},
	},
	{
		name: "equality ignores insertion order",
		run: func() error {
			s1, s2 := set.NewSet[int](1, 2, 3), set.NewSet[int](3, 2, 1)
			s3 := set.NewSet[int](4, 5)
			return multierr.Combine(
				expect(s1.Equal(s2), "%v != %v", s1.Keys(), s2.Keys()),
				expect(!s3.Equal(s1), "%v == %v", s3.Keys(), s1.Keys()),
			)
		},
	},
}

func runScenarios(ctx context.Context, logger xlog.XLogger, _ *config) error {
	var merr error
	for i, sc := range scenarios {
		if err := ctx.Err(); err != nil {
			return multierr.Append(merr, err)
		}
		if err := sc.run(); err != nil {
			logger.ErrorStack(err, "scenario failed", zap.Int("no", i+1), zap.String("name", sc.name))
			merr = multierr.Append(merr, infra.WrapErrorStackWithMessage(err, sc.name))
			continue
		}
		logger.Info("scenario passed", zap.Int("no", i+1), zap.String("name", sc.name))
	}
	return merr
}
