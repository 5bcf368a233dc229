package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/urfave/cli"
	"go.uber.org/multierr"

	"github.com/benz9527/xtree/observability"
)

type config struct {
	logLevel  string
	logFormat string
	timeout   time.Duration

	seed    uint64
	ops     int
	keys    int
	dup     bool
	suites  int
	workers int
	metrics observability.MetricsExporter

	// metricsOut receives the exported metrics, stdout if nil.
	metricsOut io.Writer
}

// newConfig gathers the global and the command flags.
// The stress flags read as zero values under the scenarios command.
func newConfig(c *cli.Context) (*config, error) {
	cfg := &config{
		logLevel:  c.GlobalString("log-level"),
		logFormat: strings.ToLower(c.GlobalString("log-format")),
		timeout:   c.GlobalDuration("timeout"),
		seed:      c.Uint64("seed"),
		ops:       c.Int("ops"),
		keys:      c.Int("keys"),
		dup:       c.Bool("dup"),
		suites:    c.Int("suites"),
		workers:   c.Int("workers"),
	}
	if c.Command.Name == "stress" {
		cfg.applyStressDefaults()
		var err error
		if cfg.metrics, err = observability.ParseMetricsExporter(c.String("metrics")); err != nil {
			return nil, err
		}
		if err = cfg.validateStress(); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.validate()
}

func (cfg *config) applyStressDefaults() {
	if cfg.seed == 0 {
		cfg.seed = uint64(time.Now().UnixNano())
	}
	if cfg.workers <= 0 {
		cfg.workers = runtime.GOMAXPROCS(0)
	}
}

func (cfg *config) validate() error {
	var err error
	switch cfg.logFormat {
	case "json", "text":
	default:
		err = multierr.Append(err, fmt.Errorf("unknown log format %q", cfg.logFormat))
	}
	if cfg.timeout <= 0 {
		err = multierr.Append(err, fmt.Errorf("timeout must be positive, got %s", cfg.timeout))
	}
	return err
}

func (cfg *config) validateStress() error {
	var err error
	if cfg.ops <= 0 {
		err = multierr.Append(err, fmt.Errorf("ops must be positive, got %d", cfg.ops))
	}
	if cfg.keys <= 0 {
		err = multierr.Append(err, fmt.Errorf("keys must be positive, got %d", cfg.keys))
	}
	if cfg.suites <= 0 {
		err = multierr.Append(err, fmt.Errorf("suites must be positive, got %d", cfg.suites))
	}
	return err
}
