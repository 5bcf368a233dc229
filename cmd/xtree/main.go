package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli"
	_ "go.uber.org/automaxprocs"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero"

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "xtree: %s\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "xtree"
	app.Usage = "exercise the red-black tree with fixed scenarios and randomized stress suites"
	app.Version = version

	app.Writer = os.Stdout
	app.ErrWriter = os.Stderr

	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:   "log-level, l",
			Value:  "info",
			EnvVar: "XLOG_LVL",
			Usage:  " log `LEVEL` [debug|info|warn|error]",
		},
		cli.StringFlag{
			Name:  "log-format, f",
			Value: "json",
			Usage: " log `FORMAT` [json|text]",
		},
		cli.DurationFlag{
			Name:  "timeout, t",
			Value: 5 * time.Minute,
			Usage: " abort the run after `DURATION`",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "scenarios",
			Usage:  "run the fixed ordered set scenarios",
			Flags:  []cli.Flag{},
			Action: runScenariosCmd,
		},
		{
			Name:  "stress",
			Usage: "run independent randomized insert/erase suites, each tree is validated after every operation",
			Flags: []cli.Flag{
				cli.Uint64Flag{
					Name:   "seed, s",
					Value:  0,
					EnvVar: "XTREE_SEED",
					Usage:  " random `SEED`, 0 picks one from the clock",
				},
				cli.IntFlag{
					Name:   "ops, o",
					Value:  10_000,
					EnvVar: "XTREE_OPS",
					Usage:  " operations per suite `COUNT`",
				},
				cli.IntFlag{
					Name:  "keys, k",
					Value: 1024,
					Usage: " key space `SIZE`",
				},
				cli.BoolFlag{
					Name:  "dup, d",
					Usage: " allow duplicate keys",
				},
				cli.IntFlag{
					Name:  "suites, n",
					Value: 8,
					Usage: " independent suites `COUNT`",
				},
				cli.IntFlag{
					Name:  "workers, w",
					Value: 0,
					Usage: " worker pool `SIZE`, 0 uses GOMAXPROCS",
				},
				cli.StringFlag{
					Name:   "metrics, m",
					Value:  "none",
					EnvVar: "XTREE_METRICS",
					Usage:  " metrics `EXPORTER` [none|stdout|prometheus], written to stdout on exit",
				},
			},
			Action: runStressCmd,
		},
	}
	return app
}

func runScenariosCmd(c *cli.Context) error {
	cfg, err := newConfig(c)
	if err != nil {
		return err
	}
	return runWithFx(cfg, runScenarios)
}

func runStressCmd(c *cli.Context) error {
	cfg, err := newConfig(c)
	if err != nil {
		return err
	}
	return runWithFx(cfg, runStress)
}
