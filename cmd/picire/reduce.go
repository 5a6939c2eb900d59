// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"picire/cache"
	"picire/core"
	"picire/logger"
	"picire/reducer"
	"picire/tester"
	"picire/tools"
)

var reduceFlags = struct {
	input           string
	test            string
	out             string
	parallel        bool
	jobs            int
	combineLoops    bool
	complementFirst bool
	subsetIter      string
	complementIter  string
	split           int
	splitter        string
	cacheMode       string
	cacheFail       bool
	noEvict         bool
	cleanup         bool
	atom            string
	timeout         time.Duration
	limitTime       time.Duration
	limitTests      int
}{}

func initReduce() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&reduceFlags.input, "input", "i", "", "test case to be reduced")
	flags.StringVar(&reduceFlags.test, "test", "", "tester executable deciding about interestingness")
	flags.StringVarP(&reduceFlags.out, "out", "o", "", "working directory (default: <input>.<session>)")
	flags.BoolVarP(&reduceFlags.parallel, "parallel", "p", false, "run probes in parallel")
	flags.IntVarP(&reduceFlags.jobs, "jobs", "j", runtime.NumCPU(), "maximum number of parallel probes (parallel mode only)")
	flags.BoolVar(&reduceFlags.combineLoops, "combine-loops", false, "merge subset and complement loops into one race")
	flags.BoolVar(&reduceFlags.complementFirst, "complement-first", false, "check complements first")
	flags.StringVar(&reduceFlags.subsetIter, "subset-iterator", "forward", "ordering of subset probes (forward|backward|skip)")
	flags.StringVar(&reduceFlags.complementIter, "complement-iterator", "forward", "ordering of complement probes (forward|backward|skip)")
	flags.IntVar(&reduceFlags.split, "split", 2, "split factor for granularity escalation")
	flags.StringVar(&reduceFlags.splitter, "splitter", "balanced", "split algorithm (balanced|zeller)")
	flags.StringVar(&reduceFlags.cacheMode, "cache", tools.GetEnv("PICIRE_DEFAULT_CACHE"), "cache keying mode (none|config|content)")
	flags.BoolVar(&reduceFlags.cacheFail, "cache-fail", false, "store interesting test cases in the cache as well")
	flags.BoolVar(&reduceFlags.noEvict, "no-cache-evict-after-fail", false, "keep cache entries larger than a newly found interesting test case")
	flags.BoolVar(&reduceFlags.cleanup, "cleanup", false, "remove each probe workspace on verdict (default: keep only winners)")
	flags.StringVar(&reduceFlags.atom, "atom", tools.GetEnv("PICIRE_DEFAULT_ATOM"), "unit of reduction (line|char)")
	flags.DurationVar(&reduceFlags.timeout, "timeout", 0, "per-probe timeout; a timed out probe counts as uninteresting (0 = none)")
	flags.DurationVar(&reduceFlags.limitTime, "limit-time", 0, "limit the execution time of the whole reduction (0 = none)")
	flags.IntVar(&reduceFlags.limitTests, "limit-tests", 0, "limit the number of tester executions (0 = none)")
}

func newDriverConfig() (reducer.DriverConfig, error) {
	cfg := reducer.DriverConfig{
		SplitFactor: reduceFlags.split,
		SubsetFirst: !reduceFlags.complementFirst,
		Combine:     reduceFlags.combineLoops,
		Jobs:        1,
		MaxTests:    reduceFlags.limitTests,
	}
	if reduceFlags.parallel {
		cfg.Jobs = reduceFlags.jobs
	}

	var err error
	if cfg.Splitter, err = core.ParseSplitter(reduceFlags.splitter); err != nil {
		return cfg, err
	}
	if cfg.Subset, err = reducer.ParseStrategy(reduceFlags.subsetIter); err != nil {
		return cfg, err
	}
	if cfg.Complement, err = reducer.ParseStrategy(reduceFlags.complementIter); err != nil {
		return cfg, err
	}
	if cfg.Subset == reducer.Skip && cfg.Complement == reducer.Skip {
		return cfg, errors.New("--subset-iterator=skip and --complement-iterator=skip would never fire a probe")
	}
	if cfg.SplitFactor < 2 {
		return cfg, fmt.Errorf("--split must be at least 2, got %d", cfg.SplitFactor)
	}
	if cfg.Jobs < 1 {
		return cfg, fmt.Errorf("-j must be at least 1, got %d", cfg.Jobs)
	}
	return cfg, nil
}

func reduceRun(_ *cobra.Command, _ []string) error {
	if reduceFlags.input == "" || reduceFlags.test == "" {
		return verror(configError, errors.New("both --input and --test must be given"))
	}

	cfg, err := newDriverConfig()
	if err != nil {
		return verror(configError, err)
	}

	atom, err := core.ParseAtom(reduceFlags.atom)
	if err != nil {
		return verror(configError, err)
	}
	mode, err := cache.ParseMode(reduceFlags.cacheMode)
	if err != nil {
		return verror(configError, err)
	}

	if err := tools.IsExecutable(reduceFlags.test); err != nil {
		return verror(configError, err)
	}
	src, err := os.ReadFile(reduceFlags.input)
	if err != nil {
		return verror(configError, fmt.Errorf("could not read input: %w", err))
	}
	if len(src) == 0 {
		return verror(configError, fmt.Errorf("input is empty: %s", reduceFlags.input))
	}

	var (
		units    = atom.Atomize(string(src))
		builder  = core.NewBuilder(units)
		universe = core.Universe(len(units))
		session  = uuid.NewString()[:8]
		out      = reduceFlags.out
	)
	if out == "" {
		out = reduceFlags.input + "." + session
	}
	logger.Infof("Input loaded from %s: %d units.", reduceFlags.input, len(units))

	oc := cache.New(mode, cache.Options{
		CacheFail:      reduceFlags.cacheFail,
		EvictAfterFail: !reduceFlags.noEvict,
	})
	oc.SetTestBuilder(builder.Build)

	test := tester.NewSubprocessTest(tester.SubprocessConfig{
		Command:  reduceFlags.test,
		WorkDir:  filepath.Join(out, "tests"),
		Filename: filepath.Base(reduceFlags.input),
		Timeout:  reduceFlags.timeout,
		Cleanup:  reduceFlags.cleanup,
	}, builder.Build)

	ctx := context.Background()
	if reduceFlags.limitTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, reduceFlags.limitTime)
		defer cancel()
	}

	sts := reducer.NewStats()
	d := reducer.NewDriver(cfg, test, oc, sts)
	minimal, err := d.Reduce(ctx, universe)
	if err != nil {
		if errors.Is(err, reducer.ErrUninteresting) {
			return verror(reduceFail, err)
		}
		return verror(internalError, err)
	}

	if err := os.MkdirAll(out, 0700); err != nil {
		return verror(internalError, err)
	}
	outFn := filepath.Join(out, filepath.Base(reduceFlags.input))
	if err := tools.Dump(builder.Build(minimal), outFn); err != nil {
		return verror(internalError, err)
	}
	printResult(len(universe), len(minimal), outFn)
	logger.Println()
	logger.Println("== ITERATION STATS ===========================")
	logger.Println(sts)
	return nil
}

func printResult(from, to int, fn string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		color.NoColor = true
	}
	doneColor := color.New(color.FgGreen).SprintFunc()
	logger.Println()
	logger.Printf("Result\n   %s\n", doneColor(fmt.Sprintf("%d units -> %d units", from, to)))
	logger.Printf("   written to %s\n", fn)
}
