// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package reducer implements the minimizing delta-debugging engine. Given
// an oracle and an interesting input, the driver searches for a 1-minimal
// sub-sequence that is still interesting.
package reducer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"picire/cache"
	"picire/core"
	"picire/logger"
	"picire/tester"
)

// ErrUninteresting is returned when the initial input does not exhibit the
// property under reduction.
var ErrUninteresting = errors.New("initial configuration is not interesting")

// DriverConfig represents the configuration of the driver.
type DriverConfig struct {
	// SplitFactor multiplies the granularity after a fruitless iteration
	// (classical delta debugging uses 2).
	SplitFactor int
	Splitter    core.Splitter
	Subset      Strategy
	Complement  Strategy
	// SubsetFirst probes subsets before complements.
	SubsetFirst bool
	// Combine races subsets and complements as a single candidate list.
	Combine bool
	// Jobs is the number of concurrent probes; 1 selects sequential mode.
	Jobs int
	// MaxTests stops the reduction after this many oracle invocations;
	// 0 means unlimited. The result may not be 1-minimal.
	MaxTests int
}

func (c DriverConfig) validate() error {
	if c.SplitFactor < 2 {
		return fmt.Errorf("split factor must be at least 2, got %d", c.SplitFactor)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("job count must be at least 1, got %d", c.Jobs)
	}
	if c.Subset == Skip && c.Complement == Skip {
		return errors.New("both iteration strategies are skip, no probe would ever fire")
	}
	return nil
}

// Driver is the object that coordinates the reduction.
type Driver struct {
	cfg   DriverConfig
	test  tester.Test
	cache cache.Cache
	stats *Stats
}

// NewDriver returns a new driver object.
func NewDriver(cfg DriverConfig, t tester.Test, c cache.Cache, stats *Stats) *Driver {
	if c == nil {
		c = cache.New(cache.None, cache.Options{})
	}
	if stats == nil {
		stats = NewStats()
	}
	return &Driver{cfg: cfg, test: t, cache: c, stats: stats}
}

// Stats returns the probe statistics of the driver.
func (d *Driver) Stats() *Stats {
	return d.stats
}

type probe struct {
	id     tester.ProbeID
	cfg    core.Config
	chunk  int
	subset bool
}

// Reduce returns a 1-minimal sub-sequence of config that is still
// interesting. Every intermediate configuration it adopts is interesting;
// the size never grows. The reduction stops early when ctx fires or the
// test budget is exhausted, returning the best configuration so far.
func (d *Driver) Reduce(ctx context.Context, config core.Config) (core.Config, error) {
	if err := d.cfg.validate(); err != nil {
		return nil, err
	}

	logger.Println("== REDUCTION =================================")
	if v := d.runProbe(ctx, probe{id: tester.ProbeID{Run: 0, Dir: tester.DirAssert}, cfg: config}); v != tester.Interesting {
		return nil, ErrUninteresting
	}
	if len(config) < 2 {
		logger.Info("Test case is minimal already.")
		return config, nil
	}

	n := min(d.cfg.SplitFactor, len(config))
	offset := 0
	for run := 1; ; run++ {
		if d.stopped(ctx) {
			return config, nil
		}

		chunks := config.Split(n, d.cfg.Splitter)
		logger.Infof("Run #%d: trying %s.", run, chunkSizes(chunks))

		w, found := d.reduceStep(ctx, run, config, chunks, offset)
		if !found {
			if n == len(config) {
				logger.Info("Done.")
				return config, nil
			}
			nextN := min(n*d.cfg.SplitFactor, len(config))
			offset = offset * nextN / n
			n = nextN
			logger.Infof("Increase granularity to %d.", n)
			continue
		}

		config = w.cfg
		if w.subset {
			n = min(d.cfg.SplitFactor, len(config))
			offset = 0
		} else {
			n = max(n-d.cfg.SplitFactor+1, 2)
			offset = w.chunk
		}
		if n > len(config) {
			n = max(len(config), 1)
		}
		d.promote(w.id)
		logger.Infof("Reduced to %d units.", len(config))
		logger.Debugf("New config: %v.", config)
		if len(config) == 0 {
			logger.Info("Done.")
			return config, nil
		}
	}
}

// reduceStep races the candidate lists of one iteration and returns the
// winning probe, if any.
func (d *Driver) reduceStep(ctx context.Context, run int, config core.Config, chunks []core.Config, offset int) (probe, bool) {
	var (
		subsets     = d.subsetProbes(run, config, chunks)
		complements = d.complementProbes(run, config, chunks, offset)
		first, second []probe
	)
	if d.cfg.SubsetFirst {
		first, second = subsets, complements
	} else {
		first, second = complements, subsets
	}

	if d.cfg.Combine {
		combined := append(append([]probe{}, first...), second...)
		if w := d.race(ctx, combined); w >= 0 {
			return combined[w], true
		}
		return probe{}, false
	}

	if w := d.race(ctx, first); w >= 0 {
		return first[w], true
	}
	if d.stopped(ctx) {
		return probe{}, false
	}
	if w := d.race(ctx, second); w >= 0 {
		return second[w], true
	}
	return probe{}, false
}

// subsetProbes builds the subset candidates in strategy order. A subset
// equal to the whole configuration cannot reduce anything and is left out;
// this only happens at granularity 1.
func (d *Driver) subsetProbes(run int, config core.Config, chunks []core.Config) []probe {
	var probes []probe
	for _, i := range d.cfg.Subset.Indices(len(chunks)) {
		if len(chunks[i]) == len(config) {
			continue
		}
		probes = append(probes, probe{
			id:     tester.ProbeID{Run: run, Dir: tester.DirSubset, Index: i},
			cfg:    chunks[i],
			chunk:  i,
			subset: true,
		})
	}
	return probes
}

// complementProbes builds the complement candidates in strategy order,
// compensated by the offset so that after a removal the scan resumes at
// the chunk that moved into the removed one's place.
func (d *Driver) complementProbes(run int, config core.Config, chunks []core.Config, offset int) []probe {
	n := len(chunks)
	var probes []probe
	for _, j := range d.cfg.Complement.Indices(n) {
		i := (j + offset) % n
		probes = append(probes, probe{
			id:    tester.ProbeID{Run: run, Dir: tester.DirComplement, Index: i},
			cfg:   core.Complement(chunks, i),
			chunk: i,
		})
	}
	return probes
}

func (d *Driver) promote(id tester.ProbeID) {
	type keeper interface {
		KeepOnly(tester.ProbeID)
	}
	if k, ok := d.test.(keeper); ok {
		k.KeepOnly(id)
	}
}

func (d *Driver) stopped(ctx context.Context) bool {
	if ctx.Err() != nil {
		logger.Warn("Reduction interrupted; returning the best configuration so far.")
		return true
	}
	if d.cfg.MaxTests > 0 && d.stats.Count(Tests) >= d.cfg.MaxTests {
		logger.Warnf("Test budget of %d exhausted; returning the best configuration so far.", d.cfg.MaxTests)
		return true
	}
	return false
}

func chunkSizes(chunks []core.Config) string {
	sizes := make([]string, len(chunks))
	for i, c := range chunks {
		sizes[i] = fmt.Sprint(len(c))
	}
	return strings.Join(sizes, " + ")
}
