// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package reducer

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"picire/logger"
	"picire/tester"
)

// race evaluates an ordered list of candidate probes and returns the index
// of the first probe (in list order) whose verdict is Interesting, or -1.
// The winner is order-deterministic: for a deterministic oracle, parallel
// and sequential modes return the same index.
func (d *Driver) race(ctx context.Context, probes []probe) int {
	if len(probes) == 0 {
		return -1
	}
	if d.cfg.Jobs <= 1 {
		return d.raceSequential(ctx, probes)
	}
	return d.raceParallel(ctx, probes)
}

func (d *Driver) raceSequential(ctx context.Context, probes []probe) int {
	for i, p := range probes {
		if v, ok := d.cache.Lookup(p.cfg); ok {
			d.stats.Inc(CacheHits)
			logger.Debugf("\t\t-- [ %v ]: %v", p.id, v)
			if v == tester.Interesting {
				return i
			}
			continue
		}
		if ctx.Err() != nil {
			return -1
		}
		v := d.runProbe(ctx, p)
		if v != tester.Cancelled {
			d.cache.Add(p.cfg, v)
		}
		if v == tester.Interesting {
			return i
		}
	}
	return -1
}

type event struct {
	index int
	v     tester.Verdict
}

func (d *Driver) raceParallel(ctx context.Context, probes []probe) int {
	var (
		m        = len(probes)
		verdicts = make([]tester.Verdict, m)
		resolved = make([]bool, m)
		events   = make(chan event, m)
		sem      = semaphore.NewWeighted(int64(d.cfg.Jobs))
		mu       sync.Mutex
		cancels  = make([]context.CancelFunc, m)
		best     = m
		decided  atomic.Bool
	)
	rctx, stop := context.WithCancel(ctx)
	defer stop()

	// overtake records that probe w turned out interesting and cancels
	// every probe behind it; those can no longer win.
	overtake := func(w int) {
		mu.Lock()
		defer mu.Unlock()
		if w >= best {
			return
		}
		best = w
		for j := w + 1; j < m; j++ {
			if cancels[j] != nil {
				cancels[j]()
			}
		}
	}

	var g errgroup.Group
	g.Go(func() error {
		// dispatch in candidate order, at most Jobs probes in flight
		for i := range probes {
			p := probes[i]
			mu.Lock()
			overtaken := i > best
			mu.Unlock()
			if overtaken {
				events <- event{i, tester.Cancelled}
				continue
			}
			if v, ok := d.cache.Lookup(p.cfg); ok {
				d.stats.Inc(CacheHits)
				logger.Debugf("\t\t-- [ %v ]: %v", p.id, v)
				if v == tester.Interesting {
					overtake(i)
				}
				events <- event{i, v}
				continue
			}
			if err := sem.Acquire(rctx, 1); err != nil {
				events <- event{i, tester.Cancelled}
				continue
			}
			pctx, pcancel := context.WithCancel(rctx)
			mu.Lock()
			if i > best {
				// overtaken while waiting for a slot
				mu.Unlock()
				pcancel()
				sem.Release(1)
				events <- event{i, tester.Cancelled}
				continue
			}
			cancels[i] = pcancel
			mu.Unlock()
			i := i
			g.Go(func() error {
				defer sem.Release(1)
				defer pcancel()
				v := d.runProbe(pctx, p)
				if v == tester.Interesting {
					overtake(i)
				}
				// late verdicts are dropped once the winner is known;
				// cancelled probes never reach the cache
				if v != tester.Cancelled && !decided.Load() {
					d.cache.Add(p.cfg, v)
				}
				events <- event{i, v}
				return nil
			})
		}
		return nil
	})

	// The winner is the lowest-indexed interesting probe. A probe wins
	// only after every probe before it has resolved; cancelled entries are
	// passed over like uninteresting ones. A probe is cancelled when an
	// interesting one precedes it or when the caller's ctx fires.
	winner, next := -1, 0
	for cnt := 0; cnt < m && winner < 0; cnt++ {
		ev := <-events
		verdicts[ev.index] = ev.v
		resolved[ev.index] = true
		for next < m && resolved[next] {
			if verdicts[next] == tester.Interesting {
				winner = next
				break
			}
			next++
		}
	}
	decided.Store(true)
	stop()
	if err := g.Wait(); err != nil {
		logger.Warnf("probe worker: %v", err)
	}
	return winner
}

func (d *Driver) runProbe(ctx context.Context, p probe) tester.Verdict {
	d.stats.Inc(Tests)
	logger.Debugf("\t[ %v ]: test...", p.id)
	ts := time.Now()
	v := d.test.Run(ctx, p.cfg, p.id)
	elapsed := time.Since(ts)
	switch v {
	case tester.Interesting:
		d.stats.Inc(Winners)
		d.stats.AddTime("interesting", elapsed)
	case tester.Cancelled:
		d.stats.Inc(Cancels)
	default:
		d.stats.Inc(Misses)
		d.stats.AddTime("uninteresting", elapsed)
	}
	logger.Debugf("\t[ %v ]: test = %v (%v)", p.id, v, elapsed)
	return v
}
