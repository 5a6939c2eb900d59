// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package reducer

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jinzhu/copier"

	"picire/logger"
)

//go:generate go run golang.org/x/tools/cmd/stringer -type=Type

// Type represents the measurement type, eg, Tests or CacheHits.
type Type int

const (
	// Tests counts oracle invocations
	Tests Type = iota
	// Winners counts interesting verdicts
	Winners
	// Misses counts uninteresting verdicts
	Misses
	// Cancels counts preempted probes
	Cancels
	// CacheHits counts probes answered from the cache
	CacheHits
)

type timeStats struct {
	Sum  float64
	Sum2 float64
	Cnt  int
}

// Stats keeps track of count stats and timing measurements. All methods
// are safe for concurrent probes.
type Stats struct {
	mu     sync.Mutex
	Counts map[Type]int
	Times  map[string]timeStats
	start  time.Time
}

// NewStats returns a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Counts: make(map[Type]int),
		Times:  make(map[string]timeStats),
		start:  time.Now(),
	}
}

// Inc increments the stats count of type t.
func (s *Stats) Inc(t Type) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Counts[t]++
}

// Count returns the current count of type t.
func (s *Stats) Count(t Type) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Counts[t]
}

// AddTime adds a time duration to a tag.
func (s *Stats) AddTime(tag string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := s.Times[tag]
	t.Sum += float64(d)
	t.Sum2 += float64(d) * float64(d)
	t.Cnt++
	s.Times[tag] = t
}

func (ts timeStats) mean() time.Duration {
	return time.Duration(ts.Sum / float64(ts.Cnt))
}

func (ts timeStats) sd() time.Duration {
	cnt := float64(ts.Cnt)
	return time.Duration(math.Sqrt(ts.Sum2/cnt - math.Pow(ts.Sum/cnt, 2)))
}

// Snapshot returns a deep copy of the stats, safe to read while probes are
// still publishing.
func (s *Stats) Snapshot() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := NewStats()
	snap.start = s.start
	if err := copier.CopyWithOption(snap, s, copier.Option{DeepCopy: true}); err != nil {
		logger.Warnf("could not snapshot stats: %v", err)
	}
	return snap
}

// String is the string representation of the stats object.
func (s *Stats) String() string {
	snap := s.Snapshot()
	var str string
	for _, t := range []Type{Tests, Winners, Misses, Cancels, CacheHits} {
		str += fmt.Sprintf("%10v: %d\n", t, snap.Counts[t])
	}

	elapsed := time.Since(snap.start)
	str += fmt.Sprintf("\nTotal time: %v (%v)\n", elapsed.Seconds(), elapsed)

	for tag, ts := range snap.Times {
		str += fmt.Sprintf("Mean time %s: %v (sd=%v cnt=%v)\n", tag, ts.mean(), ts.sd(), ts.Cnt)
	}
	return str
}
