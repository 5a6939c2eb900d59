// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cache memoizes oracle verdicts across the whole search. One
// shared instance serves all workers, so a verdict computed by one probe
// spares every later probe of the same candidate.
package cache

import (
	"fmt"

	"picire/core"
	"picire/tester"
)

// Mode selects the keying scheme of the outcome cache.
type Mode int

const (
	// None disables caching.
	None Mode = iota
	// ConfigKey keys on the unit indices of the configuration.
	ConfigKey
	// ContentKey keys on a digest of the serialized candidate, detecting
	// semantic duplicates produced by different unit sets.
	ContentKey
)

// ParseMode parses a cache mode name.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "none":
		return None, nil
	case "config":
		return ConfigKey, nil
	case "content":
		return ContentKey, nil
	default:
		return None, fmt.Errorf("unknown cache mode %q", s)
	}
}

// Cache is the outcome cache contract. Lookup and Add are safe for
// parallel callers. Add never stores Cancelled; inserting a verdict that
// contradicts an existing entry keeps the first one and logs the
// violation, since a deterministic oracle must not produce it.
type Cache interface {
	Lookup(c core.Config) (tester.Verdict, bool)
	Add(c core.Config, v tester.Verdict)
	// SetTestBuilder supplies the serialization function used by content
	// keying; setting it invalidates the cache.
	SetTestBuilder(build func(core.Config) []byte)
	Clear()
	fmt.Stringer
}

// Options tweak what gets stored and evicted.
type Options struct {
	// CacheFail also stores interesting outcomes. By default only
	// uninteresting ones are kept; the reduction never revisits an
	// interesting candidate except as the new baseline.
	CacheFail bool
	// EvictAfterFail drops entries of configurations larger than a newly
	// found interesting one. Those sizes are unreachable from now on.
	EvictAfterFail bool
}

// New returns a cache for the given mode.
func New(m Mode, opts Options) Cache {
	switch m {
	case ConfigKey:
		return &configCache{table: table{opts: opts, m: make(map[string]entry)}}
	case ContentKey:
		return &contentCache{table: table{opts: opts, m: make(map[string]entry)}}
	default:
		return nopCache{}
	}
}

type nopCache struct{}

func (nopCache) Lookup(core.Config) (tester.Verdict, bool)  { return tester.Undefined, false }
func (nopCache) Add(core.Config, tester.Verdict)            {}
func (nopCache) SetTestBuilder(func(core.Config) []byte)    {}
func (nopCache) Clear()                                     {}
func (nopCache) String() string                             { return "{}" }
