// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package cache

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"

	"picire/core"
	"picire/logger"
	"picire/tester"
)

type entry struct {
	verdict tester.Verdict
	size    int
}

// table is the shared storage of the keyed caches. The monotone contract
// (§ outcome cache): once a key is set its verdict never changes.
type table struct {
	opts Options
	mu   sync.RWMutex
	m    map[string]entry
}

func (t *table) lookup(key string) (tester.Verdict, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	e, has := t.m[key]
	return e.verdict, has
}

func (t *table) add(key string, size int, v tester.Verdict) {
	if v == tester.Cancelled || v == tester.Undefined {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if e, has := t.m[key]; has {
		if e.verdict != v {
			logger.Warnf("oracle non-determinism detected: %s is %v and %v; keeping %v",
				key, e.verdict, v, e.verdict)
		}
		return
	}
	if v == tester.Interesting {
		if t.opts.EvictAfterFail {
			for k, e := range t.m {
				if e.size > size {
					delete(t.m, k)
				}
			}
		}
		if !t.opts.CacheFail {
			return
		}
	}
	t.m[key] = entry{verdict: v, size: size}
}

func (t *table) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.m = make(map[string]entry)
}

func (t *table) String() string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	keys := make([]string, 0, len(t.m))
	for k := range t.m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var sb strings.Builder
	sb.WriteString("{\n")
	for _, k := range keys {
		fmt.Fprintf(&sb, "\t[%s]: %v,\n", k, t.m[k].verdict)
	}
	sb.WriteString("}")
	return sb.String()
}

// configCache keys on the identity of the configuration.
type configCache struct {
	table
}

func configKey(c core.Config) string {
	var sb strings.Builder
	for i, u := range c {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(strconv.Itoa(u))
	}
	return sb.String()
}

func (c *configCache) Lookup(cfg core.Config) (tester.Verdict, bool) {
	return c.lookup(configKey(cfg))
}

func (c *configCache) Add(cfg core.Config, v tester.Verdict) {
	c.add(configKey(cfg), len(cfg), v)
}

func (c *configCache) SetTestBuilder(func(core.Config) []byte) {}

func (c *configCache) Clear() { c.clear() }

// contentCache keys on a digest of the bytes the oracle would see.
type contentCache struct {
	table
	build func(core.Config) []byte
}

func (c *contentCache) key(cfg core.Config) string {
	return strconv.FormatUint(xxhash.Sum64(c.build(cfg)), 16)
}

func (c *contentCache) Lookup(cfg core.Config) (tester.Verdict, bool) {
	if c.build == nil {
		return tester.Undefined, false
	}
	return c.lookup(c.key(cfg))
}

func (c *contentCache) Add(cfg core.Config, v tester.Verdict) {
	if c.build == nil {
		return
	}
	c.add(c.key(cfg), len(cfg), v)
}

func (c *contentCache) SetTestBuilder(build func(core.Config) []byte) {
	c.build = build
	c.clear()
}

func (c *contentCache) Clear() { c.clear() }
