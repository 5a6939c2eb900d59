// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package cache

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"picire/core"
	"picire/tester"
)

func TestConfigCacheLookup(t *testing.T) {
	c := New(ConfigKey, Options{})
	_, has := c.Lookup(core.Config{0, 1})
	assert.False(t, has)

	c.Add(core.Config{0, 1}, tester.Uninteresting)
	v, has := c.Lookup(core.Config{0, 1})
	assert.True(t, has)
	assert.Equal(t, tester.Uninteresting, v)

	// a different unit set is a different key
	_, has = c.Lookup(core.Config{0, 2})
	assert.False(t, has)
}

func TestCacheNeverStoresCancelled(t *testing.T) {
	for _, m := range []Mode{ConfigKey, ContentKey} {
		t.Run(fmt.Sprintf("%v", m), func(t *testing.T) {
			c := New(m, Options{CacheFail: true})
			c.SetTestBuilder(func(cfg core.Config) []byte { return []byte(fmt.Sprint(cfg)) })
			c.Add(core.Config{0}, tester.Cancelled)
			_, has := c.Lookup(core.Config{0})
			assert.False(t, has)
		})
	}
}

func TestCacheKeepsFirstVerdict(t *testing.T) {
	c := New(ConfigKey, Options{CacheFail: true})
	c.Add(core.Config{0, 1}, tester.Uninteresting)
	c.Add(core.Config{0, 1}, tester.Interesting)
	v, has := c.Lookup(core.Config{0, 1})
	assert.True(t, has)
	assert.Equal(t, tester.Uninteresting, v)
}

func TestCacheFailOption(t *testing.T) {
	c := New(ConfigKey, Options{})
	c.Add(core.Config{0}, tester.Interesting)
	_, has := c.Lookup(core.Config{0})
	assert.False(t, has)

	c = New(ConfigKey, Options{CacheFail: true})
	c.Add(core.Config{0}, tester.Interesting)
	v, has := c.Lookup(core.Config{0})
	assert.True(t, has)
	assert.Equal(t, tester.Interesting, v)
}

func TestCacheEvictAfterFail(t *testing.T) {
	c := New(ConfigKey, Options{CacheFail: true, EvictAfterFail: true})
	c.Add(core.Config{0, 1, 2, 3}, tester.Uninteresting)
	c.Add(core.Config{4, 5}, tester.Uninteresting)

	// an interesting config of size 3 makes all larger entries unreachable
	c.Add(core.Config{0, 1, 2}, tester.Interesting)

	_, has := c.Lookup(core.Config{0, 1, 2, 3})
	assert.False(t, has)
	v, has := c.Lookup(core.Config{4, 5})
	assert.True(t, has)
	assert.Equal(t, tester.Uninteresting, v)
}

func TestContentCacheDuplicates(t *testing.T) {
	// units 0 and 1 hold the same content, so {0} and {1} serialize to
	// identical bytes and must share one cache entry
	b := core.NewBuilder([]string{"x\n", "x\n", "y\n"})
	c := New(ContentKey, Options{})
	c.SetTestBuilder(b.Build)

	c.Add(core.Config{0}, tester.Uninteresting)
	v, has := c.Lookup(core.Config{1})
	assert.True(t, has)
	assert.Equal(t, tester.Uninteresting, v)

	_, has = c.Lookup(core.Config{2})
	assert.False(t, has)
}

func TestContentCacheBuilderReset(t *testing.T) {
	b := core.NewBuilder([]string{"a", "b"})
	c := New(ContentKey, Options{})
	c.SetTestBuilder(b.Build)
	c.Add(core.Config{0}, tester.Uninteresting)

	// changing the builder invalidates all entries
	c.SetTestBuilder(func(cfg core.Config) []byte { return []byte("other") })
	_, has := c.Lookup(core.Config{0})
	assert.False(t, has)
}

func TestNoneCache(t *testing.T) {
	c := New(None, Options{})
	c.Add(core.Config{0}, tester.Uninteresting)
	_, has := c.Lookup(core.Config{0})
	assert.False(t, has)
}

func TestCacheParallelCallers(t *testing.T) {
	c := New(ConfigKey, Options{})
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				cfg := core.Config{i % 10}
				c.Add(cfg, tester.Uninteresting)
				if v, has := c.Lookup(cfg); has {
					assert.Equal(t, tester.Uninteresting, v)
				}
			}
		}(w)
	}
	wg.Wait()
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("content")
	assert.Nil(t, err)
	assert.Equal(t, ContentKey, m)
	_, err = ParseMode("disk")
	assert.NotNil(t, err)
}
