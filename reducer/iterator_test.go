// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package reducer

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrategyIndices(t *testing.T) {
	testCases := []struct {
		s   Strategy
		n   int
		out []int
	}{
		{Forward, 4, []int{0, 1, 2, 3}},
		{Forward, 1, []int{0}},
		{Backward, 4, []int{3, 2, 1, 0}},
		{Skip, 4, nil},
		{Skip, 0, nil},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.out, tc.s.Indices(tc.n))
		})
	}
}

func TestParseStrategy(t *testing.T) {
	for name, want := range map[string]Strategy{
		"forward":  Forward,
		"backward": Backward,
		"skip":     Skip,
	} {
		s, err := ParseStrategy(name)
		assert.Nil(t, err)
		assert.Equal(t, want, s)
	}
	_, err := ParseStrategy("random")
	assert.NotNil(t, err)
}

func TestStatsSnapshot(t *testing.T) {
	s := NewStats()
	s.Inc(Tests)
	s.Inc(Tests)
	s.Inc(Winners)
	s.AddTime("interesting", 10)

	snap := s.Snapshot()
	s.Inc(Tests)

	assert.Equal(t, 2, snap.Counts[Tests])
	assert.Equal(t, 1, snap.Counts[Winners])
	assert.Equal(t, 3, s.Count(Tests))
	assert.Equal(t, 1, snap.Times["interesting"].Cnt)
}
