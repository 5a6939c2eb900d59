// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplit(t *testing.T) {
	testCases := []struct {
		in  Config
		n   int
		s   Splitter
		out []Config
	}{
		{
			Universe(8), 2, SplitBalanced,
			[]Config{{0, 1, 2, 3}, {4, 5, 6, 7}},
		}, {
			Universe(7), 3, SplitBalanced,
			[]Config{{0, 1, 2}, {3, 4}, {5, 6}},
		}, {
			Universe(7), 3, SplitZeller,
			[]Config{{0, 1}, {2, 3}, {4, 5, 6}},
		}, {
			Universe(6), 4, SplitZeller,
			[]Config{{0}, {1}, {2, 3}, {4, 5}},
		}, {
			Universe(1), 2, SplitBalanced, nil,
		}, {
			Universe(3), 1, SplitBalanced,
			[]Config{{0, 1, 2}},
		}, {
			Universe(4), 4, SplitBalanced,
			[]Config{{0}, {1}, {2}, {3}},
		},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			out := tc.in.Split(tc.n, tc.s)
			assert.Equal(t, tc.out, out)
		})
	}
}

func TestSplitDeterministic(t *testing.T) {
	c := Universe(13)
	assert.Equal(t, c.Split(5, SplitBalanced), c.Split(5, SplitBalanced))
	assert.Equal(t, c.Split(5, SplitZeller), c.Split(5, SplitZeller))
}

func TestSplitCovers(t *testing.T) {
	for _, s := range []Splitter{SplitBalanced, SplitZeller} {
		for size := 1; size <= 9; size++ {
			for n := 1; n <= size; n++ {
				chunks := Universe(size).Split(n, s)
				assert.Len(t, chunks, n)
				var all Config
				for _, ch := range chunks {
					assert.NotEmpty(t, ch)
					all = append(all, ch...)
				}
				assert.Equal(t, Universe(size), all)
			}
		}
	}
}

func TestComplement(t *testing.T) {
	chunks := Universe(6).Split(3, SplitBalanced)
	testCases := []struct {
		skip int
		out  Config
	}{
		{0, Config{2, 3, 4, 5}},
		{1, Config{0, 1, 4, 5}},
		{2, Config{0, 1, 2, 3}},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.out, Complement(chunks, tc.skip))
		})
	}
}

func TestMinus(t *testing.T) {
	testCases := []struct {
		a, b, out Config
	}{
		{Config{0, 1, 2, 3}, Config{1, 3}, Config{0, 2}},
		{Config{0, 1, 2}, Config{5}, Config{0, 1, 2}},
		{Config{0, 1}, Config{0, 1}, nil},
	}
	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%v", tc), func(t *testing.T) {
			assert.Equal(t, tc.out, tc.a.Minus(tc.b))
		})
	}
}

func TestParseSplitter(t *testing.T) {
	s, err := ParseSplitter("zeller")
	assert.Nil(t, err)
	assert.Equal(t, SplitZeller, s)
	_, err = ParseSplitter("bogus")
	assert.NotNil(t, err)
}
