// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package reducer

import "fmt"

// Strategy determines the order in which chunk indices are probed.
type Strategy int

//go:generate go run golang.org/x/tools/cmd/stringer -type=Strategy
const (
	// Forward probes indices 0, 1, ..., n-1
	Forward Strategy = iota
	// Backward probes indices n-1, n-2, ..., 0
	Backward
	// Skip bypasses the whole loop
	Skip
)

// ParseStrategy parses an iteration strategy name.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "forward":
		return Forward, nil
	case "backward":
		return Backward, nil
	case "skip":
		return Skip, nil
	default:
		return Forward, fmt.Errorf("unknown iteration strategy %q", s)
	}
}

// Indices returns the probe order over n chunks.
func (s Strategy) Indices(n int) []int {
	switch s {
	case Backward:
		r := make([]int, n)
		for i := range r {
			r[i] = n - i - 1
		}
		return r
	case Skip:
		return nil
	default:
		r := make([]int, n)
		for i := range r {
			r[i] = i
		}
		return r
	}
}
