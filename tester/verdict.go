// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tester defines the oracle contract of the reducer and its
// subprocess implementation.
package tester

// Verdict represents the outcome of one oracle invocation.
type Verdict int

//go:generate go run golang.org/x/tools/cmd/stringer -type=Verdict
const (
	// Undefined represents a probe without a verdict yet
	Undefined Verdict = iota
	// Interesting represents a candidate that exhibits the property
	Interesting
	// Uninteresting represents a candidate that does not exhibit the property
	Uninteresting
	// Cancelled represents a probe preempted by the scheduler
	Cancelled
)
