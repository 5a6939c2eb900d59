// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tester

import (
	"context"
	"sync/atomic"
	"time"

	"picire/core"
)

// Mock is a scriptable in-process oracle for testing.
type Mock struct {
	// Eval decides the verdict of a configuration.
	Eval func(c core.Config) Verdict
	// Sleep optionally delays the verdict, simulating tester runtime.
	Sleep func(c core.Config) time.Duration

	calls atomic.Int64
}

// Run evaluates the configuration, honoring cancellation during the
// simulated runtime.
func (m *Mock) Run(ctx context.Context, c core.Config, _ ProbeID) Verdict {
	m.calls.Add(1)
	if m.Sleep != nil {
		select {
		case <-time.After(m.Sleep(c)):
		case <-ctx.Done():
			return Cancelled
		}
	}
	if ctx.Err() != nil {
		return Cancelled
	}
	return m.Eval(c)
}

// Calls returns how many times the oracle ran.
func (m *Mock) Calls() int {
	return int(m.calls.Load())
}
