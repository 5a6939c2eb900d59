// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tester

import (
	"context"
	"fmt"
	"path/filepath"

	"picire/core"
)

// Probe directions.
const (
	DirSubset     = "s"
	DirComplement = "c"
	DirAssert     = "a"
)

// ProbeID identifies one oracle invocation. It encodes the path through the
// search tree and is used to namespace probe workspaces.
type ProbeID struct {
	Run   int
	Dir   string
	Index int
}

// Path returns the slash-joined workspace path of the probe, e.g. "r2/c3".
func (id ProbeID) Path() string {
	return filepath.Join(fmt.Sprintf("r%d", id.Run), fmt.Sprintf("%s%d", id.Dir, id.Index))
}

func (id ProbeID) String() string {
	return fmt.Sprintf("r%d / %s%d", id.Run, id.Dir, id.Index)
}

// Test is the oracle interface. Run evaluates one candidate configuration
// and must return the same verdict for equal configurations. A fired ctx
// maps to Cancelled; an expired per-probe deadline maps to Uninteresting.
type Test interface {
	Run(ctx context.Context, c core.Config, id ProbeID) Verdict
}
