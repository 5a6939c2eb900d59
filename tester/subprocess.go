// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package tester

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"picire/core"
	"picire/logger"
	"picire/tools"
)

// SubprocessConfig configures a SubprocessTest.
type SubprocessConfig struct {
	// Command is the tester executable. It is invoked with a single
	// argument, the path of the serialized candidate.
	Command string
	// WorkDir is the root under which per-probe workspaces are created.
	WorkDir string
	// Filename of the candidate file inside the probe workspace.
	Filename string
	// Timeout bounds one tester run; 0 means no limit. A timed out probe
	// counts as Uninteresting.
	Timeout time.Duration
	// Cleanup removes every probe workspace once its verdict is known.
	// When false, only workspaces of interesting probes are kept; see
	// KeepOnly.
	Cleanup bool
}

// SubprocessTest runs an external tester executable on serialized
// candidates. Exit code 0 means Interesting, everything else
// Uninteresting. It is safe for concurrent probes; each probe gets a
// unique workspace.
type SubprocessTest struct {
	cfg   SubprocessConfig
	build func(core.Config) []byte

	mu   sync.Mutex
	kept map[string]string
}

// NewSubprocessTest returns a subprocess oracle over the given builder.
func NewSubprocessTest(cfg SubprocessConfig, build func(core.Config) []byte) *SubprocessTest {
	return &SubprocessTest{
		cfg:   cfg,
		build: build,
		kept:  make(map[string]string),
	}
}

// Run writes the candidate into the probe workspace, executes the tester
// with the workspace as working directory and maps its exit status to a
// verdict. The workspace is released on every exit path unless the verdict
// is Interesting and Cleanup is disabled.
func (t *SubprocessTest) Run(ctx context.Context, c core.Config, id ProbeID) Verdict {
	dir := filepath.Join(t.cfg.WorkDir, id.Path())
	if err := os.MkdirAll(dir, 0700); err != nil {
		logger.Warnf("could not create workspace %s: %v", dir, err)
		return Uninteresting
	}
	fn := filepath.Join(dir, t.cfg.Filename)
	if err := tools.Dump(t.build(c), fn); err != nil {
		logger.Warnf("could not write candidate %s: %v", fn, err)
		t.release(dir)
		return Uninteresting
	}

	if t.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.cfg.Timeout)
		defer cancel()
	}

	out, err := tools.RunCmdContext(ctx, dir, t.cfg.Command, []string{fn}, nil)
	logger.Debugf("[ %v ] tester output:\n%s", id, out)

	v := t.verdict(ctx, err, id)
	if t.cfg.Cleanup || v != Interesting {
		t.release(dir)
	} else {
		t.keep(id, dir)
	}
	return v
}

func (t *SubprocessTest) verdict(ctx context.Context, err error, id ProbeID) Verdict {
	switch {
	case errors.Is(ctx.Err(), context.Canceled):
		return Cancelled
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		logger.Infof("\t[ %v ]: timeout", id)
		return Uninteresting
	case err == nil:
		return Interesting
	default:
		var exit *exec.ExitError
		if !errors.As(err, &exit) {
			// the tester did not even start; treat as a crashed worker
			logger.Warnf("[ %v ] tester failed: %v", id, err)
		}
		return Uninteresting
	}
}

func (t *SubprocessTest) keep(id ProbeID, dir string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.kept[id.Path()] = dir
}

func (t *SubprocessTest) release(dir string) {
	if err := tools.Remove(dir); err != nil {
		logger.Warnf("could not remove workspace %s: %v", dir, err)
	}
}

// KeepOnly removes all retained workspaces except the one of the winning
// probe. Superseded winners are released once a new winner is promoted.
func (t *SubprocessTest) KeepOnly(id ProbeID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for p, dir := range t.kept {
		if p == id.Path() {
			continue
		}
		t.release(dir)
		delete(t.kept, p)
	}
}
