// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tools contains subprocess and file helpers shared by the tester
// adapters and the command line interface.
package tools

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"picire/logger"
)

const fileMode = 0600

// killGrace is how long a cancelled tester may take to shut down before it
// is killed forcefully.
const killGrace = 3 * time.Second

// RunCmd runs a command line with arguments and environment variable assignments.
func RunCmd(cmdl string, args, env []string) (string, error) {
	return RunCmdContext(context.Background(), "", cmdl, args, env)
}

// RunCmdContext runs a command line in the given working directory. The
// command is placed in its own process group; on context cancellation the
// whole group receives a termination signal and, if the command is still
// running after a grace period, the command's own process is killed and its
// output pipes are closed. The combined output is returned verbatim.
func RunCmdContext(ctx context.Context, dir, cmdl string, args, env []string) (string, error) {
	logger.Debug(append(append(env, cmdl), args...))
	cmd := exec.CommandContext(ctx, cmdl, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), env...)
	setpgid(cmd)
	cmd.Cancel = func() error { return terminate(cmd) }
	cmd.WaitDelay = killGrace
	out, err := cmd.CombinedOutput()

	sout := string(out)
	if err == nil {
		return sout, nil
	}
	if ctx.Err() != nil {
		return sout, ctx.Err()
	}
	if err, ok := err.(*exec.Error); ok {
		return sout, err
	}
	if err, ok := err.(*exec.ExitError); ok {
		return sout, err
	}
	return sout, fmt.Errorf("unknown error: %v", err)
}

// FileExists returns nil if a file exists otherwise an error.
func FileExists(fn string) error {
	if _, err := os.Stat(fn); os.IsNotExist(err) {
		return fmt.Errorf("file does not exist: %s", fn)
	}
	return nil
}

// IsExecutable returns nil if the file exists and has an executable bit set.
func IsExecutable(fn string) error {
	fi, err := os.Stat(fn)
	if err != nil {
		return fmt.Errorf("file does not exist: %s", fn)
	}
	if fi.Mode()&0111 == 0 {
		return fmt.Errorf("file is not executable: %s", fn)
	}
	return nil
}

// Remove deletes a file or directory tree.
func Remove(fn string) error {
	logger.Debugf("Remove '%s'", fn)
	return os.RemoveAll(fn)
}

// Dump writes data to a file, truncating any previous content.
func Dump(data []byte, fn string) error {
	logger.Debugf("Dump file '%s'", fn)
	out, err := os.OpenFile(fn, os.O_TRUNC|os.O_WRONLY|os.O_CREATE, fileMode)
	if err != nil {
		return err
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Warnf("error closing file: %v", err)
		}
	}()
	_, err = out.Write(data)
	return err
}
