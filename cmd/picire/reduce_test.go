// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"picire/reducer"
)

func resetFlags() {
	reduceFlags.parallel = false
	reduceFlags.jobs = 4
	reduceFlags.subsetIter = "forward"
	reduceFlags.complementIter = "forward"
	reduceFlags.split = 2
	reduceFlags.splitter = "balanced"
	reduceFlags.complementFirst = false
	reduceFlags.combineLoops = false
	reduceFlags.limitTests = 0
}

func TestNewDriverConfigDefaults(t *testing.T) {
	resetFlags()
	cfg, err := newDriverConfig()
	assert.Nil(t, err)
	assert.Equal(t, 1, cfg.Jobs)
	assert.Equal(t, 2, cfg.SplitFactor)
	assert.True(t, cfg.SubsetFirst)
	assert.Equal(t, reducer.Forward, cfg.Subset)
	assert.Equal(t, reducer.Forward, cfg.Complement)
}

func TestNewDriverConfigParallel(t *testing.T) {
	resetFlags()
	reduceFlags.parallel = true
	reduceFlags.jobs = 8
	cfg, err := newDriverConfig()
	assert.Nil(t, err)
	assert.Equal(t, 8, cfg.Jobs)
}

func TestNewDriverConfigRejectsDoubleSkip(t *testing.T) {
	resetFlags()
	reduceFlags.subsetIter = "skip"
	reduceFlags.complementIter = "skip"
	_, err := newDriverConfig()
	assert.NotNil(t, err)
}

func TestNewDriverConfigRejectsBadValues(t *testing.T) {
	resetFlags()
	reduceFlags.split = 1
	_, err := newDriverConfig()
	assert.NotNil(t, err)

	resetFlags()
	reduceFlags.subsetIter = "random"
	_, err = newDriverConfig()
	assert.NotNil(t, err)

	resetFlags()
	reduceFlags.splitter = "linear"
	_, err = newDriverConfig()
	assert.NotNil(t, err)

	resetFlags()
	reduceFlags.parallel = true
	reduceFlags.jobs = 0
	_, err = newDriverConfig()
	assert.NotNil(t, err)
}

func TestErrorCodes(t *testing.T) {
	assert.Equal(t, 0, getErrorCode(nil))
	assert.Equal(t, 1, getErrorCode(verror(configError, assert.AnError)))
	assert.Equal(t, 2, getErrorCode(verror(reduceFail, assert.AnError)))
	assert.Equal(t, assert.AnError.Error(), getErrorMessage(verror(internalError, assert.AnError)))
}
