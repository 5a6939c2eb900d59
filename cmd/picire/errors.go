// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package main

import (
	"os/exec"
)

type errorType int

//go:generate go run golang.org/x/tools/cmd/stringer -type=errorType
const (
	reduceFail    errorType = 2
	internalError errorType = 1
	configError   errorType = 1
	noError       errorType = 0
)

type rError struct {
	typ errorType
	err error
}

func (e *rError) Error() string {
	if e.err == nil {
		return ""
	}
	return e.err.Error()
}

func (e *rError) Unwrap() error {
	return e.err
}

func (e *rError) Code() int {
	return int(e.typ)
}

func verror(typ errorType, err error) *rError {
	return &rError{
		typ: typ,
		err: err,
	}
}

func getErrorCode(err error) int {
	if err == nil {
		return 0
	}
	switch e := err.(type) {
	case *rError:
		return e.Code()
	case *exec.ExitError:
		return e.ExitCode()
	default:
		return -1
	}
}

func getErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
