// Copyright (C) 2023 Huawei Technologies Co., Ltd. All rights reserved.
// SPDX-License-Identifier: MIT

package core

import (
	"fmt"
	"strings"
)

// Atom is the unit the input is broken into before reduction.
type Atom int

const (
	// AtomLine reduces over input lines.
	AtomLine Atom = iota
	// AtomChar reduces over individual characters.
	AtomChar
)

// ParseAtom parses an atom name.
func ParseAtom(s string) (Atom, error) {
	switch s {
	case "line":
		return AtomLine, nil
	case "char":
		return AtomChar, nil
	default:
		return AtomLine, fmt.Errorf("unknown atom %q", s)
	}
}

// Atomize breaks the input into units. Lines keep their trailing newline so
// that concatenation reproduces the original bytes.
func (a Atom) Atomize(src string) []string {
	if a == AtomChar {
		var units []string
		for _, r := range src {
			units = append(units, string(r))
		}
		return units
	}
	units := strings.SplitAfter(src, "\n")
	if n := len(units); n > 0 && units[n-1] == "" {
		units = units[:n-1]
	}
	return units
}

// Builder assembles a candidate test case from a configuration.
type Builder struct {
	units []string
}

// NewBuilder returns a builder over the units of the original input.
func NewBuilder(units []string) *Builder {
	return &Builder{units: units}
}

// Build concatenates the units selected by the configuration.
func (b *Builder) Build(c Config) []byte {
	var sb strings.Builder
	for _, u := range c {
		sb.WriteString(b.units[u])
	}
	return []byte(sb.String())
}

// Len returns the number of units of the original input.
func (b *Builder) Len() int {
	return len(b.units)
}
