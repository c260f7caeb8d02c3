// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines and validates poll tabulation parameters,
// adapted from the teacher's consensus Parameters/Valid pattern.
package config

import "time"

// Parameters configures one poll's tabulation run.
type Parameters struct {
	// NumWinners is recorded per spec.md §1 but the shipped engine is
	// single-winner IRV; Valid rejects anything other than 1 rather than
	// silently ignoring it.
	NumWinners int

	// TabulationTimeout is a configured bound on a single Tabulate call.
	// Valid only checks that it is not negative; the engine is synchronous
	// and nothing in this module (package access, the HTTP handlers)
	// reads or enforces it.
	TabulationTimeout time.Duration
}

// DefaultParameters returns the parameters used when a poll specifies
// none explicitly: single-winner, no unusual timeout.
func DefaultParameters() Parameters {
	return Parameters{
		NumWinners:        1,
		TabulationTimeout: 5 * time.Second,
	}
}

// Valid validates p, returning one of the sentinel errors in errors.go.
func (p Parameters) Valid() error {
	if p.NumWinners < 1 {
		return ErrInvalidNumWinners
	}
	if p.NumWinners != 1 {
		return ErrUnsupportedMultiWinner
	}
	if p.TabulationTimeout < 0 {
		return ErrInvalidTimeout
	}
	return nil
}
