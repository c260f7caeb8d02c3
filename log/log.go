// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log provides the structured logger used throughout the
// tabulation core, adapted from the teacher's log package: a thin wrapper
// around github.com/luxfi/log (itself backed by go.uber.org/zap).
package log

import "github.com/luxfi/log"

// New returns the named production logger used by the rcvd daemon, which
// hands it to the api handlers for structured, leveled logging.
func New(name string) log.Logger {
	return log.NewLogger(name)
}

// NewNoOp returns a logger that discards everything, for tests and for
// library callers that do not want the core's logging.
func NewNoOp() log.Logger {
	return log.NewNoOpLogger()
}
