// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rcv

import (
	"errors"
	"fmt"
)

// ErrUnsupportedMultiWinner is the engine-side sentinel for a poll
// configured with num_winners != 1. Tabulate takes no num_winners and does
// not return it; config.Parameters.Valid rejects such a configuration with
// its own sentinel. Multi-winner (STV) semantics are not specified; see
// SPEC_FULL.md's Open Questions.
var ErrUnsupportedMultiWinner = errors.New("multi-winner tabulation is not supported")

// InvariantViolation signals that the engine detected corrupt input or a
// bug in its own bookkeeping: vote conservation failed across rounds. It
// is fatal and is never retried by callers (see package access).
type InvariantViolation struct {
	Round   int
	Detail  string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("engine invariant violation at round %d: %s", e.Round, e.Detail)
}

// Is allows errors.Is(err, ErrEngineInvariantViolation).
func (e *InvariantViolation) Is(target error) bool {
	return target == ErrEngineInvariantViolation
}

// ErrEngineInvariantViolation is the sentinel matched via errors.Is for
// any *InvariantViolation.
var ErrEngineInvariantViolation = errors.New("engine invariant violation")
