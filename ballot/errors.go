// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Store.Submit. User-visible text lives at the
// API boundary (see package api); these carry only machine-checkable kind.
var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrAlreadyVoted = errors.New("already voted")
	ErrPollNotOpen  = errors.New("poll not open")
	ErrPollUnknown  = errors.New("poll unknown")
)

// RankingErrorReason enumerates the ways a submitted ranking list can
// violate the per-ballot invariants of the data model.
type RankingErrorReason string

const (
	DuplicateCandidate RankingErrorReason = "DuplicateCandidate"
	DuplicateRank       RankingErrorReason = "DuplicateRank"
	UnknownCandidate    RankingErrorReason = "UnknownCandidate"
	InvalidRankValue    RankingErrorReason = "InvalidRankValue"
)

// InvalidRankingError wraps the reason a ballot's rankings were rejected.
type InvalidRankingError struct {
	Reason RankingErrorReason
	Detail string
}

func (e *InvalidRankingError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("invalid ranking: %s", e.Reason)
	}
	return fmt.Sprintf("invalid ranking: %s: %s", e.Reason, e.Detail)
}

// Is allows errors.Is(err, ErrInvalidRanking) style matching regardless of
// the specific reason carried.
func (e *InvalidRankingError) Is(target error) bool {
	return target == ErrInvalidRanking
}

// ErrInvalidRanking is the sentinel matched via errors.Is for any
// *InvalidRankingError, independent of its specific Reason.
var ErrInvalidRanking = errors.New("invalid ranking")
