// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package rcv implements the instant-runoff tabulation engine (C2): a pure,
// deterministic function from a poll's candidates and ballot snapshot to a
// complete round-by-round RoundSequence.
package rcv

import "github.com/luxfi/ids"

// TiebreakReason records which strategy in the four-tier hierarchy
// resolved an elimination tie.
type TiebreakReason string

const (
	FirstChoiceVotes       TiebreakReason = "FirstChoiceVotes"
	PriorRoundPerformance  TiebreakReason = "PriorRoundPerformance"
	MostVotesToDistribute  TiebreakReason = "MostVotesToDistribute"
	Random                 TiebreakReason = "Random"
)

// Round is one tally-and-eliminate iteration of the IRV loop.
type Round struct {
	RoundNumber      int
	ActiveVoteCounts map[ids.ID]int
	TotalActiveVotes int
	ExhaustedCount   int
	MajorityThreshold int

	// Eliminated is the candidate eliminated this round, if any (the
	// terminal round has none).
	Eliminated *ids.ID
	// Winner is set on the terminal round only.
	Winner *ids.ID
	// TiebreakReason is set only when Eliminated was chosen among ties.
	TiebreakReason TiebreakReason

	// TransfersFromEliminated describes where the *previous* round's
	// eliminated candidate's ballots were redistributed, attached to
	// this (the next) round's record per spec.md §3.
	TransfersFromEliminated map[ids.ID]int
}

// RoundSequence is the complete, ordered output of Tabulate: one entry per
// round, the last of which carries Winner (or is the sole round, for an
// empty snapshot).
type RoundSequence struct {
	PollID ids.ID
	Rounds []Round
}

// Winner returns the winning candidate's ID and true, or the zero ID and
// false if no round recorded a winner (only possible on an empty or
// all-empty-ballot snapshot).
func (rs RoundSequence) Winner() (ids.ID, bool) {
	if len(rs.Rounds) == 0 {
		return ids.Empty, false
	}
	last := rs.Rounds[len(rs.Rounds)-1]
	if last.Winner != nil {
		return *last.Winner, true
	}
	return ids.Empty, false
}

// TotalBallots returns the ballot count implied by the first round, which
// is invariant across the whole sequence per spec.md §3.
func (rs RoundSequence) TotalBallots() int {
	if len(rs.Rounds) == 0 {
		return 0
	}
	first := rs.Rounds[0]
	return first.TotalActiveVotes + first.ExhaustedCount
}
