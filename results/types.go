// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package results implements the results projector (C3): pure transforms
// from a rcv.RoundSequence into the externally-consumed PollResults and
// RoundsView records.
package results

import (
	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice"
)

// StageStatus is a display-only classification of a candidate's standing
// in a given round, derived from existing Round fields. It adds no new
// tabulation semantics; it is a convenience for round-by-round audit
// display (spec.md §1), echoing the continuing/excluded/elected staged
// vocabulary common across ranked-voting systems.
type StageStatus string

const (
	StatusContinuing StageStatus = "Continuing"
	StatusEliminated StageStatus = "Eliminated"
	StatusWinner     StageStatus = "Winner"
)

// CandidateSummary describes one candidate's standing at the point their
// fate was decided: the final round, for the winner, or the round they
// were eliminated in, for everyone else.
type CandidateSummary struct {
	CandidateID ids.ID
	Name        string
	Votes       int
	Percentage  float64
}

// FinalRanking is one entry in the final, fully-ordered candidate list.
type FinalRanking struct {
	Position        int
	CandidateID     ids.ID
	Name            string
	Votes           int
	Percentage      float64
	EliminatedRound *int // nil for the winner
}

// PollResults is the externally-consumed summary: winner, total votes
// cast, and the complete final ranking.
type PollResults struct {
	Winner        *CandidateSummary
	TotalVotes    int
	FinalRankings []FinalRanking
	RoundsSummary int
}

// CandidateRoundStat is one candidate's tally in one round, enriched with
// display percentage and the vote delta transferred in from the previous
// round's elimination (nil if the candidate received no transfer).
type CandidateRoundStat struct {
	Votes         int
	Percentage    float64
	TransferDelta *int
}

// RoundView is a Round enriched with per-candidate percentages and
// transfer deltas for animation.
type RoundView struct {
	RoundNumber       int
	VoteCounts        map[ids.ID]CandidateRoundStat
	TotalActiveVotes  int
	ExhaustedCount    int
	MajorityThreshold int
	Eliminated        *ids.ID
	Winner            *ids.ID
	TiebreakReason    rcv.TiebreakReason
	Status            map[ids.ID]StageStatus
}

// RoundsView is the complete enriched round sequence, for UI animation.
type RoundsView struct {
	Rounds []RoundView
}
