// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ballot implements the durable, append-only ballot store (C1): it
// validates and records ranked ballots submitted against single-use voter
// tokens, and produces consistent snapshots for tabulation.
package ballot

import (
	"time"

	"github.com/luxfi/ids"
)

// AnonymousVoter is the voter_ref marker recorded for ballots submitted
// against an unbound, anonymous-public token.
const AnonymousVoter = "anonymous"

// Candidate is a poll entrant. Candidates are immutable once the first
// ballot for the poll has been cast.
type Candidate struct {
	ID           ids.ID
	PollID       ids.ID
	Name         string
	DisplayOrder int
}

// Ranking pairs a candidate with the rank a voter gave it. Ranks are
// 1-indexed and need not be contiguous within a ballot.
type Ranking struct {
	CandidateID ids.ID
	Rank        int
}

// Ballot is one voter's submission: an ordered list of Rankings, sorted
// ascending by Rank. A ballot with no Rankings is a valid, empty ballot.
type Ballot struct {
	ID          ids.ID
	PollID      ids.ID
	VoterRef    string
	SubmittedAt time.Time
	Rankings    []Ranking
}

// Snapshot is a read-consistent, point-in-time view of every ballot cast
// for a poll, plus the poll's candidate roster. It is the sole input the
// tabulation engine accepts.
type Snapshot struct {
	PollID      ids.ID
	Candidates  []Candidate
	Ballots     []Ballot
	LastSubmit  time.Time
	BallotCount int
}
