// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rcv

import (
	"sort"

	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice/ballot"
	"github.com/luxfi/rankchoice/internal/bag"
)

// ballotState is the per-ballot pointer into its sorted-by-rank preference
// list. This is the arena-of-indices representation from SPEC_FULL.md §9:
// a flat preference array per ballot plus a parallel pointer, replacing a
// pointer-graph formulation for cache-friendly, trivially deterministic
// iteration.
type ballotState struct {
	prefs     []ids.ID
	pointer   int
	exhausted bool
}

func newBallotState(b ballot.Ballot) *ballotState {
	prefs := make([]ids.ID, len(b.Rankings))
	for i, r := range b.Rankings {
		prefs[i] = r.CandidateID
	}
	bs := &ballotState{prefs: prefs}
	if len(prefs) == 0 {
		bs.exhausted = true
	}
	return bs
}

func (bs *ballotState) current() (ids.ID, bool) {
	if bs.exhausted {
		return ids.Empty, false
	}
	return bs.prefs[bs.pointer], true
}

// advance moves the pointer past any eliminated candidate, exhausting the
// ballot if no live candidate remains in its ranked list.
func (bs *ballotState) advance(eliminated map[ids.ID]bool) {
	if bs.exhausted {
		return
	}
	for bs.pointer < len(bs.prefs) && eliminated[bs.prefs[bs.pointer]] {
		bs.pointer++
	}
	if bs.pointer >= len(bs.prefs) {
		bs.exhausted = true
	}
}

// Tabulate runs instant-runoff voting to completion over snapshot and
// returns the full round-by-round audit trail. Tabulate is pure and
// deterministic: identical inputs always yield byte-identical output.
func Tabulate(snapshot ballot.Snapshot) (RoundSequence, error) {
	candidates := make([]ids.ID, len(snapshot.Candidates))
	displayOrder := make(map[ids.ID]int, len(snapshot.Candidates))
	for i, c := range snapshot.Candidates {
		candidates[i] = c.ID
		displayOrder[c.ID] = c.DisplayOrder
	}
	sort.Slice(candidates, func(i, j int) bool { return displayOrder[candidates[i]] < displayOrder[candidates[j]] })

	seq := RoundSequence{PollID: snapshot.PollID}

	if len(candidates) == 0 {
		seq.Rounds = append(seq.Rounds, Round{
			RoundNumber:       1,
			ActiveVoteCounts:  map[ids.ID]int{},
			TotalActiveVotes:  0,
			ExhaustedCount:    len(snapshot.Ballots),
			MajorityThreshold: 1,
		})
		return seq, nil
	}

	ballots := make([]*ballotState, len(snapshot.Ballots))
	for i, b := range snapshot.Ballots {
		ballots[i] = newBallotState(b)
	}
	totalBallots := len(ballots)

	eliminated := make(map[ids.ID]bool, len(candidates))
	eliminatedRound := make(map[ids.ID]int, len(candidates))
	remaining := append([]ids.ID(nil), candidates...)

	var round1Tally map[ids.ID]int
	var pendingTransfers map[ids.ID]int
	prevActive := totalBallots + 1 // sentinel, larger than any possible count
	prevExhausted := -1

	for r := 1; r <= len(candidates); r++ {
		// tally is the teacher's generic multiset, seeded with every
		// still-live candidate (Ensure) so a candidate currently holding
		// zero ballots is still a Min/Tied elimination candidate, then
		// populated by walking each ballot's current live preference.
		tally := bag.New[ids.ID]()
		for _, c := range remaining {
			tally.Ensure(c)
		}
		exhaustedCount := 0
		for _, bs := range ballots {
			if bs.exhausted {
				exhaustedCount++
				continue
			}
			c, ok := bs.current()
			if !ok {
				exhaustedCount++
				continue
			}
			tally.Add(c)
		}
		totalActive := totalBallots - exhaustedCount

		voteCounts := make(map[ids.ID]int, len(remaining))
		for _, c := range remaining {
			voteCounts[c] = tally.Count(c)
		}

		if totalActive+exhaustedCount != totalBallots {
			return seq, &InvariantViolation{Round: r, Detail: "total_active_votes + exhausted_count != total_submitted_ballots"}
		}
		if tally.Len() != totalActive {
			return seq, &InvariantViolation{Round: r, Detail: "sum(active_vote_counts) != total_active_votes"}
		}
		if totalActive > prevActive {
			return seq, &InvariantViolation{Round: r, Detail: "total_active_votes increased between rounds"}
		}
		if prevExhausted >= 0 && exhaustedCount < prevExhausted {
			return seq, &InvariantViolation{Round: r, Detail: "exhausted_count decreased between rounds"}
		}
		prevActive, prevExhausted = totalActive, exhaustedCount

		if r == 1 {
			round1Tally = make(map[ids.ID]int, len(voteCounts))
			for k, v := range voteCounts {
				round1Tally[k] = v
			}
		}

		threshold := totalActive/2 + 1

		round := Round{
			RoundNumber:             r,
			ActiveVoteCounts:        voteCounts,
			TotalActiveVotes:        totalActive,
			ExhaustedCount:          exhaustedCount,
			MajorityThreshold:       threshold,
			TransfersFromEliminated: pendingTransfers,
		}
		pendingTransfers = nil

		// Winner check: majority, default-winner-by-elimination, or a
		// vacuous zero-vote state that cannot be resolved further.
		if winner, ok := checkWinner(remaining, voteCounts, totalActive, threshold); ok {
			w := winner
			round.Winner = &w
			seq.Rounds = append(seq.Rounds, round)
			return seq, nil
		}
		if totalActive == 0 {
			seq.Rounds = append(seq.Rounds, round)
			return seq, nil
		}

		// Eliminate the candidate with the fewest active votes this
		// round, via the bag's own Min/Tied surface.
		tied := tally.Tied(tally.Min())

		elim, reason := resolveTie(tied, tieContext{
			pollID:          snapshot.PollID,
			roundNumber:     r,
			round1Tally:     round1Tally,
			priorRounds:     seq.Rounds,
			ballots:         ballots,
			eliminated:      eliminated,
		})
		round.Eliminated = &elim
		round.TiebreakReason = reason
		seq.Rounds = append(seq.Rounds, round)

		eliminated[elim] = true
		eliminatedRound[elim] = r
		remaining = removeID(remaining, elim)

		transfers := make(map[ids.ID]int)
		for _, bs := range ballots {
			if bs.exhausted {
				continue
			}
			cur, _ := bs.current()
			if cur != elim {
				continue
			}
			bs.advance(eliminated)
			if !bs.exhausted {
				dest, _ := bs.current()
				transfers[dest]++
			}
		}
		pendingTransfers = transfers
	}

	return seq, &InvariantViolation{Round: len(candidates) + 1, Detail: "exhausted candidate pool without a winner"}
}

// checkWinner implements spec.md §4.2.c: a majority winner, or the sole
// remaining candidate winning by default once everyone else is eliminated.
func checkWinner(remaining []ids.ID, tally map[ids.ID]int, totalActive, threshold int) (ids.ID, bool) {
	if totalActive > 0 {
		for _, c := range remaining {
			if tally[c] >= threshold {
				return c, true
			}
		}
	}
	if len(remaining) == 1 {
		return remaining[0], true
	}
	return ids.Empty, false
}

func removeID(list []ids.ID, target ids.ID) []ids.ID {
	out := make([]ids.ID, 0, len(list)-1)
	for _, id := range list {
		if id != target {
			out = append(out, id)
		}
	}
	return out
}
