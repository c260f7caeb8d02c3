// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package rcv

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"sort"

	"github.com/luxfi/ids"
)

// tiebreakKey domain-separates the Random strategy's keyed hash from any
// other hashing elsewhere in the system. It is a process-wide constant,
// not a secret: determinism, not confidentiality, is the goal.
var tiebreakKey = []byte("rcv-tiebreak-v1")

// tieContext carries everything the four-tier hierarchy needs to resolve
// an elimination tie at round roundNumber.
type tieContext struct {
	pollID      ids.ID
	roundNumber int
	round1Tally map[ids.ID]int
	priorRounds []Round
	ballots     []*ballotState
	eliminated  map[ids.ID]bool
}

// resolveTie applies the four-tier hierarchy in order, narrowing tied at
// each stage, and returns the candidate to eliminate plus the strategy
// that made the final, unique selection. If tied already has one member,
// no strategy is invoked and reason is the empty string.
func resolveTie(tied []ids.ID, ctx tieContext) (ids.ID, TiebreakReason) {
	if len(tied) == 1 {
		return tied[0], ""
	}

	// Strategy 1: fewest round-1 first-choice votes.
	narrowed := narrowByMin(tied, func(c ids.ID) int { return ctx.round1Tally[c] })
	if len(narrowed) == 1 {
		return narrowed[0], FirstChoiceVotes
	}

	// Strategy 2: most recent prior round where the (narrowed) tied
	// candidates' counts differ; eliminate the lowest.
	for r := len(ctx.priorRounds); r >= 1; r-- {
		round := ctx.priorRounds[r-1]
		values := func(c ids.ID) int { return round.ActiveVoteCounts[c] }
		if !allEqual(narrowed, values) {
			narrowed = narrowByMin(narrowed, values)
			break
		}
	}
	if len(narrowed) == 1 {
		return narrowed[0], PriorRoundPerformance
	}

	// Strategy 3: eliminate whoever's removal disrupts the most ballots —
	// the candidate with the most ballots that would actually transfer to
	// a different, still-live candidate (as opposed to exhausting).
	disruption := func(c ids.ID) int {
		simulated := make(map[ids.ID]bool, len(ctx.eliminated)+1)
		for k, v := range ctx.eliminated {
			simulated[k] = v
		}
		simulated[c] = true

		count := 0
		for _, bs := range ctx.ballots {
			if bs.exhausted {
				continue
			}
			cur, _ := bs.current()
			if cur != c {
				continue
			}
			p := bs.pointer
			for p < len(bs.prefs) && simulated[bs.prefs[p]] {
				p++
			}
			if p < len(bs.prefs) {
				count++
			}
		}
		return count
	}
	narrowed = narrowByMax(narrowed, disruption)
	if len(narrowed) == 1 {
		return narrowed[0], MostVotesToDistribute
	}

	// Strategy 4: deterministic, cryptographically seeded random pick.
	return randomPick(ctx.pollID, ctx.roundNumber, narrowed), Random
}

func narrowByMin(candidates []ids.ID, value func(ids.ID) int) []ids.ID {
	min := value(candidates[0])
	for _, c := range candidates[1:] {
		if v := value(c); v < min {
			min = v
		}
	}
	var out []ids.ID
	for _, c := range candidates {
		if value(c) == min {
			out = append(out, c)
		}
	}
	return out
}

func narrowByMax(candidates []ids.ID, value func(ids.ID) int) []ids.ID {
	max := value(candidates[0])
	for _, c := range candidates[1:] {
		if v := value(c); v > max {
			max = v
		}
	}
	var out []ids.ID
	for _, c := range candidates {
		if value(c) == max {
			out = append(out, c)
		}
	}
	return out
}

func allEqual(candidates []ids.ID, value func(ids.ID) int) bool {
	if len(candidates) == 0 {
		return true
	}
	first := value(candidates[0])
	for _, c := range candidates[1:] {
		if value(c) != first {
			return false
		}
	}
	return true
}

// randomPick derives a deterministic index into the sorted tied list from
// a keyed hash over (poll_id, round_number, sorted_tied_ids), per
// SPEC_FULL.md §9. The same tie in the same poll always resolves the
// same way.
func randomPick(pollID ids.ID, roundNumber int, tied []ids.ID) ids.ID {
	sorted := append([]ids.ID(nil), tied...)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i][:], sorted[j][:]) < 0
	})

	mac := hmac.New(sha256.New, tiebreakKey)
	mac.Write(pollID[:])
	var roundBuf [4]byte
	binary.BigEndian.PutUint32(roundBuf[:], uint32(roundNumber))
	mac.Write(roundBuf[:])
	for _, id := range sorted {
		mac.Write(id[:])
	}
	digest := mac.Sum(nil)

	idx := binary.BigEndian.Uint64(digest[:8]) % uint64(len(sorted))
	return sorted[idx]
}
