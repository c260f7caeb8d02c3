// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package results

import (
	"math"
	"sort"

	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice"
	"github.com/luxfi/rankchoice/ballot"
)

type candidateInfo struct {
	name         string
	displayOrder int
}

func indexCandidates(candidates []ballot.Candidate) map[ids.ID]candidateInfo {
	idx := make(map[ids.ID]candidateInfo, len(candidates))
	for _, c := range candidates {
		idx[c.ID] = candidateInfo{name: c.Name, displayOrder: c.DisplayOrder}
	}
	return idx
}

// pct rounds v/total to one decimal of display precision. Percentages
// need not sum to exactly 100% due to rounding; they are displayed as-is
// per spec.md §4.3.
func pct(v, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(v)/float64(total)*1000) / 10
}

// ProjectResults builds the externally-consumed PollResults summary from a
// completed RoundSequence.
func ProjectResults(seq rcv.RoundSequence, candidates []ballot.Candidate) PollResults {
	idx := indexCandidates(candidates)
	totalBallots := seq.TotalBallots()

	eliminatedRound := make(map[ids.ID]int)
	var finalRound rcv.Round
	if len(seq.Rounds) > 0 {
		finalRound = seq.Rounds[len(seq.Rounds)-1]
	}
	for _, round := range seq.Rounds {
		if round.Eliminated != nil {
			eliminatedRound[*round.Eliminated] = round.RoundNumber
		}
	}

	res := PollResults{
		TotalVotes:    totalBallots,
		RoundsSummary: len(seq.Rounds),
	}

	winnerID, hasWinner := seq.Winner()
	if hasWinner {
		votes := finalRound.ActiveVoteCounts[winnerID]
		res.Winner = &CandidateSummary{
			CandidateID: winnerID,
			Name:        idx[winnerID].name,
			Votes:       votes,
			Percentage:  pct(votes, finalRound.TotalActiveVotes),
		}
	}

	res.FinalRankings = buildFinalRankings(seq, idx, winnerID, hasWinner, eliminatedRound)
	return res
}

// buildFinalRankings implements spec.md §4.3's ordering rule: winner is
// position 1; the rest — every other candidate, eliminated or not — are
// ordered by eliminated_round descending (survivors who were never
// eliminated sort as if eliminated in the final round, ahead of anyone
// eliminated earlier), ties broken by final-round active vote count
// descending, then by display_order ascending as a stable final
// tie-break. Survivors carry a nil EliminatedRound.
func buildFinalRankings(seq rcv.RoundSequence, idx map[ids.ID]candidateInfo, winnerID ids.ID, hasWinner bool, eliminatedRound map[ids.ID]int) []FinalRanking {
	type entry struct {
		id              ids.ID
		round           int // actual elimination round, or the final round number for survivors (sort key only)
		votes           int // the vote count at the round the fate was decided
		eliminatedRound *int
	}

	var finalRound rcv.Round
	if len(seq.Rounds) > 0 {
		finalRound = seq.Rounds[len(seq.Rounds)-1]
	}

	voteCountAt := func(round int, id ids.ID) (votes, totalActive int) {
		for _, r := range seq.Rounds {
			if r.RoundNumber == round {
				return r.ActiveVoteCounts[id], r.TotalActiveVotes
			}
		}
		return 0, 0
	}

	var others []entry
	for id := range idx {
		if hasWinner && id == winnerID {
			continue
		}
		if round, eliminated := eliminatedRound[id]; eliminated {
			votes, _ := voteCountAt(round, id)
			r := round
			others = append(others, entry{id: id, round: round, votes: votes, eliminatedRound: &r})
			continue
		}
		// A survivor: never eliminated, and not the winner (possible
		// when the sequence ends without a majority winner). Sorts as
		// of the final round, with no eliminated_round of its own.
		others = append(others, entry{id: id, round: finalRound.RoundNumber, votes: finalRound.ActiveVoteCounts[id]})
	}

	sort.Slice(others, func(i, j int) bool {
		if others[i].round != others[j].round {
			return others[i].round > others[j].round
		}
		if others[i].votes != others[j].votes {
			return others[i].votes > others[j].votes
		}
		return idx[others[i].id].displayOrder < idx[others[j].id].displayOrder
	})

	var rankings []FinalRanking
	position := 1
	if hasWinner {
		votes := finalRound.ActiveVoteCounts[winnerID]
		rankings = append(rankings, FinalRanking{
			Position:    position,
			CandidateID: winnerID,
			Name:        idx[winnerID].name,
			Votes:       votes,
			Percentage:  pct(votes, finalRound.TotalActiveVotes),
		})
		position++
	}

	for _, e := range others {
		_, totalActive := voteCountAt(e.round, e.id)
		rankings = append(rankings, FinalRanking{
			Position:        position,
			CandidateID:     e.id,
			Name:            idx[e.id].name,
			Votes:           e.votes,
			Percentage:      pct(e.votes, totalActive),
			EliminatedRound: e.eliminatedRound,
		})
		position++
	}

	return rankings
}

// ProjectRounds builds the full, percentage- and transfer-delta-enriched
// round sequence used to animate the tabulation.
func ProjectRounds(seq rcv.RoundSequence, candidates []ballot.Candidate) RoundsView {
	idx := indexCandidates(candidates)
	eliminatedBefore := make(map[ids.ID]bool, len(candidates))

	view := RoundsView{Rounds: make([]RoundView, 0, len(seq.Rounds))}
	for _, round := range seq.Rounds {
		rv := RoundView{
			RoundNumber:       round.RoundNumber,
			VoteCounts:        make(map[ids.ID]CandidateRoundStat, len(round.ActiveVoteCounts)),
			TotalActiveVotes:  round.TotalActiveVotes,
			ExhaustedCount:    round.ExhaustedCount,
			MajorityThreshold: round.MajorityThreshold,
			Eliminated:        round.Eliminated,
			Winner:            round.Winner,
			TiebreakReason:    round.TiebreakReason,
			Status:            make(map[ids.ID]StageStatus, len(idx)),
		}

		for c, v := range round.ActiveVoteCounts {
			stat := CandidateRoundStat{Votes: v, Percentage: pct(v, round.TotalActiveVotes)}
			if round.TransfersFromEliminated != nil {
				if delta, ok := round.TransfersFromEliminated[c]; ok {
					d := delta
					stat.TransferDelta = &d
				}
			}
			rv.VoteCounts[c] = stat
		}

		for id := range idx {
			switch {
			case round.Winner != nil && *round.Winner == id:
				rv.Status[id] = StatusWinner
			case eliminatedBefore[id]:
				rv.Status[id] = StatusEliminated
			case round.Eliminated != nil && *round.Eliminated == id:
				rv.Status[id] = StatusEliminated
			default:
				rv.Status[id] = StatusContinuing
			}
		}

		if round.Eliminated != nil {
			eliminatedBefore[*round.Eliminated] = true
		}

		view.Rounds = append(view.Rounds, rv)
	}

	return view
}
