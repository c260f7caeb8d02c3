// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package results

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice"
	"github.com/luxfi/rankchoice/ballot"
)

func TestProjectResults_WinnerAndOrdering(t *testing.T) {
	poll := ids.GenerateTestID()
	a := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Alice", DisplayOrder: 0}
	b := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Bob", DisplayOrder: 1}
	c := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Cara", DisplayOrder: 2}
	candidates := []ballot.Candidate{a, b, c}

	seq := rcv.RoundSequence{
		PollID: poll,
		Rounds: []rcv.Round{
			{
				RoundNumber:       1,
				ActiveVoteCounts:  map[ids.ID]int{a.ID: 3, b.ID: 1, c.ID: 1},
				TotalActiveVotes:  5,
				MajorityThreshold: 3,
				Eliminated:        &c.ID,
				TiebreakReason:    rcv.FirstChoiceVotes,
			},
			{
				RoundNumber:       2,
				ActiveVoteCounts:  map[ids.ID]int{a.ID: 4, b.ID: 1},
				TotalActiveVotes:  5,
				MajorityThreshold: 3,
				Winner:            &a.ID,
			},
		},
	}

	pr := ProjectResults(seq, candidates)
	if pr.Winner == nil || pr.Winner.CandidateID != a.ID {
		t.Fatalf("expected Alice to win, got %+v", pr.Winner)
	}
	if pr.Winner.Votes != 4 {
		t.Fatalf("expected winner votes 4, got %d", pr.Winner.Votes)
	}
	if pr.TotalVotes != 5 {
		t.Fatalf("expected total votes 5, got %d", pr.TotalVotes)
	}
	// All three candidates appear: the winner, Bob (a survivor who was
	// never eliminated), and Cara (eliminated in round 1). Bob sorts
	// ahead of Cara because a never-eliminated survivor ranks as of the
	// final round, ahead of anyone eliminated earlier.
	if len(pr.FinalRankings) != 3 {
		t.Fatalf("expected 3 ranking entries, got %d", len(pr.FinalRankings))
	}
	if pr.FinalRankings[0].CandidateID != a.ID || pr.FinalRankings[0].Position != 1 {
		t.Fatalf("expected Alice in position 1, got %+v", pr.FinalRankings[0])
	}
	if pr.FinalRankings[1].CandidateID != b.ID || pr.FinalRankings[1].EliminatedRound != nil {
		t.Fatalf("expected Bob in position 2 with no eliminated_round, got %+v", pr.FinalRankings[1])
	}
	if pr.FinalRankings[2].CandidateID != c.ID || pr.FinalRankings[2].EliminatedRound == nil || *pr.FinalRankings[2].EliminatedRound != 1 {
		t.Fatalf("expected Cara in position 3 eliminated in round 1, got %+v", pr.FinalRankings[2])
	}
	for _, fr := range pr.FinalRankings[1:] {
		if fr.CandidateID == a.ID {
			t.Fatalf("winner should not also appear as a non-winner entry")
		}
	}
}

func TestProjectResults_NoWinner(t *testing.T) {
	poll := ids.GenerateTestID()
	a := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Alice", DisplayOrder: 0}
	seq := rcv.RoundSequence{
		PollID: poll,
		Rounds: []rcv.Round{
			{RoundNumber: 1, ActiveVoteCounts: map[ids.ID]int{}, TotalActiveVotes: 0, ExhaustedCount: 4, MajorityThreshold: 1},
		},
	}
	pr := ProjectResults(seq, []ballot.Candidate{a})
	if pr.Winner != nil {
		t.Fatalf("expected no winner, got %+v", pr.Winner)
	}
	// TotalVotes counts every ballot cast, including the 4 exhausted ones.
	if pr.TotalVotes != 4 {
		t.Fatalf("expected 4 total votes, got %d", pr.TotalVotes)
	}
}

func TestProjectRounds_StatusTransitions(t *testing.T) {
	poll := ids.GenerateTestID()
	a := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Alice", DisplayOrder: 0}
	b := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Bob", DisplayOrder: 1}
	candidates := []ballot.Candidate{a, b}

	seq := rcv.RoundSequence{
		PollID: poll,
		Rounds: []rcv.Round{
			{
				RoundNumber:       1,
				ActiveVoteCounts:  map[ids.ID]int{a.ID: 3, b.ID: 1},
				TotalActiveVotes:  4,
				MajorityThreshold: 3,
				Winner:            &a.ID,
			},
		},
	}

	rv := ProjectRounds(seq, candidates)
	if len(rv.Rounds) != 1 {
		t.Fatalf("expected 1 round, got %d", len(rv.Rounds))
	}
	round := rv.Rounds[0]
	if round.Status[a.ID] != StatusWinner {
		t.Fatalf("expected Alice marked Winner, got %v", round.Status[a.ID])
	}
	if round.Status[b.ID] != StatusContinuing {
		t.Fatalf("expected Bob marked Continuing, got %v", round.Status[b.ID])
	}
	stat := round.VoteCounts[a.ID]
	if stat.Votes != 3 || stat.Percentage != 75 {
		t.Fatalf("expected Alice 3 votes / 75%%, got %+v", stat)
	}
}

func TestProjectRounds_EliminatedCarriesForward(t *testing.T) {
	poll := ids.GenerateTestID()
	a := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Alice", DisplayOrder: 0}
	b := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Bob", DisplayOrder: 1}
	c := ballot.Candidate{ID: ids.GenerateTestID(), PollID: poll, Name: "Cara", DisplayOrder: 2}
	candidates := []ballot.Candidate{a, b, c}

	seq := rcv.RoundSequence{
		PollID: poll,
		Rounds: []rcv.Round{
			{RoundNumber: 1, ActiveVoteCounts: map[ids.ID]int{a.ID: 2, b.ID: 2, c.ID: 1}, TotalActiveVotes: 5, MajorityThreshold: 3, Eliminated: &c.ID},
			{RoundNumber: 2, ActiveVoteCounts: map[ids.ID]int{a.ID: 3, b.ID: 2}, TotalActiveVotes: 5, MajorityThreshold: 3, Winner: &a.ID},
		},
	}

	rv := ProjectRounds(seq, candidates)
	// In round 2, C (eliminated in round 1) must show as Eliminated, not
	// revert to Continuing.
	round2 := rv.Rounds[1]
	if round2.Status[c.ID] != StatusEliminated {
		t.Fatalf("expected C to remain Eliminated in round 2, got %v", round2.Status[c.ID])
	}
}
