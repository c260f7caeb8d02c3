// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ballot

import (
	"sort"
	"sync"
	"time"

	"github.com/luxfi/ids"
)

// Store is the append-only ballot record. Mutations all go through Submit,
// which holds a per-poll exclusive lock for the duration of validation,
// write, and token consumption. Snapshot takes that same per-poll lock
// while it copies the poll's ballots, so it waits for an in-flight Submit
// to the poll and holds off writers to it for the duration of the copy.
//
// Grounded on the teacher's poll.set: a map-keyed registry of per-key
// state, generalized here with an explicit mutex because this store is
// reached concurrently from HTTP handlers rather than a single event loop.
type Store interface {
	// IssueToken creates a single-use token for pollID, bound to no voter
	// in particular beyond the anonymous-public marker.
	IssueToken(pollID ids.ID) (Token, error)

	// Submit validates and persists a ballot against token, consuming it
	// atomically. Returns ErrTokenInvalid, ErrAlreadyVoted, ErrPollNotOpen,
	// or *InvalidRankingError on failure.
	Submit(token Token, rankings []Ranking) (Receipt, error)

	// Snapshot returns a read-consistent view of every ballot cast for
	// pollID, plus its candidate roster.
	Snapshot(pollID ids.ID) (Snapshot, error)

	// AddCandidate registers a candidate for pollID. Must be called before
	// any ballot referencing it is submitted.
	AddCandidate(pollID ids.ID, name string, displayOrder int) (Candidate, error)

	// Open marks a poll as accepting submissions; Close stops accepting
	// them. New polls start closed.
	Open(pollID ids.ID)
	Close(pollID ids.ID)
}

type pollState struct {
	mu         sync.Mutex
	open       bool
	candidates []Candidate
	ballots    []Ballot
	tokens     map[Token]*tokenRecord
	nextSeq    int64
}

// memStore is the in-memory reference implementation of Store. It models
// the three persisted tables from spec.md §6 (candidates, ballots,
// rankings) as in-memory slices/maps so a SQL-backed Store is a drop-in
// swap behind this same interface.
type memStore struct {
	mu    sync.RWMutex // guards the polls map itself, not poll contents
	polls map[ids.ID]*pollState
}

// NewMemStore returns a Store backed entirely by process memory, suitable
// for tests and for small single-process deployments.
func NewMemStore() Store {
	return &memStore{polls: make(map[ids.ID]*pollState)}
}

func (s *memStore) poll(pollID ids.ID, create bool) *pollState {
	s.mu.RLock()
	p, ok := s.polls[pollID]
	s.mu.RUnlock()
	if ok {
		return p
	}
	if !create {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p, ok = s.polls[pollID]; ok {
		return p
	}
	p = &pollState{tokens: make(map[Token]*tokenRecord)}
	s.polls[pollID] = p
	return p
}

func (s *memStore) Open(pollID ids.ID) {
	p := s.poll(pollID, true)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = true
}

func (s *memStore) Close(pollID ids.ID) {
	p := s.poll(pollID, true)
	p.mu.Lock()
	defer p.mu.Unlock()
	p.open = false
}

func (s *memStore) AddCandidate(pollID ids.ID, name string, displayOrder int) (Candidate, error) {
	p := s.poll(pollID, true)
	p.mu.Lock()
	defer p.mu.Unlock()

	id, err := newID()
	if err != nil {
		return Candidate{}, err
	}
	c := Candidate{
		ID:           id,
		PollID:       pollID,
		Name:         name,
		DisplayOrder: displayOrder,
	}
	p.candidates = append(p.candidates, c)
	return c, nil
}

func (s *memStore) IssueToken(pollID ids.ID) (Token, error) {
	p := s.poll(pollID, true)
	tok, err := NewToken()
	if err != nil {
		return "", err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[tok] = &tokenRecord{pollID: pollID, state: tokenUnconsumed}
	return tok, nil
}

func (s *memStore) Submit(token Token, rankings []Ranking) (Receipt, error) {
	// The token does not by itself tell us which poll's lock to take, so
	// we first find it under a short read pass, then re-validate under
	// the poll's own lock (the token may be consumed concurrently between
	// the two steps; re-validation makes that race safe).
	s.mu.RLock()
	var target *pollState
	var pollID ids.ID
	for id, p := range s.polls {
		p.mu.Lock()
		if _, ok := p.tokens[token]; ok {
			target = p
			pollID = id
			p.mu.Unlock()
			break
		}
		p.mu.Unlock()
	}
	s.mu.RUnlock()

	if target == nil {
		return Receipt{}, ErrTokenInvalid
	}

	target.mu.Lock()
	defer target.mu.Unlock()

	rec, ok := target.tokens[token]
	if !ok {
		return Receipt{}, ErrTokenInvalid
	}
	if rec.state == tokenConsumed {
		return Receipt{}, ErrAlreadyVoted
	}
	if !target.open {
		return Receipt{}, ErrPollNotOpen
	}
	if err := validateRankings(target.candidates, rankings); err != nil {
		return Receipt{}, err
	}

	sorted := make([]Ranking, len(rankings))
	copy(sorted, rankings)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Rank < sorted[j].Rank })

	id, err := newID()
	if err != nil {
		return Receipt{}, err
	}
	target.nextSeq++
	b := Ballot{
		ID:          id,
		PollID:      pollID,
		VoterRef:    AnonymousVoter,
		SubmittedAt: time.Unix(0, target.nextSeq),
		Rankings:    sorted,
	}
	target.ballots = append(target.ballots, b)
	rec.state = tokenConsumed

	return Receipt{
		BallotID:         b.ID,
		VerificationCode: verificationCode(b.ID),
		SubmittedAt:      b.SubmittedAt.UnixNano(),
	}, nil
}

func (s *memStore) Snapshot(pollID ids.ID) (Snapshot, error) {
	p := s.poll(pollID, false)
	if p == nil {
		return Snapshot{}, ErrPollUnknown
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	candidates := make([]Candidate, len(p.candidates))
	copy(candidates, p.candidates)
	ballots := make([]Ballot, len(p.ballots))
	copy(ballots, p.ballots)

	var last time.Time
	for _, b := range ballots {
		if b.SubmittedAt.After(last) {
			last = b.SubmittedAt
		}
	}

	return Snapshot{
		PollID:      pollID,
		Candidates:  candidates,
		Ballots:     ballots,
		LastSubmit:  last,
		BallotCount: len(ballots),
	}, nil
}

// validateRankings enforces the per-ballot uniqueness invariants of
// spec.md §3: each candidate_id appears at most once, each rank value
// appears at most once, and every candidate_id belongs to the poll.
func validateRankings(candidates []Candidate, rankings []Ranking) error {
	known := make(map[ids.ID]bool, len(candidates))
	for _, c := range candidates {
		known[c.ID] = true
	}

	seenCandidate := make(map[ids.ID]bool, len(rankings))
	seenRank := make(map[int]bool, len(rankings))
	for _, r := range rankings {
		if r.Rank < 1 {
			return &InvalidRankingError{Reason: InvalidRankValue}
		}
		if !known[r.CandidateID] {
			return &InvalidRankingError{Reason: UnknownCandidate}
		}
		if seenCandidate[r.CandidateID] {
			return &InvalidRankingError{Reason: DuplicateCandidate}
		}
		if seenRank[r.Rank] {
			return &InvalidRankingError{Reason: DuplicateRank}
		}
		seenCandidate[r.CandidateID] = true
		seenRank[r.Rank] = true
	}
	return nil
}
