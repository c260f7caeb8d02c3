// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/luxfi/ids"
	"github.com/luxfi/rankchoice/ballot"
	"github.com/luxfi/rankchoice/metrics"
)

func seedPoll(t *testing.T, store ballot.Store) ids.ID {
	t.Helper()
	poll := ids.GenerateTestID()
	store.Open(poll)
	a, err := store.AddCandidate(poll, "Alice", 0)
	if err != nil {
		t.Fatalf("AddCandidate: %v", err)
	}
	tok, err := store.IssueToken(poll)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := store.Submit(tok, []ballot.Ranking{{CandidateID: a.ID, Rank: 1}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	return poll
}

func TestCache_EmptyPollReturnsSentinel(t *testing.T) {
	store := ballot.NewMemStore()
	poll := ids.GenerateTestID()
	store.Open(poll)

	cache := NewCache(store)
	pr, err := cache.Results(poll)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if pr.Winner != nil || pr.TotalVotes != 0 {
		t.Fatalf("expected empty sentinel results, got %+v", pr)
	}
}

func TestCache_HitsAfterFirstResolve(t *testing.T) {
	store := ballot.NewMemStore()
	poll := seedPoll(t, store)

	registry := prometheus.NewRegistry()
	m, err := metrics.New("rcv_test_cache_hits", registry)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	cache := NewCache(store).WithMetrics(m)

	if _, err := cache.Results(poll); err != nil {
		t.Fatalf("Results (first): %v", err)
	}
	if _, err := cache.Results(poll); err != nil {
		t.Fatalf("Results (second): %v", err)
	}

	if got := testCounterValue(t, m.CacheMisses); got != 1 {
		t.Fatalf("expected 1 cache miss, got %v", got)
	}
	if got := testCounterValue(t, m.CacheHits); got != 1 {
		t.Fatalf("expected 1 cache hit, got %v", got)
	}
}

func TestCache_NewBallotInvalidatesFingerprint(t *testing.T) {
	store := ballot.NewMemStore()
	poll := seedPoll(t, store)
	cache := NewCache(store)

	first, err := cache.Results(poll)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}

	b, err := store.AddCandidate(poll, "Bob", 1)
	if err != nil {
		t.Fatalf("AddCandidate: %v", err)
	}
	tok, err := store.IssueToken(poll)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	if _, err := store.Submit(tok, []ballot.Ranking{{CandidateID: b.ID, Rank: 1}}); err != nil {
		t.Fatalf("Submit: %v", err)
	}

	second, err := cache.Results(poll)
	if err != nil {
		t.Fatalf("Results: %v", err)
	}
	if second.TotalVotes == first.TotalVotes {
		t.Fatalf("expected a fresh tabulation reflecting the new ballot")
	}
}

func TestCache_ConcurrentResolveCollapsesToOneTabulation(t *testing.T) {
	store := ballot.NewMemStore()
	poll := seedPoll(t, store)

	registry := prometheus.NewRegistry()
	m, err := metrics.New("rcv_test_cache_concurrent", registry)
	if err != nil {
		t.Fatalf("metrics.New: %v", err)
	}
	cache := NewCache(store).WithMetrics(m)

	const n = 20
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := cache.Results(poll); err != nil {
				t.Errorf("Results: %v", err)
			}
		}()
	}
	wg.Wait()

	if got := testCounterValue(t, m.Tabulations); got != 1 {
		t.Fatalf("expected exactly 1 tabulation across %d concurrent callers, got %v", n, got)
	}
}

func testCounterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var metric dto.Metric
	if err := c.Write(&metric); err != nil {
		t.Fatalf("Write: %v", err)
	}
	return metric.GetCounter().GetValue()
}
