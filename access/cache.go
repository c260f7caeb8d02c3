// Copyright (C) 2019-2026, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package access

import (
	"sync"
	"time"

	"github.com/luxfi/ids"
	"golang.org/x/sync/singleflight"

	"github.com/luxfi/rankchoice"
	"github.com/luxfi/rankchoice/ballot"
	"github.com/luxfi/rankchoice/metrics"
	"github.com/luxfi/rankchoice/results"
)

// cacheEntry is the memoized projection for one snapshot fingerprint.
type cacheEntry struct {
	results results.PollResults
	rounds  results.RoundsView
}

// Cache memoizes tabulation results keyed by snapshot fingerprint, with
// at-most-one concurrent tabulation per fingerprint: the second caller for
// a fingerprint awaits the first rather than re-tabulating, via
// golang.org/x/sync/singleflight's shared in-flight call — exactly the
// "build in progress" marker / shared future SPEC_FULL.md §9 calls for.
// A fill-in-progress call completes even if its original caller abandons
// it, benefiting later callers per spec.md §5.
type Cache struct {
	store   ballot.Store
	metrics *metrics.Metrics
	group   singleflight.Group

	mu      sync.RWMutex
	entries map[string]cacheEntry
}

// NewCache returns a Cache reading ballots from store.
func NewCache(store ballot.Store) *Cache {
	return &Cache{store: store, entries: make(map[string]cacheEntry)}
}

// WithMetrics attaches Prometheus instrumentation to c and returns c for
// chaining.
func (c *Cache) WithMetrics(m *metrics.Metrics) *Cache {
	c.metrics = m
	return c
}

// emptyResults is the sentinel returned for a poll with zero ballots, per
// spec.md §4.4, rather than an error.
func emptyResults() (results.PollResults, results.RoundsView) {
	return results.PollResults{}, results.RoundsView{}
}

// Results returns the projected summary for pollID, tabulating (or
// reusing a cached tabulation) as needed.
func (c *Cache) Results(pollID ids.ID) (results.PollResults, error) {
	pr, _, err := c.resolve(pollID)
	return pr, err
}

// Rounds returns the full, animation-ready round sequence for pollID.
func (c *Cache) Rounds(pollID ids.ID) (results.RoundsView, error) {
	_, rv, err := c.resolve(pollID)
	return rv, err
}

func (c *Cache) resolve(pollID ids.ID) (results.PollResults, results.RoundsView, error) {
	snap, err := c.store.Snapshot(pollID)
	if err != nil {
		return results.PollResults{}, results.RoundsView{}, err
	}
	if snap.BallotCount == 0 {
		pr, rv := emptyResults()
		return pr, rv, nil
	}

	fp := Fingerprint(pollID, snap.LastSubmit, snap.BallotCount)

	c.mu.RLock()
	if e, ok := c.entries[fp]; ok {
		c.mu.RUnlock()
		if c.metrics != nil {
			c.metrics.CacheHits.Inc()
		}
		return e.results, e.rounds, nil
	}
	c.mu.RUnlock()

	v, err, _ := c.group.Do(fp, func() (interface{}, error) {
		// A caller that missed above may only get here after an earlier
		// call for this fingerprint has finished and stored its entry.
		c.mu.RLock()
		e, ok := c.entries[fp]
		c.mu.RUnlock()
		if ok {
			if c.metrics != nil {
				c.metrics.CacheHits.Inc()
			}
			return e, nil
		}
		if c.metrics != nil {
			c.metrics.CacheMisses.Inc()
		}
		start := time.Now()
		seq, err := rcv.Tabulate(snap)
		if c.metrics != nil {
			c.metrics.Tabulations.Inc()
			c.metrics.TabulationSeconds.Observe(time.Since(start).Seconds())
		}
		if err != nil {
			return nil, err
		}
		entry := cacheEntry{
			results: results.ProjectResults(seq, snap.Candidates),
			rounds:  results.ProjectRounds(seq, snap.Candidates),
		}
		c.mu.Lock()
		c.entries[fp] = entry
		c.mu.Unlock()
		return entry, nil
	})
	if err != nil {
		return results.PollResults{}, results.RoundsView{}, err
	}
	entry := v.(cacheEntry)
	return entry.results, entry.rounds, nil
}
