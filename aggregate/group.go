// Package aggregate implements the search.Aggregator collaborator
// RankSearcher hands every surviving doc to pre-collector, grouping by an
// attribute value and keeping running percentile estimates per group
// (SPEC_FULL.md §4).
package aggregate

import (
	"fmt"
	"sort"

	"github.com/caio/go-tdigest"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// GroupStats is one group's accumulated statistics, read back after Finish.
type GroupStats struct {
	Count int64
	P50   float64
	P90   float64
	P99   float64
}

// GroupAggregator groups matched docs by GroupRef's value and keeps a
// t-digest sketch of MetricRef's value per group, the natural fit for
// streaming percentile estimation over an unbounded match stream without
// retaining every sample (SPEC_FULL.md §4).
type GroupAggregator struct {
	groupRef  search.AnyReference
	metricRef search.AnyReference

	digests map[float64]*tdigest.TDigest
	order   []float64

	finished bool
	results  map[float64]GroupStats
}

// NewGroupAggregator returns an aggregator that buckets by groupRef and
// sketches metricRef within each bucket.
func NewGroupAggregator(groupRef, metricRef search.AnyReference) *GroupAggregator {
	return &GroupAggregator{
		groupRef:  groupRef,
		metricRef: metricRef,
		digests:   make(map[float64]*tdigest.TDigest),
	}
}

// Aggregate implements search.Aggregator.
func (g *GroupAggregator) Aggregate(doc matchdoc.MatchDoc) error {
	key := g.groupRef.ScoreAt(doc)
	td, ok := g.digests[key]
	if !ok {
		var err error
		td, err = tdigest.New()
		if err != nil {
			return fmt.Errorf("aggregate: building digest for group %v: %w", key, err)
		}
		g.digests[key] = td
		g.order = append(g.order, key)
	}
	if err := td.Add(g.metricRef.ScoreAt(doc)); err != nil {
		return fmt.Errorf("aggregate: adding sample to group %v: %w", key, err)
	}
	return nil
}

// Finish implements search.Aggregator, fixing the per-group percentiles so
// Results is stable to call any number of times afterward.
func (g *GroupAggregator) Finish() {
	if g.finished {
		return
	}
	g.finished = true

	g.results = make(map[float64]GroupStats, len(g.digests))
	for _, key := range g.order {
		td := g.digests[key]
		g.results[key] = GroupStats{
			Count: int64(td.Count()),
			P50:   td.Quantile(0.5),
			P90:   td.Quantile(0.9),
			P99:   td.Quantile(0.99),
		}
	}
}

// Results returns each group's stats keyed by group value; the map has no
// order (SortedGroupKeys gives one). Calling before Finish returns nil.
func (g *GroupAggregator) Results() map[float64]GroupStats {
	return g.results
}

// SortedGroupKeys returns the groups Aggregate saw, sorted ascending —
// a convenience for callers (the CLI, tests) that want deterministic output.
func (g *GroupAggregator) SortedGroupKeys() []float64 {
	keys := append([]float64(nil), g.order...)
	sort.Float64s(keys)
	return keys
}

var _ search.Aggregator = (*GroupAggregator)(nil)
