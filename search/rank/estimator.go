package rank

import (
	"encoding/binary"

	"github.com/axiomhq/hyperloglog"
	"gonum.org/v1/gonum/stat"
)

// ResultEstimator projects the total distinct match count across layers
// already searched, and the match-rate later layers are likely to exhibit
// (spec.md §4.5). It is grounded on two libraries from the pack: a
// hyperloglog sketch so overlapping layers (relevant once PKQueryExecutor
// or joins are layered on top of the same doc-id space) don't double-count,
// and gonum/stat for projecting the remaining-layer yield from the
// per-layer match rates observed so far.
type ResultEstimator struct {
	sketch     *hyperloglog.Sketch
	seekRates  []float64
	matchRates []float64
	totalSeek  int64
	totalMatch int64
}

// NewResultEstimator returns an estimator with no observations yet.
func NewResultEstimator() *ResultEstimator {
	return &ResultEstimator{sketch: hyperloglog.New14()}
}

// ObserveMatch records one matched doc id into the distinct-count sketch.
func (e *ResultEstimator) ObserveMatch(docID int32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(docID))
	e.sketch.Insert(b[:])
}

// RecordLayer folds one completed layer's seek/match counts into the
// running rate history used to project later layers.
func (e *ResultEstimator) RecordLayer(seekCount, matchCount int64) {
	e.totalSeek += seekCount
	e.totalMatch += matchCount
	if seekCount > 0 {
		e.seekRates = append(e.seekRates, float64(seekCount))
		e.matchRates = append(e.matchRates, float64(matchCount)/float64(seekCount))
	}
}

// EstimatedTotal returns the current projected total distinct match count,
// a hyperloglog estimate over the doc ids passed to ObserveMatch. It is
// approximate, and it counts a doc id observed more than once (from
// overlapping layers, or several sub-docs of one main doc) only once.
func (e *ResultEstimator) EstimatedTotal() uint64 {
	return e.sketch.Estimate()
}

// ProjectedYieldRate returns the mean matches-per-seek observed across
// layers searched so far (unweighted; 1.0 if no layer has been recorded).
// LayerRangeDistributor does not consult it: quota trimming uses
// TotalMatchCount.
func (e *ResultEstimator) ProjectedYieldRate() float64 {
	if len(e.matchRates) == 0 {
		return 1.0
	}
	return stat.Mean(e.matchRates, nil)
}

// TotalMatchCount returns the exact running sum of per-layer match counts,
// the value RankSearcher reports upward — this is monotonic over layers by
// construction (spec.md §3's "TotalMatchCount reported upward is
// monotonic").
func (e *ResultEstimator) TotalMatchCount() int64 {
	return e.totalMatch
}
