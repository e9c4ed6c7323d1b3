package rank

import (
	"errors"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// ErrTimeout is returned by SingleLayerSearcher.Seek when the session's
// TimeoutTerminator fires mid-layer; partial results collected before the
// timeout remain valid (spec.md §4.1, error semantics).
var ErrTimeout = errors.New("rank: seek timeout")

// ErrIndexIO wraps a fatal file I/O error surfaced by the index layer via
// search.ErrorableExecutor; partial results collected before the error
// remain valid (spec.md §7, ERROR_INDEXLIB_IO).
type ErrIndexIO struct{ Cause error }

func (e *ErrIndexIO) Error() string { return "rank: index I/O error: " + e.Cause.Error() }
func (e *ErrIndexIO) Unwrap() error { return e.Cause }

// SingleLayerSearcherParam bundles everything one layer's seek needs
// (spec.md §4.1 step b). Scorer and Aggregator may be nil; Collector must
// not be nil for a scored layer.
type SingleLayerSearcherParam struct {
	Executor       search.QueryExecutor
	Layer          search.LayerMeta
	Quota          int
	Filter         search.Filter
	DeletionMap    search.DeletionMapReader
	Allocator      matchdoc.Allocator
	Terminator     *TimeoutTerminator
	MainToSub      search.MainToSubIterator
	SubDeletionMap search.DeletionMapReader
	GetAllSubDoc   bool
	Scorer         func(doc matchdoc.MatchDoc) float64
	Aggregator     search.Aggregator
	Collector      search.HitCollector
	Scored         bool
	Estimator      *ResultEstimator
}

// SingleLayerSearcher drives the seek+evaluate loop for one layer. The four
// seek flavors spec.md §4.1 names — (scored|unscored) x (plain|joined) —
// collapse to a single loop parameterized by Scored: "joined" is not a
// distinct control-flow shape, it is simply a FilterWrapper that happens to
// carry a JoinFilter, which this loop already composes transparently
// through the Filter field.
type SingleLayerSearcher struct{}

// NewSingleLayerSearcher returns a stateless driver; it holds no per-layer
// state of its own, all of which lives in the param and the collaborators
// it references.
func NewSingleLayerSearcher() *SingleLayerSearcher { return &SingleLayerSearcher{} }

// Seek drives param.Executor to exhaustion or quota, pushing survivors into
// param.Collector (scored) or discarding them after aggregation (unscored).
// It returns the number of docs that survived the filter (matchCount) and
// the number of seeks performed (seekCount).
func (s *SingleLayerSearcher) Seek(param SingleLayerSearcherParam) (matchCount, seekCount int64, err error) {
	if param.Executor == nil {
		return 0, 0, nil
	}

	target := int32(0)
	cur := param.Executor.SeekDoc(target)
	if errExec, ok := param.Executor.(search.ErrorableExecutor); ok {
		if e := errExec.Err(); e != nil {
			return 0, 0, &ErrIndexIO{Cause: e}
		}
	}

	for cur != search.EndDocID {
		seekCount++

		if param.DeletionMap == nil || !param.DeletionMap.IsDeleted(cur) {
			docs := s.candidateDocs(param, cur)
			for _, d := range docs {
				if param.Filter != nil && !param.Filter.Pass(d) {
					param.Allocator.Deallocate(d)
					continue
				}
				if param.Aggregator != nil {
					if aerr := param.Aggregator.Aggregate(d); aerr != nil {
						param.Allocator.Deallocate(d)
						continue
					}
				}
				if param.Estimator != nil {
					param.Estimator.ObserveMatch(param.Allocator.DocID(d))
				}
				if param.Scored {
					if param.Scorer != nil {
						param.Allocator.SetScore(d, param.Scorer(d))
					}
					if cerr := param.Collector.Collect(d, param.GetAllSubDoc); cerr != nil {
						return matchCount, seekCount, cerr
					}
				} else {
					param.Allocator.Deallocate(d)
				}
				matchCount++
			}
		}

		if param.Terminator != nil && param.Terminator.Seek() {
			return matchCount, seekCount, ErrTimeout
		}
		if param.Quota > 0 && int(seekCount) >= param.Quota {
			break
		}

		target = cur + 1
		cur = param.Executor.SeekDoc(target)
		if errExec, ok := param.Executor.(search.ErrorableExecutor); ok {
			if e := errExec.Err(); e != nil {
				return matchCount, seekCount, &ErrIndexIO{Cause: e}
			}
		}
	}

	return matchCount, seekCount, nil
}

// candidateDocs allocates one handle for the main doc, or one per sub-doc
// if GetAllSubDoc is set and a main-to-sub mapping is available.
func (s *SingleLayerSearcher) candidateDocs(param SingleLayerSearcherParam, mainDocID int32) []matchdoc.MatchDoc {
	if !param.GetAllSubDoc || param.MainToSub == nil {
		d, _ := param.Allocator.Allocate(mainDocID)
		return []matchdoc.MatchDoc{d}
	}

	begin, end := param.MainToSub.SubRange(mainDocID)
	if begin >= end {
		d, _ := param.Allocator.Allocate(mainDocID)
		return []matchdoc.MatchDoc{d}
	}

	docs := make([]matchdoc.MatchDoc, 0, end-begin)
	for sub := begin; sub < end; sub++ {
		if param.SubDeletionMap != nil && param.SubDeletionMap.IsDeleted(sub) {
			continue
		}
		d, _ := param.Allocator.AllocateSub(mainDocID, sub)
		docs = append(docs, d)
	}
	return docs
}
