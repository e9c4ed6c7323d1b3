// Package rank implements the ranked top-K retrieval driver: RankSearcher
// orchestrates layered seek, binds filter/aggregator/collector, and hands
// survivors off to a search.HitCollector (spec.md §4.1).
package rank

import (
	"errors"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// QueryExecutorCreator builds the QueryExecutor for one layer of a compiled
// query, the external collaborator spec.md §4.1/§7 calls
// QueryExecutorCreator. A returned error is accumulated, not fatal: other
// layers are still attempted (spec.md §7).
type QueryExecutorCreator interface {
	CreateExecutor(layer search.LayerMeta, query search.QueryClause) (search.QueryExecutor, error)
}

// FilterCreator builds the user/sub-doc predicates a FilterWrapper
// composes. A nil result with a nil error means "no filter needed".
type FilterCreator interface {
	CreateFilter(req *search.Request) (userFilter, subDocFilter search.Filter, err error)
}

// AggregatorCreator builds the Aggregator for a request's AggregateClause.
type AggregatorCreator interface {
	CreateAggregator(clause *search.AggregateClause) (search.Aggregator, error)
}

// RankSearcherParam bundles everything RankSearcher.Init binds against
// (spec.md §4.1).
type RankSearcherParam struct {
	Request         *search.Request
	Layers          []search.LayerMeta
	IndexReader     search.IndexPartitionReaderWrapper
	ExecutorCreator QueryExecutorCreator
	FilterCreator   FilterCreator
	AggCreator      AggregatorCreator
	Allocator       matchdoc.Allocator
	Scorer          func(doc matchdoc.MatchDoc) float64
	Config          Config
}

// RankSearcher is the multi-layer seek + evaluate + collect driver
// (spec.md §4.1).
type RankSearcher struct {
	param RankSearcherParam

	executors []search.QueryExecutor
	filter    search.Filter
	aggregator search.Aggregator

	terminator *TimeoutTerminator
	estimator  *ResultEstimator
	distributor *LayerRangeDistributor

	errorResult *search.ErrorResult
	metrics     *search.SessionMetricsCollector

	usedTruncateOptimizer bool
}

// NewRankSearcher constructs a RankSearcher with fresh error/metrics
// collectors ready for Init.
func NewRankSearcher() *RankSearcher {
	return &RankSearcher{
		errorResult: &search.ErrorResult{},
		metrics:     search.NewSessionMetricsCollector(),
	}
}

// ErrorResult returns the session's accumulated error codes.
func (r *RankSearcher) ErrorResult() *search.ErrorResult { return r.errorResult }

// Metrics returns the session's metrics collector.
func (r *RankSearcher) Metrics() *search.SessionMetricsCollector { return r.metrics }

// UsedTruncateOptimizer reports whether any layer's posting list showed
// signs of optimizer truncation (spec.md §4.1 step d).
func (r *RankSearcher) UsedTruncateOptimizer() bool { return r.usedTruncateOptimizer }

// EstimatedTotal returns the hyperloglog-backed distinct match count
// observed across every layer searched so far. Besides the sketch's own
// estimation error, it differs from the exact sum Search returns whenever
// the same doc id is observed more than once (overlapping layers, a
// PKQueryExecutor re-visiting docs a term layer already matched, or several
// sub-docs of one main doc) — spec.md §4.5.
func (r *RankSearcher) EstimatedTotal() uint64 {
	if r.estimator == nil {
		return 0
	}
	return r.estimator.EstimatedTotal()
}

// Init binds a primary-key reader, deletion maps, one QueryExecutor per
// layer, a FilterWrapper (if needed), and an Aggregator (if requested).
// It fails only when every layer's executor construction failed, or when
// filter/aggregator construction failed (spec.md §4.1, §7).
func (r *RankSearcher) Init(param RankSearcherParam) bool {
	r.param = param
	r.terminator = NewTimeoutTerminator(param.Config.Timeout, param.Config.SeekCheckTimeoutStep)

	r.executors = make([]search.QueryExecutor, len(param.Layers))
	builtAny := false
	for i, layer := range param.Layers {
		exec, err := param.ExecutorCreator.CreateExecutor(layer, param.Request.Query)
		if err != nil {
			if isFileIOError(err) {
				r.errorResult.AddError(search.ErrorSearchLookupFileIOError)
			} else {
				r.errorResult.AddError(search.ErrorSearchLookup)
			}
			continue
		}
		if exec == nil {
			continue
		}
		if param.Request.PKFilter != nil {
			pk := param.IndexReader.PrimaryKeyReader()
			if pk != nil {
				exec = NewPKQueryExecutor(exec, pk, param.Request.PKFilter.Keys)
			}
		}
		r.executors[i] = exec
		builtAny = true
	}
	if !builtAny {
		return false
	}

	if needsFilter(param.Request) && param.FilterCreator != nil {
		userFilter, subDocFilter, err := param.FilterCreator.CreateFilter(param.Request)
		if err != nil {
			r.errorResult.AddError(search.ErrorSearchSetupFilter)
			return false
		}
		if userFilter != nil || subDocFilter != nil {
			r.filter = NewFilterWrapper(userFilter, subDocFilter, nil)
		}
	}

	if param.Request.Aggregate != nil && param.AggCreator != nil {
		agg, err := param.AggCreator.CreateAggregator(param.Request.Aggregate)
		if err != nil {
			r.errorResult.AddError(search.ErrorSearchSetupAggregator)
			return false
		}
		r.aggregator = agg
	}

	r.estimator = NewResultEstimator()
	r.distributor = NewLayerRangeDistributor(param.Layers, param.Request.RankSize, r.estimator)

	return true
}

func needsFilter(req *search.Request) bool {
	return req.Filter != nil || req.Config.GetAllSubDoc
}

// isFileIOError is the single site exception/error translation from the
// index layer happens at (spec.md §9): callers of CreateExecutor report
// file I/O failures through this marker interface rather than a sentinel
// error value, since the concrete index-layer error type lives outside
// this module.
func isFileIOError(err error) bool {
	var fe interface{ IsFileIOError() bool }
	return errors.As(err, &fe) && fe.IsFileIOError()
}

// Search iterates layers in order, driving the executor, evaluating the
// filter, and pushing survivors into hitCollector (and the aggregator, if
// any), returning the estimated total match count (spec.md §4.1, §6). A
// nil hitCollector requests an aggregate-only (unscored) search.
func (r *RankSearcher) Search(hitCollector search.HitCollector) (uint32, error) {
	return r.run(hitCollector, nil)
}

// SearchWithJoin is Search, but additionally requires each survivor to
// carry a join key that maps via hashJoinInfo's converter (spec.md §4.1).
func (r *RankSearcher) SearchWithJoin(hitCollector search.HitCollector, hashJoinInfo *search.HashJoinInfo) (uint32, error) {
	return r.run(hitCollector, hashJoinInfo)
}

func (r *RankSearcher) run(hitCollector search.HitCollector, joinInfo *search.HashJoinInfo) (uint32, error) {
	if r.terminator.TimedOut() {
		r.errorResult.AddError(search.ErrorLookupTimeout)
		return 0, nil
	}

	filter := r.filter
	var joinFilter *JoinFilter
	if joinInfo != nil {
		joinFilter = BuildJoinFilter(joinInfo)
		if joinFilter != nil {
			filter = NewFilterWrapper(filter, nil, joinFilter)
		}
	}

	scored := hitCollector != nil
	seeker := NewSingleLayerSearcher()

	for r.distributor.HasNextLayer() {
		idx, layerMeta, quota := r.distributor.GetCurLayer()
		if quota <= 0 {
			r.distributor.MoveToNextLayer(0)
			continue
		}

		executor := r.executors[idx]
		if executor == nil {
			r.distributor.MoveToNextLayer(quota)
			continue
		}

		param := SingleLayerSearcherParam{
			Executor:       executor,
			Layer:          layerMeta,
			Quota:          quota,
			Filter:         filter,
			DeletionMap:    r.param.IndexReader.DeletionMapReader(),
			Allocator:      r.param.Allocator,
			Terminator:     r.terminator,
			MainToSub:      r.param.IndexReader.MainToSubIter(),
			SubDeletionMap: r.param.IndexReader.SubDeletionMapReader(),
			GetAllSubDoc:   r.param.Request.Config.GetAllSubDoc,
			Scorer:         r.param.Scorer,
			Aggregator:     r.aggregator,
			Collector:      hitCollector,
			Scored:         scored,
			Estimator:      r.estimator,
		}

		matchCount, seekCount, err := seeker.Seek(param)

		r.estimator.RecordLayer(seekCount, matchCount)
		r.metrics.SeekCount += seekCount
		r.metrics.SeekDocCount += seekCount
		r.metrics.MatchCount += matchCount
		if r.aggregator != nil {
			r.metrics.AggregateCount += matchCount
		}

		if df := executor.DF(); df > 0 {
			factor := float64(executor.MainChainDF()) / float64(df)
			if factor > 1 {
				r.usedTruncateOptimizer = true
				r.metrics.UseTruncateOptimizerNum++
			}
		}

		if err != nil {
			var ioErr *ErrIndexIO
			switch {
			case errors.As(err, &ioErr):
				r.errorResult.AddError(search.ErrorIndexlibIO)
			case errors.Is(err, ErrTimeout):
				r.errorResult.AddError(search.ErrorSeekdocTimeout)
			default:
				return r.finish(hitCollector, joinFilter, err)
			}
			return r.finish(hitCollector, joinFilter, nil)
		}

		r.distributor.MoveToNextLayer(quota - int(seekCount))
	}

	return r.finish(hitCollector, joinFilter, nil)
}

func (r *RankSearcher) finish(hitCollector search.HitCollector, joinFilter *JoinFilter, runErr error) (uint32, error) {
	if joinFilter != nil {
		r.metrics.StrongJoinFilterCount += joinFilter.StrongJoinFilterCount()
	}
	if runErr != nil {
		return uint32(r.estimator.TotalMatchCount()), runErr
	}
	if hitCollector != nil {
		if err := hitCollector.Flush(); err != nil {
			return uint32(r.estimator.TotalMatchCount()), err
		}
	}
	if r.aggregator != nil {
		r.aggregator.Finish()
	}
	return uint32(r.estimator.TotalMatchCount()), nil
}
