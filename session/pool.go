// Package session runs multiple ranked-retrieval sessions concurrently over
// independent partition shards and merges their results, the Go analogue of
// the teacher library's multi-searcher fan-out (SPEC_FULL.md §5).
package session

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"

	"github.com/weizijun/havenask/search"
	"github.com/weizijun/havenask/search/rank"
)

// Session bundles everything one shard's RankSearcher run needs: its own
// RankSearcherParam (own IndexReader, own Allocator — the arena-per-session
// resource policy spec.md §5 assigns each concurrent searcher) and the
// collector its survivors are pushed into.
type Session struct {
	Param     rank.RankSearcherParam
	Collector search.HitCollector
}

// Result is one session's outcome: its searcher (for ErrorResult/Metrics
// access), the estimated match count Search returned, and any run error.
type Result struct {
	Searcher   *rank.RankSearcher
	MatchCount uint32
	Err        error
}

// Pool runs a fixed set of Sessions concurrently, each against its own
// RankSearcher, the way MultiSearcherList.collectAllDocuments fans a
// request out across per-reader searchers rather than sharing one.
type Pool struct {
	sessions []Session
}

// NewPool returns a pool over sessions, run by RunAll.
func NewPool(sessions []Session) *Pool {
	return &Pool{sessions: append([]Session(nil), sessions...)}
}

// RunAll runs every session's RankSearcher.Init then Search concurrently,
// returning one Result per session in input order. The sessions do not
// consult ctx: its cancellation does not stop a session that is running. A
// session whose Init fails reports its error in Result.Err without
// aborting its siblings — the pool's job is "run everything that can run",
// matching the teacher's "if one searcher fails, should stop all the
// rest and exit?" comment resolved in the negative: independent sessions
// proceed independently.
func (p *Pool) RunAll(ctx context.Context) ([]Result, error) {
	results := make([]Result, len(p.sessions))

	g, ctx := errgroup.WithContext(ctx)
	for i := range p.sessions {
		i := i
		sess := p.sessions[i]
		g.Go(func() error {
			searcher := rank.NewRankSearcher()
			if !searcher.Init(sess.Param) {
				results[i] = Result{Searcher: searcher, Err: fmt.Errorf("session %d: init failed: %s", i, searcher.ErrorResult().Errors())}
				return nil
			}

			count, err := searcher.Search(sess.Collector)
			results[i] = Result{Searcher: searcher, MatchCount: count, Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}

	return results, collectErrors(results)
}

// collectErrors merges every session's run error into a single
// multierror, so callers that want an all-or-nothing view of a pool run
// get one, while RunAll's per-Result.Err still carries the per-session
// detail for callers that want to keep partial results.
func collectErrors(results []Result) error {
	var merr *multierror.Error
	for i, r := range results {
		if r.Err != nil {
			merr = multierror.Append(merr, fmt.Errorf("session %d: %w", i, r.Err))
		}
	}
	return merr.ErrorOrNil()
}

// TotalMatchCount sums every session's estimated match count, the
// pool-level analogue of a single session's RankSearcher.Search return.
func TotalMatchCount(results []Result) uint32 {
	var total uint32
	for _, r := range results {
		total += r.MatchCount
	}
	return total
}

// DeallocateAll releases every session's flushed Top() handles, for callers
// tearing a pool down after reading results without otherwise stealing
// its collectors' survivors.
func DeallocateAll(sessions []Session) {
	for _, s := range sessions {
		alloc := s.Param.Allocator
		if alloc == nil || s.Collector == nil {
			continue
		}
		for _, d := range s.Collector.Top() {
			alloc.Deallocate(d)
		}
	}
}
