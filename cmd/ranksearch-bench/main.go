// Command ranksearch-bench drives a RankSearcher session against a
// synthetic in-memory partition, printing the resulting top-K docs and
// session metrics. It exists to exercise the ranked retrieval core
// end to end without a real index partition on disk (SPEC_FULL.md's
// ambient CLI section).
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/weizijun/havenask/index"
	"github.com/weizijun/havenask/internal/testutil"
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
	"github.com/weizijun/havenask/search/collector"
	"github.com/weizijun/havenask/search/rank"
)

type options struct {
	docs             int
	layers           int
	rankSize         int
	deletionFraction float64
	timeout          time.Duration
	seed             int64
	descending       bool
}

func main() {
	opts := &options{}

	root := &cobra.Command{
		Use:   "ranksearch-bench",
		Short: "Run a ranked top-K retrieval session against a synthetic corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts)
		},
	}

	flags := root.Flags()
	flags.IntVar(&opts.docs, "docs", 10000, "number of synthetic documents")
	flags.IntVar(&opts.layers, "layers", 4, "number of layers to split the corpus across")
	flags.IntVar(&opts.rankSize, "rank-size", 20, "number of top docs to retrieve")
	flags.Float64Var(&opts.deletionFraction, "deletion-fraction", 0.05, "fraction of docs to mark deleted")
	flags.DurationVar(&opts.timeout, "timeout", 0, "session timeout (0 disables)")
	flags.Int64Var(&opts.seed, "seed", 42, "random seed for the synthetic corpus")
	flags.BoolVar(&opts.descending, "descending", true, "rank with SortDescending (smaller scores rank first); false uses SortAscending (larger scores rank first)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	corpus := testutil.GaussianCorpus(opts.seed, opts.docs, 0, 1)
	deleted := testutil.DeletionSample(opts.seed+1, opts.docs, opts.deletionFraction)
	ranges := testutil.LayerSplit(opts.docs, opts.layers)

	partition := index.NewPartition()
	docIDs := make([]int32, opts.docs)
	for i := range corpus {
		docIDs[i] = corpus[i].DocID
	}
	partition.AddTerm("all", index.NewPostingList(docIDs...))

	dm := index.NewDeletionMap(opts.docs)
	for _, d := range deleted {
		dm.Delete(d)
	}
	partition.SetDeletionMap(dm)

	arena := matchdoc.NewArena(opts.rankSize * 2)

	scores := make([]float64, opts.docs)
	for _, doc := range corpus {
		scores[doc.DocID] = doc.Score
	}
	scorer := func(doc matchdoc.MatchDoc) float64 {
		return scores[arena.DocID(doc)]
	}

	flag := search.SortDescending
	if !opts.descending {
		flag = search.SortAscending
	}
	cmp := collector.NewComboComparator(arena, flag)
	hitCollector := collector.NewSingleCollector(opts.rankSize, cmp, arena, true)

	layers := make([]search.LayerMeta, len(ranges))
	for i, r := range ranges {
		layers[i] = search.LayerMeta{
			Ranges: []search.DocRange{{Begin: r[0], End: r[1]}},
			Quota:  opts.rankSize,
		}
	}

	param := rank.RankSearcherParam{
		Request: &search.Request{
			Query:    search.QueryClause{Name: "all"},
			RankSize: opts.rankSize,
		},
		Layers:          layers,
		IndexReader:     partition,
		ExecutorCreator: index.NewTermExecutorCreator(partition),
		Allocator:       arena,
		Scorer:          scorer,
		Config:          rank.DefaultConfig().WithTimeout(opts.timeout),
	}

	searcher := rank.NewRankSearcher()
	if !searcher.Init(param) {
		return fmt.Errorf("ranksearch-bench: session init failed: %v", searcher.ErrorResult().Errors())
	}

	total, err := searcher.Search(hitCollector)
	if err != nil {
		return fmt.Errorf("ranksearch-bench: search failed: %w", err)
	}

	fmt.Printf("estimated total matches: %d\n", total)
	if !searcher.ErrorResult().Empty() {
		fmt.Printf("accumulated errors: %v\n", searcher.ErrorResult().Errors())
	}
	fmt.Println("top docs:")
	for _, d := range hitCollector.Top() {
		fmt.Printf("  doc=%d score=%.4f\n", arena.DocID(d), arena.Score(d))
	}

	metrics := searcher.Metrics()
	fmt.Printf("seek=%d match=%d truncate_optimizer_layers=%d\n",
		metrics.SeekCount, metrics.MatchCount, metrics.UseTruncateOptimizerNum)

	return nil
}
