package rank

import (
	"testing"
	"time"

	"github.com/weizijun/havenask/index"
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
	"github.com/weizijun/havenask/search/collector"
)

func buildParam(t *testing.T, arena *matchdoc.Arena, partition *index.Partition, layers []search.LayerMeta, rankSize int) RankSearcherParam {
	t.Helper()
	return RankSearcherParam{
		Request: &search.Request{
			Query:    search.QueryClause{Name: "all"},
			RankSize: rankSize,
		},
		Layers:          layers,
		IndexReader:     partition,
		ExecutorCreator: index.NewTermExecutorCreator(partition),
		Allocator:       arena,
		Scorer:          func(doc matchdoc.MatchDoc) float64 { return float64(arena.DocID(doc)) },
		Config:          DefaultConfig(),
	}
}

// TestRankSearcherDistributesQuotaAcrossLayers: the first layer seeks its
// full quota of 5, so nothing rolls forward, and the second layer's quota of
// 5 is trimmed to the residual 3 so the session stops once RankSize (8) is
// satisfied.
func TestRankSearcherDistributesQuotaAcrossLayers(t *testing.T) {
	partition := index.NewPartition()
	partition.AddTerm("all", index.NewPostingList(rangeDocs(0, 200)...))

	layers := []search.LayerMeta{
		{Ranges: []search.DocRange{{Begin: 0, End: 100}}, Quota: 5},
		{Ranges: []search.DocRange{{Begin: 100, End: 200}}, Quota: 5},
	}

	arena := matchdoc.NewArena(64)
	param := buildParam(t, arena, partition, layers, 8)
	cmp := collector.NewComboComparator(arena, search.SortAscending)
	hc := collector.NewSingleCollector(8, cmp, arena, true)

	searcher := NewRankSearcher()
	if !searcher.Init(param) {
		t.Fatalf("Init failed: %v", searcher.ErrorResult().Errors())
	}
	total, err := searcher.Search(hc)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 8 {
		t.Fatalf("expected 8 matches (rankSize), got %d", total)
	}
	if len(hc.Top()) != 8 {
		t.Fatalf("expected 8 survivors in the collector, got %d", len(hc.Top()))
	}
}

// TestRankSearcherAllExecutorsFailure: every layer's executor fails to
// construct (unknown term), so Init fails, and ERROR_SEARCH_LOOKUP is
// accumulated for the failed layers.
func TestRankSearcherAllExecutorsFailure(t *testing.T) {
	partition := index.NewPartition()
	partition.AddTerm("known", index.NewPostingList(rangeDocs(0, 10)...))

	layers := []search.LayerMeta{
		{Ranges: []search.DocRange{{Begin: 0, End: 10}}, Quota: 5},
		{Ranges: []search.DocRange{{Begin: 0, End: 10}}, Quota: 5},
	}

	arena := matchdoc.NewArena(32)
	param := buildParam(t, arena, partition, layers, 5)
	param.Request.Query = search.QueryClause{Name: "missing"}

	searcher := NewRankSearcher()
	if searcher.Init(param) {
		t.Fatal("expected Init to fail when every layer's term is unknown")
	}
	if !searcher.ErrorResult().HasError(search.ErrorSearchLookup) {
		t.Fatalf("expected ERROR_SEARCH_LOOKUP accumulated, got %v", searcher.ErrorResult().Errors())
	}
}

// TestRankSearcherFileIOErrorIsAccumulated exercises the FileIOError path:
// the only layer's segment is "corrupt", so Init fails, and the failure is
// recorded as ERROR_SEARCH_LOOKUP_FILEIO_ERROR rather than
// ERROR_SEARCH_LOOKUP.
func TestRankSearcherFileIOErrorIsAccumulated(t *testing.T) {
	partition := index.NewPartition()
	partition.AddTerm("good", index.NewPostingList(rangeDocs(0, 10)...))
	partition.AddTerm("bad", index.NewPostingList(rangeDocs(0, 10)...))

	creator := index.NewTermExecutorCreator(partition).WithCorruptTerm("bad")

	layers := []search.LayerMeta{
		{Ranges: []search.DocRange{{Begin: 0, End: 10}}, Quota: 5},
	}
	arena := matchdoc.NewArena(32)
	param := buildParam(t, arena, partition, layers, 5)
	param.ExecutorCreator = creator
	param.Request.Query = search.QueryClause{Name: "bad"}

	searcher := NewRankSearcher()
	if searcher.Init(param) {
		t.Fatal("expected Init to fail: the only layer's term is corrupt")
	}
	if !searcher.ErrorResult().HasError(search.ErrorSearchLookupFileIOError) {
		t.Fatalf("expected ERROR_SEARCH_LOOKUP_FILEIO_ERROR accumulated, got %v", searcher.ErrorResult().Errors())
	}
}

// TestRankSearcherLookupTimeout models the ERROR_LOOKUP_TIMEOUT path: the
// deadline has already passed by the time Search runs, so the session
// reports zero matches without attempting any layer.
func TestRankSearcherLookupTimeout(t *testing.T) {
	partition := index.NewPartition()
	partition.AddTerm("all", index.NewPostingList(rangeDocs(0, 10)...))
	layers := []search.LayerMeta{{Ranges: []search.DocRange{{Begin: 0, End: 10}}, Quota: 5}}

	arena := matchdoc.NewArena(32)
	param := buildParam(t, arena, partition, layers, 5)
	param.Config = param.Config.WithTimeout(time.Nanosecond)

	searcher := NewRankSearcher()
	if !searcher.Init(param) {
		t.Fatalf("Init failed: %v", searcher.ErrorResult().Errors())
	}
	time.Sleep(2 * time.Millisecond)

	cmp := collector.NewComboComparator(arena, search.SortAscending)
	hc := collector.NewSingleCollector(5, cmp, arena, true)
	total, err := searcher.Search(hc)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if total != 0 {
		t.Fatalf("expected 0 matches after an already-expired deadline, got %d", total)
	}
	if !searcher.ErrorResult().HasError(search.ErrorLookupTimeout) {
		t.Fatalf("expected ERROR_LOOKUP_TIMEOUT accumulated, got %v", searcher.ErrorResult().Errors())
	}
}

// TestRankSearcherSeekTimeoutLeavesPartialResultsValid models scenario S4: a
// deadline that expires mid-layer still leaves whatever was collected before
// it fired valid, and records ERROR_SEEKDOC_TIMEOUT rather than failing the
// session outright. Because the exact seek at which the clock is consulted
// is a real-time race, this asserts the property that must hold either way:
// a session that times out mid-layer reports ERROR_SEEKDOC_TIMEOUT, and a
// session fast enough to finish first reports the full match count — never
// both, never neither.
func TestRankSearcherSeekTimeoutLeavesPartialResultsValid(t *testing.T) {
	const docCount = 20000
	partition := index.NewPartition()
	partition.AddTerm("all", index.NewPostingList(rangeDocs(0, docCount)...))
	layers := []search.LayerMeta{{Ranges: []search.DocRange{{Begin: 0, End: docCount}}, Quota: docCount}}

	arena := matchdoc.NewArena(docCount)
	param := buildParam(t, arena, partition, layers, docCount)
	param.Config = param.Config.WithTimeout(time.Microsecond).WithSeekCheckTimeoutStep(1)

	cmp := collector.NewComboComparator(arena, search.SortAscending)
	hc := collector.NewSingleCollector(docCount, cmp, arena, true)

	searcher := NewRankSearcher()
	if !searcher.Init(param) {
		t.Fatalf("Init failed: %v", searcher.ErrorResult().Errors())
	}
	total, err := searcher.Search(hc)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	timedOut := searcher.ErrorResult().HasError(search.ErrorSeekdocTimeout)
	switch {
	case timedOut && total < docCount:
	case !timedOut && int(total) == docCount:
	default:
		t.Fatalf("expected either a mid-layer timeout with a partial count, or full completion with no timeout; got total=%d timedOut=%v", total, timedOut)
	}
}

// TestRankSearcherSearchWithJoinRejectsMissingKeys models scenario S6: a
// strong join filter rejects docs whose join key is not found on the
// opposite side, without failing the session.
func TestRankSearcherSearchWithJoinRejectsMissingKeys(t *testing.T) {
	partition := index.NewPartition()
	partition.AddTerm("all", index.NewPostingList(rangeDocs(0, 10)...))
	layers := []search.LayerMeta{{Ranges: []search.DocRange{{Begin: 0, End: 10}}, Quota: 10}}

	arena := matchdoc.NewArena(32)
	param := buildParam(t, arena, partition, layers, 10)

	searcher := NewRankSearcher()
	if !searcher.Init(param) {
		t.Fatalf("Init failed: %v", searcher.ErrorResult().Errors())
	}

	cmp := collector.NewComboComparator(arena, search.SortAscending)
	hc := collector.NewSingleCollector(10, cmp, arena, true)

	converter := &fixedJoinConverter{evens: true, arena: arena}
	joinInfo := &search.HashJoinInfo{Converter: converter, Mode: search.StrongJoin}

	total, err := searcher.SearchWithJoin(hc, joinInfo)
	if err != nil {
		t.Fatalf("SearchWithJoin: %v", err)
	}
	if total != 5 {
		t.Fatalf("expected only the 5 even docs to survive the join, got %d", total)
	}
	if searcher.Metrics().StrongJoinFilterCount != 5 {
		t.Fatalf("expected 5 docs rejected by the strong join, got %d", searcher.Metrics().StrongJoinFilterCount)
	}
}

func rangeDocs(begin, end int) []int32 {
	docs := make([]int32, 0, end-begin)
	for i := begin; i < end; i++ {
		docs = append(docs, int32(i))
	}
	return docs
}

// fixedJoinConverter maps a doc's docID-as-key through "contains" only for
// even values, modeling a hash join where half the keys are missing on the
// opposite side.
type fixedJoinConverter struct {
	ref   search.AnyReference
	evens bool
	arena *matchdoc.Arena
}

func (f *fixedJoinConverter) HasStrongJoinColumn() bool { return true }
func (f *fixedJoinConverter) JoinKeyRef() search.AnyReference {
	return docIDRef{arena: f.arena}
}
func (f *fixedJoinConverter) Contains(key float64) bool {
	return int64(key)%2 == 0
}

// docIDRef is a minimal search.AnyReference that reads a doc's id back out
// of arena. The handle value itself is not the doc id: the arena hands a
// rejected doc's freed slot to the next allocation. With a nil arena it
// reports the handle's own integer value.
type docIDRef struct{ arena *matchdoc.Arena }

func (docIDRef) Name() string           { return "docid" }
func (docIDRef) Type() search.ValueType { return search.TypeInt32 }
func (r docIDRef) ScoreAt(doc matchdoc.MatchDoc) float64 {
	if r.arena == nil {
		return float64(doc)
	}
	return float64(r.arena.DocID(doc))
}

var _ search.JoinConverter = (*fixedJoinConverter)(nil)
