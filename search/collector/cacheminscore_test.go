package collector

import (
	"testing"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

func TestCacheMinScoreFilterStoresWorstSurvivor(t *testing.T) {
	arena, docs := newScoredArena(t, 9, 3, 7)
	cmp := NewComboComparator(arena, search.SortDescending)
	c := NewNthElementCollector(2, 4, cmp, arena, true)
	for _, d := range docs {
		_ = c.Collect(d, false)
	}
	_ = c.Flush()

	ref := search.NewReference[float64]("score", search.TypeFloat64, 0)
	exprs := []search.ScoreInfo{{Ref: ref, Flag: search.SortDescending}}

	f := NewCacheMinScoreFilter()
	f.StoreMinScore(c, exprs)

	scores := f.Scores()
	if len(scores) != 1 {
		t.Fatalf("expected 1 stored score, got %d", len(scores))
	}
	if scores[0] != 7 {
		t.Fatalf("expected worst surviving score 7, got %v", scores[0])
	}
}

func TestCacheMinScoreFilterUnscoredUsesSentinel(t *testing.T) {
	arena, _ := newScoredArena(t)
	cmp := NewComboComparator(arena, search.SortAscending)
	c := NewNthElementCollector(2, 4, cmp, arena, false)

	exprs := []search.ScoreInfo{{Ref: nil, Flag: search.SortAscending}}
	f := NewCacheMinScoreFilter()
	f.StoreMinScore(c, exprs)

	if got := f.Scores()[0]; got != defaultScoreMin(search.SortAscending) {
		t.Fatalf("expected ascending no-floor sentinel, got %v", got)
	}
}

func TestCacheMinScoreFilterSerializeRoundTrip(t *testing.T) {
	f := &CacheMinScoreFilter{scores: []float64{1.5, -2.25, 0, 1e300}}
	data := f.Serialize()

	got, err := DeserializeCacheMinScoreFilter(data)
	if err != nil {
		t.Fatalf("DeserializeCacheMinScoreFilter: %v", err)
	}
	if len(got.Scores()) != len(f.scores) {
		t.Fatalf("length mismatch: %d vs %d", len(got.Scores()), len(f.scores))
	}
	for i, s := range f.scores {
		if got.Scores()[i] != s {
			t.Fatalf("score %d mismatch: want %v got %v", i, s, got.Scores()[i])
		}
	}
}

func TestDeserializeCacheMinScoreFilterTruncated(t *testing.T) {
	if _, err := DeserializeCacheMinScoreFilter([]byte{1, 2}); err == nil {
		t.Fatal("expected an error for a truncated header")
	}
	if _, err := DeserializeCacheMinScoreFilter([]byte{2, 0, 0, 0, 0, 0, 0, 0, 0}); err == nil {
		t.Fatal("expected an error for a truncated body")
	}
}

func TestFilterByMinScoreReplenishesFromRejects(t *testing.T) {
	arena := matchdoc.NewArena(10)
	ref := search.NewReference[float64]("score", search.TypeFloat64, 10)
	var docs []matchdoc.MatchDoc
	for i, s := range []float64{10, 2, 8, 1, 9, 3} {
		d, _ := arena.Allocate(int32(i))
		ref.Set(d, s)
		arena.SetScore(d, s)
		docs = append(docs, d)
	}

	cmp := NewComboComparator(arena, search.SortAscending)
	c := NewNthElementCollector(3, 4, cmp, arena, true)

	f := &CacheMinScoreFilter{scores: []float64{8.5}}
	exprs := []search.ScoreInfo{{Ref: ref, Flag: search.SortAscending}}

	survivors, err := f.FilterByMinScore(c, exprs, docs, 3, arena)
	if err != nil {
		t.Fatalf("FilterByMinScore: %v", err)
	}
	if len(survivors) != 3 {
		t.Fatalf("expected replenishment up to expectCount 3, got %d", len(survivors))
	}
	var gotScores []float64
	for _, d := range survivors {
		gotScores = append(gotScores, ref.ScoreAt(d))
	}
	want := map[float64]bool{10: true, 9: true, 8: true}
	for _, s := range gotScores {
		if !want[s] {
			t.Fatalf("unexpected survivor score %v, want one of {10,9,8}: %v", s, gotScores)
		}
	}
}

func TestFilterByMinScoreRejectsMismatchedExprCount(t *testing.T) {
	arena := matchdoc.NewArena(1)
	f := &CacheMinScoreFilter{scores: []float64{1, 2}}
	cmp := NewComboComparator(arena, search.SortDescending)
	c := NewNthElementCollector(1, 4, cmp, arena, true)

	_, err := f.FilterByMinScore(c, []search.ScoreInfo{{}}, nil, 1, arena)
	if err == nil {
		t.Fatal("expected an error when stored score count does not match expression count")
	}
}
