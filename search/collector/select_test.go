package collector

import (
	"math/rand"
	"testing"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

func TestNthElementPartitionsCorrectly(t *testing.T) {
	values := []float64{9, 3, 7, 1, 8, 2, 6, 4, 5, 0}
	arena, docs := newScoredArena(t, values...)
	cmp := NewComboComparator(arena, search.SortAscending) // larger scores rank first

	for k := 1; k <= len(docs); k++ {
		work := append([]matchdoc.MatchDoc(nil), docs...)
		nthElement(work, k, cmp)

		for i := 0; i < k; i++ {
			for j := k; j < len(work); j++ {
				if cmp.Compare(work[i], work[j]) > 0 {
					t.Fatalf("k=%d: expected docs[%d] (score %v) not worse than docs[%d] (score %v)",
						k, i, arena.Score(work[i]), j, arena.Score(work[j]))
				}
			}
		}
	}
}

func TestNthElementOnRandomInput(t *testing.T) {
	r := rand.New(rand.NewSource(7))
	n := 200
	values := make([]float64, n)
	for i := range values {
		values[i] = r.Float64() * 1000
	}
	arena, docs := newScoredArena(t, values...)
	cmp := NewComboComparator(arena, search.SortDescending)

	k := 37
	work := append([]matchdoc.MatchDoc(nil), docs...)
	nthElement(work, k, cmp)

	for i := 0; i < k; i++ {
		for j := k; j < len(work); j++ {
			if cmp.Compare(work[i], work[j]) > 0 {
				t.Fatalf("expected left partition not worse than right at i=%d j=%d", i, j)
			}
		}
	}
}

func TestNthElementNoopOutOfRange(t *testing.T) {
	arena, docs := newScoredArena(t, 1, 2, 3)
	cmp := NewComboComparator(arena, search.SortAscending)

	before := append([]matchdoc.MatchDoc(nil), docs...)
	nthElement(docs, 0, cmp)
	nthElement(docs, len(docs)+1, cmp)
	for i := range docs {
		if docs[i] != before[i] {
			t.Fatalf("expected nthElement to be a no-op for out-of-range k, got %v want %v", docs, before)
		}
	}
}
