package collector

import (
	"encoding/binary"
	"fmt"
	"log"
	"math"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// CacheMinScoreFilter carries the previous run's top-K score floor into the
// next equivalent run so obviously-worse candidates can be dropped before
// they reach the collector. It is an opportunistic pre-filter plus a
// replenisher, not the collector's own floor (spec.md §4.3).
type CacheMinScoreFilter struct {
	scores []float64
}

// NewCacheMinScoreFilter returns an empty filter (no remembered floor).
func NewCacheMinScoreFilter() *CacheMinScoreFilter {
	return &CacheMinScoreFilter{}
}

// defaultScoreMin is the "no floor" sentinel for an unscored first
// expression: max for ascending sorts, min for descending. Under isWorse's
// non-strict comparison every finite score lies on the worse side of
// either sentinel, so a stored no-floor does not act as a no-op filter:
// FilterByMinScore rejects every doc for it and only replenishment refills
// the survivors.
func defaultScoreMin(flag search.SortFlag) float64 {
	if flag == search.SortAscending {
		return math.MaxFloat64
	}
	return -math.MaxFloat64
}

// StoreMinScore records, per first-level sort expression, the score of the
// collector's current worst surviving hit (or the no-floor sentinel if the
// expression is unscored) — spec.md §4.3.
func (f *CacheMinScoreFilter) StoreMinScore(hc search.HitCollector, exprs []search.ScoreInfo) {
	underlying := expand(hc, len(exprs))
	f.scores = make([]float64, len(exprs))

	for i, info := range exprs {
		c := underlying[i]
		if !c.IsScored() {
			f.scores[i] = defaultScoreMin(info.Flag)
			continue
		}
		top := c.Top()
		if len(top) == 0 {
			f.scores[i] = defaultScoreMin(info.Flag)
			continue
		}
		worst := top[len(top)-1]
		f.scores[i] = c.Allocator().Score(worst)
	}
}

// expand returns the n underlying collectors a (possibly Multi) HitCollector
// fans out to, so StoreMinScore/FilterByMinScore can address the i-th
// first-level sort expression's own collector.
func expand(hc search.HitCollector, n int) []search.HitCollector {
	if m, ok := hc.(*MultiHitCollector); ok {
		return m.Collectors()
	}
	out := make([]search.HitCollector, n)
	for i := range out {
		out[i] = hc
	}
	return out
}

// scoreAt reads expr i's score for doc through its typed reference,
// producing zero plus a log line for a missing reference or an unknown
// builtin type — spec.md §4.3's numeric-dispatch semantics.
func scoreAt(info search.ScoreInfo, doc matchdoc.MatchDoc) float64 {
	if info.Ref == nil {
		log.Printf("cacheminscore: missing reference for sort expression, scoring 0")
		return 0
	}
	if info.Ref.Type() == search.TypeUnknown {
		log.Printf("cacheminscore: unknown builtin type for reference %q, scoring 0", info.Ref.Name())
		return 0
	}
	return info.Ref.ScoreAt(doc)
}

// isWorse reports whether score is on the "worse" side of the remembered
// floor min under the given orientation (spec.md §4.3, step 2).
func isWorse(score, min float64, flag search.SortFlag) bool {
	if flag == search.SortAscending {
		return score <= min
	}
	return score >= min
}

// FilterByMinScore partitions matchDocs in place into survivors (kept at
// the front) and rejects, dropping any doc that is on the worse side of the
// remembered floor for any expression. If fewer than expectCount survive,
// the best of the rejects (by hc's combo comparator) are replenished back
// in, bounding how much an over-aggressive floor can under-deliver
// (spec.md §4.3, rationale).
func (f *CacheMinScoreFilter) FilterByMinScore(
	hc search.HitCollector,
	exprs []search.ScoreInfo,
	matchDocs []matchdoc.MatchDoc,
	expectCount int,
	alloc matchdoc.Allocator,
) ([]matchdoc.MatchDoc, error) {
	if len(f.scores) != len(exprs) {
		return nil, fmt.Errorf("cacheminscore: have %d stored scores for %d expressions", len(f.scores), len(exprs))
	}

	survivors := matchDocs[:0:len(matchDocs)]
	var rejects []matchdoc.MatchDoc

	for _, d := range matchDocs {
		worse := false
		for i, info := range exprs {
			if isWorse(scoreAt(info, d), f.scores[i], info.Flag) {
				worse = true
				break
			}
		}
		if worse {
			rejects = append(rejects, d)
		} else {
			survivors = append(survivors, d)
		}
	}

	need := expectCount - len(survivors)
	if need > 0 && len(rejects) > 0 {
		if need > len(rejects) {
			need = len(rejects)
		}
		cmp := hc.Comparator()
		nthElement(rejects, need, cmp)
		survivors = append(survivors, rejects[:need]...)
		rejects = rejects[need:]
	}

	for _, d := range rejects {
		alloc.Deallocate(d)
	}

	return survivors, nil
}

// Scores returns the currently remembered floor, one per first-level sort
// expression, in the orientation StoreMinScore recorded them.
func (f *CacheMinScoreFilter) Scores() []float64 {
	return f.scores
}

// Serialize encodes the floor as a length-prefixed sequence of score_t
// (float64) values, the only state CacheMinScoreFilter persists across runs
// (spec.md §6).
func (f *CacheMinScoreFilter) Serialize() []byte {
	buf := make([]byte, 4+8*len(f.scores))
	binary.LittleEndian.PutUint32(buf, uint32(len(f.scores)))
	for i, s := range f.scores {
		binary.LittleEndian.PutUint64(buf[4+8*i:], math.Float64bits(s))
	}
	return buf
}

// DeserializeCacheMinScoreFilter recovers a filter previously produced by
// Serialize.
func DeserializeCacheMinScoreFilter(data []byte) (*CacheMinScoreFilter, error) {
	if len(data) < 4 {
		return nil, fmt.Errorf("cacheminscore: truncated header")
	}
	n := binary.LittleEndian.Uint32(data)
	want := 4 + 8*int(n)
	if len(data) < want {
		return nil, fmt.Errorf("cacheminscore: truncated body, want %d bytes got %d", want, len(data))
	}
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = math.Float64frombits(binary.LittleEndian.Uint64(data[4+8*i:]))
	}
	return &CacheMinScoreFilter{scores: scores}, nil
}
