package rank

import (
	"sort"

	"github.com/weizijun/havenask/search"
)

// PKQueryExecutor wraps an executor with a primary-key pre-filter: it first
// resolves each requested key to a doc id, then only yields doc ids that
// also appear in the wrapped executor's posting list (spec.md §4.1). A key
// that no longer maps to a live document is simply absent from the
// resolved set; if none resolve, SeekDoc always returns EndDocID.
type PKQueryExecutor struct {
	inner  search.QueryExecutor
	docIDs []int32
	idx    int
}

// NewPKQueryExecutor resolves keys against pk and wraps inner. Keys that
// don't resolve are silently dropped.
func NewPKQueryExecutor(inner search.QueryExecutor, pk search.PrimaryKeyReader, keys []string) *PKQueryExecutor {
	ids := make([]int32, 0, len(keys))
	for _, k := range keys {
		if id, ok := pk.Lookup(k); ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	ids = dedupSorted(ids)
	return &PKQueryExecutor{inner: inner, docIDs: ids}
}

func dedupSorted(ids []int32) []int32 {
	if len(ids) < 2 {
		return ids
	}
	out := ids[:1]
	for _, id := range ids[1:] {
		if id != out[len(out)-1] {
			out = append(out, id)
		}
	}
	return out
}

// SeekDoc implements search.PostingIterator: advances through the resolved
// PK doc ids, intersecting each against the wrapped executor.
func (p *PKQueryExecutor) SeekDoc(target int32) int32 {
	for p.idx < len(p.docIDs) {
		d := p.docIDs[p.idx]
		if d < target {
			p.idx++
			continue
		}
		p.idx++
		if p.inner.SeekDoc(d) == d {
			return d
		}
	}
	return search.EndDocID
}

// DF implements search.PostingIterator, reporting the resolved PK set size.
func (p *PKQueryExecutor) DF() int64 { return int64(len(p.docIDs)) }

// MainChainDF implements search.PostingIterator, delegating to inner since
// a PK pre-filter never truncates the underlying chain itself.
func (p *PKQueryExecutor) MainChainDF() int64 { return p.inner.MainChainDF() }

// Layer implements search.QueryExecutor.
func (p *PKQueryExecutor) Layer() search.LayerMeta { return p.inner.Layer() }

var _ search.QueryExecutor = (*PKQueryExecutor)(nil)
