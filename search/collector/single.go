package collector

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// NewSingleCollector builds the "Single" HitCollector variant from spec.md
// §3: one comparator over one scored stream. NthElementCollector already is
// exactly that bounded top-K collector, so Single is not a separate type —
// this constructor just spells out the vocabulary the spec uses for it.
func NewSingleCollector(k int, cmp search.Comparator, alloc matchdoc.Allocator, scored bool) search.HitCollector {
	return NewNthElementCollector(k, DefaultBatchWidth, cmp, alloc, scored)
}
