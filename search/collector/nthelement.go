package collector

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// DefaultBatchWidth is the fixed batch width B added to the 2K backing
// buffer (spec.md §3). It exists as a session-injectable constant rather
// than a process-wide global (spec.md §9).
const DefaultBatchWidth = 32

// NthElementCollector is a bounded top-K collector that amortizes
// selection cost by buffering 2K+B candidates and running a linear-time
// partial-selection pass (nthElement) instead of maintaining a full sort or
// heap on every insert (spec.md §4.2).
type NthElementCollector struct {
	k     int
	batch int

	docs  []matchdoc.MatchDoc
	count int

	minDoc matchdoc.MatchDoc

	cmp     search.Comparator
	alloc   matchdoc.Allocator
	scored  bool
	flushed bool

	offered int
}

// NewNthElementCollector builds a collector bounded to the top k docs,
// with 2k+batchWidth of buffer headroom before a partial selection runs.
func NewNthElementCollector(k, batchWidth int, cmp search.Comparator, alloc matchdoc.Allocator, scored bool) *NthElementCollector {
	if batchWidth <= 0 {
		batchWidth = DefaultBatchWidth
	}
	return &NthElementCollector{
		k:      k,
		batch:  batchWidth,
		docs:   make([]matchdoc.MatchDoc, 0, 2*k+batchWidth),
		minDoc: matchdoc.Invalid,
		cmp:    cmp,
		alloc:  alloc,
		scored: scored,
	}
}

// doQuickInit bulk-imports docs, with the precondition len(docs) <= 2k.
// _minMatchDoc is only recomputed if the imported count is already >= k.
func (n *NthElementCollector) doQuickInit(docs []matchdoc.MatchDoc) {
	if len(docs) > 2*n.k {
		panic("collector: doQuickInit given more than 2*K docs")
	}
	n.docs = append(n.docs[:0], docs...)
	n.count = len(docs)
	n.offered += len(docs)

	if n.count >= n.k {
		n.recomputeMin()
	} else {
		n.minDoc = matchdoc.Invalid
	}
}

func (n *NthElementCollector) recomputeMin() {
	nthElement(n.docs[:n.count], n.k, n.cmp)
	n.minDoc = n.docs[n.k-1]
}

func (n *NthElementCollector) isWorseThanMin(d matchdoc.MatchDoc) bool {
	return n.minDoc.Valid() && n.cmp.Compare(d, n.minDoc) > 0
}

// collectAndReplace appends the docs in batch unless a doc is already
// strictly worse than _minMatchDoc while the buffer holds >= k items, in
// which case it is rejected without ever entering the buffer. When the
// buffer would reach 2k, a partial selection runs once, trimming the
// buffer back to k and returning the discarded tail (plus this call's
// early rejects) so the caller can release/reuse their arena slots
// (spec.md §4.2).
func (n *NthElementCollector) collectAndReplace(batch []matchdoc.MatchDoc) []matchdoc.MatchDoc {
	var rejected []matchdoc.MatchDoc

	for _, d := range batch {
		n.offered++
		if n.count >= n.k && n.isWorseThanMin(d) {
			rejected = append(rejected, d)
			continue
		}
		n.docs = append(n.docs, d)
		n.count++
	}

	var replaced []matchdoc.MatchDoc
	if n.count >= 2*n.k {
		nthElement(n.docs[:n.count], n.k, n.cmp)
		replaced = append(replaced, n.docs[n.k:n.count]...)
		n.minDoc = n.docs[n.k-1]
		n.docs = n.docs[:n.k]
		n.count = n.k
	}
	replaced = append(replaced, rejected...)
	return replaced
}

// flushBuffer promotes the buffer to its final top-K set. If the buffer
// never reached k, nothing is discarded and _minMatchDoc is fixed up (if it
// was never set) against the docs actually held. Calling flushBuffer twice
// is a no-op the second time (spec.md §8, property 2).
func (n *NthElementCollector) flushBuffer() []matchdoc.MatchDoc {
	if n.flushed {
		return nil
	}
	n.flushed = true

	if n.count <= n.k {
		if !n.minDoc.Valid() && n.count > 0 {
			nthElement(n.docs[:n.count], n.count, n.cmp)
			n.minDoc = n.docs[n.count-1]
		}
		return nil
	}

	nthElement(n.docs[:n.count], n.k, n.cmp)
	discarded := append([]matchdoc.MatchDoc(nil), n.docs[n.k:n.count]...)
	n.minDoc = n.docs[n.k-1]
	n.docs = n.docs[:n.k]
	n.count = n.k
	return discarded
}

// doStealAllMatchDocs moves every held handle out without copying,
// precondition count <= k (only valid after flushBuffer, or while still
// under the first-k fill).
func (n *NthElementCollector) doStealAllMatchDocs() []matchdoc.MatchDoc {
	if n.count > n.k {
		panic("collector: doStealAllMatchDocs called with more than K docs held")
	}
	out := n.docs[:n.count]
	n.docs = nil
	n.count = 0
	return out
}

// --- search.HitCollector ---

// Type implements search.HitCollector.
func (n *NthElementCollector) Type() search.HitCollectorType { return search.HCTSingle }

// Collect implements search.HitCollector. needFlatten is accepted for
// interface parity; NthElementCollector has no sub-doc flattening of its
// own (that lives in FilterWrapper/sub-doc materialization upstream).
func (n *NthElementCollector) Collect(doc matchdoc.MatchDoc, _ bool) error {
	replaced := n.collectAndReplace([]matchdoc.MatchDoc{doc})
	for _, d := range replaced {
		n.alloc.Deallocate(d)
	}
	return nil
}

// Flush implements search.HitCollector.
func (n *NthElementCollector) Flush() error {
	discarded := n.flushBuffer()
	for _, d := range discarded {
		n.alloc.Deallocate(d)
	}
	return nil
}

// Top implements search.HitCollector. Valid only after Flush.
func (n *NthElementCollector) Top() []matchdoc.MatchDoc {
	return n.docs[:n.count]
}

// StealCollectCount implements search.HitCollector.
func (n *NthElementCollector) StealCollectCount() int { return n.offered }

// IsScored implements search.HitCollector.
func (n *NthElementCollector) IsScored() bool { return n.scored }

// Comparator implements search.HitCollector.
func (n *NthElementCollector) Comparator() search.Comparator { return n.cmp }

// Allocator implements search.HitCollector.
func (n *NthElementCollector) Allocator() matchdoc.Allocator { return n.alloc }

var _ search.HitCollector = (*NthElementCollector)(nil)
