package index

import (
	"github.com/RoaringBitmap/roaring"

	"github.com/weizijun/havenask/search"
)

// PostingList is a term's set of matching doc ids, backed by a roaring
// bitmap — the natural fit for the sparse, often-clustered doc-id sets a
// real posting list produces (SPEC_FULL.md §4). full, when set, is the
// untruncated chain: the active bitmap may be a truncated prefix of it, so
// MainChainDF()/DF() can differ the way spec.md's truncate-chain factor
// expects.
type PostingList struct {
	active *roaring.Bitmap
	full   *roaring.Bitmap
}

// NewPostingList builds an untruncated posting list over docIDs.
func NewPostingList(docIDs ...int32) *PostingList {
	bm := roaring.NewBitmap()
	for _, d := range docIDs {
		bm.Add(uint32(d))
	}
	return &PostingList{active: bm, full: bm}
}

// Truncate returns a copy of p whose active chain is capped to the first n
// doc ids (by ascending doc id), modeling an optimizer-truncated posting
// list while MainChainDF still reports the full count.
func (p *PostingList) Truncate(n int) *PostingList {
	ids := p.full.ToArray()
	if n < len(ids) {
		ids = ids[:n]
	}
	truncated := roaring.NewBitmap()
	truncated.AddMany(ids)
	return &PostingList{active: truncated, full: p.full}
}

// Iterator returns a fresh, independent cursor over the active chain.
func (p *PostingList) Iterator() *PostingIterator {
	return &PostingIterator{
		ids:    p.active.ToArray(),
		df:     int64(p.active.GetCardinality()),
		mainDF: int64(p.full.GetCardinality()),
	}
}

// IteratorInRanges returns a cursor scoped to the doc ids layer ranges cover,
// intersecting both the active and full chains against the ranges so
// DF/MainChainDF still reflect the truncate-chain factor within that scope.
// A nil or empty ranges means "no restriction".
func (p *PostingList) IteratorInRanges(ranges []search.DocRange) *PostingIterator {
	if len(ranges) == 0 {
		return p.Iterator()
	}
	rangeBM := roaring.NewBitmap()
	for _, r := range ranges {
		rangeBM.AddRange(uint64(r.Begin), uint64(r.End))
	}
	scoped := roaring.And(p.active, rangeBM)
	fullScoped := roaring.And(p.full, rangeBM)
	return &PostingIterator{
		ids:    scoped.ToArray(),
		df:     int64(scoped.GetCardinality()),
		mainDF: int64(fullScoped.GetCardinality()),
	}
}

// PostingIterator walks a PostingList's active chain in ascending order.
type PostingIterator struct {
	ids    []uint32
	idx    int
	df     int64
	mainDF int64
	layer  search.LayerMeta
}

// SeekDoc implements search.PostingIterator.
func (p *PostingIterator) SeekDoc(target int32) int32 {
	for p.idx < len(p.ids) && int32(p.ids[p.idx]) < target {
		p.idx++
	}
	if p.idx >= len(p.ids) {
		return search.EndDocID
	}
	d := int32(p.ids[p.idx])
	p.idx++
	return d
}

// DF implements search.PostingIterator.
func (p *PostingIterator) DF() int64 { return p.df }

// MainChainDF implements search.PostingIterator.
func (p *PostingIterator) MainChainDF() int64 { return p.mainDF }

// Layer implements search.QueryExecutor.
func (p *PostingIterator) Layer() search.LayerMeta { return p.layer }

// WithLayer returns p annotated with the LayerMeta it was built against,
// so it satisfies search.QueryExecutor directly.
func (p *PostingIterator) WithLayer(l search.LayerMeta) *PostingIterator {
	p.layer = l
	return p
}

var _ search.QueryExecutor = (*PostingIterator)(nil)
