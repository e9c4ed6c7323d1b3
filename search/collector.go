package search

import "github.com/weizijun/havenask/matchdoc"

// Comparator is a strict-weak, stable ordering over MatchDoc handles: the
// rank score comparison composed with a stable doc-identifier tiebreaker
// (spec.md §4.2's "combo comparator").
type Comparator interface {
	// Compare returns <0 if a ranks before (is not worse than) b, >0 if a
	// ranks after b, 0 if they are tied in every component including the
	// tiebreaker (which, since tiebreakers are unique per doc, only happens
	// for a == b).
	Compare(a, b matchdoc.MatchDoc) int
}

// HitCollectorType tags the concrete collector behind the tag-erased
// HitCollector interface, replacing a downcast (spec.md §9).
type HitCollectorType int

const (
	HCTSingle HitCollectorType = iota
	HCTMulti
)

// HitCollector is the tag-erased surface RankSearcher drives: it never
// downcasts to a concrete collector type, only calls these operations
// (spec.md §9).
type HitCollector interface {
	Type() HitCollectorType
	// Collect offers one survivor to the collector. needFlatten requests
	// sub-doc flattening for collectors that support it; collectors that
	// don't may ignore it.
	Collect(doc matchdoc.MatchDoc, needFlatten bool) error
	// Flush promotes any buffered candidates to the final top-K set.
	// Idempotent: calling Flush twice leaves the result unchanged.
	Flush() error
	// Top returns the current top-K set, valid only after Flush. The worst
	// kept doc is last; the order of the others is not defined.
	Top() []matchdoc.MatchDoc
	// StealCollectCount returns the number of docs ever offered to Collect.
	StealCollectCount() int
	// IsScored reports whether this collector orders by a computed rank
	// score (true) or is an unscored pass-through collector (false).
	IsScored() bool
	// Comparator returns the ordering this collector selects by.
	Comparator() Comparator
	// Allocator returns the MatchDocAllocator this collector releases
	// evicted handles through.
	Allocator() matchdoc.Allocator
}
