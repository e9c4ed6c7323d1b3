package search

import "github.com/weizijun/havenask/matchdoc"

// Filter is a user predicate over attributes, evaluated per candidate doc
// after seek and before the doc reaches the aggregator/collector.
type Filter interface {
	Pass(doc matchdoc.MatchDoc) bool
}

// FilterFunc adapts a plain function to Filter.
type FilterFunc func(doc matchdoc.MatchDoc) bool

// Pass implements Filter.
func (f FilterFunc) Pass(doc matchdoc.MatchDoc) bool { return f(doc) }

// Aggregator accepts every matched doc pre-collector and accumulates group
// statistics; it never alters retrieval (spec.md §3).
type Aggregator interface {
	Aggregate(doc matchdoc.MatchDoc) error
	// Finish is called once seeking is complete, after which the
	// aggregator's accumulated state is considered final.
	Finish()
}

// JoinMode selects how JoinFilter is installed (spec.md §4.4).
type JoinMode int

const (
	// WeakJoin: the join filter is not installed at all.
	WeakJoin JoinMode = iota
	// StrongJoin: explicitly required; a missing join mapping rejects the doc.
	StrongJoin
	// AutoJoin: install only if the converter has a strong-join column.
	AutoJoin
)

// JoinConverter resolves a doc's join key and maps it through to the
// opposite side of a hash join, the external collaborator HashJoinInfo
// wraps (spec.md §4.1, §4.4).
type JoinConverter interface {
	// HasStrongJoinColumn reports whether AutoJoin should install the filter.
	HasStrongJoinColumn() bool
	// JoinKeyRef returns the typed reference the join key is read from.
	JoinKeyRef() AnyReference
	// Contains reports whether key maps to something on the opposite side
	// of the hash join.
	Contains(key float64) bool
}

// HashJoinInfo bundles the join converter and the mode it should be applied
// under, consumed by RankSearcher.searchWithJoin (spec.md §6).
type HashJoinInfo struct {
	Converter JoinConverter
	Mode      JoinMode
}
