package collector

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// comboComparator is the rank-score comparator composed with a stable
// doc-identifier tiebreaker (spec.md §4.2). It satisfies search.Comparator.
type comboComparator struct {
	alloc matchdoc.Allocator
	flag  search.SortFlag
}

// NewComboComparator builds the comparator a HitCollector orders its
// buffer by: the rank score under the given orientation, with ties broken
// by the arena's stable per-doc identifier so that independent runs over
// identical input produce identical top-K order.
func NewComboComparator(alloc matchdoc.Allocator, flag search.SortFlag) search.Comparator {
	return &comboComparator{alloc: alloc, flag: flag}
}

func (c *comboComparator) Compare(a, b matchdoc.MatchDoc) int {
	sa, sb := c.alloc.Score(a), c.alloc.Score(b)

	var cmp int
	switch {
	case sa < sb:
		cmp = -1
	case sa > sb:
		cmp = 1
	}

	if c.flag == search.SortAscending {
		// ascending: smaller is worse, so larger scores rank first.
		cmp = -cmp
	}
	// descending: larger is worse, so smaller scores rank first (cmp as-is).

	if cmp != 0 {
		return cmp
	}
	return c.alloc.Identifier(a).Compare(c.alloc.Identifier(b))
}
