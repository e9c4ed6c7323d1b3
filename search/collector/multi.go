package collector

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// MultiHitCollector fans one stream of survivors out to several underlying
// collectors (e.g. one per requested sort expression), the first of which
// is canonical for Top/metrics purposes (spec.md §3).
type MultiHitCollector struct {
	collectors []search.HitCollector
}

// NewMultiHitCollector requires at least one underlying collector.
func NewMultiHitCollector(collectors ...search.HitCollector) *MultiHitCollector {
	if len(collectors) == 0 {
		panic("collector: MultiHitCollector requires at least one underlying collector")
	}
	return &MultiHitCollector{collectors: collectors}
}

// Type implements search.HitCollector.
func (m *MultiHitCollector) Type() search.HitCollectorType { return search.HCTMulti }

// Collect implements search.HitCollector, offering doc to every underlying
// collector. The first error encountered aborts the fan-out.
func (m *MultiHitCollector) Collect(doc matchdoc.MatchDoc, needFlatten bool) error {
	for _, c := range m.collectors {
		if err := c.Collect(doc, needFlatten); err != nil {
			return err
		}
	}
	return nil
}

// Flush implements search.HitCollector, flushing every underlying collector.
func (m *MultiHitCollector) Flush() error {
	for _, c := range m.collectors {
		if err := c.Flush(); err != nil {
			return err
		}
	}
	return nil
}

// Top implements search.HitCollector, returning the canonical (first)
// collector's result.
func (m *MultiHitCollector) Top() []matchdoc.MatchDoc {
	return m.collectors[0].Top()
}

// StealCollectCount implements search.HitCollector, from the canonical collector.
func (m *MultiHitCollector) StealCollectCount() int {
	return m.collectors[0].StealCollectCount()
}

// IsScored implements search.HitCollector, from the canonical collector.
func (m *MultiHitCollector) IsScored() bool {
	return m.collectors[0].IsScored()
}

// Comparator implements search.HitCollector, from the canonical collector.
func (m *MultiHitCollector) Comparator() search.Comparator {
	return m.collectors[0].Comparator()
}

// Allocator implements search.HitCollector, from the canonical collector.
func (m *MultiHitCollector) Allocator() matchdoc.Allocator {
	return m.collectors[0].Allocator()
}

// Collectors exposes the underlying collectors, e.g. for CacheMinScoreFilter
// to call storeMinScore against each one.
func (m *MultiHitCollector) Collectors() []search.HitCollector {
	return m.collectors
}

var _ search.HitCollector = (*MultiHitCollector)(nil)
