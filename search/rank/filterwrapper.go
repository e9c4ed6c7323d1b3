package rank

import (
	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

// FilterWrapper composes up to three predicates evaluated in order, with a
// short-circuit on the first false: the user Filter, the sub-document
// filter, and the JoinFilter (spec.md §4.4).
type FilterWrapper struct {
	userFilter   search.Filter
	subDocFilter search.Filter
	joinFilter   *JoinFilter

	filteredCount int64
}

// NewFilterWrapper builds a wrapper from whichever predicates are present;
// any of the three may be nil.
func NewFilterWrapper(userFilter, subDocFilter search.Filter, joinFilter *JoinFilter) *FilterWrapper {
	return &FilterWrapper{userFilter: userFilter, subDocFilter: subDocFilter, joinFilter: joinFilter}
}

// Pass implements search.Filter.
func (w *FilterWrapper) Pass(doc matchdoc.MatchDoc) bool {
	if w.userFilter != nil && !w.userFilter.Pass(doc) {
		w.filteredCount++
		return false
	}
	if w.subDocFilter != nil && !w.subDocFilter.Pass(doc) {
		w.filteredCount++
		return false
	}
	if w.joinFilter != nil && !w.joinFilter.Pass(doc) {
		w.filteredCount++
		return false
	}
	return true
}

// FilteredCount is the observability counter spec.md §4.4 asks for.
func (w *FilterWrapper) FilteredCount() int64 { return w.filteredCount }

var _ search.Filter = (*FilterWrapper)(nil)

// JoinFilter checks the join converter's ability to map a doc to the
// opposite side of a hash join (spec.md §4.4).
type JoinFilter struct {
	info            search.HashJoinInfo
	strongJoinCount int64
}

// BuildJoinFilter installs a JoinFilter according to info.Mode: never for
// WeakJoin, always for StrongJoin, and for AutoJoin only when the converter
// reports a strong-join column. Returns nil if info is nil or the filter
// should not be installed.
func BuildJoinFilter(info *search.HashJoinInfo) *JoinFilter {
	if info == nil {
		return nil
	}
	switch info.Mode {
	case search.WeakJoin:
		return nil
	case search.StrongJoin:
		return &JoinFilter{info: *info}
	case search.AutoJoin:
		if info.Converter != nil && info.Converter.HasStrongJoinColumn() {
			return &JoinFilter{info: *info}
		}
		return nil
	default:
		return nil
	}
}

// Pass implements search.Filter: a doc passes only if its join key maps to
// something on the opposite side of the hash join. A missing key (or a
// missing join-key reference) rejects the doc silently, incrementing
// strongJoinFilterCount.
func (j *JoinFilter) Pass(doc matchdoc.MatchDoc) bool {
	ref := j.info.Converter.JoinKeyRef()
	if ref == nil {
		j.strongJoinCount++
		return false
	}
	key := ref.ScoreAt(doc)
	if !j.info.Converter.Contains(key) {
		j.strongJoinCount++
		return false
	}
	return true
}

// StrongJoinFilterCount reports how many docs this filter has rejected for
// lacking a join mapping, surfaced in SessionMetricsCollector (spec.md §6).
func (j *JoinFilter) StrongJoinFilterCount() int64 { return j.strongJoinCount }

var _ search.Filter = (*JoinFilter)(nil)
