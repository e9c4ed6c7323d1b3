package rank

import (
	"testing"

	"github.com/weizijun/havenask/matchdoc"
	"github.com/weizijun/havenask/search"
)

type passFilter struct{ pass bool }

func (f passFilter) Pass(matchdoc.MatchDoc) bool { return f.pass }

func TestFilterWrapperShortCircuitsInOrder(t *testing.T) {
	w := NewFilterWrapper(passFilter{false}, passFilter{true}, nil)
	if w.Pass(0) {
		t.Fatal("expected user filter rejection to short-circuit")
	}
	if w.FilteredCount() != 1 {
		t.Fatalf("expected FilteredCount 1, got %d", w.FilteredCount())
	}
}

func TestFilterWrapperAllNilPassesEverything(t *testing.T) {
	w := NewFilterWrapper(nil, nil, nil)
	if !w.Pass(0) {
		t.Fatal("expected an empty wrapper to pass everything")
	}
}

type fixedConverter struct {
	strong bool
	ref    search.AnyReference
	ok     bool
}

func (c fixedConverter) HasStrongJoinColumn() bool      { return c.strong }
func (c fixedConverter) JoinKeyRef() search.AnyReference { return c.ref }
func (c fixedConverter) Contains(float64) bool           { return c.ok }

func TestBuildJoinFilterModes(t *testing.T) {
	if f := BuildJoinFilter(nil); f != nil {
		t.Fatal("expected nil info to build no filter")
	}
	if f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.WeakJoin}); f != nil {
		t.Fatal("expected WeakJoin to build no filter")
	}
	if f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.StrongJoin}); f == nil {
		t.Fatal("expected StrongJoin to always build a filter")
	}
	if f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.AutoJoin, Converter: fixedConverter{strong: false}}); f != nil {
		t.Fatal("expected AutoJoin with no strong-join column to build no filter")
	}
	if f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.AutoJoin, Converter: fixedConverter{strong: true}}); f == nil {
		t.Fatal("expected AutoJoin with a strong-join column to build a filter")
	}
}

func TestJoinFilterRejectsMissingMapping(t *testing.T) {
	converter := fixedConverter{ref: docIDRef{}, ok: false}
	f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.StrongJoin, Converter: converter})
	if f.Pass(0) {
		t.Fatal("expected Pass to reject when Contains reports no mapping")
	}
	if f.StrongJoinFilterCount() != 1 {
		t.Fatalf("expected StrongJoinFilterCount 1, got %d", f.StrongJoinFilterCount())
	}
}

func TestJoinFilterRejectsMissingKeyRef(t *testing.T) {
	converter := fixedConverter{ref: nil}
	f := BuildJoinFilter(&search.HashJoinInfo{Mode: search.StrongJoin, Converter: converter})
	if f.Pass(0) {
		t.Fatal("expected Pass to reject when JoinKeyRef is nil")
	}
}
