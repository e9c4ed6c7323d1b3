// Package search defines the interfaces and value types shared by the
// ranked top-K retrieval core: the contract the query-layer plan, the index
// partition, and the expression evaluator are addressed through, plus the
// small numeric-dispatch helper every component that reads a typed score
// reference builds on.
package search

import "github.com/weizijun/havenask/matchdoc"

// ValueType enumerates the builtin numeric types an attribute expression
// reference may be backed by. CacheMinScoreFilter and the join-attribute
// path both dispatch over this single enum rather than reimplementing a
// type switch each.
type ValueType int

const (
	TypeInt8 ValueType = iota
	TypeInt16
	TypeInt32
	TypeInt64
	TypeUint8
	TypeUint16
	TypeUint32
	TypeUint64
	TypeFloat32
	TypeFloat64
	TypeUnknown
)

func (t ValueType) String() string {
	switch t {
	case TypeInt8:
		return "int8"
	case TypeInt16:
		return "int16"
	case TypeInt32:
		return "int32"
	case TypeInt64:
		return "int64"
	case TypeUint8:
		return "uint8"
	case TypeUint16:
		return "uint16"
	case TypeUint32:
		return "uint32"
	case TypeUint64:
		return "uint64"
	case TypeFloat32:
		return "float32"
	case TypeFloat64:
		return "float64"
	default:
		return "unknown"
	}
}

// Numeric is the type set every typed attribute reference is built over.
type Numeric interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// AnyReference is the type-erased view of a Reference[T], giving callers
// that only need a score_t-shaped value (CacheMinScoreFilter, the
// join-attribute key resolver) a single narrow interface to dispatch
// against instead of re-deriving a type switch per caller.
type AnyReference interface {
	Name() string
	Type() ValueType
	ScoreAt(doc matchdoc.MatchDoc) float64
}

// Reference is a typed accessor bound to one column of per-MatchDoc slot
// values, the Go analogue of the attribute-expression framework's
// Reference<T>. It is owned by the expression evaluator that created it;
// the core only ever reads through it.
type Reference[T Numeric] struct {
	name string
	typ  ValueType
	vals []T
}

// NewReference builds a reference with room for capacity docs. typ should
// match T (TypeInt32 for int32, ...); it is recorded for dispatch purposes
// and is not itself type-checked against T.
func NewReference[T Numeric](name string, typ ValueType, capacity int) *Reference[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Reference[T]{name: name, typ: typ, vals: make([]T, capacity)}
}

// Name returns the expression's field name.
func (r *Reference[T]) Name() string { return r.name }

// Type returns the builtin type tag this reference was constructed with.
func (r *Reference[T]) Type() ValueType { return r.typ }

// Grow extends the backing column so doc n is addressable.
func (r *Reference[T]) Grow(n int) {
	if n <= len(r.vals) {
		return
	}
	grown := make([]T, n)
	copy(grown, r.vals)
	r.vals = grown
}

// Set stores the expression's value for doc.
func (r *Reference[T]) Set(doc matchdoc.MatchDoc, v T) {
	r.Grow(int(doc) + 1)
	r.vals[doc] = v
}

// Get returns the expression's value for doc, or the zero value of T if doc
// was never set (a miss, not an error: callers use ScoreAt for the
// zero-on-miss score_t semantics spec.md §4.3 asks for).
func (r *Reference[T]) Get(doc matchdoc.MatchDoc) T {
	if int(doc) >= len(r.vals) {
		var zero T
		return zero
	}
	return r.vals[doc]
}

// ScoreAt coerces the stored value to a score_t-equivalent float64. This is
// the one dispatch point CacheMinScoreFilter and the join key resolver both
// reuse instead of re-deriving numeric coercion per component (spec.md §9).
func (r *Reference[T]) ScoreAt(doc matchdoc.MatchDoc) float64 {
	return float64(r.Get(doc))
}

var _ AnyReference = (*Reference[int32])(nil)

// SortFlag orients a score comparison: ascending sorts mean smaller scores
// rank better is false — see spec.md §3 ("ascending -> smaller is worse").
type SortFlag int

const (
	// SortAscending: larger scores are "better"; smaller scores are worse.
	SortAscending SortFlag = iota
	// SortDescending: smaller scores are "better"; larger scores are worse.
	SortDescending
)

// ScoreInfo pairs a first-level sort expression with its orientation, the
// unit CacheMinScoreFilter partitions matchDocs against.
type ScoreInfo struct {
	Ref  AnyReference
	Flag SortFlag
}
