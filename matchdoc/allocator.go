package matchdoc

import "sync/atomic"

// slot is the per-MatchDoc row kept in the arena: the handful of fields the
// core itself needs (doc id, score, tiebreak identifier). Typed attribute
// values live in separate Reference[T] columns, not in the slot, so the
// arena never has to know about expression types.
type slot struct {
	docID      int32
	subDocID   int32
	identifier DocIdentifier
	score      float64
	inUse      bool
}

// Arena is the single-owner, single-thread slab a MatchDocAllocator draws
// slots from for the lifetime of one seek session. It is never safe to use
// concurrently or to share across sessions; spec.md §5 assigns one arena to
// exactly one session thread.
type Arena struct {
	slots []slot
	free  []MatchDoc

	allocated   int64
	deallocated int64
	nextIdent   uint64
}

// NewArena preallocates a slab able to hold capacity live handles at once.
// Growth beyond capacity still works (Allocate appends), it just loses the
// up-front sizing benefit the teacher library's NewSearchContext relies on.
func NewArena(capacity int) *Arena {
	if capacity < 0 {
		capacity = 0
	}
	return &Arena{
		slots: make([]slot, 0, capacity),
		free:  make([]MatchDoc, 0, capacity),
	}
}

// Allocate reserves a fresh handle for docID, returning Invalid, false if
// the arena cannot grow (never happens for the slice-backed implementation,
// kept for interface parity with pool-bounded allocators).
func (a *Arena) Allocate(docID int32) (MatchDoc, bool) {
	return a.allocateSub(docID, -1)
}

// AllocateSub reserves a handle for a sub-document of docID.
func (a *Arena) AllocateSub(docID, subDocID int32) (MatchDoc, bool) {
	return a.allocateSub(docID, subDocID)
}

func (a *Arena) allocateSub(docID, subDocID int32) (MatchDoc, bool) {
	a.nextIdent++
	ident := DocIdentifier(a.nextIdent)

	if n := len(a.free); n > 0 {
		d := a.free[n-1]
		a.free = a.free[:n-1]
		a.slots[d] = slot{docID: docID, subDocID: subDocID, identifier: ident, inUse: true}
		atomic.AddInt64(&a.allocated, 1)
		return d, true
	}

	a.slots = append(a.slots, slot{docID: docID, subDocID: subDocID, identifier: ident, inUse: true})
	atomic.AddInt64(&a.allocated, 1)
	return MatchDoc(len(a.slots) - 1), true
}

// Deallocate releases d back to the free list. d must be a live handle owned
// by this arena; double-deallocation is a caller bug and panics, matching
// the "owned by exactly one component at a time" invariant in spec.md §3.
func (a *Arena) Deallocate(d MatchDoc) {
	if !d.Valid() || int(d) >= len(a.slots) || !a.slots[d].inUse {
		panic("matchdoc: deallocate of invalid or already-released handle")
	}
	a.slots[d].inUse = false
	a.free = append(a.free, d)
	atomic.AddInt64(&a.deallocated, 1)
}

// DocID returns the doc id the handle was allocated for.
func (a *Arena) DocID(d MatchDoc) int32 { return a.slots[d].docID }

// SubDocID returns the sub-doc id, or -1 if d addresses a main doc.
func (a *Arena) SubDocID(d MatchDoc) int32 { return a.slots[d].subDocID }

// Identifier returns the stable tiebreaker assigned at allocation time.
func (a *Arena) Identifier(d MatchDoc) DocIdentifier { return a.slots[d].identifier }

// Score returns the rank score last written by SetScore, or 0 if none.
func (a *Arena) Score(d MatchDoc) float64 { return a.slots[d].score }

// SetScore stores the rank score computed by the external scorer.
func (a *Arena) SetScore(d MatchDoc, score float64) { a.slots[d].score = score }

// Stats reports the running allocate/deallocate counts, used by property
// tests to check allocator balance (spec.md §8, property 4).
func (a *Arena) Stats() (allocated, deallocated int64) {
	return atomic.LoadInt64(&a.allocated), atomic.LoadInt64(&a.deallocated)
}

// Live reports the number of handles currently allocated and not released.
func (a *Arena) Live() int64 {
	return atomic.LoadInt64(&a.allocated) - atomic.LoadInt64(&a.deallocated)
}

// Reset discards every slot and free entry, returning the arena to its
// initial state for reuse by a new session. Any handle from the previous
// session is invalid after Reset.
func (a *Arena) Reset() {
	a.slots = a.slots[:0]
	a.free = a.free[:0]
	atomic.StoreInt64(&a.allocated, 0)
	atomic.StoreInt64(&a.deallocated, 0)
	a.nextIdent = 0
}

// Allocator is the narrow capability handed to collaborators that must be
// able to release handles (filters, collectors) without being able to reset
// or inspect the whole arena. The concrete *Arena satisfies it directly.
type Allocator interface {
	Allocate(docID int32) (MatchDoc, bool)
	AllocateSub(docID, subDocID int32) (MatchDoc, bool)
	Deallocate(d MatchDoc)
	DocID(d MatchDoc) int32
	SubDocID(d MatchDoc) int32
	Identifier(d MatchDoc) DocIdentifier
	Score(d MatchDoc) float64
	SetScore(d MatchDoc, score float64)
}

var _ Allocator = (*Arena)(nil)
