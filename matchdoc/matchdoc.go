// Package matchdoc defines the opaque candidate-document handle used
// throughout the ranked retrieval core, and the arena it is backed by.
package matchdoc

import "math"

// MatchDoc identifies one candidate document for the lifetime of a single
// seek session. It is a slot index into a session-owned Arena, never an
// owning reference: copying a MatchDoc never copies the document's data.
type MatchDoc uint32

// Invalid is the sentinel MatchDoc value. No live document ever allocates
// this slot.
const Invalid MatchDoc = math.MaxUint32

// Valid reports whether d identifies a real arena slot.
func (d MatchDoc) Valid() bool {
	return d != Invalid
}

// DocIdentifier is the stable per-doc tiebreaker used to make top-K order
// deterministic when two documents compare equal under a rank comparator.
// Lower DocIdentifier sorts first among ties.
type DocIdentifier uint64

// Compare returns a strict-weak ordering: negative if a sorts before b,
// positive if after, zero if equal.
func (a DocIdentifier) Compare(b DocIdentifier) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
