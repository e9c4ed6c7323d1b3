// Package index provides an in-memory reference implementation of the
// external index-partition collaborator the ranked retrieval core is
// addressed through (search.IndexPartitionReaderWrapper and friends), so
// the core can be exercised end to end by tests and by the bundled CLI
// (SPEC_FULL.md §4).
package index

import "github.com/bits-and-blooms/bitset"

// DeletionMap is a dense per-doc-id deletion bitmap. Deletions are a small,
// dense flag per doc id, unlike the sparse per-term postings, so a plain
// bitset is the natural fit here rather than the roaring bitmaps the
// postings use (SPEC_FULL.md §4).
type DeletionMap struct {
	bits *bitset.BitSet
}

// NewDeletionMap returns an empty deletion map sized for capacity doc ids.
func NewDeletionMap(capacity int) *DeletionMap {
	if capacity < 0 {
		capacity = 0
	}
	return &DeletionMap{bits: bitset.New(uint(capacity))}
}

// Delete marks docID as deleted.
func (d *DeletionMap) Delete(docID int32) {
	d.bits.Set(uint(docID))
}

// Undelete clears docID's deletion flag, e.g. to model a resurrection
// between snapshots in tests.
func (d *DeletionMap) Undelete(docID int32) {
	d.bits.Clear(uint(docID))
}

// IsDeleted implements search.DeletionMapReader.
func (d *DeletionMap) IsDeleted(docID int32) bool {
	if docID < 0 {
		return false
	}
	return d.bits.Test(uint(docID))
}

// Bytes serializes the deletion map for the SaveDeletionMapSnapshot /
// LoadDeletionMapSnapshot mmap round trip.
func (d *DeletionMap) Bytes() []byte {
	b, _ := d.bits.MarshalBinary()
	return b
}

// LoadDeletionMap recovers a DeletionMap from bytes produced by Bytes.
func LoadDeletionMap(data []byte) (*DeletionMap, error) {
	bs := &bitset.BitSet{}
	if err := bs.UnmarshalBinary(data); err != nil {
		return nil, err
	}
	return &DeletionMap{bits: bs}, nil
}
