package search

// DeletionMapReader answers whether a doc id has been deleted. Index
// readers are read-only snapshots taken at session start (spec.md §5);
// multiple concurrent sessions may share one.
type DeletionMapReader interface {
	IsDeleted(docID int32) bool
}

// PrimaryKeyReader resolves a primary-key string to the doc id it currently
// maps to, backing PKFilterClause handling (spec.md §4.1).
type PrimaryKeyReader interface {
	// Lookup returns the doc id for key, or (EndDocID, false) if the
	// primary key no longer maps to a live document.
	Lookup(key string) (int32, bool)
}

// MainToSubIterator maps a main doc id to the [begin, end) range of
// sub-doc ids it owns, used when getAllSubDoc is requested.
type MainToSubIterator interface {
	SubRange(mainDocID int32) (begin, end int32)
}

// SubDocDisplayType controls how sub-doc matches are surfaced upward,
// mirrored from the parser's ConfigClause (spec.md §6).
type SubDocDisplayType int

const (
	SubDocDisplayNone SubDocDisplayType = iota
	SubDocDisplayFlat
	SubDocDisplayGrouped
)

// IndexPartitionReaderWrapper is the external index-layer collaborator the
// core is addressed through (spec.md §6): primary-key lookup, deletion
// maps, and the main<->sub doc mapping, scoped to one partition snapshot.
type IndexPartitionReaderWrapper interface {
	PrimaryKeyReader() PrimaryKeyReader
	DeletionMapReader() DeletionMapReader
	MainToSubIter() MainToSubIterator
	SubDeletionMapReader() DeletionMapReader
}
