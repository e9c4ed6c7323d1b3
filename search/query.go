package search

// EndDocID is returned by a PostingIterator once it is exhausted, the Go
// analogue of the index layer's END_DOCID sentinel.
const EndDocID int32 = -1

// DocRange is one [Begin, End) doc-id range contributing to a LayerMeta.
type DocRange struct {
	Begin int32
	End   int32
}

// LayerMeta describes one retrieval layer: an ordered set of doc-id ranges
// plus the maximum number of docs this layer may emit after seek and before
// filtering (spec.md §3).
type LayerMeta struct {
	Ranges []DocRange
	Quota  int
}

// PostingIterator lazily yields doc ids from a term's posting list in
// ascending order, the Go analogue of the index layer's skip-list posting
// cursor (spec.md §6).
type PostingIterator interface {
	// SeekDoc advances to the first doc id >= docID and returns it, or
	// EndDocID if the iterator is exhausted.
	SeekDoc(docID int32) int32
	// DF returns the active (possibly truncated) document frequency for
	// this posting list.
	DF() int64
	// MainChainDF returns the full, untruncated document frequency; used
	// to detect optimizer truncation (truncateChainFactor = MainChainDF/DF).
	MainChainDF() int64
}

// QueryExecutor is the state machine that lazily yields doc ids from one
// layer in ascending order (spec.md §3). A nil QueryExecutor, or one whose
// first SeekDoc immediately returns EndDocID, is treated as empty.
type QueryExecutor interface {
	PostingIterator
	// Layer returns the LayerMeta this executor was built against.
	Layer() LayerMeta
}

// ErrorableExecutor is an optional capability a QueryExecutor (or the
// PostingIterator it wraps) may implement to surface a fatal file I/O error
// from the index layer after a SeekDoc call. RankSearcher checks for this
// via a type assertion rather than widening QueryExecutor itself, since
// most executors never fail this way (spec.md §7, ERROR_INDEXLIB_IO).
type ErrorableExecutor interface {
	Err() error
}
