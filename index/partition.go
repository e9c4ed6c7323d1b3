package index

import (
	"fmt"
	"os"

	"github.com/blevesearch/mmap-go"

	"github.com/weizijun/havenask/search"
)

// Partition is an in-memory search.IndexPartitionReaderWrapper: one term's
// posting list per name, a main deletion map, a sub deletion map, a
// primary-key reader, and a main-to-sub doc-id mapping, all scoped to one
// partition snapshot the way spec.md §5/§6 describes the collaborator
// (SPEC_FULL.md §4).
type Partition struct {
	postings       map[string]*PostingList
	deletionMap    *DeletionMap
	subDeletionMap *DeletionMap
	pk             *PrimaryKeyReader
	subRanges      map[int32][2]int32
}

// NewPartition returns an empty partition ready for AddTerm/SetDeletionMap/etc.
func NewPartition() *Partition {
	return &Partition{
		postings:    make(map[string]*PostingList),
		deletionMap: NewDeletionMap(0),
		subRanges:   make(map[int32][2]int32),
	}
}

// AddTerm registers pl as the posting list a query clause named term resolves to.
func (p *Partition) AddTerm(term string, pl *PostingList) {
	p.postings[term] = pl
}

// SetDeletionMap replaces the partition's main deletion map.
func (p *Partition) SetDeletionMap(dm *DeletionMap) { p.deletionMap = dm }

// SetSubDeletionMap replaces the partition's sub-doc deletion map.
func (p *Partition) SetSubDeletionMap(dm *DeletionMap) { p.subDeletionMap = dm }

// SetPrimaryKeyReader binds the primary-key reader used for PKFilterClause resolution.
func (p *Partition) SetPrimaryKeyReader(pk *PrimaryKeyReader) { p.pk = pk }

// SetSubRange records that mainDocID owns sub-doc ids [begin, end).
func (p *Partition) SetSubRange(mainDocID, begin, end int32) {
	p.subRanges[mainDocID] = [2]int32{begin, end}
}

// PrimaryKeyReader implements search.IndexPartitionReaderWrapper.
func (p *Partition) PrimaryKeyReader() search.PrimaryKeyReader {
	if p.pk == nil {
		return nil
	}
	return p.pk
}

// DeletionMapReader implements search.IndexPartitionReaderWrapper.
func (p *Partition) DeletionMapReader() search.DeletionMapReader { return p.deletionMap }

// MainToSubIter implements search.IndexPartitionReaderWrapper.
func (p *Partition) MainToSubIter() search.MainToSubIterator { return p }

// SubDeletionMapReader implements search.IndexPartitionReaderWrapper.
func (p *Partition) SubDeletionMapReader() search.DeletionMapReader {
	if p.subDeletionMap == nil {
		return nil
	}
	return p.subDeletionMap
}

// SubRange implements search.MainToSubIterator.
func (p *Partition) SubRange(mainDocID int32) (begin, end int32) {
	r, ok := p.subRanges[mainDocID]
	if !ok {
		return 0, 0
	}
	return r[0], r[1]
}

// FileIOError marks err as a fatal file I/O failure from the index layer, the
// boundary rank.isFileIOError checks via an interface{ IsFileIOError() bool }
// assertion rather than a sentinel error value (spec.md §9).
type FileIOError struct{ Err error }

func (e *FileIOError) Error() string     { return "index: file I/O error: " + e.Err.Error() }
func (e *FileIOError) Unwrap() error     { return e.Err }
func (e *FileIOError) IsFileIOError() bool { return true }

// TermExecutorCreator resolves a query clause's term name against a
// Partition, implementing rank.QueryExecutorCreator. A clause whose term
// simulates a corrupt segment (named via WithCorruptTerm) reports a
// FileIOError instead of a plain lookup miss, exercising the
// ERROR_SEARCH_LOOKUP_FILEIO_ERROR accumulation path.
type TermExecutorCreator struct {
	partition    *Partition
	corruptTerms map[string]bool
}

// NewTermExecutorCreator returns a creator resolving clauses against partition.
func NewTermExecutorCreator(partition *Partition) *TermExecutorCreator {
	return &TermExecutorCreator{partition: partition, corruptTerms: make(map[string]bool)}
}

// WithCorruptTerm marks term so CreateExecutor reports a FileIOError for it
// instead of a plain "unknown term" error.
func (c *TermExecutorCreator) WithCorruptTerm(term string) *TermExecutorCreator {
	c.corruptTerms[term] = true
	return c
}

// CreateExecutor implements rank.QueryExecutorCreator.
func (c *TermExecutorCreator) CreateExecutor(layer search.LayerMeta, query search.QueryClause) (search.QueryExecutor, error) {
	if c.corruptTerms[query.Name] {
		return nil, &FileIOError{Err: fmt.Errorf("index: segment for term %q is corrupt", query.Name)}
	}
	pl, ok := c.partition.postings[query.Name]
	if !ok {
		return nil, fmt.Errorf("index: unknown term %q", query.Name)
	}
	return pl.IteratorInRanges(layer.Ranges).WithLayer(layer), nil
}

// SaveDeletionMapSnapshot persists dm's bitset to path, the form
// LoadDeletionMapSnapshot reads back through mmap.
func SaveDeletionMapSnapshot(path string, dm *DeletionMap) error {
	return os.WriteFile(path, dm.Bytes(), 0o644)
}

// LoadDeletionMapSnapshot memory-maps path read-only and decodes it as a
// DeletionMap, matching the "read-only snapshot taken at session start"
// resource policy spec.md §5 assigns the index-reader collaborator: the
// mapped pages are copied out and unmapped immediately, since the decoded
// bitset must outlive any one session.
func LoadDeletionMapSnapshot(path string) (*DeletionMap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("index: opening deletion map snapshot: %w", err)
	}
	defer f.Close()

	mapped, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("index: mapping deletion map snapshot: %w", err)
	}
	defer mapped.Unmap()

	data := make([]byte, len(mapped))
	copy(data, mapped)

	return LoadDeletionMap(data)
}

var _ search.IndexPartitionReaderWrapper = (*Partition)(nil)
var _ search.MainToSubIterator = (*Partition)(nil)
