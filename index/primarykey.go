package index

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/blevesearch/vellum"
	"golang.org/x/text/unicode/norm"

	"github.com/weizijun/havenask/search"
)

// PrimaryKeyReader resolves primary-key strings to doc ids through a
// vellum FST, the natural fit for a sorted, immutable string->int map
// (SPEC_FULL.md §4). Keys are normalized to NFC before insertion and
// lookup so primary keys that reach a shard in different Unicode
// normalization forms still resolve to the same entry.
type PrimaryKeyReader struct {
	fst *vellum.FST
}

// BuildPrimaryKeyReader builds an FST from a key->docID map. Vellum
// requires keys inserted in lexicographic order, so the entries are sorted
// by their normalized key first.
func BuildPrimaryKeyReader(keyToDocID map[string]int32) (*PrimaryKeyReader, error) {
	type entry struct {
		key   string
		docID int32
	}
	entries := make([]entry, 0, len(keyToDocID))
	for k, docID := range keyToDocID {
		entries = append(entries, entry{key: normalizeKey(k), docID: docID})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

	var buf bytes.Buffer
	builder, err := vellum.New(&buf, nil)
	if err != nil {
		return nil, fmt.Errorf("index: building primary key FST: %w", err)
	}
	for _, e := range entries {
		if err := builder.Insert([]byte(e.key), uint64(uint32(e.docID))); err != nil {
			return nil, fmt.Errorf("index: inserting primary key %q: %w", e.key, err)
		}
	}
	if err := builder.Close(); err != nil {
		return nil, fmt.Errorf("index: closing primary key FST: %w", err)
	}

	fst, err := vellum.Load(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("index: loading primary key FST: %w", err)
	}
	return &PrimaryKeyReader{fst: fst}, nil
}

func normalizeKey(key string) string {
	return norm.NFC.String(key)
}

// Lookup implements search.PrimaryKeyReader.
func (r *PrimaryKeyReader) Lookup(key string) (int32, bool) {
	v, exists, err := r.fst.Get([]byte(normalizeKey(key)))
	if err != nil || !exists {
		return search.EndDocID, false
	}
	return int32(uint32(v)), true
}
