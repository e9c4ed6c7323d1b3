package index

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/weizijun/havenask/search"
)

func TestPartitionCreateExecutorUnknownTerm(t *testing.T) {
	p := NewPartition()
	creator := NewTermExecutorCreator(p)

	_, err := creator.CreateExecutor(search.LayerMeta{}, search.QueryClause{Name: "missing"})
	if err == nil {
		t.Fatal("expected an error for an unregistered term")
	}
}

func TestPartitionCreateExecutorFileIOError(t *testing.T) {
	p := NewPartition()
	p.AddTerm("corrupt", NewPostingList(1, 2, 3))
	creator := NewTermExecutorCreator(p).WithCorruptTerm("corrupt")

	_, err := creator.CreateExecutor(search.LayerMeta{}, search.QueryClause{Name: "corrupt"})
	if err == nil {
		t.Fatal("expected a FileIOError")
	}
	var fe *FileIOError
	if !asFileIOError(err, &fe) {
		t.Fatalf("expected *FileIOError, got %T", err)
	}
}

func asFileIOError(err error, target **FileIOError) bool {
	fe, ok := err.(*FileIOError)
	if !ok {
		return false
	}
	*target = fe
	return true
}

func TestPartitionCreateExecutorScopesToLayerRanges(t *testing.T) {
	p := NewPartition()
	p.AddTerm("t", NewPostingList(0, 5, 10, 15, 20))
	creator := NewTermExecutorCreator(p)

	layer := search.LayerMeta{Ranges: []search.DocRange{{Begin: 10, End: 20}}}
	exec, err := creator.CreateExecutor(layer, search.QueryClause{Name: "t"})
	if err != nil {
		t.Fatalf("CreateExecutor: %v", err)
	}

	var got []int32
	for d := exec.SeekDoc(0); d != search.EndDocID; d = exec.SeekDoc(d + 1) {
		got = append(got, d)
	}
	if len(got) != 2 || got[0] != 10 || got[1] != 15 {
		t.Fatalf("expected [10 15], got %v", got)
	}
}

func TestPartitionMainToSub(t *testing.T) {
	p := NewPartition()
	p.SetSubRange(7, 100, 103)

	begin, end := p.SubRange(7)
	if begin != 100 || end != 103 {
		t.Fatalf("expected [100,103), got [%d,%d)", begin, end)
	}

	begin, end = p.SubRange(8)
	if begin != 0 || end != 0 {
		t.Fatalf("expected zero range for unmapped main doc, got [%d,%d)", begin, end)
	}
}

func TestDeletionMapSnapshotRoundTrip(t *testing.T) {
	dm := NewDeletionMap(64)
	dm.Delete(3)
	dm.Delete(40)

	path := filepath.Join(t.TempDir(), "deletions.bin")
	if err := SaveDeletionMapSnapshot(path, dm); err != nil {
		t.Fatalf("SaveDeletionMapSnapshot: %v", err)
	}

	loaded, err := LoadDeletionMapSnapshot(path)
	if err != nil {
		t.Fatalf("LoadDeletionMapSnapshot: %v", err)
	}
	if !loaded.IsDeleted(3) || !loaded.IsDeleted(40) {
		t.Fatal("expected deletions to survive the snapshot round trip")
	}
	if loaded.IsDeleted(4) {
		t.Fatal("doc 4 was never deleted")
	}

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("snapshot file missing: %v", err)
	}
}

var _ search.IndexPartitionReaderWrapper = (*Partition)(nil)
