package scan

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func rels(files []FileInfo) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Rel)
	}
	sort.Strings(out)
	return out
}

func TestScanRoot_Recursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "alice-2023-05-01.log"))
	writeFile(t, filepath.Join(root, "alice", "alice-2023-05-02.log"))
	writeFile(t, filepath.Join(root, "bob", "nested", "bob-2023-05-01.log"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	files, err := ScanRoot(root, "")
	if err != nil {
		t.Fatalf("ScanRoot: %v", err)
	}

	want := []string{
		"alice/alice-2023-05-01.log",
		"alice/alice-2023-05-02.log",
		"bob/nested/bob-2023-05-01.log",
		"notes.txt",
	}
	if diff := cmp.Diff(want, rels(files)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
	for _, f := range files {
		if f.Size != 2 {
			t.Errorf("%s: size = %d, want 2", f.Rel, f.Size)
		}
	}
}

func TestNewest(t *testing.T) {
	root := t.TempDir()
	older := filepath.Join(root, "alice", "alice-2023-05-01.log")
	newer := filepath.Join(root, "bob", "bob-2023-05-02.log")
	writeFile(t, older)
	writeFile(t, newer)
	base := time.Date(2023, 5, 2, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(older, base, base.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := os.Chtimes(newer, base, base); err != nil {
		t.Fatal(err)
	}

	files, err := ScanRoot(root, "")
	if err != nil {
		t.Fatalf("ScanRoot: %v", err)
	}
	got, ok := Newest(files)
	if !ok {
		t.Fatal("expected a newest file")
	}
	if got.Rel != "bob/bob-2023-05-02.log" || got.Mtime != base.Unix() {
		t.Errorf("Newest = %+v", got)
	}

	if _, ok := Newest(nil); ok {
		t.Error("Newest(nil) should report no file")
	}
}

func TestScanRoot_Include(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alice", "alice-2023-05-01.log"))
	writeFile(t, filepath.Join(root, "alice", "alice-2023-05-01.log.bak"))
	writeFile(t, filepath.Join(root, "notes.txt"))

	files, err := ScanRoot(root, "**/*.log")
	if err != nil {
		t.Fatalf("ScanRoot: %v", err)
	}
	if diff := cmp.Diff([]string{"alice/alice-2023-05-01.log"}, rels(files)); diff != "" {
		t.Errorf("files mismatch (-want +got):\n%s", diff)
	}
}

func TestScanRoot_InvalidPattern(t *testing.T) {
	if _, err := ScanRoot(t.TempDir(), "[unclosed"); err == nil {
		t.Fatal("expected error for invalid pattern")
	}
}

func TestScanRoot_MissingRoot(t *testing.T) {
	_, err := ScanRoot(filepath.Join(t.TempDir(), "nope"), "")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestScanRoot_RootIsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.log")
	writeFile(t, path)
	if _, err := ScanRoot(path, ""); err == nil {
		t.Fatal("expected error when root is a file")
	}
}
