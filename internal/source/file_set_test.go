package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("index.html", []byte("<p>one</p>"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	id2 := fs.Add("index.html", []byte("<p>two</p>"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latest, ok := fs.GetByPath("index.html")
	if !ok || latest.ID != id2 {
		t.Fatalf("Expected latest file to be %d, got %+v", id2, latest)
	}
	if string(fs.Get(id1).Content) != "<p>one</p>" {
		t.Errorf("first version lost: %q", fs.Get(id1).Content)
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("different content must hash differently")
	}
	if fs.Len() != 2 {
		t.Errorf("Len() = %d", fs.Len())
	}
}

func TestAddVirtualFlags(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("<stdin>", []byte("a\nb\n")))
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestLoadNormalizesAndEncodeRestores(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.html")
	raw := []byte("\xEF\xBB\xBF<p>\r\n\tx\r\n</p>\r\n")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if got, want := string(file.Content), "<p>\n\tx\n</p>\n"; got != want {
		t.Fatalf("content %q, want %q", got, want)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags %b", file.Flags)
	}
	if file.Mode != 0o600 {
		t.Errorf("mode %v, want 0600", file.Mode)
	}
	if got := string(file.Encode(string(file.Content))); got != string(raw) {
		t.Fatalf("Encode = %q, want %q", got, raw)
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.html")); err == nil {
		t.Fatal("expected an error")
	}
}
