package driver

import (
	"context"
	"crypto/sha256"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"cutesy/internal/diag"
	"cutesy/internal/linter"
)

func TestDiskCacheRoundTrip(t *testing.T) {
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	key := Key("v1", sha256.Sum256([]byte("<p>a</p>")))

	var out CachedResult
	if ok, err := cache.Get(key, &out); ok || err != nil {
		t.Fatalf("empty cache: ok=%v err=%v", ok, err)
	}

	in := &CachedResult{
		Fatal: true,
		Diagnostics: []CachedDiagnostic{
			{Code: "D3", Severity: uint8(diag.SevFatal), Line: 1, Column: 11, Replacements: map[string]string{"tag": "span"}},
		},
	}
	if err := cache.Put(key, in); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if ok, err := cache.Get(key, &out); !ok || err != nil {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if diff := cmp.Diff(*in, out); diff != "" {
		t.Errorf("payload (-want +got):\n%s", diff)
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("DropAll: %v", err)
	}
	if ok, _ := cache.Get(key, &CachedResult{}); ok {
		t.Errorf("entry survived DropAll")
	}
}

func TestKeyDependsOnFingerprint(t *testing.T) {
	content := sha256.Sum256([]byte("<p>a</p>"))
	if Key("fix", content) == Key("check", content) {
		t.Errorf("fingerprint ignored")
	}
	if Key("fix", content) != Key("fix", content) {
		t.Errorf("key is not deterministic")
	}
}

func TestFromCachedUnknownCode(t *testing.T) {
	if _, ok := fromCached([]CachedDiagnostic{{Code: "Z99"}}); ok {
		t.Errorf("unknown rule accepted")
	}
	diags, ok := fromCached(toCached([]diag.Diagnostic{diag.New(diag.ExpectedClosingTag, 2, 3)}))
	if !ok || len(diags) != 1 || diags[0].Code != diag.ExpectedClosingTag || diags[0].Line != 2 {
		t.Errorf("restored = %+v, %v", diags, ok)
	}
}

func TestLintFilesUsesCache(t *testing.T) {
	root := writeTree(t, map[string]string{"a.html": "<div>\n  x\n</div>\n"})
	path := filepath.Join(root, "a.html")
	cache, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	opts := LintOptions{Cache: cache, Fingerprint: "check"}

	first, err := LintFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	second, err := LintFiles(context.Background(), []string{path}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if first[0].Cached || !second[0].Cached {
		t.Errorf("cached = %v, %v; want false, true", first[0].Cached, second[0].Cached)
	}
	if diff := cmp.Diff(first[0].Diagnostics, second[0].Diagnostics, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("cached diagnostics differ (-first +second):\n%s", diff)
	}

	fix := LintOptions{
		Cache:       cache,
		Fingerprint: "fix",
		Fix:         true,
		NewLinter:   func() *linter.Linter { return linter.New(linter.WithFix(true)) },
	}
	if _, err := LintFiles(context.Background(), []string{path}, fix); err != nil {
		t.Fatal(err)
	}
	again, err := LintFiles(context.Background(), []string{path}, fix)
	if err != nil {
		t.Fatal(err)
	}
	if !again[0].Cached || again[0].Fixed {
		t.Errorf("fixed document not served from cache: %+v", again[0])
	}
	got, _ := os.ReadFile(path)
	if string(got) != "<div>\n\tx\n</div>\n" {
		t.Errorf("written = %q", got)
	}
}
