package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"cutesy/internal/diag"
)

// Current schema version - increment when CachedResult format changes
const diskCacheSchemaVersion uint16 = 1

// Digest is a SHA-256 cache key.
type Digest [32]byte

// DiskCache stores lint results on disk keyed by document content and
// options. Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedResult is the stored outcome of linting one document.
type CachedResult struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Skipped bool
	Fatal   bool
	Changed bool
	// Output is the fixed document, set only when Changed.
	Output      string
	Diagnostics []CachedDiagnostic
}

// CachedDiagnostic stores a diagnostic by rule identifier so renumbering
// codes doesn't corrupt old entries.
type CachedDiagnostic struct {
	Code         string
	Severity     uint8
	Line         int
	Column       int
	Replacements map[string]string `msgpack:",omitempty"`
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		var err error
		base, err = os.UserCacheDir()
		if err != nil {
			return nil, err
		}
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a disk cache rooted at dir.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Key combines an options fingerprint with a document's content hash.
func Key(fingerprint string, content [32]byte) Digest {
	h := sha256.New()
	_, _ = h.Write([]byte(fingerprint))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write(content[:])
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := hex.EncodeToString(key[:])
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a result to the disk cache.
func (c *DiskCache) Put(key Digest, payload *CachedResult) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	payload.Schema = diskCacheSchemaVersion
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = rmErr
		}
	}()

	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Atomic replace
	return os.Rename(f.Name(), p)
}

// Get reads a result from the disk cache. Entries written with another
// schema are misses.
func (c *DiskCache) Get(key Digest, out *CachedResult) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, err
	}
	return out.Schema == diskCacheSchemaVersion, nil
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return err
	}
	return os.RemoveAll(old)
}

func toCached(diags []diag.Diagnostic) []CachedDiagnostic {
	out := make([]CachedDiagnostic, len(diags))
	for i, d := range diags {
		out[i] = CachedDiagnostic{
			Code:         d.Code.ID(),
			Severity:     uint8(d.Severity),
			Line:         d.Line,
			Column:       d.Column,
			Replacements: d.Replacements,
		}
	}
	return out
}

// fromCached restores diagnostics; false means an entry names a rule this
// build doesn't know and the entry must be recomputed.
func fromCached(entries []CachedDiagnostic) ([]diag.Diagnostic, bool) {
	out := make([]diag.Diagnostic, len(entries))
	for i, e := range entries {
		code, ok := diag.ParseCode(e.Code)
		if !ok {
			return nil, false
		}
		out[i] = diag.Diagnostic{
			Severity:     diag.Severity(e.Severity),
			Code:         code,
			Line:         e.Line,
			Column:       e.Column,
			Replacements: e.Replacements,
		}
	}
	return out, true
}
