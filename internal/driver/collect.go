package driver

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file extensions collected from directories.
var DefaultExtensions = []string{".html", ".htm"}

// ErrNoFiles is returned when no pattern matched a file.
var ErrNoFiles = errors.New("no files matched")

// CollectFiles expands command-line patterns into a sorted, deduplicated
// list of files. A pattern is a file, a directory (walked for files with one
// of exts), or a glob where "**" matches any number of directories.
func CollectFiles(ctx context.Context, patterns []string, exts []string) ([]string, error) {
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	var files []string
	seen := make(map[string]struct{})
	addFile := func(path string) {
		path = filepath.Clean(path)
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		files = append(files, path)
	}

	for _, p := range patterns {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if hasMeta(p) {
			matches, err := glob(ctx, p)
			if err != nil {
				return nil, err
			}
			for _, m := range matches {
				addFile(m)
			}
			continue
		}

		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			addFile(p)
			continue
		}
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if d.IsDir() {
				if path != p && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if hasExtension(path, exts) {
				addFile(path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoFiles, strings.Join(patterns, " "))
	}
	sort.Strings(files)
	return files, nil
}

func hasMeta(p string) bool {
	return strings.ContainsAny(p, "*?[")
}

func hasExtension(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}

// glob matches files against pattern. Without "**" it is filepath.Glob;
// otherwise the tree under the literal prefix is walked and each file's
// relative path is matched segment by segment.
func glob(ctx context.Context, pattern string) ([]string, error) {
	pattern = filepath.ToSlash(pattern)
	if !strings.Contains(pattern, "**") {
		matches, err := filepath.Glob(filepath.FromSlash(pattern))
		if err != nil {
			return nil, err
		}
		out := matches[:0]
		for _, m := range matches {
			if info, err := os.Stat(m); err == nil && !info.IsDir() {
				out = append(out, m)
			}
		}
		return out, nil
	}

	segs := strings.Split(pattern, "/")
	root := 0
	for root < len(segs) && !hasMeta(segs[root]) {
		root++
	}
	base := strings.Join(segs[:root], "/")
	if base == "" {
		base = "."
		if strings.HasPrefix(pattern, "/") {
			base = "/"
		}
	}
	rest := segs[root:]

	var out []string
	err := filepath.WalkDir(filepath.FromSlash(base), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != filepath.FromSlash(base) && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(filepath.FromSlash(base), path)
		if err != nil {
			return nil
		}
		ok, err := matchSegments(rest, strings.Split(filepath.ToSlash(rel), "/"))
		if err != nil {
			return err
		}
		if ok {
			out = append(out, path)
		}
		return nil
	})
	return out, err
}

func matchSegments(pattern, name []string) (bool, error) {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			for i := 0; i <= len(name); i++ {
				ok, err := matchSegments(pattern[1:], name[i:])
				if ok || err != nil {
					return ok, err
				}
			}
			return false, nil
		}
		if len(name) == 0 {
			return false, nil
		}
		ok, err := filepath.Match(pattern[0], name[0])
		if !ok || err != nil {
			return false, err
		}
		pattern, name = pattern[1:], name[1:]
	}
	return len(name) == 0, nil
}
