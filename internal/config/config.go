// Package config finds and decodes cutesy settings files.
//
// Settings are looked up from a start directory upward, in priority order:
// cutesy.toml (top level), pyproject.toml ([tool.cutesy] or [cutesy]) and
// setup.cfg ([cutesy]). The first file that carries settings wins.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config holds the settings found in a file. Keys the file doesn't set are
// nil so command-line defaults stay in effect.
type Config struct {
	// Path is the file the settings came from, empty when none was found.
	Path string

	Fix                    *bool
	ReturnZero             *bool
	Quiet                  *bool
	CheckDoctype           *bool
	Code                   *bool
	PreserveAttrWhitespace *bool

	Extra  []string
	Ignore []string

	Indentation     *string
	TabWidth        *int
	LineLength      *int
	MaxItemsPerLine *int
}

type source struct {
	name string
	load func(path string) (map[string]any, bool, error)
}

var sources = []source{
	{"cutesy.toml", loadCutesyTOML},
	{"pyproject.toml", loadPyproject},
	{"setup.cfg", loadSetupCfg},
}

// Load returns the settings that apply to startDir. A missing settings file
// is not an error.
func Load(startDir string) (Config, error) {
	for _, src := range sources {
		path, ok, err := findInParents(startDir, src.name)
		if err != nil {
			return Config{}, err
		}
		if !ok {
			continue
		}
		raw, found, err := src.load(path)
		if err != nil {
			return Config{}, err
		}
		if !found {
			continue
		}
		cfg, err := decode(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", path, err)
		}
		cfg.Path = path
		return cfg, nil
	}
	return Config{}, nil
}

func findInParents(startDir, name string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true, nil
		} else if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}

func loadCutesyTOML(path string) (map[string]any, bool, error) {
	raw := map[string]any{}
	if _, err := toml.DecodeFile(path, &raw); err != nil {
		return nil, false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return raw, true, nil
}

func loadPyproject(path string) (map[string]any, bool, error) {
	var doc struct {
		Cutesy map[string]any `toml:"cutesy"`
		Tool   struct {
			Cutesy map[string]any `toml:"cutesy"`
		} `toml:"tool"`
	}
	meta, err := toml.DecodeFile(path, &doc)
	if err != nil {
		return nil, false, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	switch {
	case meta.IsDefined("cutesy"):
		return doc.Cutesy, true, nil
	case meta.IsDefined("tool", "cutesy"):
		return doc.Tool.Cutesy, true, nil
	}
	return nil, false, nil
}

func loadSetupCfg(path string) (map[string]any, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()
	section, found, err := readINISection(f, "cutesy")
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	if !found {
		return nil, false, nil
	}
	raw := make(map[string]any, len(section))
	for k, v := range section {
		raw[k] = v
	}
	return raw, true, nil
}
