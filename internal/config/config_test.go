package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadCutesyTOML(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "cutesy.toml", `
fix = true
quiet = "yes"
extra = ["django", "tailwind"]
ignore = "F5, D9"
indentation = "spaces"
tab_width = 2
line_length = 120
`)
	sub := filepath.Join(root, "templates", "app")
	if err := os.MkdirAll(sub, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(sub)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Path != filepath.Join(root, "cutesy.toml") {
		t.Errorf("Path = %q", cfg.Path)
	}
	if cfg.Fix == nil || !*cfg.Fix || cfg.Quiet == nil || !*cfg.Quiet {
		t.Errorf("booleans not decoded: %+v", cfg)
	}
	if cfg.ReturnZero != nil {
		t.Errorf("unset key decoded: %v", *cfg.ReturnZero)
	}
	if diff := cmp.Diff([]string{"django", "tailwind"}, cfg.Extra); diff != "" {
		t.Errorf("extra (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"F5", "D9"}, cfg.Ignore); diff != "" {
		t.Errorf("ignore (-want +got):\n%s", diff)
	}
	if cfg.Indentation == nil || *cfg.Indentation != "spaces" {
		t.Errorf("indentation = %v", cfg.Indentation)
	}
	if cfg.TabWidth == nil || *cfg.TabWidth != 2 || cfg.LineLength == nil || *cfg.LineLength != 120 {
		t.Errorf("integers not decoded: %+v", cfg)
	}
}

func TestLoadPyproject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		found   bool
	}{
		{"tool table", "[tool.cutesy]\nfix = true\n", true},
		{"top level table", "[cutesy]\nfix = true\n", true},
		{"no section", "[tool.black]\nline-length = 88\n", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "pyproject.toml", tt.content)
			cfg, err := Load(dir)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got := cfg.Fix != nil && *cfg.Fix; got != tt.found {
				t.Errorf("fix = %v, want %v", got, tt.found)
			}
		})
	}
}

func TestLoadSetupCfg(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "setup.cfg", `[metadata]
name = site

[cutesy]
fix = on
return_zero: 0
extra =
    django
    tailwind
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Fix == nil || !*cfg.Fix {
		t.Errorf("fix = %v", cfg.Fix)
	}
	if cfg.ReturnZero == nil || *cfg.ReturnZero {
		t.Errorf("return_zero = %v", cfg.ReturnZero)
	}
	if diff := cmp.Diff([]string{"django", "tailwind"}, cfg.Extra); diff != "" {
		t.Errorf("extra (-want +got):\n%s", diff)
	}
}

func TestPriority(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "cutesy.toml", "quiet = true\n")
	writeFile(t, dir, "setup.cfg", "[cutesy]\nfix = true\n")
	cfg, err := Load(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Fix != nil || cfg.Quiet == nil {
		t.Errorf("setup.cfg was read instead of cutesy.toml: %+v", cfg)
	}
}

func TestNoConfig(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Path != "" && !strings.HasSuffix(cfg.Path, "cutesy.toml") {
		t.Logf("picked up %s from a parent directory", cfg.Path)
	}
}

func TestBadValues(t *testing.T) {
	tests := []string{
		"fix = \"maybe\"\n",
		"tab_width = \"wide\"\n",
		"extra = 3\n",
	}
	for _, content := range tests {
		dir := t.TempDir()
		writeFile(t, dir, "cutesy.toml", content)
		if _, err := Load(dir); err == nil {
			t.Errorf("Load(%q) succeeded", content)
		}
	}
}

func TestParseList(t *testing.T) {
	tests := []struct {
		in   any
		want []string
	}{
		{"django,tailwind", []string{"django", "tailwind"}},
		{"django tailwind", []string{"django", "tailwind"}},
		{`["django", "tailwind"]`, []string{"django", "tailwind"}},
		{"[django, tailwind]", []string{"django", "tailwind"}},
		{"[]", []string{}},
		{"", []string{}},
		{[]any{"django", " "}, []string{"django"}},
	}
	for _, tt := range tests {
		got, ok := ParseList(tt.in)
		if !ok {
			t.Errorf("ParseList(%#v) failed", tt.in)
			continue
		}
		if diff := cmp.Diff(tt.want, got); diff != "" {
			t.Errorf("ParseList(%#v) (-want +got):\n%s", tt.in, diff)
		}
	}
}
