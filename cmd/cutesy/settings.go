package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cutesy/internal/attrs"
	"cutesy/internal/attrs/tailwind"
	"cutesy/internal/config"
	"cutesy/internal/diag"
	"cutesy/internal/diagfmt"
	"cutesy/internal/linter"
	"cutesy/internal/preprocess/django"
	"cutesy/internal/version"
)

// settings are the effective options of a run: flags given on the command
// line, then the settings file, then flag defaults.
type settings struct {
	code           bool
	fix            bool
	returnZero     bool
	quiet          bool
	checkDoctype   bool
	preserveAttrWS bool
	extras         []string
	ignore         []string
	indent         linter.IndentStyle
	tabWidth       int
	lineLength     int
	maxItems       int

	format   string
	pathMode diagfmt.PathMode
	jobs     int
	ui       uiMode
	color    colorMode
	noCache  bool
	clear    bool
	timings  bool
}

var (
	preprocessorExtras = []string{"django"}
	processorExtras    = []string{"tailwind", "whitespace", "reindent"}
)

func resolveSettings(cmd *cobra.Command, cfg config.Config) (settings, error) {
	flags := cmd.Flags()
	var s settings
	var err error

	bools := []struct {
		name string
		file *bool
		dst  *bool
	}{
		{"code", cfg.Code, &s.code},
		{"fix", cfg.Fix, &s.fix},
		{"return-zero", cfg.ReturnZero, &s.returnZero},
		{"quiet", cfg.Quiet, &s.quiet},
		{"check-doctype", cfg.CheckDoctype, &s.checkDoctype},
		{"preserve-attr-whitespace", cfg.PreserveAttrWhitespace, &s.preserveAttrWS},
		{"no-cache", nil, &s.noCache},
		{"clear-cache", nil, &s.clear},
		{"timings", nil, &s.timings},
	}
	for _, b := range bools {
		if *b.dst, err = flags.GetBool(b.name); err != nil {
			return settings{}, err
		}
		if !flags.Changed(b.name) && b.file != nil {
			*b.dst = *b.file
		}
	}

	ints := []struct {
		name string
		file *int
		dst  *int
	}{
		{"tab-width", cfg.TabWidth, &s.tabWidth},
		{"line-length", cfg.LineLength, &s.lineLength},
		{"max-items", cfg.MaxItemsPerLine, &s.maxItems},
		{"jobs", nil, &s.jobs},
	}
	for _, n := range ints {
		if *n.dst, err = flags.GetInt(n.name); err != nil {
			return settings{}, err
		}
		if !flags.Changed(n.name) && n.file != nil {
			*n.dst = *n.file
		}
		if *n.dst < 0 || (*n.dst == 0 && n.name != "jobs") {
			return settings{}, usageError{fmt.Errorf("--%s must be positive, got %d", n.name, *n.dst)}
		}
	}

	if s.extras, err = listSetting(cmd, "extra", cfg.Extra); err != nil {
		return settings{}, err
	}
	if s.ignore, err = listSetting(cmd, "ignore", cfg.Ignore); err != nil {
		return settings{}, err
	}
	for _, e := range s.extras {
		if !slices.Contains(preprocessorExtras, e) && !slices.Contains(processorExtras, e) {
			return settings{}, usageError{fmt.Errorf("unknown extra %q (expected one of django, tailwind)", e)}
		}
	}
	for _, id := range diag.ParseIgnore(s.ignore...).Names() {
		if !knownRuleOrCategory(id) {
			return settings{}, usageError{fmt.Errorf("unknown rule or category %q in ignore", id)}
		}
	}

	indent, _ := flags.GetString("indent")
	if !flags.Changed("indent") && cfg.Indentation != nil {
		indent = *cfg.Indentation
	}
	var ok bool
	if s.indent, ok = linter.ParseIndentStyle(indent); !ok {
		return settings{}, usageError{fmt.Errorf("invalid indentation %q (expected tab|spaces)", indent)}
	}

	s.format, _ = flags.GetString("format")
	s.format = strings.ToLower(s.format)
	switch s.format {
	case "text", "json", "sarif":
	default:
		return settings{}, usageError{fmt.Errorf("unsupported format %q (must be text, json or sarif)", s.format)}
	}

	pathMode, _ := flags.GetString("path-mode")
	if s.pathMode, ok = diagfmt.ParsePathMode(pathMode); !ok {
		return settings{}, usageError{fmt.Errorf("invalid --path-mode value %q", pathMode)}
	}

	uiValue, _ := flags.GetString("ui")
	if s.ui, err = readUIMode(uiValue); err != nil {
		return settings{}, usageError{err}
	}
	colorValue, _ := flags.GetString("color")
	if s.color, err = readColorMode(colorValue); err != nil {
		return settings{}, usageError{err}
	}
	return s, nil
}

func listSetting(cmd *cobra.Command, name string, file []string) ([]string, error) {
	if !cmd.Flags().Changed(name) {
		return file, nil
	}
	value, _ := cmd.Flags().GetString(name)
	list, ok := config.ParseList(value)
	if !ok {
		return nil, usageError{fmt.Errorf("invalid --%s value %q", name, value)}
	}
	return list, nil
}

func knownRuleOrCategory(id string) bool {
	if _, ok := diag.ParseCode(id); ok {
		return true
	}
	for _, c := range diag.Codes() {
		if c.Category() == id || c.ID()[:1] == id {
			return true
		}
	}
	return false
}

// validateIgnore rejects fixing with a structural rule ignored.
func (s settings) validateIgnore() error {
	if !s.fix {
		return nil
	}
	set := diag.ParseIgnore(s.ignore...)
	for _, c := range diag.Codes() {
		if c.Structural() && set.Ignored(c) {
			return &diag.ConfigurationError{Code: c}
		}
	}
	return nil
}

func (s settings) processors() []attrs.Processor {
	var out []attrs.Processor
	if !s.preserveAttrWS {
		out = append(out, attrs.Whitespace{}, attrs.Reindent{})
	}
	if slices.Contains(s.extras, "tailwind") {
		out = append(out, tailwind.Processor{})
	}
	return out
}

func (s settings) linterOptions() []linter.Option {
	opts := []linter.Option{
		linter.WithFix(s.fix),
		linter.WithCheckDoctype(s.checkDoctype),
		linter.WithProcessors(s.processors()...),
		linter.WithIgnore(diag.ParseIgnore(s.ignore...)),
		linter.WithIndentation(s.indent, s.tabWidth),
		linter.WithLineLength(s.lineLength),
		linter.WithMaxItemsPerLine(s.maxItems),
	}
	return opts
}

// newLinter builds a linter for one document. Preprocessors hold
// per-document state, so each linter gets its own.
func (s settings) newLinter() *linter.Linter {
	opts := s.linterOptions()
	if slices.Contains(s.extras, "django") {
		opts = append(opts, linter.WithPreprocessor(django.New()))
	}
	return linter.New(opts...)
}

// fingerprint identifies every setting that changes lint results, for the
// result cache.
func (s settings) fingerprint() string {
	extras := slices.Clone(s.extras)
	slices.Sort(extras)
	ignore := diag.ParseIgnore(s.ignore...).Names()
	parts := []string{
		version.Version,
		"fix=" + strconv.FormatBool(s.fix),
		"doctype=" + strconv.FormatBool(s.checkDoctype),
		"preserve=" + strconv.FormatBool(s.preserveAttrWS),
		"extras=" + strings.Join(extras, ","),
		"ignore=" + strings.Join(ignore, ","),
		"indent=" + s.indent.String(),
		"tab=" + strconv.Itoa(s.tabWidth),
		"line=" + strconv.Itoa(s.lineLength),
		"items=" + strconv.Itoa(s.maxItems),
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	return hex.EncodeToString(sum[:])
}
