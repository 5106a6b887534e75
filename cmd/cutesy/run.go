package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"cutesy/internal/config"
	"cutesy/internal/diag"
	"cutesy/internal/diagfmt"
	"cutesy/internal/driver"
	"cutesy/internal/observ"
	"cutesy/internal/version"
)

func runLint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	cfg, err := config.Load(wd)
	if err != nil {
		return usageError{err}
	}
	s, err := resolveSettings(cmd, cfg)
	if err != nil {
		return err
	}
	if err := s.validateIgnore(); err != nil {
		return err
	}

	if s.code {
		return lintCode(ctx, stdout, strings.Join(args, " "), s)
	}

	files, err := driver.CollectFiles(ctx, args, nil)
	if err != nil {
		if errors.Is(err, driver.ErrNoFiles) || errors.Is(err, os.ErrNotExist) {
			return usageError{err}
		}
		return err
	}

	opts := driver.LintOptions{
		NewLinter:   s.newLinter,
		Fix:         s.fix,
		Jobs:        s.jobs,
		Fingerprint: s.fingerprint(),
		Timings:     s.timings,
	}
	if !s.noCache {
		cache, err := driver.OpenDiskCache("cutesy")
		if err == nil && s.clear {
			err = cache.DropAll()
		}
		if err != nil {
			fmt.Fprintf(stderr, "cutesy: result cache disabled: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	var results []driver.FileResult
	if shouldUseTUI(s.ui, s, len(files), stdout) {
		results, err = runLintWithUI(ctx, stdout, "cutesy", files, opts)
	} else {
		results, err = driver.LintFiles(ctx, files, opts)
	}
	if err != nil {
		return err
	}

	if err := render(stdout, results, s, args); err != nil {
		return err
	}
	if s.timings {
		printTimings(stderr, results)
	}

	sum := diagfmt.Summarize(results)
	if (sum.Problems > 0 || sum.Failed > 0) && !s.returnZero {
		return &exitError{code: exitProblems}
	}
	return nil
}

func render(out io.Writer, results []driver.FileResult, s settings, args []string) error {
	baseDir, _ := os.Getwd()
	switch s.format {
	case "json":
		return diagfmt.JSON(out, results, diagfmt.JSONOpts{PathMode: s.pathMode, BaseDir: baseDir, Fix: s.fix})
	case "sarif":
		return diagfmt.Sarif(out, results, diagfmt.SarifRunMeta{
			ToolName:       "cutesy",
			ToolVersion:    version.Version,
			InvocationArgs: args,
			PathMode:       s.pathMode,
			BaseDir:        baseDir,
		})
	default:
		diagfmt.Text(out, results, diagfmt.TextOpts{
			Color:    useColor(s.color, out),
			Quiet:    s.quiet,
			Fix:      s.fix,
			PathMode: s.pathMode,
			BaseDir:  baseDir,
		})
		return nil
	}
}

// lintCode lints a document given on the command line. Fixed output is
// printed, never written anywhere.
func lintCode(ctx context.Context, out io.Writer, text string, s settings) error {
	res := driver.FileResult{}
	output := text
	lint, err := s.newLinter().Lint(ctx, text)
	switch {
	case err == nil:
		res.Diagnostics = lint.Diagnostics
		output = lint.Output
	case errors.Is(err, diag.ErrDoctype):
		res.Skipped = true
	default:
		se, ok := diag.AsStructural(err)
		if !ok {
			return err
		}
		res.Fatal = true
		res.Diagnostics = []diag.Diagnostic{se.Diagnostic}
	}

	switch s.format {
	case "json", "sarif":
		res.Path = "<code>"
		if err := render(out, []driver.FileResult{res}, s, nil); err != nil {
			return err
		}
	default:
		diagfmt.Code(out, res, text, output, diagfmt.TextOpts{
			Color: useColor(s.color, out),
			Quiet: s.quiet,
			Fix:   s.fix,
		})
	}
	if res.Problems() && !s.returnZero {
		return &exitError{code: exitProblems}
	}
	return nil
}

func printTimings(out io.Writer, results []driver.FileResult) {
	reports := make([]observ.Report, 0, len(results))
	cached := 0
	for _, r := range results {
		if r.Timing != nil {
			reports = append(reports, *r.Timing)
		}
		if r.Cached {
			cached++
		}
	}
	fmt.Fprintf(out, "%d files, %d from cache\n", len(results), cached)
	fmt.Fprint(out, observ.Sum(reports...).Summary())
}
