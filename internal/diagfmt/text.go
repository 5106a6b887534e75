package diagfmt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"cutesy/internal/diag"
	"cutesy/internal/driver"
)

type palette struct {
	path, fatal, problems, bold *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		path:     color.New(color.Bold, color.Underline),
		fatal:    color.New(color.FgHiRed, color.Bold),
		problems: color.New(color.FgHiRed, color.Bold),
		bold:     color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.path, p.fatal, p.problems, p.bold} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Text writes the human-readable report of a batch run: a "Fixed" line per
// rewritten file, a block per file with problems, and the summary.
//
//	templates/base.html
//	  2:0     F3   Incorrect indentation
//	  3:4     F5   Extra horizontal whitespace
func Text(w io.Writer, results []driver.FileResult, opts TextOpts) {
	pal := newPalette(opts.Color)
	inFixBlock := false
	for _, r := range results {
		path := displayPath(r.Path, opts.PathMode, opts.BaseDir)
		if r.Fixed && !opts.Quiet {
			fmt.Fprintf(w, "Fixed %s\n", path)
			inFixBlock = true
		}
		if !r.Problems() {
			continue
		}
		if inFixBlock && !opts.Quiet {
			fmt.Fprintln(w)
		}
		inFixBlock = false
		if opts.Quiet {
			continue
		}
		fmt.Fprintln(w, pal.path.Sprint(path))
		writeFile(w, pal, "  ", r)
		fmt.Fprintln(w)
	}
	if inFixBlock && !opts.Quiet {
		fmt.Fprintln(w)
	}
	sum := Summarize(results)
	writeSummary(w, pal, sum.Line(opts.Fix), sum.Problems > 0)
}

// Code writes the report for a document passed on the command line. When
// fixing a document without leftover problems, the fixed document is
// printed before the summary.
func Code(w io.Writer, r driver.FileResult, original, output string, opts TextOpts) {
	pal := newPalette(opts.Color)
	if r.Problems() {
		if !opts.Quiet {
			writeFile(w, pal, "", r)
			fmt.Fprintln(w)
		}
		n := len(r.Diagnostics)
		if r.Err != nil {
			n++
		}
		verb := "found"
		if opts.Fix {
			verb = "left"
		}
		writeSummary(w, pal, fmt.Sprintf("%s %s", plural(n, "problem"), verb), true)
		return
	}
	switch {
	case opts.Fix && output == original:
		fmt.Fprintf(w, "%s\n\n", output)
		writeSummary(w, pal, "Nothing to fix", false)
	case opts.Fix:
		fmt.Fprintf(w, "%s\n\n", output)
		writeSummary(w, pal, "All done", false)
	default:
		writeSummary(w, pal, "No problems found", false)
	}
}

func writeFile(w io.Writer, pal palette, indent string, r driver.FileResult) {
	fatal := ""
	if r.Fatal {
		fatal = pal.fatal.Sprint("FATAL") + "  "
	}
	for _, d := range r.Diagnostics {
		fmt.Fprintf(w, "%s%s%s\n", indent, fatal, formatLine(d))
	}
	if r.Err != nil {
		fmt.Fprintf(w, "%s%s  %v\n", indent, pal.fatal.Sprint("ERROR"), r.Err)
	}
}

// formatLine pads the position to at least three digits of line number
// plus room for the column, and the code to four columns.
func formatLine(d diag.Diagnostic) string {
	line := strconv.Itoa(d.Line)
	width := 4 + max(len(line), 3)
	loc := runewidth.FillRight(line+":"+strconv.Itoa(d.Column), width)
	return fmt.Sprintf("%s %s %s", loc, runewidth.FillRight(d.Code.ID(), 4), d.Message())
}

func writeSummary(w io.Writer, pal palette, line string, problems bool) {
	if problems {
		fmt.Fprintln(w, pal.problems.Sprint(line))
		return
	}
	fmt.Fprintln(w, pal.bold.Sprint(line))
}
