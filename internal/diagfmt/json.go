package diagfmt

import (
	"encoding/json"
	"io"

	"cutesy/internal/driver"
)

// DiagnosticJSON is one diagnostic in JSON output. Line is 1-based, Column
// a 0-based code point offset.
type DiagnosticJSON struct {
	Severity string `json:"severity"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Fixable  bool   `json:"fixable"`
}

// FileJSON is the outcome of one file in JSON output.
type FileJSON struct {
	Path        string           `json:"path"`
	Fixed       bool             `json:"fixed,omitempty"`
	Skipped     bool             `json:"skipped,omitempty"`
	Fatal       bool             `json:"fatal,omitempty"`
	Error       string           `json:"error,omitempty"`
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
}

// ResultsOutput is the root of JSON output.
type ResultsOutput struct {
	Files   []FileJSON `json:"files"`
	Summary Summary    `json:"summary"`
	Message string     `json:"message"`
}

// BuildResultsOutput builds the JSON document without serializing it.
func BuildResultsOutput(results []driver.FileResult, opts JSONOpts) ResultsOutput {
	files := make([]FileJSON, 0, len(results))
	for _, r := range results {
		f := FileJSON{
			Path:        displayPath(r.Path, opts.PathMode, opts.BaseDir),
			Fixed:       r.Fixed,
			Skipped:     r.Skipped,
			Fatal:       r.Fatal,
			Diagnostics: make([]DiagnosticJSON, 0, len(r.Diagnostics)),
		}
		if r.Err != nil {
			f.Error = r.Err.Error()
		}
		items := r.Diagnostics
		if opts.Max > 0 && opts.Max < len(items) {
			items = items[:opts.Max]
		}
		for _, d := range items {
			f.Diagnostics = append(f.Diagnostics, DiagnosticJSON{
				Severity: d.Severity.String(),
				Code:     d.Code.ID(),
				Message:  d.Message(),
				Line:     d.Line,
				Column:   d.Column,
				Fixable:  d.Code.Fixable(),
			})
		}
		files = append(files, f)
	}
	sum := Summarize(results)
	return ResultsOutput{Files: files, Summary: sum, Message: sum.Line(opts.Fix)}
}

// JSON writes results as an indented JSON document.
func JSON(w io.Writer, results []driver.FileResult, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildResultsOutput(results, opts))
}
