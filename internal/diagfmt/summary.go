package diagfmt

import (
	"fmt"

	"cutesy/internal/driver"
)

// Summary counts the outcome of a batch run.
type Summary struct {
	Files int `json:"files"`
	// Fixed counts files written back.
	Fixed int `json:"fixed"`
	// Problems counts diagnostics and file errors.
	Problems int `json:"problems"`
	// ProblemFiles counts files with at least one problem.
	ProblemFiles int `json:"problem_files"`
	// Failed counts files aborted by a structural error or an I/O error.
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// Summarize counts results.
func Summarize(results []driver.FileResult) Summary {
	s := Summary{Files: len(results)}
	for _, r := range results {
		if r.Fixed {
			s.Fixed++
		}
		if r.Skipped {
			s.Skipped++
		}
		if r.Fatal || r.Err != nil {
			s.Failed++
		}
		n := len(r.Diagnostics)
		if r.Err != nil {
			n++
		}
		if n > 0 {
			s.Problems += n
			s.ProblemFiles++
		}
	}
	return s
}

// Line renders the closing remark of a run.
func (s Summary) Line(fix bool) string {
	switch {
	case s.Problems > 0 && fix && s.Fixed > 0:
		return fmt.Sprintf("Fixed %s, %s left in %s", plural(s.Fixed, "file"), plural(s.Problems, "problem"), plural(s.ProblemFiles, "file"))
	case s.Problems > 0 && fix:
		return fmt.Sprintf("%s left in %s", plural(s.Problems, "problem"), plural(s.ProblemFiles, "file"))
	case s.Problems > 0:
		return fmt.Sprintf("%s found in %s", plural(s.Problems, "problem"), plural(s.ProblemFiles, "file"))
	case fix && s.Fixed > 0:
		return fmt.Sprintf("Fixed %s, no problems left", plural(s.Fixed, "file"))
	case fix:
		return "Nothing to fix"
	default:
		return "No problems found"
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
