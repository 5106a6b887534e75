package diagfmt

import "cutesy/internal/source"

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps paths as given.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// ParsePathMode accepts auto, absolute, relative and basename.
func ParsePathMode(s string) (PathMode, bool) {
	switch s {
	case "", "auto":
		return PathModeAuto, true
	case "absolute":
		return PathModeAbsolute, true
	case "relative":
		return PathModeRelative, true
	case "basename":
		return PathModeBasename, true
	}
	return PathModeAuto, false
}

// TextOpts configures the human-readable report.
type TextOpts struct {
	Color bool
	// Quiet suppresses everything but the summary.
	Quiet    bool
	Fix      bool
	PathMode PathMode
	BaseDir  string
}

// JSONOpts configures JSON output of results.
type JSONOpts struct {
	PathMode PathMode
	BaseDir  string
	Fix      bool
	// Max limits the number of diagnostics per file, 0 is unlimited.
	Max int
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
	PathMode       PathMode
	BaseDir        string
}

func displayPath(path string, mode PathMode, baseDir string) string {
	f := source.File{Path: path}
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", baseDir)
	case PathModeBasename:
		return f.FormatPath("basename", "")
	default:
		return path
	}
}
