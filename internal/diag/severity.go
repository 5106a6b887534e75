package diag

// Severity defines the importance of a diagnostic.
type Severity uint8

const (
	// SevInfo is for informational diagnostics, such as skipped files.
	SevInfo Severity = iota
	// SevError is for regular, reportable rule violations.
	SevError
	// SevFatal marks a structural error that aborted processing of a document.
	SevFatal
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevError:
		return "ERROR"
	case SevFatal:
		return "FATAL"
	}
	return "UNKNOWN"
}
