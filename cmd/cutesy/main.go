package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cutesy/internal/version"
)

// Exit codes.
const (
	exitOK       = 0
	exitProblems = 1
	exitUsage    = 2
)

// exitError ends a run with a status code after output was written.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cutesy [flags] PATTERN...",
		Short: "Lint (and optionally fix & format) HTML files",
		Long: `cutesy lints HTML documents, optionally with Django template instructions,
and rewrites them into canonical form with --fix.

PATTERN is a file, a directory (searched for *.html and *.htm) or a glob where
"**" matches any number of directories. With --code, PATTERN is the document.

Settings are read from the first of cutesy.toml, pyproject.toml ([tool.cutesy])
and setup.cfg ([cutesy]) found from the working directory upward. Flags given on
the command line override them.`,
		Args:          cobra.MinimumNArgs(1),
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)
	rootCmd.SetVersionTemplate(versionTemplate())

	flags := rootCmd.Flags()
	flags.Bool("code", false, "process the code passed in as a string, instead of searching PATTERN")
	flags.Bool("fix", false, "automatically fix problems when possible")
	flags.Bool("return-zero", false, "always exit with 0, even if unfixed problems remain")
	flags.Bool("quiet", false, "don't print individual problems")
	flags.Bool("check-doctype", false, "process files with non-HTML5 doctypes instead of skipping them")
	flags.String("extra", "", `extras to enable: django, tailwind (JSON array or comma separated; "[]" for none)`)
	flags.Bool("preserve-attr-whitespace", false, "disable the default whitespace and reindent attribute processors")
	flags.String("ignore", "", "rule codes or categories to ignore, e.g. F3,E")
	flags.String("indent", "tab", "indentation unit (tab|spaces)")
	flags.Int("tab-width", 4, "spaces per indentation level, and the width of a tab")
	flags.Int("line-length", 99, "line width above which tag attributes wrap")
	flags.Int("max-items", 5, "attributes kept on one line")
	flags.String("format", "text", "output format (text|json|sarif)")
	flags.String("path-mode", "auto", "how file paths are shown (auto|relative|absolute|basename)")
	flags.Int("jobs", 0, "max parallel workers (0=auto)")
	flags.String("ui", "auto", "show a progress view (auto|on|off)")
	flags.Bool("no-cache", false, "don't read or write the result cache")
	flags.Bool("clear-cache", false, "drop cached results before running")
	flags.Bool("timings", false, "print phase timings to stderr")
	flags.String("color", "auto", "colorize output (auto|on|off)")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})
	return rootCmd
}

// usageError marks errors caused by invalid flags or settings.
type usageError struct {
	err error
}

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

// execute runs the command line and returns the process exit code.
func execute(args []string, stdout, stderr io.Writer) int {
	rootCmd := newRootCmd(stdout, stderr)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return exitOK
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	fmt.Fprintf(stderr, "cutesy: %v\n", err)
	var usage usageError
	if errors.As(err, &usage) {
		fmt.Fprintf(stderr, "Run 'cutesy --help' for usage.\n")
	}
	return exitUsage
}

// main runs the command line and exits with its status: 1 when problems
// remain, 2 on usage or configuration errors.
func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
