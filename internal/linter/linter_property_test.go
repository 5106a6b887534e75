package linter_test

import (
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"cutesy/internal/diag"
	"cutesy/internal/linter"
)

var trailingSpace = regexp.MustCompile(`[ \t]+\n`)

func fragments() gopter.Gen {
	return gen.SliceOf(gen.OneConstOf(
		"<div>", "</div>", "<p>", "</p>", "text", " ", "\n", "\n\n", "\t",
		"<br>", "&amp;", `<span class="a  b">`, "</span>", "<!-- c -->",
	))
}

func TestFixProperties(t *testing.T) {
	properties := gopter.NewProperties(nil)
	fixer := linter.New(linter.WithFix(true))
	checker := linter.New()

	properties.Property("fixing twice changes nothing", prop.ForAll(
		func(parts []string) bool {
			text := strings.Join(parts, "")
			once, err := fixer.Lint(context.Background(), text)
			if err != nil {
				_, ok := diag.AsStructural(err)
				return ok
			}
			twice, err := fixer.Lint(context.Background(), once.Output)
			return err == nil && twice.Output == once.Output
		},
		fragments(),
	))

	properties.Property("fixed output has no trailing whitespace", prop.ForAll(
		func(parts []string) bool {
			res, err := fixer.Lint(context.Background(), strings.Join(parts, ""))
			if err != nil {
				return true
			}
			return !trailingSpace.MatchString(res.Output)
		},
		fragments(),
	))

	properties.Property("checking leaves the document alone", prop.ForAll(
		func(parts []string) bool {
			text := strings.Join(parts, "")
			res, err := checker.Lint(context.Background(), text)
			return err == nil && res.Output == text
		},
		fragments(),
	))

	properties.TestingRun(t)
}
