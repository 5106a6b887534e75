package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"cutesy/internal/driver"
	"cutesy/internal/ui"
)

type lintOutcome struct {
	results []driver.FileResult
	err     error
}

// runLintWithUI lints files while a progress view consumes the driver's
// events. The view quits when the run closes the event channel.
func runLintWithUI(ctx context.Context, out io.Writer, title string, files []string, opts driver.LintOptions) ([]driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintFiles(ctx, files, opts)
		outcomeCh <- lintOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	if uiErr != nil {
		// Keep the workers unblocked once nobody reads events.
		go func() {
			for range events {
			}
		}()
	}
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
