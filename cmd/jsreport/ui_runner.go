package main

import (
	"context"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"jsreport/internal/driver"
	"jsreport/internal/source"
	"jsreport/internal/ui"
)

type lintOutcome struct {
	results []*driver.FileResult
	err     error
}

// runLintWithUI lints files while a progress view renders driver events.
func runLintWithUI(ctx context.Context, title string, fs *source.FileSet, files []string, opts driver.Options) ([]*driver.FileResult, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan lintOutcome, 1)

	go func() {
		withUI := opts
		withUI.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.LintFiles(ctx, fs, files, withUI)
		outcomeCh <- lintOutcome{results: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stderr))
	_, uiErr := program.Run()
	// the view may quit early; keep the workers from blocking on a full channel
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}
