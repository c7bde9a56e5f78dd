package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"wingstl/internal/buildpipeline"
	"wingstl/internal/ui"
)

type generateOutcome struct {
	result buildpipeline.Result
	err    error
}

// runGenerateWithUI runs the pipeline in the background while the progress
// view consumes its events.
func runGenerateWithUI(ctx context.Context, out io.Writer, title string, req *buildpipeline.Request) (buildpipeline.Result, error) {
	events := make(chan buildpipeline.Event, 256)
	outcomeCh := make(chan generateOutcome, 1)

	go func() {
		reqCopy := *req
		reqCopy.Progress = buildpipeline.ChannelSink{Ch: events}
		res, err := buildpipeline.Generate(ctx, &reqCopy)
		close(events)
		outcomeCh <- generateOutcome{result: res, err: err}
	}()

	program := tea.NewProgram(ui.NewProgressModel(title, events), tea.WithOutput(out), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early; keep draining so the pipeline never blocks
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if outcome.err != nil {
		return outcome.result, outcome.err
	}
	return outcome.result, uiErr
}
