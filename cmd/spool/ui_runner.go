package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"spool/internal/driver"
	"spool/internal/ui"
)

type compileOutcome struct {
	out *driver.Output
	err error
}

// runCompileWithUI compiles in the background and renders its progress
// events until the driver finishes.
func runCompileWithUI(ctx context.Context, w io.Writer, title string, files []string, paths []string, opts driver.Options) (*driver.Output, error) {
	events := make(chan driver.Event, 256)
	outcomeCh := make(chan compileOutcome, 1)

	go func() {
		o := opts
		o.Progress = driver.ChannelSink{Ch: events}
		out, err := driver.Compile(ctx, paths, o)
		close(events)
		outcomeCh <- compileOutcome{out: out, err: err}
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(w), tea.WithContext(ctx))
	_, uiErr := program.Run()
	// the view may quit early (ctrl+c); keep the sink from blocking
	go func() {
		for range events {
		}
	}()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil && ctx.Err() == nil {
		return outcome.out, uiErr
	}
	return outcome.out, outcome.err
}
