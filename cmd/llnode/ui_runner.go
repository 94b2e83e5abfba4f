package main

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"llnode/internal/driver"
	"llnode/internal/ir"
	"llnode/internal/ui"
)

type buildOutcome struct {
	result *driver.Result
	err    error
}

// runBuildWithUI runs driver.Build while a progress view renders to out.
func runBuildWithUI(ctx context.Context, out io.Writer, m *ir.Module, opts driver.Options) (*driver.Result, error) {
	defs := m.Definitions()
	names := make([]string, len(defs))
	for i, fn := range defs {
		names[i] = fn.Name
	}

	events := make(chan driver.Event, 256)
	outcomeCh := make(chan buildOutcome, 1)
	go func() {
		opts.Progress = driver.ChannelSink{Ch: events}
		res, err := driver.Build(ctx, m, opts)
		outcomeCh <- buildOutcome{result: res, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(m.Name, names, events)
	program := tea.NewProgram(model, tea.WithOutput(out), tea.WithInput(nil))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil && outcome.err == nil {
		return outcome.result, uiErr
	}
	return outcome.result, outcome.err
}
