package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ymport/internal/shared"
	"github.com/desertthunder/ymport/internal/tasks"
	"github.com/desertthunder/ymport/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for playlist imports.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.youtube == nil {
		return fmt.Errorf("%w: YouTube Music service not initialized", shared.ErrServiceUnavailable)
	}

	sourceFile := cmd.String("file")

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/ymport-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	engine := tasks.NewImportEngine(r.youtube, r.configOpts(), fileLogger)

	model := ui.NewModel(ctx, sourceFile, engine)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
