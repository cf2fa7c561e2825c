// Package tui runs the desktop inside a terminal. Each character cell is one
// desktop unit, the mouse drives the pointer dispatcher and the taskbar sits on
// the last row.
package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/config"
)

// Run starts the terminal desktop and blocks until the user quits.
func Run(cfg *config.Config) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		cols, rows = 80, 24
	}

	actions, err := actionlog.New(cfg.ActionLogConfig())
	if err != nil {
		return fmt.Errorf("failed to open action log: %w", err)
	}
	defer actions.Close()

	p := tea.NewProgram(newModel(cfg, cols, rows, actions), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
