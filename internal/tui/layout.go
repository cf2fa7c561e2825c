package tui

import (
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

// The terminal desktop runs the window manager in character cells. Pixel
// settings from the config are divided by the configured cell size.

const taskbarRows = 1

// cellChrome puts the top border on row 0 and the title bar on row 1, so the
// north handle and the header are both reachable.
var cellChrome = hittest.Chrome{HeaderHeight: 2, HandleSize: 1, ButtonWidth: 3}

func cellLayout() pointer.Layout {
	return pointer.Layout{
		Chrome:  cellChrome,
		Taskbar: hittest.TaskbarLayout{StartWidth: 0, EntryWidth: 16, ClockWidth: 7},
		Icons:   hittest.IconLayout{Origin: geometry.Point{X: 2, Y: 1}, Width: 10, Height: 4, Spacing: 1},
	}
}

func cellViewport(cols, rows int) geometry.Viewport {
	return geometry.Viewport{Width: cols, Height: rows, TaskbarHeight: taskbarRows}
}

// toCells divides a pixel length by the cell size, never returning less than one.
func toCells(px, unit int) int {
	if unit <= 0 {
		return px
	}
	n := px / unit
	if n < 1 {
		return 1
	}
	return n
}

// cellOptions maps the pixel configuration onto a cell sized desktop. The
// cascade uses the row height for both axes so new windows step diagonally
// by whole rows.
func cellOptions(cfg *config.Config, cols, rows int) wm.Options {
	cw, ch := cfg.TUI.CellWidth, cfg.TUI.CellHeight

	opts := cfg.ManagerOptions()
	opts.Viewport = cellViewport(cols, rows)
	opts.Limits = geometry.Limits{
		MinWidth:  toCells(cfg.MinWidth, cw),
		MinHeight: toCells(cfg.MinHeight, ch),
	}
	opts.Cascade = geometry.CascadeRule{
		Origin: toCells(cfg.Cascade.Origin, ch),
		Step:   toCells(cfg.Cascade.Step, ch),
		Width:  toCells(cfg.Cascade.Width, cw),
		Height: toCells(cfg.Cascade.Height, ch),
	}
	opts.RestoreGeometry = geometry.Rect{
		X:      cfg.RestoreGeometry.X / max(cw, 1),
		Y:      cfg.RestoreGeometry.Y / max(ch, 1),
		Width:  toCells(cfg.RestoreGeometry.Width, cw),
		Height: toCells(cfg.RestoreGeometry.Height, ch),
	}
	return opts
}
