package config

import (
	"fmt"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// BuildEffectiveConfig applies the set fields of raw on top of DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.Viewport != nil {
		cfg.Viewport.Width = derefInt(raw.Viewport.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(raw.Viewport.Height, cfg.Viewport.Height)
	}
	if raw.ViewportSource != nil {
		cfg.ViewportSource = *raw.ViewportSource
	}
	cfg.TaskbarHeight = derefInt(raw.TaskbarHeight, cfg.TaskbarHeight)
	cfg.MinWidth = derefInt(raw.MinWidth, cfg.MinWidth)
	cfg.MinHeight = derefInt(raw.MinHeight, cfg.MinHeight)
	cfg.FocusBase = derefInt(raw.FocusBase, cfg.FocusBase)

	if raw.Cascade != nil {
		cfg.Cascade.Origin = derefInt(raw.Cascade.Origin, cfg.Cascade.Origin)
		cfg.Cascade.Step = derefInt(raw.Cascade.Step, cfg.Cascade.Step)
		cfg.Cascade.Width = derefInt(raw.Cascade.Width, cfg.Cascade.Width)
		cfg.Cascade.Height = derefInt(raw.Cascade.Height, cfg.Cascade.Height)
	}
	if raw.RestoreGeometry != nil {
		cfg.RestoreGeometry.X = derefInt(raw.RestoreGeometry.X, cfg.RestoreGeometry.X)
		cfg.RestoreGeometry.Y = derefInt(raw.RestoreGeometry.Y, cfg.RestoreGeometry.Y)
		cfg.RestoreGeometry.Width = derefInt(raw.RestoreGeometry.Width, cfg.RestoreGeometry.Width)
		cfg.RestoreGeometry.Height = derefInt(raw.RestoreGeometry.Height, cfg.RestoreGeometry.Height)
	}
	if raw.Chrome != nil {
		cfg.Chrome.HeaderHeight = derefInt(raw.Chrome.HeaderHeight, cfg.Chrome.HeaderHeight)
		cfg.Chrome.HandleSize = derefInt(raw.Chrome.HandleSize, cfg.Chrome.HandleSize)
		cfg.Chrome.ButtonWidth = derefInt(raw.Chrome.ButtonWidth, cfg.Chrome.ButtonWidth)
	}
	if raw.Windows != nil {
		cfg.Windows = append([]WindowEntry(nil), raw.Windows...)
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = *raw.LogLevel
	}

	if raw.Logging != nil {
		if raw.Logging.Enabled != nil {
			cfg.Logging.Enabled = *raw.Logging.Enabled
		}
		if raw.Logging.Level != nil {
			cfg.Logging.Level = *raw.Logging.Level
		}
		if raw.Logging.File != nil {
			cfg.Logging.File = *raw.Logging.File
		}
		cfg.Logging.MaxSizeMB = derefInt(raw.Logging.MaxSizeMB, cfg.Logging.MaxSizeMB)
		cfg.Logging.MaxFiles = derefInt(raw.Logging.MaxFiles, cfg.Logging.MaxFiles)
	}

	if raw.TUI != nil {
		cfg.TUI.CellWidth = derefInt(raw.TUI.CellWidth, cfg.TUI.CellWidth)
		cfg.TUI.CellHeight = derefInt(raw.TUI.CellHeight, cfg.TUI.CellHeight)
		cfg.TUI.DoubleClickMS = derefInt(raw.TUI.DoubleClickMS, cfg.TUI.DoubleClickMS)
	}

	return cfg, nil
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
