package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawCascade struct {
	Origin *int `yaml:"origin"`
	Step   *int `yaml:"step"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawRect struct {
	X      *int `yaml:"x"`
	Y      *int `yaml:"y"`
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawChrome struct {
	HeaderHeight *int `yaml:"header_height"`
	HandleSize   *int `yaml:"handle_size"`
	ButtonWidth  *int `yaml:"button_width"`
}

type RawLoggingConfig struct {
	Enabled   *bool   `yaml:"enabled"`
	Level     *string `yaml:"level"`
	File      *string `yaml:"file"`
	MaxSizeMB *int    `yaml:"max_size_mb"`
	MaxFiles  *int    `yaml:"max_files"`
}

type RawTUIConfig struct {
	CellWidth     *int `yaml:"cell_width"`
	CellHeight    *int `yaml:"cell_height"`
	DoubleClickMS *int `yaml:"double_click_ms"`
}

// RawConfig is one config file as written: every field is optional so files
// can be layered with include before defaults are applied.
type RawConfig struct {
	Include IncludeList `yaml:"include"`

	Display         *string           `yaml:"display"`
	Viewport        *RawViewport      `yaml:"viewport"`
	ViewportSource  *string           `yaml:"viewport_source"`
	TaskbarHeight   *int              `yaml:"taskbar_height"`
	MinWidth        *int              `yaml:"min_width"`
	MinHeight       *int              `yaml:"min_height"`
	FocusBase       *int              `yaml:"focus_base"`
	Cascade         *RawCascade       `yaml:"cascade"`
	RestoreGeometry *RawRect          `yaml:"restore_geometry"`
	Chrome          *RawChrome        `yaml:"chrome"`
	Windows         []WindowEntry     `yaml:"windows"`
	LogLevel        *string           `yaml:"log_level"`
	Logging         *RawLoggingConfig `yaml:"logging"`
	TUI             *RawTUIConfig     `yaml:"tui"`
}

// merge overlays the set fields of overlay onto c. Windows lists are replaced
// wholesale rather than appended.
func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c
	out.Include = nil

	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.Viewport != nil {
		if out.Viewport == nil {
			out.Viewport = &RawViewport{}
		}
		merged := *out.Viewport
		mergeInt(&merged.Width, overlay.Viewport.Width)
		mergeInt(&merged.Height, overlay.Viewport.Height)
		out.Viewport = &merged
	}
	if overlay.ViewportSource != nil {
		out.ViewportSource = overlay.ViewportSource
	}
	mergeInt(&out.TaskbarHeight, overlay.TaskbarHeight)
	mergeInt(&out.MinWidth, overlay.MinWidth)
	mergeInt(&out.MinHeight, overlay.MinHeight)
	mergeInt(&out.FocusBase, overlay.FocusBase)

	if overlay.Cascade != nil {
		if out.Cascade == nil {
			out.Cascade = &RawCascade{}
		}
		merged := *out.Cascade
		mergeInt(&merged.Origin, overlay.Cascade.Origin)
		mergeInt(&merged.Step, overlay.Cascade.Step)
		mergeInt(&merged.Width, overlay.Cascade.Width)
		mergeInt(&merged.Height, overlay.Cascade.Height)
		out.Cascade = &merged
	}
	if overlay.RestoreGeometry != nil {
		if out.RestoreGeometry == nil {
			out.RestoreGeometry = &RawRect{}
		}
		merged := *out.RestoreGeometry
		mergeInt(&merged.X, overlay.RestoreGeometry.X)
		mergeInt(&merged.Y, overlay.RestoreGeometry.Y)
		mergeInt(&merged.Width, overlay.RestoreGeometry.Width)
		mergeInt(&merged.Height, overlay.RestoreGeometry.Height)
		out.RestoreGeometry = &merged
	}
	if overlay.Chrome != nil {
		if out.Chrome == nil {
			out.Chrome = &RawChrome{}
		}
		merged := *out.Chrome
		mergeInt(&merged.HeaderHeight, overlay.Chrome.HeaderHeight)
		mergeInt(&merged.HandleSize, overlay.Chrome.HandleSize)
		mergeInt(&merged.ButtonWidth, overlay.Chrome.ButtonWidth)
		out.Chrome = &merged
	}
	if overlay.Windows != nil {
		out.Windows = append([]WindowEntry(nil), overlay.Windows...)
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}

	if overlay.Logging != nil {
		if out.Logging == nil {
			out.Logging = &RawLoggingConfig{}
		}
		merged := *out.Logging
		if overlay.Logging.Enabled != nil {
			merged.Enabled = overlay.Logging.Enabled
		}
		if overlay.Logging.Level != nil {
			merged.Level = overlay.Logging.Level
		}
		if overlay.Logging.File != nil {
			merged.File = overlay.Logging.File
		}
		mergeInt(&merged.MaxSizeMB, overlay.Logging.MaxSizeMB)
		mergeInt(&merged.MaxFiles, overlay.Logging.MaxFiles)
		out.Logging = &merged
	}

	if overlay.TUI != nil {
		if out.TUI == nil {
			out.TUI = &RawTUIConfig{}
		}
		merged := *out.TUI
		mergeInt(&merged.CellWidth, overlay.TUI.CellWidth)
		mergeInt(&merged.CellHeight, overlay.TUI.CellHeight)
		mergeInt(&merged.DoubleClickMS, overlay.TUI.DoubleClickMS)
		out.TUI = &merged
	}

	return out
}

func mergeInt(dst **int, overlay *int) {
	if overlay != nil {
		*dst = overlay
	}
}
