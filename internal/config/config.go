package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/hittest"
	"github.com/1broseidon/deskwm/internal/wm"
)

// Viewport sources.
const (
	ViewportSourceConfig = "config"
	ViewportSourceX11    = "x11"
)

// ViewportConfig is the configured desktop size in pixels.
type ViewportConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// WindowEntry describes a launchable window shown as a desktop icon.
type WindowEntry struct {
	ID    string `yaml:"id"`
	Title string `yaml:"title"`
	Icon  string `yaml:"icon,omitempty"`
}

// LoggingConfig configures the desktop action log.
type LoggingConfig struct {
	// Enabled turns action logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/deskwm/actions.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// TUIConfig configures the terminal front end. One character cell stands for
// CellWidth x CellHeight desktop pixels.
type TUIConfig struct {
	CellWidth     int `yaml:"cell_width"`
	CellHeight    int `yaml:"cell_height"`
	DoubleClickMS int `yaml:"double_click_ms"`
}

// Config holds the application configuration.
type Config struct {
	Display         string               `yaml:"display,omitempty"`
	Viewport        ViewportConfig       `yaml:"viewport"`
	ViewportSource  string               `yaml:"viewport_source"`
	TaskbarHeight   int                  `yaml:"taskbar_height"`
	MinWidth        int                  `yaml:"min_width"`
	MinHeight       int                  `yaml:"min_height"`
	FocusBase       int                  `yaml:"focus_base"`
	Cascade         geometry.CascadeRule `yaml:"cascade"`
	RestoreGeometry geometry.Rect        `yaml:"restore_geometry"`
	Chrome          hittest.Chrome       `yaml:"chrome"`
	Windows         []WindowEntry        `yaml:"windows"`
	LogLevel        string               `yaml:"log_level"`
	Logging         LoggingConfig        `yaml:"logging,omitempty"`
	TUI             TUIConfig            `yaml:"tui"`
}

func DefaultConfig() *Config {
	return &Config{
		Viewport:        ViewportConfig{Width: 1920, Height: 1080},
		ViewportSource:  ViewportSourceConfig,
		TaskbarHeight:   geometry.DefaultTaskbarHeight,
		MinWidth:        geometry.DefaultMinWidth,
		MinHeight:       geometry.DefaultMinHeight,
		FocusBase:       1000,
		Cascade:         geometry.DefaultCascade(),
		RestoreGeometry: geometry.Rect{X: 50, Y: 50, Width: 600, Height: 400},
		Chrome:          hittest.DefaultChrome(),
		Windows: []WindowEntry{
			{ID: "calc", Title: "Calculator", Icon: "🧮"},
			{ID: "notes", Title: "Notes", Icon: "📝"},
			{ID: "terminal", Title: "Terminal", Icon: "💻"},
			{ID: "files", Title: "Files", Icon: "📁"},
		},
		LogLevel: "info",
		TUI: TUIConfig{
			CellWidth:     10,
			CellHeight:    20,
			DoubleClickMS: 400,
		},
	}
}

// DesktopViewport returns the configured viewport including the taskbar strip.
func (c *Config) DesktopViewport() geometry.Viewport {
	return geometry.Viewport{
		Width:         c.Viewport.Width,
		Height:        c.Viewport.Height,
		TaskbarHeight: c.TaskbarHeight,
	}
}

// Catalog returns the launchable windows in configuration order.
func (c *Config) Catalog() wm.StaticCatalog {
	out := make(wm.StaticCatalog, 0, len(c.Windows))
	for _, w := range c.Windows {
		out = append(out, wm.CatalogEntry{ID: w.ID, Title: w.Title, Icon: w.Icon})
	}
	return out
}

// ManagerOptions maps the configuration onto window manager options. The
// caller fills in collaborators and loggers.
func (c *Config) ManagerOptions() wm.Options {
	return wm.Options{
		Viewport:        c.DesktopViewport(),
		Limits:          geometry.Limits{MinWidth: c.MinWidth, MinHeight: c.MinHeight},
		Cascade:         c.Cascade,
		RestoreGeometry: c.RestoreGeometry,
		FocusBase:       c.FocusBase,
		Catalog:         c.Catalog(),
	}
}

// DoubleClick returns the icon double activation interval.
func (c *Config) DoubleClick() time.Duration {
	return time.Duration(c.TUI.DoubleClickMS) * time.Millisecond
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() LoggingConfig {
	if c == nil {
		return LoggingConfig{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/deskwm/actions.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// ActionLogConfig converts the logging section for actionlog.New.
func (c *Config) ActionLogConfig() actionlog.Config {
	l := c.GetLoggingConfig()
	return actionlog.Config{
		Enabled:   l.Enabled,
		Level:     actionlog.ParseLevel(l.Level),
		FilePath:  l.File,
		MaxSizeMB: l.MaxSizeMB,
		MaxFiles:  l.MaxFiles,
	}
}

// Save writes the configuration to the standard location.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save() error {
	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width <= 0 {
		return &ValidationError{Path: "viewport.width", Err: fmt.Errorf("width must be > 0")}
	}
	if c.Viewport.Height <= 0 {
		return &ValidationError{Path: "viewport.height", Err: fmt.Errorf("height must be > 0")}
	}
	switch c.ViewportSource {
	case ViewportSourceConfig, ViewportSourceX11:
	default:
		return &ValidationError{Path: "viewport_source", Err: fmt.Errorf("viewport_source must be one of: config, x11")}
	}
	if c.TaskbarHeight < 0 || c.TaskbarHeight >= c.Viewport.Height {
		return &ValidationError{Path: "taskbar_height", Err: fmt.Errorf("taskbar_height must be >= 0 and below the viewport height")}
	}
	if c.MinWidth <= 0 {
		return &ValidationError{Path: "min_width", Err: fmt.Errorf("min_width must be > 0")}
	}
	if c.MinHeight <= 0 {
		return &ValidationError{Path: "min_height", Err: fmt.Errorf("min_height must be > 0")}
	}
	if c.FocusBase < 0 {
		return &ValidationError{Path: "focus_base", Err: fmt.Errorf("focus_base must be >= 0")}
	}
	if c.Cascade.Width < c.MinWidth || c.Cascade.Height < c.MinHeight {
		return &ValidationError{Path: "cascade", Err: fmt.Errorf("cascade size must be at least %dx%d", c.MinWidth, c.MinHeight)}
	}
	if c.Cascade.Origin < 0 || c.Cascade.Step < 0 {
		return &ValidationError{Path: "cascade", Err: fmt.Errorf("cascade origin and step must be >= 0")}
	}
	if c.RestoreGeometry.Width < c.MinWidth || c.RestoreGeometry.Height < c.MinHeight {
		return &ValidationError{Path: "restore_geometry", Err: fmt.Errorf("restore_geometry size must be at least %dx%d", c.MinWidth, c.MinHeight)}
	}
	if c.Chrome.HeaderHeight <= 0 || c.Chrome.HandleSize < 0 || c.Chrome.ButtonWidth < 0 {
		return &ValidationError{Path: "chrome", Err: fmt.Errorf("chrome header_height must be > 0, handle_size and button_width >= 0")}
	}
	if 2*c.Chrome.HandleSize+3*c.Chrome.ButtonWidth > c.MinWidth {
		return &ValidationError{Path: "chrome", Err: fmt.Errorf("handles and buttons do not fit in min_width %d", c.MinWidth)}
	}
	if len(c.Windows) == 0 {
		return &ValidationError{Path: "windows", Err: fmt.Errorf("windows must not be empty")}
	}
	seen := make(map[string]struct{}, len(c.Windows))
	for i, w := range c.Windows {
		if strings.TrimSpace(w.ID) == "" {
			return &ValidationError{Path: fmt.Sprintf("windows[%d].id", i), Err: fmt.Errorf("id is required")}
		}
		if _, dup := seen[w.ID]; dup {
			return &ValidationError{Path: fmt.Sprintf("windows[%d].id", i), Err: fmt.Errorf("duplicate window id %q", w.ID)}
		}
		seen[w.ID] = struct{}{}
		if strings.TrimSpace(w.Title) == "" {
			return &ValidationError{Path: fmt.Sprintf("windows[%d].title", i), Err: fmt.Errorf("title is required")}
		}
	}
	if c.LogLevel != "debug" && c.LogLevel != "info" && c.LogLevel != "warning" && c.LogLevel != "error" {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Logging.MaxSizeMB < 0 || c.Logging.MaxFiles < 0 {
		return &ValidationError{Path: "logging", Err: fmt.Errorf("max_size_mb and max_files must be >= 0")}
	}
	if c.TUI.CellWidth <= 0 || c.TUI.CellHeight <= 0 {
		return &ValidationError{Path: "tui", Err: fmt.Errorf("cell_width and cell_height must be > 0")}
	}
	if c.TUI.DoubleClickMS <= 0 {
		return &ValidationError{Path: "tui.double_click_ms", Err: fmt.Errorf("double_click_ms must be > 0")}
	}
	return nil
}
