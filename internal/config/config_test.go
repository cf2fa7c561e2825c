package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected defaults to validate, got %v", err)
	}
	vp := cfg.DesktopViewport()
	if vp.Width != 1920 || vp.Height != 1080 || vp.TaskbarHeight != 30 {
		t.Fatalf("unexpected default viewport %+v", vp)
	}
	opts := cfg.ManagerOptions()
	if opts.FocusBase != 1000 || opts.Limits.MinWidth != 300 || opts.Limits.MinHeight != 200 {
		t.Fatalf("unexpected manager options %+v", opts)
	}
	if title, ok := opts.Catalog.Title("calc"); !ok || title != "Calculator" {
		t.Fatalf("expected calc in catalog, got %q %v", title, ok)
	}
}

func TestLoadFromPath_MissingFileUsesDefaults(t *testing.T) {
	res, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(res.Files) != 0 {
		t.Fatalf("expected no files, got %v", res.Files)
	}
	if res.Config.Cascade.Step != 30 {
		t.Fatalf("expected default cascade step, got %d", res.Config.Cascade.Step)
	}
}

func TestLoadFromPath_EmptyFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "# empty\n")

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.ViewportSource != ViewportSourceConfig {
		t.Fatalf("expected viewport_source config, got %q", res.Config.ViewportSource)
	}
}

func TestLoadFromPath_PartialSectionsKeepDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := strings.Join([]string{
		"viewport:",
		"  width: 1280",
		"cascade:",
		"  step: 40",
		"windows:",
		"  - id: mail",
		"    title: Mail",
		"",
	}, "\n")
	writeFile(t, path, data)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := res.Config
	if cfg.Viewport.Width != 1280 || cfg.Viewport.Height != 1080 {
		t.Fatalf("expected 1280x1080, got %+v", cfg.Viewport)
	}
	if cfg.Cascade.Step != 40 || cfg.Cascade.Width != 850 {
		t.Fatalf("expected merged cascade, got %+v", cfg.Cascade)
	}
	if len(cfg.Windows) != 1 || cfg.Windows[0].ID != "mail" {
		t.Fatalf("expected windows to be replaced, got %+v", cfg.Windows)
	}

	val, src, err := Explain(res, "cascade.step")
	if err != nil {
		t.Fatalf("explain: %v", err)
	}
	if val != 40 {
		t.Fatalf("expected explain value 40, got %#v", val)
	}
	if src.Kind != SourceFile || src.Line != 4 {
		t.Fatalf("expected file source on line 4, got %#v", src)
	}

	val, src, err = Explain(res, "windows[0].title")
	if err != nil {
		t.Fatalf("explain window title: %v", err)
	}
	if val != "Mail" || src.Kind != SourceFile {
		t.Fatalf("unexpected windows[0].title %#v from %#v", val, src)
	}

	_, src, err = Explain(res, "min_width")
	if err != nil {
		t.Fatalf("explain min_width: %v", err)
	}
	if src.Kind != SourceDefault {
		t.Fatalf("expected default source, got %#v", src)
	}

	if _, _, err := Explain(res, "viewport.depth"); err == nil {
		t.Fatalf("expected unknown path error")
	}
}

func TestLoadFromPath_StrictUnknownKeyErrors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "unknown_key: 1\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "unknown_key") && !strings.Contains(err.Error(), "field") {
		t.Fatalf("expected unknown field error, got %v", err)
	}
	if !strings.Contains(err.Error(), path) {
		t.Fatalf("expected error to include file path, got %v", err)
	}
}

func TestLoadFromPath_ValidationErrorHasSourceContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "min_width: 100\nmin_height: 0\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if verr.Path != "min_height" {
		t.Fatalf("expected path min_height, got %q", verr.Path)
	}
	if verr.Source.Line != 2 {
		t.Fatalf("expected line 2, got %d", verr.Source.Line)
	}
	if !strings.Contains(err.Error(), ":2:") {
		t.Fatalf("expected file:line:col prefix, got %v", err)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := map[string]struct {
		mutate func(*Config)
		path   string
	}{
		"viewport source": {
			mutate: func(c *Config) { c.ViewportSource = "wayland" },
			path:   "viewport_source",
		},
		"taskbar too tall": {
			mutate: func(c *Config) { c.TaskbarHeight = 1080 },
			path:   "taskbar_height",
		},
		"cascade below minimum": {
			mutate: func(c *Config) { c.Cascade.Width = 200 },
			path:   "cascade",
		},
		"restore below minimum": {
			mutate: func(c *Config) { c.RestoreGeometry.Height = 100 },
			path:   "restore_geometry",
		},
		"duplicate window": {
			mutate: func(c *Config) { c.Windows = append(c.Windows, WindowEntry{ID: "calc", Title: "Again"}) },
			path:   "windows[4].id",
		},
		"missing title": {
			mutate: func(c *Config) { c.Windows[1].Title = " " },
			path:   "windows[1].title",
		},
		"no windows": {
			mutate: func(c *Config) { c.Windows = nil },
			path:   "windows",
		},
		"log level": {
			mutate: func(c *Config) { c.LogLevel = "loud" },
			path:   "log_level",
		},
		"chrome too wide": {
			mutate: func(c *Config) { c.Chrome.ButtonWidth = 120 },
			path:   "chrome",
		},
		"cell size": {
			mutate: func(c *Config) { c.TUI.CellWidth = 0 },
			path:   "tui",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Path != tt.path {
				t.Fatalf("expected path %q, got %q (%v)", tt.path, verr.Path, err)
			}
		})
	}
}

func TestLoadFromPath_IncludeDirectoryOrderAndMainOverrides(t *testing.T) {
	dir := t.TempDir()

	// config.d loaded first, in sorted order.
	configD := filepath.Join(dir, "config.d")
	if err := os.MkdirAll(configD, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeFile(t, filepath.Join(configD, "10-base.yaml"), "taskbar_height: 24\nfocus_base: 10\n")
	writeFile(t, filepath.Join(configD, "20-override.yaml"), "taskbar_height: 28\n")

	// Main file overrides includes.
	path := filepath.Join(dir, "config.yaml")
	main := strings.Join([]string{
		"include:",
		"  - config.d",
		"taskbar_height: 32",
		"",
	}, "\n")
	writeFile(t, path, main)

	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if res.Config.TaskbarHeight != 32 {
		t.Fatalf("expected taskbar_height 32, got %d", res.Config.TaskbarHeight)
	}
	if res.Config.FocusBase != 10 {
		t.Fatalf("expected focus_base from include, got %d", res.Config.FocusBase)
	}
	if len(res.Files) != 3 {
		t.Fatalf("expected 3 loaded files, got %v", res.Files)
	}
}

func TestLoadFromPath_IncludeMissingPathHasContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "include:\n  - missing.yaml\n")

	_, err := LoadFromPath(path)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "include") || !strings.Contains(err.Error(), "missing.yaml") {
		t.Fatalf("expected include error, got %v", err)
	}
}

func TestLoadFromPath_IncludeCycleDetection(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.yaml")
	b := filepath.Join(dir, "b.yaml")
	writeFile(t, a, "include: b.yaml\n")
	writeFile(t, b, "include: a.yaml\n")

	_, err := LoadFromPath(a)
	if err == nil {
		t.Fatalf("expected cycle error")
	}
	if !strings.Contains(err.Error(), "include cycle") {
		t.Fatalf("expected cycle error, got %v", err)
	}
}

func TestSaveTo_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := DefaultConfig()
	cfg.Viewport.Width = 1366
	cfg.Logging.Enabled = true

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	res, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("load saved config: %v", err)
	}
	if res.Config.Viewport.Width != 1366 || !res.Config.Logging.Enabled {
		t.Fatalf("saved values lost: %+v", res.Config)
	}
}

func TestSaveTo_RefusesInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.MinWidth = 0
	if err := cfg.SaveTo(path); err == nil {
		t.Fatalf("expected validation error")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected nothing written, stat err = %v", err)
	}
}

func TestGetLoggingConfig_Defaults(t *testing.T) {
	cfg := DefaultConfig()
	l := cfg.GetLoggingConfig()
	if l.MaxSizeMB != 10 || l.MaxFiles != 3 || l.Level != "info" {
		t.Fatalf("unexpected logging defaults %+v", l)
	}
	if !strings.HasSuffix(l.File, filepath.Join("deskwm", "actions.log")) {
		t.Fatalf("unexpected log file %q", l.File)
	}
	if cfg.ActionLogConfig().Enabled {
		t.Fatalf("action log should be disabled by default")
	}
}
