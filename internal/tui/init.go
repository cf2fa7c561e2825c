package tui

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/deskwm/internal/config"
)

// ErrInitAborted is returned when the user declines to overwrite an existing
// config file.
var ErrInitAborted = errors.New("config init aborted")

// initValues holds the wizard's answers as the form edits them.
type initValues struct {
	width         string
	height        string
	source        string
	taskbarHeight string
	logLevel      string
	windows       []string
	overwrite     bool
}

func newInitValues(cfg *config.Config) initValues {
	ids := make([]string, 0, len(cfg.Windows))
	for _, w := range cfg.Windows {
		ids = append(ids, w.ID)
	}
	return initValues{
		width:         strconv.Itoa(cfg.Viewport.Width),
		height:        strconv.Itoa(cfg.Viewport.Height),
		source:        cfg.ViewportSource,
		taskbarHeight: strconv.Itoa(cfg.TaskbarHeight),
		logLevel:      cfg.LogLevel,
		windows:       ids,
	}
}

func positiveInt(s string) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if v <= 0 {
		return fmt.Errorf("must be > 0")
	}
	return nil
}

// apply copies the answers onto cfg, keeping the catalog in its original
// order, and validates the result.
func (v initValues) apply(cfg *config.Config) error {
	var err error
	if cfg.Viewport.Width, err = strconv.Atoi(v.width); err != nil {
		return &config.ValidationError{Path: "viewport.width", Err: err}
	}
	if cfg.Viewport.Height, err = strconv.Atoi(v.height); err != nil {
		return &config.ValidationError{Path: "viewport.height", Err: err}
	}
	if cfg.TaskbarHeight, err = strconv.Atoi(v.taskbarHeight); err != nil {
		return &config.ValidationError{Path: "taskbar_height", Err: err}
	}
	cfg.ViewportSource = v.source
	cfg.LogLevel = v.logLevel

	keep := make(map[string]bool, len(v.windows))
	for _, id := range v.windows {
		keep[id] = true
	}
	windows := cfg.Windows[:0:0]
	for _, w := range cfg.Windows {
		if keep[w.ID] {
			windows = append(windows, w)
		}
	}
	cfg.Windows = windows

	return cfg.Validate()
}

func (v *initValues) form(cfg *config.Config, exists bool) *huh.Form {
	windowOpts := make([]huh.Option[string], 0, len(cfg.Windows))
	for _, w := range cfg.Windows {
		windowOpts = append(windowOpts, huh.NewOption(w.Title, w.ID).Selected(true))
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("viewport_source").
				Title("Viewport Source").
				Description("Where the desktop size comes from").
				Options(
					huh.NewOption("config", config.ViewportSourceConfig),
					huh.NewOption("x11 (primary monitor)", config.ViewportSourceX11),
				).
				Value(&v.source),
			huh.NewInput().
				Key("viewport_width").
				Title("Viewport Width").
				Description("Desktop width in pixels").
				Validate(positiveInt).
				Value(&v.width),
			huh.NewInput().
				Key("viewport_height").
				Title("Viewport Height").
				Description("Desktop height in pixels, taskbar included").
				Validate(positiveInt).
				Value(&v.height),
			huh.NewInput().
				Key("taskbar_height").
				Title("Taskbar Height").
				Description("Pixels reserved at the bottom for the taskbar").
				Validate(positiveInt).
				Value(&v.taskbarHeight),
		),
		huh.NewGroup(
			huh.NewMultiSelect[string]().
				Key("windows").
				Title("Desktop Icons").
				Description("Windows that can be opened from the desktop").
				Options(windowOpts...).
				Validate(func(ids []string) error {
					if len(ids) == 0 {
						return fmt.Errorf("select at least one window")
					}
					return nil
				}).
				Value(&v.windows),
			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warning", "warning"),
					huh.NewOption("error", "error"),
				).
				Value(&v.logLevel),
		),
	}
	if exists {
		groups = append(groups, huh.NewGroup(
			huh.NewConfirm().
				Key("overwrite").
				Title("Overwrite existing config?").
				Affirmative("Overwrite").
				Negative("Cancel").
				Value(&v.overwrite),
		))
	}

	return huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
}

// RunInit asks for the basic settings and writes a new config file to path.
func RunInit(path string) error {
	cfg := config.DefaultConfig()
	_, statErr := os.Stat(path)
	exists := statErr == nil

	values := newInitValues(cfg)
	if err := values.form(cfg, exists).Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrInitAborted
		}
		return err
	}
	if exists && !values.overwrite {
		return ErrInitAborted
	}

	if err := values.apply(cfg); err != nil {
		return err
	}
	return cfg.SaveTo(path)
}
