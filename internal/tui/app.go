package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbletea"

	"github.com/1broseidon/deskwm/internal/actionlog"
	"github.com/1broseidon/deskwm/internal/config"
	"github.com/1broseidon/deskwm/internal/geometry"
	"github.com/1broseidon/deskwm/internal/pointer"
	"github.com/1broseidon/deskwm/internal/wm"
)

type keyMap struct {
	Quit     key.Binding
	Cancel   key.Binding
	Cycle    key.Binding
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Open     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel drag")),
		Cycle:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next window")),
		Close:    key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "close")),
		Minimize: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimize")),
		Maximize: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "maximize")),
		Open:     key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "open")),
	}
}

func (k keyMap) shortHelp() []key.Binding {
	return []key.Binding{k.Open, k.Cycle, k.Close, k.Minimize, k.Maximize, k.Quit}
}

func helpLine(bindings []key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the root bubbletea model of the terminal desktop.
type model struct {
	desktop *wm.Manager
	pointer *pointer.Dispatcher
	layout  pointer.Layout
	keys    keyMap

	clock    time.Time
	selected string
	status   string

	width  int
	height int
}

func newModel(cfg *config.Config, cols, rows int, actions *actionlog.Logger) model {
	opts := cellOptions(cfg, cols, rows)
	opts.Actions = actions
	desktop := wm.NewManager(opts)
	layout := cellLayout()

	return model{
		desktop: desktop,
		pointer: pointer.NewDispatcher(desktop, layout, cfg.DoubleClick()),
		layout:  layout,
		keys:    defaultKeyMap(),
		clock:   time.Now(),
		width:   cols,
		height:  rows,
	}
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return tick()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width > 0 && m.height > taskbarRows {
			m.desktop.SetViewport(cellViewport(m.width, m.height))
		}
		return m, nil

	case tickMsg:
		m.clock = time.Time(msg)
		return m, tick()

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.desktop.ActiveID()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Cancel):
		if m.pointer.Escape() {
			m.status = "gesture cancelled"
		}
	case key.Matches(msg, m.keys.Cycle):
		m.cycleFocus()
	case key.Matches(msg, m.keys.Close):
		if active != "" {
			m.desktop.Close(active)
			m.status = "closed " + active
		}
	case key.Matches(msg, m.keys.Minimize):
		if active != "" {
			m.desktop.Minimize(active)
			m.status = "minimized " + active
		}
	case key.Matches(msg, m.keys.Maximize):
		if active != "" {
			m.desktop.Maximize(active)
			m.status = "toggled " + active
		}
	case key.Matches(msg, m.keys.Open):
		n, _ := strconv.Atoi(msg.String())
		catalog := m.desktop.Catalog()
		if n >= 1 && n <= len(catalog) {
			id := catalog[n-1].ID
			if err := m.desktop.Open(id); err != nil {
				m.status = err.Error()
			} else {
				m.selected = id
				m.status = "opened " + id
			}
		}
	}
	return m, nil
}

// cycleFocus brings the bottom most visible window to the front.
func (m *model) cycleFocus() {
	visible := m.desktop.Snapshot().Visible()
	if len(visible) < 2 {
		return
	}
	next := visible[0]
	m.desktop.Focus(next.ID)
	m.status = "focused " + next.ID
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	p := geometry.Point{X: msg.X, Y: msg.Y}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return
		}
		out, err := m.pointer.Down(p)
		if err != nil {
			m.status = err.Error()
			return
		}
		m.applyOutcome(out)
	case tea.MouseActionMotion:
		m.pointer.Move(p)
	case tea.MouseActionRelease:
		m.pointer.Up()
	}
}

func (m *model) applyOutcome(out pointer.Outcome) {
	switch out.Action {
	case pointer.ActionNone:
		m.selected = ""
		return
	case pointer.ActionSelect, pointer.ActionOpen:
		m.selected = out.WindowID
	}
	if out.Action == pointer.ActionResize {
		m.status = fmt.Sprintf("resize %s %s", out.WindowID, out.Edge)
		return
	}
	m.status = string(out.Action) + " " + out.WindowID
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height <= taskbarRows {
		return ""
	}
	return m.frame().render()
}

func (m model) frame() *canvas {
	hint := m.status
	if hint == "" {
		hint = helpLine(m.keys.shortHelp())
	}
	return paint(scene{
		snap:     m.desktop.Snapshot(),
		catalog:  m.desktop.Catalog(),
		layout:   m.layout,
		selected: m.selected,
		clock:    m.clock,
		hint:     hint,
	})
}
