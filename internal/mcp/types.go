package mcp

// EmptyInput is the input for tools that take no arguments.
type EmptyInput struct{}

// WindowInput targets one window from the catalog.
type WindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Window id from list_windows (e.g. calc, notes)"`
}

// DragWindowInput is the input for the drag_window tool.
type DragWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Window id to drag"`
	X        int    `json:"x" jsonschema:"Target x of the window's top-left corner, in desktop pixels. Clamped to the viewport."`
	Y        int    `json:"y" jsonschema:"Target y of the window's top-left corner, in desktop pixels. Clamped above the taskbar."`
}

// ResizeWindowInput is the input for the resize_window tool.
type ResizeWindowInput struct {
	WindowID string `json:"window_id" jsonschema:"Window id to resize"`
	Edge     string `json:"edge" jsonschema:"Handle to drag: n, s, e, w, ne, nw, se or sw"`
	DX       int    `json:"dx" jsonschema:"Horizontal pointer movement in pixels"`
	DY       int    `json:"dy" jsonschema:"Vertical pointer movement in pixels"`
}

// SetViewportInput is the input for the set_viewport tool.
type SetViewportInput struct {
	Width         int `json:"width" jsonschema:"Viewport width in pixels"`
	Height        int `json:"height" jsonschema:"Viewport height in pixels, including the taskbar"`
	TaskbarHeight int `json:"taskbar_height,omitempty" jsonschema:"Taskbar height in pixels (default: keep current)"`
}

// WindowState describes one open window.
type WindowState struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	State     string `json:"state"`
	Active    bool   `json:"active"`
	Maximized bool   `json:"maximized"`
	ZRank     int    `json:"z_rank"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
}

// TaskbarItem describes one taskbar entry.
type TaskbarItem struct {
	WindowID string `json:"window_id"`
	Label    string `json:"label"`
	Active   bool   `json:"active"`
}

// DesktopOutput is the output for get_desktop and every mutating tool.
type DesktopOutput struct {
	ViewportWidth  int           `json:"viewport_width"`
	ViewportHeight int           `json:"viewport_height"`
	TaskbarHeight  int           `json:"taskbar_height"`
	ActiveWindow   string        `json:"active_window"`
	Gesture        string        `json:"gesture"`
	Windows        []WindowState `json:"windows"`
	Taskbar        []TaskbarItem `json:"taskbar"`
}

// CatalogWindow describes a launchable window and whether it is open.
type CatalogWindow struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Icon      string `json:"icon,omitempty"`
	State     string `json:"state"`
	Active    bool   `json:"active"`
	OnTaskbar bool   `json:"on_taskbar"`
}

// ListWindowsOutput is the output for the list_windows tool.
type ListWindowsOutput struct {
	Windows []CatalogWindow `json:"windows"`
}
